package model

import "time"

// ItineraryDay is one day of an assembled trip.
type ItineraryDay struct {
	DayIndex  int             `json:"day_index"`
	Date      time.Time       `json:"date"`
	DateLabel string          `json:"date_label"`
	Items     []ItineraryItem `json:"items"`
}

// ItineraryItem is a tagged union over flight, hotel and activity slots.
// Exactly one of Flight, Hotel or Activity is set, matching Kind.
type ItineraryItem struct {
	Kind          OptionKind    `json:"kind"`
	Title         string        `json:"title"`
	TimeLabel     string        `json:"time_label"`
	IsPlaceholder bool          `json:"is_placeholder"`
	Flight        *FlightMeta   `json:"flight,omitempty"`
	Hotel         *HotelMeta    `json:"hotel,omitempty"`
	Activity      *ActivityMeta `json:"activity,omitempty"`
}

// FlightMeta carries flight-specific item metadata.
type FlightMeta struct {
	FlightID      string  `json:"flight_id,omitempty"`
	Airline       string  `json:"airline"`
	FlightNumber  string  `json:"flight_number"`
	Price         float64 `json:"price"`
	CurrencyCode  string  `json:"currency_code"`
	DurationHours float64 `json:"duration_hours"`
	Duration      string  `json:"duration"`
	Stops         int     `json:"stops"`
	Leg           string  `json:"leg"` // outbound or return
}

// HotelMeta carries hotel-specific item metadata.
type HotelMeta struct {
	HotelID       string  `json:"hotel_id,omitempty"`
	Location      string  `json:"location"`
	PricePerNight float64 `json:"price_per_night"`
	CurrencyCode  string  `json:"currency_code"`
	Rating        float64 `json:"rating"`
	Stay          string  `json:"stay"` // check_in or overnight
}

// ActivityMeta carries activity-specific item metadata.
type ActivityMeta struct {
	ActivityID   string  `json:"activity_id,omitempty"`
	Description  string  `json:"description,omitempty"`
	Duration     string  `json:"duration,omitempty"`
	Price        float64 `json:"price"`
	CurrencyCode string  `json:"currency_code"`
	Rating       float64 `json:"rating"`
}
