// Package model defines the canonical travel records shared by the extractor,
// scorer, itinerary assembler and comparison engine.
package model

// Confidence tags how a canonical record was produced.
type Confidence string

const (
	ConfidenceFull    Confidence = "full"    // every field matched directly
	ConfidencePartial Confidence = "partial" // one or more fields filled by default
)

// OptionKind identifies the type of a canonical record.
type OptionKind string

const (
	KindFlight   OptionKind = "flight"
	KindHotel    OptionKind = "hotel"
	KindActivity OptionKind = "activity"
)

// Default currency and placeholder values used when a field cannot be matched.
const (
	DefaultCurrency = "USD"
	UnknownLabel    = "Unknown"
)

// FlightOption is a canonical flight leg.
type FlightOption struct {
	ID                   string     `json:"id"`
	Airline              string     `json:"airline"`
	FlightNumber         string     `json:"flight_number"`
	PriceAmount          float64    `json:"price_amount"`
	CurrencyCode         string     `json:"currency_code"`
	DurationHours        float64    `json:"duration_hours"`
	StopCount            int        `json:"stop_count"`
	DepartureLabel       string     `json:"departure_label"`
	ArrivalLabel         string     `json:"arrival_label"`
	Origin               string     `json:"origin,omitempty"`
	Destination          string     `json:"destination,omitempty"`
	IsOptimal            bool       `json:"is_optimal"`
	ExtractionConfidence Confidence `json:"extraction_confidence"`
}

// HotelOption is a canonical hotel offer.
type HotelOption struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	Location             string     `json:"location"`
	PricePerNight        float64    `json:"price_per_night"`
	CurrencyCode         string     `json:"currency_code"`
	Rating               float64    `json:"rating"`
	CheckInLabel         string     `json:"check_in_label"`
	CheckOutLabel        string     `json:"check_out_label"`
	ExtractionConfidence Confidence `json:"extraction_confidence"`
}

// ActivityOption is a canonical bookable activity.
type ActivityOption struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	Description          string     `json:"description"`
	DurationLabel        string     `json:"duration_label"`
	PriceAmount          float64    `json:"price_amount"`
	CurrencyCode         string     `json:"currency_code"`
	Rating               float64    `json:"rating"`
	ExtractionConfidence Confidence `json:"extraction_confidence"`
}
