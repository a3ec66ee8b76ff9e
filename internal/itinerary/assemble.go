// Package itinerary lays the chosen flight, hotel and activities out as a
// day-by-day trip.
package itinerary

import (
	"math"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/tripscore/internal/extract"
	"github.com/sells-group/tripscore/internal/model"
)

// ErrMissingDateRange is returned when no usable start date was supplied.
var ErrMissingDateRange = eris.New("itinerary: missing date range")

// DefaultActivitiesPerDay is how many pool activities fill each middle day.
const DefaultActivitiesPerDay = 2

// Flight legs and hotel stay kinds carried in item metadata.
const (
	LegOutbound = "outbound"
	LegReturn   = "return"

	StayCheckIn   = "check_in"
	StayOvernight = "overnight"
)

// Time-of-day labels for slots that have no concrete time.
const (
	labelMorning   = "Morning"
	labelAfternoon = "Afternoon"
	labelEvening   = "Evening"
	labelAllDay    = "All day"
	labelTBD       = "TBD"
)

// Input is everything Assemble needs. Flight, ReturnFlight and Hotel may be
// nil, in which case placeholder items stand in for them.
type Input struct {
	Flight           *model.FlightOption
	ReturnFlight     *model.FlightOption
	Hotel            *model.HotelOption
	Activities       []model.ActivityOption
	Start            time.Time
	End              time.Time
	Return           *time.Time
	Locale           string
	ActivitiesPerDay int
}

// Assemble builds the trip.
//
// Day 1 holds the outbound flight and the hotel check-in. Each following day
// up to the day count takes the next activities from the pool, or a single
// "Open exploration" placeholder once the pool runs out, and ends with an
// overnight hotel item. When a return date after the start is given, one more
// day holds the return flight. A trip that ends on or before its start day is
// a single day.
func Assemble(in Input) ([]model.ItineraryDay, error) {
	if in.Start.IsZero() {
		return nil, ErrMissingDateRange
	}

	start := dateOnly(in.Start)
	end := start
	if !in.End.IsZero() {
		end = dateOnly(in.End)
	}
	perDay := in.ActivitiesPerDay
	if perDay <= 0 {
		perDay = DefaultActivitiesPerDay
	}

	count := dayCount(start, end)
	days := make([]model.ItineraryDay, 0, count+1)

	days = append(days, newDay(1, start, in.Locale,
		flightItem(in.Flight, LegOutbound),
		hotelItem(in.Hotel, StayCheckIn),
	))

	for i := 2; i <= count; i++ {
		var items []model.ItineraryItem
		from := (i - 2) * perDay
		for j := 0; j < perDay && from+j < len(in.Activities); j++ {
			items = append(items, activityItem(in.Activities[from+j], slotLabel(j)))
		}
		if len(items) == 0 {
			items = append(items, explorationItem())
		}
		items = append(items, hotelItem(in.Hotel, StayOvernight))
		days = append(days, newDay(i, start, in.Locale, items...))
	}

	if count > 1 && in.Return != nil && dateOnly(*in.Return).After(start) {
		days = append(days, newDay(count+1, start, in.Locale, flightItem(in.ReturnFlight, LegReturn)))
	}

	return days, nil
}

// dayCount is the whole number of days from start to end, rounded up, and at
// least 1.
func dayCount(start, end time.Time) int {
	n := int(math.Ceil(end.Sub(start).Hours() / 24))
	if n < 1 {
		return 1
	}
	return n
}

func newDay(index int, start time.Time, locale string, items ...model.ItineraryItem) model.ItineraryDay {
	date := start.AddDate(0, 0, index-1)
	return model.ItineraryDay{
		DayIndex:  index,
		Date:      date,
		DateLabel: DateLabel(date, locale),
		Items:     items,
	}
}

func slotLabel(j int) string {
	switch j {
	case 0:
		return labelMorning
	case 1:
		return labelAfternoon
	default:
		return labelEvening
	}
}

func flightItem(f *model.FlightOption, leg string) model.ItineraryItem {
	if f == nil {
		title := "Outbound flight"
		if leg == LegReturn {
			title = "Return flight"
		}
		return model.ItineraryItem{
			Kind:          model.KindFlight,
			Title:         title,
			TimeLabel:     labelTBD,
			IsPlaceholder: true,
			Flight: &model.FlightMeta{
				Airline:      model.UnknownLabel,
				CurrencyCode: model.DefaultCurrency,
				Leg:          leg,
			},
		}
	}

	title := strings.TrimSpace(f.Airline + " " + f.FlightNumber)
	if route := routeLabel(f); route != "" {
		title += " (" + route + ")"
	}
	return model.ItineraryItem{
		Kind:      model.KindFlight,
		Title:     title,
		TimeLabel: orDefault(f.DepartureLabel, labelTBD),
		Flight: &model.FlightMeta{
			FlightID:      f.ID,
			Airline:       f.Airline,
			FlightNumber:  f.FlightNumber,
			Price:         f.PriceAmount,
			CurrencyCode:  f.CurrencyCode,
			DurationHours: f.DurationHours,
			Duration:      extract.FormatDuration(f.DurationHours),
			Stops:         f.StopCount,
			Leg:           leg,
		},
	}
}

func routeLabel(f *model.FlightOption) string {
	if f.Origin == "" || f.Destination == "" {
		return ""
	}
	return f.Origin + " → " + f.Destination
}

func hotelItem(h *model.HotelOption, stay string) model.ItineraryItem {
	timeLabel := labelAfternoon
	if stay == StayOvernight {
		timeLabel = labelEvening
	}

	if h == nil {
		title := "Hotel check-in"
		if stay == StayOvernight {
			title = "Overnight stay"
		}
		return model.ItineraryItem{
			Kind:          model.KindHotel,
			Title:         title,
			TimeLabel:     timeLabel,
			IsPlaceholder: true,
			Hotel: &model.HotelMeta{
				Location:     model.UnknownLabel,
				CurrencyCode: model.DefaultCurrency,
				Stay:         stay,
			},
		}
	}

	title := "Check in: " + h.Name
	if stay == StayOvernight {
		title = "Overnight at " + h.Name
	}
	return model.ItineraryItem{
		Kind:      model.KindHotel,
		Title:     title,
		TimeLabel: timeLabel,
		Hotel: &model.HotelMeta{
			HotelID:       h.ID,
			Location:      h.Location,
			PricePerNight: h.PricePerNight,
			CurrencyCode:  h.CurrencyCode,
			Rating:        h.Rating,
			Stay:          stay,
		},
	}
}

func activityItem(a model.ActivityOption, timeLabel string) model.ItineraryItem {
	return model.ItineraryItem{
		Kind:      model.KindActivity,
		Title:     a.Name,
		TimeLabel: timeLabel,
		Activity: &model.ActivityMeta{
			ActivityID:   a.ID,
			Description:  a.Description,
			Duration:     a.DurationLabel,
			Price:        a.PriceAmount,
			CurrencyCode: a.CurrencyCode,
			Rating:       a.Rating,
		},
	}
}

func explorationItem() model.ItineraryItem {
	return model.ItineraryItem{
		Kind:          model.KindActivity,
		Title:         "Open exploration",
		TimeLabel:     labelAllDay,
		IsPlaceholder: true,
		Activity:      &model.ActivityMeta{CurrencyCode: model.DefaultCurrency},
	}
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
