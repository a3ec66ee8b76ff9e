package extract

import (
	"github.com/tidwall/gjson"

	"github.com/sells-group/tripscore/internal/model"
)

// Document is every record found in one input: a markdown message, a
// payload file or a table.
type Document struct {
	Flights       []Result[model.FlightOption]   `json:"flights"`
	ReturnFlights []Result[model.FlightOption]   `json:"return_flights"`
	Hotels        []Result[model.HotelOption]    `json:"hotels"`
	Activities    []Result[model.ActivityOption] `json:"activities"`
	Structured    []StructuredBlock              `json:"structured"`
}

// NewDocument returns a Document with every list empty but non-nil.
func NewDocument() Document {
	return Document{
		Flights:       []Result[model.FlightOption]{},
		ReturnFlights: []Result[model.FlightOption]{},
		Hotels:        []Result[model.HotelOption]{},
		Activities:    []Result[model.ActivityOption]{},
		Structured:    []StructuredBlock{},
	}
}

// Merge appends other's records to d.
func (d *Document) Merge(other Document) {
	d.Flights = append(d.Flights, other.Flights...)
	d.ReturnFlights = append(d.ReturnFlights, other.ReturnFlights...)
	d.Hotels = append(d.Hotels, other.Hotels...)
	d.Activities = append(d.Activities, other.Activities...)
	d.Structured = append(d.Structured, other.Structured...)
}

// FromMarkdown extracts flights from every table and routes each json block
// through FromPayload. Itinerary and location blocks are passed through
// untouched.
func FromMarkdown(src string) Document {
	blocks := ParseBlocks(src)
	doc := NewDocument()

	for _, table := range blocks.Tables {
		doc.Flights = append(doc.Flights, FlightsFromTable(table)...)
	}
	for _, block := range blocks.Structured {
		if block.Tag != TagJSON {
			doc.Structured = append(doc.Structured, block)
			continue
		}
		doc.Merge(FromPayload([]byte(block.Raw)))
	}
	return doc
}

// FromPayload routes a JSON payload by envelope: a hotels key yields hotels
// and an activities key yields activities. Generic envelopes ("data",
// "offers", a bare array) are routed by the shape of their first record, and
// anything unrecognized is read as flights with their return legs.
func FromPayload(data []byte) Document {
	doc := NewDocument()
	switch PayloadKind(data) {
	case model.KindHotel:
		doc.Hotels = HotelsFromPayload(data)
	case model.KindActivity:
		doc.Activities = ActivitiesFromPayload(data)
	default:
		doc.Flights = FlightsFromPayload(data)
		doc.ReturnFlights = ReturnFlightsFromPayload(data)
	}
	return doc
}

// Fields that identify a record kind when the envelope does not.
var (
	hotelMarkers    = []string{"hotel", "hotelId", "hotel_id", "price_per_night", "pricePerNight", "check_in", "checkInDate"}
	activityMarkers = []string{"shortDescription", "minimumDuration", "bookingLink", "activity_id", "duration_label"}
)

// PayloadKind guesses which record kind a payload holds.
func PayloadKind(data []byte) model.OptionKind {
	switch {
	case gjson.GetBytes(data, "hotels").Exists():
		return model.KindHotel
	case gjson.GetBytes(data, "activities").Exists():
		return model.KindActivity
	}

	items := payloadItems(data, []string{"data", "offers"})
	if len(items) == 0 || items[0].Get("itineraries").Exists() {
		return model.KindFlight
	}
	for _, key := range hotelMarkers {
		if items[0].Get(key).Exists() {
			return model.KindHotel
		}
	}
	for _, key := range activityMarkers {
		if items[0].Get(key).Exists() {
			return model.KindActivity
		}
	}
	return model.KindFlight
}

// FromTable extracts flights from a table.
func FromTable(rows TableRows) Document {
	doc := NewDocument()
	doc.Flights = FlightsFromTable(rows)
	return doc
}
