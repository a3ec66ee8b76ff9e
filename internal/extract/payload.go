package extract

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/sells-group/tripscore/internal/model"
)

// Keys that may hold the record list in a payload envelope, tried in order.
var (
	outboundKeys = []string{"outboundFlights", "outbound_flights", "flights", "data", "offers"}
	returnKeys   = []string{"returnFlights", "return_flights"}
	hotelKeys    = []string{"hotels", "data", "offers"}
	activityKeys = []string{"activities", "data"}
)

// FlightsFromPayload extracts outbound flights from a JSON payload. Both flat
// option objects and provider-style offers with "itineraries" are accepted;
// for an offer the first itinerary is the outbound leg.
func FlightsFromPayload(data []byte) []Result[model.FlightOption] {
	out := []Result[model.FlightOption]{}
	for _, item := range payloadItems(data, outboundKeys) {
		if itins := item.Get("itineraries"); itins.IsArray() {
			if legs := itins.Array(); len(legs) > 0 {
				out = append(out, flightFromOffer(item, legs[0], 0))
			}
			continue
		}
		out = append(out, flightFromObject(item))
	}
	return out
}

// ReturnFlightsFromPayload extracts return legs: the second itinerary of each
// offer, or the flat objects under a "returnFlights" key.
func ReturnFlightsFromPayload(data []byte) []Result[model.FlightOption] {
	out := []Result[model.FlightOption]{}
	if !validPayload(data) {
		return out
	}

	root := gjson.ParseBytes(data)
	for _, key := range returnKeys {
		if v := root.Get(key); v.IsArray() {
			for _, item := range v.Array() {
				out = append(out, flightFromObject(item))
			}
			return out
		}
	}

	for _, item := range payloadItems(data, outboundKeys) {
		legs := item.Get("itineraries").Array()
		if len(legs) > 1 {
			out = append(out, flightFromOffer(item, legs[1], 1))
		}
	}
	return out
}

// ReturnLegs extracts the return flights of a round-trip search. When ret is
// the outbound payload only embedded return legs count; a dedicated return
// payload may also list plain flights.
func ReturnLegs(outbound, ret []byte) []Result[model.FlightOption] {
	legs := ReturnFlightsFromPayload(ret)
	if len(legs) > 0 || len(ret) == 0 || bytes.Equal(outbound, ret) {
		return legs
	}
	return FlightsFromPayload(ret)
}

// HotelsFromPayload extracts hotels from flat objects or offers that nest the
// property under "hotel" and pricing under "offers".
func HotelsFromPayload(data []byte) []Result[model.HotelOption] {
	out := []Result[model.HotelOption]{}
	for _, item := range payloadItems(data, hotelKeys) {
		out = append(out, hotelFromObject(item))
	}
	return out
}

// ActivitiesFromPayload extracts bookable activities.
func ActivitiesFromPayload(data []byte) []Result[model.ActivityOption] {
	out := []Result[model.ActivityOption]{}
	for _, item := range payloadItems(data, activityKeys) {
		out = append(out, activityFromObject(item))
	}
	return out
}

func validPayload(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if !gjson.ValidBytes(data) {
		zap.L().Debug("extract: payload is not valid JSON", zap.Int("bytes", len(data)))
		return false
	}
	return true
}

// payloadItems finds the record list in a payload: a top-level array, the
// first envelope key holding an array (or a single object), or the root
// object itself.
func payloadItems(data []byte, keys []string) []gjson.Result {
	if !validPayload(data) {
		return nil
	}
	root := gjson.ParseBytes(data)
	if root.IsArray() {
		return objects(root.Array())
	}
	if !root.IsObject() {
		return nil
	}
	for _, key := range keys {
		v := root.Get(key)
		switch {
		case v.IsArray():
			return objects(v.Array())
		case v.IsObject():
			return []gjson.Result{v}
		}
	}
	if len(root.Map()) == 0 {
		return nil
	}
	return []gjson.Result{root}
}

func objects(items []gjson.Result) []gjson.Result {
	out := items[:0:0]
	for _, it := range items {
		if it.IsObject() {
			out = append(out, it)
		}
	}
	return out
}

func flightFromObject(item gjson.Result) Result[model.FlightOption] {
	t := &tracker{kind: model.KindFlight}
	f := model.FlightOption{}

	code := scalarText(first(item, "airline", "airlineName", "airline_name", "carrier", "carrierCode", "carrier_code"))
	f.Airline = defaultText(AirlineName(code), model.UnknownLabel, "airline", t)
	f.FlightNumber = defaultText(scalarText(first(item, "flightNumber", "flight_number", "flight_code", "flightCode", "number")), "", "flight_number", t)

	f.PriceAmount, f.CurrencyCode = priceOf(item, t,
		[]string{"price", "price_amount", "priceAmount", "total"},
		[]string{"currency", "currency_code", "currencyCode"})

	dur := first(item, "duration_hours", "durationHours", "duration")
	if h, ok := hoursOf(dur); ok {
		f.DurationHours = h
	} else {
		t.mark("duration_hours")
	}

	stops := first(item, "stops", "stop_count", "stopCount", "numberOfStops")
	if n, ok := stopsOf(stops); ok {
		f.StopCount = n
	} else {
		t.mark("stop_count")
	}

	dep := first(item, "departure", "departure_time", "departureTime", "departure_label", "departureLabel")
	arr := first(item, "arrival", "arrival_time", "arrivalTime", "arrival_label", "arrivalLabel")
	f.DepartureLabel = defaultText(TimeLabel(endpointTime(dep)), "", "departure_label", t)
	f.ArrivalLabel = defaultText(TimeLabel(endpointTime(arr)), "", "arrival_label", t)
	f.Origin = strings.ToUpper(firstText(scalarText(first(item, "origin", "departureAirport", "departure_airport")), endpointAirport(dep)))
	f.Destination = strings.ToUpper(firstText(scalarText(first(item, "destination", "arrivalAirport", "arrival_airport")), endpointAirport(arr)))

	f.ID = firstText(scalarText(item.Get("id")), recordID(model.KindFlight, item.Raw))
	f.ExtractionConfidence = t.confidence()
	return Result[model.FlightOption]{Record: f, Confidence: f.ExtractionConfidence, Defaulted: t.fields}
}

// flightFromOffer builds one leg of a provider offer. Airline, flight number
// and departure come from the first segment; arrival from the last. Stops are
// the segment count minus one.
func flightFromOffer(offer, itin gjson.Result, leg int) Result[model.FlightOption] {
	t := &tracker{kind: model.KindFlight}
	f := model.FlightOption{}

	segments := itin.Get("segments").Array()
	var firstSeg, lastSeg gjson.Result
	if len(segments) > 0 {
		firstSeg, lastSeg = segments[0], segments[len(segments)-1]
		f.StopCount = len(segments) - 1
	} else {
		t.mark("stop_count")
	}

	code := scalarText(first(firstSeg, "carrierCode", "airline", "operating.carrierCode"))
	f.Airline = defaultText(AirlineName(code), model.UnknownLabel, "airline", t)
	number := scalarText(first(firstSeg, "number", "flight_number"))
	f.FlightNumber = defaultText(strings.TrimSpace(code+" "+number), "", "flight_number", t)

	f.PriceAmount, f.CurrencyCode = priceOf(offer, t,
		[]string{"price", "total"},
		[]string{"currency", "price.currency"})

	if h, ok := hoursOf(itin.Get("duration")); ok {
		f.DurationHours = h
	} else {
		t.mark("duration_hours")
	}

	dep, arr := firstSeg.Get("departure"), lastSeg.Get("arrival")
	f.DepartureLabel = defaultText(TimeLabel(endpointTime(dep)), "", "departure_label", t)
	f.ArrivalLabel = defaultText(TimeLabel(endpointTime(arr)), "", "arrival_label", t)
	f.Origin = strings.ToUpper(endpointAirport(dep))
	f.Destination = strings.ToUpper(endpointAirport(arr))

	if id := scalarText(offer.Get("id")); id != "" {
		f.ID = id + "_" + strconv.Itoa(leg)
	} else {
		f.ID = recordID(model.KindFlight, offer.Raw, strconv.Itoa(leg))
	}
	f.ExtractionConfidence = t.confidence()
	return Result[model.FlightOption]{Record: f, Confidence: f.ExtractionConfidence, Defaulted: t.fields}
}

func hotelFromObject(item gjson.Result) Result[model.HotelOption] {
	t := &tracker{kind: model.KindHotel}
	h := model.HotelOption{}

	prop := item
	if nested := item.Get("hotel"); nested.IsObject() {
		prop = nested
	}
	offer := item
	if offers := item.Get("offers"); offers.IsArray() && len(offers.Array()) > 0 {
		offer = offers.Array()[0]
	}

	h.Name = defaultText(scalarText(first(prop, "name", "hotel_name", "hotelName")), model.UnknownLabel, "name", t)
	h.Location = defaultText(scalarText(first(prop, "location", "address.cityName", "city", "cityCode")), model.UnknownLabel, "location", t)
	h.PricePerNight, h.CurrencyCode = priceOf(offer, t,
		[]string{"price_per_night", "pricePerNight", "price"},
		[]string{"currency", "currency_code", "currencyCode"})
	h.Rating = ratingOf(first(prop, "rating", "stars"), t)
	h.CheckInLabel = defaultText(scalarText(first(offer, "checkInDate", "check_in", "checkIn")), "", "check_in_label", t)
	h.CheckOutLabel = defaultText(scalarText(first(offer, "checkOutDate", "check_out", "checkOut")), "", "check_out_label", t)

	h.ID = firstText(scalarText(first(prop, "hotelId", "hotel_id", "id")), recordID(model.KindHotel, item.Raw))
	h.ExtractionConfidence = t.confidence()
	return Result[model.HotelOption]{Record: h, Confidence: h.ExtractionConfidence, Defaulted: t.fields}
}

func activityFromObject(item gjson.Result) Result[model.ActivityOption] {
	t := &tracker{kind: model.KindActivity}
	a := model.ActivityOption{}

	a.Name = defaultText(scalarText(first(item, "name", "title")), model.UnknownLabel, "name", t)
	a.Description = defaultText(scalarText(first(item, "shortDescription", "short_description", "description")), "", "description", t)

	dur := first(item, "minimumDuration", "minimum_duration", "duration", "duration_label")
	switch {
	case dur.Type == gjson.Number:
		a.DurationLabel = FormatDuration(dur.Num)
	case scalarText(dur) != "":
		if h, ok := ParseDuration(dur.Str); ok && strings.HasPrefix(strings.ToUpper(dur.Str), "P") {
			a.DurationLabel = FormatDuration(h)
		} else {
			a.DurationLabel = scalarText(dur)
		}
	default:
		t.mark("duration_label")
	}

	a.PriceAmount, a.CurrencyCode = priceOf(item, t,
		[]string{"price", "price_amount", "priceAmount"},
		[]string{"currency", "currency_code", "currencyCode"})
	a.Rating = ratingOf(item.Get("rating"), t)

	a.ID = firstText(scalarText(item.Get("id")), recordID(model.KindActivity, item.Raw))
	a.ExtractionConfidence = t.confidence()
	return Result[model.ActivityOption]{Record: a, Confidence: a.ExtractionConfidence, Defaulted: t.fields}
}

// priceOf resolves the amount and currency of a record. The price field may be
// a number, a string such as "$450", or an object with total/amount and
// currency/currencyCode. An explicit currency field overrides one read from
// the price text.
func priceOf(item gjson.Result, t *tracker, amountKeys, currencyKeys []string) (float64, string) {
	var (
		amount     float64
		cur        = model.DefaultCurrency
		amountOK   bool
		currencyOK bool
	)

	p := first(item, amountKeys...)
	switch {
	case p.IsObject():
		amount, amountOK = number(first(p, "total", "grandTotal", "amount", "base"))
		cur, currencyOK = CurrencyCode(scalarText(first(p, "currency", "currencyCode", "currency_code")))
	case p.Type == gjson.Number:
		amount, amountOK = number(p)
	case p.Type == gjson.String:
		amount, cur, amountOK, currencyOK = ParsePrice(p.Str)
	}

	if c, ok := CurrencyCode(scalarText(first(item, currencyKeys...))); ok {
		cur, currencyOK = c, true
	}

	if !amountOK {
		t.mark("price_amount")
	}
	if !currencyOK {
		t.mark("currency_code")
	}
	return amount, cur
}

func hoursOf(r gjson.Result) (float64, bool) {
	switch r.Type {
	case gjson.Number:
		return number(r)
	case gjson.String:
		if v, ok := number(r); ok {
			return v, true
		}
		return ParseDuration(r.Str)
	}
	return 0, false
}

func stopsOf(r gjson.Result) (int, bool) {
	switch r.Type {
	case gjson.Number:
		v, ok := number(r)
		return int(v), ok
	case gjson.String:
		return ParseStops(r.Str)
	}
	return 0, false
}

func ratingOf(r gjson.Result, t *tracker) float64 {
	v, ok := number(r)
	if !ok {
		t.mark("rating")
		return 0
	}
	return math.Min(v, 5)
}

// number coerces numbers and numeric strings. Anything else, including NaN,
// infinities and negatives, is 0 and false.
func number(r gjson.Result) (float64, bool) {
	var v float64
	switch r.Type {
	case gjson.Number:
		v = r.Num
	case gjson.String:
		f, err := cast.ToFloat64E(strings.TrimSpace(r.Str))
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

// endpointTime reads a departure/arrival value that is either a plain string
// or an object carrying "at" or "time".
func endpointTime(r gjson.Result) string {
	if r.IsObject() {
		return scalarText(first(r, "at", "time", "dateTime"))
	}
	return scalarText(r)
}

func endpointAirport(r gjson.Result) string {
	if r.IsObject() {
		return scalarText(first(r, "iataCode", "airport", "code"))
	}
	return ""
}

// first returns the first path that exists with a non-null value.
func first(r gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

// scalarText returns scalar values as trimmed strings and "" for objects, arrays
// and null.
func scalarText(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return strings.TrimSpace(r.Str)
	case gjson.Number:
		return r.Raw
	case gjson.True, gjson.False:
		return r.Raw
	}
	return ""
}

func firstText(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func defaultText(v, fallback, field string, t *tracker) string {
	if v == "" {
		t.mark(field)
		return fallback
	}
	return v
}
