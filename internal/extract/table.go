package extract

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/tripscore/internal/model"
)

// TableRows is a header row followed by data rows, as read from a markdown
// table, a CSV export or a spreadsheet.
type TableRows [][]string

// Header returns the first row, or nil for an empty table.
func (t TableRows) Header() []string {
	if len(t) == 0 {
		return nil
	}
	return t[0]
}

// Data returns every row after the header.
func (t TableRows) Data() [][]string {
	if len(t) < 2 {
		return nil
	}
	return t[1:]
}

// Column identifies a flight field resolved from a table header.
type Column string

const (
	ColPrice      Column = "price"
	ColDuration   Column = "duration"
	ColStops      Column = "stops"
	ColDeparture  Column = "departure"
	ColArrival    Column = "arrival"
	ColAirline    Column = "airline"
	ColFlightCode Column = "flight_code"
)

// Absent is the column index of a field no header cell matched.
const Absent = -1

type columnRule struct {
	col      Column
	keywords []string
}

// flightColumns is evaluated in order; the first header cell containing any
// keyword wins, and a claimed cell is not offered to later fields.
var flightColumns = []columnRule{
	{ColPrice, []string{"price", "fare", "cost"}},
	{ColDuration, []string{"duration", "length", "travel time"}},
	{ColStops, []string{"stop", "stops", "layover"}},
	{ColDeparture, []string{"depart"}},
	{ColArrival, []string{"arriv"}},
	{ColAirline, []string{"airline", "carrier"}},
	{ColFlightCode, []string{"code", "flight", "number"}},
}

// ColumnMap maps each flight field to a header index, or Absent.
type ColumnMap map[Column]int

// Index returns the header index for col, or Absent.
func (m ColumnMap) Index(col Column) int {
	if i, ok := m[col]; ok {
		return i
	}
	return Absent
}

// DetectColumns matches header cells to flight fields case-insensitively.
func DetectColumns(header []string) ColumnMap {
	lowered := make([]string, len(header))
	for i, h := range header {
		lowered[i] = strings.ToLower(CleanCell(h))
	}

	claimed := make([]bool, len(header))
	out := make(ColumnMap, len(flightColumns))
	for _, rule := range flightColumns {
		out[rule.col] = Absent
		for i, cell := range lowered {
			if claimed[i] || !containsAny(cell, rule.keywords) {
				continue
			}
			out[rule.col] = i
			claimed[i] = true
			break
		}
	}
	return out
}

// IsSeparatorRow reports whether every cell is a run of dashes once alignment
// colons and spaces are trimmed, as in "|:---|---:|".
func IsSeparatorRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	for _, cell := range row {
		c := strings.Trim(cell, " :\t")
		if c == "" || strings.Trim(c, "-") != "" {
			return false
		}
	}
	return true
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// FlightsFromTable extracts one flight per data row. Separator and empty rows
// are skipped; missing columns and unparseable cells fall back to defaults.
func FlightsFromTable(rows TableRows) []Result[model.FlightOption] {
	out := []Result[model.FlightOption]{}
	if len(rows) < 2 {
		return out
	}

	cols := DetectColumns(rows.Header())
	skipped := 0
	for _, row := range rows.Data() {
		if IsSeparatorRow(row) || isEmptyRow(row) {
			skipped++
			continue
		}
		out = append(out, flightFromRow(row, cols))
	}

	if skipped > 0 {
		zap.L().Debug("extract: skipped table rows", zap.Int("skipped", skipped))
	}
	return out
}

func flightFromRow(row []string, cols ColumnMap) Result[model.FlightOption] {
	t := &tracker{kind: model.KindFlight}
	cell := func(col Column) (string, bool) {
		i := cols.Index(col)
		if i == Absent || i >= len(row) {
			return "", false
		}
		v := CleanCell(row[i])
		return v, v != ""
	}

	f := model.FlightOption{
		Airline:      model.UnknownLabel,
		CurrencyCode: model.DefaultCurrency,
	}

	if v, ok := cell(ColAirline); ok {
		f.Airline = v
	} else {
		t.mark("airline")
	}
	if v, ok := cell(ColFlightCode); ok {
		f.FlightNumber = v
	} else {
		t.mark("flight_number")
	}

	raw, _ := cell(ColPrice)
	amount, cur, amountOK, currencyOK := ParsePrice(raw)
	f.PriceAmount, f.CurrencyCode = amount, cur
	if !amountOK {
		t.mark("price_amount")
	}
	if !currencyOK {
		t.mark("currency_code")
	}

	raw, _ = cell(ColDuration)
	if h, ok := ParseDuration(raw); ok {
		f.DurationHours = h
	} else {
		t.mark("duration_hours")
	}

	raw, _ = cell(ColStops)
	if n, ok := ParseStops(raw); ok {
		f.StopCount = n
	} else {
		t.mark("stop_count")
	}

	if v, ok := cell(ColDeparture); ok {
		f.DepartureLabel = v
	} else {
		t.mark("departure_label")
	}
	if v, ok := cell(ColArrival); ok {
		f.ArrivalLabel = v
	} else {
		t.mark("arrival_label")
	}

	f.ID = recordID(model.KindFlight, row...)
	f.ExtractionConfidence = t.confidence()
	return Result[model.FlightOption]{Record: f, Confidence: f.ExtractionConfidence, Defaulted: t.fields}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// FlightTable lays flights out as table rows that FlightsFromTable reads back.
func FlightTable(flights []model.FlightOption) TableRows {
	rows := TableRows{{"Airline", "Flight Code", "Price", "Duration", "Stops", "Departure", "Arrival"}}
	for _, f := range flights {
		rows = append(rows, []string{
			f.Airline,
			f.FlightNumber,
			FormatPrice(f.PriceAmount, f.CurrencyCode),
			FormatDuration(f.DurationHours),
			FormatStops(f.StopCount),
			f.DepartureLabel,
			f.ArrivalLabel,
		})
	}
	return rows
}
