package extract

import (
	"strings"

	"github.com/araddon/dateparse"
)

// airlineNames maps IATA carrier codes to display names.
var airlineNames = map[string]string{
	"TK": "Turkish Airlines",
	"UA": "United Airlines",
	"AA": "American Airlines",
	"DL": "Delta Airlines",
	"BA": "British Airways",
	"LH": "Lufthansa",
	"AF": "Air France",
	"KL": "KLM",
	"EK": "Emirates",
	"QR": "Qatar Airways",
	"SQ": "Singapore Airlines",
	"AC": "Air Canada",
	"NH": "All Nippon Airways",
	"JL": "Japan Airlines",
	"CX": "Cathay Pacific",
	"QF": "Qantas",
	"EY": "Etihad Airways",
	"OS": "Austrian Airlines",
	"LX": "SWISS",
	"SK": "SAS",
	"AZ": "ITA Airways",
	"IB": "Iberia",
	"TP": "TAP Air Portugal",
	"SN": "Brussels Airlines",
	"LO": "LOT Polish Airlines",
	"OK": "Czech Airlines",
	"A3": "Aegean Airlines",
	"TG": "Thai Airways",
	"SV": "Saudia",
	"MS": "EgyptAir",
	"ET": "Ethiopian Airlines",
	"WN": "Southwest Airlines",
	"B6": "JetBlue",
	"NK": "Spirit Airlines",
	"F9": "Frontier Airlines",
	"AS": "Alaska Airlines",
}

// AirlineName resolves a carrier code to its display name. Unknown codes and
// values that are already names are returned unchanged.
func AirlineName(code string) string {
	code = strings.TrimSpace(code)
	if name, ok := airlineNames[strings.ToUpper(code)]; ok {
		return name
	}
	return code
}

// TimeLabel formats a timestamp such as "2025-11-20T15:04:00" as "03:04 PM".
// Values that do not parse as a timestamp are returned trimmed but otherwise
// unchanged.
func TimeLabel(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return s
	}
	return t.Format("03:04 PM")
}
