package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/sells-group/tripscore/internal/model"
)

var (
	linkPattern     = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	tagPattern      = regexp.MustCompile(`<[^>]*>`)
	emphasisPattern = regexp.MustCompile("[*_~`]+")
	amountPattern   = regexp.MustCompile(`\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?`)

	isoDurationPattern   = regexp.MustCompile(`(?i)^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?)?$`)
	humanDurationPattern = regexp.MustCompile(`(?i)(?:(\d+)\s*d(?:ays?)?\.?\s*)?(\d+)\s*h[a-z]*\.?(?:\s*(\d+)\s*(?:m[a-z]*|$))?`)
	minutesPattern       = regexp.MustCompile(`(?i)^(\d+)\s*m`)
	leadingIntPattern    = regexp.MustCompile(`^\s*(\d+)`)
	stopCountPattern     = regexp.MustCompile(`(?i)\b(\d+)\s*stops?\b`)
	nonStopPattern       = regexp.MustCompile(`(?i)\b(?:non-?stop|direct)\b`)
)

// CleanCell removes markdown links (keeping the link text), HTML-like tags and
// emphasis markers from a cell, then trims it.
func CleanCell(s string) string {
	s = linkPattern.ReplaceAllString(s, "$1")
	s = tagPattern.ReplaceAllString(s, "")
	s = emphasisPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ParsePrice reads an amount and currency from free text such as "$1,234.50",
// "**€450**" or "[450 EUR](https://...)". The currency defaults to USD and the
// amount to 0 when nothing numeric is found. The booleans report whether each
// was matched rather than defaulted.
func ParsePrice(s string) (amount float64, cur string, amountOK, currencyOK bool) {
	s = CleanCell(s)

	cur = model.DefaultCurrency
	upper := strings.ToUpper(s)
	switch {
	case strings.Contains(s, "€") || strings.Contains(upper, "EUR"):
		cur, currencyOK = "EUR", true
	case strings.Contains(s, "$") || strings.Contains(upper, "USD"):
		cur, currencyOK = "USD", true
	}

	m := amountPattern.FindString(s)
	if m == "" {
		return 0, cur, false, currencyOK
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, cur, false, currencyOK
	}
	return v, cur, true, currencyOK
}

// ParseDuration reads ISO-8601 ("PT10H35M") or human ("10h 35m", "2h45",
// "1d 2h", "45m") durations into hours. A trailing bare number after the hours
// is minutes; a human day count needs an hour part. Missing components count
// as 0; unparseable input returns 0 and false.
func ParseDuration(s string) (float64, bool) {
	s = CleanCell(s)
	if s == "" {
		return 0, false
	}

	if m := isoDurationPattern.FindStringSubmatch(s); m != nil {
		days, hours, minutes := atoi(m[1]), atoi(m[2]), atoi(m[3])
		if m[1] == "" && m[2] == "" && m[3] == "" {
			return 0, false
		}
		return float64(days*24+hours) + float64(minutes)/60, true
	}
	if m := humanDurationPattern.FindStringSubmatch(s); m != nil {
		return float64(atoi(m[1])*24+atoi(m[2])) + float64(atoi(m[3]))/60, true
	}
	if m := minutesPattern.FindStringSubmatch(s); m != nil {
		return float64(atoi(m[1])) / 60, true
	}
	return 0, false
}

// ParseStops reads a stop count: a leading integer, an "N stop(s)" phrase, or
// the words "non-stop", "nonstop" and "direct" for 0. Anything else is 0 and
// false.
func ParseStops(s string) (int, bool) {
	s = CleanCell(s)
	if m := leadingIntPattern.FindStringSubmatch(s); m != nil {
		return atoi(m[1]), true
	}
	if m := stopCountPattern.FindStringSubmatch(s); m != nil {
		return atoi(m[1]), true
	}
	if nonStopPattern.MatchString(s) {
		return 0, true
	}
	return 0, false
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
