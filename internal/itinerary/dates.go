package itinerary

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Long-date layouts for the supported locales, in matcher order.
var (
	locales = []language.Tag{language.AmericanEnglish, language.BritishEnglish}
	layouts = []string{
		"Monday, January 2, 2006",
		"Monday, 2 January 2006",
	}
	localeMatcher = language.NewMatcher(locales)
)

// DateLabel renders a long date for the closest supported locale, e.g.
// "Thursday, November 20, 2025" (en-US) or "Thursday, 20 November 2025"
// (en-GB and other day-first English variants). Unknown locales use en-US.
func DateLabel(t time.Time, locale string) string {
	idx := 0
	if tag, err := language.Parse(strings.TrimSpace(locale)); err == nil {
		if _, i, conf := localeMatcher.Match(tag); conf != language.No {
			idx = i
		}
	}
	return t.Format(layouts[idx])
}

// ResolveDates parses free-text start, end and return dates ("2025-11-20",
// "Nov 20, 2025", "11/20/2025"). A missing or unparseable start is
// ErrMissingDateRange. A missing or unparseable end falls back to the start
// (a same-day trip); a missing or unparseable return is nil.
func ResolveDates(start, end, ret string) (time.Time, time.Time, *time.Time, error) {
	s, ok := parseDate(start)
	if !ok {
		return time.Time{}, time.Time{}, nil, ErrMissingDateRange
	}

	e, ok := parseDate(end)
	if !ok {
		if strings.TrimSpace(end) != "" {
			zap.L().Debug("itinerary: unparseable end date, using start", zap.String("end", end))
		}
		e = s
	}

	var r *time.Time
	if v, ok := parseDate(ret); ok {
		r = &v
	} else if strings.TrimSpace(ret) != "" {
		zap.L().Debug("itinerary: unparseable return date ignored", zap.String("return", ret))
	}
	return s, e, r, nil
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return dateOnly(t), true
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
