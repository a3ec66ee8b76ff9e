package extract

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/tripscore/internal/model"
)

var amountPrinter = message.NewPrinter(language.English)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
}

// CurrencyCode canonicalizes an ISO 4217 code or a "$"/"€" symbol. Unknown
// values fall back to USD and report false.
func CurrencyCode(s string) (string, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return model.DefaultCurrency, false
	case "$":
		return "USD", true
	case "€":
		return "EUR", true
	}
	unit, err := currency.ParseISO(strings.ToUpper(s))
	if err != nil {
		return model.DefaultCurrency, false
	}
	return unit.String(), true
}

// FormatPrice renders an amount with digit grouping and two decimals, prefixed
// by the currency symbol when one is known ("$1,234.50", "€450.00") and by the
// code otherwise ("GBP 80.00").
func FormatPrice(amount float64, code string) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	code, _ = CurrencyCode(code)
	num := amountPrinter.Sprintf("%.2f", amount)
	if sym, ok := currencySymbols[code]; ok {
		return sym + num
	}
	return code + " " + num
}

// FormatDuration renders hours as "Xh Ym", rounded to the nearest minute.
func FormatDuration(hours float64) string {
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours < 0 {
		hours = 0
	}
	total := int(math.Round(hours * 60))
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}

// FormatStops renders a stop count the way table cells usually show it.
func FormatStops(stops int) string {
	switch {
	case stops <= 0:
		return "Non-stop"
	case stops == 1:
		return "1 stop"
	default:
		return fmt.Sprintf("%d stops", stops)
	}
}
