// AngelaMos | 2026
// currency.go

package currency

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Amounts are stored as whole Colombian pesos; COP has no minor unit in
// practice, so there is no cent scaling anywhere.

var printer = message.NewPrinter(language.MustParse("es-CO"))

// FormatCOP renders an amount the way a Colombian storefront shows it:
// grouped digits with a currency sign, no decimals.
func FormatCOP(amount int64) string {
	return printer.Sprintf("$%v", number.Decimal(amount))
}
