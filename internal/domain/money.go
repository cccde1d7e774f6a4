package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func NewMoney(amount decimal.Decimal, unit currency.Unit) Money {
	return Money{Amount: amount, Currency: unit}
}

// ParseCurrency falls back to def when code is empty or not an ISO 4217 code.
func ParseCurrency(code string, def currency.Unit) currency.Unit {
	if code == "" {
		return def
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		return def
	}

	return unit
}

// Format renders the amount rounded to the currency's standard scale with
// digit grouping for tag, prefixed by the ISO code, e.g. "RWF 4,500".
func (m Money) Format(tag language.Tag) string {
	scale, _ := currency.Standard.Rounding(m.Currency)

	amount := m.Amount.Round(int32(scale))

	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}

	whole := amount.Truncate(0)

	p := message.NewPrinter(tag)
	formatted := p.Sprintf("%d", whole.IntPart())

	if scale > 0 {
		frac := amount.Sub(whole).StringFixed(int32(scale))
		// "0.50" -> "50"
		formatted += "." + strings.TrimPrefix(frac, "0.")
	}

	return fmt.Sprintf("%s %s%s", m.Currency.String(), sign, formatted)
}

func (m Money) String() string {
	return m.Format(language.English)
}
