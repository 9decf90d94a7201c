package domain

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when a scraped amount cannot be parsed.
var ErrInvalidAmount = errors.New("invalid amount")

var amountReplacer = strings.NewReplacer(
	"€", "",
	"EUR", "",
	" ", "",
	"\u00a0", "",
	"\u202f", "",
	".", "",
)

// ParseEuroAmount parses an amount written in European notation, e.g. "2.293,16 €".
// Dots are thousands separators and the comma is the decimal separator.
func ParseEuroAmount(text string) (decimal.Decimal, error) {
	s := amountReplacer.Replace(strings.TrimSpace(text))
	s = strings.Replace(s, ",", ".", 1)
	if s == "" {
		return decimal.Zero, errors.Wrapf(ErrInvalidAmount, "empty amount %q", text)
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrapf(ErrInvalidAmount, "%q: %v", text, err)
	}
	return amount, nil
}
