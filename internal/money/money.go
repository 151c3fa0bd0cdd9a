// Package money converts between user-entered amount strings, float64 values
// used by the calculator, and display strings.
//
// Parsing and rounding go through shopspring/decimal so that "86.50" or
// "0.1" are read exactly before being handed to the calculator. Rounding to
// cents is a display concern only and must not be applied before summation.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	ErrEmpty       = errors.New("amount is required")
	ErrNotNumeric  = errors.New("amount must be a number")
	ErrNegative    = errors.New("amount cannot be negative")
	ErrTooLarge    = errors.New("amount is too large")
	maxAmount      = decimal.New(1, 12)
	displayPrinter = message.NewPrinter(language.AmericanEnglish)
)

// ParseAmount parses a user-entered amount such as "86.50" or "$1,200".
// Empty, non-numeric and negative input is rejected.
func ParseAmount(s string) (float64, error) {
	d, err := parse(s)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

// ParseOptionalAmount behaves like ParseAmount but treats blank input as zero.
// Used for tax, tip and additional-expense fields.
func ParseOptionalAmount(s string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return ParseAmount(s)
}

func parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrEmpty
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegative
	}
	if d.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, ErrTooLarge
	}
	return d, nil
}

// Round rounds to whole cents, half away from zero.
func Round(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// Format renders amount as a US dollar string, e.g. "$1,234.56".
func Format(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	if d.IsNegative() {
		return "-" + displayPrinter.Sprintf("$%.2f", d.Neg().InexactFloat64())
	}
	return displayPrinter.Sprintf("$%.2f", d.InexactFloat64())
}
