// Package core provides the ledger data model and money handling utilities.
//
// Amounts are kept as shopspring decimals so that sums never pick up binary
// floating point noise; every stored amount carries exactly two fractional
// digits.
package core

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every rendered amount.
const CurrencySymbol = "R$"

// plainAmount is an optionally signed number in positional notation; exponent
// forms do not match.
var plainAmount = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)

// ParseAmount converts a user supplied number into a decimal rounded to cents.
//
// A comma is accepted as decimal separator by plain substitution, so "23,90"
// and "23.90" are equivalent. Scientific notation ("1e3") is rejected. No
// sign validation is performed.
//
// Examples:
//
//	ParseAmount("10.50") -> 10.50, nil
//	ParseAmount("23,90") -> 23.90, nil
//	ParseAmount("abc")   -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if !plainAmount.MatchString(s) {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d.Round(2), nil
}

// FormatAmount renders d with exactly two fractional digits, without symbol.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatMoney renders d as "R$12.34".
func FormatMoney(d decimal.Decimal) string {
	return CurrencySymbol + FormatAmount(d)
}
