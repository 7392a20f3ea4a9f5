// Package types provides common types used across Tally.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Money represents a monetary value in the smallest currency unit.
// All arithmetic is integer-only. No floating point ever enters the
// engine, so repeated add/subtract cycles cannot accumulate rounding
// error.
//
// Examples:
//   - BRL(125000) = R$1250.00 (125000 centavos)
//   - USD(4900)   = $49.00 (4900 cents)
//   - EUR(19900)  = €199.00 (19900 cents)
type Money struct {
	Amount   int64  `json:"amount"`   // Smallest unit (cents, centavos, etc)
	Currency string `json:"currency"` // ISO 4217 lowercase: "brl", "usd", "eur"
}

// Common currency constructors

// BRL creates a Money value in Brazilian Reais (centavos).
func BRL(centavos int64) Money { return Money{Amount: centavos, Currency: "brl"} }

// USD creates a Money value in US Dollars (cents).
func USD(cents int64) Money { return Money{Amount: cents, Currency: "usd"} }

// EUR creates a Money value in Euros (cents).
func EUR(cents int64) Money { return Money{Amount: cents, Currency: "eur"} }

// GBP creates a Money value in British Pounds (pence).
func GBP(pence int64) Money { return Money{Amount: pence, Currency: "gbp"} }

// JPY creates a Money value in Japanese Yen (no decimal).
func JPY(yen int64) Money { return Money{Amount: yen, Currency: "jpy"} }

// Zero returns a zero Money value in the specified currency.
func Zero(currency string) Money { return Money{Amount: 0, Currency: strings.ToLower(currency)} }

// Arithmetic operations

// Add adds two Money values. Panics if currencies don't match.
func (m Money) Add(other Money) Money {
	m.assertSameCurrency(other)
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}
}

// Subtract subtracts another Money value. Panics if currencies don't match.
// The result may be negative; use SubtractClamped where the domain forbids
// negative amounts.
func (m Money) Subtract(other Money) Money {
	m.assertSameCurrency(other)
	return Money{Amount: m.Amount - other.Amount, Currency: m.Currency}
}

// SubtractClamped subtracts another Money value, saturating at zero.
// Panics if currencies don't match.
func (m Money) SubtractClamped(other Money) Money {
	m.assertSameCurrency(other)
	amount := m.Amount - other.Amount
	if amount < 0 {
		amount = 0
	}
	return Money{Amount: amount, Currency: m.Currency}
}

// Multiply multiplies the Money by a quantity.
func (m Money) Multiply(qty int64) Money {
	return Money{Amount: m.Amount * qty, Currency: m.Currency}
}

// Scale multiplies the Money by the ratio num/den, rounding to the nearest
// minor unit with ties going away from zero. Panics if den is zero.
func (m Money) Scale(num, den int64) Money {
	if den == 0 {
		panic("money: scale by zero denominator")
	}

	product := m.Amount * num
	quotient := product / den
	remainder := product % den

	// Round half away from zero on the discarded fraction.
	if remainder != 0 {
		absRem := remainder
		if absRem < 0 {
			absRem = -absRem
		}
		absDen := den
		if absDen < 0 {
			absDen = -absDen
		}
		if absRem*2 >= absDen {
			if (product < 0) != (den < 0) {
				quotient--
			} else {
				quotient++
			}
		}
	}

	return Money{Amount: quotient, Currency: m.Currency}
}

// Negate returns the negative of the Money value.
func (m Money) Negate() Money {
	return Money{Amount: -m.Amount, Currency: m.Currency}
}

// Abs returns the absolute value.
func (m Money) Abs() Money {
	if m.Amount < 0 {
		return Money{Amount: -m.Amount, Currency: m.Currency}
	}
	return m
}

// Comparison methods

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool { return m.Amount == 0 }

// IsPositive returns true if the amount is greater than zero.
func (m Money) IsPositive() bool { return m.Amount > 0 }

// IsNegative returns true if the amount is less than zero.
func (m Money) IsNegative() bool { return m.Amount < 0 }

// Equal returns true if both Money values are equal (same amount and currency).
func (m Money) Equal(other Money) bool {
	return m.Amount == other.Amount && m.Currency == other.Currency
}

// Compare returns -1, 0, or +1 when m is less than, equal to, or greater
// than other. Panics if currencies don't match.
func (m Money) Compare(other Money) int {
	m.assertSameCurrency(other)
	switch {
	case m.Amount < other.Amount:
		return -1
	case m.Amount > other.Amount:
		return 1
	default:
		return 0
	}
}

// LessThan returns true if this Money is less than other. Panics if currencies don't match.
func (m Money) LessThan(other Money) bool {
	m.assertSameCurrency(other)
	return m.Amount < other.Amount
}

// GreaterThan returns true if this Money is greater than other. Panics if currencies don't match.
func (m Money) GreaterThan(other Money) bool {
	m.assertSameCurrency(other)
	return m.Amount > other.Amount
}

// Min returns the smaller of two Money values. Panics if currencies don't match.
func (m Money) Min(other Money) Money {
	m.assertSameCurrency(other)
	if m.Amount < other.Amount {
		return m
	}
	return other
}

// Max returns the larger of two Money values. Panics if currencies don't match.
func (m Money) Max(other Money) Money {
	m.assertSameCurrency(other)
	if m.Amount > other.Amount {
		return m
	}
	return other
}

// Formatting methods

// FormatMajor returns the major unit string without currency symbol.
// For currencies with 2 decimal places: "1250.00" for BRL(125000).
// For currencies with 0 decimal places (JPY): "100" for JPY(100).
func (m Money) FormatMajor() string {
	decimals := currencyDecimals(m.Currency)
	if decimals == 0 {
		return fmt.Sprintf("%d", m.Amount)
	}

	divisor := int64(1)
	for i := 0; i < decimals; i++ {
		divisor *= 10
	}

	// Handle sign separately
	isNegative := m.Amount < 0
	absAmount := m.Amount
	if isNegative {
		absAmount = -absAmount
	}

	major := absAmount / divisor
	minor := absAmount % divisor

	format := fmt.Sprintf("%%d.%%0%dd", decimals)
	result := fmt.Sprintf(format, major, minor)

	if isNegative {
		return "-" + result
	}
	return result
}

// String returns a human-readable string with currency symbol.
// Examples: "R$1250.00", "$49.00", "€199.00", "¥100"
func (m Money) String() string {
	symbol := currencySymbol(m.Currency)
	return symbol + m.FormatMajor()
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Display  string `json:"display"`
	}{
		Amount:   m.Amount,
		Currency: m.Currency,
		Display:  m.String(),
	})
}

// ParseMoney parses a decimal string into minor units without going through
// floating point. Both comma and dot decimal separators are accepted, with
// the other character treated as a thousands separator:
//
//	ParseMoney("1.234,56", "brl") = BRL(123456)
//	ParseMoney("1,234.56", "usd") = USD(123456)
//	ParseMoney("1234.5", "eur")   = EUR(123450)
//
// Fractional digits beyond the currency's precision are rejected rather
// than rounded: a caller-supplied value that doesn't fit in minor units is
// a data error, not a rounding case.
func ParseMoney(s, currency string) (Money, error) {
	currency = strings.ToLower(currency)
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Money{}, fmt.Errorf("money: parse %q: empty string", s)
	}

	negative := false
	switch trimmed[0] {
	case '-':
		negative = true
		trimmed = trimmed[1:]
	case '+':
		trimmed = trimmed[1:]
	}
	if trimmed == "" {
		return Money{}, fmt.Errorf("money: parse %q: missing digits", s)
	}

	intPart, fracPart, err := splitDecimal(trimmed)
	if err != nil {
		return Money{}, fmt.Errorf("money: parse %q: %w", s, err)
	}

	decimals := currencyDecimals(currency)
	if len(fracPart) > decimals {
		return Money{}, fmt.Errorf("money: parse %q: more than %d decimal digits", s, decimals)
	}
	for len(fracPart) < decimals {
		fracPart += "0"
	}

	var amount int64
	for _, r := range intPart + fracPart {
		if r < '0' || r > '9' {
			return Money{}, fmt.Errorf("money: parse %q: invalid character %q", s, r)
		}
		digit := int64(r - '0')
		if amount > (1<<63-1-digit)/10 {
			return Money{}, fmt.Errorf("money: parse %q: overflow", s)
		}
		amount = amount*10 + digit
	}

	if negative {
		amount = -amount
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// splitDecimal separates a locale-formatted numeric string into integer and
// fractional digit runs, stripping grouping marks. The decimal separator is
// whichever of '.' or ',' appears last; any earlier occurrences of either
// character are treated as thousands separators.
func splitDecimal(s string) (intPart, fracPart string, err error) {
	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')

	sepIdx := -1
	if lastDot > lastComma {
		sepIdx = lastDot
	} else if lastComma > lastDot {
		sepIdx = lastComma
	}

	if sepIdx >= 0 {
		intPart = s[:sepIdx]
		fracPart = s[sepIdx+1:]
		if fracPart == "" {
			return "", "", fmt.Errorf("trailing separator")
		}
	} else {
		intPart = s
	}

	intPart = strings.Map(func(r rune) rune {
		if r == '.' || r == ',' {
			return -1
		}
		return r
	}, intPart)

	if intPart == "" && fracPart == "" {
		return "", "", fmt.Errorf("missing digits")
	}
	if intPart == "" {
		intPart = "0"
	}
	return intPart, fracPart, nil
}

// Helper functions

// assertSameCurrency panics if currencies don't match.
func (m Money) assertSameCurrency(other Money) {
	if m.Currency != other.Currency {
		panic(fmt.Sprintf("money: currency mismatch: %s != %s", m.Currency, other.Currency))
	}
}

// currencySymbol returns the symbol for a currency code.
func currencySymbol(currency string) string {
	symbols := map[string]string{
		"brl": "R$",
		"usd": "$",
		"eur": "€",
		"gbp": "£",
		"jpy": "¥",
		"cad": "C$",
		"aud": "A$",
	}
	if sym, ok := symbols[strings.ToLower(currency)]; ok {
		return sym
	}
	return strings.ToUpper(currency) + " "
}

// currencyDecimals returns the number of decimal places for a currency.
func currencyDecimals(currency string) int {
	// Currencies with 0 decimal places
	zeroDecimal := map[string]bool{
		"jpy": true, // Japanese Yen
		"krw": true, // Korean Won
		"vnd": true, // Vietnamese Dong
		"clp": true, // Chilean Peso
		"pyg": true, // Paraguayan Guarani
	}
	if zeroDecimal[strings.ToLower(currency)] {
		return 0
	}
	// Most currencies have 2 decimal places
	return 2
}

// Sum calculates the sum of multiple Money values. All must have the same currency.
func Sum(values ...Money) Money {
	if len(values) == 0 {
		return Zero("brl")
	}

	result := values[0]
	for i := 1; i < len(values); i++ {
		result = result.Add(values[i])
	}
	return result
}
