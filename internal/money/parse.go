// Package money converts between free-text VND input and whole-đồng amounts.
package money

import (
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// Unit is a shorthand suffix and its multiplier.
type Unit struct {
	Suffix     string
	Multiplier int64
}

// Units are checked in this order and the first suffix that matches wins,
// regardless of length.
var Units = []Unit{
	{"k", 1_000},
	{"ng", 1_000},
	{"m", 1_000_000},
	{"tr", 1_000_000},
	{"b", 1_000_000_000},
	{"ty", 1_000_000_000},
	{"tỷ", 1_000_000_000},
}

const currencySuffix = "vnđ"

var (
	// groupedPrefix matches a leading vi-VN thousands grouping such as
	// 1.000.000 that is not followed by more digits.
	groupedPrefix = regexp.MustCompile(`^([+-]?\d{1,3}(?:\.\d{3})+)(?:[^\d.eE]|$)`)

	// leadingNumber matches the numeric prefix of s; the rest is ignored.
	leadingNumber = regexp.MustCompile(`^([+-]?)(\d+(?:\.\d*)?|\.\d+)(?:[eE]([+-]?\d+))?`)
)

// Bounds that keep parsing cheap. A number with more integer digits is
// outside int64 anyway, and digits past maxSignificantDigits cannot change
// the rounded whole-đồng result.
const (
	maxIntegerDigits     = 20
	maxSignificantDigits = 30
	maxExponent          = 1000
)

var (
	maxAmount = decimal.NewFromInt(math.MaxInt64)
	minAmount = decimal.NewFromInt(math.MinInt64)
)

// Parse converts shorthand input like "10k", "5.5m", "2 tỷ" or
// "1.000.000 VNĐ" into whole đồng. Input that is not a number yields 0.
func Parse(input string) int64 {
	s := Clean(input)

	multiplier := int64(1)
	for _, u := range Units {
		if strings.HasSuffix(s, u.Suffix) {
			// The first occurrence goes, so "10kk" reads as 10 thousand.
			s = strings.Replace(s, u.Suffix, "", 1)
			multiplier = u.Multiplier
			break
		}
	}

	d, ok := parseNumber(s)
	if !ok {
		return 0
	}

	d = d.Mul(decimal.NewFromInt(multiplier)).Round(0)
	if d.GreaterThan(maxAmount) || d.LessThan(minAmount) {
		return 0
	}

	return d.IntPart()
}

// Clean lower-cases and NFC-normalizes input, then drops whitespace, commas
// and the currency suffix.
func Clean(input string) string {
	s := norm.NFC.String(strings.ToLower(input))
	s = strings.ReplaceAll(s, currencySuffix, "")

	return strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// parseNumber reads the leading number of s, ignoring whatever follows it.
// A grouped digit run uses periods as thousands separators; any other
// period is the decimal point. An exponent is accepted but bounded.
func parseNumber(s string) (decimal.Decimal, bool) {
	if m := groupedPrefix.FindStringSubmatch(s); m != nil {
		s = strings.ReplaceAll(m[1], ".", "")
	}

	m := leadingNumber.FindStringSubmatch(s)
	if m == nil {
		return decimal.Zero, false
	}
	sign, mantissa, exponent := m[1], m[2], m[3]

	intPart, frac, _ := strings.Cut(mantissa, ".")

	exp := 0
	if exponent != "" {
		e, err := strconv.Atoi(exponent)
		switch {
		case err == nil && e > maxExponent, err != nil && !strings.HasPrefix(exponent, "-"):
			return decimal.Zero, false
		case err == nil && e < -maxExponent, err != nil:
			return decimal.Zero, true
		}
		exp = e
	}

	// The value is digits × 10^scale.
	digits := strings.TrimLeft(intPart+frac, "0")
	scale := exp - len(frac)
	if digits == "" {
		return decimal.Zero, true
	}

	magnitude := len(digits) + scale
	if magnitude > maxIntegerDigits {
		return decimal.Zero, false
	}
	if magnitude < -maxIntegerDigits {
		return decimal.Zero, true
	}
	if len(digits) > maxSignificantDigits {
		scale += len(digits) - maxSignificantDigits
		digits = digits[:maxSignificantDigits]
	}

	coef, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return decimal.Zero, false
	}
	d := decimal.NewFromBigInt(coef, int32(scale))
	if sign == "-" {
		d = d.Neg()
	}
	return d, true
}
