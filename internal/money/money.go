// Package money holds the lenient numeric boundary used by every calculator:
// user-entered strings are parsed leniently, arithmetic happens in float64 and
// results are written back as 2-decimal fixed strings.
package money

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Parse reads the longest numeric prefix of s and returns 0 when there is none.
// "12abc" is 12, "abc" is 0, "" is 0. Non-finite values are 0 as well.
func Parse(s string) float64 {
	s = strings.TrimSpace(s)
	end := numericPrefix(s)
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// numericPrefix returns the length of the longest prefix of s that is a
// decimal floating point literal (sign, digits, fraction, exponent).
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits+frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			exp++
		}
		if exp > 0 {
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Fixed2 formats x with exactly two decimals, rounding the exact binary value
// half away from zero. Negative zero and non-finite values print as "0.00".
func Fixed2(x float64) string {
	out := cents(x).StringFixed(2)
	if out == "-0.00" {
		return "0.00"
	}
	return out
}

// Round2 rounds x to 2 decimal places with the same rule as Fixed2.
func Round2(x float64) float64 {
	v, _ := cents(x).Float64()
	return v
}

// cents rounds the exact decimal expansion of x to 2 places. The shortest
// representation is not enough: 1.005 is stored as 1.00499... and must
// round down.
func cents(x float64) decimal.Decimal {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return decimal.Zero
	}
	short := strconv.FormatFloat(x, 'f', -1, 64)
	if dot := strings.IndexByte(short, '.'); dot < 0 || len(short)-dot-1 <= 2 {
		return decimal.RequireFromString(short).Round(2)
	}
	return decimal.RequireFromString(strconv.FormatFloat(x, 'f', 1100, 64)).Round(2)
}

// Equal reports whether two lenient strings hold the same number.
func Equal(a, b string) bool {
	return Parse(a) == Parse(b)
}

// Decimal parses s leniently into a decimal rounded to cents.
func Decimal(s string) decimal.Decimal {
	return cents(Parse(s))
}

// FromFloat converts a float amount to a decimal rounded to cents.
func FromFloat(x float64) decimal.Decimal {
	return cents(x)
}
