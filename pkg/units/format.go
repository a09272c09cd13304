package units

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

var (
	bigTwo = big.NewInt(2)
	bigTen = big.NewInt(10)
)

// FormatFixed renders v with exactly digits decimals.
//
// The exact binary value of v is rounded to the nearest decimal and ties go away
// from zero, so 0.5 renders "1" and 2.5 renders "3" while 1.005 (stored as
// 1.00499...) renders "1.00" at two digits. Negative values keep their sign even
// when they round to zero ("-0.0"). NaN renders "NaN", infinities render
// "Infinity"/"-Infinity" and magnitudes of 1e21 and above fall back to the
// shortest exponent form.
func FormatFixed(v float64, digits int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.Abs(v) >= 1e21:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	if digits < 0 {
		digits = 0
	}

	r := new(big.Rat).SetFloat64(math.Abs(v))
	scale := new(big.Int).Exp(bigTen, big.NewInt(int64(digits)), nil)
	r.Mul(r, new(big.Rat).SetInt(scale))

	// floor(r + 1/2), computed as (2*num + den) / (2*den)
	num := new(big.Int).Mul(r.Num(), bigTwo)
	num.Add(num, r.Denom())
	den := new(big.Int).Mul(r.Denom(), bigTwo)
	n := new(big.Int).Quo(num, den)

	s := n.String()
	if digits > 0 {
		if len(s) <= digits {
			s = strings.Repeat("0", digits-len(s)+1) + s
		}
		s = s[:len(s)-digits] + "." + s[len(s)-digits:]
	}
	if v < 0 {
		s = "-" + s
	}
	return s
}

// formatRaw prints a value in its shortest round-trip form, switching to
// exponent form at the same magnitude as FormatFixed.
func formatRaw(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if math.IsInf(v, 0) {
		return FormatFixed(v, 0)
	}
	if math.Abs(v) >= 1e21 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
