// Package render formats formula results for display.
package render

import (
	"math"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
)

// Round rounds v half away from zero to the given number of decimal places.
// NaN and infinities are returned unchanged.
func Round(v float64, places int32) float64 {
	if !finite(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Fixed formats v rounded to exactly the given number of decimal places,
// padding with zeros as needed. NaN and infinities are formatted as by
// strconv.
func Fixed(v float64, places int32) string {
	if !finite(v) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

// FixedBig is like Fixed for big.Float values.
func FixedBig(v *big.Float, places int32) string {
	if v.IsInf() {
		return v.String()
	}
	d, err := decimal.NewFromString(v.Text('f', -1))
	if err != nil {
		return v.Text('g', Digits(v.Prec()))
	}
	return d.StringFixed(places)
}

// Big formats v with as many significant decimal digits as its precision
// carries.
func Big(v *big.Float) string {
	return v.Text('g', Digits(v.Prec()))
}

// Digits returns the number of decimal digits that a binary precision of prec
// bits can represent.
func Digits(prec uint) int {
	d := int(float64(prec) * math.Log10(2))
	if d < 1 {
		return 1
	}
	return d
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
