package calculator

import (
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Display strings produced by Evaluate besides numerals.
const (
	ErrorDisplay = "Error"
)

// resultScale is the number of decimal places results are rounded to.
const resultScale = 10

// exponentThreshold is the magnitude from which results switch to
// exponential notation.
const exponentThreshold = 1e21

// roundingContext has enough precision to quantize any finite float64 to
// resultScale places.
var roundingContext = func() *apd.Context {
	c := apd.BaseContext.WithPrecision(400)
	c.Rounding = apd.RoundHalfUp
	return c
}()

// Evaluate applies op to the operands a and b and renders the result for the
// display. Unparsable operands yield "0"; division by zero and overflow yield
// "Error".
func Evaluate(a, b string, op Operator) string {
	x, ok := parseOperand(a)
	if !ok {
		return zeroOperand
	}
	y, ok := parseOperand(b)
	if !ok {
		return zeroOperand
	}

	var res float64
	switch op {
	case Add:
		res = x + y
	case Subtract:
		res = x - y
	case Multiply:
		res = x * y
	case Divide:
		if y == 0 {
			res = math.NaN()
		} else {
			res = x / y
		}
	default:
		res = y
	}

	if math.IsNaN(res) || math.IsInf(res, 0) {
		return ErrorDisplay
	}
	return formatResult(res)
}

// parseOperand reads an operand as a finite float64.
func parseOperand(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// formatResult rounds v to resultScale decimal places and renders the
// shortest plain decimal for it.
func formatResult(v float64) string {
	if math.Abs(v) >= exponentThreshold {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	var d apd.Decimal
	if _, err := d.SetFloat64(v); err != nil {
		return ErrorDisplay
	}
	if _, err := roundingContext.Quantize(&d, &d, -resultScale); err != nil {
		return ErrorDisplay
	}
	return plainText(&d)
}

// percentOf divides the decimal operand s by 100 by shifting its exponent,
// which keeps the result free of binary rounding noise.
func percentOf(s string) string {
	d, _, err := apd.NewFromString(strings.TrimSuffix(s, "."))
	if err != nil || d.Form != apd.Finite {
		return zeroOperand
	}
	d.Exponent -= 2
	return plainText(d)
}

// plainText renders d without trailing zeros, exponent or negative zero.
func plainText(d *apd.Decimal) string {
	d.Reduce(d)
	if d.IsZero() {
		return zeroOperand
	}
	return d.Text('f')
}
