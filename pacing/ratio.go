package pacing

import "github.com/shopspring/decimal"

// safeRatio returns num/den, or zero when den is not positive. This is
// the single divide-by-zero policy for the whole engine: a zero
// denominator (no time remaining, no pace established) yields zero, so
// callers always get a renderable number.
func safeRatio(num, den decimal.Decimal) decimal.Decimal {
	if !den.IsPositive() {
		return decimal.Zero
	}
	return num.Div(den)
}

// ceilDiv returns ceil(num/den) as a whole count. Denominators are
// validated positive before the cascade runs, so a non-positive den here
// falls back to zero rather than dividing.
func ceilDiv(num, den decimal.Decimal) int64 {
	return safeRatio(num, den).Ceil().IntPart()
}

// ceilDivInt is ceilDiv over an integer numerator.
func ceilDivInt(num int64, den decimal.Decimal) int64 {
	return ceilDiv(decimal.NewFromInt(num), den)
}
