package money

import "github.com/shopspring/decimal"

// Tolerance is the rounding tolerance for household-wide reconciliation
// checks, one cent of the household currency.
var Tolerance = decimal.New(1, -2)

// Round2 rounds a monetary amount to two decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Max0 floors a monetary amount at zero.
func Max0(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// SplitByFractions distributes total across the given fractions, rounding
// each part to two decimals and assigning the rounding residual to the last
// part so the parts always sum exactly to the (rounded) total.
func SplitByFractions(total decimal.Decimal, fractions []decimal.Decimal) []decimal.Decimal {
	parts := make([]decimal.Decimal, len(fractions))
	if len(fractions) == 0 {
		return parts
	}
	total = Round2(total)
	allocated := decimal.Zero
	for i, f := range fractions {
		if i == len(fractions)-1 {
			parts[i] = total.Sub(allocated)
			break
		}
		parts[i] = Round2(total.Mul(f))
		allocated = allocated.Add(parts[i])
	}
	return parts
}

// WithinTolerance reports whether d is within the reconciliation tolerance
// of zero.
func WithinTolerance(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(Tolerance)
}
