package pricing

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Euro is appended to formatted prices.
const Euro = "€"

// FormatPrice renders a price as "3.50 €", or "-" when there is no finite
// price.
func FormatPrice(p *float64) string {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return "-"
	}
	return FormatAmount(*p) + " " + Euro
}

// FormatAmount renders v with exactly two decimals. The decimal is computed
// from the exact binary value of v, and a tie rounds away from zero, so
// 1.005 gives "1.00" and 0.125 gives "0.13". Non-finite values give "-".
func FormatAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	neg := v < 0
	abs := math.Abs(v)
	if abs >= 1e21 {
		s := strconv.FormatFloat(abs, 'g', -1, 64)
		if neg {
			return "-" + s
		}
		return s
	}

	cents := new(big.Rat).SetFloat64(abs)
	cents.Mul(cents, big.NewRat(100, 1))
	// floor(cents + 1/2)
	num := new(big.Int).Mul(cents.Num(), big.NewInt(2))
	num.Add(num, cents.Denom())
	den := new(big.Int).Mul(cents.Denom(), big.NewInt(2))
	q := new(big.Int).Quo(num, den)

	digits := q.String()
	if len(digits) < 3 {
		digits = strings.Repeat("0", 3-len(digits)) + digits
	}
	s := digits[:len(digits)-2] + "." + digits[len(digits)-2:]
	if neg {
		return "-" + s
	}
	return s
}
