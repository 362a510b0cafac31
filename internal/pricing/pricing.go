package pricing

import (
	"github.com/google/uuid"

	"github.com/medkala/medstore/internal/models"
)

// roundPct applies pct percent of amount with half-up rounding on integer
// minor currency units. The same rule is used for per-product discounts and
// discount codes so client and server totals never drift by one unit.
func roundPct(amount int64, pct int) int64 {
	return (amount*int64(pct) + 50) / 100
}

// EffectivePrice returns the unit price after the product's own discount
// percentage, rounded half-up. Percentages outside [0,100] are clamped.
func EffectivePrice(p models.Product) int64 {
	pct := p.DiscountPct
	if pct <= 0 {
		return p.Price
	}
	if pct >= 100 {
		return 0
	}
	return roundPct(p.Price, 100-pct)
}

func LineTotal(line models.CartItem, p models.Product) int64 {
	return EffectivePrice(p) * int64(line.Quantity)
}

// Subtotal sums line totals over the cart. Lines whose product is absent
// from lookup are excluded from the sum and reported back so callers can
// flag them as unavailable instead of silently shrinking the total.
func Subtotal(lines []models.CartItem, lookup map[uuid.UUID]models.Product) (int64, []uuid.UUID) {
	var total int64
	var missing []uuid.UUID
	for _, line := range lines {
		p, ok := lookup[line.ProductID]
		if !ok {
			missing = append(missing, line.ProductID)
			continue
		}
		total += LineTotal(line, p)
	}
	return total, missing
}

// DiscountAmount is the code-discount portion of a subtotal.
func DiscountAmount(subtotal int64, pct int) int64 {
	if pct <= 0 {
		return 0
	}
	if pct > 100 {
		pct = 100
	}
	return roundPct(subtotal, pct)
}
