package checkout

import "math"

// DiscountKind selects how a discount value is interpreted.
type DiscountKind string

const (
	DiscountPercent DiscountKind = "percent"
	DiscountFixed   DiscountKind = "fixed"
)

// DiscountSpec is the discount applied to one checkout. It is transient:
// only the derived discount amount is persisted, as part of the totals.
type DiscountSpec struct {
	Kind  DiscountKind `json:"kind"`
	Value float64      `json:"value"`
}

// NoDiscount is the zero discount.
var NoDiscount = DiscountSpec{Kind: DiscountPercent, Value: 0}

// Pricing is the derived money breakdown for a cart. Amounts are whole
// rupiah.
type Pricing struct {
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Total    int64 `json:"total"`
}

// ComputePricing derives subtotal, discount amount and total. Pure and
// deterministic. The discount amount is clamped to [0, subtotal], so an
// oversized percent or fixed value yields a free order, never a negative
// total, and any discount on an empty cart is zero.
func ComputePricing(lines []Line, spec DiscountSpec) Pricing {
	var subtotal int64
	for _, l := range lines {
		subtotal += l.UnitPrice * int64(l.Quantity)
	}

	var discount int64
	switch spec.Kind {
	case DiscountPercent:
		discount = int64(math.Round(float64(subtotal) * spec.Value / 100))
	case DiscountFixed:
		discount = int64(math.Round(spec.Value))
	}
	if discount < 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}

	return Pricing{
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal - discount,
	}
}
