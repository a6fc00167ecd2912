package service

import (
	"github.com/brjatoba92/loja-materiais-utilidades/internal/config"
	"github.com/shopspring/decimal"
)

// OrderTotal is the pricing breakdown for a checkout.
type OrderTotal struct {
	Subtotal     decimal.Decimal
	Discount     decimal.Decimal
	Total        decimal.Decimal
	PointsEarned int64
}

// CalculateDiscount converts redeemed points to currency, capped at the subtotal.
func CalculateDiscount(subtotal decimal.Decimal, points int64, rules config.LoyaltyConfig) decimal.Decimal {
	discount := decimal.NewFromInt(points).Mul(rules.PointValue)
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	return discount.Round(2)
}

// CalculatePointsEarned awards one point per full AmountPerPoint of the total.
func CalculatePointsEarned(total decimal.Decimal, rules config.LoyaltyConfig) int64 {
	if !total.IsPositive() || !rules.AmountPerPoint.IsPositive() {
		return 0
	}
	return total.Div(rules.AmountPerPoint).Floor().IntPart()
}

func CalculateOrderTotal(subtotal decimal.Decimal, points int64, rules config.LoyaltyConfig) OrderTotal {
	discount := CalculateDiscount(subtotal, points, rules)
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	total = total.Round(2)
	return OrderTotal{
		Subtotal:     subtotal.Round(2),
		Discount:     discount,
		Total:        total,
		PointsEarned: CalculatePointsEarned(total, rules),
	}
}
