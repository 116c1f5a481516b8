package utils

import "github.com/shopspring/decimal"

// CommissionAmount computes the commission owed on an order:
// totalAmount * rate / 100, rounded half-up to two decimals.
// Rounding happens exactly once, here; every later balance movement reuses
// the stored rounded amount so ledger sums stay consistent under audit.
func CommissionAmount(totalAmount, rate float64) float64 {
	amount := decimal.NewFromFloat(totalAmount).
		Mul(decimal.NewFromFloat(rate)).
		Div(decimal.NewFromInt(100))
	f, _ := amount.Round(2).Float64()
	return f
}

// RoundMoney rounds an amount half-up to two decimals.
func RoundMoney(amount float64) float64 {
	f, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return f
}
