package utils

import (
	"medledger-service/internal/pkg/constvars"

	"github.com/shopspring/decimal"
)

// RoundMoney normalizes a money value to the ledger's fixed three
// fractional digits. Every aggregate passes through here so repeated
// summation cannot drift.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(constvars.MoneyScale)
}

// SumMoney adds fixed-point money values without ever touching floats.
func SumMoney(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return RoundMoney(total)
}
