package invoices

import (
	"fmt"
	"medledger-service/internal/app/models"
	"medledger-service/internal/pkg/exceptions"
	"medledger-service/internal/pkg/utils"

	"github.com/shopspring/decimal"
)

// Recompute derives the invoice total from its attached charges and
// validates the discount against it. The total is never stored apart
// from this derivation, so re-running it is always idempotent.
func Recompute(charges []models.Charge, discount decimal.Decimal) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, charge := range charges {
		total = total.Add(charge.TotalAmount)
	}
	total = utils.RoundMoney(total)

	if discount.IsNegative() || discount.GreaterThan(total) {
		return decimal.Zero, exceptions.ErrInvalidDiscount(
			fmt.Sprintf("discount %s outside [0, %s]", discount.String(), total.String()))
	}
	return total, nil
}
