package orders

import "medledger-service/internal/app/models"

// CanFulfill is the financial gate on clinical work: an order may only
// move forward once its billing is settled or explicitly waived. The
// guard is evaluated on freshly read state, never on a cached value.
func CanFulfill(order *models.Order) bool {
	return order.PaymentStatus == models.OrderPaymentPaid ||
		order.PaymentStatus == models.OrderPaymentWaived
}
