package requests

import "github.com/shopspring/decimal"

type ApplyPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method" validate:"required,oneof=CASH CARD TRANSFER INSURANCE OTHER"`
	Reference string          `json:"reference,omitempty"`
}
