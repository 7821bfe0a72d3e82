package requests

import "github.com/shopspring/decimal"

type CreateInvoiceRequest struct {
	EncounterID    string          `json:"encounter_id" validate:"required"`
	ChargeIDs      []string        `json:"charge_ids" validate:"required,min=1"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Currency       string          `json:"currency,omitempty"`
}

type AddChargesRequest struct {
	ChargeIDs []string `json:"charge_ids" validate:"required,min=1"`
}
