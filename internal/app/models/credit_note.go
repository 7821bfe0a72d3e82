package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditNote fully reverses a settled invoice. TotalAmount is the
// negated net amount of the original invoice; at most one active
// credit note may exist per invoice, and once one exists both
// documents are frozen.
type CreditNote struct {
	ID                string          `json:"id"`
	OriginalInvoiceID string          `json:"original_invoice_id"`
	Reason            string          `json:"reason"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	CreatedAt         time.Time       `json:"created_at"`
}
