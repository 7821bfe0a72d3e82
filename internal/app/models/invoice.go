package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceDraft         InvoiceStatus = "DRAFT"
	InvoiceIssued        InvoiceStatus = "ISSUED"
	InvoicePartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoicePaid          InvoiceStatus = "PAID"
	InvoiceCancelled     InvoiceStatus = "CANCELLED"
)

// Invoice groups the charges of one encounter. TotalAmount is always
// recomputed from the attached charges, never hand-edited; PaidAmount
// is written only by the payment processor. Version backs the
// check-and-set barrier on concurrent writers.
type Invoice struct {
	ID             string          `json:"id"`
	EncounterID    string          `json:"encounter_id"`
	Status         InvoiceStatus   `json:"status"`
	Currency       string          `json:"currency"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	Version        int64           `json:"-"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NetAmount is what the patient actually owes on this invoice.
func (inv *Invoice) NetAmount() decimal.Decimal {
	return inv.TotalAmount.Sub(inv.DiscountAmount)
}

func (inv *Invoice) Remaining() decimal.Decimal {
	return inv.NetAmount().Sub(inv.PaidAmount)
}

// Payable reports whether the invoice may accept payments at all;
// the active-credit-note check lives with the caller because it needs
// a store lookup.
func (inv *Invoice) Payable() bool {
	switch inv.Status {
	case InvoiceIssued, InvoicePartiallyPaid, InvoicePaid:
		return true
	}
	return false
}

// InvoiceStatusFor derives the post-payment status purely from the paid
// and net amounts; no other state feeds into it.
func InvoiceStatusFor(paid, net decimal.Decimal) InvoiceStatus {
	switch {
	case paid.Equal(net) && net.IsPositive():
		return InvoicePaid
	case paid.IsPositive() && paid.LessThan(net):
		return InvoicePartiallyPaid
	default:
		return InvoiceIssued
	}
}
