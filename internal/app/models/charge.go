package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ChargeSourceType string

const (
	SourceConsultation ChargeSourceType = "CONSULTATION"
	SourceLab          ChargeSourceType = "LAB"
	SourceRadiology    ChargeSourceType = "RADIOLOGY"
	SourcePharmacy     ChargeSourceType = "PHARMACY"
	SourceBed          ChargeSourceType = "BED"
	SourceProcedure    ChargeSourceType = "PROCEDURE"
)

func (s ChargeSourceType) Valid() bool {
	switch s {
	case SourceConsultation, SourceLab, SourceRadiology, SourcePharmacy, SourceBed, SourceProcedure:
		return true
	}
	return false
}

// Charge is one billable clinical fact. UnitPrice is snapshotted at
// charge time and never re-derived from the catalog; TotalAmount is
// immutable once set. The only mutation a charge ever sees is the
// attachment of an invoice id.
type Charge struct {
	ID             string           `json:"id"`
	EncounterID    string           `json:"encounter_id"`
	SourceType     ChargeSourceType `json:"source_type"`
	SourceID       string           `json:"source_id"`
	ServiceItemID  string           `json:"service_item_id"`
	Quantity       int64            `json:"quantity"`
	UnitPrice      decimal.Decimal  `json:"unit_price"`
	TotalAmount    decimal.Decimal  `json:"total_amount"`
	InvoiceID      *string          `json:"invoice_id,omitempty"`
	SafetyOverride bool             `json:"safety_override,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

func (c *Charge) Invoiced() bool {
	return c.InvoiceID != nil && *c.InvoiceID != ""
}
