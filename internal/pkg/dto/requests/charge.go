package requests

import "github.com/shopspring/decimal"

// CreateChargeRequest is the boundary contract for charge producers
// (lab, radiology, pharmacy, bed, consultation workflows).
type CreateChargeRequest struct {
	EncounterID   string          `json:"encounter_id" validate:"required"`
	SourceType    string          `json:"source_type" validate:"required,oneof=CONSULTATION LAB RADIOLOGY PHARMACY BED PROCEDURE"`
	SourceID      string          `json:"source_id" validate:"required"`
	ServiceItemID string          `json:"service_item_id" validate:"required"`
	Quantity      int64           `json:"quantity" validate:"required,gt=0"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	// OverrideSafety acknowledges a previous SAFETY_WARNING rejection.
	OverrideSafety bool `json:"override_safety,omitempty"`
}
