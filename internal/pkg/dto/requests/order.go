package requests

import "github.com/goccy/go-json"

type CreateOrderRequest struct {
	EncounterID string  `json:"encounter_id" validate:"required"`
	Kind        string  `json:"kind" validate:"required,oneof=LAB RADIOLOGY"`
	DoctorID    *string `json:"doctor_id,omitempty"`
}

// CompleteOrderRequest records or amends a result. The attachment is
// optional and lands in object storage, not in the ledger row.
type CompleteOrderRequest struct {
	ResultPayload json.RawMessage   `json:"result_payload" validate:"required"`
	Attachment    *ReportAttachment `json:"attachment,omitempty"`
}

type ReportAttachment struct {
	FileName    string `json:"file_name" validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
	Data        string `json:"data" validate:"required,base64"`
}
