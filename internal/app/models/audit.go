package models

import "time"

type AuditAction string

const (
	AuditChargeCreated    AuditAction = "charge_created"
	AuditSafetyOverridden AuditAction = "safety_overridden"
	AuditInvoiceIssued    AuditAction = "invoice_issued"
	AuditPaymentApplied   AuditAction = "payment_applied"
	AuditCreditNoteIssued AuditAction = "credit_note_issued"
	AuditOrderStarted     AuditAction = "order_started"
	AuditOrderCompleted   AuditAction = "order_completed"
	AuditOrderAmended     AuditAction = "order_amended"
	AuditOrderCancelled   AuditAction = "order_cancelled"
	AuditOrderWaived      AuditAction = "order_payment_waived"
)

// AuditEntry is appended to the Mongo trail on every ledger mutation.
// The trail is best-effort: it never rolls back the ledger write.
type AuditEntry struct {
	ID          string                 `bson:"_id,omitempty" json:"id,omitempty"`
	Action      AuditAction            `bson:"action" json:"action"`
	EntityKind  string                 `bson:"entity_kind" json:"entity_kind"`
	EntityID    string                 `bson:"entity_id" json:"entity_id"`
	EncounterID string                 `bson:"encounter_id,omitempty" json:"encounter_id,omitempty"`
	RequestID   string                 `bson:"request_id,omitempty" json:"request_id,omitempty"`
	Detail      map[string]interface{} `bson:"detail,omitempty" json:"detail,omitempty"`
	RecordedAt  time.Time              `bson:"recorded_at" json:"recorded_at"`
}
