package models

import (
	"time"

	"github.com/goccy/go-json"
)

type OrderKind string

const (
	OrderLab       OrderKind = "LAB"
	OrderRadiology OrderKind = "RADIOLOGY"
)

func (k OrderKind) Valid() bool {
	return k == OrderLab || k == OrderRadiology
}

type OrderPaymentStatus string

const (
	OrderPaymentPending OrderPaymentStatus = "PENDING"
	OrderPaymentPaid    OrderPaymentStatus = "PAID"
	OrderPaymentWaived  OrderPaymentStatus = "WAIVED"
)

type OrderResultStatus string

const (
	OrderResultPending    OrderResultStatus = "PENDING"
	OrderResultScheduled  OrderResultStatus = "SCHEDULED"
	OrderResultInProgress OrderResultStatus = "IN_PROGRESS"
	OrderResultCompleted  OrderResultStatus = "COMPLETED"
	OrderResultCancelled  OrderResultStatus = "CANCELLED"
)

// Startable treats SCHEDULED as the radiology alias of PENDING.
func (s OrderResultStatus) Startable() bool {
	return s == OrderResultPending || s == OrderResultScheduled
}

// Order is a lab or radiology request tracked on two orthogonal axes:
// PaymentStatus gates fulfillment, ResultStatus tracks the clinical
// state machine. Neither implies the other.
type Order struct {
	ID            string             `json:"id"`
	EncounterID   string             `json:"encounter_id"`
	Kind          OrderKind          `json:"kind"`
	DoctorID      *string            `json:"doctor_id,omitempty"`
	PaymentStatus OrderPaymentStatus `json:"payment_status"`
	ResultStatus  OrderResultStatus  `json:"result_status"`
	ResultPayload json.RawMessage    `json:"result_payload,omitempty"`
	ReportObject  string             `json:"report_object,omitempty"`
	Version       int64              `json:"-"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}
