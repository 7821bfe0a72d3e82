package exceptions

import (
	"fmt"
	"medledger-service/internal/pkg/constvars"
)

// Rejection codes surfaced to callers. The UI distinguishes
// PAYMENT_REQUIRED ("settle billing first") from plain validation
// failures, so these never collapse into a generic error.
const (
	CodeInvalidDiscount     = "INVALID_DISCOUNT"
	CodeInvoiceNotPayable   = "INVOICE_NOT_PAYABLE"
	CodeOverpaymentRejected = "OVERPAYMENT_REJECTED"
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeReturnAlreadyExists = "RETURN_ALREADY_EXISTS"
	CodeReasonRequired      = "REASON_REQUIRED"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodePaymentRequired     = "PAYMENT_REQUIRED"
	CodeSafetyWarning       = "SAFETY_WARNING"
	CodeResourceBusy        = "RESOURCE_BUSY"
)

var (
	ErrInvalidDiscount = func(devMessage string) *CustomError {
		return BuildNewRejection(constvars.StatusUnprocessableEntity, CodeInvalidDiscount, constvars.ErrClientInvalidDiscount, devMessage)
	}
	ErrInvoiceNotPayable = func(devMessage string) *CustomError {
		return BuildNewRejection(constvars.StatusUnprocessableEntity, CodeInvoiceNotPayable, constvars.ErrClientInvoiceNotPayable, devMessage)
	}
	ErrOverpaymentRejected = func(devMessage string) *CustomError {
		return BuildNewRejection(constvars.StatusUnprocessableEntity, CodeOverpaymentRejected, constvars.ErrClientOverpaymentRejected, devMessage)
	}
	ErrInvalidAmount = func(devMessage string) *CustomError {
		return BuildNewRejection(constvars.StatusUnprocessableEntity, CodeInvalidAmount, constvars.ErrClientInvalidAmount, devMessage)
	}
	ErrReturnAlreadyExists = func(invoiceID string) *CustomError {
		return BuildNewRejection(constvars.StatusConflict, CodeReturnAlreadyExists, constvars.ErrClientReturnAlreadyExists, fmt.Sprintf("active credit note already exists for invoice %s", invoiceID))
	}
	ErrReasonRequired = func() *CustomError {
		return BuildNewRejection(constvars.StatusUnprocessableEntity, CodeReasonRequired, constvars.ErrClientReasonRequired, "credit note reason is empty")
	}
	ErrInvalidTransition = func(devMessage string) *CustomError {
		return BuildNewRejection(constvars.StatusUnprocessableEntity, CodeInvalidTransition, constvars.ErrClientInvalidTransition, devMessage)
	}
	ErrPaymentRequired = func(orderID string) *CustomError {
		return BuildNewRejection(constvars.StatusPaymentRequired, CodePaymentRequired, constvars.ErrClientPaymentRequired, fmt.Sprintf("order %s is not paid or waived", orderID))
	}
	ErrResourceBusy = func(devMessage string) *CustomError {
		return BuildNewRejection(constvars.StatusConflict, CodeResourceBusy, constvars.ErrClientResourceBusy, devMessage)
	}
	ErrChargeAlreadyInvoiced = func(chargeID string) *CustomError {
		return BuildNewRejection(constvars.StatusConflict, CodeInvalidTransition, constvars.ErrClientChargeAlreadyInvoiced, fmt.Sprintf("charge %s already carries an invoice id", chargeID))
	}
	ErrEncounterMismatch = func(devMessage string) *CustomError {
		return BuildNewRejection(constvars.StatusUnprocessableEntity, CodeInvalidTransition, constvars.ErrClientEncounterMismatch, devMessage)
	}
)

// ErrSafetyWarning carries the interacting drug pairs so the caller can
// render them and resubmit with overrideSafety.
func ErrSafetyWarning(warnings interface{}) *CustomError {
	customErr := BuildNewRejection(constvars.StatusUnprocessableEntity, CodeSafetyWarning, constvars.ErrClientSafetyWarning, "prescription rejected by drug interaction check")
	customErr.Details = warnings
	return customErr
}
