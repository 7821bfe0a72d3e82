package contracts

import (
	"context"
	"medledger-service/internal/app/models"
)

type CreditNoteUsecase interface {
	CreateReturn(ctx context.Context, invoiceID, reason string) (*models.CreditNote, error)
}

// RecordCreditNoteInput is the atomic reversal write: the credit note,
// the invoice moving to CANCELLED, and the orders whose paymentStatus
// resets to PENDING. Orders already COMPLETED are excluded by the
// caller and re-excluded by the store.
type RecordCreditNoteInput struct {
	CreditNote    *models.CreditNote
	Invoice       *models.Invoice
	ResetOrderIDs []string
}

type CreditNoteRepository interface {
	FindActiveByInvoiceID(ctx context.Context, invoiceID string) (*models.CreditNote, error)
	FindByEncounterID(ctx context.Context, encounterID string) ([]models.CreditNote, error)
	RecordCreditNote(ctx context.Context, input *RecordCreditNoteInput) (*models.CreditNote, error)
}
