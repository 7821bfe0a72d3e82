package contracts

import (
	"context"
	"medledger-service/internal/app/models"
	"medledger-service/internal/pkg/dto/requests"
)

type PaymentUsecase interface {
	ApplyPayment(ctx context.Context, invoiceID string, request *requests.ApplyPaymentRequest) (*models.Payment, error)
	FindByInvoiceID(ctx context.Context, invoiceID string) ([]models.Payment, error)
}

// RecordPaymentInput is the atomic write of a successful payment: the
// payment row, the invoice's new paid amount and status, and the orders
// whose paymentStatus flips to PAID when the invoice settles. All of it
// commits or none of it does.
type RecordPaymentInput struct {
	Payment      *models.Payment
	Invoice      *models.Invoice
	PaidOrderIDs []string
}

type PaymentRepository interface {
	FindByInvoiceID(ctx context.Context, invoiceID string) ([]models.Payment, error)
	FindByEncounterID(ctx context.Context, encounterID string) ([]models.Payment, error)
	RecordPayment(ctx context.Context, input *RecordPaymentInput) (*models.Payment, error)
}
