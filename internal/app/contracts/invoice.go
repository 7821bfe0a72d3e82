package contracts

import (
	"context"
	"medledger-service/internal/app/models"
	"medledger-service/internal/pkg/dto/requests"

	"github.com/shopspring/decimal"
)

type InvoiceUsecase interface {
	CreateInvoice(ctx context.Context, request *requests.CreateInvoiceRequest) (*models.Invoice, error)
	AddCharges(ctx context.Context, invoiceID string, request *requests.AddChargesRequest) (*models.Invoice, error)
	Issue(ctx context.Context, invoiceID string) (*models.Invoice, error)
	CancelDraft(ctx context.Context, invoiceID string) (*models.Invoice, error)
	FindByID(ctx context.Context, invoiceID string) (*models.Invoice, error)
}

type InvoiceRepository interface {
	FindByID(ctx context.Context, invoiceID string) (*models.Invoice, error)
	FindByEncounterID(ctx context.Context, encounterID string) ([]models.Invoice, error)
	// CreateInvoiceWithCharges inserts the invoice and stamps its id onto
	// the given charges in one transaction.
	CreateInvoiceWithCharges(ctx context.Context, invoice *models.Invoice, chargeIDs []string) (*models.Invoice, error)
	// AttachCharges stamps the invoice id onto additional charges and
	// moves the invoice total, guarded by the expected version.
	AttachCharges(ctx context.Context, invoice *models.Invoice, chargeIDs []string, newTotal decimal.Decimal) (*models.Invoice, error)
	// UpdateStatus writes status changes behind a version check.
	UpdateStatus(ctx context.Context, invoice *models.Invoice, newStatus models.InvoiceStatus) (*models.Invoice, error)
}
