package invoices

import (
	"context"
	"fmt"
	"medledger-service/internal/app/config"
	"medledger-service/internal/app/contracts"
	"medledger-service/internal/app/models"
	"medledger-service/internal/pkg/constvars"
	"medledger-service/internal/pkg/dto/requests"
	"medledger-service/internal/pkg/exceptions"
	"medledger-service/internal/pkg/utils"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type invoiceUsecase struct {
	InvoiceRepository contracts.InvoiceRepository
	ChargeRepository  contracts.ChargeRepository
	AuditRepository   contracts.AuditRepository
	InternalConfig    *config.InternalConfig
	Log               *zap.Logger
}

var (
	invoiceUsecaseInstance contracts.InvoiceUsecase
	onceInvoiceUsecase     sync.Once
)

func NewInvoiceUsecase(
	invoiceRepository contracts.InvoiceRepository,
	chargeRepository contracts.ChargeRepository,
	auditRepository contracts.AuditRepository,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.InvoiceUsecase {
	onceInvoiceUsecase.Do(func() {
		instance := &invoiceUsecase{
			InvoiceRepository: invoiceRepository,
			ChargeRepository:  chargeRepository,
			AuditRepository:   auditRepository,
			InternalConfig:    internalConfig,
			Log:               logger,
		}
		invoiceUsecaseInstance = instance
	})
	return invoiceUsecaseInstance
}

func (uc *invoiceUsecase) CreateInvoice(ctx context.Context, request *requests.CreateInvoiceRequest) (*models.Invoice, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("invoiceUsecase.CreateInvoice called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEncounterIDKey, request.EncounterID),
		zap.Int(constvars.LoggingChargeCountKey, len(request.ChargeIDs)),
	)

	charges, err := uc.loadAttachableCharges(ctx, request.ChargeIDs, request.EncounterID)
	if err != nil {
		return nil, err
	}

	discount := utils.RoundMoney(request.DiscountAmount)
	total, err := Recompute(charges, discount)
	if err != nil {
		return nil, err
	}

	currency := request.Currency
	if currency == "" {
		currency = uc.InternalConfig.Billing.Currency
	}

	now := time.Now().UTC()
	invoice := &models.Invoice{
		ID:             uuid.NewString(),
		EncounterID:    request.EncounterID,
		Status:         models.InvoiceDraft,
		Currency:       currency,
		TotalAmount:    total,
		DiscountAmount: discount,
		PaidAmount:     decimal.Zero,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	createdInvoice, err := uc.InvoiceRepository.CreateInvoiceWithCharges(ctx, invoice, request.ChargeIDs)
	if err != nil {
		uc.Log.Error("invoiceUsecase.CreateInvoice error inserting invoice",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("invoiceUsecase.CreateInvoice succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingInvoiceIDKey, createdInvoice.ID),
		zap.String(constvars.LoggingInvoiceTotalAmountKey, createdInvoice.TotalAmount.String()),
	)
	return createdInvoice, nil
}

func (uc *invoiceUsecase) AddCharges(ctx context.Context, invoiceID string, request *requests.AddChargesRequest) (*models.Invoice, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("invoiceUsecase.AddCharges called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingInvoiceIDKey, invoiceID),
		zap.Int(constvars.LoggingChargeCountKey, len(request.ChargeIDs)),
	)

	invoice, err := uc.findExisting(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != models.InvoiceDraft {
		return nil, exceptions.ErrInvalidTransition(
			fmt.Sprintf("cannot attach charges to a %s invoice", invoice.Status))
	}

	newCharges, err := uc.loadAttachableCharges(ctx, request.ChargeIDs, invoice.EncounterID)
	if err != nil {
		return nil, err
	}

	attached, err := uc.ChargeRepository.FindByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	newTotal, err := Recompute(append(attached, newCharges...), invoice.DiscountAmount)
	if err != nil {
		return nil, err
	}

	updatedInvoice, err := uc.InvoiceRepository.AttachCharges(ctx, invoice, request.ChargeIDs, newTotal)
	if err != nil {
		uc.Log.Error("invoiceUsecase.AddCharges error attaching charges",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("invoiceUsecase.AddCharges succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingInvoiceIDKey, updatedInvoice.ID),
		zap.String(constvars.LoggingInvoiceTotalAmountKey, updatedInvoice.TotalAmount.String()),
	)
	return updatedInvoice, nil
}

func (uc *invoiceUsecase) Issue(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	return uc.transitionDraft(ctx, invoiceID, models.InvoiceIssued, models.AuditInvoiceIssued)
}

func (uc *invoiceUsecase) CancelDraft(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	return uc.transitionDraft(ctx, invoiceID, models.InvoiceCancelled, "")
}

func (uc *invoiceUsecase) FindByID(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	return uc.findExisting(ctx, invoiceID)
}

func (uc *invoiceUsecase) transitionDraft(ctx context.Context, invoiceID string, newStatus models.InvoiceStatus, auditAction models.AuditAction) (*models.Invoice, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("invoiceUsecase.transitionDraft called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingInvoiceIDKey, invoiceID),
		zap.String(constvars.LoggingInvoiceStatus, string(newStatus)),
	)

	invoice, err := uc.findExisting(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != models.InvoiceDraft {
		return nil, exceptions.ErrInvalidTransition(
			fmt.Sprintf("invoice is %s, only DRAFT can move to %s", invoice.Status, newStatus))
	}

	updatedInvoice, err := uc.InvoiceRepository.UpdateStatus(ctx, invoice, newStatus)
	if err != nil {
		uc.Log.Error("invoiceUsecase.transitionDraft error updating status",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	if auditAction != "" {
		entry := &models.AuditEntry{
			Action:      auditAction,
			EntityKind:  constvars.ResourceInvoices,
			EntityID:    updatedInvoice.ID,
			EncounterID: updatedInvoice.EncounterID,
			RequestID:   requestID,
			Detail: map[string]interface{}{
				"net_amount": updatedInvoice.NetAmount().String(),
			},
		}
		if err := uc.AuditRepository.Append(ctx, entry); err != nil {
			uc.Log.Warn("invoiceUsecase.transitionDraft failed to append audit entry",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
		}
	}
	return updatedInvoice, nil
}

func (uc *invoiceUsecase) findExisting(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	invoice, err := uc.InvoiceRepository.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, exceptions.ErrResourceNotFound(constvars.ResourceInvoices, invoiceID)
	}
	return invoice, nil
}

// loadAttachableCharges rejects unknown, already-invoiced, and
// foreign-encounter charges before anything is written.
func (uc *invoiceUsecase) loadAttachableCharges(ctx context.Context, chargeIDs []string, encounterID string) ([]models.Charge, error) {
	charges, err := uc.ChargeRepository.FindByIDs(ctx, chargeIDs)
	if err != nil {
		return nil, err
	}
	if len(charges) != len(chargeIDs) {
		found := make(map[string]bool, len(charges))
		for _, charge := range charges {
			found[charge.ID] = true
		}
		for _, id := range chargeIDs {
			if !found[id] {
				return nil, exceptions.ErrResourceNotFound(constvars.ResourceCharges, id)
			}
		}
	}
	for _, charge := range charges {
		if charge.Invoiced() {
			return nil, exceptions.ErrChargeAlreadyInvoiced(charge.ID)
		}
		if charge.EncounterID != encounterID {
			return nil, exceptions.ErrEncounterMismatch(
				fmt.Sprintf("charge %s belongs to encounter %s, invoice covers %s", charge.ID, charge.EncounterID, encounterID))
		}
	}
	return charges, nil
}
