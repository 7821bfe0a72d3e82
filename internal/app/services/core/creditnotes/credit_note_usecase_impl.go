package creditnotes

import (
	"context"
	"fmt"
	"medledger-service/internal/app/config"
	"medledger-service/internal/app/contracts"
	"medledger-service/internal/app/models"
	"medledger-service/internal/pkg/constvars"
	"medledger-service/internal/pkg/exceptions"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type creditNoteUsecase struct {
	CreditNoteRepository contracts.CreditNoteRepository
	InvoiceRepository    contracts.InvoiceRepository
	ChargeRepository     contracts.ChargeRepository
	OrderRepository      contracts.OrderRepository
	AuditRepository      contracts.AuditRepository
	LockerService        contracts.LockerService
	InternalConfig       *config.InternalConfig
	Log                  *zap.Logger
}

var (
	creditNoteUsecaseInstance contracts.CreditNoteUsecase
	onceCreditNoteUsecase     sync.Once
)

func NewCreditNoteUsecase(
	creditNoteRepository contracts.CreditNoteRepository,
	invoiceRepository contracts.InvoiceRepository,
	chargeRepository contracts.ChargeRepository,
	orderRepository contracts.OrderRepository,
	auditRepository contracts.AuditRepository,
	lockerService contracts.LockerService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.CreditNoteUsecase {
	onceCreditNoteUsecase.Do(func() {
		instance := &creditNoteUsecase{
			CreditNoteRepository: creditNoteRepository,
			InvoiceRepository:    invoiceRepository,
			ChargeRepository:     chargeRepository,
			OrderRepository:      orderRepository,
			AuditRepository:      auditRepository,
			LockerService:        lockerService,
			InternalConfig:       internalConfig,
			Log:                  logger,
		}
		creditNoteUsecaseInstance = instance
	})
	return creditNoteUsecaseInstance
}

func (uc *creditNoteUsecase) CreateReturn(ctx context.Context, invoiceID, reason string) (*models.CreditNote, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("creditNoteUsecase.CreateReturn called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingInvoiceIDKey, invoiceID),
	)

	if strings.TrimSpace(reason) == "" {
		return nil, exceptions.ErrReasonRequired()
	}

	// Same lock as ApplyPayment so a payment and a return on the same
	// invoice never interleave.
	lockKey := fmt.Sprintf(constvars.InvoiceLockKeyFormat, invoiceID)
	lockTTL := time.Duration(uc.InternalConfig.Billing.LockTTLInSeconds) * time.Second
	acquired, lockValue, err := uc.LockerService.TryLock(ctx, lockKey, lockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, exceptions.ErrResourceBusy(constvars.ErrDevLockNotAcquired)
	}
	defer func() {
		if err := uc.LockerService.Unlock(ctx, lockKey, lockValue); err != nil {
			uc.Log.Warn("creditNoteUsecase.CreateReturn failed to release lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRedisKey, lockKey),
				zap.Error(err),
			)
		}
	}()

	invoice, err := uc.InvoiceRepository.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, exceptions.ErrResourceNotFound(constvars.ResourceInvoices, invoiceID)
	}
	if !invoice.Payable() {
		return nil, exceptions.ErrInvalidTransition(
			fmt.Sprintf("cannot issue a credit note against a %s invoice", invoice.Status))
	}

	existingNote, err := uc.CreditNoteRepository.FindActiveByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if existingNote != nil {
		return nil, exceptions.ErrReturnAlreadyExists(invoiceID)
	}

	resetOrderIDs, keptCompleted, err := uc.resettableOrderIDs(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	note := &models.CreditNote{
		ID:                uuid.NewString(),
		OriginalInvoiceID: invoiceID,
		Reason:            strings.TrimSpace(reason),
		TotalAmount:       invoice.NetAmount().Neg(),
		CreatedAt:         time.Now().UTC(),
	}

	recordedNote, err := uc.CreditNoteRepository.RecordCreditNote(ctx, &contracts.RecordCreditNoteInput{
		CreditNote:    note,
		Invoice:       invoice,
		ResetOrderIDs: resetOrderIDs,
	})
	if err != nil {
		uc.Log.Error("creditNoteUsecase.CreateReturn error recording credit note",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	entry := &models.AuditEntry{
		Action:      models.AuditCreditNoteIssued,
		EntityKind:  constvars.ResourceCreditNotes,
		EntityID:    recordedNote.ID,
		EncounterID: invoice.EncounterID,
		RequestID:   requestID,
		Detail: map[string]interface{}{
			"original_invoice_id": invoiceID,
			"reason":              recordedNote.Reason,
			"total_amount":        recordedNote.TotalAmount.String(),
		},
	}
	if err := uc.AuditRepository.Append(ctx, entry); err != nil {
		uc.Log.Warn("creditNoteUsecase.CreateReturn failed to append audit entry",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}

	uc.Log.Info("creditNoteUsecase.CreateReturn succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCreditNoteIDKey, recordedNote.ID),
		zap.Int(constvars.LoggingOrdersResetKey, len(resetOrderIDs)),
		zap.Int(constvars.LoggingOrdersKeptCompletedKey, keptCompleted),
	)
	return recordedNote, nil
}

// resettableOrderIDs collects the lab and radiology orders billed on
// the invoice whose paymentStatus may roll back to PENDING. Orders
// already COMPLETED keep their status: the work was done and its audit
// record stands regardless of the financial reversal.
func (uc *creditNoteUsecase) resettableOrderIDs(ctx context.Context, invoiceID string) ([]string, int, error) {
	charges, err := uc.ChargeRepository.FindByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, 0, err
	}
	var orderIDs []string
	for _, charge := range charges {
		if charge.SourceType == models.SourceLab || charge.SourceType == models.SourceRadiology {
			orderIDs = append(orderIDs, charge.SourceID)
		}
	}
	if len(orderIDs) == 0 {
		return nil, 0, nil
	}

	orders, err := uc.OrderRepository.FindByIDs(ctx, orderIDs)
	if err != nil {
		return nil, 0, err
	}
	var resettable []string
	keptCompleted := 0
	for _, order := range orders {
		if order.ResultStatus == models.OrderResultCompleted {
			keptCompleted++
			continue
		}
		resettable = append(resettable, order.ID)
	}
	return resettable, keptCompleted, nil
}
