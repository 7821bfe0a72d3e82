package payments

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
	"go.uber.org/zap"
)

type paymentUsecase struct {
	PaymentRepository    contracts.PaymentRepository
	InvoiceRepository    contracts.InvoiceRepository
	ChargeRepository     contracts.ChargeRepository
	CreditNoteRepository contracts.CreditNoteRepository
	AuditRepository      contracts.AuditRepository
	LockerService        contracts.LockerService
	InternalConfig       *config.InternalConfig
	Log                  *zap.Logger
}

var (
	paymentUsecaseInstance contracts.PaymentUsecase
	oncePaymentUsecase     sync.Once
)

func NewPaymentUsecase(
	paymentRepository contracts.PaymentRepository,
	invoiceRepository contracts.InvoiceRepository,
	chargeRepository contracts.ChargeRepository,
	creditNoteRepository contracts.CreditNoteRepository,
	auditRepository contracts.AuditRepository,
	lockerService contracts.LockerService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.PaymentUsecase {
	oncePaymentUsecase.Do(func() {
		instance := &paymentUsecase{
			PaymentRepository:    paymentRepository,
			InvoiceRepository:    invoiceRepository,
			ChargeRepository:     chargeRepository,
			CreditNoteRepository: creditNoteRepository,
			AuditRepository:      auditRepository,
			LockerService:        lockerService,
			InternalConfig:       internalConfig,
			Log:                  logger,
		}
		paymentUsecaseInstance = instance
	})
	return paymentUsecaseInstance
}

func (uc *paymentUsecase) ApplyPayment(ctx context.Context, invoiceID string, request *requests.ApplyPaymentRequest) (*models.Payment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("paymentUsecase.ApplyPayment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingInvoiceIDKey, invoiceID),
		zap.String(constvars.LoggingAmountKey, request.Amount.String()),
	)

	amount := utils.RoundMoney(request.Amount)
	if !amount.IsPositive() {
		return nil, exceptions.ErrInvalidAmount(
			fmt.Sprintf("payment amount %s is not positive", amount.String()))
	}

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
			uc.Log.Warn("paymentUsecase.ApplyPayment failed to release lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRedisKey, lockKey),
				zap.Error(err),
			)
		}
	}()

	// All checks run on state re-read after the lock is held.
	invoice, err := uc.InvoiceRepository.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, exceptions.ErrResourceNotFound(constvars.ResourceInvoices, invoiceID)
	}
	if !invoice.Payable() {
		return nil, exceptions.ErrInvoiceNotPayable(
			fmt.Sprintf("invoice is %s", invoice.Status))
	}

	activeNote, err := uc.CreditNoteRepository.FindActiveByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if activeNote != nil {
		return nil, exceptions.ErrInvoiceNotPayable("invoice carries an active credit note")
	}

	remaining := invoice.Remaining()
	if amount.GreaterThan(remaining) {
		return nil, exceptions.ErrOverpaymentRejected(
			fmt.Sprintf("amount %s exceeds remaining %s", amount.String(), remaining.String()))
	}

	newPaid := utils.RoundMoney(invoice.PaidAmount.Add(amount))
	newStatus := models.InvoiceStatusFor(newPaid, invoice.NetAmount())

	var paidOrderIDs []string
	if newStatus == models.InvoicePaid {
		paidOrderIDs, err = uc.orderIDsOnInvoice(ctx, invoiceID)
		if err != nil {
			return nil, err
		}
	}

	updatedInvoice := *invoice
	updatedInvoice.PaidAmount = newPaid
	updatedInvoice.Status = newStatus

	payment := &models.Payment{
		ID:        uuid.NewString(),
		InvoiceID: invoiceID,
		Amount:    amount,
		Method:    models.PaymentMethod(request.Method),
		Reference: request.Reference,
		PaidAt:    time.Now().UTC(),
	}

	recordedPayment, err := uc.PaymentRepository.RecordPayment(ctx, &contracts.RecordPaymentInput{
		Payment:      payment,
		Invoice:      &updatedInvoice,
		PaidOrderIDs: paidOrderIDs,
	})
	if err != nil {
		uc.Log.Error("paymentUsecase.ApplyPayment error recording payment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	entry := &models.AuditEntry{
		Action:      models.AuditPaymentApplied,
		EntityKind:  constvars.ResourcePayments,
		EntityID:    recordedPayment.ID,
		EncounterID: invoice.EncounterID,
		RequestID:   requestID,
		Detail: map[string]interface{}{
			"invoice_id": invoiceID,
			"amount":     amount.String(),
			"new_status": string(newStatus),
		},
	}
	if err := uc.AuditRepository.Append(ctx, entry); err != nil {
		uc.Log.Warn("paymentUsecase.ApplyPayment failed to append audit entry",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}

	uc.Log.Info("paymentUsecase.ApplyPayment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, recordedPayment.ID),
		zap.String(constvars.LoggingInvoiceStatus, string(newStatus)),
		zap.Int(constvars.LoggingOrdersFlippedKey, len(paidOrderIDs)),
	)
	return recordedPayment, nil
}

func (uc *paymentUsecase) FindByInvoiceID(ctx context.Context, invoiceID string) ([]models.Payment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("paymentUsecase.FindByInvoiceID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingInvoiceIDKey, invoiceID),
	)
	return uc.PaymentRepository.FindByInvoiceID(ctx, invoiceID)
}

// orderIDsOnInvoice resolves the lab and radiology orders billed on the
// invoice; their paymentStatus flips to PAID when the invoice settles.
func (uc *paymentUsecase) orderIDsOnInvoice(ctx context.Context, invoiceID string) ([]string, error) {
	charges, err := uc.ChargeRepository.FindByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	var orderIDs []string
	for _, charge := range charges {
		if charge.SourceType == models.SourceLab || charge.SourceType == models.SourceRadiology {
			orderIDs = append(orderIDs, charge.SourceID)
		}
	}
	return orderIDs, nil
}
