package statements

import (
	"context"
	"medledger-service/internal/app/contracts"
	"medledger-service/internal/app/models"
	"medledger-service/internal/pkg/constvars"
	"sync"

	"go.uber.org/zap"
)

type statementUsecase struct {
	ChargeRepository     contracts.ChargeRepository
	InvoiceRepository    contracts.InvoiceRepository
	PaymentRepository    contracts.PaymentRepository
	CreditNoteRepository contracts.CreditNoteRepository
	Log                  *zap.Logger
}

var (
	statementUsecaseInstance contracts.StatementUsecase
	onceStatementUsecase     sync.Once
)

func NewStatementUsecase(
	chargeRepository contracts.ChargeRepository,
	invoiceRepository contracts.InvoiceRepository,
	paymentRepository contracts.PaymentRepository,
	creditNoteRepository contracts.CreditNoteRepository,
	logger *zap.Logger,
) contracts.StatementUsecase {
	onceStatementUsecase.Do(func() {
		instance := &statementUsecase{
			ChargeRepository:     chargeRepository,
			InvoiceRepository:    invoiceRepository,
			PaymentRepository:    paymentRepository,
			CreditNoteRepository: creditNoteRepository,
			Log:                  logger,
		}
		statementUsecaseInstance = instance
	})
	return statementUsecaseInstance
}

func (uc *statementUsecase) GetStatement(ctx context.Context, encounterID string) ([]models.StatementRow, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("statementUsecase.GetStatement called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEncounterIDKey, encounterID),
	)

	charges, err := uc.ChargeRepository.FindByEncounterID(ctx, encounterID)
	if err != nil {
		return nil, err
	}
	invoices, err := uc.InvoiceRepository.FindByEncounterID(ctx, encounterID)
	if err != nil {
		return nil, err
	}
	payments, err := uc.PaymentRepository.FindByEncounterID(ctx, encounterID)
	if err != nil {
		return nil, err
	}
	creditNotes, err := uc.CreditNoteRepository.FindByEncounterID(ctx, encounterID)
	if err != nil {
		return nil, err
	}

	rows := Project(charges, invoices, payments, creditNotes)

	finalBalance := "0"
	if len(rows) > 0 {
		finalBalance = rows[len(rows)-1].RunningBalance.String()
	}
	uc.Log.Info("statementUsecase.GetStatement succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingStatementRowCountKey, len(rows)),
		zap.String(constvars.LoggingStatementFinalBalanceKey, finalBalance),
	)
	return rows, nil
}
