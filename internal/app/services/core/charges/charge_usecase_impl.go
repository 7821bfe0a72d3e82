package charges

import (
	"context"
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

type chargeUsecase struct {
	ChargeRepository contracts.ChargeRepository
	DrugSafetyClient contracts.DrugSafetyClient
	AuditRepository  contracts.AuditRepository
	InternalConfig   *config.InternalConfig
	Log              *zap.Logger
}

var (
	chargeUsecaseInstance contracts.ChargeUsecase
	onceChargeUsecase     sync.Once
)

func NewChargeUsecase(
	chargeRepository contracts.ChargeRepository,
	drugSafetyClient contracts.DrugSafetyClient,
	auditRepository contracts.AuditRepository,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.ChargeUsecase {
	onceChargeUsecase.Do(func() {
		instance := &chargeUsecase{
			ChargeRepository: chargeRepository,
			DrugSafetyClient: drugSafetyClient,
			AuditRepository:  auditRepository,
			InternalConfig:   internalConfig,
			Log:              logger,
		}
		chargeUsecaseInstance = instance
	})
	return chargeUsecaseInstance
}

func (uc *chargeUsecase) CreateCharge(ctx context.Context, request *requests.CreateChargeRequest) (*models.Charge, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("chargeUsecase.CreateCharge called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEncounterIDKey, request.EncounterID),
		zap.String("source_type", request.SourceType),
	)

	// Zero is a valid unit price: complimentary services still produce a
	// charge so the encounter's clinical trail stays complete.
	if request.UnitPrice.IsNegative() {
		return nil, exceptions.ErrInvalidAmount("charge unit price must not be negative")
	}

	sourceType := models.ChargeSourceType(request.SourceType)
	safetyOverridden := false
	if sourceType == models.SourcePharmacy {
		warnings, err := uc.DrugSafetyClient.CheckInteractions(ctx, request.EncounterID, request.ServiceItemID)
		if err != nil {
			uc.Log.Error("chargeUsecase.CreateCharge error checking drug interactions",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return nil, err
		}
		if len(warnings) > 0 {
			if !request.OverrideSafety {
				uc.Log.Warn("chargeUsecase.CreateCharge blocked by drug interaction warnings",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.Int(constvars.LoggingInteractionPairCountKey, len(warnings)),
				)
				return nil, exceptions.ErrSafetyWarning(warnings)
			}
			safetyOverridden = true
		}
	}

	charge := &models.Charge{
		ID:             uuid.NewString(),
		EncounterID:    request.EncounterID,
		SourceType:     sourceType,
		SourceID:       request.SourceID,
		ServiceItemID:  request.ServiceItemID,
		Quantity:       request.Quantity,
		UnitPrice:      utils.RoundMoney(request.UnitPrice),
		SafetyOverride: safetyOverridden,
		CreatedAt:      time.Now().UTC(),
	}
	charge.TotalAmount = utils.RoundMoney(charge.UnitPrice.Mul(decimal.NewFromInt(request.Quantity)))

	createdCharge, err := uc.ChargeRepository.CreateCharge(ctx, charge)
	if err != nil {
		uc.Log.Error("chargeUsecase.CreateCharge error inserting charge",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.appendAudit(ctx, requestID, createdCharge, safetyOverridden)

	uc.Log.Info("chargeUsecase.CreateCharge succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingChargeIDKey, createdCharge.ID),
		zap.Bool(constvars.LoggingSafetyOverrideKey, safetyOverridden),
	)
	return createdCharge, nil
}

func (uc *chargeUsecase) FindByID(ctx context.Context, chargeID string) (*models.Charge, error) {
	charge, err := uc.ChargeRepository.FindByID(ctx, chargeID)
	if err != nil {
		return nil, err
	}
	if charge == nil {
		return nil, exceptions.ErrResourceNotFound(constvars.ResourceCharges, chargeID)
	}
	return charge, nil
}

func (uc *chargeUsecase) FindByEncounterID(ctx context.Context, encounterID string) ([]models.Charge, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("chargeUsecase.FindByEncounterID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEncounterIDKey, encounterID),
	)
	return uc.ChargeRepository.FindByEncounterID(ctx, encounterID)
}

// appendAudit is best-effort: the charge row is already committed and a
// trail failure must not undo it.
func (uc *chargeUsecase) appendAudit(ctx context.Context, requestID string, charge *models.Charge, safetyOverridden bool) {
	action := models.AuditChargeCreated
	if safetyOverridden {
		action = models.AuditSafetyOverridden
	}
	entry := &models.AuditEntry{
		Action:      action,
		EntityKind:  constvars.ResourceCharges,
		EntityID:    charge.ID,
		EncounterID: charge.EncounterID,
		RequestID:   requestID,
		Detail: map[string]interface{}{
			"source_type":  string(charge.SourceType),
			"total_amount": charge.TotalAmount.String(),
		},
	}
	if err := uc.AuditRepository.Append(ctx, entry); err != nil {
		uc.Log.Warn("chargeUsecase.CreateCharge failed to append audit entry",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
}
