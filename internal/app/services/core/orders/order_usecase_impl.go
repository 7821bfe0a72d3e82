package orders

import (
	"context"
	"encoding/base64"
	"fmt"
	"medledger-service/internal/app/config"
	"medledger-service/internal/app/contracts"
	"medledger-service/internal/app/models"
	"medledger-service/internal/pkg/constvars"
	"medledger-service/internal/pkg/dto/requests"
	"medledger-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type orderUsecase struct {
	OrderRepository   contracts.OrderRepository
	ReportStorage     contracts.ReportStorage
	DispatchPublisher contracts.DispatchPublisher
	AuditRepository   contracts.AuditRepository
	LockerService     contracts.LockerService
	InternalConfig    *config.InternalConfig
	Log               *zap.Logger
}

var (
	orderUsecaseInstance contracts.OrderUsecase
	onceOrderUsecase     sync.Once
)

func NewOrderUsecase(
	orderRepository contracts.OrderRepository,
	reportStorage contracts.ReportStorage,
	dispatchPublisher contracts.DispatchPublisher,
	auditRepository contracts.AuditRepository,
	lockerService contracts.LockerService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.OrderUsecase {
	onceOrderUsecase.Do(func() {
		instance := &orderUsecase{
			OrderRepository:   orderRepository,
			ReportStorage:     reportStorage,
			DispatchPublisher: dispatchPublisher,
			AuditRepository:   auditRepository,
			LockerService:     lockerService,
			InternalConfig:    internalConfig,
			Log:               logger,
		}
		orderUsecaseInstance = instance
	})
	return orderUsecaseInstance
}

func (uc *orderUsecase) CreateOrder(ctx context.Context, request *requests.CreateOrderRequest) (*models.Order, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("orderUsecase.CreateOrder called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEncounterIDKey, request.EncounterID),
		zap.String("kind", request.Kind),
	)

	now := time.Now().UTC()
	order := &models.Order{
		ID:            uuid.NewString(),
		EncounterID:   request.EncounterID,
		Kind:          models.OrderKind(request.Kind),
		DoctorID:      request.DoctorID,
		PaymentStatus: models.OrderPaymentPending,
		ResultStatus:  models.OrderResultPending,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	createdOrder, err := uc.OrderRepository.CreateOrder(ctx, order)
	if err != nil {
		uc.Log.Error("orderUsecase.CreateOrder error inserting order",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("orderUsecase.CreateOrder succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOrderIDKey, createdOrder.ID),
	)
	return createdOrder, nil
}

func (uc *orderUsecase) Start(ctx context.Context, orderID string) (*models.Order, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("orderUsecase.Start called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOrderIDKey, orderID),
	)

	return uc.withOrderLock(ctx, orderID, func(order *models.Order, _ func() error) (*models.Order, error) {
		if !CanFulfill(order) {
			return nil, exceptions.ErrPaymentRequired(order.ID)
		}
		if !order.ResultStatus.Startable() {
			return nil, exceptions.ErrInvalidTransition(
				fmt.Sprintf("order is %s, cannot start", order.ResultStatus))
		}

		order.ResultStatus = models.OrderResultInProgress
		updatedOrder, err := uc.OrderRepository.UpdateOrder(ctx, order)
		if err != nil {
			return nil, err
		}

		uc.dispatch(ctx, requestID, updatedOrder, "started")
		uc.appendAudit(ctx, requestID, updatedOrder, models.AuditOrderStarted, nil)
		return updatedOrder, nil
	})
}

func (uc *orderUsecase) Complete(ctx context.Context, orderID string, request *requests.CompleteOrderRequest) (*models.Order, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("orderUsecase.Complete called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOrderIDKey, orderID),
	)

	return uc.withOrderLock(ctx, orderID, func(order *models.Order, extendLock func() error) (*models.Order, error) {
		if !CanFulfill(order) {
			return nil, exceptions.ErrPaymentRequired(order.ID)
		}

		// Completing an already COMPLETED order is an amendment: the
		// latest payload wins and the previous one survives only in the
		// audit trail.
		amending := order.ResultStatus == models.OrderResultCompleted
		if !amending && order.ResultStatus != models.OrderResultInProgress {
			return nil, exceptions.ErrInvalidTransition(
				fmt.Sprintf("order is %s, cannot complete", order.ResultStatus))
		}

		if request.Attachment != nil {
			// The upload can outlive the lock TTL on a slow object store;
			// extend it first so no competing transition slips in.
			if err := extendLock(); err != nil {
				return nil, err
			}
			objectName, err := uc.storeAttachment(ctx, requestID, order.ID, request.Attachment)
			if err != nil {
				return nil, err
			}
			order.ReportObject = objectName
		}

		order.ResultStatus = models.OrderResultCompleted
		order.ResultPayload = request.ResultPayload
		updatedOrder, err := uc.OrderRepository.UpdateOrder(ctx, order)
		if err != nil {
			return nil, err
		}

		action := models.AuditOrderCompleted
		dispatchAction := "completed"
		if amending {
			action = models.AuditOrderAmended
			dispatchAction = "amended"
		}
		uc.dispatch(ctx, requestID, updatedOrder, dispatchAction)
		uc.appendAudit(ctx, requestID, updatedOrder, action, map[string]interface{}{
			"report_object": updatedOrder.ReportObject,
		})
		return updatedOrder, nil
	})
}

func (uc *orderUsecase) Cancel(ctx context.Context, orderID string) (*models.Order, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("orderUsecase.Cancel called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOrderIDKey, orderID),
	)

	return uc.withOrderLock(ctx, orderID, func(order *models.Order, _ func() error) (*models.Order, error) {
		if !order.ResultStatus.Startable() && order.ResultStatus != models.OrderResultInProgress {
			return nil, exceptions.ErrInvalidTransition(
				fmt.Sprintf("order is %s, cannot cancel", order.ResultStatus))
		}

		order.ResultStatus = models.OrderResultCancelled
		updatedOrder, err := uc.OrderRepository.UpdateOrder(ctx, order)
		if err != nil {
			return nil, err
		}

		uc.dispatch(ctx, requestID, updatedOrder, "cancelled")
		uc.appendAudit(ctx, requestID, updatedOrder, models.AuditOrderCancelled, nil)
		return updatedOrder, nil
	})
}

func (uc *orderUsecase) WaivePayment(ctx context.Context, orderID string) (*models.Order, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("orderUsecase.WaivePayment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOrderIDKey, orderID),
	)

	return uc.withOrderLock(ctx, orderID, func(order *models.Order, _ func() error) (*models.Order, error) {
		if order.PaymentStatus != models.OrderPaymentPending {
			return nil, exceptions.ErrInvalidTransition(
				fmt.Sprintf("payment status is %s, only PENDING can be waived", order.PaymentStatus))
		}

		order.PaymentStatus = models.OrderPaymentWaived
		updatedOrder, err := uc.OrderRepository.UpdateOrder(ctx, order)
		if err != nil {
			return nil, err
		}

		uc.appendAudit(ctx, requestID, updatedOrder, models.AuditOrderWaived, nil)
		return updatedOrder, nil
	})
}

func (uc *orderUsecase) FindByID(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := uc.OrderRepository.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, exceptions.ErrResourceNotFound(constvars.ResourceOrders, orderID)
	}
	return order, nil
}

// withOrderLock serializes one order's transitions: take the lock,
// re-read the row, run the transition, release. The transition gets an
// extendLock callback for steps that may outlive the lock TTL.
func (uc *orderUsecase) withOrderLock(ctx context.Context, orderID string, transition func(order *models.Order, extendLock func() error) (*models.Order, error)) (*models.Order, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	lockKey := fmt.Sprintf(constvars.OrderLockKeyFormat, orderID)
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
			uc.Log.Warn("orderUsecase.withOrderLock failed to release lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRedisKey, lockKey),
				zap.Error(err),
			)
		}
	}()

	order, err := uc.OrderRepository.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, exceptions.ErrResourceNotFound(constvars.ResourceOrders, orderID)
	}
	extendLock := func() error {
		return uc.LockerService.Refresh(ctx, lockKey, lockValue, lockTTL)
	}
	return transition(order, extendLock)
}

func (uc *orderUsecase) storeAttachment(ctx context.Context, requestID, orderID string, attachment *requests.ReportAttachment) (string, error) {
	data, err := base64.StdEncoding.DecodeString(attachment.Data)
	if err != nil {
		return "", exceptions.ErrInvalidAttachment(err)
	}
	objectName, err := uc.ReportStorage.StoreReportAttachment(ctx, orderID, attachment.FileName, attachment.ContentType, data)
	if err != nil {
		uc.Log.Error("orderUsecase.storeAttachment error storing report attachment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOrderIDKey, orderID),
			zap.Error(err),
		)
		return "", err
	}
	uc.Log.Info("orderUsecase.storeAttachment stored report attachment",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAttachmentObjectKey, objectName),
	)
	return objectName, nil
}

// dispatch notifies downstream systems after the row is committed. A
// broker outage must not fail the clinical transition, so errors only
// log.
func (uc *orderUsecase) dispatch(ctx context.Context, requestID string, order *models.Order, action string) {
	event := &contracts.OrderDispatchEvent{
		OrderID:     order.ID,
		EncounterID: order.EncounterID,
		Kind:        string(order.Kind),
		Action:      action,
		OccurredAt:  time.Now().UTC(),
	}
	if err := uc.DispatchPublisher.PublishOrderDispatch(ctx, event); err != nil {
		uc.Log.Error("orderUsecase.dispatch error publishing dispatch event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOrderIDKey, order.ID),
			zap.Error(err),
		)
	}
}

func (uc *orderUsecase) appendAudit(ctx context.Context, requestID string, order *models.Order, action models.AuditAction, detail map[string]interface{}) {
	entry := &models.AuditEntry{
		Action:      action,
		EntityKind:  constvars.ResourceOrders,
		EntityID:    order.ID,
		EncounterID: order.EncounterID,
		RequestID:   requestID,
		Detail:      detail,
	}
	if err := uc.AuditRepository.Append(ctx, entry); err != nil {
		uc.Log.Warn("orderUsecase.appendAudit failed to append audit entry",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
}
