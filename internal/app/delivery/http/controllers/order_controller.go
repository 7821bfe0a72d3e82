package controllers

import (
	"context"
	"medledger-service/internal/app/config"
	"medledger-service/internal/app/contracts"
	"medledger-service/internal/app/models"
	"medledger-service/internal/pkg/constvars"
	"medledger-service/internal/pkg/dto/requests"
	"medledger-service/internal/pkg/exceptions"
	"medledger-service/internal/pkg/utils"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type OrderController struct {
	Log            *zap.Logger
	OrderUsecase   contracts.OrderUsecase
	InternalConfig *config.InternalConfig
}

var (
	orderControllerInstance *OrderController
	onceOrderController     sync.Once
)

func NewOrderController(logger *zap.Logger, orderUsecase contracts.OrderUsecase, internalConfig *config.InternalConfig) *OrderController {
	onceOrderController.Do(func() {
		instance := &OrderController{
			Log:            logger,
			OrderUsecase:   orderUsecase,
			InternalConfig: internalConfig,
		}
		orderControllerInstance = instance
	})
	return orderControllerInstance
}

func (ctrl *OrderController) requestTimeout() time.Duration {
	return time.Duration(ctrl.InternalConfig.Billing.RequestTimeoutSeconds) * time.Second
}

func (ctrl *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	request := new(requests.CreateOrderRequest)
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	order, err := ctrl.OrderUsecase.CreateOrder(ctx, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.SuccessCreateOrder, order)
}

func (ctrl *OrderController) Start(w http.ResponseWriter, r *http.Request) {
	ctrl.transition(w, r, constvars.SuccessStartOrder, ctrl.OrderUsecase.Start)
}

func (ctrl *OrderController) Cancel(w http.ResponseWriter, r *http.Request) {
	ctrl.transition(w, r, constvars.SuccessCancelOrder, ctrl.OrderUsecase.Cancel)
}

func (ctrl *OrderController) WaivePayment(w http.ResponseWriter, r *http.Request) {
	ctrl.transition(w, r, constvars.SuccessWaiveOrder, ctrl.OrderUsecase.WaivePayment)
}

func (ctrl *OrderController) FindByID(w http.ResponseWriter, r *http.Request) {
	ctrl.transition(w, r, constvars.SuccessGetOrder, ctrl.OrderUsecase.FindByID)
}

func (ctrl *OrderController) Complete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	orderID := chi.URLParam(r, "orderID")

	request := new(requests.CompleteOrderRequest)
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	order, err := ctrl.OrderUsecase.Complete(ctx, orderID, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessCompleteOrder, order)
}

func (ctrl *OrderController) transition(w http.ResponseWriter, r *http.Request, successMessage string, op func(ctx context.Context, orderID string) (*models.Order, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	orderID := chi.URLParam(r, "orderID")

	order, err := op(ctx, orderID)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, successMessage, order)
}
