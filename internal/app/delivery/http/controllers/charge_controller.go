package controllers

import (
	"context"
	"medledger-service/internal/app/config"
	"medledger-service/internal/app/contracts"
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

type ChargeController struct {
	Log            *zap.Logger
	ChargeUsecase  contracts.ChargeUsecase
	InternalConfig *config.InternalConfig
}

var (
	chargeControllerInstance *ChargeController
	onceChargeController     sync.Once
)

func NewChargeController(logger *zap.Logger, chargeUsecase contracts.ChargeUsecase, internalConfig *config.InternalConfig) *ChargeController {
	onceChargeController.Do(func() {
		instance := &ChargeController{
			Log:            logger,
			ChargeUsecase:  chargeUsecase,
			InternalConfig: internalConfig,
		}
		chargeControllerInstance = instance
	})
	return chargeControllerInstance
}

func (ctrl *ChargeController) CreateCharge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(ctrl.InternalConfig.Billing.RequestTimeoutSeconds)*time.Second)
	defer cancel()

	request := new(requests.CreateChargeRequest)
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	charge, err := ctrl.ChargeUsecase.CreateCharge(ctx, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.SuccessCreateCharge, charge)
}

func (ctrl *ChargeController) FindByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(ctrl.InternalConfig.Billing.RequestTimeoutSeconds)*time.Second)
	defer cancel()

	chargeID := chi.URLParam(r, "chargeID")

	charge, err := ctrl.ChargeUsecase.FindByID(ctx, chargeID)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessGetCharge, charge)
}

func (ctrl *ChargeController) FindByEncounterID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(ctrl.InternalConfig.Billing.RequestTimeoutSeconds)*time.Second)
	defer cancel()

	encounterID := chi.URLParam(r, "encounterID")

	charges, err := ctrl.ChargeUsecase.FindByEncounterID(ctx, encounterID)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessGetCharges, charges)
}
