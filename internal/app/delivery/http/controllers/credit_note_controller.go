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

type CreditNoteController struct {
	Log               *zap.Logger
	CreditNoteUsecase contracts.CreditNoteUsecase
	InternalConfig    *config.InternalConfig
}

var (
	creditNoteControllerInstance *CreditNoteController
	onceCreditNoteController     sync.Once
)

func NewCreditNoteController(logger *zap.Logger, creditNoteUsecase contracts.CreditNoteUsecase, internalConfig *config.InternalConfig) *CreditNoteController {
	onceCreditNoteController.Do(func() {
		instance := &CreditNoteController{
			Log:               logger,
			CreditNoteUsecase: creditNoteUsecase,
			InternalConfig:    internalConfig,
		}
		creditNoteControllerInstance = instance
	})
	return creditNoteControllerInstance
}

func (ctrl *CreditNoteController) CreateReturn(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(ctrl.InternalConfig.Billing.RequestTimeoutSeconds)*time.Second)
	defer cancel()

	invoiceID := chi.URLParam(r, "invoiceID")

	request := new(requests.CreateReturnRequest)
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	creditNote, err := ctrl.CreditNoteUsecase.CreateReturn(ctx, invoiceID, request.Reason)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.SuccessCreateReturn, creditNote)
}
