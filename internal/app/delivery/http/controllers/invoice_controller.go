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

type InvoiceController struct {
	Log            *zap.Logger
	InvoiceUsecase contracts.InvoiceUsecase
	InternalConfig *config.InternalConfig
}

var (
	invoiceControllerInstance *InvoiceController
	onceInvoiceController     sync.Once
)

func NewInvoiceController(logger *zap.Logger, invoiceUsecase contracts.InvoiceUsecase, internalConfig *config.InternalConfig) *InvoiceController {
	onceInvoiceController.Do(func() {
		instance := &InvoiceController{
			Log:            logger,
			InvoiceUsecase: invoiceUsecase,
			InternalConfig: internalConfig,
		}
		invoiceControllerInstance = instance
	})
	return invoiceControllerInstance
}

func (ctrl *InvoiceController) requestTimeout() time.Duration {
	return time.Duration(ctrl.InternalConfig.Billing.RequestTimeoutSeconds) * time.Second
}

func (ctrl *InvoiceController) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	request := new(requests.CreateInvoiceRequest)
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	invoice, err := ctrl.InvoiceUsecase.CreateInvoice(ctx, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.SuccessCreateInvoice, invoice)
}

func (ctrl *InvoiceController) AddCharges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	invoiceID := chi.URLParam(r, "invoiceID")

	request := new(requests.AddChargesRequest)
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	invoice, err := ctrl.InvoiceUsecase.AddCharges(ctx, invoiceID, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessAddCharges, invoice)
}

func (ctrl *InvoiceController) Issue(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	invoiceID := chi.URLParam(r, "invoiceID")

	invoice, err := ctrl.InvoiceUsecase.Issue(ctx, invoiceID)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessIssueInvoice, invoice)
}

func (ctrl *InvoiceController) CancelDraft(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	invoiceID := chi.URLParam(r, "invoiceID")

	invoice, err := ctrl.InvoiceUsecase.CancelDraft(ctx, invoiceID)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessCancelInvoice, invoice)
}

func (ctrl *InvoiceController) FindByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	invoiceID := chi.URLParam(r, "invoiceID")

	invoice, err := ctrl.InvoiceUsecase.FindByID(ctx, invoiceID)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessGetInvoice, invoice)
}
