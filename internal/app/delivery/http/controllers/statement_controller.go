package controllers

import (
	"context"
	"medledger-service/internal/app/config"
	"medledger-service/internal/app/contracts"
	"medledger-service/internal/pkg/constvars"
	"medledger-service/internal/pkg/dto/responses"
	"medledger-service/internal/pkg/exceptions"
	"medledger-service/internal/pkg/utils"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type StatementController struct {
	Log              *zap.Logger
	StatementUsecase contracts.StatementUsecase
	InternalConfig   *config.InternalConfig
}

func NewStatementController(logger *zap.Logger, statementUsecase contracts.StatementUsecase, internalConfig *config.InternalConfig) *StatementController {
	return &StatementController{
		Log:              logger,
		StatementUsecase: statementUsecase,
		InternalConfig:   internalConfig,
	}
}

func (ctrl *StatementController) GetStatement(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(ctrl.InternalConfig.Billing.RequestTimeoutSeconds)*time.Second)
	defer cancel()

	encounterID := chi.URLParam(r, "encounterID")

	rows, err := ctrl.StatementUsecase.GetStatement(ctx, encounterID)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	response := responses.StatementResponse{
		EncounterID: encounterID,
		Rows:        rows,
	}
	if len(rows) > 0 {
		response.FinalBalance = rows[len(rows)-1].RunningBalance
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessGetStatement, response)
}
