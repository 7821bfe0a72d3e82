package contracts

import (
	"context"
	"medledger-service/internal/app/models"
)

type StatementUsecase interface {
	GetStatement(ctx context.Context, encounterID string) ([]models.StatementRow, error)
}
