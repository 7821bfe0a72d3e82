package contracts

import (
	"context"
	"medledger-service/internal/app/models"
)

type AuditRepository interface {
	Append(ctx context.Context, entry *models.AuditEntry) error
	FindByEncounterID(ctx context.Context, encounterID string) ([]models.AuditEntry, error)
}
