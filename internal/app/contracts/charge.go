package contracts

import (
	"context"
	"medledger-service/internal/app/models"
	"medledger-service/internal/pkg/dto/requests"
)

type ChargeUsecase interface {
	CreateCharge(ctx context.Context, request *requests.CreateChargeRequest) (*models.Charge, error)
	FindByID(ctx context.Context, chargeID string) (*models.Charge, error)
	FindByEncounterID(ctx context.Context, encounterID string) ([]models.Charge, error)
}

type ChargeRepository interface {
	CreateCharge(ctx context.Context, charge *models.Charge) (*models.Charge, error)
	FindByID(ctx context.Context, chargeID string) (*models.Charge, error)
	FindByIDs(ctx context.Context, chargeIDs []string) ([]models.Charge, error)
	FindByInvoiceID(ctx context.Context, invoiceID string) ([]models.Charge, error)
	FindByEncounterID(ctx context.Context, encounterID string) ([]models.Charge, error)
}

// InteractionWarning is one interacting drug pair reported by the
// drug-safety knowledge base (content external to this service).
type InteractionWarning struct {
	DrugA    string `json:"drug_a"`
	DrugB    string `json:"drug_b"`
	Severity string `json:"severity"`
}

// DrugSafetyClient is the boundary to the interaction knowledge base.
// Only the override protocol lives in this service.
type DrugSafetyClient interface {
	CheckInteractions(ctx context.Context, encounterID, serviceItemID string) ([]InteractionWarning, error)
}
