package responses

import (
	"medledger-service/internal/app/models"

	"github.com/shopspring/decimal"
)

type StatementResponse struct {
	EncounterID  string                `json:"encounter_id"`
	Rows         []models.StatementRow `json:"rows"`
	FinalBalance decimal.Decimal       `json:"final_balance"`
}
