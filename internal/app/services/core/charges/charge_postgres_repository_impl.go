package charges

import (
	"context"
	"database/sql"
	"medledger-service/internal/app/contracts"
	"medledger-service/internal/app/models"
	"medledger-service/internal/pkg/exceptions"
	"medledger-service/internal/pkg/queries"

	"github.com/lib/pq"
)

type chargePostgresRepository struct {
	DB *sql.DB
}

func NewChargePostgresRepository(db *sql.DB) contracts.ChargeRepository {
	return &chargePostgresRepository{
		DB: db,
	}
}

func scanCharge(scanner interface {
	Scan(dest ...interface{}) error
}, charge *models.Charge) error {
	return scanner.Scan(
		&charge.ID,
		&charge.EncounterID,
		&charge.SourceType,
		&charge.SourceID,
		&charge.ServiceItemID,
		&charge.Quantity,
		&charge.UnitPrice,
		&charge.TotalAmount,
		&charge.InvoiceID,
		&charge.SafetyOverride,
		&charge.CreatedAt,
	)
}

func (repo *chargePostgresRepository) CreateCharge(ctx context.Context, charge *models.Charge) (*models.Charge, error) {
	query := queries.InsertCharge
	var inserted models.Charge
	row := repo.DB.QueryRowContext(ctx, query,
		charge.ID,
		charge.EncounterID,
		charge.SourceType,
		charge.SourceID,
		charge.ServiceItemID,
		charge.Quantity,
		charge.UnitPrice,
		charge.TotalAmount,
		charge.SafetyOverride,
		charge.CreatedAt,
	)
	if err := scanCharge(row, &inserted); err != nil {
		return nil, exceptions.ErrPostgresDBInsertData(err)
	}
	return &inserted, nil
}

func (repo *chargePostgresRepository) FindByID(ctx context.Context, chargeID string) (*models.Charge, error) {
	query := queries.GetChargeByID
	var charge models.Charge
	err := scanCharge(repo.DB.QueryRowContext(ctx, query, chargeID), &charge)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return &charge, nil
}

func (repo *chargePostgresRepository) FindByIDs(ctx context.Context, chargeIDs []string) ([]models.Charge, error) {
	return repo.findMany(ctx, queries.GetChargesByIDs, pq.Array(chargeIDs))
}

func (repo *chargePostgresRepository) FindByInvoiceID(ctx context.Context, invoiceID string) ([]models.Charge, error) {
	return repo.findMany(ctx, queries.GetChargesByInvoiceID, invoiceID)
}

func (repo *chargePostgresRepository) FindByEncounterID(ctx context.Context, encounterID string) ([]models.Charge, error) {
	return repo.findMany(ctx, queries.GetChargesByEncounterID, encounterID)
}

func (repo *chargePostgresRepository) findMany(ctx context.Context, query string, arg interface{}) ([]models.Charge, error) {
	rows, err := repo.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	var charges []models.Charge
	for rows.Next() {
		var model models.Charge
		if err := scanCharge(rows, &model); err != nil {
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		charges = append(charges, model)
	}

	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return charges, nil
}
