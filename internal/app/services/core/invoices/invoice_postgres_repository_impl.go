package invoices

import (
	"context"
	"database/sql"
	"medledger-service/internal/app/contracts"
	"medledger-service/internal/app/models"
	"medledger-service/internal/pkg/exceptions"
	"medledger-service/internal/pkg/queries"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type invoicePostgresRepository struct {
	DB *sql.DB
}

func NewInvoicePostgresRepository(db *sql.DB) contracts.InvoiceRepository {
	return &invoicePostgresRepository{
		DB: db,
	}
}

func scanInvoice(scanner interface {
	Scan(dest ...interface{}) error
}, invoice *models.Invoice) error {
	return scanner.Scan(
		&invoice.ID,
		&invoice.EncounterID,
		&invoice.Status,
		&invoice.Currency,
		&invoice.TotalAmount,
		&invoice.DiscountAmount,
		&invoice.PaidAmount,
		&invoice.Version,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
	)
}

func (repo *invoicePostgresRepository) FindByID(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	query := queries.GetInvoiceByID
	var invoice models.Invoice
	err := scanInvoice(repo.DB.QueryRowContext(ctx, query, invoiceID), &invoice)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return &invoice, nil
}

func (repo *invoicePostgresRepository) FindByEncounterID(ctx context.Context, encounterID string) ([]models.Invoice, error) {
	query := queries.GetInvoicesByEncounterID
	rows, err := repo.DB.QueryContext(ctx, query, encounterID)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		var model models.Invoice
		if err := scanInvoice(rows, &model); err != nil {
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		invoices = append(invoices, model)
	}

	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return invoices, nil
}

func (repo *invoicePostgresRepository) CreateInvoiceWithCharges(ctx context.Context, invoice *models.Invoice, chargeIDs []string) (*models.Invoice, error) {
	tx, err := repo.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, exceptions.ErrPostgresDBBeginTransaction(err)
	}
	defer tx.Rollback()

	var inserted models.Invoice
	row := tx.QueryRowContext(ctx, queries.InsertInvoice,
		invoice.ID,
		invoice.EncounterID,
		invoice.Status,
		invoice.Currency,
		invoice.TotalAmount,
		invoice.DiscountAmount,
		invoice.PaidAmount,
		invoice.Version,
		invoice.CreatedAt,
		invoice.UpdatedAt,
	)
	if err := scanInvoice(row, &inserted); err != nil {
		return nil, exceptions.ErrPostgresDBInsertData(err)
	}

	result, err := tx.ExecContext(ctx, queries.AttachChargesToInvoice, inserted.ID, pq.Array(chargeIDs))
	if err != nil {
		return nil, exceptions.ErrPostgresDBUpdateData(err)
	}
	attached, err := result.RowsAffected()
	if err != nil {
		return nil, exceptions.ErrPostgresDBUpdateData(err)
	}
	// A shortfall means another invoice claimed a charge between the
	// usecase read and this write.
	if attached != int64(len(chargeIDs)) {
		return nil, exceptions.ErrPostgresDBStaleState(sql.ErrNoRows)
	}

	if err := tx.Commit(); err != nil {
		return nil, exceptions.ErrPostgresDBCommitTransaction(err)
	}
	return &inserted, nil
}

func (repo *invoicePostgresRepository) AttachCharges(ctx context.Context, invoice *models.Invoice, chargeIDs []string, newTotal decimal.Decimal) (*models.Invoice, error) {
	tx, err := repo.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, exceptions.ErrPostgresDBBeginTransaction(err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, queries.AttachChargesToInvoice, invoice.ID, pq.Array(chargeIDs))
	if err != nil {
		return nil, exceptions.ErrPostgresDBUpdateData(err)
	}
	attached, err := result.RowsAffected()
	if err != nil {
		return nil, exceptions.ErrPostgresDBUpdateData(err)
	}
	if attached != int64(len(chargeIDs)) {
		return nil, exceptions.ErrPostgresDBStaleState(sql.ErrNoRows)
	}

	result, err = tx.ExecContext(ctx, queries.UpdateInvoiceTotalsWithVersion, newTotal, invoice.ID, invoice.Version)
	if err != nil {
		return nil, exceptions.ErrPostgresDBUpdateData(err)
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return nil, exceptions.ErrPostgresDBUpdateData(err)
	}
	if updated == 0 {
		return nil, exceptions.ErrPostgresDBStaleState(sql.ErrNoRows)
	}

	if err := tx.Commit(); err != nil {
		return nil, exceptions.ErrPostgresDBCommitTransaction(err)
	}

	refreshed := *invoice
	refreshed.TotalAmount = newTotal
	refreshed.Version = invoice.Version + 1
	return &refreshed, nil
}

func (repo *invoicePostgresRepository) UpdateStatus(ctx context.Context, invoice *models.Invoice, newStatus models.InvoiceStatus) (*models.Invoice, error) {
	result, err := repo.DB.ExecContext(ctx, queries.UpdateInvoiceStatusWithVersion, newStatus, invoice.ID, invoice.Version)
	if err != nil {
		return nil, exceptions.ErrPostgresDBUpdateData(err)
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return nil, exceptions.ErrPostgresDBUpdateData(err)
	}
	if updated == 0 {
		return nil, exceptions.ErrPostgresDBStaleState(sql.ErrNoRows)
	}

	refreshed := *invoice
	refreshed.Status = newStatus
	refreshed.Version = invoice.Version + 1
	return &refreshed, nil
}
