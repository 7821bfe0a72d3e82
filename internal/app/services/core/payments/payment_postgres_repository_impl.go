package payments

import (
	"context"
	"database/sql"
	"medledger-service/internal/app/contracts"
	"medledger-service/internal/app/models"
	"medledger-service/internal/pkg/exceptions"
	"medledger-service/internal/pkg/queries"

	"github.com/lib/pq"
)

type paymentPostgresRepository struct {
	DB *sql.DB
}

func NewPaymentPostgresRepository(db *sql.DB) contracts.PaymentRepository {
	return &paymentPostgresRepository{
		DB: db,
	}
}

func scanPayment(scanner interface {
	Scan(dest ...interface{}) error
}, payment *models.Payment) error {
	return scanner.Scan(
		&payment.ID,
		&payment.InvoiceID,
		&payment.Amount,
		&payment.Method,
		&payment.Reference,
		&payment.PaidAt,
	)
}

func (repo *paymentPostgresRepository) FindByInvoiceID(ctx context.Context, invoiceID string) ([]models.Payment, error) {
	return repo.findMany(ctx, queries.GetPaymentsByInvoiceID, invoiceID)
}

func (repo *paymentPostgresRepository) FindByEncounterID(ctx context.Context, encounterID string) ([]models.Payment, error) {
	return repo.findMany(ctx, queries.GetPaymentsByEncounterID, encounterID)
}

func (repo *paymentPostgresRepository) findMany(ctx context.Context, query, arg string) ([]models.Payment, error) {
	rows, err := repo.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var model models.Payment
		if err := scanPayment(rows, &model); err != nil {
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		payments = append(payments, model)
	}

	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return payments, nil
}

// RecordPayment commits the payment row, the invoice's new paid state
// and any order paymentStatus flips as one transaction. The invoice
// version check is the last defence against a racing writer.
func (repo *paymentPostgresRepository) RecordPayment(ctx context.Context, input *contracts.RecordPaymentInput) (*models.Payment, error) {
	tx, err := repo.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, exceptions.ErrPostgresDBBeginTransaction(err)
	}
	defer tx.Rollback()

	var inserted models.Payment
	row := tx.QueryRowContext(ctx, queries.InsertPayment,
		input.Payment.ID,
		input.Payment.InvoiceID,
		input.Payment.Amount,
		input.Payment.Method,
		input.Payment.Reference,
		input.Payment.PaidAt,
	)
	if err := scanPayment(row, &inserted); err != nil {
		return nil, exceptions.ErrPostgresDBInsertData(err)
	}

	result, err := tx.ExecContext(ctx, queries.UpdateInvoicePaymentStateWithVersion,
		input.Invoice.PaidAmount,
		input.Invoice.Status,
		input.Invoice.ID,
		input.Invoice.Version,
	)
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

	if len(input.PaidOrderIDs) > 0 {
		if _, err := tx.ExecContext(ctx, queries.MarkOrdersPaidByIDs, pq.Array(input.PaidOrderIDs)); err != nil {
			return nil, exceptions.ErrPostgresDBUpdateData(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, exceptions.ErrPostgresDBCommitTransaction(err)
	}
	return &inserted, nil
}
