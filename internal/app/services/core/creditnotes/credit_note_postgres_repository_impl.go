package creditnotes

import (
	"context"
	"database/sql"
	"medledger-service/internal/app/contracts"
	"medledger-service/internal/app/models"
	"medledger-service/internal/pkg/exceptions"
	"medledger-service/internal/pkg/queries"

	"github.com/lib/pq"
)

type creditNotePostgresRepository struct {
	DB *sql.DB
}

func NewCreditNotePostgresRepository(db *sql.DB) contracts.CreditNoteRepository {
	return &creditNotePostgresRepository{
		DB: db,
	}
}

func scanCreditNote(scanner interface {
	Scan(dest ...interface{}) error
}, note *models.CreditNote) error {
	return scanner.Scan(
		&note.ID,
		&note.OriginalInvoiceID,
		&note.Reason,
		&note.TotalAmount,
		&note.CreatedAt,
	)
}

func (repo *creditNotePostgresRepository) FindActiveByInvoiceID(ctx context.Context, invoiceID string) (*models.CreditNote, error) {
	query := queries.GetActiveCreditNoteByInvoiceID
	var note models.CreditNote
	err := scanCreditNote(repo.DB.QueryRowContext(ctx, query, invoiceID), &note)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return &note, nil
}

func (repo *creditNotePostgresRepository) FindByEncounterID(ctx context.Context, encounterID string) ([]models.CreditNote, error) {
	query := queries.GetCreditNotesByEncounterID
	rows, err := repo.DB.QueryContext(ctx, query, encounterID)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	var notes []models.CreditNote
	for rows.Next() {
		var model models.CreditNote
		if err := scanCreditNote(rows, &model); err != nil {
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		notes = append(notes, model)
	}

	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return notes, nil
}

// RecordCreditNote commits the note, the invoice cancellation and the
// order paymentStatus resets in one transaction. The reset statement
// re-excludes COMPLETED orders even though the usecase already filtered
// them, so a completion racing past the usecase read cannot be undone.
func (repo *creditNotePostgresRepository) RecordCreditNote(ctx context.Context, input *contracts.RecordCreditNoteInput) (*models.CreditNote, error) {
	tx, err := repo.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, exceptions.ErrPostgresDBBeginTransaction(err)
	}
	defer tx.Rollback()

	var inserted models.CreditNote
	row := tx.QueryRowContext(ctx, queries.InsertCreditNote,
		input.CreditNote.ID,
		input.CreditNote.OriginalInvoiceID,
		input.CreditNote.Reason,
		input.CreditNote.TotalAmount,
		input.CreditNote.CreatedAt,
	)
	if err := scanCreditNote(row, &inserted); err != nil {
		return nil, exceptions.ErrPostgresDBInsertData(err)
	}

	result, err := tx.ExecContext(ctx, queries.UpdateInvoiceStatusWithVersion,
		models.InvoiceCancelled,
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

	if len(input.ResetOrderIDs) > 0 {
		if _, err := tx.ExecContext(ctx, queries.ResetOrdersPaymentPendingByIDs, pq.Array(input.ResetOrderIDs)); err != nil {
			return nil, exceptions.ErrPostgresDBUpdateData(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, exceptions.ErrPostgresDBCommitTransaction(err)
	}
	return &inserted, nil
}
