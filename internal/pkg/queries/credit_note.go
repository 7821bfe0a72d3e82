package queries

const (
	InsertCreditNote = `
		INSERT INTO credit_notes (id, original_invoice_id, reason, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, original_invoice_id, reason, total_amount, created_at
	`

	GetActiveCreditNoteByInvoiceID = `
		SELECT id, original_invoice_id, reason, total_amount, created_at
		FROM credit_notes
		WHERE original_invoice_id = $1
	`

	GetCreditNotesByEncounterID = `
		SELECT cn.id, cn.original_invoice_id, cn.reason, cn.total_amount, cn.created_at
		FROM credit_notes cn
		JOIN invoices i ON i.id = cn.original_invoice_id
		WHERE i.encounter_id = $1
		ORDER BY cn.created_at
	`

	ResetOrdersPaymentPendingByIDs = `
		UPDATE orders
		SET payment_status = 'PENDING', updated_at = NOW(), version = version + 1
		WHERE id = ANY($1) AND result_status <> 'COMPLETED'
	`
)
