package queries

const (
	InsertInvoice = `
		INSERT INTO invoices (id, encounter_id, status, currency, total_amount, discount_amount, paid_amount, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, encounter_id, status, currency, total_amount, discount_amount, paid_amount, version, created_at, updated_at
	`

	GetInvoiceByID = `
		SELECT id, encounter_id, status, currency, total_amount, discount_amount, paid_amount, version, created_at, updated_at
		FROM invoices
		WHERE id = $1
	`

	GetInvoicesByEncounterID = `
		SELECT id, encounter_id, status, currency, total_amount, discount_amount, paid_amount, version, created_at, updated_at
		FROM invoices
		WHERE encounter_id = $1
		ORDER BY created_at
	`

	UpdateInvoiceTotalsWithVersion = `
		UPDATE invoices
		SET total_amount = $1, updated_at = NOW(), version = version + 1
		WHERE id = $2 AND version = $3
	`

	UpdateInvoiceStatusWithVersion = `
		UPDATE invoices
		SET status = $1, updated_at = NOW(), version = version + 1
		WHERE id = $2 AND version = $3
	`

	UpdateInvoicePaymentStateWithVersion = `
		UPDATE invoices
		SET paid_amount = $1, status = $2, updated_at = NOW(), version = version + 1
		WHERE id = $3 AND version = $4
	`
)
