package queries

const (
	InsertPayment = `
		INSERT INTO payments (id, invoice_id, amount, method, reference, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, invoice_id, amount, method, reference, paid_at
	`

	GetPaymentsByInvoiceID = `
		SELECT id, invoice_id, amount, method, reference, paid_at
		FROM payments
		WHERE invoice_id = $1
		ORDER BY paid_at
	`

	GetPaymentsByEncounterID = `
		SELECT p.id, p.invoice_id, p.amount, p.method, p.reference, p.paid_at
		FROM payments p
		JOIN invoices i ON i.id = p.invoice_id
		WHERE i.encounter_id = $1
		ORDER BY p.paid_at
	`

	MarkOrdersPaidByIDs = `
		UPDATE orders
		SET payment_status = 'PAID', updated_at = NOW(), version = version + 1
		WHERE id = ANY($1)
	`
)
