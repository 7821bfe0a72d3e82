package queries

const (
	InsertCharge = `
		INSERT INTO charges (id, encounter_id, source_type, source_id, service_item_id, quantity, unit_price, total_amount, safety_override, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, encounter_id, source_type, source_id, service_item_id, quantity, unit_price, total_amount, invoice_id, safety_override, created_at
	`

	GetChargeByID = `
		SELECT id, encounter_id, source_type, source_id, service_item_id, quantity, unit_price, total_amount, invoice_id, safety_override, created_at
		FROM charges
		WHERE id = $1
	`

	GetChargesByIDs = `
		SELECT id, encounter_id, source_type, source_id, service_item_id, quantity, unit_price, total_amount, invoice_id, safety_override, created_at
		FROM charges
		WHERE id = ANY($1)
	`

	GetChargesByInvoiceID = `
		SELECT id, encounter_id, source_type, source_id, service_item_id, quantity, unit_price, total_amount, invoice_id, safety_override, created_at
		FROM charges
		WHERE invoice_id = $1
		ORDER BY created_at
	`

	GetChargesByEncounterID = `
		SELECT id, encounter_id, source_type, source_id, service_item_id, quantity, unit_price, total_amount, invoice_id, safety_override, created_at
		FROM charges
		WHERE encounter_id = $1
		ORDER BY created_at
	`

	AttachChargesToInvoice = `
		UPDATE charges
		SET invoice_id = $1
		WHERE id = ANY($2) AND invoice_id IS NULL
	`
)
