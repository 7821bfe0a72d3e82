package queries

const (
	InsertOrder = `
		INSERT INTO orders (id, encounter_id, kind, doctor_id, payment_status, result_status, result_payload, report_object, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, encounter_id, kind, doctor_id, payment_status, result_status, result_payload, report_object, version, created_at, updated_at
	`

	GetOrderByID = `
		SELECT id, encounter_id, kind, doctor_id, payment_status, result_status, result_payload, report_object, version, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	GetOrdersByIDs = `
		SELECT id, encounter_id, kind, doctor_id, payment_status, result_status, result_payload, report_object, version, created_at, updated_at
		FROM orders
		WHERE id = ANY($1)
	`

	UpdateOrderWithVersion = `
		UPDATE orders
		SET payment_status = $1, result_status = $2, result_payload = $3, report_object = $4, updated_at = NOW(), version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING id, encounter_id, kind, doctor_id, payment_status, result_status, result_payload, report_object, version, created_at, updated_at
	`
)
