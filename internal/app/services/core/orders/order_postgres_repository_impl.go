package orders

import (
	"context"
	"database/sql"
	"medledger-service/internal/app/contracts"
	"medledger-service/internal/app/models"
	"medledger-service/internal/pkg/exceptions"
	"medledger-service/internal/pkg/queries"

	"github.com/lib/pq"
)

type orderPostgresRepository struct {
	DB *sql.DB
}

func NewOrderPostgresRepository(db *sql.DB) contracts.OrderRepository {
	return &orderPostgresRepository{
		DB: db,
	}
}

func scanOrder(scanner interface {
	Scan(dest ...interface{}) error
}, order *models.Order) error {
	return scanner.Scan(
		&order.ID,
		&order.EncounterID,
		&order.Kind,
		&order.DoctorID,
		&order.PaymentStatus,
		&order.ResultStatus,
		&order.ResultPayload,
		&order.ReportObject,
		&order.Version,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
}

func (repo *orderPostgresRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	query := queries.InsertOrder
	var inserted models.Order
	row := repo.DB.QueryRowContext(ctx, query,
		order.ID,
		order.EncounterID,
		order.Kind,
		order.DoctorID,
		order.PaymentStatus,
		order.ResultStatus,
		order.ResultPayload,
		order.ReportObject,
		order.Version,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err := scanOrder(row, &inserted); err != nil {
		return nil, exceptions.ErrPostgresDBInsertData(err)
	}
	return &inserted, nil
}

func (repo *orderPostgresRepository) FindByID(ctx context.Context, orderID string) (*models.Order, error) {
	query := queries.GetOrderByID
	var order models.Order
	err := scanOrder(repo.DB.QueryRowContext(ctx, query, orderID), &order)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return &order, nil
}

func (repo *orderPostgresRepository) FindByIDs(ctx context.Context, orderIDs []string) ([]models.Order, error) {
	query := queries.GetOrdersByIDs
	rows, err := repo.DB.QueryContext(ctx, query, pq.Array(orderIDs))
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var model models.Order
		if err := scanOrder(rows, &model); err != nil {
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		orders = append(orders, model)
	}

	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return orders, nil
}

func (repo *orderPostgresRepository) UpdateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	query := queries.UpdateOrderWithVersion
	var updated models.Order
	row := repo.DB.QueryRowContext(ctx, query,
		order.PaymentStatus,
		order.ResultStatus,
		order.ResultPayload,
		order.ReportObject,
		order.ID,
		order.Version,
	)
	err := scanOrder(row, &updated)
	if err == sql.ErrNoRows {
		return nil, exceptions.ErrPostgresDBStaleState(err)
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBUpdateData(err)
	}
	return &updated, nil
}
