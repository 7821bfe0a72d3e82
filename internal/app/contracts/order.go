package contracts

import (
	"context"
	"medledger-service/internal/app/models"
	"medledger-service/internal/pkg/dto/requests"
)

type OrderUsecase interface {
	CreateOrder(ctx context.Context, request *requests.CreateOrderRequest) (*models.Order, error)
	Start(ctx context.Context, orderID string) (*models.Order, error)
	Complete(ctx context.Context, orderID string, request *requests.CompleteOrderRequest) (*models.Order, error)
	Cancel(ctx context.Context, orderID string) (*models.Order, error)
	WaivePayment(ctx context.Context, orderID string) (*models.Order, error)
	FindByID(ctx context.Context, orderID string) (*models.Order, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, orderID string) (*models.Order, error)
	FindByIDs(ctx context.Context, orderIDs []string) ([]models.Order, error)
	// UpdateOrder writes the order behind a version check and fails with
	// a stale-state error when another writer got there first.
	UpdateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
}
