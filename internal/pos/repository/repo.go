package repository

import (
	"context"
	"database/sql"

	"pos-system/internal/pos/domain/dao"
)

type OrderRepositoryInterface interface {
	InitSchema(ctx context.Context) error
	SaveOrder(ctx context.Context, order dao.Order) (dao.Order, error)
	ListRecent(ctx context.Context, limit int) ([]dao.Order, error)
	GetOrder(ctx context.Context, orderID string) (dao.Order, error)
	DeleteOrder(ctx context.Context, orderID string) error
	ClearAll(ctx context.Context) error
}

type Repository struct {
	Orders OrderRepositoryInterface
}

func New(db *sql.DB) *Repository {
	return &Repository{
		Orders: NewOrderRepository(db),
	}
}
