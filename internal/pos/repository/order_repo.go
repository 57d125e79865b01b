package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"pos-system/internal/pos/domain"
	"pos-system/internal/pos/domain/dao"
)

const uniqueViolation = "23505"

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderRepositoryInterface {
	return &OrderRepository{db: db}
}

// InitSchema creates the sales tables when they are missing. order_items
// deliberately carries no foreign key; referential integrity is enforced by
// the two-statement transactions below.
func (or *OrderRepository) InitSchema(ctx context.Context) error {
	_, err := or.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS orders(
			order_id       TEXT PRIMARY KEY,
			timestamp      TIMESTAMPTZ NOT NULL,
			cashier        TEXT NOT NULL,
			payment_method TEXT NOT NULL,
			subtotal       NUMERIC(12,2) NOT NULL,
			tax            NUMERIC(12,2) NOT NULL,
			service        NUMERIC(12,2) NOT NULL,
			discount       NUMERIC(12,2) NOT NULL,
			total          NUMERIC(12,2) NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create orders table: %w", err)
	}
	_, err = or.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS order_items(
			order_id   TEXT NOT NULL,
			line_no    INTEGER NOT NULL,
			sku        TEXT NOT NULL,
			item       TEXT NOT NULL,
			unit_price NUMERIC(12,2) NOT NULL,
			qty        INTEGER NOT NULL,
			line_total NUMERIC(12,2) NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create order_items table: %w", err)
	}
	return nil
}

// SaveOrder persists the header and all lines in one transaction. The
// timestamp is stamped here, at persistence time, and returned with the
// saved order. A duplicate order_id surfaces as domain.ErrDuplicateOrderID
// and leaves both tables untouched.
func (or *OrderRepository) SaveOrder(ctx context.Context, order dao.Order) (dao.Order, error) {
	tx, err := or.db.BeginTx(ctx, nil)
	if err != nil {
		return dao.Order{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	order.Timestamp = time.Now().UTC().Truncate(time.Second)

	// 1. Insert order header
	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders
			(order_id, timestamp, cashier, payment_method, subtotal, tax, service, discount, total)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		order.OrderID,
		order.Timestamp,
		order.Cashier,
		order.PaymentMethod,
		order.Subtotal,
		order.Tax,
		order.Service,
		order.Discount,
		order.Total,
	)
	if err != nil {
		if isUniqueViolation(err) {
			err = fmt.Errorf("order %s: %w", order.OrderID, domain.ErrDuplicateOrderID)
			return dao.Order{}, err
		}
		return dao.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	// 2. Insert order lines, line_no following cart insertion order
	for i := range order.Lines {
		order.Lines[i].OrderID = order.OrderID
		order.Lines[i].LineNo = i + 1
		l := order.Lines[i]
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, line_no, sku, item, unit_price, qty, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, l.OrderID, l.LineNo, l.SKU, l.Item, l.UnitPrice, l.Qty, l.LineTotal)
		if err != nil {
			return dao.Order{}, fmt.Errorf("failed to insert order item %s: %w", l.SKU, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return dao.Order{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return order, nil
}

func (or *OrderRepository) ListRecent(ctx context.Context, limit int) ([]dao.Order, error) {
	rows, err := or.db.QueryContext(ctx, `
		SELECT order_id, timestamp, cashier, payment_method, subtotal, tax, service, discount, total
		FROM orders
		ORDER BY timestamp DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []dao.Order{}
	for rows.Next() {
		var o dao.Order
		if err := rows.Scan(&o.OrderID, &o.Timestamp, &o.Cashier, &o.PaymentMethod,
			&o.Subtotal, &o.Tax, &o.Service, &o.Discount, &o.Total); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (or *OrderRepository) GetOrder(ctx context.Context, orderID string) (dao.Order, error) {
	var o dao.Order
	err := or.db.QueryRowContext(ctx, `
		SELECT order_id, timestamp, cashier, payment_method, subtotal, tax, service, discount, total
		FROM orders WHERE order_id = $1
	`, orderID).Scan(&o.OrderID, &o.Timestamp, &o.Cashier, &o.PaymentMethod,
		&o.Subtotal, &o.Tax, &o.Service, &o.Discount, &o.Total)
	if errors.Is(err, sql.ErrNoRows) {
		return dao.Order{}, fmt.Errorf("order %s: %w", orderID, domain.ErrOrderNotFound)
	}
	if err != nil {
		return dao.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	rows, err := or.db.QueryContext(ctx, `
		SELECT order_id, line_no, sku, item, unit_price, qty, line_total
		FROM order_items WHERE order_id = $1
		ORDER BY line_no
	`, orderID)
	if err != nil {
		return dao.Order{}, fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l dao.OrderLine
		if err := rows.Scan(&l.OrderID, &l.LineNo, &l.SKU, &l.Item,
			&l.UnitPrice, &l.Qty, &l.LineTotal); err != nil {
			return dao.Order{}, fmt.Errorf("failed to scan order item: %w", err)
		}
		o.Lines = append(o.Lines, l)
	}
	return o, rows.Err()
}

// DeleteOrder removes the header and all its lines atomically. Deleting an
// absent order is a no-op, not an error.
func (or *OrderRepository) DeleteOrder(ctx context.Context, orderID string) error {
	tx, err := or.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("failed to delete order items: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM orders WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ClearAll wipes the whole sales history. Irreversible; the handler gates
// it behind an explicit confirmation.
func (or *OrderRepository) ClearAll(ctx context.Context) error {
	tx, err := or.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM order_items`); err != nil {
		return fmt.Errorf("failed to clear order items: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM orders`); err != nil {
		return fmt.Errorf("failed to clear orders: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
