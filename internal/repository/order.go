package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gachwala/storefront/internal/model"
)

type OrderRepository interface {
	// Create stores the order together with its item snapshots.
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	// UpdateStatus moves the order from `from` to `to` and reports false when
	// the stored status was no longer `from`.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus) (bool, error)
	AppendEvent(ctx context.Context, event *model.OrderEvent) error
	ListEvents(ctx context.Context, orderID uuid.UUID) ([]model.OrderEvent, error)
}

type pgOrderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &pgOrderRepo{pool: pool}
}

const orderColumns = `id, user_id, subtotal, shipping_fee, delivery_fee, total_amount, payment_method, status,
	ship_name, ship_phone, ship_email, ship_street, ship_city, ship_state, ship_zip_code, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	o := &model.Order{}
	a := &o.ShippingAddress
	err := row.Scan(
		&o.ID, &o.UserID, &o.Subtotal, &o.ShippingFee, &o.DeliveryFee, &o.TotalAmount,
		&o.PaymentMethod, &o.Status,
		&a.Name, &a.Phone, &a.Email, &a.Street, &a.City, &a.State, &a.ZipCode,
		&o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

func (r *pgOrderRepo) Create(ctx context.Context, order *model.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	order.ID = uuid.New()
	a := order.ShippingAddress
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (`+orderColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
		 RETURNING created_at, updated_at`,
		order.ID, order.UserID, order.Subtotal, order.ShippingFee, order.DeliveryFee, order.TotalAmount,
		order.PaymentMethod, order.Status,
		a.Name, a.Phone, a.Email, a.Street, a.City, a.State, a.ZipCode,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i, item := range order.Items {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (id, order_id, position, product_id, name, price, quantity, image)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.New(), order.ID, i, item.ProductID, item.Name, item.Price, item.Quantity, item.Image,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (r *pgOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	orders := []model.Order{*order}
	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *pgOrderRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	return r.list(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID,
	)
}

func (r *pgOrderRepo) ListAll(ctx context.Context) ([]model.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (r *pgOrderRepo) list(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *pgOrderRepo) loadItems(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	index := make(map[uuid.UUID]int, len(orders))
	ids := make([]uuid.UUID, len(orders))
	for i, o := range orders {
		index[o.ID] = i
		ids[i] = o.ID
	}

	rows, err := r.pool.Query(ctx,
		`SELECT order_id, product_id, name, price, quantity, image
		 FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, position`, ids,
	)
	if err != nil {
		return fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID uuid.UUID
		var item model.OrderItem
		if err := rows.Scan(&orderID, &item.ProductID, &item.Name, &item.Price, &item.Quantity, &item.Image); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		i := index[orderID]
		orders[i].Items = append(orders[i].Items, item)
	}
	return rows.Err()
}

func (r *pgOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus) (bool, error) {
	ct, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`, id, from, to,
	)
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	return ct.RowsAffected() == 1, nil
}

func (r *pgOrderRepo) AppendEvent(ctx context.Context, event *model.OrderEvent) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO order_events (id, order_id, type, status, occurred_at)
		 VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING`,
		event.ID, event.OrderID, event.Type, event.Status, event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert order event: %w", err)
	}
	return nil
}

func (r *pgOrderRepo) ListEvents(ctx context.Context, orderID uuid.UUID) ([]model.OrderEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, order_id, type, status, occurred_at FROM order_events
		 WHERE order_id = $1 ORDER BY occurred_at`, orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("list order events: %w", err)
	}
	defer rows.Close()

	var events []model.OrderEvent
	for rows.Next() {
		var e model.OrderEvent
		if err := rows.Scan(&e.ID, &e.OrderID, &e.Type, &e.Status, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan order event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
