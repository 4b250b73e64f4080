// AngelaMos | 2026
// repository.go

package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/snavia68/coffeademo/internal/core"
)

type Repository interface {
	Get(ctx context.Context, id string) (*Order, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]Order, error)
	ListByStore(ctx context.Context, storeID string) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id, status string) error

	// Transaction-scoped writes used by checkout.
	Insert(ctx context.Context, tx core.DBTX, order *Order) error
	DecrementStock(ctx context.Context, tx core.DBTX, productID string, qty int) error
}

const orderColumns = `id, order_number, buyer_id, buyer_name, buyer_email, store_id, store_name, status, payment_status, subtotal, tax, commission, total, shipping_address, payment_ref, created_at, updated_at`

const itemColumns = `id, order_id, product_id, name, price, image_url, quantity, selected_grind, selected_size`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// Insert writes the order header and every line in the caller's
// transaction. Nothing here commits; checkout owns the transaction
// boundary.
func (r *repository) Insert(ctx context.Context, tx core.DBTX, o *Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := tx.ExecContext(ctx, query,
		o.ID,
		o.OrderNumber,
		o.BuyerID,
		o.BuyerName,
		o.BuyerEmail,
		o.StoreID,
		o.StoreName,
		o.Status,
		o.PaymentStatus,
		o.Subtotal,
		o.Tax,
		o.Commission,
		o.Total,
		o.ShippingAddress,
		o.PaymentRef,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (` + itemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for _, item := range o.Items {
		_, err := tx.ExecContext(ctx, itemQuery,
			item.ID,
			o.ID,
			item.ProductID,
			item.Name,
			item.Price,
			item.ImageURL,
			item.Quantity,
			item.SelectedGrind,
			item.SelectedSize,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return nil
}

// DecrementStock takes qty units off a product, refusing to go below
// zero. The conditional update is the stock re-check: a row count of
// zero means someone got there first.
func (r *repository) DecrementStock(
	ctx context.Context,
	tx core.DBTX,
	productID string,
	qty int,
) error {
	query := `
		UPDATE products
		SET stock = stock - ?
		WHERE id = ? AND active = ? AND stock >= ?`

	res, err := tx.ExecContext(ctx, query, qty, productID, true, qty)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("product %s: %w", productID, ErrInsufficientStock)
	}

	return nil
}

func (r *repository) Get(ctx context.Context, id string) (*Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = ?`

	var o Order
	err := r.db.GetContext(ctx, &o, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get order: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	if err := r.loadItems(ctx, &o); err != nil {
		return nil, err
	}

	return &o, nil
}

func (r *repository) ListByBuyer(ctx context.Context, buyerID string) ([]Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE buyer_id = ?
		ORDER BY created_at DESC`

	return r.list(ctx, query, buyerID)
}

func (r *repository) ListByStore(ctx context.Context, storeID string) ([]Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE store_id = ?
		ORDER BY created_at DESC`

	return r.list(ctx, query, storeID)
}

func (r *repository) ListAll(ctx context.Context) ([]Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC`

	return r.list(ctx, query)
}

func (r *repository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE orders
		SET status = ?, updated_at = ?
		WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update order status: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) list(ctx context.Context, query string, args ...any) ([]Order, error) {
	var orders []Order
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func (r *repository) loadItems(ctx context.Context, o *Order) error {
	query := `
		SELECT ` + itemColumns + `
		FROM order_items
		WHERE order_id = ?`

	if err := r.db.SelectContext(ctx, &o.Items, query, o.ID); err != nil {
		return fmt.Errorf("load order items: %w", err)
	}

	return nil
}
