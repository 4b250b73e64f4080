// AngelaMos | 2026
// repository.go

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/snavia68/coffeademo/internal/core"
)

type Repository interface {
	CreateStore(ctx context.Context, store *Store) error
	GetStore(ctx context.Context, id string) (*Store, error)
	GetStoreByUserID(ctx context.Context, userID string) (*Store, error)
	ListStores(ctx context.Context, status string) ([]Store, error)
	UpdateStoreStatus(ctx context.Context, id, status string) error

	CreateProduct(ctx context.Context, product *Product) error
	GetProduct(ctx context.Context, id string) (*Product, error)
	UpdateProduct(ctx context.Context, product *Product) error
	SetProductActive(ctx context.Context, id string, active bool) error
	ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error)
}

type ProductFilter struct {
	StoreID    string
	ActiveOnly bool
	Search     string
}

const storeColumns = `id, user_id, business_name, legal_name, tax_id, bank_account, status, created_at`

const productColumns = `id, store_id, name, description, price, stock, origin, variety, tasting_notes, preparation, image_url, variants, active, created_at`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) CreateStore(ctx context.Context, store *Store) error {
	query := `
		INSERT INTO stores (` + storeColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		store.ID,
		store.UserID,
		store.BusinessName,
		store.LegalName,
		store.TaxID,
		store.BankAccount,
		store.Status,
		store.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}

	return nil
}

func (r *repository) GetStore(ctx context.Context, id string) (*Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE id = ?`

	var store Store
	err := r.db.GetContext(ctx, &store, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get store: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get store: %w", err)
	}

	return &store, nil
}

func (r *repository) GetStoreByUserID(
	ctx context.Context,
	userID string,
) (*Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE user_id = ?`

	var store Store
	err := r.db.GetContext(ctx, &store, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get store by user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get store by user: %w", err)
	}

	return &store, nil
}

func (r *repository) ListStores(
	ctx context.Context,
	status string,
) ([]Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores`
	var args []any

	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}

	query += ` ORDER BY created_at`

	var stores []Store
	if err := r.db.SelectContext(ctx, &stores, query, args...); err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}

	return stores, nil
}

func (r *repository) UpdateStoreStatus(
	ctx context.Context,
	id, status string,
) error {
	query := `UPDATE stores SET status = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update store status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update store status: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update store status: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) CreateProduct(
	ctx context.Context,
	product *Product,
) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.StoreID,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.Origin,
		product.Variety,
		product.TastingNotes,
		product.Preparation,
		product.ImageURL,
		product.Variants,
		product.Active,
		product.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

func (r *repository) GetProduct(
	ctx context.Context,
	id string,
) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`

	var product Product
	err := r.db.GetContext(ctx, &product, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &product, nil
}

func (r *repository) UpdateProduct(
	ctx context.Context,
	product *Product,
) error {
	query := `
		UPDATE products
		SET name = ?, description = ?, price = ?, stock = ?, origin = ?,
		    variety = ?, tasting_notes = ?, preparation = ?, image_url = ?,
		    variants = ?, active = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.Origin,
		product.Variety,
		product.TastingNotes,
		product.Preparation,
		product.ImageURL,
		product.Variants,
		product.Active,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update product: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) SetProductActive(
	ctx context.Context,
	id string,
	active bool,
) error {
	query := `UPDATE products SET active = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("set product active: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set product active: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("set product active: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListProducts(
	ctx context.Context,
	filter ProductFilter,
) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`

	var conditions []string
	var args []any

	if filter.StoreID != "" {
		conditions = append(conditions, "store_id = ?")
		args = append(args, filter.StoreID)
	}

	if filter.ActiveOnly {
		conditions = append(conditions, "active = true")
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at"

	var products []Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	if filter.Search != "" {
		products = filterBySearch(products, filter.Search)
	}

	return products, nil
}

// filterBySearch does a case-insensitive substring match over name and
// description in memory. The catalog is small by construction; pushing
// LIKE into the engine buys nothing here.
func filterBySearch(products []Product, search string) []Product {
	needle := strings.ToLower(search)
	matched := make([]Product, 0, len(products))

	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			matched = append(matched, p)
		}
	}

	return matched
}
