// AngelaMos | 2026
// service_test.go

package catalog

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snavia68/coffeademo/internal/core"
)

type memoryRepository struct {
	stores   map[string]*Store
	products map[string]*Product
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		stores:   make(map[string]*Store),
		products: make(map[string]*Product),
	}
}

func (m *memoryRepository) CreateStore(_ context.Context, store *Store) error {
	clone := *store
	m.stores[store.ID] = &clone
	return nil
}

func (m *memoryRepository) GetStore(_ context.Context, id string) (*Store, error) {
	if s, ok := m.stores[id]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, fmt.Errorf("get store: %w", core.ErrNotFound)
}

func (m *memoryRepository) GetStoreByUserID(_ context.Context, userID string) (*Store, error) {
	for _, s := range m.stores {
		if s.UserID == userID {
			clone := *s
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("get store: %w", core.ErrNotFound)
}

func (m *memoryRepository) ListStores(_ context.Context, status string) ([]Store, error) {
	var out []Store
	for _, s := range m.stores {
		if status == "" || s.Status == status {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memoryRepository) UpdateStoreStatus(_ context.Context, id, status string) error {
	s, ok := m.stores[id]
	if !ok {
		return fmt.Errorf("update store status: %w", core.ErrNotFound)
	}
	s.Status = status
	return nil
}

func (m *memoryRepository) CreateProduct(_ context.Context, product *Product) error {
	clone := *product
	m.products[product.ID] = &clone
	return nil
}

func (m *memoryRepository) GetProduct(_ context.Context, id string) (*Product, error) {
	if p, ok := m.products[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
}

func (m *memoryRepository) UpdateProduct(_ context.Context, product *Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return fmt.Errorf("update product: %w", core.ErrNotFound)
	}
	clone := *product
	m.products[product.ID] = &clone
	return nil
}

func (m *memoryRepository) SetProductActive(_ context.Context, id string, active bool) error {
	p, ok := m.products[id]
	if !ok {
		return fmt.Errorf("set product active: %w", core.ErrNotFound)
	}
	p.Active = active
	return nil
}

func (m *memoryRepository) ListProducts(_ context.Context, filter ProductFilter) ([]Product, error) {
	var out []Product
	for _, p := range m.products {
		if filter.StoreID != "" && p.StoreID != filter.StoreID {
			continue
		}
		if filter.ActiveOnly && !p.Active {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func seedSellerStore(t *testing.T, svc *Service, sellerID string) *Store {
	t.Helper()

	store, err := svc.CreateStore(context.Background(), sellerID, CreateStoreRequest{
		BusinessName: "Café del Huila",
		LegalName:    "Café del Huila S.A.S.",
		TaxID:        "900123456-1",
		BankAccount:  "1234567890",
	})
	require.NoError(t, err)
	return store
}

func seedApprovedStore(t *testing.T, svc *Service, sellerID string) *Store {
	t.Helper()

	store := seedSellerStore(t, svc, sellerID)
	approved, err := svc.UpdateStoreStatus(context.Background(), store.ID, StoreStatusApproved)
	require.NoError(t, err)
	return approved
}

func TestCreateStoreStartsPending(t *testing.T) {
	svc := NewService(newMemoryRepository())

	store := seedSellerStore(t, svc, "u4")

	assert.Equal(t, StoreStatusPending, store.Status)
	assert.Equal(t, "u4", store.UserID)
	assert.NotEmpty(t, store.ID)
}

func TestCreateStoreOnePerSeller(t *testing.T) {
	svc := NewService(newMemoryRepository())

	seedSellerStore(t, svc, "u4")

	_, err := svc.CreateStore(context.Background(), "u4", CreateStoreRequest{
		BusinessName: "Otra Tienda",
		LegalName:    "Otra Tienda S.A.S.",
		TaxID:        "900999999-9",
		BankAccount:  "9999999999",
	})
	assert.ErrorIs(t, err, ErrStoreExists)
}

func TestUpdateStoreStatusTransitions(t *testing.T) {
	svc := NewService(newMemoryRepository())
	ctx := context.Background()

	store := seedSellerStore(t, svc, "u4")

	// A second store with a product, to prove a review decision only
	// touches the store under review.
	other := seedApprovedStore(t, svc, "u5")
	product, err := svc.AddProduct(ctx, "u5", CreateProductRequest{
		Name:        "Blend Andino",
		Description: "Mezcla de cafés colombianos",
		Price:       28000,
		Stock:       100,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateStoreStatus(ctx, store.ID, StoreStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, StoreStatusApproved, updated.Status)

	// A decided store stays decided.
	_, err = svc.UpdateStoreStatus(ctx, store.ID, StoreStatusRejected)
	assert.ErrorIs(t, err, core.ErrInvalidTransition)

	_, err = svc.UpdateStoreStatus(ctx, store.ID, StoreStatusPending)
	assert.ErrorIs(t, err, core.ErrInvalidTransition)

	// The other store and its product came through untouched.
	otherNow, err := svc.GetStore(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, StoreStatusApproved, otherNow.Status)

	productNow, err := svc.GetActiveProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(28000), productNow.Price)
	assert.Equal(t, 100, productNow.Stock)
	assert.True(t, productNow.Active)
}

func TestAddProductRequiresStore(t *testing.T) {
	svc := NewService(newMemoryRepository())

	_, err := svc.AddProduct(context.Background(), "u4", CreateProductRequest{
		Name:        "Café Geisha",
		Description: "Notas florales",
		Price:       45000,
		Stock:       50,
	})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestAddProductRequiresApproval(t *testing.T) {
	svc := NewService(newMemoryRepository())

	seedSellerStore(t, svc, "u4")

	_, err := svc.AddProduct(context.Background(), "u4", CreateProductRequest{
		Name:        "Café Geisha",
		Description: "Notas florales",
		Price:       45000,
		Stock:       50,
	})
	assert.ErrorIs(t, err, ErrStoreNotApproved)
}

func TestUpdateProductOwnership(t *testing.T) {
	svc := NewService(newMemoryRepository())
	ctx := context.Background()

	seedApprovedStore(t, svc, "u4")
	seedApprovedStore(t, svc, "u5")

	product, err := svc.AddProduct(ctx, "u4", CreateProductRequest{
		Name:        "Café Geisha",
		Description: "Notas florales",
		Price:       45000,
		Stock:       50,
	})
	require.NoError(t, err)

	newPrice := int64(48000)
	_, err = svc.UpdateProduct(ctx, "u5", product.ID, UpdateProductRequest{Price: &newPrice})
	assert.ErrorIs(t, err, core.ErrForbidden)

	updated, err := svc.UpdateProduct(ctx, "u4", product.ID, UpdateProductRequest{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, int64(48000), updated.Price)
	// Untouched fields survive the merge.
	assert.Equal(t, "Café Geisha", updated.Name)
	assert.Equal(t, 50, updated.Stock)
}

func TestDeleteProductHidesFromStorefront(t *testing.T) {
	svc := NewService(newMemoryRepository())
	ctx := context.Background()

	seedApprovedStore(t, svc, "u4")
	product, err := svc.AddProduct(ctx, "u4", CreateProductRequest{
		Name:        "Café Geisha",
		Description: "Notas florales",
		Price:       45000,
		Stock:       50,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, "u4", product.ID))

	_, err = svc.GetActiveProduct(ctx, product.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	listed, err := svc.ListActiveProducts(ctx, "", "")
	require.NoError(t, err)
	assert.Empty(t, listed)

	// The seller still sees it on the dashboard.
	mine, err := svc.ListStoreProducts(ctx, "u4")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestStoreTransitionTable(t *testing.T) {
	assert.True(t, CanTransitionStore(StoreStatusPending, StoreStatusApproved))
	assert.True(t, CanTransitionStore(StoreStatusPending, StoreStatusRejected))
	assert.False(t, CanTransitionStore(StoreStatusApproved, StoreStatusRejected))
	assert.False(t, CanTransitionStore(StoreStatusRejected, StoreStatusApproved))
	assert.False(t, CanTransitionStore(StoreStatusApproved, StoreStatusPending))
}
