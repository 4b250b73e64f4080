// AngelaMos | 2026
// service_test.go

package cart

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snavia68/coffeademo/internal/catalog"
	"github.com/snavia68/coffeademo/internal/core"
)

type memoryRepository struct {
	carts map[string]*Cart
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{carts: make(map[string]*Cart)}
}

func (m *memoryRepository) Get(_ context.Context, userID string) (*Cart, error) {
	if c, ok := m.carts[userID]; ok {
		clone := *c
		clone.Items = append([]Item(nil), c.Items...)
		return &clone, nil
	}
	return &Cart{UserID: userID, Items: []Item{}}, nil
}

func (m *memoryRepository) Save(_ context.Context, cart *Cart) error {
	if len(cart.Items) == 0 {
		delete(m.carts, cart.UserID)
		return nil
	}
	m.carts[cart.UserID] = cart
	return nil
}

func (m *memoryRepository) Delete(_ context.Context, userID string) error {
	delete(m.carts, userID)
	return nil
}

type fakeProducts struct {
	products map[string]*catalog.Product
}

func (f *fakeProducts) GetActiveProduct(_ context.Context, id string) (*catalog.Product, error) {
	p, ok := f.products[id]
	if !ok || !p.Active {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	return p, nil
}

func newTestService() (*Service, *memoryRepository) {
	repo := newMemoryRepository()
	products := &fakeProducts{products: map[string]*catalog.Product{
		"p1": {ID: "p1", StoreID: "s1", Name: "Café Geisha - Huila", Price: 45000, Stock: 50, Active: true},
		"p2": {ID: "p2", StoreID: "s1", Name: "Caturra Premium", Price: 32000, Stock: 3, Active: true},
		"p3": {ID: "p3", StoreID: "s2", Name: "Blend Andino", Price: 28000, Stock: 100, Active: true},
		"p9": {ID: "p9", StoreID: "s1", Name: "Descontinuado", Price: 10000, Stock: 5, Active: false},
	}}
	return NewService(repo, products, 0.19), repo
}

func TestAddItemComputesTotals(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	resp, err := svc.AddItem(ctx, "u2", AddItemRequest{
		ProductID: "p1",
		Quantity:  2,
		Grind:     "Grano entero",
		Size:      "500g",
	})
	require.NoError(t, err)

	assert.Equal(t, "s1", resp.StoreID)
	assert.Equal(t, 2, resp.ItemCount)
	assert.Equal(t, int64(90000), resp.Subtotal)
	assert.Equal(t, int64(17100), resp.Tax)
	assert.Equal(t, int64(107100), resp.Total)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, int64(90000), resp.Items[0].LineTotal)
}

func TestAddItemRejectsSecondStore(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u2", AddItemRequest{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, "u2", AddItemRequest{ProductID: "p3", Quantity: 1})
	assert.ErrorIs(t, err, ErrDifferentStore)

	// The cart is untouched by the rejected add.
	resp, err := svc.Get(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ItemCount)
	assert.Equal(t, "s1", resp.StoreID)
}

func TestAddItemMergesExistingLine(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u2", AddItemRequest{ProductID: "p1", Quantity: 1, Grind: "Molido"})
	require.NoError(t, err)

	resp, err := svc.AddItem(ctx, "u2", AddItemRequest{ProductID: "p1", Quantity: 2, Grind: "Molido"})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, 3, resp.Items[0].Quantity)
}

func TestAddItemReplacesVariantOnMerge(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u2", AddItemRequest{ProductID: "p1", Quantity: 1, Grind: "Molido", Size: "250g"})
	require.NoError(t, err)

	// Re-adding with another variant never opens a second line: the
	// quantities sum and the latest selection wins.
	resp, err := svc.AddItem(ctx, "u2", AddItemRequest{ProductID: "p1", Quantity: 1, Grind: "Grano entero", Size: "500g"})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.Equal(t, "Grano entero", resp.Items[0].SelectedGrind)
	assert.Equal(t, "500g", resp.Items[0].SelectedSize)
}

func TestRemoveItemIgnoresVariant(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u2", AddItemRequest{ProductID: "p1", Quantity: 1, Grind: "Molido", Size: "250g"})
	require.NoError(t, err)

	// Lines are keyed by product; no variant is needed to remove one.
	resp, err := svc.RemoveItem(ctx, "u2", "p1")
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestAddItemRejectsOverStock(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u2", AddItemRequest{ProductID: "p2", Quantity: 2})
	require.NoError(t, err)

	// 2 in cart + 2 requested > 3 in stock.
	_, err = svc.AddItem(ctx, "u2", AddItemRequest{ProductID: "p2", Quantity: 2})
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestAddItemRejectsInactiveProduct(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u2", AddItemRequest{ProductID: "p9", Quantity: 1})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestUpdateQuantityOverwritesExactly(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u2", AddItemRequest{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)

	resp, err := svc.UpdateQuantity(ctx, "u2", "p1", UpdateQuantityRequest{Quantity: 5})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, 5, resp.Items[0].Quantity)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u2", AddItemRequest{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)

	resp, err := svc.UpdateQuantity(ctx, "u2", "p1", UpdateQuantityRequest{Quantity: 0})
	require.NoError(t, err)

	assert.Empty(t, resp.Items)
	assert.Equal(t, int64(0), resp.Total)
	assert.Empty(t, resp.StoreID)
}

func TestUpdateQuantityMissingLine(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.UpdateQuantity(ctx, "u2", "p1", UpdateQuantityRequest{Quantity: 1})
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestRemoveItemFreesStoreConstraint(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u2", AddItemRequest{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)

	_, err = svc.RemoveItem(ctx, "u2", "p1")
	require.NoError(t, err)

	// Empty cart belongs to no store; any store may fill it now.
	_, err = svc.AddItem(ctx, "u2", AddItemRequest{ProductID: "p3", Quantity: 1})
	assert.NoError(t, err)
}

func TestClearEmptiesCart(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u2", AddItemRequest{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "u2"))
	assert.Empty(t, repo.carts)
}

func TestTaxRounding(t *testing.T) {
	// 19% of 1 peso rounds to 0; of 3 pesos rounds to 1.
	assert.Equal(t, int64(0), Tax(1, 0.19))
	assert.Equal(t, int64(1), Tax(3, 0.19))
	assert.Equal(t, int64(17100), Tax(90000, 0.19))
	assert.Equal(t, int64(10640), Tax(56000, 0.19))
}
