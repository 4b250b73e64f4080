// AngelaMos | 2026
// service_test.go

package order_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snavia68/coffeademo/internal/cart"
	"github.com/snavia68/coffeademo/internal/catalog"
	"github.com/snavia68/coffeademo/internal/core"
	"github.com/snavia68/coffeademo/internal/identity"
	"github.com/snavia68/coffeademo/internal/notify"
	"github.com/snavia68/coffeademo/internal/order"
	"github.com/snavia68/coffeademo/internal/seed"
)

type fakeCartSource struct {
	cart    *cart.Cart
	cleared bool
}

func (f *fakeCartSource) Snapshot(_ context.Context, _ string) (*cart.Cart, error) {
	return f.cart, nil
}

func (f *fakeCartSource) Clear(_ context.Context, _ string) error {
	f.cleared = true
	return nil
}

type fakeUsers struct{}

func (fakeUsers) GetUser(_ context.Context, id string) (*identity.User, error) {
	return &identity.User{ID: id, Email: id + "@example.com", Name: "Test User"}, nil
}

type fakeGateway struct {
	approve bool
	charged int64
}

func (f *fakeGateway) Charge(_ context.Context, _ string, amount int64) (string, error) {
	f.charged = amount
	if !f.approve {
		return "", order.ErrPaymentDeclined
	}
	return "TXN-TEST", nil
}

type fakeIdempotency struct {
	claimed  map[string]bool
	released []string
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{claimed: make(map[string]bool)}
}

func (f *fakeIdempotency) Claim(_ context.Context, buyerID, key string) (bool, error) {
	k := buyerID + ":" + key
	if f.claimed[k] {
		return false, nil
	}
	f.claimed[k] = true
	return true, nil
}

func (f *fakeIdempotency) Release(_ context.Context, buyerID, key string) error {
	f.released = append(f.released, buyerID+":"+key)
	delete(f.claimed, buyerID+":"+key)
	return nil
}

type recordingMailer struct {
	sent []notify.Message
}

func (m *recordingMailer) Send(_ context.Context, msg notify.Message) {
	m.sent = append(m.sent, msg)
}

type testEnv struct {
	db      *sqlx.DB
	svc     *order.Service
	carts   *fakeCartSource
	gateway *fakeGateway
	idem    *fakeIdempotency
	mailer  *recordingMailer
}

// newTestEnv boots a private in-memory database with the demo dataset
// and a service wired with controllable fakes for everything external.
func newTestEnv(t *testing.T, dsn string) *testEnv {
	t.Helper()

	db, err := sqlx.Open("stoolap", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, seed.Run(context.Background(), db, logger))

	env := &testEnv{
		db:      db,
		carts:   &fakeCartSource{cart: &cart.Cart{Items: []cart.Item{}}},
		gateway: &fakeGateway{approve: true},
		idem:    newFakeIdempotency(),
		mailer:  &recordingMailer{},
	}

	env.svc = order.NewService(order.ServiceParams{
		DB:             db,
		Repo:           order.NewRepository(db),
		Carts:          env.carts,
		Stores:         catalog.NewService(catalog.NewRepository(db)),
		Users:          fakeUsers{},
		Gateway:        env.gateway,
		Idempotency:    env.idem,
		Mailer:         env.mailer,
		Logger:         logger,
		TaxRate:        0.19,
		CommissionRate: 0.015,
	})

	return env
}

func blendCart() *cart.Cart {
	return &cart.Cart{
		UserID: "u3",
		Items: []cart.Item{
			{
				ProductID:     "p3",
				StoreID:       "s2",
				Name:          "Blend Andino",
				Price:         28000,
				ImageURL:      "https://images.unsplash.com/photo-1511920170033-f8396924c348?w=500",
				Quantity:      2,
				SelectedGrind: "Molido",
				SelectedSize:  "500g",
			},
		},
	}
}

func shipping() order.CheckoutRequest {
	return order.CheckoutRequest{
		FullName: "María González",
		Address:  "Carrera 7 #32-16",
		City:     "Medellín",
		Phone:    "3109876543",
	}
}

func productStock(t *testing.T, db *sqlx.DB, id string) int {
	t.Helper()

	var stock int
	err := db.GetContext(
		context.Background(),
		&stock,
		`SELECT stock FROM products WHERE id = ?`,
		id,
	)
	require.NoError(t, err)
	return stock
}

func TestCheckoutPlacesOrder(t *testing.T) {
	env := newTestEnv(t, "db://order_checkout")
	ctx := context.Background()
	env.carts.cart = blendCart()

	o, err := env.svc.Checkout(ctx, "u3", "key-1", shipping())
	require.NoError(t, err)

	assert.Equal(t, order.StatusPaid, o.Status)
	assert.Equal(t, order.PaymentCompleted, o.PaymentStatus)
	assert.True(t, strings.HasPrefix(o.OrderNumber, "ORD-"))
	assert.NotEqual(t, o.ID, o.OrderNumber)
	assert.Equal(t, "s2", o.StoreID)

	// The order carries its own party snapshots.
	assert.Equal(t, "Tostadora Andina", o.StoreName)
	assert.Equal(t, "Test User", o.BuyerName)
	assert.Equal(t, "u3@example.com", o.BuyerEmail)
	assert.Equal(t, int64(56000), o.Subtotal)
	assert.Equal(t, int64(10640), o.Tax)
	assert.Equal(t, int64(840), o.Commission)
	assert.Equal(t, int64(66640), o.Total)
	assert.Equal(t, "TXN-TEST", o.PaymentRef)
	assert.Equal(t, int64(66640), env.gateway.charged)

	// Stock came down inside the same transaction.
	assert.Equal(t, 98, productStock(t, env.db, "p3"))

	assert.True(t, env.carts.cleared)

	require.Len(t, env.mailer.sent, 1)
	assert.Equal(t, "u3@example.com", env.mailer.sent[0].To)
	assert.Contains(t, env.mailer.sent[0].Subject, o.OrderNumber)

	// The order shows up exactly once in the buyer's history, next to
	// the seeded one.
	orders, err := env.svc.ListForBuyer(ctx, "u3")
	require.NoError(t, err)
	require.Len(t, orders, 2)

	placed := 0
	for _, existing := range orders {
		if existing.ID == o.ID {
			placed++
			require.Len(t, existing.Items, 1)
			assert.Equal(t, "Blend Andino", existing.Items[0].Name)
			assert.Equal(t, 2, existing.Items[0].Quantity)
			assert.NotEmpty(t, existing.Items[0].ImageURL)
		}
	}
	assert.Equal(t, 1, placed)
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := newTestEnv(t, "db://order_empty_cart")

	_, err := env.svc.Checkout(context.Background(), "u3", "key-1", shipping())
	assert.ErrorIs(t, err, order.ErrEmptyCart)
}

func TestCheckoutPaymentDeclined(t *testing.T) {
	env := newTestEnv(t, "db://order_declined")
	ctx := context.Background()
	env.carts.cart = blendCart()
	env.gateway.approve = false

	_, err := env.svc.Checkout(ctx, "u3", "key-1", shipping())
	assert.ErrorIs(t, err, order.ErrPaymentDeclined)

	// Nothing happened: stock intact, cart intact, key free for retry.
	assert.Equal(t, 100, productStock(t, env.db, "p3"))
	assert.False(t, env.carts.cleared)
	assert.Contains(t, env.idem.released, "u3:key-1")

	orders, err := env.svc.ListForBuyer(ctx, "u3")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestCheckoutDuplicateKey(t *testing.T) {
	env := newTestEnv(t, "db://order_duplicate")
	ctx := context.Background()
	env.carts.cart = blendCart()

	_, err := env.svc.Checkout(ctx, "u3", "key-1", shipping())
	require.NoError(t, err)

	env.carts.cart = blendCart()
	_, err = env.svc.Checkout(ctx, "u3", "key-1", shipping())
	assert.ErrorIs(t, err, order.ErrDuplicateCheckout)
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	env := newTestEnv(t, "db://order_rollback")
	ctx := context.Background()

	// First line fits, second line cannot: the whole order must fail
	// and the first decrement must be undone.
	env.carts.cart = &cart.Cart{
		UserID: "u3",
		Items: []cart.Item{
			{ProductID: "p3", StoreID: "s2", Name: "Blend Andino", Price: 28000, Quantity: 2},
			{ProductID: "p4", StoreID: "s2", Name: "Typica Orgánico", Price: 38000, Quantity: 999},
		},
	}

	_, err := env.svc.Checkout(ctx, "u3", "key-1", shipping())
	assert.ErrorIs(t, err, order.ErrInsufficientStock)

	assert.Equal(t, 100, productStock(t, env.db, "p3"))
	assert.Equal(t, 60, productStock(t, env.db, "p4"))
	assert.False(t, env.carts.cleared)

	orders, err := env.svc.ListForBuyer(ctx, "u3")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestUpdateStatusBySeller(t *testing.T) {
	env := newTestEnv(t, "db://order_status_seller")
	ctx := context.Background()

	// Seeded ORD-002 (row o2) belongs to store s2, owned by u5, currently PACKED.
	o, err := env.svc.UpdateStatus(ctx, "u5", identity.RoleSeller, "o2", order.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, o.Status)

	o, err = env.svc.UpdateStatus(ctx, "u5", identity.RoleSeller, "o2", order.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, o.Status)

	// Delivered is terminal.
	_, err = env.svc.UpdateStatus(ctx, "u5", identity.RoleSeller, "o2", order.StatusCancelled)
	assert.ErrorIs(t, err, core.ErrInvalidTransition)
}

func TestUpdateStatusForeignSellerForbidden(t *testing.T) {
	env := newTestEnv(t, "db://order_status_foreign")

	// u4 owns s1; order o2 belongs to s2.
	_, err := env.svc.UpdateStatus(
		context.Background(),
		"u4",
		identity.RoleSeller,
		"o2",
		order.StatusShipped,
	)
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestUpdateStatusByAdmin(t *testing.T) {
	env := newTestEnv(t, "db://order_status_admin")

	o, err := env.svc.UpdateStatus(
		context.Background(),
		"u1",
		identity.RoleAdmin,
		"o2",
		order.StatusCancelled,
	)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, o.Status)
}

func TestUpdateStatusSkipNotAllowed(t *testing.T) {
	env := newTestEnv(t, "db://order_status_skip")

	// PACKED cannot jump straight to DELIVERED.
	_, err := env.svc.UpdateStatus(
		context.Background(),
		"u5",
		identity.RoleSeller,
		"o2",
		order.StatusDelivered,
	)
	assert.ErrorIs(t, err, core.ErrInvalidTransition)
}

func TestGetVisibility(t *testing.T) {
	env := newTestEnv(t, "db://order_visibility")
	ctx := context.Background()

	// The buyer who placed the seeded order.
	o, err := env.svc.Get(ctx, "u3", identity.RoleBuyer, "o2")
	require.NoError(t, err)
	assert.Equal(t, "ORD-002", o.OrderNumber)
	assert.Equal(t, "Tostadora Andina", o.StoreName)
	assert.Equal(t, order.PaymentCompleted, o.PaymentStatus)

	// A different buyer.
	_, err = env.svc.Get(ctx, "u2", identity.RoleBuyer, "o2")
	assert.ErrorIs(t, err, core.ErrForbidden)

	// The seller whose store it is.
	_, err = env.svc.Get(ctx, "u5", identity.RoleSeller, "o2")
	assert.NoError(t, err)

	// A seller from another store.
	_, err = env.svc.Get(ctx, "u4", identity.RoleSeller, "o2")
	assert.ErrorIs(t, err, core.ErrForbidden)

	// Admin sees everything.
	_, err = env.svc.Get(ctx, "u1", identity.RoleAdmin, "o2")
	assert.NoError(t, err)
}

func TestListForStore(t *testing.T) {
	env := newTestEnv(t, "db://order_list_store")
	ctx := context.Background()

	orders, err := env.svc.ListForStore(ctx, "u5")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "o2", orders[0].ID)
	assert.Equal(t, "ORD-002", orders[0].OrderNumber)

	// A seller whose store has no orders yet.
	orders, err = env.svc.ListForStore(ctx, "u6")
	require.NoError(t, err)
	assert.Empty(t, orders)

	// A seller without a store gets not-found, not an empty list.
	_, err = env.svc.ListForStore(ctx, "u9")
	assert.ErrorIs(t, err, core.ErrNotFound)
}
