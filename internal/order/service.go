// AngelaMos | 2026
// service.go

package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/snavia68/coffeademo/internal/cart"
	"github.com/snavia68/coffeademo/internal/catalog"
	"github.com/snavia68/coffeademo/internal/core"
	"github.com/snavia68/coffeademo/internal/currency"
	"github.com/snavia68/coffeademo/internal/identity"
	"github.com/snavia68/coffeademo/internal/notify"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateCheckout = errors.New("checkout already in progress")
)

// CartSource is what checkout needs from the cart: the raw items and a
// way to empty it once the order exists.
type CartSource interface {
	Snapshot(ctx context.Context, userID string) (*cart.Cart, error)
	Clear(ctx context.Context, userID string) error
}

type StoreSource interface {
	GetStore(ctx context.Context, id string) (*catalog.Store, error)
	GetStoreByUserID(ctx context.Context, userID string) (*catalog.Store, error)
}

type UserSource interface {
	GetUser(ctx context.Context, id string) (*identity.User, error)
}

type Service struct {
	db       *sqlx.DB
	repo     Repository
	carts    CartSource
	stores   StoreSource
	users    UserSource
	gateway  PaymentGateway
	idem     IdempotencyStore
	mailer   notify.Mailer
	logger   *slog.Logger
	taxRate  float64
	commRate float64
}

type ServiceParams struct {
	DB             *sqlx.DB
	Repo           Repository
	Carts          CartSource
	Stores         StoreSource
	Users          UserSource
	Gateway        PaymentGateway
	Idempotency    IdempotencyStore
	Mailer         notify.Mailer
	Logger         *slog.Logger
	TaxRate        float64
	CommissionRate float64
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:       p.DB,
		repo:     p.Repo,
		carts:    p.Carts,
		stores:   p.Stores,
		users:    p.Users,
		gateway:  p.Gateway,
		idem:     p.Idempotency,
		mailer:   p.Mailer,
		logger:   p.Logger,
		taxRate:  p.TaxRate,
		commRate: p.CommissionRate,
	}
}

// Commission rounds half away from zero, same as tax.
func Commission(subtotal int64, rate float64) int64 {
	return int64(math.Round(float64(subtotal) * rate))
}

// Checkout turns the buyer's cart into an order. The charge happens
// first; the order row, its lines and every stock decrement then commit
// in one transaction, so a stock race rolls the whole order back. The
// idempotency key stops a retried request from paying twice.
func (s *Service) Checkout(
	ctx context.Context,
	buyerID, idemKey string,
	req CheckoutRequest,
) (*Order, error) {
	snapshot, err := s.carts.Snapshot(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if len(snapshot.Items) == 0 {
		return nil, ErrEmptyCart
	}

	// Snapshot the parties before anything irreversible happens. The
	// order row keeps its own copy of the buyer and store names.
	buyer, err := s.users.GetUser(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	store, err := s.stores.GetStore(ctx, snapshot.StoreID())
	if err != nil {
		return nil, err
	}

	if idemKey != "" {
		claimed, err := s.idem.Claim(ctx, buyerID, idemKey)
		if err != nil {
			return nil, err
		}
		if !claimed {
			return nil, ErrDuplicateCheckout
		}
	}

	subtotal := snapshot.Subtotal()
	tax := cart.Tax(subtotal, s.taxRate)
	total := subtotal + tax

	paymentRef, err := s.gateway.Charge(ctx, buyerID, total)
	if err != nil {
		s.releaseKey(ctx, buyerID, idemKey)
		return nil, err
	}

	now := time.Now().UTC()
	o := &Order{
		ID:              uuid.New().String(),
		OrderNumber:     newOrderNumber(),
		BuyerID:         buyerID,
		BuyerName:       buyer.Name,
		BuyerEmail:      buyer.Email,
		StoreID:         store.ID,
		StoreName:       store.BusinessName,
		Status:          StatusPaid,
		PaymentStatus:   PaymentCompleted,
		Subtotal:        subtotal,
		Tax:             tax,
		Commission:      Commission(subtotal, s.commRate),
		Total:           total,
		ShippingAddress: req.shippingAddress(),
		PaymentRef:      paymentRef,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for _, item := range snapshot.Items {
		o.Items = append(o.Items, Item{
			ID:            uuid.New().String(),
			OrderID:       o.ID,
			ProductID:     item.ProductID,
			Name:          item.Name,
			Price:         item.Price,
			ImageURL:      item.ImageURL,
			Quantity:      item.Quantity,
			SelectedGrind: item.SelectedGrind,
			SelectedSize:  item.SelectedSize,
		})
	}

	err = core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		for _, item := range o.Items {
			if err := s.repo.DecrementStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return s.repo.Insert(ctx, tx, o)
	})
	if err != nil {
		s.releaseKey(ctx, buyerID, idemKey)
		return nil, err
	}

	if err := s.carts.Clear(ctx, buyerID); err != nil {
		s.logger.WarnContext(ctx, "failed to clear cart after checkout",
			"buyer_id", buyerID,
			"order_id", o.ID,
			"error", err,
		)
	}

	s.sendConfirmation(ctx, o)

	return o, nil
}

// UpdateStatus moves an order along its lifecycle. Only an admin or the
// seller whose store received the order may touch it, and only moves in
// the transition table are accepted.
func (s *Service) UpdateStatus(
	ctx context.Context,
	actorID, actorRole, orderID, status string,
) (*Order, error) {
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if actorRole != identity.RoleAdmin {
		store, err := s.stores.GetStoreByUserID(ctx, actorID)
		if err != nil {
			return nil, fmt.Errorf("order %s not owned by actor: %w", orderID, core.ErrForbidden)
		}
		if store.ID != o.StoreID {
			return nil, fmt.Errorf("order %s not owned by actor: %w", orderID, core.ErrForbidden)
		}
	}

	if !CanTransition(o.Status, status) {
		return nil, fmt.Errorf(
			"order %s -> %s: %w",
			o.Status,
			status,
			core.ErrInvalidTransition,
		)
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}

	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	return o, nil
}

// Get enforces visibility: buyers see their own orders, sellers the
// orders of their store, admins everything.
func (s *Service) Get(
	ctx context.Context,
	actorID, actorRole, orderID string,
) (*Order, error) {
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch actorRole {
	case identity.RoleAdmin:
		return o, nil
	case identity.RoleBuyer:
		if o.BuyerID == actorID {
			return o, nil
		}
	case identity.RoleSeller:
		store, err := s.stores.GetStoreByUserID(ctx, actorID)
		if err == nil && store.ID == o.StoreID {
			return o, nil
		}
	}

	return nil, fmt.Errorf("order %s: %w", orderID, core.ErrForbidden)
}

func (s *Service) ListForBuyer(ctx context.Context, buyerID string) ([]Order, error) {
	return s.repo.ListByBuyer(ctx, buyerID)
}

// ListForStore resolves the seller's store first, so a seller without a
// store gets not-found rather than an empty list.
func (s *Service) ListForStore(ctx context.Context, actorID string) ([]Order, error) {
	store, err := s.stores.GetStoreByUserID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	return s.repo.ListByStore(ctx, store.ID)
}

func (s *Service) ListAll(ctx context.Context) ([]Order, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) sendConfirmation(ctx context.Context, o *Order) {
	s.mailer.Send(ctx, notify.Message{
		To:      o.BuyerEmail,
		Subject: "Confirmación de orden " + o.OrderNumber,
		Body: fmt.Sprintf(
			"Hola %s, tu orden %s fue recibida. Total: %s COP.",
			o.BuyerName,
			o.OrderNumber,
			currency.FormatCOP(o.Total),
		),
	})
}

func (s *Service) releaseKey(ctx context.Context, buyerID, key string) {
	if key == "" {
		return
	}
	if err := s.idem.Release(ctx, buyerID, key); err != nil {
		s.logger.WarnContext(ctx, "failed to release checkout key",
			"buyer_id", buyerID,
			"error", err,
		)
	}
}

// newOrderNumber mints the human-facing ORD- reference. The row ID
// stays a plain UUID; the two are never interchangeable.
func newOrderNumber() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "ORD-" + strings.ToUpper(raw[:8])
}
