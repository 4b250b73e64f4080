// AngelaMos | 2026
// service.go

package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/snavia68/coffeademo/internal/catalog"
	"github.com/snavia68/coffeademo/internal/core"
)

var (
	ErrDifferentStore    = errors.New("cart holds items from another store")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductSource is the slice of the catalog the cart needs: products a
// buyer is allowed to see.
type ProductSource interface {
	GetActiveProduct(ctx context.Context, id string) (*catalog.Product, error)
}

type Service struct {
	repo     Repository
	products ProductSource
	taxRate  float64
}

func NewService(repo Repository, products ProductSource, taxRate float64) *Service {
	return &Service{
		repo:     repo,
		products: products,
		taxRate:  taxRate,
	}
}

func (s *Service) Get(ctx context.Context, userID string) (CartResponse, error) {
	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		return CartResponse{}, err
	}

	return toCartResponse(cart, s.taxRate), nil
}

// AddItem puts a product in the buyer's cart. A cart only ever holds one
// store: adding from a second store is rejected, not merged. Adding a
// product already in the cart sums the quantities onto the existing line
// and replaces its variant selection; the combined quantity is checked
// against current stock.
func (s *Service) AddItem(
	ctx context.Context,
	userID string,
	req AddItemRequest,
) (CartResponse, error) {
	product, err := s.products.GetActiveProduct(ctx, req.ProductID)
	if err != nil {
		return CartResponse{}, err
	}

	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		return CartResponse{}, err
	}

	if storeID := cart.StoreID(); storeID != "" && storeID != product.StoreID {
		return CartResponse{}, ErrDifferentStore
	}

	quantity := req.Quantity
	idx := cart.find(req.ProductID)
	if idx >= 0 {
		quantity += cart.Items[idx].Quantity
	}

	if quantity > product.Stock {
		return CartResponse{}, fmt.Errorf(
			"requested %d of %d available: %w",
			quantity,
			product.Stock,
			ErrInsufficientStock,
		)
	}

	item := Item{
		ProductID:      product.ID,
		StoreID:        product.StoreID,
		Name:           product.Name,
		Price:          product.Price,
		ImageURL:       product.ImageURL,
		SelectedGrind:  req.Grind,
		SelectedSize:   req.Size,
		Quantity:       quantity,
		AvailableStock: product.Stock,
	}

	if idx >= 0 {
		cart.Items[idx] = item
	} else {
		cart.Items = append(cart.Items, item)
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return CartResponse{}, err
	}

	return toCartResponse(cart, s.taxRate), nil
}

// UpdateQuantity overwrites a line's quantity exactly. Zero or negative
// removes the line. Stock is not rechecked here; checkout is the gate
// that matters.
func (s *Service) UpdateQuantity(
	ctx context.Context,
	userID, productID string,
	req UpdateQuantityRequest,
) (CartResponse, error) {
	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		return CartResponse{}, err
	}

	idx := cart.find(productID)
	if idx < 0 {
		return CartResponse{}, fmt.Errorf("cart item: %w", core.ErrNotFound)
	}

	if req.Quantity <= 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		cart.Items[idx].Quantity = req.Quantity
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return CartResponse{}, err
	}

	return toCartResponse(cart, s.taxRate), nil
}

func (s *Service) RemoveItem(
	ctx context.Context,
	userID, productID string,
) (CartResponse, error) {
	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		return CartResponse{}, err
	}

	idx := cart.find(productID)
	if idx < 0 {
		return CartResponse{}, fmt.Errorf("cart item: %w", core.ErrNotFound)
	}

	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)

	if err := s.repo.Save(ctx, cart); err != nil {
		return CartResponse{}, err
	}

	return toCartResponse(cart, s.taxRate), nil
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.repo.Delete(ctx, userID)
}

// Snapshot hands the raw cart to checkout. Checkout owns revalidation;
// the cart only promises what the buyer put in it.
func (s *Service) Snapshot(ctx context.Context, userID string) (*Cart, error) {
	return s.repo.Get(ctx, userID)
}
