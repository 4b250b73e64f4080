// AngelaMos | 2026
// service.go

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/snavia68/coffeademo/internal/core"
)

var (
	ErrStoreExists      = errors.New("seller already has a store")
	ErrStoreNotApproved = errors.New("store not approved")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateStore registers the acting seller's business. One store per
// seller; the store starts PENDING and cannot sell until an admin
// approves it.
func (s *Service) CreateStore(
	ctx context.Context,
	actorID string,
	req CreateStoreRequest,
) (*Store, error) {
	existing, err := s.repo.GetStoreByUserID(ctx, actorID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrStoreExists
	}

	store := &Store{
		ID:           uuid.New().String(),
		UserID:       actorID,
		BusinessName: req.BusinessName,
		LegalName:    req.LegalName,
		TaxID:        req.TaxID,
		BankAccount:  req.BankAccount,
		Status:       StoreStatusPending,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateStore(ctx, store); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *Service) GetStore(ctx context.Context, id string) (*Store, error) {
	return s.repo.GetStore(ctx, id)
}

func (s *Service) GetStoreByUserID(
	ctx context.Context,
	userID string,
) (*Store, error) {
	return s.repo.GetStoreByUserID(ctx, userID)
}

func (s *Service) ListStores(
	ctx context.Context,
	status string,
) ([]Store, error) {
	return s.repo.ListStores(ctx, status)
}

// UpdateStoreStatus applies an admin review decision. Only
// PENDING -> APPROVED and PENDING -> REJECTED exist; a decided store
// stays decided.
func (s *Service) UpdateStoreStatus(
	ctx context.Context,
	id, status string,
) (*Store, error) {
	store, err := s.repo.GetStore(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanTransitionStore(store.Status, status) {
		return nil, fmt.Errorf(
			"store %s -> %s: %w",
			store.Status,
			status,
			core.ErrInvalidTransition,
		)
	}

	if err := s.repo.UpdateStoreStatus(ctx, id, status); err != nil {
		return nil, err
	}

	store.Status = status
	return store, nil
}

// AddProduct creates a product in the acting seller's own store, which
// must already be approved. The actor id is part of the contract: there
// is no way to create a product in someone else's store.
func (s *Service) AddProduct(
	ctx context.Context,
	actorID string,
	req CreateProductRequest,
) (*Product, error) {
	store, err := s.repo.GetStoreByUserID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !store.IsApproved() {
		return nil, ErrStoreNotApproved
	}

	product := &Product{
		ID:           uuid.New().String(),
		StoreID:      store.ID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Stock:        req.Stock,
		Origin:       req.Origin,
		Variety:      req.Variety,
		TastingNotes: req.TastingNotes,
		Preparation:  req.Preparation,
		ImageURL:     req.ImageURL,
		Variants:     req.Variants,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// UpdateProduct shallow-merges the provided fields into the product
// after proving the actor owns it.
func (s *Service) UpdateProduct(
	ctx context.Context,
	actorID, productID string,
	req UpdateProductRequest,
) (*Product, error) {
	product, err := s.ownedProduct(ctx, actorID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Origin != nil {
		product.Origin = *req.Origin
	}
	if req.Variety != nil {
		product.Variety = *req.Variety
	}
	if req.TastingNotes != nil {
		product.TastingNotes = *req.TastingNotes
	}
	if req.Preparation != nil {
		product.Preparation = *req.Preparation
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.Variants != nil {
		product.Variants = *req.Variants
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct clears the active flag. Existing orders are untouched:
// they carry their own snapshots.
func (s *Service) DeleteProduct(
	ctx context.Context,
	actorID, productID string,
) error {
	if _, err := s.ownedProduct(ctx, actorID, productID); err != nil {
		return err
	}

	return s.repo.SetProductActive(ctx, productID, false)
}

// GetActiveProduct returns a product visible to buyers. Inactive
// products are not found as far as the storefront is concerned.
func (s *Service) GetActiveProduct(
	ctx context.Context,
	id string,
) (*Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if !product.Active {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}

	return product, nil
}

func (s *Service) ListActiveProducts(
	ctx context.Context,
	storeID, search string,
) ([]Product, error) {
	return s.repo.ListProducts(ctx, ProductFilter{
		StoreID:    storeID,
		ActiveOnly: true,
		Search:     search,
	})
}

// ListStoreProducts is the seller dashboard view: every product of the
// actor's store, inactive ones included.
func (s *Service) ListStoreProducts(
	ctx context.Context,
	actorID string,
) ([]Product, error) {
	store, err := s.repo.GetStoreByUserID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	return s.repo.ListProducts(ctx, ProductFilter{StoreID: store.ID})
}

func (s *Service) ownedProduct(
	ctx context.Context,
	actorID, productID string,
) (*Product, error) {
	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	store, err := s.repo.GetStore(ctx, product.StoreID)
	if err != nil {
		return nil, err
	}

	if store.UserID != actorID {
		return nil, fmt.Errorf(
			"product %s not owned by actor: %w",
			productID,
			core.ErrForbidden,
		)
	}

	return product, nil
}
