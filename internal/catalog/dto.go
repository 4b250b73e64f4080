// AngelaMos | 2026
// dto.go

package catalog

import (
	"time"
)

type CreateStoreRequest struct {
	BusinessName string `json:"business_name" validate:"required,min=1,max=120"`
	LegalName    string `json:"legal_name"    validate:"required,min=1,max=120"`
	TaxID        string `json:"tax_id"        validate:"required,min=1,max=32"`
	BankAccount  string `json:"bank_account"  validate:"required,min=1,max=32"`
}

type UpdateStoreStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
}

type CreateProductRequest struct {
	Name         string   `json:"name"          validate:"required,min=1,max=150"`
	Description  string   `json:"description"   validate:"required,min=1"`
	Price        int64    `json:"price"         validate:"required,gt=0"`
	Stock        int      `json:"stock"         validate:"gte=0"`
	Origin       string   `json:"origin"        validate:"omitempty,max=100"`
	Variety      string   `json:"variety"       validate:"omitempty,max=100"`
	TastingNotes string   `json:"tasting_notes" validate:"omitempty,max=300"`
	Preparation  string   `json:"preparation"   validate:"omitempty,max=300"`
	ImageURL     string   `json:"image_url"     validate:"omitempty,url,max=500"`
	Variants     Variants `json:"variants"`
}

// UpdateProductRequest is a shallow merge: only the fields present in the
// request change.
type UpdateProductRequest struct {
	Name         *string   `json:"name,omitempty"          validate:"omitempty,min=1,max=150"`
	Description  *string   `json:"description,omitempty"   validate:"omitempty,min=1"`
	Price        *int64    `json:"price,omitempty"         validate:"omitempty,gt=0"`
	Stock        *int      `json:"stock,omitempty"         validate:"omitempty,gte=0"`
	Origin       *string   `json:"origin,omitempty"        validate:"omitempty,max=100"`
	Variety      *string   `json:"variety,omitempty"       validate:"omitempty,max=100"`
	TastingNotes *string   `json:"tasting_notes,omitempty" validate:"omitempty,max=300"`
	Preparation  *string   `json:"preparation,omitempty"   validate:"omitempty,max=300"`
	ImageURL     *string   `json:"image_url,omitempty"     validate:"omitempty,url,max=500"`
	Variants     *Variants `json:"variants,omitempty"`
}

type StoreResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	BusinessName string    `json:"business_name"`
	LegalName    string    `json:"legal_name"`
	TaxID        string    `json:"tax_id"`
	BankAccount  string    `json:"bank_account"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type ProductResponse struct {
	ID           string    `json:"id"`
	StoreID      string    `json:"store_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        int64     `json:"price"`
	Stock        int       `json:"stock"`
	Origin       string    `json:"origin,omitempty"`
	Variety      string    `json:"variety,omitempty"`
	TastingNotes string    `json:"tasting_notes,omitempty"`
	Preparation  string    `json:"preparation,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	Variants     *Variants `json:"variants,omitempty"`
	Active       bool      `json:"active"`
}

type ProductWithStoreResponse struct {
	ProductResponse
	Store StoreResponse `json:"store"`
}

func ToStoreResponse(s *Store) StoreResponse {
	return StoreResponse{
		ID:           s.ID,
		UserID:       s.UserID,
		BusinessName: s.BusinessName,
		LegalName:    s.LegalName,
		TaxID:        s.TaxID,
		BankAccount:  s.BankAccount,
		Status:       s.Status,
		CreatedAt:    s.CreatedAt,
	}
}

func ToStoreResponseList(stores []Store) []StoreResponse {
	responses := make([]StoreResponse, 0, len(stores))
	for _, s := range stores {
		responses = append(responses, ToStoreResponse(&s))
	}
	return responses
}

func ToProductResponse(p *Product) ProductResponse {
	resp := ProductResponse{
		ID:           p.ID,
		StoreID:      p.StoreID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Stock:        p.Stock,
		Origin:       p.Origin,
		Variety:      p.Variety,
		TastingNotes: p.TastingNotes,
		Preparation:  p.Preparation,
		ImageURL:     p.ImageURL,
		Active:       p.Active,
	}

	if !p.Variants.Empty() {
		v := p.Variants
		resp.Variants = &v
	}

	return resp
}

func ToProductResponseList(products []Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, ToProductResponse(&p))
	}
	return responses
}
