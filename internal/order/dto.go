// AngelaMos | 2026
// dto.go

package order

import (
	"time"
)

type CheckoutRequest struct {
	FullName string `json:"full_name" validate:"required,min=1,max=120"`
	Address  string `json:"address"   validate:"required,min=1,max=200"`
	City     string `json:"city"      validate:"required,min=1,max=100"`
	Phone    string `json:"phone"     validate:"required,min=7,max=20"`
	Notes    string `json:"notes"     validate:"omitempty,max=300"`
}

func (r CheckoutRequest) shippingAddress() ShippingAddress {
	return ShippingAddress{
		FullName: r.FullName,
		Address:  r.Address,
		City:     r.City,
		Phone:    r.Phone,
		Notes:    r.Notes,
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PACKED SHIPPED DELIVERED CANCELLED"`
}

type ItemResponse struct {
	ProductID     string `json:"product_id"`
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	ImageURL      string `json:"image_url,omitempty"`
	Quantity      int    `json:"quantity"`
	SelectedGrind string `json:"selected_grind,omitempty"`
	SelectedSize  string `json:"selected_size,omitempty"`
	LineTotal     int64  `json:"line_total"`
}

// BuyerResponse and StoreResponse render the snapshots taken at
// placement, so clients never need a second lookup for names.
type BuyerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type StoreResponse struct {
	ID           string `json:"id"`
	BusinessName string `json:"business_name"`
}

type OrderResponse struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"order_number"`
	Buyer           BuyerResponse   `json:"buyer"`
	Store           StoreResponse   `json:"store"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	Items           []ItemResponse  `json:"items"`
	Subtotal        int64           `json:"subtotal"`
	Tax             int64           `json:"tax"`
	Commission      int64           `json:"commission"`
	Total           int64           `json:"total"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentRef      string          `json:"payment_ref,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func ToOrderResponse(o *Order) OrderResponse {
	items := make([]ItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, ItemResponse{
			ProductID:     item.ProductID,
			Name:          item.Name,
			Price:         item.Price,
			ImageURL:      item.ImageURL,
			Quantity:      item.Quantity,
			SelectedGrind: item.SelectedGrind,
			SelectedSize:  item.SelectedSize,
			LineTotal:     item.Price * int64(item.Quantity),
		})
	}

	return OrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Buyer: BuyerResponse{
			ID:    o.BuyerID,
			Name:  o.BuyerName,
			Email: o.BuyerEmail,
		},
		Store: StoreResponse{
			ID:           o.StoreID,
			BusinessName: o.StoreName,
		},
		Status:          o.Status,
		PaymentStatus:   o.PaymentStatus,
		Items:           items,
		Subtotal:        o.Subtotal,
		Tax:             o.Tax,
		Commission:      o.Commission,
		Total:           o.Total,
		ShippingAddress: o.ShippingAddress,
		PaymentRef:      o.PaymentRef,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func ToOrderResponseList(orders []Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		responses = append(responses, ToOrderResponse(&o))
	}
	return responses
}
