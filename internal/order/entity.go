// AngelaMos | 2026
// entity.go

package order

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	StatusPending   = "PENDING"
	StatusPaid      = "PAID"
	StatusPacked    = "PACKED"
	StatusShipped   = "SHIPPED"
	StatusDelivered = "DELIVERED"
	StatusCancelled = "CANCELLED"
)

// Payment status tracks the charge, separately from fulfillment.
const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentFailed    = "FAILED"
)

// statusTransitions is the single source of truth for order lifecycle
// moves. DELIVERED and CANCELLED are terminal; cancellation is possible
// until the package leaves the store.
var statusTransitions = map[string][]string{
	StatusPending: {StatusPaid, StatusCancelled},
	StatusPaid:    {StatusPacked, StatusCancelled},
	StatusPacked:  {StatusShipped, StatusCancelled},
	StatusShipped: {StatusDelivered},
}

func CanTransition(from, to string) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusPaid, StatusPacked,
		StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// ShippingAddress is stored as a JSON blob on the order row.
type ShippingAddress struct {
	FullName string `json:"full_name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Phone    string `json:"phone"`
	Notes    string `json:"notes,omitempty"`
}

func (a ShippingAddress) Value() (driver.Value, error) {
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode shipping address: %w", err)
	}
	return string(raw), nil
}

func (a *ShippingAddress) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = ShippingAddress{}
		return nil
	case string:
		if v == "" {
			*a = ShippingAddress{}
			return nil
		}
		return json.Unmarshal([]byte(v), a)
	case []byte:
		if len(v) == 0 {
			*a = ShippingAddress{}
			return nil
		}
		return json.Unmarshal(v, a)
	default:
		return fmt.Errorf("scan shipping address: unsupported type %T", src)
	}
}

// Order carries its money fields fully denormalized, and snapshots the
// buyer and store alongside them. Subtotal, tax, commission and total
// are fixed at placement and never recomputed from the catalog; the
// buyer name and store name render order history even after either
// party renames itself.
type Order struct {
	ID              string          `db:"id"`
	OrderNumber     string          `db:"order_number"`
	BuyerID         string          `db:"buyer_id"`
	BuyerName       string          `db:"buyer_name"`
	BuyerEmail      string          `db:"buyer_email"`
	StoreID         string          `db:"store_id"`
	StoreName       string          `db:"store_name"`
	Status          string          `db:"status"`
	PaymentStatus   string          `db:"payment_status"`
	Subtotal        int64           `db:"subtotal"`
	Tax             int64           `db:"tax"`
	Commission      int64           `db:"commission"`
	Total           int64           `db:"total"`
	ShippingAddress ShippingAddress `db:"shipping_address"`
	PaymentRef      string          `db:"payment_ref"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`

	Items []Item `db:"-"`
}

// Item is a line frozen at checkout. Name, price and image are copies,
// so later catalog edits never rewrite order history.
type Item struct {
	ID            string `db:"id"`
	OrderID       string `db:"order_id"`
	ProductID     string `db:"product_id"`
	Name          string `db:"name"`
	Price         int64  `db:"price"`
	ImageURL      string `db:"image_url"`
	Quantity      int    `db:"quantity"`
	SelectedGrind string `db:"selected_grind"`
	SelectedSize  string `db:"selected_size"`
}
