// AngelaMos | 2026
// dto.go

package cart

type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"   validate:"required,gte=1"`
	Grind     string `json:"grind"      validate:"omitempty,max=50"`
	Size      string `json:"size"       validate:"omitempty,max=50"`
}

// UpdateQuantityRequest has no validation tags on purpose: zero (or a
// negative quantity) is a legal value that removes the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type ItemResponse struct {
	ProductID     string `json:"product_id"`
	StoreID       string `json:"store_id"`
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	ImageURL      string `json:"image_url,omitempty"`
	SelectedGrind string `json:"selected_grind,omitempty"`
	SelectedSize  string `json:"selected_size,omitempty"`
	Quantity      int    `json:"quantity"`
	LineTotal     int64  `json:"line_total"`
}

// CartResponse carries the items plus every derived amount the client
// needs; nothing derived is ever stored.
type CartResponse struct {
	StoreID   string         `json:"store_id,omitempty"`
	Items     []ItemResponse `json:"items"`
	ItemCount int            `json:"item_count"`
	Subtotal  int64          `json:"subtotal"`
	Tax       int64          `json:"tax"`
	Total     int64          `json:"total"`
}

func toCartResponse(c *Cart, taxRate float64) CartResponse {
	items := make([]ItemResponse, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, ItemResponse{
			ProductID:     item.ProductID,
			StoreID:       item.StoreID,
			Name:          item.Name,
			Price:         item.Price,
			ImageURL:      item.ImageURL,
			SelectedGrind: item.SelectedGrind,
			SelectedSize:  item.SelectedSize,
			Quantity:      item.Quantity,
			LineTotal:     item.Price * int64(item.Quantity),
		})
	}

	subtotal := c.Subtotal()
	tax := Tax(subtotal, taxRate)

	return CartResponse{
		StoreID:   c.StoreID(),
		Items:     items,
		ItemCount: c.ItemCount(),
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     subtotal + tax,
	}
}
