// AngelaMos | 2026
// entity.go

package cart

import (
	"math"
)

// Item is one cart line. Product fields are snapshotted at add time so
// the cart renders without a catalog round trip; stock checks always go
// back to the catalog.
type Item struct {
	ProductID       string `json:"product_id"`
	StoreID         string `json:"store_id"`
	Name            string `json:"name"`
	Price           int64  `json:"price"`
	ImageURL        string `json:"image_url,omitempty"`
	SelectedGrind   string `json:"selected_grind,omitempty"`
	SelectedSize    string `json:"selected_size,omitempty"`
	Quantity        int    `json:"quantity"`
	AvailableStock  int    `json:"available_stock"`
}

// Cart is the buyer's working cart. Everything derived (counts, money)
// is recomputed from the items on every read; only the items persist.
type Cart struct {
	UserID string `json:"user_id"`
	Items  []Item `json:"items"`
}

func (c *Cart) StoreID() string {
	if len(c.Items) == 0 {
		return ""
	}
	return c.Items[0].StoreID
}

func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

func (c *Cart) Subtotal() int64 {
	var subtotal int64
	for _, item := range c.Items {
		subtotal += item.Price * int64(item.Quantity)
	}
	return subtotal
}

// Tax rounds half away from zero, matching how the rest of the
// marketplace rounds derived amounts.
func Tax(subtotal int64, rate float64) int64 {
	return int64(math.Round(float64(subtotal) * rate))
}

// find locates a line by product. A product occupies at most one line;
// re-adding it with a different variant replaces the variant rather
// than opening a second line.
func (c *Cart) find(productID string) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
