// AngelaMos | 2026
// entity.go

package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	StoreStatusPending  = "PENDING"
	StoreStatusApproved = "APPROVED"
	StoreStatusRejected = "REJECTED"
)

// storeStatusTransitions is the only legal movement: admin review of a
// pending store. There is no re-review path.
var storeStatusTransitions = map[string][]string{
	StoreStatusPending: {StoreStatusApproved, StoreStatusRejected},
}

func CanTransitionStore(from, to string) bool {
	for _, allowed := range storeStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Store is a seller's registered business. One per seller; only an admin
// moves it out of PENDING.
type Store struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	BusinessName string    `db:"business_name"`
	LegalName    string    `db:"legal_name"`
	TaxID        string    `db:"tax_id"`
	BankAccount  string    `db:"bank_account"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
}

func (s *Store) IsApproved() bool {
	return s.Status == StoreStatusApproved
}

// Variants are the selectable grind/size axes of a product. Stored as a
// JSON column in stoolap.
type Variants struct {
	Grind []string `json:"grind"`
	Size  []string `json:"size"`
}

func (v Variants) Empty() bool {
	return len(v.Grind) == 0 && len(v.Size) == 0
}

func (v Variants) Value() (driver.Value, error) {
	if v.Empty() {
		return "", nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal variants: %w", err)
	}

	return string(b), nil
}

func (v *Variants) Scan(src any) error {
	var raw []byte

	switch s := src.(type) {
	case nil:
		*v = Variants{}
		return nil
	case string:
		raw = []byte(s)
	case []byte:
		raw = s
	default:
		return fmt.Errorf("scan variants: unsupported type %T", src)
	}

	if len(raw) == 0 {
		*v = Variants{}
		return nil
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("scan variants: %w", err)
	}

	return nil
}

// Product belongs to exactly one store. "Deleting" a product only clears
// the active flag: orders hold snapshots, history stays intact.
type Product struct {
	ID           string    `db:"id"`
	StoreID      string    `db:"store_id"`
	Name         string    `db:"name"`
	Description  string    `db:"description"`
	Price        int64     `db:"price"`
	Stock        int       `db:"stock"`
	Origin       string    `db:"origin"`
	Variety      string    `db:"variety"`
	TastingNotes string    `db:"tasting_notes"`
	Preparation  string    `db:"preparation"`
	ImageURL     string    `db:"image_url"`
	Variants     Variants  `db:"variants"`
	Active       bool      `db:"active"`
	CreatedAt    time.Time `db:"created_at"`
}
