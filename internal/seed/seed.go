// AngelaMos | 2026
// seed.go

package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/snavia68/coffeademo/internal/catalog"
	"github.com/snavia68/coffeademo/internal/identity"
	"github.com/snavia68/coffeademo/internal/order"
)

// Run creates the schema and loads the demo dataset. The database lives
// in memory, so this runs on every boot; the data check keeps a warm
// restart from doubling rows when a durable DSN is configured instead.
func Run(ctx context.Context, db *sqlx.DB, logger *slog.Logger) error {
	if err := createSchema(ctx, db); err != nil {
		return err
	}

	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return fmt.Errorf("check seed state: %w", err)
	}
	if count > 0 {
		logger.InfoContext(ctx, "seed skipped, data present", "users", count)
		return nil
	}

	if err := seedUsers(ctx, db); err != nil {
		return err
	}
	if err := seedStores(ctx, db); err != nil {
		return err
	}
	if err := seedProducts(ctx, db); err != nil {
		return err
	}
	if err := seedOrders(ctx, db); err != nil {
		return err
	}

	logger.InfoContext(ctx, "demo dataset loaded",
		"users", 6,
		"stores", 3,
		"products", 5,
		"orders", 2,
	)

	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		name TEXT NOT NULL,
		password TEXT NOT NULL,
		role TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS stores (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		business_name TEXT NOT NULL,
		legal_name TEXT NOT NULL,
		tax_id TEXT NOT NULL,
		bank_account TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		store_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		price INTEGER NOT NULL,
		stock INTEGER NOT NULL,
		origin TEXT NOT NULL,
		variety TEXT NOT NULL,
		tasting_notes TEXT NOT NULL,
		preparation TEXT NOT NULL,
		image_url TEXT NOT NULL,
		variants TEXT NOT NULL,
		active BOOLEAN NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		order_number TEXT NOT NULL,
		buyer_id TEXT NOT NULL,
		buyer_name TEXT NOT NULL,
		buyer_email TEXT NOT NULL,
		store_id TEXT NOT NULL,
		store_name TEXT NOT NULL,
		status TEXT NOT NULL,
		payment_status TEXT NOT NULL,
		subtotal INTEGER NOT NULL,
		tax INTEGER NOT NULL,
		commission INTEGER NOT NULL,
		total INTEGER NOT NULL,
		shipping_address TEXT NOT NULL,
		payment_ref TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		name TEXT NOT NULL,
		price INTEGER NOT NULL,
		image_url TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		selected_grind TEXT NOT NULL,
		selected_size TEXT NOT NULL
	)`,
}

func createSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

func seedUsers(ctx context.Context, db *sqlx.DB) error {
	users := []identity.User{
		{ID: "u1", Email: "admin@coffea.com", Name: "Admin Coffea", Password: "admin123", Role: identity.RoleAdmin},
		{ID: "u2", Email: "juan@example.com", Name: "Juan Pérez", Password: "buyer123", Role: identity.RoleBuyer},
		{ID: "u3", Email: "maria@example.com", Name: "María González", Password: "buyer123", Role: identity.RoleBuyer},
		{ID: "u4", Email: "cafedelhuila@example.com", Name: "Carlos Rodríguez", Password: "seller123", Role: identity.RoleSeller},
		{ID: "u5", Email: "tostadoraandina@example.com", Name: "Ana Martínez", Password: "seller123", Role: identity.RoleSeller},
		{ID: "u6", Email: "cafeantioquia@example.com", Name: "Pedro López", Password: "seller123", Role: identity.RoleSeller},
	}

	query := `
		INSERT INTO users (id, email, name, password, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	for _, u := range users {
		_, err := db.ExecContext(ctx, query,
			u.ID, u.Email, u.Name, u.Password, u.Role, now,
		)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}

	return nil
}

func seedStores(ctx context.Context, db *sqlx.DB) error {
	stores := []catalog.Store{
		{ID: "s1", UserID: "u4", BusinessName: "Café del Huila", LegalName: "Café del Huila S.A.S.", TaxID: "900123456-1", BankAccount: "1234567890", Status: catalog.StoreStatusApproved},
		{ID: "s2", UserID: "u5", BusinessName: "Tostadora Andina", LegalName: "Tostadora Andina Ltda.", TaxID: "900234567-2", BankAccount: "2345678901", Status: catalog.StoreStatusApproved},
		{ID: "s3", UserID: "u6", BusinessName: "Café de Antioquia", LegalName: "Café de Antioquia S.A.S.", TaxID: "900345678-3", BankAccount: "3456789012", Status: catalog.StoreStatusPending},
	}

	query := `
		INSERT INTO stores (id, user_id, business_name, legal_name, tax_id, bank_account, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	for _, s := range stores {
		_, err := db.ExecContext(ctx, query,
			s.ID, s.UserID, s.BusinessName, s.LegalName,
			s.TaxID, s.BankAccount, s.Status, now,
		)
		if err != nil {
			return fmt.Errorf("seed store %s: %w", s.BusinessName, err)
		}
	}

	return nil
}

func seedProducts(ctx context.Context, db *sqlx.DB) error {
	fullGrind := []string{"Grano entero", "Molido"}
	threeSizes := []string{"250g", "500g", "1kg"}
	twoSizes := []string{"250g", "500g"}

	products := []catalog.Product{
		{
			ID: "p1", StoreID: "s1", Name: "Café Geisha - Huila",
			Description: "Café de variedad Geisha cultivado en las montañas del Huila. Notas florales y cítricas con cuerpo medio.",
			Price:       45000, Stock: 50, Origin: "Huila", Variety: "Geisha",
			TastingNotes: "Flores, cítricos, miel", Preparation: "Pour over, French press",
			ImageURL: "https://images.unsplash.com/photo-1447933601403-0c6688de566e?w=500",
			Variants: catalog.Variants{Grind: fullGrind, Size: threeSizes},
			Active:   true,
		},
		{
			ID: "p2", StoreID: "s1", Name: "Caturra Premium",
			Description: "Caturra de altura con proceso lavado. Perfecto balance entre acidez y dulzor.",
			Price:       32000, Stock: 80, Origin: "Huila", Variety: "Caturra",
			TastingNotes: "Chocolate, caramelo, nuez", Preparation: "Espresso, Aeropress",
			ImageURL: "https://images.unsplash.com/photo-1495474472287-4d71bcdd2085?w=500",
			Variants: catalog.Variants{Grind: fullGrind, Size: twoSizes},
			Active:   true,
		},
		{
			ID: "p3", StoreID: "s2", Name: "Blend Andino",
			Description: "Mezcla exclusiva de cafés colombianos con tostión media. Ideal para todo tipo de preparaciones.",
			Price:       28000, Stock: 100, Origin: "Varias regiones", Variety: "Blend",
			TastingNotes: "Chocolate, caramelo, almendras", Preparation: "Cualquiera",
			ImageURL: "https://images.unsplash.com/photo-1511920170033-f8396924c348?w=500",
			Variants: catalog.Variants{Grind: fullGrind, Size: threeSizes},
			Active:   true,
		},
		{
			ID: "p4", StoreID: "s2", Name: "Typica Orgánico",
			Description: "Café Typica 100% orgánico certificado. Cultivado sin pesticidas ni fertilizantes químicos.",
			Price:       38000, Stock: 60, Origin: "Nariño", Variety: "Typica",
			TastingNotes: "Frutas rojas, panela, limón", Preparation: "V60, Chemex",
			ImageURL: "https://images.unsplash.com/photo-1514432324607-a09d9b4aefdd?w=500",
			Variants: catalog.Variants{Grind: fullGrind, Size: twoSizes},
			Active:   true,
		},
		{
			ID: "p5", StoreID: "s2", Name: "Bourbon Especial",
			Description: "Bourbon rojo de proceso honey. Dulzor intenso y cuerpo cremoso.",
			Price:       42000, Stock: 45, Origin: "Tolima", Variety: "Bourbon",
			TastingNotes: "Miel, chocolate, uva", Preparation: "Espresso, Moka",
			ImageURL: "https://images.unsplash.com/photo-1517487881594-2787fef5ebf7?w=500",
			Variants: catalog.Variants{Grind: fullGrind, Size: threeSizes},
			Active:   true,
		},
	}

	query := `
		INSERT INTO products (id, store_id, name, description, price, stock, origin, variety, tasting_notes, preparation, image_url, variants, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	for _, p := range products {
		_, err := db.ExecContext(ctx, query,
			p.ID, p.StoreID, p.Name, p.Description,
			p.Price, p.Stock, p.Origin, p.Variety,
			p.TastingNotes, p.Preparation, p.ImageURL,
			p.Variants, p.Active, now,
		)
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.Name, err)
		}
	}

	return nil
}

func seedOrders(ctx context.Context, db *sqlx.DB) error {
	orders := []order.Order{
		{
			ID: "o1", OrderNumber: "ORD-001",
			BuyerID: "u2", BuyerName: "Juan Pérez", BuyerEmail: "juan@example.com",
			StoreID: "s1", StoreName: "Café del Huila",
			Status: order.StatusDelivered, PaymentStatus: order.PaymentCompleted,
			Subtotal: 90000, Tax: 17100, Commission: 1350, Total: 107100,
			ShippingAddress: order.ShippingAddress{
				FullName: "Juan Pérez",
				Address:  "Calle 123 #45-67",
				City:     "Bogotá",
				Phone:    "3001234567",
			},
			PaymentRef: "TXN-DEMO-001",
			CreatedAt:  time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
			UpdatedAt:  time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
			Items: []order.Item{
				{ID: "oi1", OrderID: "o1", ProductID: "p1", Name: "Café Geisha - Huila", Price: 45000, ImageURL: "https://images.unsplash.com/photo-1447933601403-0c6688de566e?w=500", Quantity: 2, SelectedGrind: "Grano entero", SelectedSize: "500g"},
			},
		},
		{
			ID: "o2", OrderNumber: "ORD-002",
			BuyerID: "u3", BuyerName: "María González", BuyerEmail: "maria@example.com",
			StoreID: "s2", StoreName: "Tostadora Andina",
			Status: order.StatusPacked, PaymentStatus: order.PaymentCompleted,
			Subtotal: 56000, Tax: 10640, Commission: 840, Total: 66640,
			ShippingAddress: order.ShippingAddress{
				FullName: "María González",
				Address:  "Carrera 7 #32-16",
				City:     "Medellín",
				Phone:    "3109876543",
			},
			PaymentRef: "TXN-DEMO-002",
			CreatedAt:  time.Date(2026, 2, 1, 14, 0, 0, 0, time.UTC),
			UpdatedAt:  time.Date(2026, 2, 1, 14, 0, 0, 0, time.UTC),
			Items: []order.Item{
				{ID: "oi2", OrderID: "o2", ProductID: "p3", Name: "Blend Andino", Price: 28000, ImageURL: "https://images.unsplash.com/photo-1511920170033-f8396924c348?w=500", Quantity: 2, SelectedGrind: "Molido", SelectedSize: "500g"},
			},
		},
	}

	orderQuery := `
		INSERT INTO orders (id, order_number, buyer_id, buyer_name, buyer_email, store_id, store_name, status, payment_status, subtotal, tax, commission, total, shipping_address, payment_ref, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, name, price, image_url, quantity, selected_grind, selected_size)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for _, o := range orders {
		_, err := db.ExecContext(ctx, orderQuery,
			o.ID, o.OrderNumber, o.BuyerID, o.BuyerName, o.BuyerEmail,
			o.StoreID, o.StoreName, o.Status, o.PaymentStatus,
			o.Subtotal, o.Tax, o.Commission, o.Total,
			o.ShippingAddress, o.PaymentRef, o.CreatedAt, o.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("seed order %s: %w", o.OrderNumber, err)
		}

		for _, item := range o.Items {
			_, err := db.ExecContext(ctx, itemQuery,
				item.ID, item.OrderID, item.ProductID, item.Name,
				item.Price, item.ImageURL, item.Quantity,
				item.SelectedGrind, item.SelectedSize,
			)
			if err != nil {
				return fmt.Errorf("seed order item %s: %w", item.ID, err)
			}
		}
	}

	return nil
}
