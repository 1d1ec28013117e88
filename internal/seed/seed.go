package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
)

// defaultPassword is shared by all seeded demo accounts.
const defaultPassword = "Passw0rd!"

type userSeed struct {
	DisplayName string
	Email       string
	Role        string
	Phone       string
}

type productSeed struct {
	Name        string
	Description string
	PriceCents  int64
	Stock       int
	ImageURLs   []string
	Category    string
	MaxPerOrder *int
}

var users = []userSeed{
	{DisplayName: "Admin One", Email: "admin1@demo.com", Role: domain.RoleAdmin, Phone: "5511111111"},
	{DisplayName: "Alice UX", Email: "alice@demo.com", Role: domain.RoleCustomer, Phone: "5522222222"},
	{DisplayName: "Bob Dev", Email: "bob@demo.com", Role: domain.RoleCustomer, Phone: "5533333333"},
	{DisplayName: "Caro PM", Email: "caro@demo.com", Role: domain.RoleCustomer, Phone: "5544444444"},
	{DisplayName: "Diego DS", Email: "diego@demo.com", Role: domain.RoleCustomer, Phone: "5555555555"},
	{DisplayName: "Eva Data", Email: "eva@demo.com", Role: domain.RoleCustomer, Phone: "5566666666"},
	{DisplayName: "Fer Ops", Email: "fer@demo.com", Role: domain.RoleCustomer, Phone: "5577777777"},
	{DisplayName: "Gus QA", Email: "gus@demo.com", Role: domain.RoleCustomer, Phone: "5588888888"},
	{DisplayName: "Helena Mkt", Email: "helena@demo.com", Role: domain.RoleCustomer, Phone: "5599999999"},
	{DisplayName: "Ivan Biz", Email: "ivan@demo.com", Role: domain.RoleCustomer, Phone: "5500000000"},
}

var categories = []struct {
	Name        string
	Description string
}{
	{Name: "Apparel", Description: "Clothing and accessories"},
	{Name: "Drinkware", Description: "Mugs, bottles and cups"},
	{Name: "Collectibles", Description: "Limited runs and small batches"},
}

func intPtr(v int) *int { return &v }

var products = []productSeed{
	{
		Name:        "Demo T-Shirt",
		Description: "Soft cotton tee for demo purposes",
		PriceCents:  1999,
		Stock:       120,
		ImageURLs:   []string{"https://placehold.co/800x600.png"},
		Category:    "Apparel",
	},
	{
		Name:        "Demo Mug",
		Description: "Ceramic mug with demo logo",
		PriceCents:  1299,
		Stock:       80,
		ImageURLs:   []string{"https://placehold.co/800x600.png"},
		Category:    "Drinkware",
	},
	{
		Name:        "Limited Poster",
		Description: "Numbered print, two per order",
		PriceCents:  4999,
		Stock:       25,
		ImageURLs:   []string{"https://placehold.co/800x600.png"},
		Category:    "Collectibles",
		MaxPerOrder: intPtr(2),
	},
}

// Apply inserts basic seed data for manual testing. It is idempotent.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	for _, u := range users {
		if err := upsertUser(ctx, pool, u, string(hash)); err != nil {
			return fmt.Errorf("upsert user %s: %w", u.Email, err)
		}
	}

	categoryIDs := make(map[string]string, len(categories))
	for _, c := range categories {
		id, err := upsertCategory(ctx, pool, c.Name, c.Description)
		if err != nil {
			return fmt.Errorf("upsert category %s: %w", c.Name, err)
		}
		categoryIDs[c.Name] = id
	}

	for _, p := range products {
		if err := ensureProduct(ctx, pool, p, categoryIDs[p.Category]); err != nil {
			return fmt.Errorf("ensure product %s: %w", p.Name, err)
		}
	}

	return nil
}

func upsertUser(ctx context.Context, pool *pgxpool.Pool, u userSeed, passwordHash string) error {
	const q = `
INSERT INTO users (display_name, email, password_hash, role, phone)
VALUES ($1, lower($2), $3, $4, $5)
ON CONFLICT (email) DO UPDATE
SET display_name = EXCLUDED.display_name,
    role = EXCLUDED.role,
    phone = EXCLUDED.phone
`
	_, err := pool.Exec(ctx, q, u.DisplayName, u.Email, passwordHash, u.Role, u.Phone)
	return err
}

func upsertCategory(ctx context.Context, pool *pgxpool.Pool, name, description string) (string, error) {
	const q = `
INSERT INTO categories (name, description)
VALUES ($1, $2)
ON CONFLICT (lower(name)) DO UPDATE SET description = EXCLUDED.description
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, name, description).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func ensureProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed, categoryID string) error {
	var id string
	err := pool.QueryRow(ctx, `SELECT id::text FROM products WHERE lower(name) = lower($1)`, p.Name).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	_, err = pool.Exec(ctx, `
INSERT INTO products (name, description, price_cents, stock, image_urls, category_id, max_per_order)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, p.Name, p.Description, p.PriceCents, p.Stock, p.ImageURLs, categoryID, p.MaxPerOrder)
	return err
}
