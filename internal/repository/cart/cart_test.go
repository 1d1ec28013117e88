package cart

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
	"storefront/internal/migrate"
)

func TestPostgres_AddItemCreatesCartAndClamps(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	product := seedProduct(ctx, t, pool, "Limited Poster", 2)
	repo := NewPostgres(pool)
	owner := domain.GuestOwner("anon-add")

	cart, err := repo.AddItem(ctx, owner, product, 1)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 1 {
		t.Fatalf("unexpected cart %+v", cart)
	}

	// Folding past the per-order limit saturates at the limit.
	cart, err = repo.AddItem(ctx, owner, product, 5)
	if err != nil {
		t.Fatalf("AddItem again: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("expected clamped quantity 2, got %+v", cart.Items)
	}

	fetched, err := repo.GetByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("GetByOwner: %v", err)
	}
	if fetched.ID != cart.ID {
		t.Fatalf("expected one cart per owner, got %s and %s", fetched.ID, cart.ID)
	}
}

func TestPostgres_MergeIntoConsumesSource(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	shared := seedProduct(ctx, t, pool, "Demo Mug", 0)
	extra := seedProduct(ctx, t, pool, "Demo T-Shirt", 0)
	userID := seedUser(ctx, t, pool, "merge@demo.com")

	repo := NewPostgres(pool)
	userCart, err := repo.AddItem(ctx, domain.UserOwner(userID), shared, 3)
	if err != nil {
		t.Fatalf("seed user cart: %v", err)
	}
	guestCart, err := repo.AddItem(ctx, domain.GuestOwner("anon-merge"), shared, 5)
	if err != nil {
		t.Fatalf("seed guest cart: %v", err)
	}

	merged, err := repo.MergeInto(ctx, userCart.ID, guestCart.ID, []ItemInput{
		{ProductID: shared.ID, Quantity: 5},
		{ProductID: extra.ID, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("MergeInto: %v", err)
	}
	quantities := map[string]int{}
	for _, item := range merged.Items {
		quantities[item.ProductID] = item.Quantity
	}
	// The destination line wins over the source's quantity.
	if quantities[shared.ID] != 3 || quantities[extra.ID] != 1 {
		t.Fatalf("unexpected merged quantities %v", quantities)
	}

	if _, err := repo.GetByID(ctx, guestCart.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected source cart gone, got %v", err)
	}
	if _, err := repo.MergeInto(ctx, userCart.ID, guestCart.ID, nil); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected second merge to fail, got %v", err)
	}
}

func TestPostgres_CreateRejectsSecondCartPerOwner(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool)
	owner := domain.GuestOwner("anon-dup")
	if _, err := repo.Create(ctx, owner, nil); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Create(ctx, owner, nil); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE cart_items, carts, tokens, products, categories, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func seedProduct(ctx context.Context, t *testing.T, pool *pgxpool.Pool, name string, maxPerOrder int) domain.Product {
	t.Helper()
	var categoryID string
	err := pool.QueryRow(ctx, `
INSERT INTO categories (name) VALUES ($1 || ' category')
ON CONFLICT (lower(name)) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text
`, name).Scan(&categoryID)
	if err != nil {
		t.Fatalf("insert category: %v", err)
	}

	var limit *int
	if maxPerOrder > 0 {
		limit = &maxPerOrder
	}
	p := domain.Product{Name: name, Description: "test product", PriceCents: 1000, Stock: 50, CategoryID: categoryID, MaxPerOrder: limit}
	err = pool.QueryRow(ctx, `
INSERT INTO products (name, description, price_cents, stock, category_id, max_per_order)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text
`, p.Name, p.Description, p.PriceCents, p.Stock, p.CategoryID, p.MaxPerOrder).Scan(&p.ID)
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return p
}

func seedUser(ctx context.Context, t *testing.T, pool *pgxpool.Pool, email string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx, `
INSERT INTO users (display_name, email, password_hash)
VALUES ('Test User', $1, 'x')
RETURNING id::text
`, email).Scan(&id)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}
