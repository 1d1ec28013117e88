package cart

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

const selectCart = `
SELECT ct.id::text, ct.user_id::text, ct.anonymous_id, ct.created_at, ct.updated_at,
       u.display_name, u.email, u.role, COALESCE(u.phone, ''), u.created_at
FROM carts ct
LEFT JOIN users u ON u.id = ct.user_id
`

const selectItems = `
SELECT i.id::text, i.cart_id::text, i.product_id::text, i.quantity, i.created_at,
       p.name, p.description, p.price_cents, p.stock, p.image_urls, p.category_id::text, p.max_per_order, p.created_at
FROM cart_items i
JOIN products p ON p.id = i.product_id
WHERE i.cart_id = $1
ORDER BY i.created_at ASC, i.id ASC
`

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Cart, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text FROM carts ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]domain.Cart, 0, len(ids))
	for _, id := range ids {
		cart, err := fetchCart(ctx, r.pool, `WHERE ct.id = $1`, id)
		if err != nil {
			return nil, err
		}
		result = append(result, *cart)
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	return fetchCart(ctx, r.pool, `WHERE ct.id = $1`, id)
}

func (r *postgresRepo) GetByOwner(ctx context.Context, owner domain.CartOwner) (*domain.Cart, error) {
	if userID, ok := owner.UserID(); ok {
		return fetchCart(ctx, r.pool, `WHERE ct.user_id = $1`, userID)
	}
	anonymousID, _ := owner.AnonymousID()
	return fetchCart(ctx, r.pool, `WHERE ct.anonymous_id = $1`, anonymousID)
}

func (r *postgresRepo) Create(ctx context.Context, owner domain.CartOwner, items []ItemInput) (*domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	userID, anonymousID := ownerIDs(owner)
	var cartID string
	err = tx.QueryRow(ctx, `
INSERT INTO carts (user_id, anonymous_id)
VALUES ($1, $2)
RETURNING id::text
`, userID, anonymousID).Scan(&cartID)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}

	for _, item := range items {
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (cart_id, product_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
`, cartID, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return fetchCart(ctx, r.pool, `WHERE ct.id = $1`, cartID)
}

func (r *postgresRepo) Replace(ctx context.Context, id string, owner domain.CartOwner, items []ItemInput) (*domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	userID, anonymousID := ownerIDs(owner)
	cmd, err := tx.Exec(ctx, `
UPDATE carts
SET user_id = $2, anonymous_id = $3, updated_at = now()
WHERE id = $1
`, id, userID, anonymousID)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, id); err != nil {
		return nil, err
	}
	for _, item := range items {
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (cart_id, product_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
`, id, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return fetchCart(ctx, r.pool, `WHERE ct.id = $1`, id)
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) AddItem(ctx context.Context, owner domain.CartOwner, product domain.Product, quantity int) (*domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cartID, err := ensureCart(ctx, tx, owner)
	if err != nil {
		return nil, err
	}

	var lineID string
	var existing int
	err = tx.QueryRow(ctx, `
SELECT id::text, quantity
FROM cart_items
WHERE cart_id = $1 AND product_id = $2
FOR UPDATE
`, cartID, product.ID).Scan(&lineID, &existing)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if err == nil {
		next := domain.ClampQuantity(existing+quantity, product.MaxPerOrder)
		if _, err := tx.Exec(ctx, `UPDATE cart_items SET quantity = $2 WHERE id = $1`, lineID, next); err != nil {
			return nil, err
		}
	} else {
		next := domain.ClampQuantity(quantity, product.MaxPerOrder)
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (cart_id, product_id, quantity)
VALUES ($1, $2, $3)
`, cartID, product.ID, next); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE carts SET updated_at = now() WHERE id = $1`, cartID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return fetchCart(ctx, r.pool, `WHERE ct.id = $1`, cartID)
}

func (r *postgresRepo) AssignOwner(ctx context.Context, cartID string, owner domain.CartOwner) (*domain.Cart, error) {
	userID, anonymousID := ownerIDs(owner)
	cmd, err := r.pool.Exec(ctx, `
UPDATE carts
SET user_id = $2, anonymous_id = $3, updated_at = now()
WHERE id = $1
`, cartID, userID, anonymousID)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	return fetchCart(ctx, r.pool, `WHERE ct.id = $1`, cartID)
}

func (r *postgresRepo) MergeInto(ctx context.Context, dstCartID, srcCartID string, additions []ItemInput) (*domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	for _, item := range additions {
		// Existing destination lines win; a concurrent add for the same
		// product keeps the destination quantity.
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (cart_id, product_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (cart_id, product_id) DO NOTHING
`, dstCartID, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE carts SET updated_at = now() WHERE id = $1`, dstCartID); err != nil {
		return nil, err
	}

	cmd, err := tx.Exec(ctx, `DELETE FROM carts WHERE id = $1`, srcCartID)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return fetchCart(ctx, r.pool, `WHERE ct.id = $1`, dstCartID)
}

// ensureCart returns the owner's cart id, creating the cart when absent.
// The insert races through the partial unique indexes: a concurrent first
// add loses the insert but finds the winner's row on re-read.
func ensureCart(ctx context.Context, tx querier, owner domain.CartOwner) (string, error) {
	userID, anonymousID := ownerIDs(owner)
	var cartID string
	err := tx.QueryRow(ctx, `
INSERT INTO carts (user_id, anonymous_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
RETURNING id::text
`, userID, anonymousID).Scan(&cartID)
	if err == nil {
		return cartID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	var q string
	var arg string
	if id, ok := owner.UserID(); ok {
		q, arg = `SELECT id::text FROM carts WHERE user_id = $1`, id
	} else {
		id, _ := owner.AnonymousID()
		q, arg = `SELECT id::text FROM carts WHERE anonymous_id = $1`, id
	}
	if err := tx.QueryRow(ctx, q, arg).Scan(&cartID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrConflict
		}
		return "", err
	}
	return cartID, nil
}

func fetchCart(ctx context.Context, q querier, where string, args ...interface{}) (*domain.Cart, error) {
	var cart domain.Cart
	var userID, anonymousID *string
	var displayName, email, role, phone *string
	var userCreatedAt *time.Time
	err := q.QueryRow(ctx, selectCart+where, args...).Scan(
		&cart.ID,
		&userID,
		&anonymousID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
		&displayName,
		&email,
		&role,
		&phone,
		&userCreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	switch {
	case userID != nil:
		cart.Owner = domain.UserOwner(*userID)
		if displayName != nil {
			cart.User = &domain.User{
				ID:          *userID,
				DisplayName: *displayName,
				Email:       derefString(email),
				Role:        derefString(role),
				Phone:       derefString(phone),
			}
			if userCreatedAt != nil {
				cart.User.CreatedAt = *userCreatedAt
			}
		}
	case anonymousID != nil:
		cart.Owner = domain.GuestOwner(*anonymousID)
	}

	rows, err := q.Query(ctx, selectItems, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.CartItem
		var p domain.Product
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.Quantity,
			&item.CreatedAt,
			&p.Name,
			&p.Description,
			&p.PriceCents,
			&p.Stock,
			&p.ImageURLs,
			&p.CategoryID,
			&p.MaxPerOrder,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		p.ID = item.ProductID
		item.Product = &p
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}

func ownerIDs(owner domain.CartOwner) (userID, anonymousID *string) {
	if id, ok := owner.UserID(); ok {
		return &id, nil
	}
	if id, ok := owner.AnonymousID(); ok {
		return nil, &id
	}
	return nil, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrConflict
	}
	return err
}
