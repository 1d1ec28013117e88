package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

const productColumns = `id::text, name, description, price_cents, stock, image_urls, category_id::text, max_per_order, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context, categoryID string) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products`
	var args []interface{}
	if categoryID != "" {
		q += ` WHERE category_id = $1`
		args = append(args, categoryID)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("product repo: list category_id=%q error=%v", categoryID, err)
		return nil, err
	}
	defer rows.Close()

	result, err := scanProducts(rows)
	if err != nil {
		r.logger.Printf("product repo: list rows category_id=%q error=%v", categoryID, err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("product repo: get id=%s not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, description, price_cents, stock, image_urls, category_id, max_per_order)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + productColumns
	created, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.Name, p.Description, p.PriceCents, p.Stock, p.ImageURLs, p.CategoryID, p.MaxPerOrder))
	if err != nil {
		r.logger.Printf("product repo: create name=%q error=%v", p.Name, err)
		return nil, err
	}
	r.logger.Printf("product repo: created id=%s name=%q", created.ID, created.Name)
	return created, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
UPDATE products
SET name = $2, description = $3, price_cents = $4, stock = $5, image_urls = $6, category_id = $7, max_per_order = $8
WHERE id = $1
RETURNING ` + productColumns
	updated, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.ID, p.Name, p.Description, p.PriceCents, p.Stock, p.ImageURLs, p.CategoryID, p.MaxPerOrder))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: update id=%s error=%v", p.ID, err)
		return nil, err
	}
	return updated, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("product repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Search(ctx context.Context, in SearchInput) ([]domain.Product, int, error) {
	where := ` WHERE true`
	var args []interface{}
	if in.Query != "" {
		args = append(args, "%"+in.Query+"%")
		where += fmt.Sprintf(` AND (name ILIKE $%d OR description ILIKE $%d)`, len(args), len(args))
	}
	if in.CategoryID != "" {
		args = append(args, in.CategoryID)
		where += fmt.Sprintf(` AND category_id = $%d`, len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := sortColumn(in.Sort)
	if in.Descending {
		order += " DESC"
	}
	args = append(args, in.Limit, in.Offset)
	q := fmt.Sprintf(`SELECT `+productColumns+` FROM products`+where+` ORDER BY %s LIMIT $%d OFFSET $%d`,
		order, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("product repo: search q=%q error=%v", in.Query, err)
		return nil, 0, err
	}
	defer rows.Close()

	result, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// sortColumn whitelists sortable columns; anything else falls back to name.
func sortColumn(sort string) string {
	switch sort {
	case "price":
		return "price_cents"
	case "stock":
		return "stock"
	case "createdAt":
		return "created_at"
	default:
		return "name"
	}
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock, &p.ImageURLs, &p.CategoryID, &p.MaxPerOrder, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
