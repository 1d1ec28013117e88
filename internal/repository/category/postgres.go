package category

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

// Reads join the parent row so responses carry the resolved parent category.
const selectCategory = `
SELECT c.id::text, c.name, COALESCE(c.description, ''), COALESCE(c.image_url, ''), c.parent_id::text, c.created_at,
       p.id::text, p.name, COALESCE(p.description, ''), COALESCE(p.image_url, ''), p.parent_id::text, p.created_at
FROM categories c
LEFT JOIN categories p ON p.id = c.parent_id
`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, selectCategory+` ORDER BY c.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCategories(rows)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	c, err := scanCategory(r.pool.QueryRow(ctx, selectCategory+` WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	c, err := scanCategory(r.pool.QueryRow(ctx, selectCategory+` WHERE lower(c.name) = lower($1)`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
INSERT INTO categories (name, description, image_url, parent_id)
VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4)
RETURNING id::text
`
	var id string
	if err := r.pool.QueryRow(ctx, q, c.Name, c.Description, c.ImageURL, c.ParentID).Scan(&id); err != nil {
		return nil, mapUniqueViolation(err)
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) Update(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
UPDATE categories
SET name = $2, description = NULLIF($3, ''), image_url = NULLIF($4, ''), parent_id = $5
WHERE id = $1
RETURNING id::text
`
	var id string
	if err := r.pool.QueryRow(ctx, q, c.ID, c.Name, c.Description, c.ImageURL, c.ParentID).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapUniqueViolation(err)
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Search(ctx context.Context, in SearchInput) ([]domain.Category, int, error) {
	where := ` WHERE true`
	var args []interface{}
	if in.Query != "" {
		args = append(args, "%"+in.Query+"%")
		where += fmt.Sprintf(` AND (c.name ILIKE $%d OR c.description ILIKE $%d)`, len(args), len(args))
	}
	if in.ParentID != "" {
		args = append(args, in.ParentID)
		where += fmt.Sprintf(` AND c.parent_id = $%d`, len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM categories c`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := "c.name"
	if in.Sort == "createdAt" {
		order = "c.created_at"
	}
	if in.Descending {
		order += " DESC"
	}
	args = append(args, in.Limit, in.Offset)
	q := fmt.Sprintf(selectCategory+where+` ORDER BY %s LIMIT $%d OFFSET $%d`, order, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result, err := scanCategories(rows)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	var parentID, parentName, parentDesc, parentImage *string
	var parentParentID *string
	var parentCreatedAt *time.Time
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.ParentID, &c.CreatedAt,
		&parentID, &parentName, &parentDesc, &parentImage, &parentParentID, &parentCreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if parentID != nil {
		c.Parent = &domain.Category{
			ID:          *parentID,
			Name:        derefString(parentName),
			Description: derefString(parentDesc),
			ImageURL:    derefString(parentImage),
			ParentID:    parentParentID,
		}
		if parentCreatedAt != nil {
			c.Parent.CreatedAt = *parentCreatedAt
		}
	}
	return &c, nil
}

func scanCategories(rows pgx.Rows) ([]domain.Category, error) {
	var result []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
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
