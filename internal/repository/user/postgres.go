package user

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

const userColumns = `id::text, display_name, email, password_hash, role, COALESCE(phone, ''), created_at`

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

func (r *postgresRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.DisplayName, &u.Email, &u.PasswordHash, &u.Role, &u.Phone, &u.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE email = lower($1)`, email)
}

func (r *postgresRepo) Upsert(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (display_name, email, password_hash, role, phone)
VALUES ($1, lower($2), $3, $4, NULLIF($5, ''))
ON CONFLICT (email) DO UPDATE
SET display_name = EXCLUDED.display_name,
    role = EXCLUDED.role,
    phone = EXCLUDED.phone
RETURNING ` + userColumns
	var out domain.User
	err := r.pool.QueryRow(ctx, q, u.DisplayName, u.Email, u.PasswordHash, u.Role, u.Phone).
		Scan(&out.ID, &out.DisplayName, &out.Email, &out.PasswordHash, &out.Role, &out.Phone, &out.CreatedAt)
	if err != nil {
		r.logger.Printf("user repo: upsert email=%s error=%v", u.Email, err)
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) get(ctx context.Context, q string, arg interface{}) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, q, arg).
		Scan(&u.ID, &u.DisplayName, &u.Email, &u.PasswordHash, &u.Role, &u.Phone, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
