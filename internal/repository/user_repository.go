package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository reads the identity provider's account directory.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindEmails(ctx context.Context, ids []string) ([]string, error)
	Upsert(ctx context.Context, user *User) error
}

type pgUserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &pgUserRepository{pool: pool}
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return findUser(ctx, r.pool, `SELECT id, email, created_at FROM users WHERE id = $1`, id)
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return findUser(ctx, r.pool, `SELECT id, email, created_at FROM users WHERE LOWER(email) = LOWER($1)`, email)
}

func (r *pgUserRepository) FindEmails(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT email FROM users WHERE id = ANY($1) ORDER BY email`, ids)
	if err != nil {
		return nil, fmt.Errorf("select user emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

func (r *pgUserRepository) Upsert(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (id, email)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email
		RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query, u.ID, u.Email).Scan(&u.CreatedAt); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// findUser returns nil, nil when no row matches.
func findUser(ctx context.Context, q querier, query string, args ...any) (*User, error) {
	u := &User{}
	err := q.QueryRow(ctx, query, args...).Scan(&u.ID, &u.Email, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}
