package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoleRepository interface {
	// FindRole returns "" when the email has no role record.
	FindRole(ctx context.Context, email string) (string, error)
	SetRole(ctx context.Context, email, role string) error
}

type pgRoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &pgRoleRepository{pool: pool}
}

func (r *pgRoleRepository) FindRole(ctx context.Context, email string) (string, error) {
	var role string
	err := r.pool.QueryRow(ctx, `SELECT role FROM roles WHERE email = $1`, email).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("select role: %w", err)
	}
	return role, nil
}

func (r *pgRoleRepository) SetRole(ctx context.Context, email, role string) error {
	query := `
		INSERT INTO roles (email, role) VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET role = EXCLUDED.role
	`
	if _, err := r.pool.Exec(ctx, query, email, role); err != nil {
		return fmt.Errorf("upsert role: %w", err)
	}
	return nil
}
