package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Marga-Ghale/org-portal-backend/internal/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type MemberRepository interface {
	FindByID(ctx context.Context, id int64) (*Member, error)
	FindByEmail(ctx context.Context, email string) (*Member, error)
	List(ctx context.Context) ([]*Member, error)
	ListEmails(ctx context.Context) ([]string, error)
	// Upsert inserts the member or updates name and rank of the existing row
	// with the same email. Hour counters are never touched.
	Upsert(ctx context.Context, member *Member) error
}

const memberColumns = `id, email, name, rank, development_hours, professional_hours,
	service_hours, social_hours, created_at, updated_at`

type pgMemberRepository struct {
	pool *pgxpool.Pool
}

func NewMemberRepository(pool *pgxpool.Pool) MemberRepository {
	return &pgMemberRepository{pool: pool}
}

func (r *pgMemberRepository) FindByID(ctx context.Context, id int64) (*Member, error) {
	return findMember(ctx, r.pool, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id)
}

func (r *pgMemberRepository) FindByEmail(ctx context.Context, email string) (*Member, error) {
	return findMember(ctx, r.pool, `SELECT `+memberColumns+` FROM members WHERE email = $1`, email)
}

func (r *pgMemberRepository) List(ctx context.Context) ([]*Member, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+memberColumns+` FROM members ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *pgMemberRepository) ListEmails(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT email FROM members WHERE rank = $1 ORDER BY email`, types.RankActive)
	if err != nil {
		return nil, fmt.Errorf("list member emails: %w", err)
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

func (r *pgMemberRepository) Upsert(ctx context.Context, m *Member) error {
	query := `
		INSERT INTO members (email, name, rank)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, rank = EXCLUDED.rank, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query, m.Email, m.Name, m.Rank).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return fmt.Errorf("upsert member: %w", err)
	}
	return nil
}

func scanMember(row pgx.Row) (*Member, error) {
	m := &Member{}
	var dev, prof, svc, social decimal.NullDecimal
	err := row.Scan(&m.ID, &m.Email, &m.Name, &m.Rank, &dev, &prof, &svc, &social, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	// NULL counters read as zero
	m.SetHours(types.HoursDevelopment, dev.Decimal)
	m.SetHours(types.HoursProfessional, prof.Decimal)
	m.SetHours(types.HoursService, svc.Decimal)
	m.SetHours(types.HoursSocial, social.Decimal)
	return m, nil
}

// findMember returns nil, nil when no row matches.
func findMember(ctx context.Context, q querier, query string, args ...any) (*Member, error) {
	m, err := scanMember(q.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select member: %w", err)
	}
	return m, nil
}
