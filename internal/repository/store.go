package repository

import (
	"context"
	"fmt"

	"github.com/Marga-Ghale/org-portal-backend/internal/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Tx is the set of reads and writes that run inside one transaction. Lock*
// methods hold the row until the transaction ends, so concurrent
// read-modify-write sequences on the same event or member serialize instead
// of overwriting each other.
type Tx interface {
	// LockEvent returns nil, nil when the event does not exist.
	LockEvent(ctx context.Context, id int64) (*Event, error)
	SaveEventSets(ctx context.Context, event *Event) error
	// LockMemberByEmail and LockMemberByID return nil, nil when absent.
	LockMemberByEmail(ctx context.Context, email string) (*Member, error)
	LockMemberByID(ctx context.Context, id int64) (*Member, error)
	// FindMemberByEmail reads without taking a row lock.
	FindMemberByEmail(ctx context.Context, email string) (*Member, error)
	SaveMemberHours(ctx context.Context, member *Member, hoursType types.HoursType) error
	// FindUserByID and FindUserByEmail return nil, nil when absent.
	FindUserByID(ctx context.Context, id string) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
}

// Store runs fn in a transaction. The transaction commits when fn returns nil
// and rolls back otherwise.
type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type pgStore struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

func (s *pgStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(ctx, &pgTx{tx: tx}); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) LockEvent(ctx context.Context, id int64) (*Event, error) {
	return findEvent(ctx, t.tx, `SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, id)
}

func (t *pgTx) SaveEventSets(ctx context.Context, e *Event) error {
	query := `
		UPDATE events SET rsvped = $2, attending = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	if err := t.tx.QueryRow(ctx, query, e.ID, nonNil(e.Rsvped), nonNil(e.Attending)).Scan(&e.UpdatedAt); err != nil {
		return fmt.Errorf("update event sets: %w", err)
	}
	return nil
}

func (t *pgTx) LockMemberByEmail(ctx context.Context, email string) (*Member, error) {
	return findMember(ctx, t.tx, `SELECT `+memberColumns+` FROM members WHERE email = $1 FOR UPDATE`, email)
}

func (t *pgTx) LockMemberByID(ctx context.Context, id int64) (*Member, error) {
	return findMember(ctx, t.tx, `SELECT `+memberColumns+` FROM members WHERE id = $1 FOR UPDATE`, id)
}

func (t *pgTx) FindMemberByEmail(ctx context.Context, email string) (*Member, error) {
	return findMember(ctx, t.tx, `SELECT `+memberColumns+` FROM members WHERE email = $1`, email)
}

func (t *pgTx) SaveMemberHours(ctx context.Context, m *Member, h types.HoursType) error {
	var column string
	switch h {
	case types.HoursDevelopment, types.HoursProfessional, types.HoursService, types.HoursSocial:
		column = h.Column()
	default:
		return fmt.Errorf("unknown hours type %q", h)
	}

	query := `UPDATE members SET ` + column + ` = $2, updated_at = NOW() WHERE id = $1 RETURNING updated_at`
	if err := t.tx.QueryRow(ctx, query, m.ID, m.HoursFor(h)).Scan(&m.UpdatedAt); err != nil {
		return fmt.Errorf("update member hours: %w", err)
	}
	return nil
}

func (t *pgTx) FindUserByID(ctx context.Context, id string) (*User, error) {
	return findUser(ctx, t.tx, `SELECT id, email, created_at FROM users WHERE id = $1`, id)
}

func (t *pgTx) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	return findUser(ctx, t.tx, `SELECT id, email, created_at FROM users WHERE LOWER(email) = LOWER($1)`, email)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
