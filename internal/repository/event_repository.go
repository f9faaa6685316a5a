package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	FindByID(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	FindByDate(ctx context.Context, date time.Time) ([]*Event, error)
	Delete(ctx context.Context, id int64) error
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const eventColumns = `id, name, description, location, event_date, event_time, latitude, longitude,
	event_hours, event_hours_type, rsvped, attending, created_by, created_at, updated_at`

type pgEventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &pgEventRepository{pool: pool}
}

func (r *pgEventRepository) Create(ctx context.Context, e *Event) error {
	query := `
		INSERT INTO events (name, description, location, event_date, event_time, latitude, longitude,
			event_hours, event_hours_type, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, rsvped, attending, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		e.Name, e.Description, e.Location, e.Date, e.Time, e.Latitude, e.Longitude,
		e.Hours, e.HoursType, e.CreatedBy,
	).Scan(&e.ID, &e.Rsvped, &e.Attending, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *pgEventRepository) FindByID(ctx context.Context, id int64) (*Event, error) {
	return findEvent(ctx, r.pool, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
}

func (r *pgEventRepository) List(ctx context.Context) ([]*Event, error) {
	return queryEvents(ctx, r.pool, `SELECT `+eventColumns+` FROM events ORDER BY event_date DESC, id DESC`)
}

func (r *pgEventRepository) FindByDate(ctx context.Context, date time.Time) ([]*Event, error) {
	return queryEvents(ctx, r.pool, `SELECT `+eventColumns+` FROM events WHERE event_date = $1::date ORDER BY id`, date)
}

func (r *pgEventRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

func scanEvent(row pgx.Row) (*Event, error) {
	e := &Event{}
	err := row.Scan(
		&e.ID, &e.Name, &e.Description, &e.Location, &e.Date, &e.Time, &e.Latitude, &e.Longitude,
		&e.Hours, &e.HoursType, &e.Rsvped, &e.Attending, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// findEvent returns nil, nil when no row matches.
func findEvent(ctx context.Context, q querier, query string, args ...any) (*Event, error) {
	e, err := scanEvent(q.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select event: %w", err)
	}
	return e, nil
}

func queryEvents(ctx context.Context, q querier, query string, args ...any) ([]*Event, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
