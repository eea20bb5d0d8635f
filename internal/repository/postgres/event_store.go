package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"showup/internal/domain"
)

type eventStore struct {
	DB *sql.DB
}

// NewEventStore returns the Postgres-backed atomic-apply substrate for
// events. Every mutation goes through Apply, which serializes per event id
// with a row lock and persists the aggregate together with its fund postings
// in one transaction.
func NewEventStore(db *sql.DB) domain.EventStore {
	return &eventStore{DB: db}
}

const eventColumns = `
	id, organizer, name, description, location,
	registration_start_time, registration_end_time, start_time, end_time,
	stake_amount, capacity, must_request_to_join,
	participants, pending_requests, attendees, claimed,
	participant_vault, pending_vault, cancelled, version, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(
		&e.ID, &e.Organizer, &e.Name, &e.Description, &e.Location,
		&e.RegistrationStart, &e.RegistrationEnd, &e.StartTime, &e.EndTime,
		&e.StakeAmount, &e.Capacity, &e.MustRequestToJoin,
		pq.Array(&e.Participants), pq.Array(&e.PendingRequests),
		pq.Array(&e.Attendees), pq.Array(&e.Claimed),
		&e.ParticipantVault, &e.PendingVault, &e.Cancelled, &e.Version,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if e.Participants == nil {
		e.Participants = []string{}
	}
	if e.PendingRequests == nil {
		e.PendingRequests = []string{}
	}
	if e.Attendees == nil {
		e.Attendees = []string{}
	}
	if e.Claimed == nil {
		e.Claimed = []string{}
	}
	return e, nil
}

func (r *eventStore) Create(ctx context.Context, e *domain.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`
	_, err := r.DB.ExecContext(ctx, query,
		e.ID, e.Organizer, e.Name, e.Description, e.Location,
		e.RegistrationStart, e.RegistrationEnd, e.StartTime, e.EndTime,
		e.StakeAmount, e.Capacity, e.MustRequestToJoin,
		pq.Array(e.Participants), pq.Array(e.PendingRequests),
		pq.Array(e.Attendees), pq.Array(e.Claimed),
		e.ParticipantVault, e.PendingVault, e.Cancelled, e.Version,
		e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func (r *eventStore) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return scanEvent(r.DB.QueryRowContext(ctx, query, id))
}

func (r *eventStore) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `
		SELECT ` + eventColumns + `
		FROM events
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	events, err := collectEvents(rows)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventStore) ListByOrganizer(ctx context.Context, organizer string) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE organizer = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, organizer)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (r *eventStore) ListByAddress(ctx context.Context, addr string) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE $1 = ANY(participants) OR $1 = ANY(pending_requests) OR $1 = ANY(claimed)
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, addr)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func collectEvents(rows *sql.Rows) ([]*domain.Event, error) {
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Apply locks the event row, runs fn on the loaded aggregate, and persists
// the mutated aggregate plus fn's postings, all in one transaction. A typed
// error from fn rolls everything back and passes through unwrapped so the
// delivery layer can map it. The version guard turns a lost update into
// domain.ErrConflict; under FOR UPDATE it should never fire, it is a
// tripwire for misconfigured isolation.
func (r *eventStore) Apply(ctx context.Context, id string, fn domain.ApplyFunc) (*domain.Event, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`
	e, err := scanEvent(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	prevVersion := e.Version

	postings, err := fn(e)
	if err != nil {
		return nil, err
	}
	if e.ParticipantVault < 0 || e.PendingVault < 0 {
		return nil, fmt.Errorf("event %s: vault balance went negative", id)
	}

	now := time.Now()
	res, err := tx.ExecContext(ctx, `
		UPDATE events
		SET participants = $1, pending_requests = $2, attendees = $3, claimed = $4,
		    participant_vault = $5, pending_vault = $6, cancelled = $7,
		    version = version + 1, updated_at = $8
		WHERE id = $9 AND version = $10
	`,
		pq.Array(e.Participants), pq.Array(e.PendingRequests),
		pq.Array(e.Attendees), pq.Array(e.Claimed),
		e.ParticipantVault, e.PendingVault, e.Cancelled,
		now, id, prevVersion,
	)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, domain.ErrConflict
	}

	for _, p := range postings {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO postings (id, event_id, kind, address, pool, amount, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, uuid.NewString(), p.EventID, p.Kind, p.Address, p.Pool, p.Amount, now); err != nil {
			return nil, fmt.Errorf("insert posting: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	e.Version = prevVersion + 1
	e.UpdatedAt = now
	return e, nil
}
