package postgres

import (
	"context"
	"database/sql"

	"showup/internal/domain"
)

type postingRepository struct {
	DB *sql.DB
}

// NewPostingRepository reads the activity ledger written by the event store.
func NewPostingRepository(db *sql.DB) domain.PostingRepository {
	return &postingRepository{DB: db}
}

func (r *postingRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Posting, error) {
	query := `
		SELECT id, event_id, kind, address, pool, amount, created_at
		FROM postings
		WHERE event_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	postings := make([]*domain.Posting, 0)
	for rows.Next() {
		p := &domain.Posting{}
		if err := rows.Scan(&p.ID, &p.EventID, &p.Kind, &p.Address, &p.Pool, &p.Amount, &p.CreatedAt); err != nil {
			return nil, err
		}
		postings = append(postings, p)
	}
	return postings, rows.Err()
}
