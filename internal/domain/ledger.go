package domain

import (
	"context"
	"time"
)

// VaultPool names one of the two per-event custody pools.
type VaultPool string

const (
	PoolParticipant VaultPool = "participant"
	PoolPending     VaultPool = "pending"
)

// PostingKind identifies the operation that produced a posting.
type PostingKind string

const (
	PostingCreated             PostingKind = "created"
	PostingJoined              PostingKind = "joined"
	PostingRequested           PostingKind = "requested"
	PostingRequestAccepted     PostingKind = "request_accepted"
	PostingRequestRejected     PostingKind = "request_rejected"
	PostingWithdrawn           PostingKind = "withdrawn"
	PostingAttended            PostingKind = "attended"
	PostingClaimed             PostingKind = "claimed"
	PostingRefunded            PostingKind = "refunded"
	PostingCancelled           PostingKind = "cancelled"
	PostingPendingStakeClaimed PostingKind = "pending_stake_claimed"
)

// Posting is one entry in an event's activity ledger. Fund-moving kinds carry
// the amount debited or credited and the pool it touched; attended, cancelled,
// and created carry a zero amount. The store persists postings in the same
// transaction as the state mutation that produced them, so the ledger is an
// exact, ordered record of every fund movement.
// swagger:model Posting
type Posting struct {
	ID        string      `json:"id"`
	EventID   string      `json:"event_id"`
	Kind      PostingKind `json:"kind"`
	Address   string      `json:"address"`
	Pool      VaultPool   `json:"pool,omitempty"`
	Amount    int64       `json:"amount"`
	CreatedAt time.Time   `json:"created_at"`
}

// PostingRepository reads the activity ledger.
type PostingRepository interface {
	ListByEventID(ctx context.Context, eventID string) ([]*Posting, error)
}
