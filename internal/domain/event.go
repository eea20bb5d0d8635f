package domain

import (
	"context"
	"fmt"
	"time"
)

// EventState is the lifecycle phase of an event, derived from its timestamps
// and the cancelled flag. Ended and Cancelled are terminal.
type EventState string

const (
	StateRegistrationNotOpen EventState = "registration_not_open"
	StateRegistrationOpen    EventState = "registration_open"
	StateRegistrationClosed  EventState = "registration_closed"
	StateOngoing             EventState = "ongoing"
	StateEnded               EventState = "ended"
	StateCancelled           EventState = "cancelled"
)

// Event is the stake-settlement aggregate. Participants lock StakeAmount to
// join; attendees recover their stake plus an equal share of no-show
// forfeitures after the event ends; cancelled events refund everyone in full.
//
// Two vaults track custody separately: ParticipantVault holds confirmed
// stakes, PendingVault holds stakes escrowed behind a join request. Outside
// the atomic execution of a single operation,
// ParticipantVault == StakeAmount × len(Participants) (until settlement
// starts) and PendingVault == StakeAmount × len(PendingRequests) always.
// swagger:model Event
type Event struct {
	ID          string `json:"id"`
	Organizer   string `json:"organizer"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`

	RegistrationStart time.Time `json:"registration_start_time"`
	RegistrationEnd   time.Time `json:"registration_end_time"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`

	StakeAmount int64 `json:"stake_amount"` // minor currency units, > 0
	Capacity    int   `json:"capacity"`     // 0 means unlimited

	MustRequestToJoin bool `json:"must_request_to_join"`

	Participants    []string `json:"participants"`
	PendingRequests []string `json:"pending_requests"`
	Attendees       []string `json:"attendees"`
	Claimed         []string `json:"claimed"`

	ParticipantVault int64 `json:"participant_vault"`
	PendingVault     int64 `json:"pending_vault"`

	Cancelled bool `json:"cancelled"`

	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEvent validates the creation parameters and returns an Event with empty
// sets and zero vault balances. No funds move at creation.
func NewEvent(organizer, name, description, location string, registrationStart, registrationEnd, start, end time.Time, stakeAmount int64, capacity int, mustRequestToJoin bool) (*Event, error) {
	if organizer == "" {
		return nil, fmt.Errorf("%w: organizer is required", ErrInvalidInput)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if stakeAmount <= 0 {
		return nil, fmt.Errorf("%w: stake amount must be positive", ErrInvalidInput)
	}
	if capacity < 0 {
		return nil, fmt.Errorf("%w: capacity must not be negative", ErrInvalidInput)
	}
	if registrationEnd.Before(registrationStart) || start.Before(registrationEnd) || end.Before(start) {
		return nil, fmt.Errorf("%w: timestamps must satisfy registration_start <= registration_end <= start <= end", ErrInvalidInput)
	}
	return &Event{
		Organizer:         organizer,
		Name:              name,
		Description:       description,
		Location:          location,
		RegistrationStart: registrationStart,
		RegistrationEnd:   registrationEnd,
		StartTime:         start,
		EndTime:           end,
		StakeAmount:       stakeAmount,
		Capacity:          capacity,
		MustRequestToJoin: mustRequestToJoin,
		Participants:      []string{},
		PendingRequests:   []string{},
		Attendees:         []string{},
		Claimed:           []string{},
	}, nil
}

// State derives the lifecycle phase at the given instant. Cancellation wins
// over the timestamp windows.
func (e *Event) State(now time.Time) EventState {
	if e.Cancelled {
		return StateCancelled
	}
	switch {
	case now.Before(e.RegistrationStart):
		return StateRegistrationNotOpen
	case now.Before(e.RegistrationEnd):
		return StateRegistrationOpen
	case now.Before(e.StartTime):
		return StateRegistrationClosed
	case now.Before(e.EndTime):
		return StateOngoing
	default:
		return StateEnded
	}
}

// IsParticipant reports whether addr holds a confirmed stake.
func (e *Event) IsParticipant(addr string) bool { return contains(e.Participants, addr) }

// IsPending reports whether addr has an escrowed, unconfirmed join request.
func (e *Event) IsPending(addr string) bool { return contains(e.PendingRequests, addr) }

// IsAttendee reports whether the organizer marked addr present.
func (e *Event) IsAttendee(addr string) bool { return contains(e.Attendees, addr) }

// HasClaimed reports whether addr already received a payout.
func (e *Event) HasClaimed(addr string) bool { return contains(e.Claimed, addr) }

// HasCapacity reports whether another participant can be confirmed.
func (e *Event) HasCapacity() bool {
	return e.Capacity == 0 || len(e.Participants) < e.Capacity
}

// Residue reports the portion of ParticipantVault no remaining entitlement
// covers: the floor-division leftover after settlement, or the whole vault
// when the event ended with zero attendees. It is zero for events that are
// still running and fully covered by entitlements.
func (e *Event) Residue(now time.Time) int64 {
	if e.Cancelled {
		var owed int64
		for _, p := range e.Participants {
			if !e.HasClaimed(p) {
				owed += e.StakeAmount
			}
		}
		return e.ParticipantVault - owed
	}
	if e.State(now) != StateEnded {
		return 0
	}
	attendees := len(e.Attendees)
	if attendees == 0 {
		return e.ParticipantVault
	}
	payout := SettlementPayout(e.StakeAmount, len(e.Participants), attendees)
	var owed int64
	for _, a := range e.Attendees {
		if !e.HasClaimed(a) {
			owed += payout
		}
	}
	return e.ParticipantVault - owed
}

func contains(set []string, addr string) bool {
	for _, a := range set {
		if a == addr {
			return true
		}
	}
	return false
}

func remove(set []string, addr string) []string {
	out := make([]string, 0, len(set))
	for _, a := range set {
		if a != addr {
			out = append(out, a)
		}
	}
	return out
}

// ApplyFunc mutates the locked event and returns the fund postings the store
// must record in the same transaction. Returning an error leaves the event
// untouched.
type ApplyFunc func(e *Event) ([]Posting, error)

// EventStore is the atomic-apply substrate for events. Apply serializes
// mutations per event id: it loads the event under a lock, runs fn, and
// persists the updated aggregate together with fn's postings, all or nothing.
type EventStore interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, params PaginationParams) ([]*Event, int, error)
	ListByOrganizer(ctx context.Context, organizer string) ([]*Event, error)
	ListByAddress(ctx context.Context, addr string) ([]*Event, error)
	Apply(ctx context.Context, id string, fn ApplyFunc) (*Event, error)
}

// EventService exposes every lifecycle operation of the stake-settlement
// state machine plus the read models the presentation layer consumes.
type EventService interface {
	CreateEvent(ctx context.Context, organizer string, in CreateEventInput) (*Event, error)
	GetEvent(ctx context.Context, eventID string) (*Event, error)
	ListEvents(ctx context.Context, params PaginationParams) ([]*Event, int, error)
	ListMyEvents(ctx context.Context, organizer string) ([]*Event, error)
	ListMyParticipations(ctx context.Context, addr string) ([]*Event, error)
	ListActivity(ctx context.Context, eventID string) ([]*Posting, error)

	JoinEvent(ctx context.Context, eventID, caller string, payment int64) (*Event, error)
	RequestToJoin(ctx context.Context, eventID, caller string, payment int64) (*Event, error)
	AcceptRequests(ctx context.Context, eventID, caller string, addresses []string) (*Event, error)
	RejectRequests(ctx context.Context, eventID, caller string, addresses []string) (*Event, error)
	WithdrawFromEvent(ctx context.Context, eventID, caller string) (*Event, error)
	ClaimPendingStake(ctx context.Context, eventID, caller string) (*Event, int64, error)
	MarkAttended(ctx context.Context, eventID, caller string, addresses []string) (*Event, error)
	Claim(ctx context.Context, eventID, caller string) (*Event, int64, error)
	Refund(ctx context.Context, eventID, caller string) (*Event, int64, error)
	CancelEvent(ctx context.Context, eventID, caller string) (*Event, error)
}

// CreateEventInput carries the creation parameters from the delivery layer.
type CreateEventInput struct {
	Name              string
	Description       string
	Location          string
	RegistrationStart time.Time
	RegistrationEnd   time.Time
	StartTime         time.Time
	EndTime           time.Time
	StakeAmount       int64
	Capacity          int
	MustRequestToJoin bool
}
