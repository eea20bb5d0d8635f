package domain

import "errors"

// General errors shared across repositories and services.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("concurrent update, retry")
	ErrInvalidInput = errors.New("invalid input")
)

// Authorization errors.
var ErrNotOrganizer = errors.New("caller is not the event organizer")

// Timing errors. Every mutating operation checks the clock against the
// event's registration and start/end windows.
var (
	ErrRegistrationNotOpen   = errors.New("registration has not opened yet")
	ErrRegistrationClosed    = errors.New("registration has closed")
	ErrRegistrationStillOpen = errors.New("registration has not closed yet")
	ErrEventAlreadyStarted   = errors.New("event has already started")
	ErrEventNotEnded         = errors.New("event has not ended yet")
	ErrEventAlreadyEnded     = errors.New("event has already ended")
)

// State errors.
var (
	ErrAlreadyJoined       = errors.New("address already joined or requested to join")
	ErrAlreadyClaimed      = errors.New("address already claimed a payout")
	ErrNotParticipant      = errors.New("address is not a participant")
	ErrDidNotAttend        = errors.New("address did not attend the event")
	ErrEventNotCancelled   = errors.New("event is not cancelled")
	ErrEventCancelled      = errors.New("event is cancelled")
	ErrApprovalRequired    = errors.New("event requires a join request")
	ErrPublicEvent         = errors.New("event is public, join directly")
	ErrOrganizerCannotJoin = errors.New("organizer cannot join their own event")
	ErrNoAttendees         = errors.New("event ended with no attendees")
)

// Capacity and payment errors.
var (
	ErrCapacityExceeded  = errors.New("event capacity exceeded")
	ErrWrongStakeAmount  = errors.New("payment does not match the stake amount")
	ErrInsufficientFunds = errors.New("vault balance insufficient")
)
