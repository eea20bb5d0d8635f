package domain

import "time"

// Transition methods implement the stake-settlement state machine. Each
// method checks its preconditions in a fixed order — authorization,
// cancelled-state, timing, membership, capacity, payment — and returns the
// first failing one as a sentinel error, leaving the event untouched. On
// success the aggregate is mutated and the fund postings to record are
// returned.

// Join admits the caller directly into a public event against an exact-stake
// payment. Precondition order: cancelled, admission mode, timing, organizer
// self-join, duplicate membership, capacity, payment.
func (e *Event) Join(caller string, payment int64, now time.Time) ([]Posting, error) {
	if e.Cancelled {
		return nil, ErrEventCancelled
	}
	if e.MustRequestToJoin {
		return nil, ErrApprovalRequired
	}
	if now.Before(e.RegistrationStart) {
		return nil, ErrRegistrationNotOpen
	}
	if !now.Before(e.RegistrationEnd) {
		return nil, ErrRegistrationClosed
	}
	if caller == e.Organizer {
		return nil, ErrOrganizerCannotJoin
	}
	if e.IsParticipant(caller) || e.IsPending(caller) {
		return nil, ErrAlreadyJoined
	}
	if !e.HasCapacity() {
		return nil, ErrCapacityExceeded
	}
	if payment != e.StakeAmount {
		return nil, ErrWrongStakeAmount
	}

	e.Participants = append(e.Participants, caller)
	e.ParticipantVault += e.StakeAmount
	return []Posting{{
		EventID: e.ID, Kind: PostingJoined, Address: caller,
		Pool: PoolParticipant, Amount: e.StakeAmount,
	}}, nil
}

// RequestToJoin escrows the caller's stake in the pending vault of a private
// event. Same precondition order as Join; capacity is not checked here — the
// organizer decides at acceptance time, when a slot must actually be free.
func (e *Event) RequestToJoin(caller string, payment int64, now time.Time) ([]Posting, error) {
	if e.Cancelled {
		return nil, ErrEventCancelled
	}
	if !e.MustRequestToJoin {
		return nil, ErrPublicEvent
	}
	if now.Before(e.RegistrationStart) {
		return nil, ErrRegistrationNotOpen
	}
	if !now.Before(e.RegistrationEnd) {
		return nil, ErrRegistrationClosed
	}
	if caller == e.Organizer {
		return nil, ErrOrganizerCannotJoin
	}
	if e.IsParticipant(caller) || e.IsPending(caller) {
		return nil, ErrAlreadyJoined
	}
	if payment != e.StakeAmount {
		return nil, ErrWrongStakeAmount
	}

	e.PendingRequests = append(e.PendingRequests, caller)
	e.PendingVault += e.StakeAmount
	return []Posting{{
		EventID: e.ID, Kind: PostingRequested, Address: caller,
		Pool: PoolPending, Amount: e.StakeAmount,
	}}, nil
}

// AcceptRequests confirms pending requests, moving each stake from the
// pending vault to the participant vault. Addresses that are not pending, or
// are already confirmed, are skipped; addresses beyond the remaining capacity
// stay pending with their escrow intact. Stakes are never split.
func (e *Event) AcceptRequests(caller string, addresses []string, now time.Time) ([]Posting, error) {
	if caller != e.Organizer {
		return nil, ErrNotOrganizer
	}
	if e.Cancelled {
		return nil, ErrEventCancelled
	}
	if !now.Before(e.StartTime) {
		return nil, ErrEventAlreadyStarted
	}

	var postings []Posting
	for _, addr := range addresses {
		if !e.IsPending(addr) || e.IsParticipant(addr) {
			continue
		}
		if !e.HasCapacity() {
			continue
		}
		e.PendingRequests = remove(e.PendingRequests, addr)
		e.Participants = append(e.Participants, addr)
		e.PendingVault -= e.StakeAmount
		e.ParticipantVault += e.StakeAmount
		postings = append(postings, Posting{
			EventID: e.ID, Kind: PostingRequestAccepted, Address: addr,
			Pool: PoolParticipant, Amount: e.StakeAmount,
		})
	}
	return postings, nil
}

// RejectRequests refunds pending requests in full. Rejection is not
// attendance-related, so it carries no penalty and stays legal even after
// cancellation — escrowed stakes must never strand. Unknown addresses are
// skipped.
func (e *Event) RejectRequests(caller string, addresses []string) ([]Posting, error) {
	if caller != e.Organizer {
		return nil, ErrNotOrganizer
	}

	var postings []Posting
	for _, addr := range addresses {
		if !e.IsPending(addr) {
			continue
		}
		e.PendingRequests = remove(e.PendingRequests, addr)
		e.PendingVault -= e.StakeAmount
		postings = append(postings, Posting{
			EventID: e.ID, Kind: PostingRequestRejected, Address: addr,
			Pool: PoolPending, Amount: e.StakeAmount,
		})
	}
	return postings, nil
}

// Withdraw lets a confirmed participant exit cleanly before the event starts,
// recovering the full stake. Withdrawn addresses may rejoin while
// registration is still open.
func (e *Event) Withdraw(caller string, now time.Time) ([]Posting, error) {
	if e.Cancelled {
		return nil, ErrEventCancelled
	}
	if !now.Before(e.StartTime) {
		return nil, ErrEventAlreadyStarted
	}
	if !e.IsParticipant(caller) {
		return nil, ErrNotParticipant
	}
	// Attendance can only be marked after start, so this cannot trigger
	// pre-start; kept as a structural guard.
	if e.IsAttendee(caller) {
		return nil, ErrInvalidInput
	}

	e.Participants = remove(e.Participants, caller)
	e.ParticipantVault -= e.StakeAmount
	return []Posting{{
		EventID: e.ID, Kind: PostingWithdrawn, Address: caller,
		Pool: PoolParticipant, Amount: e.StakeAmount,
	}}, nil
}

// ClaimPendingStake refunds a request that was neither accepted nor rejected
// before registration closed. Cancellation opens the path early; either way
// no stake is ever stranded in the pending vault.
func (e *Event) ClaimPendingStake(caller string, now time.Time) ([]Posting, error) {
	if !e.Cancelled && now.Before(e.RegistrationEnd) {
		return nil, ErrRegistrationStillOpen
	}
	if !e.IsPending(caller) {
		return nil, ErrNotParticipant
	}
	if e.HasClaimed(caller) {
		return nil, ErrAlreadyClaimed
	}

	e.PendingRequests = remove(e.PendingRequests, caller)
	e.PendingVault -= e.StakeAmount
	e.Claimed = append(e.Claimed, caller)
	return []Posting{{
		EventID: e.ID, Kind: PostingPendingStakeClaimed, Address: caller,
		Pool: PoolPending, Amount: e.StakeAmount,
	}}, nil
}

// MarkAttended records attendance for each confirmed participant in
// addresses. Re-marking an attendee is a no-op, never an error — organizers
// scan duplicate codes. Addresses that are not participants are skipped.
// Legal until the event ends; after that the attendee set is frozen for
// settlement.
func (e *Event) MarkAttended(caller string, addresses []string, now time.Time) ([]Posting, error) {
	if caller != e.Organizer {
		return nil, ErrNotOrganizer
	}
	if e.Cancelled {
		return nil, ErrEventCancelled
	}
	if !now.Before(e.EndTime) {
		return nil, ErrEventAlreadyEnded
	}

	var postings []Posting
	for _, addr := range addresses {
		if !e.IsParticipant(addr) || e.IsAttendee(addr) {
			continue
		}
		e.Attendees = append(e.Attendees, addr)
		postings = append(postings, Posting{
			EventID: e.ID, Kind: PostingAttended, Address: addr,
		})
	}
	return postings, nil
}

// Claim pays an attendee their settlement entitlement exactly once.
// Precondition order: cancelled, timing, participant membership, attendance,
// prior claim. The payout uses the frozen post-end participant and attendee
// sets, so every attendee computes the same share regardless of claim order.
func (e *Event) Claim(caller string, now time.Time) (int64, []Posting, error) {
	if e.Cancelled {
		return 0, nil, ErrEventCancelled
	}
	if now.Before(e.EndTime) {
		return 0, nil, ErrEventNotEnded
	}
	if !e.IsParticipant(caller) {
		return 0, nil, ErrNotParticipant
	}
	if !e.IsAttendee(caller) {
		return 0, nil, ErrDidNotAttend
	}
	if e.HasClaimed(caller) {
		return 0, nil, ErrAlreadyClaimed
	}

	payout := SettlementPayout(e.StakeAmount, len(e.Participants), len(e.Attendees))
	if payout > e.ParticipantVault {
		return 0, nil, ErrInsufficientFunds
	}
	e.ParticipantVault -= payout
	e.Claimed = append(e.Claimed, caller)
	return payout, []Posting{{
		EventID: e.ID, Kind: PostingClaimed, Address: caller,
		Pool: PoolParticipant, Amount: payout,
	}}, nil
}

// Refund returns the full stake of a confirmed participant of a cancelled
// event, exactly once. Attendance is irrelevant after cancellation.
func (e *Event) Refund(caller string) (int64, []Posting, error) {
	if !e.Cancelled {
		return 0, nil, ErrEventNotCancelled
	}
	if !e.IsParticipant(caller) {
		return 0, nil, ErrNotParticipant
	}
	if e.HasClaimed(caller) {
		return 0, nil, ErrAlreadyClaimed
	}
	if e.StakeAmount > e.ParticipantVault {
		return 0, nil, ErrInsufficientFunds
	}

	e.ParticipantVault -= e.StakeAmount
	e.Claimed = append(e.Claimed, caller)
	return e.StakeAmount, []Posting{{
		EventID: e.ID, Kind: PostingRefunded, Address: caller,
		Pool: PoolParticipant, Amount: e.StakeAmount,
	}}, nil
}

// Cancel flips the event to cancelled; refunds are claimed individually, so
// no funds move here. Allowed any time before the event ends. An event that
// ended with zero attendees may still be cancelled afterwards — without this
// escape hatch its vault would be locked forever, since no attendee-based
// claim path exists.
func (e *Event) Cancel(caller string, now time.Time) ([]Posting, error) {
	if caller != e.Organizer {
		return nil, ErrNotOrganizer
	}
	if e.Cancelled {
		return nil, ErrEventCancelled
	}
	if !now.Before(e.EndTime) && len(e.Attendees) > 0 {
		return nil, ErrEventAlreadyEnded
	}

	e.Cancelled = true
	return []Posting{{
		EventID: e.ID, Kind: PostingCancelled, Address: caller,
	}}, nil
}
