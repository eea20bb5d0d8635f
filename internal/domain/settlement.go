package domain

// SettlementPayout computes a single attendee's entitlement: their own stake
// plus an equal floor-divided share of the stakes forfeited by no-shows.
//
//	payout = stake + floor(stake × (participants − attendees) / attendees)
//
// attendees must be > 0; callers guard the zero-attendee case before asking
// for a payout.
func SettlementPayout(stake int64, participants, attendees int) int64 {
	forfeited := stake * int64(participants-attendees)
	return stake + forfeited/int64(attendees)
}

// SettlementResidue computes the minor units left in the vault after every
// attendee claims: the remainder of the floor division, always < attendees.
func SettlementResidue(stake int64, participants, attendees int) int64 {
	if attendees == 0 {
		return stake * int64(participants)
	}
	total := stake * int64(participants)
	return total - SettlementPayout(stake, participants, attendees)*int64(attendees)
}
