package model

import "time"

// CommitmentKind distinguishes the two durable claims on a field's time.
type CommitmentKind string

const (
	// KindBooking is a customer reservation of a field time slot.
	KindBooking CommitmentKind = "booking"
	// KindBlock is a manager-imposed closure (maintenance, private event...).
	// A block has no status; its existence is the commitment.
	KindBlock CommitmentKind = "block"
)

// BookingStatus is the lifecycle state of a booking commitment. Blocks carry
// no status.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// BlockReason explains why a manager closed out a time range.
type BlockReason string

const (
	ReasonMaintenance BlockReason = "maintenance"
	ReasonPersonal    BlockReason = "personal"
	ReasonEvent       BlockReason = "event"
)

// ValidBlockReason reports whether r is one of the enumerated reasons.
func ValidBlockReason(r BlockReason) bool {
	switch r {
	case ReasonMaintenance, ReasonPersonal, ReasonEvent:
		return true
	}
	return false
}

// Commitment is the unit stored per field: a confirmed/pending booking or a
// schedule block, with its interval and owner.
//
// Invariant (enforced by the managers, not the store): two confirmed
// bookings, or a confirmed booking and a block, on the same field never
// have overlapping intervals.
//
// Fields:
//
//	ID       – opaque unique identifier, immutable.
//	FieldID  – field this commitment claims time on.
//	Interval – half-open [start, end) claimed range.
//	Kind     – booking or block.
//	Status   – booking lifecycle state; empty for blocks.
//	Reason   – block reason; empty for bookings.
//	Note     – optional free text.
//	OwnerRef – customer (booking) or manager (block) identity; opaque here.
type Commitment struct {
	ID        string
	FieldID   string
	Interval  Interval
	Kind      CommitmentKind
	Status    BookingStatus
	Reason    BlockReason
	Note      string
	OwnerRef  string
	CreatedAt time.Time
}

// ConflictEntry identifies one existing commitment that overlaps a candidate
// interval. Enough to render "cancel this booking first" in a UI.
type ConflictEntry struct {
	CommitmentID string
	OwnerRef     string
	Interval     Interval
}

// ConflictReport lists every commitment overlapping a candidate interval,
// partitioned by kind and booking status so callers can distinguish "must
// cancel these bookings" from "another block already covers this range" from
// "someone is mid-checkout on this slot".
type ConflictReport struct {
	ConfirmedBookings []ConflictEntry
	PendingBookings   []ConflictEntry
	Blocks            []ConflictEntry
}

// Empty reports whether no overlapping commitment of any category was found.
func (r ConflictReport) Empty() bool {
	return len(r.ConfirmedBookings) == 0 && len(r.PendingBookings) == 0 && len(r.Blocks) == 0
}

// BlocksHold reports whether the report prevents a reservation hold from
// being granted. Pending bookings do not: they are other shoppers'
// in-flight checkouts, arbitrated at confirm time instead.
func (r ConflictReport) BlocksHold() bool {
	return len(r.ConfirmedBookings) > 0 || len(r.Blocks) > 0
}
