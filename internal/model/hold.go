package model

import "time"

// HoldState is the lifecycle state of a reservation hold. Terminal states
// (confirmed, expired, cancelled) free the owner to request a new hold.
type HoldState string

const (
	HoldActive    HoldState = "active"
	HoldConfirmed HoldState = "confirmed"
	HoldExpired   HoldState = "expired"
	HoldCancelled HoldState = "cancelled"
)

// Hold is an ephemeral, TTL-bound claim on a field time slot taken while a
// shopper completes checkout. Holds are never written to the availability
// store; exclusivity against other shoppers is deferred to confirm time,
// where the durable store arbitrates (optimistic holds).
//
// At most one active hold exists per OwnerRef; requesting a new hold
// replaces the previous one atomically.
//
// Fields:
//
//	ID        – opaque hold identifier returned to the client.
//	FieldID   – field the slot belongs to.
//	OwnerRef  – shopper identity (JWT subject); the store key.
//	Interval  – half-open slot being claimed.
//	CreatedAt – when the hold was granted.
//	ExpiresAt – CreatedAt + TTL; expiry is computed on read, never scheduled.
//	State     – active until confirmed, cancelled, or lapsed.
type Hold struct {
	ID        string    `json:"id"`
	FieldID   string    `json:"field_id"`
	OwnerRef  string    `json:"owner_ref"`
	Interval  Interval  `json:"interval"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	State     HoldState `json:"state"`
}

// Expired reports whether the hold's TTL has elapsed at the given instant.
func (h Hold) Expired(now time.Time) bool {
	return !now.Before(h.ExpiresAt)
}

// RemainingSeconds returns max(0, ExpiresAt-now) in whole seconds, for the
// checkout countdown. Exactly 0 once the hold has lapsed.
func (h Hold) RemainingSeconds(now time.Time) int {
	rem := h.ExpiresAt.Sub(now)
	if rem <= 0 {
		return 0
	}
	return int(rem / time.Second)
}
