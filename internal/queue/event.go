// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a reservation hold is promoted to
// a confirmed booking. Downstream consumers (notification dispatch, payment
// capture) get enough to act without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID   string `json:"booking_id"`
	FieldID     string `json:"field_id"`
	OwnerRef    string `json:"owner_ref"`
	StartsAt    string `json:"starts_at"`
	EndsAt      string `json:"ends_at"`
	ConfirmedAt string `json:"confirmed_at"`
}

// BlockCreatedEvent is published when a manager closes out a time range on a
// field, so affected staff and calendars can be notified.
type BlockCreatedEvent struct {
	BlockID    string `json:"block_id"`
	FieldID    string `json:"field_id"`
	Reason     string `json:"reason"`
	Note       string `json:"note,omitempty"`
	ManagerRef string `json:"manager_ref"`
	StartsAt   string `json:"starts_at"`
	EndsAt     string `json:"ends_at"`
	CreatedAt  string `json:"created_at"`
}
