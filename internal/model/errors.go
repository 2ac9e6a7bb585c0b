package model

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the store, managers, and transport. Handlers
// translate these into HTTP statuses; ErrInvalidInterval lives in
// interval.go next to Validate.
var (
	// ErrFieldNotFound: the field id has no row in the external catalog.
	ErrFieldNotFound = errors.New("field not found")

	// ErrCommitmentNotFound: no commitment with that id exists.
	ErrCommitmentNotFound = errors.New("commitment not found")

	// ErrDuplicateID: insert attempted with an id that already exists.
	ErrDuplicateID = errors.New("duplicate commitment id")

	// ErrBlockNotFound: the id does not name an existing schedule block.
	ErrBlockNotFound = errors.New("schedule block not found")

	// ErrInvalidReason: a block reason outside maintenance/personal/event.
	ErrInvalidReason = errors.New("invalid block reason")

	// ErrHoldNotFound: the caller has no hold with that id.
	ErrHoldNotFound = errors.New("hold not found")

	// ErrHoldExpired: the hold's TTL elapsed before confirmation.
	ErrHoldExpired = errors.New("hold expired")
)

// ConflictError carries the full conflict report when a write is rejected,
// so the caller can always show which commitments block the request rather
// than a bare failure. It is an expected business outcome, not a fault.
type ConflictError struct {
	Report ConflictReport
}

func (e *ConflictError) Error() string {
	n := len(e.Report.ConfirmedBookings) + len(e.Report.PendingBookings) + len(e.Report.Blocks)
	return fmt.Sprintf("interval conflicts with %d existing commitment(s)", n)
}
