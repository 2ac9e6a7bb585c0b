// Package availability holds the reservation engine: conflict detection over
// the durable commitment store, schedule block management, and the
// optimistic reservation-hold lifecycle. It owns every interval invariant;
// the store beneath it only persists what the managers have already checked.
package availability

import (
	"context"

	"github.com/Jay210305/Fulbo-sub001/internal/model"
)

// CommitmentSource is the read side of the availability store needed for
// conflict detection.
type CommitmentSource interface {
	CommitmentsFor(ctx context.Context, fieldID string, window model.Interval) ([]model.Commitment, error)
}

// Detector answers "which existing commitments would this interval violate".
// It is pure over the store contents: no writes, no clock.
type Detector struct {
	store CommitmentSource
}

// NewDetector returns a detector reading from the given store.
func NewDetector(store CommitmentSource) *Detector {
	return &Detector{store: store}
}

// Detect fetches the field's commitments overlapping the candidate interval
// and partitions them into a conflict report. excludeID, when non-empty,
// drops that commitment from consideration (re-validating an edit against
// itself). Cancelled bookings never conflict. Adjacent intervals (candidate
// starting exactly where an existing commitment ends, or vice versa) are not
// conflicts: the half-open boundary rule.
//
// Run inside the same transaction as the subsequent insert, after the field
// row lock, so the check and the write are one atomic step.
func (d *Detector) Detect(ctx context.Context, fieldID string, candidate model.Interval, excludeID string) (model.ConflictReport, error) {
	existing, err := d.store.CommitmentsFor(ctx, fieldID, candidate)
	if err != nil {
		return model.ConflictReport{}, err
	}

	var report model.ConflictReport
	for _, c := range existing {
		if excludeID != "" && c.ID == excludeID {
			continue
		}
		// The store already scopes to the window; re-check here so the
		// report stays correct for sources that return a wider set.
		if !c.Interval.Overlaps(candidate) {
			continue
		}
		entry := model.ConflictEntry{
			CommitmentID: c.ID,
			OwnerRef:     c.OwnerRef,
			Interval:     c.Interval,
		}
		switch c.Kind {
		case model.KindBlock:
			report.Blocks = append(report.Blocks, entry)
		case model.KindBooking:
			switch c.Status {
			case model.BookingConfirmed:
				report.ConfirmedBookings = append(report.ConfirmedBookings, entry)
			case model.BookingPending:
				report.PendingBookings = append(report.PendingBookings, entry)
			}
			// cancelled bookings fall through: never a conflict
		}
	}
	return report, nil
}
