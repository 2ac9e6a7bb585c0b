package availability

import (
	"context"
	"testing"

	"github.com/Jay210305/Fulbo-sub001/internal/model"
)

func TestDetectorPartitionsByKindAndStatus(t *testing.T) {
	t.Parallel()

	pending := confirmedBooking(t, "b-pending", "field-1", "u2", "2026-07-01T09:00:00Z", "2026-07-01T10:00:00Z")
	pending.Status = model.BookingPending
	cancelled := confirmedBooking(t, "b-cancelled", "field-1", "u3", "2026-07-01T09:00:00Z", "2026-07-01T10:00:00Z")
	cancelled.Status = model.BookingCancelled

	store := newFakeStore(
		confirmedBooking(t, "b-confirmed", "field-1", "u1", "2026-07-01T09:00:00Z", "2026-07-01T10:00:00Z"),
		pending,
		cancelled,
		scheduleBlock(t, "blk-1", "field-1", "mgr", "2026-07-01T09:30:00Z", "2026-07-01T11:00:00Z"),
	)
	d := NewDetector(store)

	report, err := d.Detect(context.Background(), "field-1",
		mustInterval(t, "2026-07-01T09:00:00Z", "2026-07-01T10:00:00Z"), "")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}

	if len(report.ConfirmedBookings) != 1 || report.ConfirmedBookings[0].CommitmentID != "b-confirmed" {
		t.Fatalf("confirmed bookings = %+v, want b-confirmed only", report.ConfirmedBookings)
	}
	if len(report.PendingBookings) != 1 || report.PendingBookings[0].CommitmentID != "b-pending" {
		t.Fatalf("pending bookings = %+v, want b-pending only", report.PendingBookings)
	}
	if len(report.Blocks) != 1 || report.Blocks[0].CommitmentID != "blk-1" {
		t.Fatalf("blocks = %+v, want blk-1 only", report.Blocks)
	}
}

func TestDetectorIgnoresCancelledBookings(t *testing.T) {
	t.Parallel()

	cancelled := confirmedBooking(t, "b1", "field-1", "u1", "2026-07-01T09:00:00Z", "2026-07-01T10:00:00Z")
	cancelled.Status = model.BookingCancelled
	d := NewDetector(newFakeStore(cancelled))

	report, err := d.Detect(context.Background(), "field-1",
		mustInterval(t, "2026-07-01T09:00:00Z", "2026-07-01T10:00:00Z"), "")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if !report.Empty() {
		t.Fatalf("cancelled bookings should not conflict, got %+v", report)
	}
}

func TestDetectorAdjacentIntervalsDoNotConflict(t *testing.T) {
	t.Parallel()

	d := NewDetector(newFakeStore(
		confirmedBooking(t, "b1", "field-1", "u1", "2026-07-01T09:00:00Z", "2026-07-01T10:00:00Z"),
	))

	report, err := d.Detect(context.Background(), "field-1",
		mustInterval(t, "2026-07-01T10:00:00Z", "2026-07-01T11:00:00Z"), "")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if !report.Empty() {
		t.Fatalf("candidate starting at an existing end should not conflict, got %+v", report)
	}
}

func TestDetectorExcludeID(t *testing.T) {
	t.Parallel()

	d := NewDetector(newFakeStore(
		scheduleBlock(t, "blk-1", "field-1", "mgr", "2026-07-01T09:00:00Z", "2026-07-01T10:00:00Z"),
	))

	report, err := d.Detect(context.Background(), "field-1",
		mustInterval(t, "2026-07-01T09:00:00Z", "2026-07-01T10:00:00Z"), "blk-1")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if !report.Empty() {
		t.Fatalf("excluded commitment should not conflict with itself, got %+v", report)
	}
}

func TestDetectorScopedToField(t *testing.T) {
	t.Parallel()

	d := NewDetector(newFakeStore(
		confirmedBooking(t, "b1", "field-2", "u1", "2026-07-01T09:00:00Z", "2026-07-01T10:00:00Z"),
	))

	report, err := d.Detect(context.Background(), "field-1",
		mustInterval(t, "2026-07-01T09:00:00Z", "2026-07-01T10:00:00Z"), "")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if !report.Empty() {
		t.Fatalf("other fields' commitments should not conflict, got %+v", report)
	}
}
