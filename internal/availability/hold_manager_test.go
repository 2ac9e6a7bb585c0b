package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Jay210305/Fulbo-sub001/internal/clock"
	"github.com/Jay210305/Fulbo-sub001/internal/holdstore"
	"github.com/Jay210305/Fulbo-sub001/internal/model"
)

type holdFixture struct {
	store *fakeStore
	clk   *clock.Fixed
	mgr   *HoldManager
}

func newHoldFixture(t *testing.T, seed ...model.Commitment) *holdFixture {
	t.Helper()
	store := newFakeStore(seed...)
	clk := clock.NewFixed(time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC))
	mgr := NewHoldManager(holdstore.NewMemoryStore(), store, newFakeCatalog("field-1"), clk)
	return &holdFixture{store: store, clk: clk, mgr: mgr}
}

func TestRequestHold(t *testing.T) {
	t.Parallel()

	t.Run("grants hold on a free slot", func(t *testing.T) {
		f := newHoldFixture(t)

		h, err := f.mgr.RequestHold(context.Background(), "user-1", "field-1",
			mustInterval(t, "2026-07-01T09:00:00Z", "2026-07-01T10:00:00Z"))
		if err != nil {
			t.Fatalf("request hold: %v", err)
		}
		if h.ID == "" || h.State != model.HoldActive {
			t.Fatalf("hold = %+v, want active with id", h)
		}
		if got := f.mgr.RemainingSeconds(h); got != 900 {
			t.Fatalf("remaining = %d, want 900", got)
		}
	})

	t.Run("confirmed booking rejects the hold", func(t *testing.T) {
		f := newHoldFixture(t,
			confirmedBooking(t, "b1", "field-1", "other", "2026-07-01T09:00:00Z", "2026-07-01T10:00:00Z"))

		_, err := f.mgr.RequestHold(context.Background(), "user-1", "field-1",
			mustInterval(t, "2026-07-01T09:30:00Z", "2026-07-01T10:30:00Z"))
		var ce *model.ConflictError
		if !errors.As(err, &ce) {
			t.Fatalf("want ConflictError, got %v", err)
		}
		if len(ce.Report.ConfirmedBookings) != 1 {
			t.Fatalf("conflict report = %+v, want one confirmed booking", ce.Report)
		}
	})

	t.Run("schedule block rejects the hold", func(t *testing.T) {
		f := newHoldFixture(t,
			scheduleBlock(t, "blk-1", "field-1", "mgr", "2026-07-01T09:00:00Z", "2026-07-01T12:00:00Z"))

		_, err := f.mgr.RequestHold(context.Background(), "user-1", "field-1",
			mustInterval(t, "2026-07-01T10:00:00Z", "2026-07-01T11:00:00Z"))
		var ce *model.ConflictError
		if !errors.As(err, &ce) {
			t.Fatalf("want ConflictError, got %v", err)
		}
	})

	t.Run("pending booking does not reject the hold", func(t *testing.T) {
		pending := confirmedBooking(t, "b1", "field-1", "other", "2026-07-01T09:00:00Z", "2026-07-01T10:00:00Z")
		pending.Status = model.BookingPending
		f := newHoldFixture(t, pending)

		if _, err := f.mgr.RequestHold(context.Background(), "user-1", "field-1",
			mustInterval(t, "2026-07-01T09:00:00Z", "2026-07-01T10:00:00Z")); err != nil {
			t.Fatalf("pending booking must not block a hold: %v", err)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		f := newHoldFixture(t)
		_, err := f.mgr.RequestHold(context.Background(), "user-1", "no-such-field",
			mustInterval(t, "2026-07-01T09:00:00Z", "2026-07-01T10:00:00Z"))
		if !errors.Is(err, model.ErrFieldNotFound) {
			t.Fatalf("want ErrFieldNotFound, got %v", err)
		}
	})

	t.Run("new hold replaces the owner's previous one", func(t *testing.T) {
		f := newHoldFixture(t)
		ctx := context.Background()

		first, err := f.mgr.RequestHold(ctx, "user-1", "field-1",
			mustInterval(t, "2026-07-01T09:00:00Z", "2026-07-01T10:00:00Z"))
		if err != nil {
			t.Fatalf("first hold: %v", err)
		}
		second, err := f.mgr.RequestHold(ctx, "user-1", "field-1",
			mustInterval(t, "2026-07-01T14:00:00Z", "2026-07-01T15:00:00Z"))
		if err != nil {
			t.Fatalf("second hold: %v", err)
		}

		if _, err := f.mgr.Get(ctx, "user-1", first.ID); !errors.Is(err, model.ErrHoldNotFound) {
			t.Fatalf("first hold should be gone, got %v", err)
		}
		got, err := f.mgr.Get(ctx, "user-1", second.ID)
		if err != nil {
			t.Fatalf("second hold should be active: %v", err)
		}
		if !got.Interval.Start.Equal(second.Interval.Start) {
			t.Fatalf("active hold = %+v, want the second one", got)
		}
	})
}

func TestHoldExpiry(t *testing.T) {
	t.Parallel()

	f := newHoldFixture(t)
	ctx := context.Background()

	h, err := f.mgr.RequestHold(ctx, "user-1", "field-1",
		mustInterval(t, "2026-07-01T09:00:00Z", "2026-07-01T10:00:00Z"))
	if err != nil {
		t.Fatalf("request hold: %v", err)
	}

	f.clk.Advance(899 * time.Second)
	got, err := f.mgr.Get(ctx, "user-1", h.ID)
	if err != nil {
		t.Fatalf("hold should still be active one second before expiry: %v", err)
	}
	if rem := f.mgr.RemainingSeconds(got); rem != 1 {
		t.Fatalf("remaining = %d, want 1", rem)
	}

	f.clk.Advance(2 * time.Second)
	if _, err := f.mgr.Get(ctx, "user-1", h.ID); !errors.Is(err, model.ErrHoldExpired) {
		t.Fatalf("want ErrHoldExpired, got %v", err)
	}

	// The lapsed hold is discarded on read; after that it is simply gone.
	if _, err := f.mgr.Get(ctx, "user-1", h.ID); !errors.Is(err, model.ErrHoldNotFound) {
		t.Fatalf("want ErrHoldNotFound after discard, got %v", err)
	}
}

func TestConfirmHold(t *testing.T) {
	t.Parallel()

	t.Run("promotes hold into confirmed booking", func(t *testing.T) {
		f := newHoldFixture(t)
		ctx := context.Background()

		h, err := f.mgr.RequestHold(ctx, "user-1", "field-1",
			mustInterval(t, "2026-07-01T09:00:00Z", "2026-07-01T10:00:00Z"))
		if err != nil {
			t.Fatalf("request hold: %v", err)
		}

		booking, err := f.mgr.Confirm(ctx, "user-1", h.ID)
		if err != nil {
			t.Fatalf("confirm: %v", err)
		}
		if booking.Kind != model.KindBooking || booking.Status != model.BookingConfirmed {
			t.Fatalf("booking = %+v, want confirmed booking", booking)
		}
		if booking.OwnerRef != "user-1" {
			t.Fatalf("owner = %q, want user-1", booking.OwnerRef)
		}
		stored, err := f.store.Get(ctx, booking.ID)
		if err != nil {
			t.Fatalf("booking not persisted: %v", err)
		}
		if !stored.Interval.Start.Equal(h.Interval.Start) {
			t.Fatalf("persisted interval = %+v, want the held slot", stored.Interval)
		}

		// The hold is consumed by confirmation.
		if _, err := f.mgr.Get(ctx, "user-1", h.ID); !errors.Is(err, model.ErrHoldNotFound) {
			t.Fatalf("hold should be consumed, got %v", err)
		}
	})

	t.Run("expired hold cannot confirm", func(t *testing.T) {
		f := newHoldFixture(t)
		ctx := context.Background()

		h, err := f.mgr.RequestHold(ctx, "user-1", "field-1",
			mustInterval(t, "2026-07-01T09:00:00Z", "2026-07-01T10:00:00Z"))
		if err != nil {
			t.Fatalf("request hold: %v", err)
		}

		f.clk.Advance(901 * time.Second)
		if _, err := f.mgr.Confirm(ctx, "user-1", h.ID); !errors.Is(err, model.ErrHoldExpired) {
			t.Fatalf("want ErrHoldExpired, got %v", err)
		}
		if len(f.store.commitments) != 0 {
			t.Fatal("no booking may be written for an expired hold")
		}
	})

	t.Run("losing an overlap race answers conflict", func(t *testing.T) {
		// Two shoppers hold overlapping slots at once. Both holds are
		// granted; only the first confirmation wins.
		store := newFakeStore()
		clk := clock.NewFixed(time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC))
		catalog := newFakeCatalog("field-1")
		mgr1 := NewHoldManager(holdstore.NewMemoryStore(), store, catalog, clk)
		mgr2 := NewHoldManager(holdstore.NewMemoryStore(), store, catalog, clk)
		ctx := context.Background()

		h1, err := mgr1.RequestHold(ctx, "user-1", "field-1",
			mustInterval(t, "2026-07-01T09:00:00Z", "2026-07-01T10:00:00Z"))
		if err != nil {
			t.Fatalf("first hold: %v", err)
		}
		h2, err := mgr2.RequestHold(ctx, "user-2", "field-1",
			mustInterval(t, "2026-07-01T09:30:00Z", "2026-07-01T10:30:00Z"))
		if err != nil {
			t.Fatalf("second hold should coexist with the first: %v", err)
		}

		winner, err := mgr1.Confirm(ctx, "user-1", h1.ID)
		if err != nil {
			t.Fatalf("first confirm: %v", err)
		}

		_, err = mgr2.Confirm(ctx, "user-2", h2.ID)
		var ce *model.ConflictError
		if !errors.As(err, &ce) {
			t.Fatalf("losing confirm must answer ConflictError, got %v", err)
		}
		if len(ce.Report.ConfirmedBookings) != 1 || ce.Report.ConfirmedBookings[0].CommitmentID != winner.ID {
			t.Fatalf("conflict report = %+v, want the winning booking", ce.Report)
		}
		if len(store.commitments) != 1 {
			t.Fatalf("store has %d commitments, want the winner only", len(store.commitments))
		}
	})

	t.Run("unknown hold id", func(t *testing.T) {
		f := newHoldFixture(t)
		if _, err := f.mgr.Confirm(context.Background(), "user-1", "nope"); !errors.Is(err, model.ErrHoldNotFound) {
			t.Fatalf("want ErrHoldNotFound, got %v", err)
		}
	})

	t.Run("another owner's hold id is invisible", func(t *testing.T) {
		f := newHoldFixture(t)
		ctx := context.Background()

		h, err := f.mgr.RequestHold(ctx, "user-1", "field-1",
			mustInterval(t, "2026-07-01T09:00:00Z", "2026-07-01T10:00:00Z"))
		if err != nil {
			t.Fatalf("request hold: %v", err)
		}
		if _, err := f.mgr.Confirm(ctx, "user-2", h.ID); !errors.Is(err, model.ErrHoldNotFound) {
			t.Fatalf("want ErrHoldNotFound for a foreign hold, got %v", err)
		}
	})
}

func TestCancelHold(t *testing.T) {
	t.Parallel()

	f := newHoldFixture(t)
	ctx := context.Background()

	h, err := f.mgr.RequestHold(ctx, "user-1", "field-1",
		mustInterval(t, "2026-07-01T09:00:00Z", "2026-07-01T10:00:00Z"))
	if err != nil {
		t.Fatalf("request hold: %v", err)
	}

	if err := f.mgr.Cancel(ctx, "user-1", h.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := f.mgr.Get(ctx, "user-1", h.ID); !errors.Is(err, model.ErrHoldNotFound) {
		t.Fatalf("hold should be gone, got %v", err)
	}

	// Cancelling again, or cancelling an unknown id, stays a no-op.
	if err := f.mgr.Cancel(ctx, "user-1", h.ID); err != nil {
		t.Fatalf("repeat cancel: %v", err)
	}
	if err := f.mgr.Cancel(ctx, "user-1", "nope"); err != nil {
		t.Fatalf("cancel unknown id: %v", err)
	}
}

func TestWithHoldTTL(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	clk := clock.NewFixed(time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC))
	mgr := NewHoldManager(holdstore.NewMemoryStore(), store, newFakeCatalog("field-1"), clk,
		WithHoldTTL(5*time.Minute))

	h, err := mgr.RequestHold(context.Background(), "user-1", "field-1",
		mustInterval(t, "2026-07-01T09:00:00Z", "2026-07-01T10:00:00Z"))
	if err != nil {
		t.Fatalf("request hold: %v", err)
	}
	if got := mgr.RemainingSeconds(h); got != 300 {
		t.Fatalf("remaining = %d, want 300", got)
	}
}
