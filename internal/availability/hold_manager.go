package availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Jay210305/Fulbo-sub001/internal/clock"
	"github.com/Jay210305/Fulbo-sub001/internal/model"
)

// HoldStore keeps the ephemeral per-owner holds. Implementations key by
// OwnerRef so that Put atomically replaces any previous hold for the same
// owner, which is what enforces the at-most-one-active-hold invariant.
type HoldStore interface {
	// Get returns the owner's current hold, or nil when there is none.
	Get(ctx context.Context, ownerRef string) (*model.Hold, error)
	// Put stores the hold under its OwnerRef, replacing any existing one.
	// ttl caps how long the entry may outlive its ExpiresAt bookkeeping.
	Put(ctx context.Context, h model.Hold, ttl time.Duration) error
	// Delete removes the owner's hold; absent is not an error.
	Delete(ctx context.Context, ownerRef string) error
}

const defaultHoldTTL = 15 * time.Minute

// HoldManager runs the reservation-hold state machine per owner:
// NoHold -> Active -> {Confirmed, Expired, Cancelled}.
//
// Holds are optimistic: they are never written to the durable store, so two
// owners can simultaneously hold overlapping slots. Real exclusivity is
// decided at Confirm, where the re-check inside the store transaction lets
// only one of the racing confirmations through.
type HoldManager struct {
	holds    HoldStore
	store    CommitmentStore
	fields   FieldCatalog
	detector *Detector
	clock    clock.Clock
	ttl      time.Duration
}

// HoldManagerOption customises a HoldManager.
type HoldManagerOption func(*HoldManager)

// WithHoldTTL overrides the default 15 minute hold lifetime.
func WithHoldTTL(d time.Duration) HoldManagerOption {
	return func(m *HoldManager) {
		if d > 0 {
			m.ttl = d
		}
	}
}

// NewHoldManager wires the hold manager over the hold store and the durable
// availability store.
func NewHoldManager(holds HoldStore, store CommitmentStore, fields FieldCatalog, clk clock.Clock, opts ...HoldManagerOption) *HoldManager {
	m := &HoldManager{
		holds:    holds,
		store:    store,
		fields:   fields,
		detector: NewDetector(store),
		clock:    clk,
		ttl:      defaultHoldTTL,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RequestHold grants the owner a time-boxed exclusive claim on a field slot.
// Confirmed bookings and blocks reject the request with a *model.ConflictError;
// pending bookings and other owners' holds do not (they are arbitrated at
// confirm time). Any prior active hold of this owner is replaced atomically.
func (m *HoldManager) RequestHold(ctx context.Context, ownerRef, fieldID string, iv model.Interval) (model.Hold, error) {
	if err := iv.Validate(); err != nil {
		return model.Hold{}, err
	}
	ok, err := m.fields.Exists(ctx, fieldID)
	if err != nil {
		return model.Hold{}, err
	}
	if !ok {
		return model.Hold{}, model.ErrFieldNotFound
	}

	report, err := m.detector.Detect(ctx, fieldID, iv, "")
	if err != nil {
		return model.Hold{}, err
	}
	if report.BlocksHold() {
		return model.Hold{}, &model.ConflictError{Report: report}
	}

	now := m.clock.Now()
	hold := model.Hold{
		ID:        uuid.NewString(),
		FieldID:   fieldID,
		OwnerRef:  ownerRef,
		Interval:  iv,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
		State:     model.HoldActive,
	}
	if err := m.holds.Put(ctx, hold, m.ttl); err != nil {
		return model.Hold{}, err
	}
	return hold, nil
}

// Get returns the owner's hold when it matches holdID and is still active.
// A lapsed hold is treated as expired on read (model.ErrHoldExpired) and
// discarded; there is no background sweeper.
func (m *HoldManager) Get(ctx context.Context, ownerRef, holdID string) (model.Hold, error) {
	h, err := m.activeHold(ctx, ownerRef, holdID)
	if err != nil {
		return model.Hold{}, err
	}
	return *h, nil
}

// RemainingSeconds reports the whole seconds left on a hold, 0 once lapsed.
func (m *HoldManager) RemainingSeconds(h model.Hold) int {
	return h.RemainingSeconds(m.clock.Now())
}

// Confirm promotes an active, unexpired hold into a confirmed booking
// commitment. The conflict check is re-run inside the store transaction,
// after the field lock: a booking confirmed by someone else during the hold
// window surfaces here as a *model.ConflictError, and the loser must pick
// another slot. On success the hold is discarded.
func (m *HoldManager) Confirm(ctx context.Context, ownerRef, holdID string) (model.Commitment, error) {
	h, err := m.activeHold(ctx, ownerRef, holdID)
	if err != nil {
		return model.Commitment{}, err
	}

	var booking model.Commitment
	err = m.store.WithTx(ctx, func(ctx context.Context) error {
		if err := m.fields.LockField(ctx, h.FieldID); err != nil {
			return err
		}
		report, err := m.detector.Detect(ctx, h.FieldID, h.Interval, "")
		if err != nil {
			return err
		}
		if report.BlocksHold() {
			return &model.ConflictError{Report: report}
		}
		booking = model.Commitment{
			ID:        uuid.NewString(),
			FieldID:   h.FieldID,
			Interval:  h.Interval,
			Kind:      model.KindBooking,
			Status:    model.BookingConfirmed,
			OwnerRef:  ownerRef,
			CreatedAt: m.clock.Now(),
		}
		return m.store.Insert(ctx, booking)
	})
	if err != nil {
		return model.Commitment{}, err
	}

	// The slot is durably ours; the hold has served its purpose. A failed
	// delete only leaves a key that lapses on its own TTL.
	_ = m.holds.Delete(ctx, ownerRef)
	return booking, nil
}

// Cancel discards the owner's hold. Always succeeds and is idempotent: a
// missing or mismatched hold is already the desired end state.
func (m *HoldManager) Cancel(ctx context.Context, ownerRef, holdID string) error {
	h, err := m.holds.Get(ctx, ownerRef)
	if err != nil {
		return err
	}
	if h == nil || h.ID != holdID {
		return nil
	}
	return m.holds.Delete(ctx, ownerRef)
}

// activeHold loads the owner's hold, verifies the id, and applies computed
// expiry. Expired holds are deleted on sight.
func (m *HoldManager) activeHold(ctx context.Context, ownerRef, holdID string) (*model.Hold, error) {
	h, err := m.holds.Get(ctx, ownerRef)
	if err != nil {
		return nil, err
	}
	if h == nil || h.ID != holdID {
		return nil, model.ErrHoldNotFound
	}
	if h.Expired(m.clock.Now()) {
		_ = m.holds.Delete(ctx, ownerRef)
		return nil, model.ErrHoldExpired
	}
	return h, nil
}
