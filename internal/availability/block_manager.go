package availability

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Jay210305/Fulbo-sub001/internal/clock"
	"github.com/Jay210305/Fulbo-sub001/internal/model"
)

// CommitmentStore is the full availability store contract the managers
// write through. WithTx must give serializable check-then-write semantics
// together with FieldCatalog.LockField.
type CommitmentStore interface {
	CommitmentSource
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Insert(ctx context.Context, c model.Commitment) error
	Remove(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (model.Commitment, error)
}

// FieldCatalog is the boundary to the external field catalog: existence
// checks plus the per-field lock that serializes writers.
type FieldCatalog interface {
	Exists(ctx context.Context, fieldID string) (bool, error)
	LockField(ctx context.Context, fieldID string) error
}

// BlockManager creates and removes schedule blocks. A block is only
// admitted when no booking or other block overlaps it; the engine never
// cancels bookings to make room.
type BlockManager struct {
	store    CommitmentStore
	fields   FieldCatalog
	detector *Detector
	clock    clock.Clock
}

// NewBlockManager wires the block manager over the store and catalog.
func NewBlockManager(store CommitmentStore, fields FieldCatalog, clk clock.Clock) *BlockManager {
	return &BlockManager{
		store:    store,
		fields:   fields,
		detector: NewDetector(store),
		clock:    clk,
	}
}

// CreateBlockInput carries a manager's request to close out a time range.
type CreateBlockInput struct {
	FieldID    string
	Interval   model.Interval
	Reason     model.BlockReason
	Note       string
	ManagerRef string
}

// CreateBlock validates the request, then atomically re-checks conflicts and
// inserts the block. On overlap nothing is written and the returned error is
// a *model.ConflictError listing every conflicting commitment, partitioned
// so the UI can show "cancel these bookings first" separately from "a block
// already covers this range".
func (m *BlockManager) CreateBlock(ctx context.Context, in CreateBlockInput) (model.Commitment, error) {
	if err := in.Interval.Validate(); err != nil {
		return model.Commitment{}, err
	}
	if !model.ValidBlockReason(in.Reason) {
		return model.Commitment{}, model.ErrInvalidReason
	}

	var created model.Commitment
	err := m.store.WithTx(ctx, func(ctx context.Context) error {
		if err := m.fields.LockField(ctx, in.FieldID); err != nil {
			return err
		}
		report, err := m.detector.Detect(ctx, in.FieldID, in.Interval, "")
		if err != nil {
			return err
		}
		if !report.Empty() {
			return &model.ConflictError{Report: report}
		}
		created = model.Commitment{
			ID:        uuid.NewString(),
			FieldID:   in.FieldID,
			Interval:  in.Interval,
			Kind:      model.KindBlock,
			Reason:    in.Reason,
			Note:      in.Note,
			OwnerRef:  in.ManagerRef,
			CreatedAt: m.clock.Now(),
		}
		return m.store.Insert(ctx, created)
	})
	if err != nil {
		return model.Commitment{}, err
	}
	return created, nil
}

// DeleteBlock removes a schedule block. Bookings are never touched: an id
// naming a booking is reported as model.ErrBlockNotFound just like an absent
// one, so repeat deletes stay harmless for callers that treat not-found as
// already satisfied.
func (m *BlockManager) DeleteBlock(ctx context.Context, blockID string) error {
	return m.store.WithTx(ctx, func(ctx context.Context) error {
		c, err := m.store.Get(ctx, blockID)
		if errors.Is(err, model.ErrCommitmentNotFound) {
			return model.ErrBlockNotFound
		}
		if err != nil {
			return err
		}
		if c.Kind != model.KindBlock {
			return model.ErrBlockNotFound
		}
		if err := m.store.Remove(ctx, blockID); err != nil {
			if errors.Is(err, model.ErrCommitmentNotFound) {
				return model.ErrBlockNotFound
			}
			return err
		}
		return nil
	})
}

// BlocksInWindow lists the field's schedule blocks overlapping the window,
// ordered by start time.
func (m *BlockManager) BlocksInWindow(ctx context.Context, fieldID string, window model.Interval) ([]model.Commitment, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	all, err := m.store.CommitmentsFor(ctx, fieldID, window)
	if err != nil {
		return nil, err
	}
	blocks := make([]model.Commitment, 0, len(all))
	for _, c := range all {
		if c.Kind == model.KindBlock {
			blocks = append(blocks, c)
		}
	}
	return blocks, nil
}

// DatesWithBlocks projects the field's blocks within the window onto the UTC
// calendar days they touch, for calendar highlighting. The projection is
// end-exclusive: a block ending exactly at midnight does not mark the
// following day. Returned days are midnight instants, sorted ascending.
func (m *BlockManager) DatesWithBlocks(ctx context.Context, fieldID string, window model.Interval) ([]time.Time, error) {
	blocks, err := m.BlocksInWindow(ctx, fieldID, window)
	if err != nil {
		return nil, err
	}

	days := make(map[time.Time]struct{})
	for _, b := range blocks {
		start := b.Interval.Start
		if start.Before(window.Start) {
			start = window.Start
		}
		end := b.Interval.End
		if end.After(window.End) {
			end = window.End
		}
		for d := startOfDay(start); d.Before(end); d = d.AddDate(0, 0, 1) {
			days[d] = struct{}{}
		}
	}

	out := make([]time.Time, 0, len(days))
	for d := range days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
