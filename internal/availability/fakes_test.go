package availability

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/Jay210305/Fulbo-sub001/internal/model"
)

func mustInterval(t *testing.T, start, end string) model.Interval {
	t.Helper()
	s, err := time.Parse(time.RFC3339, start)
	if err != nil {
		t.Fatalf("parse start: %v", err)
	}
	e, err := time.Parse(time.RFC3339, end)
	if err != nil {
		t.Fatalf("parse end: %v", err)
	}
	iv, err := model.NewInterval(s, e)
	if err != nil {
		t.Fatalf("new interval: %v", err)
	}
	return iv
}

func confirmedBooking(t *testing.T, id, fieldID, owner, start, end string) model.Commitment {
	t.Helper()
	return model.Commitment{
		ID:       id,
		FieldID:  fieldID,
		Interval: mustInterval(t, start, end),
		Kind:     model.KindBooking,
		Status:   model.BookingConfirmed,
		OwnerRef: owner,
	}
}

func scheduleBlock(t *testing.T, id, fieldID, manager, start, end string) model.Commitment {
	t.Helper()
	return model.Commitment{
		ID:       id,
		FieldID:  fieldID,
		Interval: mustInterval(t, start, end),
		Kind:     model.KindBlock,
		Reason:   model.ReasonMaintenance,
		OwnerRef: manager,
	}
}

// fakeStore is an in-memory CommitmentStore for manager tests. WithTx runs
// fn directly: the tests exercise ordering by calling the managers
// sequentially, which is exactly what the per-field lock guarantees in
// production.
type fakeStore struct {
	commitments map[string]model.Commitment
}

func newFakeStore(seed ...model.Commitment) *fakeStore {
	s := &fakeStore{commitments: make(map[string]model.Commitment)}
	for _, c := range seed {
		s.commitments[c.ID] = c
	}
	return s
}

func (s *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *fakeStore) CommitmentsFor(_ context.Context, fieldID string, window model.Interval) ([]model.Commitment, error) {
	var out []model.Commitment
	for _, c := range s.commitments {
		if c.FieldID == fieldID && c.Interval.Overlaps(window) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Interval.Start.Before(out[j].Interval.Start) })
	return out, nil
}

func (s *fakeStore) Insert(_ context.Context, c model.Commitment) error {
	if _, exists := s.commitments[c.ID]; exists {
		return model.ErrDuplicateID
	}
	s.commitments[c.ID] = c
	return nil
}

func (s *fakeStore) Remove(_ context.Context, id string) error {
	if _, exists := s.commitments[id]; !exists {
		return model.ErrCommitmentNotFound
	}
	delete(s.commitments, id)
	return nil
}

func (s *fakeStore) Get(_ context.Context, id string) (model.Commitment, error) {
	c, ok := s.commitments[id]
	if !ok {
		return model.Commitment{}, model.ErrCommitmentNotFound
	}
	return c, nil
}

// fakeCatalog stands in for the external field catalog.
type fakeCatalog struct {
	fields map[string]bool
}

func newFakeCatalog(ids ...string) *fakeCatalog {
	f := &fakeCatalog{fields: make(map[string]bool)}
	for _, id := range ids {
		f.fields[id] = true
	}
	return f
}

func (f *fakeCatalog) Exists(_ context.Context, fieldID string) (bool, error) {
	return f.fields[fieldID], nil
}

func (f *fakeCatalog) LockField(_ context.Context, fieldID string) error {
	if !f.fields[fieldID] {
		return model.ErrFieldNotFound
	}
	return nil
}
