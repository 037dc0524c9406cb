package gigs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/gigs/reconcile"
)

// In-memory stores for exercising the writer without a database.

type fakeGigStore struct {
	insertErr error
	updateErr error
	inserted  []uuid.UUID
	updated   []uuid.UUID
}

func (f *fakeGigStore) InsertGig(_ context.Context, _, _ uuid.UUID, _ *GigCore) (uuid.UUID, error) {
	if f.insertErr != nil {
		return uuid.Nil, f.insertErr
	}
	id := uuid.New()
	f.inserted = append(f.inserted, id)
	return id, nil
}

func (f *fakeGigStore) UpdateGigCore(_ context.Context, id uuid.UUID, _ *GigCore) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, id)
	return nil
}

type fakeParticipantStore struct {
	inserted []uuid.UUID
	updated  []uuid.UUID
	deleted  []uuid.UUID
}

func (f *fakeParticipantStore) InsertParticipant(_ context.Context, _ uuid.UUID, _ reconcile.ParticipantWrite) (uuid.UUID, error) {
	id := uuid.New()
	f.inserted = append(f.inserted, id)
	return id, nil
}

func (f *fakeParticipantStore) UpdateParticipant(_ context.Context, w reconcile.ParticipantWrite) error {
	f.updated = append(f.updated, w.ID)
	return nil
}

func (f *fakeParticipantStore) DeleteParticipant(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeSlotStore struct {
	slotErr      error
	insertedSlot []uuid.UUID
	seatParents  []uuid.UUID
	insertedSeat []uuid.UUID
	updatedSeat  []uuid.UUID
	deletedSeat  []uuid.UUID
	deletedSlot  []uuid.UUID
}

func (f *fakeSlotStore) InsertSlot(_ context.Context, _ uuid.UUID, _ reconcile.SlotWrite) (uuid.UUID, error) {
	if f.slotErr != nil {
		return uuid.Nil, f.slotErr
	}
	id := uuid.New()
	f.insertedSlot = append(f.insertedSlot, id)
	return id, nil
}

func (f *fakeSlotStore) UpdateSlot(_ context.Context, _ reconcile.SlotWrite) error { return nil }

func (f *fakeSlotStore) DeleteSlot(_ context.Context, id uuid.UUID) error {
	f.deletedSlot = append(f.deletedSlot, id)
	return nil
}

func (f *fakeSlotStore) InsertAssignment(_ context.Context, slotID uuid.UUID, _ reconcile.AssignmentWrite) (uuid.UUID, error) {
	id := uuid.New()
	f.seatParents = append(f.seatParents, slotID)
	f.insertedSeat = append(f.insertedSeat, id)
	return id, nil
}

func (f *fakeSlotStore) UpdateAssignment(_ context.Context, w reconcile.AssignmentWrite) error {
	f.updatedSeat = append(f.updatedSeat, w.ID)
	return nil
}

func (f *fakeSlotStore) DeleteAssignment(_ context.Context, id uuid.UUID) error {
	f.deletedSeat = append(f.deletedSeat, id)
	return nil
}

// fakeBidStore fails inserts for ids listed in failOn, simulating a network
// error partway through the bids loop.
type fakeBidStore struct {
	failInsertAfter int // fail inserts once this many have succeeded; -1 disables
	insertCalls     int
	rows            map[uuid.UUID]reconcile.BidWrite
}

func newFakeBidStore() *fakeBidStore {
	return &fakeBidStore{failInsertAfter: -1, rows: make(map[uuid.UUID]reconcile.BidWrite)}
}

func (f *fakeBidStore) InsertBid(_ context.Context, _, _ uuid.UUID, w reconcile.BidWrite) (uuid.UUID, error) {
	if f.failInsertAfter >= 0 && f.insertCalls >= f.failInsertAfter {
		return uuid.Nil, errors.New("connection reset")
	}
	f.insertCalls++
	id := uuid.New()
	f.rows[id] = w
	return id, nil
}

func (f *fakeBidStore) UpdateBid(_ context.Context, w reconcile.BidWrite) error {
	if _, ok := f.rows[w.ID]; !ok {
		return errors.New("bid not found")
	}
	f.rows[w.ID] = w
	return nil
}

type fakeKitStore struct {
	inserted []uuid.UUID
	updated  []uuid.UUID
}

func (f *fakeKitStore) InsertKitAssignment(_ context.Context, _, _ uuid.UUID, _ reconcile.KitWrite) (uuid.UUID, error) {
	id := uuid.New()
	f.inserted = append(f.inserted, id)
	return id, nil
}

func (f *fakeKitStore) UpdateKitAssignment(_ context.Context, w reconcile.KitWrite) error {
	f.updated = append(f.updated, w.ID)
	return nil
}

type fixture struct {
	gigs         *fakeGigStore
	participants *fakeParticipantStore
	slots        *fakeSlotStore
	bids         *fakeBidStore
	kits         *fakeKitStore
	writer       *CompositeWriter
}

func newFixture() *fixture {
	f := &fixture{
		gigs:         &fakeGigStore{},
		participants: &fakeParticipantStore{},
		slots:        &fakeSlotStore{},
		bids:         newFakeBidStore(),
		kits:         &fakeKitStore{},
	}
	f.writer = NewCompositeWriter(f.gigs, f.participants, f.slots, f.bids, f.kits, nil)
	return f
}

func baseCore() *GigCore {
	return &GigCore{Title: "Club Night", StartsAt: time.Now(), Status: "booked"}
}

func TestSave_CreateWritesAllSections(t *testing.T) {
	f := newFixture()
	in := SaveInput{
		OrganizationID: uuid.New(),
		CreatedBy:      uuid.New(),
		Core:           baseCore(),
		Participants: reconcile.ParticipantSet{
			Writes: []reconcile.ParticipantWrite{
				{Identity: reconcile.Local, OrganizationID: uuid.New(), Role: "Owner"},
			},
		},
		Slots: reconcile.SlotSet{
			Writes: []reconcile.SlotWrite{
				{
					Identity: reconcile.Local, Role: "Sound", RequiredCount: 1,
					Assignments: []reconcile.AssignmentWrite{
						{Identity: reconcile.Local, UserID: uuid.New()},
					},
				},
			},
		},
		Bids: []reconcile.BidWrite{{Identity: reconcile.Local}},
		Kits: []reconcile.KitWrite{{Identity: reconcile.Local, KitID: uuid.New()}},
	}

	res := f.writer.Save(context.Background(), in)
	require.False(t, res.Failed())
	assert.NotEqual(t, uuid.Nil, res.GigID)
	assert.Len(t, res.Participants.IDs, 1)
	assert.Len(t, res.Slots.IDs, 1)
	assert.Len(t, res.Assignments.IDs, 1)
	assert.Len(t, res.Bids.IDs, 1)
	assert.Len(t, res.Kits.IDs, 1)

	// seat was attached to the server-assigned slot id
	require.Len(t, f.slots.seatParents, 1)
	assert.Equal(t, f.slots.insertedSlot[0], f.slots.seatParents[0])
}

func TestSave_CreateAbortsWhenGigInsertFails(t *testing.T) {
	f := newFixture()
	f.gigs.insertErr = errors.New("unique violation")
	res := f.writer.Save(context.Background(), SaveInput{
		OrganizationID: uuid.New(),
		CreatedBy:      uuid.New(),
		Core:           baseCore(),
		Bids:           []reconcile.BidWrite{{Identity: reconcile.Local}},
	})
	assert.True(t, res.Failed())
	assert.NotEmpty(t, res.Gig.Error)
	assert.Empty(t, res.Bids.IDs)
	assert.Equal(t, 0, f.bids.insertCalls)
}

func TestSave_UpdateCoreFailureDoesNotBlockSubResources(t *testing.T) {
	f := newFixture()
	f.gigs.updateErr = errors.New("deadlock detected")
	res := f.writer.Save(context.Background(), SaveInput{
		GigID:          uuid.New(),
		OrganizationID: uuid.New(),
		Core:           baseCore(),
		Bids:           []reconcile.BidWrite{{Identity: reconcile.Local}},
	})
	assert.True(t, res.Failed())
	assert.NotEmpty(t, res.Gig.Error)
	assert.Len(t, res.Bids.IDs, 1)
	assert.Empty(t, res.Bids.Error)
}

func TestSave_SlotInsertFailureSkipsItsSeatsOnly(t *testing.T) {
	f := newFixture()
	f.slots.slotErr = errors.New("timeout")
	res := f.writer.Save(context.Background(), SaveInput{
		GigID:          uuid.New(),
		OrganizationID: uuid.New(),
		Core:           baseCore(),
		Slots: reconcile.SlotSet{
			Writes: []reconcile.SlotWrite{
				{
					Identity: reconcile.Local, Role: "Lighting",
					Assignments: []reconcile.AssignmentWrite{
						{Identity: reconcile.Local, UserID: uuid.New()},
					},
				},
			},
		},
		Kits: []reconcile.KitWrite{{Identity: reconcile.Local, KitID: uuid.New()}},
	})
	assert.True(t, res.Failed())
	assert.NotEmpty(t, res.Slots.Error)
	assert.Empty(t, res.Assignments.IDs)
	// later sections still ran
	assert.Len(t, res.Kits.IDs, 1)
}

func TestSave_DeletesRunAfterWrites(t *testing.T) {
	f := newFixture()
	gone := uuid.New()
	goneSlot := uuid.New()
	res := f.writer.Save(context.Background(), SaveInput{
		GigID:          uuid.New(),
		OrganizationID: uuid.New(),
		Core:           baseCore(),
		Participants:   reconcile.ParticipantSet{Deletes: []uuid.UUID{gone}},
		Slots:          reconcile.SlotSet{SlotDeletes: []uuid.UUID{goneSlot}},
	})
	require.False(t, res.Failed())
	assert.Equal(t, []uuid.UUID{gone}, f.participants.deleted)
	assert.Equal(t, []uuid.UUID{goneSlot}, f.slots.deletedSlot)
}

// Partial bid failure followed by a resubmit with the echoed id must update the
// already-persisted bid in place, not duplicate it.
func TestSave_BidRetryAfterPartialFailureDoesNotDuplicate(t *testing.T) {
	f := newFixture()
	f.bids.failInsertAfter = 1
	gigID := uuid.New()
	orgID := uuid.New()

	amount1 := int64(50000)
	amount2 := int64(75000)
	first := reconcile.BidWrite{Identity: reconcile.Local, AmountCents: &amount1}
	second := reconcile.BidWrite{Identity: reconcile.Local, AmountCents: &amount2}

	res := f.writer.Save(context.Background(), SaveInput{
		GigID: gigID, OrganizationID: orgID, Core: baseCore(),
		Bids: []reconcile.BidWrite{first, second},
	})
	assert.True(t, res.Failed())
	require.Len(t, res.Bids.IDs, 1)
	assert.Equal(t, "connection reset", res.Bids.Error)
	require.Len(t, f.bids.rows, 1)

	// resubmit: the first bid now carries its persisted id, the second retries
	f.bids.failInsertAfter = -1
	first.Identity = reconcile.Persisted
	first.ID = res.Bids.IDs[0]
	retry := f.writer.Save(context.Background(), SaveInput{
		GigID: gigID, OrganizationID: orgID, Core: baseCore(),
		Bids: []reconcile.BidWrite{first, second},
	})
	require.False(t, retry.Failed())
	require.Len(t, retry.Bids.IDs, 2)
	assert.Equal(t, first.ID, retry.Bids.IDs[0])
	assert.Len(t, f.bids.rows, 2)
}

func TestSaveResult_Applied(t *testing.T) {
	f := newFixture()
	f.gigs.updateErr = errors.New("deadlock detected")

	// core failed and nothing else was submitted: nothing changed
	res := f.writer.Save(context.Background(), SaveInput{
		GigID: uuid.New(), OrganizationID: uuid.New(), Core: baseCore(),
	})
	assert.True(t, res.Failed())
	assert.False(t, res.Applied())

	// core failed but a bid row was still written
	res = f.writer.Save(context.Background(), SaveInput{
		GigID: uuid.New(), OrganizationID: uuid.New(), Core: baseCore(),
		Bids: []reconcile.BidWrite{{Identity: reconcile.Local}},
	})
	assert.True(t, res.Failed())
	assert.True(t, res.Applied())

	// clean save
	f.gigs.updateErr = nil
	res = f.writer.Save(context.Background(), SaveInput{
		GigID: uuid.New(), OrganizationID: uuid.New(), Core: baseCore(),
	})
	assert.False(t, res.Failed())
	assert.True(t, res.Applied())
}
