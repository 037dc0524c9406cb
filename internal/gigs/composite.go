package gigs

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/gigs/reconcile"
	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/models"
)

// Store interfaces are narrow so the writer can be exercised against fakes.
// *Repository satisfies all of them.

// GigStore persists the gig's own row.
type GigStore interface {
	InsertGig(ctx context.Context, orgID, createdBy uuid.UUID, core *GigCore) (uuid.UUID, error)
	UpdateGigCore(ctx context.Context, id uuid.UUID, core *GigCore) error
}

// ParticipantStore persists participant rows.
type ParticipantStore interface {
	InsertParticipant(ctx context.Context, gigID uuid.UUID, w reconcile.ParticipantWrite) (uuid.UUID, error)
	UpdateParticipant(ctx context.Context, w reconcile.ParticipantWrite) error
	DeleteParticipant(ctx context.Context, id uuid.UUID) error
}

// SlotStore persists staff slot and assignment rows.
type SlotStore interface {
	InsertSlot(ctx context.Context, gigID uuid.UUID, w reconcile.SlotWrite) (uuid.UUID, error)
	UpdateSlot(ctx context.Context, w reconcile.SlotWrite) error
	DeleteSlot(ctx context.Context, id uuid.UUID) error
	InsertAssignment(ctx context.Context, slotID uuid.UUID, w reconcile.AssignmentWrite) (uuid.UUID, error)
	UpdateAssignment(ctx context.Context, w reconcile.AssignmentWrite) error
	DeleteAssignment(ctx context.Context, id uuid.UUID) error
}

// BidStore persists bid rows for the composite save.
type BidStore interface {
	InsertBid(ctx context.Context, gigID, orgID uuid.UUID, w reconcile.BidWrite) (uuid.UUID, error)
	UpdateBid(ctx context.Context, w reconcile.BidWrite) error
}

// KitAssignmentStore persists gig-kit link rows for the composite save.
type KitAssignmentStore interface {
	InsertKitAssignment(ctx context.Context, gigID, orgID uuid.UUID, w reconcile.KitWrite) (uuid.UUID, error)
	UpdateKitAssignment(ctx context.Context, w reconcile.KitWrite) error
}

// SectionResult reports one sub-resource section of a composite save. IDs are
// the persisted ids in submitted order (inserted rows get their new id echoed
// back, so a client retry after partial failure updates in place instead of
// duplicating). Error is set when the section failed partway; the ids
// collected before the failure are still reported.
type SectionResult struct {
	IDs   []uuid.UUID `json:"ids,omitempty"`
	Error string      `json:"error,omitempty"`
}

// SaveResult is the per-section outcome of one composite save.
type SaveResult struct {
	GigID        uuid.UUID     `json:"gig_id"`
	Gig          SectionResult `json:"gig"`
	Participants SectionResult `json:"participants"`
	Slots        SectionResult `json:"staff_slots"`
	Assignments  SectionResult `json:"staff_assignments"`
	Bids         SectionResult `json:"bids"`
	Kits         SectionResult `json:"kit_assignments"`
}

// Failed reports whether any section recorded an error.
func (r *SaveResult) Failed() bool {
	return r.Gig.Error != "" || r.Participants.Error != "" || r.Slots.Error != "" ||
		r.Assignments.Error != "" || r.Bids.Error != "" || r.Kits.Error != ""
}

// Applied reports whether anything was actually written: the core row, or at
// least one sub-resource row. A fully failed save applies nothing.
func (r *SaveResult) Applied() bool {
	if r.Gig.Error == "" {
		return true
	}
	for _, s := range []SectionResult{r.Participants, r.Slots, r.Assignments, r.Bids, r.Kits} {
		if len(s.IDs) > 0 {
			return true
		}
	}
	return false
}

// SaveInput is the reconciled form ready to be written.
type SaveInput struct {
	GigID          uuid.UUID // zero when creating
	OrganizationID uuid.UUID
	CreatedBy      uuid.UUID
	Core           *GigCore
	Participants   reconcile.ParticipantSet
	Slots          reconcile.SlotSet
	Bids           []reconcile.BidWrite
	Kits           []reconcile.KitWrite
}

// CompositeWriter sequences the sub-resource writes of a gig save: gig core,
// then participants, staff slots with their assignments, bids, kit
// assignments. The sequence is best-effort and non-transactional: a failed
// section is recorded and the remaining sections still run; nothing is rolled
// back. Within a section each row is written independently so one bad row does
// not abandon its siblings.
type CompositeWriter struct {
	gigs         GigStore
	participants ParticipantStore
	slots        SlotStore
	bids         BidStore
	kits         KitAssignmentStore
	logger       *zap.Logger
}

// NewCompositeWriter creates a writer over the given stores.
func NewCompositeWriter(gigs GigStore, participants ParticipantStore, slots SlotStore, bids BidStore, kits KitAssignmentStore, logger *zap.Logger) *CompositeWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompositeWriter{gigs: gigs, participants: participants, slots: slots, bids: bids, kits: kits, logger: logger}
}

// Save runs the composite write sequence. When creating, a failed gig insert
// aborts the whole save since the sub-resources have nothing to attach to; on
// update a failed core write does not stop the sub-resource sections.
func (w *CompositeWriter) Save(ctx context.Context, in SaveInput) *SaveResult {
	res := &SaveResult{GigID: in.GigID}
	creating := in.GigID == uuid.Nil

	if creating {
		id, err := w.gigs.InsertGig(ctx, in.OrganizationID, in.CreatedBy, in.Core)
		if err != nil {
			w.logger.Error("gig insert failed", zap.Error(err))
			res.Gig.Error = err.Error()
			return res
		}
		res.GigID = id
		res.Gig.IDs = []uuid.UUID{id}
	} else {
		if err := w.gigs.UpdateGigCore(ctx, in.GigID, in.Core); err != nil {
			w.logger.Error("gig core update failed", zap.String("gig_id", in.GigID.String()), zap.Error(err))
			res.Gig.Error = err.Error()
		} else {
			res.Gig.IDs = []uuid.UUID{in.GigID}
		}
	}
	gigID := res.GigID

	w.saveParticipants(ctx, gigID, in.Participants, &res.Participants)
	w.saveSlots(ctx, gigID, in.Slots, &res.Slots, &res.Assignments)
	w.saveBids(ctx, gigID, in.OrganizationID, in.Bids, &res.Bids)
	w.saveKits(ctx, gigID, in.OrganizationID, in.Kits, &res.Kits)
	return res
}

func (w *CompositeWriter) saveParticipants(ctx context.Context, gigID uuid.UUID, set reconcile.ParticipantSet, out *SectionResult) {
	for _, pw := range set.Writes {
		if pw.Identity == reconcile.Persisted {
			if err := w.participants.UpdateParticipant(ctx, pw); err != nil {
				w.sectionErr(out, "participant update failed", err)
				continue
			}
			out.IDs = append(out.IDs, pw.ID)
			continue
		}
		id, err := w.participants.InsertParticipant(ctx, gigID, pw)
		if err != nil {
			w.sectionErr(out, "participant insert failed", err)
			continue
		}
		out.IDs = append(out.IDs, id)
	}
	for _, id := range set.Deletes {
		if err := w.participants.DeleteParticipant(ctx, id); err != nil {
			w.sectionErr(out, "participant delete failed", err)
		}
	}
}

func (w *CompositeWriter) saveSlots(ctx context.Context, gigID uuid.UUID, set reconcile.SlotSet, slotsOut, seatsOut *SectionResult) {
	for _, sw := range set.Writes {
		slotID := sw.ID
		if sw.Identity == reconcile.Persisted {
			if err := w.slots.UpdateSlot(ctx, sw); err != nil {
				w.sectionErr(slotsOut, "slot update failed", err)
				continue
			}
		} else {
			// local slot: the server-assigned id becomes the parent for its seats
			id, err := w.slots.InsertSlot(ctx, gigID, sw)
			if err != nil {
				w.sectionErr(slotsOut, "slot insert failed", err)
				continue
			}
			slotID = id
		}
		slotsOut.IDs = append(slotsOut.IDs, slotID)

		for _, aw := range sw.Assignments {
			if aw.Identity == reconcile.Persisted {
				if err := w.slots.UpdateAssignment(ctx, aw); err != nil {
					w.sectionErr(seatsOut, "assignment update failed", err)
					continue
				}
				seatsOut.IDs = append(seatsOut.IDs, aw.ID)
				continue
			}
			id, err := w.slots.InsertAssignment(ctx, slotID, aw)
			if err != nil {
				w.sectionErr(seatsOut, "assignment insert failed", err)
				continue
			}
			seatsOut.IDs = append(seatsOut.IDs, id)
		}
		for _, id := range sw.AssignmentDeletes {
			if err := w.slots.DeleteAssignment(ctx, id); err != nil {
				w.sectionErr(seatsOut, "assignment delete failed", err)
			}
		}
	}
	for _, id := range set.SlotDeletes {
		if err := w.slots.DeleteSlot(ctx, id); err != nil {
			w.sectionErr(slotsOut, "slot delete failed", err)
		}
	}
}

func (w *CompositeWriter) saveBids(ctx context.Context, gigID, orgID uuid.UUID, writes []reconcile.BidWrite, out *SectionResult) {
	for _, bw := range writes {
		if bw.Identity == reconcile.Persisted {
			if err := w.bids.UpdateBid(ctx, bw); err != nil {
				w.sectionErr(out, "bid update failed", err)
				continue
			}
			out.IDs = append(out.IDs, bw.ID)
			continue
		}
		id, err := w.bids.InsertBid(ctx, gigID, orgID, bw)
		if err != nil {
			w.sectionErr(out, "bid insert failed", err)
			continue
		}
		out.IDs = append(out.IDs, id)
	}
}

func (w *CompositeWriter) saveKits(ctx context.Context, gigID, orgID uuid.UUID, writes []reconcile.KitWrite, out *SectionResult) {
	for _, kw := range writes {
		if kw.Identity == reconcile.Persisted {
			if err := w.kits.UpdateKitAssignment(ctx, kw); err != nil {
				w.sectionErr(out, "kit assignment update failed", err)
				continue
			}
			out.IDs = append(out.IDs, kw.ID)
			continue
		}
		id, err := w.kits.InsertKitAssignment(ctx, gigID, orgID, kw)
		if err != nil {
			w.sectionErr(out, "kit assignment insert failed", err)
			continue
		}
		out.IDs = append(out.IDs, id)
	}
}

func (w *CompositeWriter) sectionErr(out *SectionResult, msg string, err error) {
	w.logger.Warn(msg, zap.Error(err))
	// keep the first error per section, later rows still run
	if out.Error == "" {
		out.Error = err.Error()
	}
}

// GigComposite is the full nested tree returned by GET /gigs/:id and after a
// fully successful composite save.
type GigComposite struct {
	models.Gig
	Participants   []models.Participant   `json:"participants"`
	StaffSlots     []models.StaffSlot     `json:"staff_slots"`
	Bids           []models.Bid           `json:"bids"`
	KitAssignments []models.KitAssignment `json:"kit_assignments"`
}
