package gigs

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/gigs/reconcile"
	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/models"
	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/organizations"
	"github.com/corourke/Gigmanagerfigmamake-sub000/pkg/response"
)

// Context keys shared with middleware. Duplicated here to avoid an import cycle.
const (
	ctxUserID = "user_id"
	ctxGig    = "gig"
)

// Live-update event names published on the organization channel.
const (
	EventGigCreated = "gig_created"
	EventGigUpdated = "gig_updated"
	EventGigDeleted = "gig_deleted"
)

// EventPublisher pushes live-update events to an organization's subscribers.
// *realtime.Hub satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, orgID uuid.UUID, event string, data interface{}) error
}

// Handler handles gig HTTP endpoints.
type Handler struct {
	repo   *Repository
	orgs   *organizations.Repository
	writer *CompositeWriter
	events EventPublisher
	logger *zap.Logger
}

// NewHandler creates a gigs handler. events may be nil when live updates are
// disabled.
func NewHandler(repo *Repository, orgs *organizations.Repository, writer *CompositeWriter, events EventPublisher, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, orgs: orgs, writer: writer, events: events, logger: logger}
}

func (h *Handler) userID(c *gin.Context) uuid.UUID {
	id, _ := c.MustGet(ctxUserID).(uuid.UUID)
	return id
}

func (h *Handler) publish(c *gin.Context, orgID uuid.UUID, event string, data interface{}) {
	if h.events == nil {
		return
	}
	if err := h.events.Publish(c.Request.Context(), orgID, event, data); err != nil {
		h.logger.Warn("event publish failed", zap.String("event", event), zap.Error(err))
	}
}

// List handles GET /gigs?organization_id=...&status=...
func (h *Handler) List(c *gin.Context) {
	orgID, err := uuid.Parse(c.Query("organization_id"))
	if err != nil {
		response.BadRequest(c, "organization_id is required")
		return
	}
	member, err := h.orgs.UserIsMember(c.Request.Context(), orgID, h.userID(c))
	if err != nil {
		response.Internal(c, "failed to check membership")
		return
	}
	if !member {
		response.Forbidden(c, "not a member of this organization")
		return
	}

	status := models.GigStatus(c.Query("status"))
	if status != "" && !models.ValidGigStatus(status) {
		response.BadRequest(c, "unknown gig status")
		return
	}
	gigs, err := h.repo.ListByOrg(c.Request.Context(), orgID, status)
	if err != nil {
		h.logger.Error("list gigs failed", zap.Error(err))
		response.Internal(c, "failed to list gigs")
		return
	}
	response.OK(c, gigs)
}

// Create handles POST /gigs. The full nested form is accepted; sub-entity rows
// are reconciled the same way as on save.
func (h *Handler) Create(c *gin.Context) {
	var form GigForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	orgID, err := uuid.Parse(form.OrganizationID)
	if err != nil {
		response.BadRequest(c, "organization_id is required")
		return
	}
	userID := h.userID(c)
	canManage, err := h.orgs.UserCanManage(c.Request.Context(), orgID, userID)
	if err != nil {
		response.Internal(c, "failed to check membership")
		return
	}
	if !canManage {
		response.Forbidden(c, "requires owner or manager role")
		return
	}

	input, err := h.reconcileForm(&form, nil, orgID, true)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	input.OrganizationID = orgID
	input.CreatedBy = userID

	res := h.writer.Save(c.Request.Context(), *input)
	if res.Gig.Error != "" {
		response.Internal(c, res.Gig.Error)
		return
	}
	h.publish(c, orgID, EventGigCreated, gin.H{"gig_id": res.GigID})
	if res.Failed() {
		response.MultiStatus(c, res)
		return
	}
	comp, err := h.repo.GetComposite(c.Request.Context(), res.GigID)
	if err != nil {
		h.logger.Error("reload after create failed", zap.Error(err))
		response.MultiStatus(c, res)
		return
	}
	response.Created(c, comp)
}

// Get handles GET /gigs/:id. The access middleware already loaded the gig.
func (h *Handler) Get(c *gin.Context) {
	gig := c.MustGet(ctxGig).(*models.Gig)
	comp, err := h.repo.GetComposite(c.Request.Context(), gig.ID)
	if err != nil {
		h.logger.Error("load gig failed", zap.String("gig_id", gig.ID.String()), zap.Error(err))
		response.Internal(c, "failed to load gig")
		return
	}
	response.OK(c, comp)
}

// Save handles PUT /gigs/:id, the composite save.
func (h *Handler) Save(c *gin.Context) {
	gig := c.MustGet(ctxGig).(*models.Gig)

	var form GigForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	existing, err := h.repo.GetComposite(c.Request.Context(), gig.ID)
	if err != nil {
		response.Internal(c, "failed to load gig")
		return
	}
	input, err := h.reconcileForm(&form, existing, gig.OrganizationID, false)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	input.GigID = gig.ID
	input.OrganizationID = gig.OrganizationID

	res := h.writer.Save(c.Request.Context(), *input)
	if res.Applied() {
		h.publish(c, gig.OrganizationID, EventGigUpdated, gin.H{"gig_id": gig.ID})
	}
	if res.Failed() {
		response.MultiStatus(c, res)
		return
	}
	comp, err := h.repo.GetComposite(c.Request.Context(), gig.ID)
	if err != nil {
		h.logger.Error("reload after save failed", zap.Error(err))
		response.MultiStatus(c, res)
		return
	}
	response.OK(c, comp)
}

// Delete handles DELETE /gigs/:id.
func (h *Handler) Delete(c *gin.Context) {
	gig := c.MustGet(ctxGig).(*models.Gig)
	if err := h.repo.Delete(c.Request.Context(), gig.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "gig not found")
			return
		}
		h.logger.Error("delete gig failed", zap.Error(err))
		response.Internal(c, "failed to delete gig")
		return
	}
	h.publish(c, gig.OrganizationID, EventGigDeleted, gin.H{"gig_id": gig.ID})
	response.NoContent(c)
}

// DeleteBid handles DELETE /gigs/:id/bids/:bidId.
func (h *Handler) DeleteBid(c *gin.Context) {
	gig := c.MustGet(ctxGig).(*models.Gig)
	bidID, err := uuid.Parse(c.Param("bidId"))
	if err != nil {
		response.BadRequest(c, "invalid bid id")
		return
	}
	if err := h.repo.DeleteBid(c.Request.Context(), gig.ID, bidID); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "bid not found")
			return
		}
		response.Internal(c, "failed to delete bid")
		return
	}
	response.NoContent(c)
}

// DeleteKitAssignment handles DELETE /gigs/:id/kit-assignments/:assignmentId.
func (h *Handler) DeleteKitAssignment(c *gin.Context) {
	gig := c.MustGet(ctxGig).(*models.Gig)
	aID, err := uuid.Parse(c.Param("assignmentId"))
	if err != nil {
		response.BadRequest(c, "invalid kit assignment id")
		return
	}
	if err := h.repo.DeleteKitAssignment(c.Request.Context(), gig.ID, aID); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "kit assignment not found")
			return
		}
		response.Internal(c, "failed to delete kit assignment")
		return
	}
	response.NoContent(c)
}

// Accept handles POST /gigs/:id/accept: the caller confirms their requested seat.
func (h *Handler) Accept(c *gin.Context) {
	h.answer(c, models.AssignmentConfirmed)
}

// Decline handles POST /gigs/:id/decline.
func (h *Handler) Decline(c *gin.Context) {
	h.answer(c, models.AssignmentDeclined)
}

func (h *Handler) answer(c *gin.Context, status models.AssignmentStatus) {
	gigID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid gig id")
		return
	}
	if err := h.repo.AnswerAssignment(c.Request.Context(), gigID, h.userID(c), status); err != nil {
		if errors.Is(err, ErrNoAssignment) {
			response.NotFound(c, "no pending assignment on this gig")
			return
		}
		response.Internal(c, "failed to update assignment")
		return
	}
	gig, err := h.repo.GetByID(c.Request.Context(), gigID)
	if err == nil {
		h.publish(c, gig.OrganizationID, EventGigUpdated, gin.H{"gig_id": gigID})
	}
	response.NoContent(c)
}

// reconcileForm runs validation and the reconcilers over the submitted form.
// existing is nil when creating.
func (h *Handler) reconcileForm(form *GigForm, existing *GigComposite, ownOrg uuid.UUID, creating bool) (*SaveInput, error) {
	core, err := ValidateCore(form)
	if err != nil {
		return nil, err
	}

	var existingParticipants []models.Participant
	var existingSlots []models.StaffSlot
	if existing != nil {
		existingParticipants = existing.Participants
		existingSlots = existing.StaffSlots
	}

	participants, err := reconcile.Participants(form.Participants, existingParticipants, ownOrg, creating)
	if err != nil {
		return nil, err
	}
	for i := range form.StaffSlots {
		reconcile.SyncAssignmentCount(&form.StaffSlots[i])
	}
	slots, err := reconcile.Slots(form.StaffSlots, existingSlots)
	if err != nil {
		return nil, err
	}
	bids, err := reconcile.Bids(form.Bids)
	if err != nil {
		return nil, err
	}
	kits, err := reconcile.Kits(form.KitAssignments)
	if err != nil {
		return nil, err
	}

	return &SaveInput{
		Core:         core,
		Participants: participants,
		Slots:        slots,
		Bids:         bids,
		Kits:         kits,
	}, nil
}
