package invitations

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/auth"
	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/models"
	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/organizations"
	"github.com/corourke/Gigmanagerfigmamake-sub000/pkg/queue"
	"github.com/corourke/Gigmanagerfigmamake-sub000/pkg/response"
	"github.com/corourke/Gigmanagerfigmamake-sub000/pkg/utils"
)

const ctxUserID = "user_id"

// invitations are valid for a week; a repeat invite resets the clock
const inviteTTL = 7 * 24 * time.Hour

// CreateRequest is the body for POST /organizations/:id/invitations.
type CreateRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role"` // membership role, defaults to member
}

// AcceptRequest is the body for POST /invitations/:token/accept.
type AcceptRequest struct {
	Password string  `json:"password" binding:"required,min=6"`
	FullName string  `json:"full_name" binding:"required"`
	Phone    *string `json:"phone"`
}

// Handler handles invitation HTTP endpoints.
type Handler struct {
	repo   *Repository
	users  *auth.Repository
	orgs   *organizations.Repository
	jwt    *auth.JWTService
	queue  *queue.Queue
	logger *zap.Logger
}

// NewHandler creates an invitations handler. q may be nil when the email
// worker is not running; sends are then logged as skipped.
func NewHandler(repo *Repository, users *auth.Repository, orgs *organizations.Repository, jwt *auth.JWTService, q *queue.Queue, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, users: users, orgs: orgs, jwt: jwt, queue: q, logger: logger}
}

func (h *Handler) userID(c *gin.Context) uuid.UUID {
	id, _ := c.MustGet(ctxUserID).(uuid.UUID)
	return id
}

// Create handles POST /organizations/:id/invitations. A pending user row is
// created up front so the invitee can already be placed in staff slots.
func (h *Handler) Create(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "a valid email is required")
		return
	}
	if req.Role == "" {
		req.Role = models.OrgRoleMember
	}

	inviterID := h.userID(c)
	canManage, err := h.orgs.UserCanManage(c.Request.Context(), orgID, inviterID)
	if err != nil {
		response.Internal(c, "failed to check membership")
		return
	}
	if !canManage {
		response.Forbidden(c, "requires owner or manager role")
		return
	}
	org, err := h.orgs.GetByID(c.Request.Context(), orgID)
	if err != nil {
		response.NotFound(c, "organization not found")
		return
	}

	if _, err := h.users.CreatePending(c.Request.Context(), req.Email); err != nil {
		h.logger.Error("create pending user failed", zap.Error(err))
		response.Internal(c, "failed to create invitation")
		return
	}

	token, err := utils.GenerateToken()
	if err != nil {
		response.Internal(c, "failed to create invitation")
		return
	}
	inv, err := h.repo.Create(c.Request.Context(), orgID, req.Email, req.Role, token,
		inviterID, time.Now().Add(inviteTTL))
	if err != nil {
		h.logger.Error("create invitation failed", zap.Error(err))
		response.Internal(c, "failed to create invitation")
		return
	}

	if h.queue != nil {
		err = h.queue.EnqueueInvitationEmail(c.Request.Context(), queue.InvitationEmailPayload{
			InvitationID:     inv.ID,
			OrganizationName: org.Name,
			RecipientEmail:   inv.Email,
			Token:            token,
		})
		if err != nil {
			h.logger.Warn("enqueue invitation email failed", zap.Error(err))
			msg := err.Error()
			_ = h.repo.RecordSend(c.Request.Context(), inv.ID, "failed", &msg, nil)
		} else {
			_ = h.repo.RecordSend(c.Request.Context(), inv.ID, "queued", nil, nil)
		}
	}
	response.Created(c, inv)
}

// List handles GET /organizations/:id/invitations.
func (h *Handler) List(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	canManage, err := h.orgs.UserCanManage(c.Request.Context(), orgID, h.userID(c))
	if err != nil {
		response.Internal(c, "failed to check membership")
		return
	}
	if !canManage {
		response.Forbidden(c, "requires owner or manager role")
		return
	}
	invs, err := h.repo.ListByOrg(c.Request.Context(), orgID)
	if err != nil {
		h.logger.Error("list invitations failed", zap.Error(err))
		response.Internal(c, "failed to list invitations")
		return
	}
	response.OK(c, invs)
}

// Accept handles POST /invitations/:token/accept. It activates the pending
// user with the submitted credentials, joins them to the organization and
// returns a session token.
func (h *Handler) Accept(c *gin.Context) {
	inv, err := h.repo.GetByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "invitation not found")
			return
		}
		response.Internal(c, "failed to load invitation")
		return
	}
	if inv.Status != models.InvitationPending {
		response.Conflict(c, "invitation already used")
		return
	}
	if time.Now().After(inv.ExpiresAt) {
		_ = h.repo.MarkExpired(c.Request.Context(), inv.ID)
		response.Conflict(c, "invitation expired")
		return
	}

	var req AcceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "password and full_name are required")
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), inv.Email)
	if err != nil {
		response.Internal(c, "failed to load user")
		return
	}
	if user.Status == models.UserPending {
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			response.Internal(c, "failed to activate account")
			return
		}
		user, err = h.users.Activate(c.Request.Context(), user.ID, hash, req.FullName, req.Phone)
		if err != nil {
			h.logger.Error("activate user failed", zap.Error(err))
			response.Internal(c, "failed to activate account")
			return
		}
	}

	if err := h.orgs.AddMember(c.Request.Context(), inv.OrganizationID, user.ID, inv.Role); err != nil {
		h.logger.Error("add member failed", zap.Error(err))
		response.Internal(c, "failed to join organization")
		return
	}
	if err := h.repo.MarkAccepted(c.Request.Context(), inv.ID); err != nil {
		h.logger.Warn("mark invitation accepted failed", zap.Error(err))
	}

	token, err := h.jwt.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		response.Internal(c, "failed to issue token")
		return
	}
	response.OK(c, auth.TokenResponse{Token: token, User: user.ToPublic()})
}
