package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/models"
	"github.com/corourke/Gigmanagerfigmamake-sub000/pkg/response"
	"github.com/corourke/Gigmanagerfigmamake-sub000/pkg/utils"
)

// Context keys shared with middleware. Duplicated here to avoid an import cycle.
const (
	ctxUserID   = "user_id"
	ctxUserRole = "user_role"
)

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6"`
	FullName string  `json:"full_name" binding:"required"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role"` // optional, defaults to staff
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest is the body for PUT /users/:id.
type UpdateUserRequest struct {
	FullName        *string `json:"full_name"`
	Phone           *string `json:"phone"`
	Password        *string `json:"password"`
	CurrentPassword *string `json:"current_password"`
}

// TokenResponse is the auth response with JWT.
type TokenResponse struct {
	Token string            `json:"token"`
	User  models.UserPublic `json:"user"`
}

// Handler handles auth and user HTTP endpoints.
type Handler struct {
	repo   *Repository
	jwt    *JWTService
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(repo *Repository, jwt *JWTService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, jwt: jwt, logger: logger}
}

// Register handles POST /auth/register. A pending user (created at invitation
// time) registering with its email is activated in place.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	role := models.RoleStaff
	switch req.Role {
	case "":
	case "admin":
		role = models.RoleAdmin
	case "manager":
		role = models.RoleManager
	case "staff":
		role = models.RoleStaff
	default:
		response.BadRequest(c, "invalid role")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}

	var user *models.User
	existing, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	switch {
	case err == nil && existing.Status == models.UserPending:
		user, err = h.repo.Activate(c.Request.Context(), existing.ID, hash, req.FullName, req.Phone)
	case err == nil:
		response.BadRequest(c, "email already registered")
		return
	default:
		user, err = h.repo.Create(c.Request.Context(), req.Email, hash, req.FullName, req.Phone, role)
	}
	if err != nil {
		h.logger.Error("create user failed", zap.Error(err))
		response.Internal(c, "failed to create user")
		return
	}

	token, err := h.jwt.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}
	response.Created(c, TokenResponse{Token: token, User: user.ToPublic()})
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil || user.Status != models.UserActive {
		response.Unauthorized(c, "invalid email or password")
		return
	}
	if !utils.CheckPassword(req.Password, user.Password) {
		response.Unauthorized(c, "invalid email or password")
		return
	}

	token, err := h.jwt.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}
	response.OK(c, TokenResponse{Token: token, User: user.ToPublic()})
}

// GetUser handles GET /users/:id (self or admin).
func (h *Handler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	if !h.selfOrAdmin(c, id) {
		response.Forbidden(c, "not allowed to view this user")
		return
	}
	user, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}
	response.OK(c, user.ToPublic())
}

// UpdateUser handles PUT /users/:id (self or admin). Password changes require
// the current password unless the caller is an admin.
func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	if !h.selfOrAdmin(c, id) {
		response.Forbidden(c, "not allowed to update this user")
		return
	}
	user, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}

	fullName := user.FullName
	if req.FullName != nil {
		fullName = *req.FullName
	}
	phone := user.Phone
	if req.Phone != nil {
		phone = req.Phone
	}
	updated, err := h.repo.UpdateProfile(c.Request.Context(), id, fullName, phone)
	if err != nil {
		h.logger.Error("update profile failed", zap.Error(err), zap.String("user_id", id.String()))
		response.Internal(c, "failed to update user")
		return
	}

	if req.Password != nil {
		role, _ := c.Get(ctxUserRole)
		if role != string(models.RoleAdmin) {
			if req.CurrentPassword == nil || !utils.CheckPassword(*req.CurrentPassword, user.Password) {
				response.Forbidden(c, "current password incorrect")
				return
			}
		}
		if len(*req.Password) < 6 {
			response.BadRequest(c, "password must be at least 6 characters")
			return
		}
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			response.Internal(c, "failed to hash password")
			return
		}
		if err := h.repo.UpdatePassword(c.Request.Context(), id, hash); err != nil {
			response.Internal(c, "failed to update password")
			return
		}
	}
	response.OK(c, updated.ToPublic())
}

// List handles GET /users (admin only; for staff assignment pickers).
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list users")
		return
	}
	response.OK(c, list)
}

func (h *Handler) selfOrAdmin(c *gin.Context, id uuid.UUID) bool {
	callerID := c.MustGet(ctxUserID).(uuid.UUID)
	if callerID == id {
		return true
	}
	role, _ := c.Get(ctxUserRole)
	return role == string(models.RoleAdmin)
}
