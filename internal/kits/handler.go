package kits

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/models"
	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/organizations"
	"github.com/corourke/Gigmanagerfigmamake-sub000/pkg/response"
	"github.com/corourke/Gigmanagerfigmamake-sub000/pkg/storage"
)

const ctxUserID = "user_id"

// CreateKitRequest is the body for POST /organizations/:id/kits.
type CreateKitRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UploadURLRequest is the body for POST /kits/:id/attachments/upload-url.
type UploadURLRequest struct {
	Filename  string `json:"filename" binding:"required"`
	SizeBytes int64  `json:"size_bytes"`
}

// UploadURLResponse carries the presigned PUT URL and the attachment the
// client should confirm against.
type UploadURLResponse struct {
	UploadURL  string               `json:"upload_url"`
	Attachment models.KitAttachment `json:"attachment"`
}

// Handler handles kit and kit attachment HTTP endpoints.
type Handler struct {
	repo   *Repository
	orgs   *organizations.Repository
	s3     *storage.S3
	logger *zap.Logger
}

// NewHandler creates a kits handler. s3 may be nil when attachments are
// disabled.
func NewHandler(repo *Repository, orgs *organizations.Repository, s3 *storage.S3, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, orgs: orgs, s3: s3, logger: logger}
}

func (h *Handler) userID(c *gin.Context) uuid.UUID {
	id, _ := c.MustGet(ctxUserID).(uuid.UUID)
	return id
}

// List handles GET /organizations/:id/kits.
func (h *Handler) List(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
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
	kits, err := h.repo.ListByOrg(c.Request.Context(), orgID)
	if err != nil {
		h.logger.Error("list kits failed", zap.Error(err))
		response.Internal(c, "failed to list kits")
		return
	}
	response.OK(c, kits)
}

// Create handles POST /organizations/:id/kits.
func (h *Handler) Create(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	var req CreateKitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "name is required")
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
	kit, err := h.repo.Create(c.Request.Context(), orgID, req.Name, req.Description)
	if err != nil {
		h.logger.Error("create kit failed", zap.Error(err))
		response.Internal(c, "failed to create kit")
		return
	}
	response.Created(c, kit)
}

// kitForMember loads the kit named by :id and checks org membership.
func (h *Handler) kitForMember(c *gin.Context) (*models.Kit, bool) {
	kitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid kit id")
		return nil, false
	}
	kit, err := h.repo.GetByID(c.Request.Context(), kitID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "kit not found")
		} else {
			response.Internal(c, "failed to load kit")
		}
		return nil, false
	}
	member, err := h.orgs.UserIsMember(c.Request.Context(), kit.OrganizationID, h.userID(c))
	if err != nil {
		response.Internal(c, "failed to check membership")
		return nil, false
	}
	if !member {
		response.Forbidden(c, "not a member of this organization")
		return nil, false
	}
	return kit, true
}

// CreateUploadURL handles POST /kits/:id/attachments/upload-url. The client
// PUTs the file straight to S3 with the returned URL; the attachment row is
// recorded up front.
func (h *Handler) CreateUploadURL(c *gin.Context) {
	if h.s3 == nil {
		response.Internal(c, "attachments are not configured")
		return
	}
	kit, ok := h.kitForMember(c)
	if !ok {
		return
	}
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "filename is required")
		return
	}
	if !storage.ValidateAttachmentFilename(req.Filename) {
		response.BadRequest(c, "unsupported file type")
		return
	}
	if req.SizeBytes > storage.MaxAttachmentSize {
		response.BadRequest(c, "file too large")
		return
	}

	userID := h.userID(c)
	att := models.KitAttachment{
		ID:          uuid.New(),
		KitID:       kit.ID,
		Filename:    req.Filename,
		ContentType: storage.ContentTypeForFilename(req.Filename),
		UploadedBy:  &userID,
	}
	if req.SizeBytes > 0 {
		att.SizeBytes = &req.SizeBytes
	}
	att.S3Key = storage.AttachmentKey(kit.ID.String(), att.ID.String(), req.Filename)

	uploadURL, err := h.s3.GeneratePresignedUploadURL(c.Request.Context(), att.S3Key, att.ContentType, h.s3.PresignExpire())
	if err != nil {
		h.logger.Error("presign upload failed", zap.Error(err))
		response.Internal(c, "failed to create upload url")
		return
	}
	if err := h.repo.CreateAttachment(c.Request.Context(), &att); err != nil {
		h.logger.Error("record attachment failed", zap.Error(err))
		response.Internal(c, "failed to record attachment")
		return
	}
	response.Created(c, UploadURLResponse{UploadURL: uploadURL, Attachment: att})
}

// ListAttachments handles GET /kits/:id/attachments.
func (h *Handler) ListAttachments(c *gin.Context) {
	kit, ok := h.kitForMember(c)
	if !ok {
		return
	}
	atts, err := h.repo.ListAttachments(c.Request.Context(), kit.ID)
	if err != nil {
		h.logger.Error("list attachments failed", zap.Error(err))
		response.Internal(c, "failed to list attachments")
		return
	}
	response.OK(c, atts)
}

// DownloadURL handles GET /attachments/:id/download-url.
func (h *Handler) DownloadURL(c *gin.Context) {
	if h.s3 == nil {
		response.Internal(c, "attachments are not configured")
		return
	}
	attID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid attachment id")
		return
	}
	att, err := h.repo.GetAttachment(c.Request.Context(), attID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "attachment not found")
		} else {
			response.Internal(c, "failed to load attachment")
		}
		return
	}
	kit, err := h.repo.GetByID(c.Request.Context(), att.KitID)
	if err != nil {
		response.Internal(c, "failed to load kit")
		return
	}
	member, err := h.orgs.UserIsMember(c.Request.Context(), kit.OrganizationID, h.userID(c))
	if err != nil {
		response.Internal(c, "failed to check membership")
		return
	}
	if !member {
		response.Forbidden(c, "not a member of this organization")
		return
	}
	url, err := h.s3.GeneratePresignedDownloadURL(c.Request.Context(), att.S3Key, h.s3.PresignExpire())
	if err != nil {
		h.logger.Error("presign download failed", zap.Error(err))
		response.Internal(c, "failed to create download url")
		return
	}
	response.OK(c, gin.H{"download_url": url, "filename": att.Filename})
}

// DeleteAttachment handles DELETE /attachments/:id. The S3 object is removed
// best-effort after the row.
func (h *Handler) DeleteAttachment(c *gin.Context) {
	attID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid attachment id")
		return
	}
	att, err := h.repo.GetAttachment(c.Request.Context(), attID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "attachment not found")
		} else {
			response.Internal(c, "failed to load attachment")
		}
		return
	}
	kit, err := h.repo.GetByID(c.Request.Context(), att.KitID)
	if err != nil {
		response.Internal(c, "failed to load kit")
		return
	}
	canManage, err := h.orgs.UserCanManage(c.Request.Context(), kit.OrganizationID, h.userID(c))
	if err != nil {
		response.Internal(c, "failed to check membership")
		return
	}
	if !canManage {
		response.Forbidden(c, "requires owner or manager role")
		return
	}
	if err := h.repo.DeleteAttachment(c.Request.Context(), attID); err != nil {
		response.Internal(c, "failed to delete attachment")
		return
	}
	if h.s3 != nil {
		if err := h.s3.DeleteObject(c.Request.Context(), att.S3Key); err != nil {
			h.logger.Warn("delete s3 object failed", zap.String("key", att.S3Key), zap.Error(err))
		}
	}
	response.NoContent(c)
}
