package places

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/corourke/Gigmanagerfigmamake-sub000/pkg/response"
)

// Handler proxies venue lookups to the mapping provider.
type Handler struct {
	client *Client
	logger *zap.Logger
}

// NewHandler creates a places handler.
func NewHandler(client *Client, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{client: client, logger: logger}
}

// Search handles GET /places/search?q=...
func (h *Handler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.BadRequest(c, "q is required")
		return
	}
	results, err := h.client.Search(c.Request.Context(), q)
	if err != nil {
		h.logger.Warn("places search failed", zap.String("query", q), zap.Error(err))
		response.Internal(c, "venue lookup failed")
		return
	}
	response.OK(c, results)
}

// Details handles GET /places/:placeId
func (h *Handler) Details(c *gin.Context) {
	place, err := h.client.Details(c.Request.Context(), c.Param("placeId"))
	if err != nil {
		h.logger.Warn("places details failed", zap.Error(err))
		response.Internal(c, "venue lookup failed")
		return
	}
	if place == nil {
		response.NotFound(c, "place not found")
		return
	}
	response.OK(c, place)
}
