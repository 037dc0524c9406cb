package gigs

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/organizations"
	"github.com/corourke/Gigmanagerfigmamake-sub000/pkg/response"
)

// RequireAccess loads the gig named by :id, checks that the caller belongs to
// its organization, and stores the gig in context for the handler. When manage
// is true the caller must be an owner or manager of that organization.
func RequireAccess(repo *Repository, orgs *organizations.Repository, manage bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		gigID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.BadRequest(c, "invalid gig id")
			c.Abort()
			return
		}
		gig, err := repo.GetByID(c.Request.Context(), gigID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				response.NotFound(c, "gig not found")
			} else {
				response.Internal(c, "failed to load gig")
			}
			c.Abort()
			return
		}

		userID, _ := c.MustGet(ctxUserID).(uuid.UUID)
		var allowed bool
		if manage {
			allowed, err = orgs.UserCanManage(c.Request.Context(), gig.OrganizationID, userID)
		} else {
			allowed, err = orgs.UserIsMember(c.Request.Context(), gig.OrganizationID, userID)
		}
		if err != nil {
			response.Internal(c, "failed to check membership")
			c.Abort()
			return
		}
		if !allowed {
			if manage {
				response.Forbidden(c, "requires owner or manager role")
			} else {
				response.Forbidden(c, "not a member of this organization")
			}
			c.Abort()
			return
		}
		c.Set(ctxGig, gig)
		c.Next()
	}
}
