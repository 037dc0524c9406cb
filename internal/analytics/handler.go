// Package analytics serves read-only aggregates over an organization's gigs.
package analytics

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/organizations"
	"github.com/corourke/Gigmanagerfigmamake-sub000/pkg/response"
)

const ctxUserID = "user_id"

// Summary is the organization dashboard aggregate.
type Summary struct {
	GigsByStatus    map[string]int `json:"gigs_by_status"`
	TotalGigs       int            `json:"total_gigs"`
	BookedGigs      int            `json:"booked_gigs"`
	SettledGigs     int            `json:"settled_gigs"`
	AmountPaidCents int64          `json:"amount_paid_cents"`
	OpenSeats       int            `json:"open_seats"`
}

// Handler handles analytics HTTP endpoints.
type Handler struct {
	pool   *pgxpool.Pool
	orgs   *organizations.Repository
	logger *zap.Logger
}

// NewHandler creates an analytics handler.
func NewHandler(pool *pgxpool.Pool, orgs *organizations.Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{pool: pool, orgs: orgs, logger: logger}
}

// OrgSummary handles GET /organizations/:id/summary.
func (h *Handler) OrgSummary(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	userID, _ := c.MustGet(ctxUserID).(uuid.UUID)
	member, err := h.orgs.UserIsMember(c.Request.Context(), orgID, userID)
	if err != nil {
		response.Internal(c, "failed to check membership")
		return
	}
	if !member {
		response.Forbidden(c, "not a member of this organization")
		return
	}

	summary, err := h.loadSummary(c.Request.Context(), orgID)
	if err != nil {
		h.logger.Error("load summary failed", zap.String("organization_id", orgID.String()), zap.Error(err))
		response.Internal(c, "failed to load summary")
		return
	}
	response.OK(c, summary)
}

func (h *Handler) loadSummary(ctx context.Context, orgID uuid.UUID) (*Summary, error) {
	s := &Summary{GigsByStatus: map[string]int{}}

	rows, err := h.pool.Query(ctx,
		`SELECT status, COUNT(*), COALESCE(SUM(amount_paid_cents), 0)
		 FROM gigs WHERE organization_id = $1 GROUP BY status`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		var paid int64
		if err := rows.Scan(&status, &count, &paid); err != nil {
			return nil, err
		}
		s.GigsByStatus[status] = count
		s.TotalGigs += count
		s.AmountPaidCents += paid
		switch status {
		case "booked":
			s.BookedGigs = count
		case "settled":
			s.SettledGigs = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// open seats: required headcount not yet covered by a confirmed assignment,
	// over gigs that are still live
	err = h.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(GREATEST(s.required_count - conf.n, 0)), 0)
		 FROM gig_staff_slots s
		 JOIN gigs g ON g.id = s.gig_id
		 LEFT JOIN LATERAL (
		     SELECT COUNT(*) AS n FROM gig_staff_assignments a
		     WHERE a.slot_id = s.id AND a.status = 'confirmed'
		 ) conf ON true
		 WHERE g.organization_id = $1 AND g.status NOT IN ('cancelled', 'settled', 'completed')`,
		orgID).Scan(&s.OpenSeats)
	if err != nil {
		return nil, err
	}
	return s, nil
}
