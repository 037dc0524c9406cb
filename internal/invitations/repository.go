package invitations

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/models"
)

// ErrNotFound is returned when an invitation does not exist.
var ErrNotFound = errors.New("invitation not found")

const invitationColumns = `id, organization_id, email, role, token, status, invited_by,
	expires_at, accepted_at, created_at`

// Repository is the pgx-backed store for invitations and their send log.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an invitations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanInvitation(row pgx.Row) (*models.Invitation, error) {
	var inv models.Invitation
	err := row.Scan(&inv.ID, &inv.OrganizationID, &inv.Email, &inv.Role, &inv.Token,
		&inv.Status, &inv.InvitedBy, &inv.ExpiresAt, &inv.AcceptedAt, &inv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create inserts an invitation. A repeat invite for the same (org, email)
// replaces the old token and resets expiry.
func (r *Repository) Create(ctx context.Context, orgID uuid.UUID, email, role, token string, invitedBy uuid.UUID, expiresAt time.Time) (*models.Invitation, error) {
	return scanInvitation(r.pool.QueryRow(ctx,
		`INSERT INTO invitations (organization_id, email, role, token, invited_by, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (organization_id, email)
		 DO UPDATE SET role = $3, token = $4, invited_by = $5, expires_at = $6,
		               status = 'pending', accepted_at = NULL
		 RETURNING `+invitationColumns, orgID, email, role, token, invitedBy, expiresAt))
}

// GetByToken returns the invitation holding token.
func (r *Repository) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	return scanInvitation(r.pool.QueryRow(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE token = $1`, token))
}

// ListByOrg returns the organization's invitations, newest first.
func (r *Repository) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]models.Invitation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+invitationColumns+` FROM invitations
		 WHERE organization_id = $1 ORDER BY created_at DESC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Invitation{}
	for rows.Next() {
		var inv models.Invitation
		if err := rows.Scan(&inv.ID, &inv.OrganizationID, &inv.Email, &inv.Role, &inv.Token,
			&inv.Status, &inv.InvitedBy, &inv.ExpiresAt, &inv.AcceptedAt, &inv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// MarkAccepted flips the invitation to accepted.
func (r *Repository) MarkAccepted(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE invitations SET status = 'accepted', accepted_at = NOW() WHERE id = $1`, id)
	return err
}

// MarkExpired flips the invitation to expired.
func (r *Repository) MarkExpired(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE invitations SET status = 'expired' WHERE id = $1`, id)
	return err
}

// RecordSend appends one delivery attempt to the send log.
func (r *Repository) RecordSend(ctx context.Context, invitationID uuid.UUID, status string, sendErr *string, sentAt *time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO invitation_sends (invitation_id, status, error, sent_at)
		 VALUES ($1, $2, $3, $4)`, invitationID, status, sendErr, sentAt)
	return err
}

// ListSends returns the invitation's delivery attempts, newest first.
func (r *Repository) ListSends(ctx context.Context, invitationID uuid.UUID) ([]models.InvitationSend, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, invitation_id, status, error, sent_at, created_at
		 FROM invitation_sends WHERE invitation_id = $1 ORDER BY created_at DESC`, invitationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.InvitationSend{}
	for rows.Next() {
		var s models.InvitationSend
		if err := rows.Scan(&s.ID, &s.InvitationID, &s.Status, &s.Error, &s.SentAt, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
