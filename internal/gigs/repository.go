package gigs

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/gigs/reconcile"
	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/models"
)

// ErrNotFound is returned when a gig does not exist.
var ErrNotFound = errors.New("gig not found")

// ErrNoAssignment is returned when the user has no answerable seat on the gig.
var ErrNoAssignment = errors.New("no requested assignment for user")

// Repository is the pgx-backed store for gigs and their sub-entities. It
// satisfies the composite writer's store interfaces.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a gigs repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const gigColumns = `id, organization_id, title, starts_at, ends_at, status, tags, notes,
	amount_paid_cents, created_by, created_at, updated_at`

func scanGig(row pgx.Row) (*models.Gig, error) {
	var g models.Gig
	err := row.Scan(&g.ID, &g.OrganizationID, &g.Title, &g.StartsAt, &g.EndsAt, &g.Status,
		&g.Tags, &g.Notes, &g.AmountPaidCents, &g.CreatedBy, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GetByID returns the gig's own row.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	return scanGig(r.pool.QueryRow(ctx,
		`SELECT `+gigColumns+` FROM gigs WHERE id = $1`, id))
}

// ListByOrg returns the organization's gigs, newest first, optionally filtered
// by status.
func (r *Repository) ListByOrg(ctx context.Context, orgID uuid.UUID, status models.GigStatus) ([]models.Gig, error) {
	query := `SELECT ` + gigColumns + ` FROM gigs WHERE organization_id = $1`
	args := []any{orgID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY starts_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	gigs := []models.Gig{}
	for rows.Next() {
		var g models.Gig
		if err := rows.Scan(&g.ID, &g.OrganizationID, &g.Title, &g.StartsAt, &g.EndsAt, &g.Status,
			&g.Tags, &g.Notes, &g.AmountPaidCents, &g.CreatedBy, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		gigs = append(gigs, g)
	}
	return gigs, rows.Err()
}

// InsertGig creates the gig row and returns its id.
func (r *Repository) InsertGig(ctx context.Context, orgID, createdBy uuid.UUID, core *GigCore) (uuid.UUID, error) {
	tags := core.Tags
	if tags == nil {
		tags = []string{}
	}
	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`INSERT INTO gigs (organization_id, title, starts_at, ends_at, status, tags, notes, amount_paid_cents, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		orgID, core.Title, core.StartsAt, core.EndsAt, core.Status, tags, core.Notes,
		core.AmountPaidCents, createdBy).Scan(&id)
	return id, err
}

// UpdateGigCore rewrites the gig's scalar fields.
func (r *Repository) UpdateGigCore(ctx context.Context, id uuid.UUID, core *GigCore) error {
	tags := core.Tags
	if tags == nil {
		tags = []string{}
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE gigs SET title = $2, starts_at = $3, ends_at = $4, status = $5, tags = $6,
		 notes = $7, amount_paid_cents = $8, updated_at = NOW()
		 WHERE id = $1`,
		id, core.Title, core.StartsAt, core.EndsAt, core.Status, tags, core.Notes, core.AmountPaidCents)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the gig and, via cascade, its sub-entities.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM gigs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetComposite loads the gig with its full sub-entity tree.
func (r *Repository) GetComposite(ctx context.Context, id uuid.UUID) (*GigComposite, error) {
	gig, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comp := &GigComposite{Gig: *gig}

	if comp.Participants, err = r.listParticipants(ctx, id); err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}
	if comp.StaffSlots, err = r.ListSlots(ctx, id); err != nil {
		return nil, fmt.Errorf("load staff slots: %w", err)
	}
	if comp.Bids, err = r.listBids(ctx, id); err != nil {
		return nil, fmt.Errorf("load bids: %w", err)
	}
	if comp.KitAssignments, err = r.listKitAssignments(ctx, id); err != nil {
		return nil, fmt.Errorf("load kit assignments: %w", err)
	}
	return comp, nil
}

func (r *Repository) listParticipants(ctx context.Context, gigID uuid.UUID) ([]models.Participant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.gig_id, p.organization_id, o.name, p.role, p.notes, p.created_at, p.updated_at
		 FROM gig_participants p
		 JOIN organizations o ON o.id = p.organization_id
		 WHERE p.gig_id = $1
		 ORDER BY p.created_at`, gigID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Participant{}
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.GigID, &p.OrganizationID, &p.OrganizationName,
			&p.Role, &p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListSlots returns the gig's staff slots with their assignments nested, in
// form order.
func (r *Repository) ListSlots(ctx context.Context, gigID uuid.UUID) ([]models.StaffSlot, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, gig_id, role, required_count, notes, position, created_at, updated_at
		 FROM gig_staff_slots WHERE gig_id = $1 ORDER BY position, created_at`, gigID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := []models.StaffSlot{}
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var s models.StaffSlot
		if err := rows.Scan(&s.ID, &s.GigID, &s.Role, &s.RequiredCount, &s.Notes,
			&s.Position, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.Assignments = []models.StaffAssignment{}
		index[s.ID] = len(slots)
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return slots, nil
	}

	arows, err := r.pool.Query(ctx,
		`SELECT a.id, a.slot_id, a.user_id, u.full_name, a.status, a.rate_cents, a.fee_cents,
		        a.notes, a.position, a.created_at, a.updated_at
		 FROM gig_staff_assignments a
		 JOIN users u ON u.id = a.user_id
		 JOIN gig_staff_slots s ON s.id = a.slot_id
		 WHERE s.gig_id = $1
		 ORDER BY a.position, a.created_at`, gigID)
	if err != nil {
		return nil, err
	}
	defer arows.Close()

	for arows.Next() {
		var a models.StaffAssignment
		if err := arows.Scan(&a.ID, &a.SlotID, &a.UserID, &a.UserName, &a.Status,
			&a.RateCents, &a.FeeCents, &a.Notes, &a.Position, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		if i, ok := index[a.SlotID]; ok {
			slots[i].Assignments = append(slots[i].Assignments, a)
		}
	}
	return slots, arows.Err()
}

func (r *Repository) listBids(ctx context.Context, gigID uuid.UUID) ([]models.Bid, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, gig_id, organization_id, given_on, amount_cents, result, notes, created_at, updated_at
		 FROM gig_bids WHERE gig_id = $1 ORDER BY created_at`, gigID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Bid{}
	for rows.Next() {
		var b models.Bid
		if err := rows.Scan(&b.ID, &b.GigID, &b.OrganizationID, &b.GivenOn, &b.AmountCents,
			&b.Result, &b.Notes, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repository) listKitAssignments(ctx context.Context, gigID uuid.UUID) ([]models.KitAssignment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ka.id, ka.gig_id, ka.kit_id, k.name, ka.organization_id, ka.notes, ka.assigned_at, ka.updated_at
		 FROM gig_kit_assignments ka
		 JOIN kits k ON k.id = ka.kit_id
		 WHERE ka.gig_id = $1
		 ORDER BY ka.assigned_at`, gigID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.KitAssignment{}
	for rows.Next() {
		var ka models.KitAssignment
		if err := rows.Scan(&ka.ID, &ka.GigID, &ka.KitID, &ka.KitName, &ka.OrganizationID,
			&ka.Notes, &ka.AssignedAt, &ka.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, ka)
	}
	return out, rows.Err()
}

// InsertParticipant creates one participant row.
func (r *Repository) InsertParticipant(ctx context.Context, gigID uuid.UUID, w reconcile.ParticipantWrite) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`INSERT INTO gig_participants (gig_id, organization_id, role, notes)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		gigID, w.OrganizationID, w.Role, w.Notes).Scan(&id)
	return id, err
}

// UpdateParticipant rewrites one participant row.
func (r *Repository) UpdateParticipant(ctx context.Context, w reconcile.ParticipantWrite) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE gig_participants SET organization_id = $2, role = $3, notes = $4, updated_at = NOW()
		 WHERE id = $1`,
		w.ID, w.OrganizationID, w.Role, w.Notes)
	return err
}

// DeleteParticipant removes one participant row.
func (r *Repository) DeleteParticipant(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM gig_participants WHERE id = $1`, id)
	return err
}

// InsertSlot creates one staff slot row.
func (r *Repository) InsertSlot(ctx context.Context, gigID uuid.UUID, w reconcile.SlotWrite) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`INSERT INTO gig_staff_slots (gig_id, role, required_count, notes, position)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		gigID, w.Role, w.RequiredCount, w.Notes, w.Position).Scan(&id)
	return id, err
}

// UpdateSlot rewrites one staff slot row.
func (r *Repository) UpdateSlot(ctx context.Context, w reconcile.SlotWrite) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE gig_staff_slots SET role = $2, required_count = $3, notes = $4, position = $5, updated_at = NOW()
		 WHERE id = $1`,
		w.ID, w.Role, w.RequiredCount, w.Notes, w.Position)
	return err
}

// DeleteSlot removes one slot and, via cascade, its assignments.
func (r *Repository) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM gig_staff_slots WHERE id = $1`, id)
	return err
}

// InsertAssignment creates one seat row under the slot.
func (r *Repository) InsertAssignment(ctx context.Context, slotID uuid.UUID, w reconcile.AssignmentWrite) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`INSERT INTO gig_staff_assignments (slot_id, user_id, status, rate_cents, fee_cents, notes, position)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		slotID, w.UserID, w.Status, w.RateCents, w.FeeCents, w.Notes, w.Position).Scan(&id)
	return id, err
}

// UpdateAssignment rewrites one seat row.
func (r *Repository) UpdateAssignment(ctx context.Context, w reconcile.AssignmentWrite) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE gig_staff_assignments SET user_id = $2, status = $3, rate_cents = $4,
		 fee_cents = $5, notes = $6, position = $7, updated_at = NOW()
		 WHERE id = $1`,
		w.ID, w.UserID, w.Status, w.RateCents, w.FeeCents, w.Notes, w.Position)
	return err
}

// DeleteAssignment removes one seat row.
func (r *Repository) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM gig_staff_assignments WHERE id = $1`, id)
	return err
}

// InsertBid creates one bid row.
func (r *Repository) InsertBid(ctx context.Context, gigID, orgID uuid.UUID, w reconcile.BidWrite) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`INSERT INTO gig_bids (gig_id, organization_id, given_on, amount_cents, result, notes)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		gigID, orgID, w.GivenOn, w.AmountCents, w.Result, w.Notes).Scan(&id)
	return id, err
}

// UpdateBid rewrites one bid row.
func (r *Repository) UpdateBid(ctx context.Context, w reconcile.BidWrite) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE gig_bids SET given_on = $2, amount_cents = $3, result = $4, notes = $5, updated_at = NOW()
		 WHERE id = $1`,
		w.ID, w.GivenOn, w.AmountCents, w.Result, w.Notes)
	return err
}

// DeleteBid removes one bid of the gig.
func (r *Repository) DeleteBid(ctx context.Context, gigID, bidID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM gig_bids WHERE id = $1 AND gig_id = $2`, bidID, gigID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertKitAssignment links a kit to the gig.
func (r *Repository) InsertKitAssignment(ctx context.Context, gigID, orgID uuid.UUID, w reconcile.KitWrite) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`INSERT INTO gig_kit_assignments (gig_id, kit_id, organization_id, notes)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		gigID, w.KitID, orgID, w.Notes).Scan(&id)
	return id, err
}

// UpdateKitAssignment rewrites the link's notes and kit.
func (r *Repository) UpdateKitAssignment(ctx context.Context, w reconcile.KitWrite) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE gig_kit_assignments SET kit_id = $2, notes = $3, updated_at = NOW()
		 WHERE id = $1`,
		w.ID, w.KitID, w.Notes)
	return err
}

// DeleteKitAssignment unlinks a kit from the gig.
func (r *Repository) DeleteKitAssignment(ctx context.Context, gigID, assignmentID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM gig_kit_assignments WHERE id = $1 AND gig_id = $2`, assignmentID, gigID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AnswerAssignment sets the caller's requested seats on the gig to confirmed
// or declined.
func (r *Repository) AnswerAssignment(ctx context.Context, gigID, userID uuid.UUID, status models.AssignmentStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE gig_staff_assignments a SET status = $3, updated_at = NOW()
		 FROM gig_staff_slots s
		 WHERE a.slot_id = s.id AND s.gig_id = $1 AND a.user_id = $2 AND a.status = 'requested'`,
		gigID, userID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoAssignment
	}
	return nil
}
