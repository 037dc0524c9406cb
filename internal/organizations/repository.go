package organizations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/models"
)

// Repository handles organization, membership and staff role persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an organizations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create creates an organization.
func (r *Repository) Create(ctx context.Context, org *models.Organization) error {
	const q = `INSERT INTO organizations (id, name, slug)
		VALUES (gen_random_uuid(), $1, $2)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, org.Name, org.Slug).
		Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt)
}

// GetByID returns an organization by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	const q = `SELECT id, name, slug, created_at, updated_at FROM organizations WHERE id = $1`
	var org models.Organization
	err := r.pool.QueryRow(ctx, q, id).Scan(&org.ID, &org.Name, &org.Slug, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// GetBySlug returns an organization by slug.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	const q = `SELECT id, name, slug, created_at, updated_at FROM organizations WHERE slug = $1`
	var org models.Organization
	err := r.pool.QueryRow(ctx, q, slug).Scan(&org.ID, &org.Name, &org.Slug, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// AddMember adds a user to an organization with a role.
func (r *Repository) AddMember(ctx context.Context, orgID, userID uuid.UUID, role string) error {
	const q = `INSERT INTO organization_members (id, organization_id, user_id, role)
		VALUES (gen_random_uuid(), $1, $2, $3)
		ON CONFLICT (organization_id, user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()`
	_, err := r.pool.Exec(ctx, q, orgID, userID, role)
	return err
}

// GetMemberRole returns the user's role in the organization, or empty if not a member.
func (r *Repository) GetMemberRole(ctx context.Context, orgID, userID uuid.UUID) (string, error) {
	const q = `SELECT role FROM organization_members WHERE organization_id = $1 AND user_id = $2`
	var role string
	err := r.pool.QueryRow(ctx, q, orgID, userID).Scan(&role)
	if err != nil {
		return "", err
	}
	return role, nil
}

// UserIsMember returns true if the user belongs to the organization in any role.
func (r *Repository) UserIsMember(ctx context.Context, orgID, userID uuid.UUID) (bool, error) {
	role, err := r.GetMemberRole(ctx, orgID, userID)
	if err != nil || role == "" {
		return false, nil
	}
	return true, nil
}

// UserCanManage returns true if the user is an owner or manager of the organization.
func (r *Repository) UserCanManage(ctx context.Context, orgID, userID uuid.UUID) (bool, error) {
	role, err := r.GetMemberRole(ctx, orgID, userID)
	if err != nil || role == "" {
		return false, nil
	}
	return role == models.OrgRoleOwner || role == models.OrgRoleManager, nil
}

// ListForUser returns organizations the user is a member of.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Organization, error) {
	const q = `SELECT o.id, o.name, o.slug, o.created_at, o.updated_at
		FROM organizations o
		INNER JOIN organization_members om ON om.organization_id = o.id
		WHERE om.user_id = $1
		ORDER BY o.name`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Organization
	for rows.Next() {
		var o models.Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.Slug, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

// Member represents an organization member with user details.
type Member struct {
	ID       uuid.UUID         `json:"id"`
	UserID   uuid.UUID         `json:"user_id"`
	Email    string            `json:"email"`
	FullName string            `json:"full_name"`
	Status   models.UserStatus `json:"status"`
	Role     string            `json:"role"`
	AddedAt  time.Time         `json:"added_at"`
}

// ListMembers returns members of an organization (join organization_members + users).
func (r *Repository) ListMembers(ctx context.Context, orgID uuid.UUID) ([]Member, error) {
	const q = `SELECT om.id, om.user_id, u.email, u.full_name, u.status, om.role, om.created_at
		FROM organization_members om
		INNER JOIN users u ON u.id = om.user_id
		WHERE om.organization_id = $1
		ORDER BY om.created_at ASC`
	rows, err := r.pool.Query(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.UserID, &m.Email, &m.FullName, &m.Status, &m.Role, &m.AddedAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// ListStaffRoles returns the org's staff role catalog plus the global defaults.
func (r *Repository) ListStaffRoles(ctx context.Context, orgID uuid.UUID) ([]models.StaffRole, error) {
	const q = `SELECT id, organization_id, name, created_at FROM staff_roles
		WHERE organization_id = $1 OR organization_id IS NULL
		ORDER BY organization_id NULLS FIRST, name`
	rows, err := r.pool.Query(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.StaffRole
	for rows.Next() {
		var sr models.StaffRole
		if err := rows.Scan(&sr.ID, &sr.OrganizationID, &sr.Name, &sr.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, sr)
	}
	return list, rows.Err()
}

// CreateStaffRole adds a role to the org's catalog.
func (r *Repository) CreateStaffRole(ctx context.Context, orgID uuid.UUID, name string) (*models.StaffRole, error) {
	const q = `INSERT INTO staff_roles (id, organization_id, name)
		VALUES (gen_random_uuid(), $1, $2)
		RETURNING id, organization_id, name, created_at`
	var sr models.StaffRole
	err := r.pool.QueryRow(ctx, q, orgID, name).Scan(&sr.ID, &sr.OrganizationID, &sr.Name, &sr.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &sr, nil
}
