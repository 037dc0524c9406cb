package kits

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/models"
)

// ErrNotFound is returned when a kit or attachment does not exist.
var ErrNotFound = errors.New("kit not found")

// Repository is the pgx-backed store for kits and their attachments.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a kits repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a kit for the organization.
func (r *Repository) Create(ctx context.Context, orgID uuid.UUID, name, description string) (*models.Kit, error) {
	var k models.Kit
	err := r.pool.QueryRow(ctx,
		`INSERT INTO kits (organization_id, name, description)
		 VALUES ($1, $2, $3)
		 RETURNING id, organization_id, name, description, created_at, updated_at`,
		orgID, name, description).
		Scan(&k.ID, &k.OrganizationID, &k.Name, &k.Description, &k.CreatedAt, &k.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// GetByID returns one kit.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Kit, error) {
	var k models.Kit
	err := r.pool.QueryRow(ctx,
		`SELECT id, organization_id, name, description, created_at, updated_at
		 FROM kits WHERE id = $1`, id).
		Scan(&k.ID, &k.OrganizationID, &k.Name, &k.Description, &k.CreatedAt, &k.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// ListByOrg returns the organization's kits by name.
func (r *Repository) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]models.Kit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, organization_id, name, description, created_at, updated_at
		 FROM kits WHERE organization_id = $1 ORDER BY name`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Kit{}
	for rows.Next() {
		var k models.Kit
		if err := rows.Scan(&k.ID, &k.OrganizationID, &k.Name, &k.Description, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

// Update rewrites the kit's name and description.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, name, description string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE kits SET name = $2, description = $3, updated_at = NOW() WHERE id = $1`,
		id, name, description)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the kit.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM kits WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateAttachment records an S3-backed file on the kit.
func (r *Repository) CreateAttachment(ctx context.Context, a *models.KitAttachment) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO kit_attachments (id, kit_id, filename, s3_key, content_type, size_bytes, uploaded_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		a.ID, a.KitID, a.Filename, a.S3Key, a.ContentType, a.SizeBytes, a.UploadedBy).
		Scan(&a.CreatedAt)
}

// GetAttachment returns one attachment.
func (r *Repository) GetAttachment(ctx context.Context, id uuid.UUID) (*models.KitAttachment, error) {
	var a models.KitAttachment
	err := r.pool.QueryRow(ctx,
		`SELECT id, kit_id, filename, s3_key, content_type, size_bytes, uploaded_by, created_at
		 FROM kit_attachments WHERE id = $1`, id).
		Scan(&a.ID, &a.KitID, &a.Filename, &a.S3Key, &a.ContentType, &a.SizeBytes, &a.UploadedBy, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAttachments returns the kit's attachments, newest first.
func (r *Repository) ListAttachments(ctx context.Context, kitID uuid.UUID) ([]models.KitAttachment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, kit_id, filename, s3_key, content_type, size_bytes, uploaded_by, created_at
		 FROM kit_attachments WHERE kit_id = $1 ORDER BY created_at DESC`, kitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.KitAttachment{}
	for rows.Next() {
		var a models.KitAttachment
		if err := rows.Scan(&a.ID, &a.KitID, &a.Filename, &a.S3Key, &a.ContentType,
			&a.SizeBytes, &a.UploadedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// DeleteAttachment removes the attachment row.
func (r *Repository) DeleteAttachment(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM kit_attachments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
