package invitations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roemah-nenek/undangan/internal/models"
	"github.com/roemah-nenek/undangan/pkg/database"
)

const slugConstraint = "invitations_slug_key"

// Store is the invitation persistence the service depends on. It accepts any
// content shape; template shaping happens before it is called.
type Store interface {
	Create(ctx context.Context, inv *models.Invitation) (*models.Invitation, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, patch *models.InvitationPatch) (*models.Invitation, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) (*models.Invitation, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Invitation, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Invitation, error)
	GetBySlug(ctx context.Context, slug string) (*models.Invitation, error)
}

// Repository stores invitations in PostgreSQL: metadata in columns, content in a jsonb document.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an invitation repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const invitationColumns = `id, slug, template_id, owner_id, document, created_at, updated_at`

func scanInvitation(row pgx.Row) (*models.Invitation, error) {
	var inv models.Invitation
	var doc []byte
	if err := row.Scan(&inv.ID, &inv.Slug, &inv.TemplateID, &inv.OwnerAccountID, &doc, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(doc) > 0 {
		if err := json.Unmarshal(doc, &inv.Content); err != nil {
			return nil, fmt.Errorf("decode invitation %s: %w", inv.ID, err)
		}
	}
	return &inv, nil
}

func mapWriteErr(err error) error {
	if database.IsUniqueViolation(err, slugConstraint) {
		return ErrSlugConflict
	}
	return err
}

// Create inserts an invitation. A taken slug yields ErrSlugConflict.
func (r *Repository) Create(ctx context.Context, inv *models.Invitation) (*models.Invitation, error) {
	doc, err := json.Marshal(inv.Content)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	const q = `INSERT INTO invitations (slug, template_id, owner_id, document)
		VALUES ($1, $2, $3, $4::jsonb)
		RETURNING ` + invitationColumns
	out, err := scanInvitation(r.pool.QueryRow(ctx, q, inv.Slug, inv.TemplateID, inv.OwnerAccountID, string(doc)))
	if err != nil {
		return nil, mapWriteErr(err)
	}
	return out, nil
}

// Update replaces the patched top-level fields in a single statement scoped to the owner.
func (r *Repository) Update(ctx context.Context, ownerID, id uuid.UUID, patch *models.InvitationPatch) (*models.Invitation, error) {
	doc, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("encode patch: %w", err)
	}
	const q = `UPDATE invitations SET
			slug = COALESCE($3::text, slug),
			template_id = COALESCE($4::text, template_id),
			document = document || $5::jsonb,
			updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + invitationColumns
	out, err := scanInvitation(r.pool.QueryRow(ctx, q, id, ownerID, patch.Slug, patch.TemplateID, string(doc)))
	if err != nil {
		return nil, mapWriteErr(err)
	}
	return out, nil
}

// Delete removes an owned invitation and returns what was deleted.
func (r *Repository) Delete(ctx context.Context, ownerID, id uuid.UUID) (*models.Invitation, error) {
	const q = `DELETE FROM invitations WHERE id = $1 AND owner_id = $2 RETURNING ` + invitationColumns
	return scanInvitation(r.pool.QueryRow(ctx, q, id, ownerID))
}

// GetByID returns an invitation only if ownerID owns it.
func (r *Repository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Invitation, error) {
	const q = `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1 AND owner_id = $2`
	return scanInvitation(r.pool.QueryRow(ctx, q, id, ownerID))
}

// ListByOwner returns the owner's invitations, newest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Invitation, error) {
	const q = `SELECT ` + invitationColumns + ` FROM invitations WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.Invitation{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *inv)
	}
	return list, rows.Err()
}

// GetBySlug returns an invitation by slug regardless of owner.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*models.Invitation, error) {
	const q = `SELECT ` + invitationColumns + ` FROM invitations WHERE slug = $1`
	return scanInvitation(r.pool.QueryRow(ctx, q, slug))
}
