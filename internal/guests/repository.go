package guests

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roemah-nenek/undangan/internal/models"
	"github.com/roemah-nenek/undangan/pkg/database"
)

const invitationFK = "guests_invitation_id_fkey"

// Store is the guestbook persistence the service depends on.
type Store interface {
	Create(ctx context.Context, g *models.GuestResponse) (*models.GuestResponse, error)
	ListAll(ctx context.Context) ([]models.GuestResponseWithInvitation, error)
	ListForInvitation(ctx context.Context, invitationID uuid.UUID) ([]models.GuestResponse, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.GuestResponse, error)
}

// Repository handles guest response persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a guest response repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const guestColumns = `id, name, message, is_attending, invitation_id, created_at`

func scanGuest(row pgx.Row) (*models.GuestResponse, error) {
	var g models.GuestResponse
	if err := row.Scan(&g.ID, &g.Name, &g.Message, &g.IsAttending, &g.InvitationID, &g.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// Create inserts a guest response. A link to a missing invitation yields ErrInvitationNotFound.
func (r *Repository) Create(ctx context.Context, g *models.GuestResponse) (*models.GuestResponse, error) {
	const q = `INSERT INTO guests (name, message, is_attending, invitation_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + guestColumns
	out, err := scanGuest(r.pool.QueryRow(ctx, q, g.Name, g.Message, g.IsAttending, g.InvitationID))
	if err != nil {
		if database.IsForeignKeyViolation(err, invitationFK) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return out, nil
}

// ListAll returns every response, newest first, annotated with the linked invitation.
func (r *Repository) ListAll(ctx context.Context) ([]models.GuestResponseWithInvitation, error) {
	const q = `SELECT g.id, g.name, g.message, g.is_attending, g.invitation_id, g.created_at,
			i.slug, i.document->'couple'->'groom'->>'name', i.document->'couple'->'bride'->>'name'
		FROM guests g
		LEFT JOIN invitations i ON i.id = g.invitation_id
		ORDER BY g.created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.GuestResponseWithInvitation{}
	for rows.Next() {
		var g models.GuestResponseWithInvitation
		var slug, groom, bride *string
		if err := rows.Scan(&g.ID, &g.Name, &g.Message, &g.IsAttending, &g.InvitationID, &g.CreatedAt,
			&slug, &groom, &bride); err != nil {
			return nil, err
		}
		if g.InvitationID != nil && slug != nil {
			g.Invitation = &models.InvitationRef{
				ID:        *g.InvitationID,
				Slug:      *slug,
				GroomName: deref(groom),
				BrideName: deref(bride),
			}
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

// ListForInvitation returns the invitation's responses, newest first.
func (r *Repository) ListForInvitation(ctx context.Context, invitationID uuid.UUID) ([]models.GuestResponse, error) {
	const q = `SELECT ` + guestColumns + ` FROM guests WHERE invitation_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, invitationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.GuestResponse{}
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *g)
	}
	return list, rows.Err()
}

// Delete removes a response by id and returns it.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (*models.GuestResponse, error) {
	return scanGuest(r.pool.QueryRow(ctx, `DELETE FROM guests WHERE id = $1 RETURNING `+guestColumns, id))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
