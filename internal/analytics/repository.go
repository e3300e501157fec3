package analytics

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RSVPCounts aggregates the guestbook of one invitation.
type RSVPCounts struct {
	Total        int
	Attending    int
	NotAttending int
	WithMessage  int
}

// Repository reads guestbook aggregates.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an analytics repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CountByInvitation returns the response counts for an invitation.
func (r *Repository) CountByInvitation(ctx context.Context, invitationID uuid.UUID) (RSVPCounts, error) {
	const q = `SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_attending),
			COUNT(*) FILTER (WHERE NOT is_attending),
			COUNT(*) FILTER (WHERE COALESCE(message, '') <> '')
		FROM guests WHERE invitation_id = $1`
	var out RSVPCounts
	err := r.pool.QueryRow(ctx, q, invitationID).Scan(&out.Total, &out.Attending, &out.NotAttending, &out.WithMessage)
	return out, err
}
