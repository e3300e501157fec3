// Package analytics summarizes the guestbook of an invitation for its owner.
package analytics

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roemah-nenek/undangan/internal/auth"
	"github.com/roemah-nenek/undangan/internal/invitations"
	"github.com/roemah-nenek/undangan/internal/models"
	"github.com/roemah-nenek/undangan/pkg/response"
)

// Counter aggregates guest responses.
type Counter interface {
	CountByInvitation(ctx context.Context, invitationID uuid.UUID) (RSVPCounts, error)
}

// InvitationLookup resolves an invitation owned by the caller.
type InvitationLookup interface {
	GetByID(ctx context.Context, accountID, id uuid.UUID) (*models.Invitation, error)
}

// ViewerCounter reports live guestbook viewers. Optional.
type ViewerCounter interface {
	ViewerCount(invitationID uuid.UUID) int
}

// Handler handles GET /api/invitations/:id/analytics.
type Handler struct {
	counter     Counter
	invitations InvitationLookup
	viewers     ViewerCounter
	logger      *zap.Logger
}

// NewHandler creates an analytics handler. viewers may be nil.
func NewHandler(counter Counter, invitations InvitationLookup, viewers ViewerCounter, logger *zap.Logger) *Handler {
	return &Handler{counter: counter, invitations: invitations, viewers: viewers, logger: logger}
}

// SummaryResponse is the JSON shape of the RSVP summary.
type SummaryResponse struct {
	TotalResponses int      `json:"totalResponses"`
	Attending      int      `json:"attending"`
	NotAttending   int      `json:"notAttending"`
	WithMessage    int      `json:"withMessage"`
	AttendanceRate *float64 `json:"attendanceRate,omitempty"`
	LiveViewers    int      `json:"liveViewers"`
	DaysUntilEvent *int     `json:"daysUntilEvent,omitempty"`
}

// Register mounts the route on the session-protected invitations group.
func (h *Handler) Register(g *gin.RouterGroup) {
	g.GET("/:id/analytics", h.GetByInvitation)
}

// GetByInvitation handles GET /api/invitations/:id/analytics.
func (h *Handler) GetByInvitation(c *gin.Context) {
	id, ok := invitations.ParamID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	accountID, _ := auth.AccountID(c)
	inv, err := h.invitations.GetByID(ctx, accountID, id)
	if err != nil {
		if errors.Is(err, invitations.ErrNotFound) {
			response.NotFound(c, invitations.ErrNotFound.Error())
			return
		}
		h.logger.Error("load invitation for analytics", zap.Error(err))
		response.Internal(c, "failed to load invitation")
		return
	}

	counts, err := h.counter.CountByInvitation(ctx, inv.ID)
	if err != nil {
		h.logger.Error("count guest responses", zap.String("invitation_id", inv.ID.String()), zap.Error(err))
		response.Internal(c, "failed to load response counts")
		return
	}

	out := SummaryResponse{
		TotalResponses: counts.Total,
		Attending:      counts.Attending,
		NotAttending:   counts.NotAttending,
		WithMessage:    counts.WithMessage,
	}
	if counts.Total > 0 {
		rate := float64(counts.Attending) / float64(counts.Total)
		out.AttendanceRate = &rate
	}
	if h.viewers != nil {
		out.LiveViewers = h.viewers.ViewerCount(inv.ID)
	}
	if inv.WeddingDate != nil {
		days := daysUntil(now(), *inv.WeddingDate)
		out.DaysUntilEvent = &days
	}
	response.OK(c, out)
}
