// Package public resolves invitations by slug for the template renderer and
// accepts guestbook submissions from invitation pages.
package public

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roemah-nenek/undangan/internal/guests"
	"github.com/roemah-nenek/undangan/internal/invitations"
	"github.com/roemah-nenek/undangan/internal/models"
	"github.com/roemah-nenek/undangan/internal/templates"
	"github.com/roemah-nenek/undangan/pkg/response"
)

// InvitationResolver looks up invitations by public slug.
type InvitationResolver interface {
	GetBySlug(ctx context.Context, slug string) (*models.Invitation, error)
}

// Guestbook is the guestbook surface used by invitation pages.
type Guestbook interface {
	Submit(ctx context.Context, in guests.SubmitInput) (*models.GuestResponse, error)
	ListForInvitation(ctx context.Context, invitationID uuid.UUID) ([]models.GuestResponse, error)
}

// Invitation is the public projection of an invitation; it omits the owner.
type Invitation struct {
	ID         uuid.UUID `json:"id"`
	Slug       string    `json:"slug"`
	TemplateID string    `json:"templateId"`
	models.Content
}

// Page is what the renderer needs to draw an invitation.
type Page struct {
	Template     templates.Template `json:"template"`
	Invitation   Invitation         `json:"invitation"`
	GuestAPIPath string             `json:"guestApiPath"`
}

// WishRequest is the body for POST /v/:slug/guests.
type WishRequest struct {
	Name        string `json:"name" binding:"required"`
	Message     string `json:"message"`
	IsAttending *bool  `json:"isAttending"`
}

// Handler serves public invitation routes.
type Handler struct {
	invitations InvitationResolver
	guestbook   Guestbook
	logger      *zap.Logger
}

// NewHandler creates the public handler.
func NewHandler(inv InvitationResolver, gb Guestbook, logger *zap.Logger) *Handler {
	return &Handler{invitations: inv, guestbook: gb, logger: logger}
}

// Register mounts the public routes.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/v/:slug", h.Page)
	r.GET("/v/:slug/guests", h.Wishes)
	r.POST("/v/:slug/guests", h.SubmitWish)
}

// GuestAPIPath is where an invitation page posts guestbook entries.
func GuestAPIPath(slug string) string {
	return "/v/" + slug + "/guests"
}

// Page handles GET /v/:slug.
func (h *Handler) Page(c *gin.Context) {
	inv, ok := h.resolve(c)
	if !ok {
		return
	}
	tpl, found := templates.Lookup(inv.TemplateID)
	if !found {
		response.NotFound(c, "template not found")
		return
	}
	response.OK(c, Page{
		Template: tpl,
		Invitation: Invitation{
			ID:         inv.ID,
			Slug:       inv.Slug,
			TemplateID: inv.TemplateID,
			Content:    inv.Content,
		},
		GuestAPIPath: GuestAPIPath(inv.Slug),
	})
}

// Wishes handles GET /v/:slug/guests.
func (h *Handler) Wishes(c *gin.Context) {
	inv, ok := h.resolve(c)
	if !ok {
		return
	}
	list, err := h.guestbook.ListForInvitation(c.Request.Context(), inv.ID)
	if err != nil {
		h.logger.Error("list wishes", zap.String("slug", inv.Slug), zap.Error(err))
		response.Internal(c, "failed to load wishes")
		return
	}
	wishes := make([]models.GuestWish, 0, len(list))
	for i := range list {
		wishes = append(wishes, list[i].ToWish())
	}
	response.OK(c, wishes)
}

// SubmitWish handles POST /v/:slug/guests.
func (h *Handler) SubmitWish(c *gin.Context) {
	var req WishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	inv, ok := h.resolve(c)
	if !ok {
		return
	}
	id := inv.ID
	g, err := h.guestbook.Submit(c.Request.Context(), guests.SubmitInput{
		Name:         req.Name,
		Message:      req.Message,
		IsAttending:  req.IsAttending,
		InvitationID: &id,
	})
	if err != nil {
		switch {
		case errors.Is(err, guests.ErrValidation):
			response.BadRequest(c, err.Error())
		case errors.Is(err, guests.ErrInvitationNotFound):
			response.NotFound(c, err.Error())
		default:
			h.logger.Error("submit wish", zap.String("slug", inv.Slug), zap.Error(err))
			response.Internal(c, "failed to submit response")
		}
		return
	}
	response.Created(c, g.ToWish())
}

func (h *Handler) resolve(c *gin.Context) (*models.Invitation, bool) {
	inv, err := h.invitations.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, invitations.ErrNotFound) {
			response.NotFound(c, invitations.ErrNotFound.Error())
			return nil, false
		}
		h.logger.Error("resolve invitation", zap.String("slug", c.Param("slug")), zap.Error(err))
		response.Internal(c, "failed to load invitation")
		return nil, false
	}
	return inv, true
}

// SlugResolver adapts an InvitationResolver for the live guestbook socket.
func SlugResolver(inv InvitationResolver) func(ctx context.Context, slug string) (uuid.UUID, error) {
	return func(ctx context.Context, slug string) (uuid.UUID, error) {
		found, err := inv.GetBySlug(ctx, slug)
		if err != nil {
			return uuid.Nil, err
		}
		return found.ID, nil
	}
}
