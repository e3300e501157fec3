package guests

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roemah-nenek/undangan/pkg/response"
)

// SubmitRequest is the body for POST /api/guests.
type SubmitRequest struct {
	Name         string  `json:"name" binding:"required"`
	Message      string  `json:"message"`
	IsAttending  *bool   `json:"isAttending"`
	InvitationID *string `json:"invitationId"`
}

// Handler handles guestbook HTTP endpoints.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a guestbook handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Submit handles POST /api/guests.
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	in := SubmitInput{Name: req.Name, Message: req.Message, IsAttending: req.IsAttending}
	if req.InvitationID != nil && strings.TrimSpace(*req.InvitationID) != "" {
		id, err := uuid.Parse(strings.TrimSpace(*req.InvitationID))
		if err != nil {
			response.BadRequest(c, "invalid invitationId")
			return
		}
		in.InvitationID = &id
	}
	g, err := h.svc.Submit(c.Request.Context(), in)
	if err != nil {
		h.Fail(c, err, "failed to submit response")
		return
	}
	response.Created(c, g)
}

// List handles GET /api/guests, optionally filtered by ?invitationId=.
func (h *Handler) List(c *gin.Context) {
	if raw := c.Query("invitationId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid invitationId")
			return
		}
		list, err := h.svc.ListForInvitation(c.Request.Context(), id)
		if err != nil {
			h.Fail(c, err, "failed to list responses")
			return
		}
		response.OK(c, list)
		return
	}
	list, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		h.Fail(c, err, "failed to list responses")
		return
	}
	response.OK(c, list)
}

// Delete handles DELETE /api/guests/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, ErrNotFound.Error())
		return
	}
	if err := h.svc.DeleteByID(c.Request.Context(), id); err != nil {
		h.Fail(c, err, "failed to delete response")
		return
	}
	response.OK(c, gin.H{"message": "response deleted"})
}

// Fail maps guestbook errors to HTTP responses.
func (h *Handler) Fail(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, ErrValidation):
		response.BadRequest(c, err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvitationNotFound):
		response.NotFound(c, err.Error())
	default:
		h.logger.Error(msg, zap.Error(err))
		response.Internal(c, msg)
	}
}
