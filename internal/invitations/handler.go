package invitations

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roemah-nenek/undangan/internal/auth"
	"github.com/roemah-nenek/undangan/internal/models"
	"github.com/roemah-nenek/undangan/pkg/response"
)

// CreateRequest is the body for POST /api/invitations. Content fields sit at the top level.
type CreateRequest struct {
	Slug       string `json:"slug" binding:"required"`
	TemplateID string `json:"templateId"`
	models.Content
}

// UpdateRequest is the body for PUT/PATCH /api/invitations/:id. Absent fields are left unchanged.
type UpdateRequest struct {
	Slug       *string `json:"slug"`
	TemplateID *string `json:"templateId"`
	models.InvitationPatch
}

// Handler handles invitation HTTP endpoints.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates an invitation handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the invitation routes on a session-protected group.
func (h *Handler) Register(g *gin.RouterGroup) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// List handles GET /api/invitations.
func (h *Handler) List(c *gin.Context) {
	accountID, _ := auth.AccountID(c)
	list, err := h.svc.ListByOwner(c.Request.Context(), accountID)
	if err != nil {
		h.fail(c, err, "failed to list invitations")
		return
	}
	response.OK(c, list)
}

// Create handles POST /api/invitations.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	accountID, _ := auth.AccountID(c)
	inv, err := h.svc.Create(c.Request.Context(), accountID, CreateInput{
		Slug:       req.Slug,
		TemplateID: req.TemplateID,
		Content:    req.Content,
	})
	if err != nil {
		h.fail(c, err, "failed to create invitation")
		return
	}
	response.Created(c, inv)
}

// Get handles GET /api/invitations/:id.
func (h *Handler) Get(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	accountID, _ := auth.AccountID(c)
	inv, err := h.svc.GetByID(c.Request.Context(), accountID, id)
	if err != nil {
		h.fail(c, err, "failed to load invitation")
		return
	}
	response.OK(c, inv)
}

// Update handles PUT and PATCH /api/invitations/:id.
func (h *Handler) Update(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	patch := req.InvitationPatch
	patch.Slug = req.Slug
	if req.TemplateID != nil && *req.TemplateID != "" {
		patch.TemplateID = req.TemplateID
	}
	accountID, _ := auth.AccountID(c)
	inv, err := h.svc.Update(c.Request.Context(), accountID, id, patch)
	if err != nil {
		h.fail(c, err, "failed to update invitation")
		return
	}
	response.OK(c, inv)
}

// Delete handles DELETE /api/invitations/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	accountID, _ := auth.AccountID(c)
	if err := h.svc.Delete(c.Request.Context(), accountID, id); err != nil {
		h.fail(c, err, "failed to delete invitation")
		return
	}
	response.OK(c, gin.H{"message": "invitation deleted"})
}

// ParamID parses the :id path parameter. A malformed id is answered as not found.
func ParamID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, ErrNotFound.Error())
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) fail(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidSlug):
		response.BadRequest(c, err.Error())
	case errors.Is(err, ErrNotFound):
		response.NotFound(c, ErrNotFound.Error())
	case errors.Is(err, ErrSlugConflict):
		response.Conflict(c, err.Error())
	default:
		h.logger.Error(msg, zap.Error(err))
		response.Internal(c, msg)
	}
}
