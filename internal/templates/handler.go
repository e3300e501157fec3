package templates

import (
	"github.com/gin-gonic/gin"

	"github.com/roemah-nenek/undangan/pkg/response"
)

// Handler serves the template catalogue.
type Handler struct{}

// NewHandler creates a template handler.
func NewHandler() *Handler { return &Handler{} }

// List handles GET /api/templates.
func (h *Handler) List(c *gin.Context) {
	response.OK(c, All())
}

// Preview handles GET /api/templates/:id/preview.
func (h *Handler) Preview(c *gin.Context) {
	id := c.Param("id")
	inv, ok := Preview(id)
	if !ok {
		response.NotFound(c, "template not found")
		return
	}
	tpl, _ := Lookup(id)
	response.OK(c, gin.H{"template": tpl, "invitation": inv})
}
