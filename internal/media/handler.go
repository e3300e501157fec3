// Package media issues upload URLs and accepts uploads for invitation photos and music.
package media

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roemah-nenek/undangan/internal/auth"
	"github.com/roemah-nenek/undangan/internal/invitations"
	"github.com/roemah-nenek/undangan/internal/models"
	"github.com/roemah-nenek/undangan/pkg/response"
	"github.com/roemah-nenek/undangan/pkg/storage"
)

// Storage is the object store the handler writes to.
type Storage interface {
	PresignUpload(ctx context.Context, key, contentType string) (string, error)
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	PublicURL(key string) string
}

// InvitationLookup resolves an invitation owned by the caller.
type InvitationLookup interface {
	GetByID(ctx context.Context, accountID, id uuid.UUID) (*models.Invitation, error)
}

// UploadURLRequest is the body for POST /api/invitations/:id/media/upload-url.
type UploadURLRequest struct {
	Filename    string `json:"filename" binding:"required_without=ContentType"`
	ContentType string `json:"contentType" binding:"required_without=Filename"`
}

// UploadURLResponse tells the browser where to PUT the file and the URL to store afterwards.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
	PublicURL string `json:"publicUrl"`
}

// UploadResponse is returned after a server-side upload.
type UploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Handler handles media endpoints. A nil store disables them.
type Handler struct {
	store       Storage
	invitations InvitationLookup
	logger      *zap.Logger
}

// NewHandler creates a media handler.
func NewHandler(store Storage, invitations InvitationLookup, logger *zap.Logger) *Handler {
	return &Handler{store: store, invitations: invitations, logger: logger}
}

// Register mounts the media routes on the session-protected invitations group.
func (h *Handler) Register(g *gin.RouterGroup) {
	g.POST("/:id/media/upload-url", h.UploadURL)
	g.POST("/:id/media", h.Upload)
}

// UploadURL handles POST /api/invitations/:id/media/upload-url.
func (h *Handler) UploadURL(c *gin.Context) {
	inv, ok := h.ownedInvitation(c)
	if !ok {
		return
	}
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	ext, ok := storage.MediaExtension(req.ContentType, req.Filename)
	if !ok {
		response.BadRequest(c, "unsupported media type")
		return
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = storage.ContentTypeForExtension(ext)
	}
	key := storage.MediaKey(inv.ID, ext)
	url, err := h.store.PresignUpload(c.Request.Context(), key, contentType)
	if err != nil {
		h.logger.Error("presign media upload", zap.String("invitation_id", inv.ID.String()), zap.Error(err))
		response.Internal(c, "failed to create upload url")
		return
	}
	response.OK(c, UploadURLResponse{UploadURL: url, Key: key, PublicURL: h.store.PublicURL(key)})
}

// Upload handles POST /api/invitations/:id/media (multipart field "file").
func (h *Handler) Upload(c *gin.Context) {
	inv, ok := h.ownedInvitation(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, storage.MaxMediaFileSize+1<<20)
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.PayloadTooLarge(c, "file too large")
			return
		}
		response.BadRequest(c, "file is required")
		return
	}
	if fh.Size > storage.MaxMediaFileSize {
		response.PayloadTooLarge(c, "file too large")
		return
	}
	contentType := fh.Header.Get("Content-Type")
	ext, ok := storage.MediaExtension(contentType, fh.Filename)
	if !ok {
		response.BadRequest(c, "unsupported media type")
		return
	}
	if _, known := storage.AllowedMediaTypes[contentType]; !known {
		contentType = storage.ContentTypeForExtension(ext)
	}
	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, "unreadable file")
		return
	}
	defer f.Close()

	key := storage.MediaKey(inv.ID, ext)
	url, err := h.store.Upload(c.Request.Context(), key, contentType, f, fh.Size)
	if err != nil {
		h.logger.Error("media upload", zap.String("invitation_id", inv.ID.String()), zap.Error(err))
		response.Internal(c, "upload failed")
		return
	}
	h.logger.Info("media uploaded", zap.String("invitation_id", inv.ID.String()), zap.String("key", key), zap.Int64("size", fh.Size))
	response.Created(c, UploadResponse{Key: key, URL: url})
}

func (h *Handler) ownedInvitation(c *gin.Context) (*models.Invitation, bool) {
	if h.store == nil {
		response.ServiceUnavailable(c, "media storage not configured")
		return nil, false
	}
	id, ok := invitations.ParamID(c)
	if !ok {
		return nil, false
	}
	accountID, _ := auth.AccountID(c)
	inv, err := h.invitations.GetByID(c.Request.Context(), accountID, id)
	if err != nil {
		if errors.Is(err, invitations.ErrNotFound) {
			response.NotFound(c, invitations.ErrNotFound.Error())
			return nil, false
		}
		h.logger.Error("load invitation for media", zap.Error(err))
		response.Internal(c, "failed to load invitation")
		return nil, false
	}
	return inv, true
}
