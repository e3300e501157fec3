package auth

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roemah-nenek/undangan/pkg/response"
)

// ContextAccountID is the gin context key holding the authenticated account id.
const ContextAccountID = "account_id"

// RegisterRequest is the body for POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	svc     *Service
	cookies *Cookies
	logger  *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(svc *Service, cookies *Cookies, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, cookies: cookies, logger: logger}
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", ErrValidation, err), "invalid request")
		return
	}
	acc, err := h.svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.fail(c, err, "registration failed")
		return
	}
	response.Created(c, acc.ToPublic())
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", ErrValidation, err), "invalid request")
		return
	}
	acc, token, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err, "login failed")
		return
	}
	h.cookies.Set(c, token)
	response.OK(c, acc.ToPublic())
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(c *gin.Context) {
	h.cookies.Clear(c)
	response.OK(c, gin.H{"message": "logged out"})
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(c *gin.Context) {
	id, ok := AccountID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}
	acc, err := h.svc.Account(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			response.Unauthorized(c, "unauthorized")
			return
		}
		h.fail(c, err, "failed to load account")
		return
	}
	response.OK(c, acc.ToPublic())
}

func (h *Handler) fail(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, ErrValidation):
		response.BadRequest(c, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, ErrDuplicateEmail):
		response.Conflict(c, err.Error())
	default:
		h.logger.Error(msg, zap.Error(err))
		response.Internal(c, msg)
	}
}

// AccountID returns the authenticated account id set by the session middleware.
func AccountID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextAccountID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
