package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roemah-nenek/undangan/config"
)

// Cookies writes and clears the session cookie.
type Cookies struct {
	name   string
	secure bool
	maxAge int
}

// NewCookies builds the session cookie writer. maxAge is in seconds.
func NewCookies(cfg config.CookieConfig, maxAge int) *Cookies {
	return &Cookies{name: cfg.Name, secure: cfg.Secure, maxAge: maxAge}
}

// Name is the cookie name.
func (k *Cookies) Name() string { return k.name }

// Set stores the session token.
func (k *Cookies) Set(c *gin.Context, token string) {
	k.write(c, token, k.maxAge)
}

// Clear expires the session cookie.
func (k *Cookies) Clear(c *gin.Context) {
	k.write(c, "", -1)
}

func (k *Cookies) write(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     k.name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   k.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Token returns the session token from the cookie or an Authorization: Bearer header.
func (k *Cookies) Token(c *gin.Context) string {
	if v, err := c.Cookie(k.name); err == nil && v != "" {
		return v
	}
	const prefix = "Bearer "
	if h := c.GetHeader("Authorization"); len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}
