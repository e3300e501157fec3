package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roemah-nenek/undangan/internal/auth"
	"github.com/roemah-nenek/undangan/pkg/response"
)

const (
	LoginPath     = "/admin/login"
	DashboardPath = "/admin/dashboard"
)

// Session validates the session token for API routes and sets the account id in context.
func Session(jwtService *auth.JWTService, cookies *auth.Cookies) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := jwtService.Validate(cookies.Token(c))
		if err != nil {
			response.AbortWith(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		c.Set(auth.ContextAccountID, claims.AccountID)
		c.Next()
	}
}

// RequirePageSession gates admin pages. A missing or invalid session clears the
// cookie and redirects to the login page.
func RequirePageSession(jwtService *auth.JWTService, cookies *auth.Cookies) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := jwtService.Validate(cookies.Token(c))
		if err != nil {
			cookies.Clear(c)
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Set(auth.ContextAccountID, claims.AccountID)
		c.Next()
	}
}

// RedirectAuthenticated sends visitors with a valid session away from the login
// and register pages to the dashboard.
func RedirectAuthenticated(jwtService *auth.JWTService, cookies *auth.Cookies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := jwtService.Validate(cookies.Token(c)); err == nil {
			c.Redirect(http.StatusFound, DashboardPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
