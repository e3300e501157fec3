// Package admin serves the built admin UI bundle behind the page session gates.
package admin

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/roemah-nenek/undangan/pkg/response"
)

// UI serves files from a built single-page app, falling back to index.html for client routes.
type UI struct {
	dir string
}

// NewUI returns a UI rooted at dir. An empty dir disables it.
func NewUI(dir string) *UI {
	return &UI{dir: dir}
}

// Enabled reports whether a bundle directory is configured.
func (u *UI) Enabled() bool { return u.dir != "" }

// Serve writes the requested file, or index.html when the path is not a file in the bundle.
func (u *UI) Serve(c *gin.Context) {
	if !u.Enabled() {
		response.NotFound(c, "admin ui not configured")
		return
	}
	if p, ok := u.resolve(c.Request.URL.Path); ok {
		c.File(p)
		return
	}
	index := filepath.Join(u.dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		response.NotFound(c, "admin ui not built")
		return
	}
	c.Header("Cache-Control", "no-store")
	c.File(index)
}

// Assets serves static bundle files without a session; only existing files are returned.
func (u *UI) Assets(c *gin.Context) {
	if p, ok := u.resolve(c.Request.URL.Path); ok && u.Enabled() {
		c.File(p)
		return
	}
	c.Status(http.StatusNotFound)
}

func (u *UI) resolve(urlPath string) (string, bool) {
	clean := filepath.Clean("/" + strings.TrimPrefix(urlPath, "/"))
	if clean == "/" {
		return "", false
	}
	p := filepath.Join(u.dir, filepath.FromSlash(clean))
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", false
	}
	return p, true
}
