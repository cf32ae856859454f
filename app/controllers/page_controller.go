package controllers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

// AdminPrefix is the URL prefix of the pages only a logged-in admin may load.
const AdminPrefix = "/Admin-Html"

// PageController serves the HTML storefront from contentRoot.
type PageController struct {
	contentRoot string
}

func NewPageController(contentRoot string) *PageController {
	return &PageController{contentRoot: contentRoot}
}

func (pc *PageController) Home(c *ctx.Context) {
	c.File(filepath.Join(pc.contentRoot, "Intro-Html", "intro.html"))
}

// Fallback serves content files for GET and HEAD requests no route matched.
// Admin pages are never served from here.
func (pc *PageController) Fallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		response.Error(w, http.StatusNotFound, "not found")
		return
	}
	if hasPrefixFold(r.URL.Path, AdminPrefix) {
		response.Heading(w, http.StatusUnauthorized, "access denied")
		return
	}
	if !serveFile(w, r, pc.contentRoot, r.URL.Path) {
		response.Error(w, http.StatusNotFound, "not found")
	}
}

// Static serves files under root for the part of the URL after prefix.
// Directories are answered with their index.html or a 404, never a listing.
func Static(root, prefix string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			response.Error(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if !serveFile(w, r, root, strings.TrimPrefix(r.URL.Path, prefix)) {
			response.Error(w, http.StatusNotFound, "not found")
		}
	})
}

func serveFile(w http.ResponseWriter, r *http.Request, root, urlPath string) bool {
	name := filepath.Join(root, filepath.FromSlash(path.Clean("/"+urlPath)))

	info, err := os.Stat(name)
	if err == nil && info.IsDir() {
		name = filepath.Join(name, "index.html")
		info, err = os.Stat(name)
	}
	if err != nil || info.IsDir() {
		return false
	}

	f, err := os.Open(name)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err.Error())
		return true
	}
	defer f.Close()
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return true
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
