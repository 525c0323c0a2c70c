package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/agentstation/carriermap/internal/server/response"
)

// HandleFallback serves files from the static directory for GET and HEAD
// requests and answers everything else with the JSON 404. Dotfiles and
// directories are never served; "/" serves index.html.
func (h *Handlers) HandleFallback(w http.ResponseWriter, r *http.Request) {
	if h.staticDir == "" || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
		response.RouteNotFound(w)
		return
	}

	name := path.Clean("/" + r.URL.Path)
	if name == "/" {
		name = "/index.html"
	}
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") {
			response.RouteNotFound(w)
			return
		}
	}

	file := filepath.Join(h.staticDir, filepath.FromSlash(name))
	info, err := os.Stat(file)
	if err != nil || info.IsDir() {
		response.RouteNotFound(w)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeFile(w, r, file)
}
