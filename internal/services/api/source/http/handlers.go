// Package http provides http transport for the source browser
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"progdex/internal/modkit/httpkit"
	svc "progdex/internal/services/api/source/service"
)

// Register mounts the source browsing endpoints
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/{owner}/{name}", h.browse)
	httpkit.Get(r, "/{owner}/{name}/readme", h.readme)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /source/{owner}/{name} Source sourceBrowse
// @Summary Representative source files for a repository
// @Tags Source
// @Produce json
// @Param owner path string true "repository owner"
// @Param name  path string true "repository name"
// @Success 200 {object} domain.BrowseResult "ok; no_code true when the repository holds no fetchable source"
// @Failure 503 {object} httpkit.Envelope "upstream unavailable"
// @Router /source/{owner}/{name} [get]
func (h *handlers) browse(r *stdhttp.Request) (any, error) {
	return h.svc.Browse(r.Context(), chi.URLParam(r, "owner"), chi.URLParam(r, "name"))
}

// swagger:route GET /source/{owner}/{name}/readme Source sourceReadme
// @Summary Repository README rendered to html
// @Tags Source
// @Produce json
// @Param owner path string true "repository owner"
// @Param name  path string true "repository name"
// @Success 200 {object} domain.ReadmeResult "ok"
// @Failure 404 {object} httpkit.Envelope "no readme upstream"
// @Router /source/{owner}/{name}/readme [get]
func (h *handlers) readme(r *stdhttp.Request) (any, error) {
	return h.svc.Readme(r.Context(), chi.URLParam(r, "owner"), chi.URLParam(r, "name"))
}
