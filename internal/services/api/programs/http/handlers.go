// Package http provides http transport for the programs catalog
package http

import (
	stdhttp "net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"progdex/internal/modkit/httpkit"
	"progdex/internal/platform/net/middleware"
	"progdex/internal/services/api/programs/domain"
	svc "progdex/internal/services/api/programs/service"
)

// Register mounts the public program endpoints
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.list)
	httpkit.PostJSON[domain.QueryInput](r, "/query", h.query)
	httpkit.Get(r, "/categories", h.categories)
	httpkit.Get(r, "/{owner}/{name}", h.detail)
	httpkit.Get(r, "/{owner}/{name}/archive", h.archive)
}

// RegisterAdmin mounts operator endpoints behind the given auth port
func RegisterAdmin(r httpkit.Router, p middleware.AuthPort, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Protected(r, p, func(rr httpkit.Router) {
		httpkit.Delete(rr, "/{owner}/{name}", h.remove)
	})
}

type handlers struct{ svc svc.Service }

// swagger:route GET /programs Programs programsList
// @Summary List cataloged programs with search, filters, sort, pagination
// @Tags Programs
// @Produce json
// @Param q          query string false "substring over name, description, topics"
// @Param category   query string false "primary category"
// @Param language   query string false "implementation language"
// @Param min_stars  query int    false "minimum stars"
// @Param max_stars  query int    false "maximum stars"
// @Param sort       query string false "stars | updated | name"
// @Param page       query int    false "1-based page"
// @Param size       query int    false "page size, max 100"
// @Success 200 {object} domain.Page "ok"
// @Router /programs [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context(), queryInputFromURL(r))
}

// swagger:route POST /programs/query Programs programsQuery
// @Summary List cataloged programs via a validated JSON query
// @Tags Programs
// @Accept json
// @Produce json
// @Param payload body domain.QueryInput true "Query"
// @Success 200 {object} domain.Page "ok"
// @Router /programs/query [post]
func (h *handlers) query(r *stdhttp.Request, in domain.QueryInput) (any, error) {
	return h.svc.List(r.Context(), in)
}

// swagger:route GET /programs/categories Programs programsCategories
// @Summary Closed category list with per-category counts
// @Tags Programs
// @Produce json
// @Success 200 {array} domain.CategoryCount "ok"
// @Router /programs/categories [get]
func (h *handlers) categories(r *stdhttp.Request) (any, error) {
	return h.svc.Categories(r.Context())
}

// swagger:route GET /programs/{owner}/{name} Programs programsDetail
// @Summary One cataloged program by identity
// @Tags Programs
// @Produce json
// @Param owner path string true "repository owner"
// @Param name  path string true "repository name"
// @Success 200 {object} domain.Program "ok"
// @Failure 404 {object} httpkit.Envelope "not cataloged"
// @Router /programs/{owner}/{name} [get]
func (h *handlers) detail(r *stdhttp.Request) (any, error) {
	return h.svc.Detail(r.Context(), chi.URLParam(r, "owner"), chi.URLParam(r, "name"))
}

// swagger:route GET /programs/{owner}/{name}/archive Programs programsArchive
// @Summary Downloadable archive url for a cataloged program
// @Tags Programs
// @Produce json
// @Param owner path string true "repository owner"
// @Param name  path string true "repository name"
// @Success 200 {object} domain.ArchiveOutput "ok"
// @Failure 404 {object} httpkit.Envelope "not cataloged or gone upstream"
// @Router /programs/{owner}/{name}/archive [get]
func (h *handlers) archive(r *stdhttp.Request) (any, error) {
	return h.svc.Archive(r.Context(), chi.URLParam(r, "owner"), chi.URLParam(r, "name"))
}

// swagger:route DELETE /programs/{owner}/{name} Programs programsRemove
// @Summary Operator removal of one cataloged program
// @Tags Programs
// @Produce json
// @Security BearerAuth
// @Param owner path string true "repository owner"
// @Param name  path string true "repository name"
// @Success 200 {object} domain.RemoveOutput "ok"
// @Failure 404 {object} httpkit.Envelope "not cataloged"
// @Router /programs/{owner}/{name} [delete]
func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	return h.svc.Remove(r.Context(), chi.URLParam(r, "owner"), chi.URLParam(r, "name"))
}

// queryInputFromURL maps GET query params onto the shared QueryInput shape.
// Unparseable numbers read as unset rather than erroring
func queryInputFromURL(r *stdhttp.Request) domain.QueryInput {
	q := r.URL.Query()
	return domain.QueryInput{
		Query:       strings.TrimSpace(q.Get("q")),
		Category:    strings.TrimSpace(q.Get("category")),
		SubCategory: strings.TrimSpace(q.Get("sub_category")),
		Language:    strings.TrimSpace(q.Get("language")),
		MinStars:    atoiOr0(q.Get("min_stars")),
		MaxStars:    atoiOr0(q.Get("max_stars")),
		Sort:        strings.TrimSpace(q.Get("sort")),
		Page:        atoiOr0(q.Get("page")),
		Size:        atoiOr0(q.Get("size")),
	}
}

func atoiOr0(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
