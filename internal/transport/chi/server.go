// Package chi serves the search API over HTTP with the chi router.
package chi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/forumsearch/internal/domain"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/query"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/result"
	"github.com/kailas-cloud/forumsearch/internal/metrics"
	healthuc "github.com/kailas-cloud/forumsearch/internal/usecase/health"
)

// Searcher runs a validated search.
type Searcher interface {
	Search(ctx context.Context, q query.Query) (*result.Response, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server exposes search, health and metrics endpoints.
type Server struct {
	search        Searcher
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		search: search,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeInvalidQuery),
		sentinelHandler(domain.ErrUnknownDomain, http.StatusBadRequest, codeUnknownDomain),
	}
	return s
}

// Router mounts the middleware chain and routes. apiKeys guard /api routes.
func (s *Server) Router(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(jsonRecoverer(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.Get("/api/search", s.Search)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	return r
}

// searchParams are the query string parameters of GET /api/search.
type searchParams struct {
	Term           string   `form:"term"`
	In             string   `form:"in"`
	MatchWords     string   `form:"matchWords"`
	Categories     []string `form:"categories"`
	SearchChildren bool     `form:"searchChildren"`
	By             []string `form:"by"`
	SortBy         string   `form:"sortBy"`
	SortDirection  string   `form:"sortDirection"`
	Replies        int      `form:"replies"`
	RepliesFilter  string   `form:"repliesFilter"`
	TimeRange      int      `form:"timeRange"`
	TimeFilter     string   `form:"timeFilter"`
	HasTags        []string `form:"hasTags"`
	Page           int      `form:"page"`
	ItemsPerPage   int      `form:"itemsPerPage"`
	ReturnIDs      bool     `form:"returnIds"`
}

// bindSearchParams reads every parameter in form style; list parameters
// repeat the key (categories=1&categories=2).
func bindSearchParams(r *http.Request) (searchParams, error) {
	var p searchParams
	values := r.URL.Query()
	binds := []struct {
		name string
		dest any
	}{
		{"term", &p.Term},
		{"in", &p.In},
		{"matchWords", &p.MatchWords},
		{"categories", &p.Categories},
		{"searchChildren", &p.SearchChildren},
		{"by", &p.By},
		{"sortBy", &p.SortBy},
		{"sortDirection", &p.SortDirection},
		{"replies", &p.Replies},
		{"repliesFilter", &p.RepliesFilter},
		{"timeRange", &p.TimeRange},
		{"timeFilter", &p.TimeFilter},
		{"hasTags", &p.HasTags},
		{"page", &p.Page},
		{"itemsPerPage", &p.ItemsPerPage},
		{"returnIds", &p.ReturnIDs},
	}
	for _, b := range binds {
		if err := runtime.BindQueryParameter("form", true, false, b.name, values, b.dest); err != nil {
			return searchParams{}, err
		}
	}
	return p, nil
}

// Search handles GET /api/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	p, err := bindSearchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid query parameter: "+err.Error())
		return
	}

	q, err := query.New(query.Params{
		Text:           p.Term,
		Domain:         p.In,
		MatchWords:     p.MatchWords,
		Categories:     p.Categories,
		SearchChildren: p.SearchChildren,
		PostedBy:       p.By,
		SortBy:         p.SortBy,
		SortDirection:  p.SortDirection,
		Replies:        p.Replies,
		RepliesFilter:  p.RepliesFilter,
		TimeRange:      p.TimeRange,
		TimeFilter:     p.TimeFilter,
		HasTags:        p.HasTags,
		Page:           p.Page,
		ItemsPerPage:   p.ItemsPerPage,
		ReturnIDs:      p.ReturnIDs,
		UID:            requesterFromContext(r.Context()),
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidQuery, err.Error())
		return
	}

	ctx := r.Context()
	annotate(ctx, zap.String("domain", string(q.Domain())), zap.Int64("uid", q.UID()))

	resp, err := s.search.Search(ctx, q)
	if err != nil {
		annotate(ctx, zap.Error(err))
		s.handleDomainError(w, err)
		return
	}

	if resp.IDs != nil {
		annotate(ctx, zap.Int("pids", len(resp.IDs.Pids)), zap.Int("tids", len(resp.IDs.Tids)))
		writeJSON(w, http.StatusOK, resp.IDs)
		return
	}
	if resp.Page != nil {
		annotate(ctx, zap.Int("match_count", resp.Page.MatchCount))
	}
	body, err := pageBody(resp.Page)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// pageBody flattens hook-contributed extras into the page object. Extras
// never replace page fields.
func pageBody(page *result.Page) (any, error) {
	if page == nil {
		return result.Page{PageCount: 1, Time: "0.00"}, nil
	}
	if len(page.Extra) == 0 {
		return page, nil
	}
	raw, err := json.Marshal(page)
	if err != nil {
		return nil, err
	}
	body := make(map[string]any, len(page.Extra)+8)
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	for k, v := range page.Extra {
		if _, taken := body[k]; !taken {
			body[k] = v
		}
	}
	return body, nil
}

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status healthuc.Status                 `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: report.Status,
		Checks: report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}
