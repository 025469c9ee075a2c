package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cookfind/internal/domain"
	"github.com/kailas-cloud/cookfind/internal/domain/catalog"
	"github.com/kailas-cloud/cookfind/internal/domain/search/request"
	"github.com/kailas-cloud/cookfind/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/cookfind/internal/usecase/health"
)

// Searcher runs unified search.
type Searcher interface {
	Search(ctx context.Context, req *request.Search) (result.Page, error)
}

// Suggester ranks autocomplete suggestions.
type Suggester interface {
	Suggest(ctx context.Context, req *request.Suggest) ([]catalog.Suggestion, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Limits bound query parameters before they reach the use cases.
type Limits struct {
	DefaultPageSize int
	MaxPageSize     int
	DefaultLimit    int
	MaxLimit        int
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the query API.
type Server struct {
	search        Searcher
	suggest       Suggester
	health        HealthChecker
	limits        Limits
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search Searcher,
	suggest Suggester,
	health HealthChecker,
	limits Limits,
	logger *zap.Logger,
) *Server {
	if limits.DefaultPageSize <= 0 {
		limits.DefaultPageSize = request.DefaultPageSize
	}
	if limits.MaxPageSize <= 0 || limits.MaxPageSize > request.MaxPageSize {
		limits.MaxPageSize = request.MaxPageSize
	}
	if limits.DefaultLimit <= 0 {
		limits.DefaultLimit = request.DefaultSuggestLimit
	}
	if limits.MaxLimit <= 0 || limits.MaxLimit > request.MaxSuggestLimit {
		limits.MaxLimit = request.MaxSuggestLimit
	}
	s := &Server{
		search:  search,
		suggest: suggest,
		health:  health,
		limits:  limits,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		invalidInputHandler,
		sentinelHandler(domain.ErrSourceUnavailable, http.StatusServiceUnavailable, CodeSourceUnavailable),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/v1/search", s.Search)
	r.Get("/v1/autocomplete", s.Autocomplete)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// SearchParams are the query parameters of GET /v1/search.
type SearchParams struct {
	Keyword  *string
	Locale   *string
	PageSize *int
	Cursor   *string
}

// AutocompleteParams are the query parameters of GET /v1/autocomplete.
type AutocompleteParams struct {
	Keyword *string
	Locale  *string
	Type    *string
	Limit   *int
}

// Search handles GET /v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var params SearchParams
	if err := bindParams(r, map[string]any{
		"keyword":   &params.Keyword,
		"locale":    &params.Locale,
		"page_size": &params.PageSize,
		"cursor":    &params.Cursor,
	}); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	pageSize := s.limits.DefaultPageSize
	if params.PageSize != nil {
		pageSize = *params.PageSize
	}
	if pageSize > s.limits.MaxPageSize {
		writeError(w, http.StatusBadRequest, CodeValidationFailed,
			fmt.Sprintf("page_size must not exceed %d", s.limits.MaxPageSize))
		return
	}

	req, err := request.NewSearch(deref(params.Keyword), deref(params.Locale), pageSize, deref(params.Cursor))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	page, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, NewSearchResponse(&page, pageSize))
}

// Autocomplete handles GET /v1/autocomplete.
func (s *Server) Autocomplete(w http.ResponseWriter, r *http.Request) {
	var params AutocompleteParams
	if err := bindParams(r, map[string]any{
		"keyword": &params.Keyword,
		"locale":  &params.Locale,
		"type":    &params.Type,
		"limit":   &params.Limit,
	}); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	limit := s.limits.DefaultLimit
	if params.Limit != nil && *params.Limit > 0 {
		limit = min(*params.Limit, s.limits.MaxLimit)
	}

	var kind *catalog.Kind
	if params.Type != nil && *params.Type != "" {
		k := catalog.Kind(*params.Type)
		kind = &k
	}

	req, err := request.NewSuggest(deref(params.Keyword), deref(params.Locale), kind, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	suggestions, err := s.suggest.Suggest(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, NewAutocompleteResponse(suggestions))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// bindParams binds optional form-style query parameters by name.
func bindParams(r *http.Request, dest map[string]any) error {
	query := r.URL.Query()
	for name, ptr := range dest {
		if err := runtime.BindQueryParameter("form", true, false, name, query, ptr); err != nil {
			return fmt.Errorf("invalid format for parameter %s: %w", name, err)
		}
	}
	return nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	var iie *domain.InvalidInputError
	if errors.As(err, &iie) {
		return iie.Error()
	}
	sentinels := []error{
		domain.ErrInvalidInput,
		domain.ErrInvalidCursor,
		domain.ErrSourceUnavailable,
		domain.ErrNotFound,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// invalidInputHandler reports the offending field of an invalid request.
func invalidInputHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrInvalidInput) {
		return false
	}
	var iie *domain.InvalidInputError
	if errors.As(err, &iie) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"code":    CodeValidationFailed,
			"message": msg,
			"field":   iie.Field,
		})
		return true
	}
	writeError(w, http.StatusBadRequest, CodeValidationFailed, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.logger.With(zap.String("path", r.URL.Path))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
