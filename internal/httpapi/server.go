// Package httpapi is the ambient chi-routed debug HTTP server: it accepts
// a policy document and scope, builds a Planner wired with the bundled
// registry.builtin functions, and returns the rendered plan.
//
// Style is adapted from this module's teacher's own middleware/http.go
// (an explicit Config struct, a wrapped http.Handler, JSON problem-details
// error bodies) and from jeremyhahn-go-keychain's internal/rest package
// (chi routing, a request-scoped correlation ID middleware, structured
// slog logging) — see DESIGN.md.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/odrlplan/policyplan/metrics"
	"github.com/odrlplan/policyplan/model"
	"github.com/odrlplan/policyplan/plan"
	"github.com/odrlplan/policyplan/registry"
	"github.com/odrlplan/policyplan/registry/builtin"
	"github.com/odrlplan/policyplan/render"
	"github.com/odrlplan/policyplan/rulevalidation"
)

// CorrelationIDHeader is the response header the correlation-ID middleware
// echoes back to the caller, matching the header name convention of this
// module's ambient-stack contributor's correlation package.
const CorrelationIDHeader = "X-Correlation-ID"

// Config configures the server. Logger defaults to slog.Default() if nil.
type Config struct {
	// BoundActions lists action types the default ScopeValidator treats as
	// bounded for every request. A production deployment would derive this
	// per-scope instead of process-wide; that refinement is out of scope
	// here (SPEC_FULL.md ambient front end is intentionally minimal).
	BoundActions []string
	// ExtraKeys lists left-operand keys the default ScopeValidator treats
	// as bound regardless of the scope-prefix naming convention.
	ExtraKeys []string
	Logger    *slog.Logger
}

// planRequest is the POST /v1/plans body.
type planRequest struct {
	Scope  string       `json:"scope"`
	Policy model.Policy `json:"policy"`
}

// problemDetail mirrors RFC 7807, the same shape this module's teacher
// emits from its own defaultErrorHandler.
type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

// NewHandler builds the routed http.Handler: POST /v1/plans, GET /healthz,
// GET /metrics.
func NewHandler(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	reg := registry.New()
	builtin.Register(reg)

	r := chi.NewRouter()
	r.Use(correlationMiddleware)
	r.Use(loggingMiddleware(logger))

	r.Post("/v1/plans", plansHandler(cfg, reg))
	r.Get("/healthz", healthzHandler)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func plansHandler(cfg Config, reg *registry.FunctionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req planRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeProblem(w, http.StatusBadRequest, "invalid_request_body", err.Error())
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "400").Inc()
			return
		}
		if req.Scope == "" {
			writeProblem(w, http.StatusBadRequest, "missing_scope", "scope is required")
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "400").Inc()
			return
		}

		validator := rulevalidation.NewScopeValidator(req.Scope, cfg.ExtraKeys, cfg.BoundActions)
		p, err := plan.NewBuilder(req.Scope).
			RuleValidator(validator).
			Registry(reg).
			Build()
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "planner_build_failed", err.Error())
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "500").Inc()
			return
		}

		start := time.Now()
		result, err := p.Plan(&req.Policy)
		metrics.ObservePlan(req.Scope, time.Since(start), err, result)
		if err != nil {
			writeProblem(w, http.StatusUnprocessableEntity, "plan_failed", err.Error())
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "422").Inc()
			return
		}

		body, err := render.JSON(result)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "render_failed", err.Error())
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "500").Inc()
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "200").Inc()
	}
}

func healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	metrics.HTTPRequestsTotal.WithLabelValues(r.Method, "200").Inc()
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(problemDetail{
		Type:   "https://policyplan.dev/errors/" + title,
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

func correlationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(CorrelationIDHeader)
		if id == "" {
			id = r.Header.Get(middleware.RequestIDHeader)
		}
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(CorrelationIDHeader, id)
		next.ServeHTTP(w, r.WithContext(withCorrelationID(r.Context(), id)))
	})
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"correlationID", correlationIDFrom(r.Context()),
			)
		})
	}
}
