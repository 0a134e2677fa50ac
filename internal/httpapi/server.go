// Package httpapi is the thin HTTP surface over the repositories, the
// aggregation engine, and the report coordinator. Handlers translate
// requests into core calls and wrap results in the response envelope; no
// business rule lives here.
package httpapi

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"mealcore/internal/aggregate"
	"mealcore/internal/auth"
	"mealcore/internal/metrics"
	"mealcore/internal/repo"
	"mealcore/internal/report"
	"mealcore/pkg/domain"
)

// Server holds the wired collaborators behind the HTTP surface.
type Server struct {
	log      *log.Logger
	repos    *repo.Repos
	engine   *aggregate.Engine
	reports  *report.Coordinator
	tokens   *auth.TokenIssuer
	metrics  *metrics.Registry
	validate *validator.Validate
}

// New assembles a server. All collaborators are required except metrics,
// which may be nil to disable instrumentation.
func New(logger *log.Logger, repos *repo.Repos, engine *aggregate.Engine, reports *report.Coordinator, tokens *auth.TokenIssuer, m *metrics.Registry) *Server {
	return &Server{
		log:      logger,
		repos:    repos,
		engine:   engine,
		reports:  reports,
		tokens:   tokens,
		metrics:  m,
		validate: validator.New(),
	}
}

// Routes builds the full handler tree.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/auth/me", s.requireAuth(s.handleMe))

	mux.HandleFunc("GET /api/dashboard/summary", s.requireAuth(s.handleDashboardSummary))
	mux.HandleFunc("GET /api/dashboard/attendance-trend", s.requireAuth(s.handleAttendanceTrend))
	mux.HandleFunc("GET /api/dashboard/activity-feed", s.requireAuth(s.handleActivityFeed))

	mux.HandleFunc("POST /api/attendance", s.requireRole(domain.RoleSchoolAdmin, s.handleSubmitAttendance))
	mux.HandleFunc("GET /api/attendance", s.requireAuth(s.handleListAttendance))
	mux.HandleFunc("PATCH /api/attendance/{id}/verify", s.requireRole(domain.RoleGovtOfficer, s.handleVerifyAttendance))

	mux.HandleFunc("GET /api/inventory", s.requireAuth(s.handleListInventory))
	mux.HandleFunc("GET /api/inventory/alerts", s.requireAuth(s.handleInventoryAlerts))
	mux.HandleFunc("PATCH /api/inventory/{id}/add", s.requireRole(domain.RoleSchoolAdmin, s.handleAddStock))

	mux.HandleFunc("POST /api/reports/generate", s.requireAuth(s.handleGenerateReport))
	mux.HandleFunc("GET /api/reports", s.requireAuth(s.handleListReports))
	mux.HandleFunc("GET /api/reports/{id}/download", s.requireAuth(s.handleDownloadReport))

	mux.HandleFunc("GET /api/schools", s.requireAuth(s.handleListSchools))
	mux.HandleFunc("GET /api/schools/comparison", s.requireRole(domain.RoleGovtOfficer, s.handleComparison))

	mux.HandleFunc("GET /api/health", s.handleHealth)

	var handler http.Handler = mux
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
		handler = s.metrics.Middleware(handler)
	}
	return s.logRequests(handler)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}
