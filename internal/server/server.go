package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/liftlog/internal/calc"
	"github.com/meltforce/liftlog/internal/ingest"
	"github.com/meltforce/liftlog/internal/metrics"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"tailscale.com/client/tailscale/apitype"
)

// Store is the storage the handlers read and write. *storage.DB satisfies it.
type Store interface {
	InsertSets(ctx context.Context, rows []models.SetRow) (int64, error)
	QuerySets(ctx context.Context, start, end time.Time, userID int, exercise string) ([]models.SetRow, error)
	ListExercises(ctx context.Context, userID int) ([]storage.ExerciseCount, error)
	GetVolumeSummary(ctx context.Context, start, end time.Time, bucket string, userID int) ([]storage.VolumePeriod, error)
	GetIntensity(ctx context.Context, start, end time.Time, userID int) (*storage.IntensityResult, error)
	GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error)
	InsertImportLog(ctx context.Context, log storage.ImportLog) (int64, error)
	QueryImportLogs(ctx context.Context, userID, limit int) ([]storage.ImportLog, error)
	GetOrCreateUser(ctx context.Context, login, displayName string) (int, error)
}

var _ Store = (*storage.DB)(nil)

// Importer ingests an export file for a user.
type Importer interface {
	Ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error)
}

// WhoIser resolves a tailnet peer address to its owner. *local.Client satisfies it.
type WhoIser interface {
	WhoIs(ctx context.Context, remoteAddr string) (*apitype.WhoIsResponse, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	db      Store
	alpha   Importer
	calc    *calc.Calculator
	metrics *metrics.Manager
	whois   WhoIser
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured. m may be nil.
func New(db Store, alpha Importer, c *calc.Calculator, m *metrics.Manager, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:      db,
		alpha:   alpha,
		calc:    c,
		metrics: m,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTailscale switches identity from the local dev user to tailnet WhoIs lookups.
func (s *Server) SetTailscale(whois WhoIser) {
	s.whois = whois
}

// SetMetrics exposes the registry on /metrics.
func (s *Server) SetMetrics(g prometheus.Gatherer) {
	s.router.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}

// SetMCP mounts the MCP streamable HTTP handler on /mcp. Requests carry the
// caller's identity; see UserID.
func (s *Server) SetMCP(h http.Handler) {
	s.router.With(s.identity).Handle("/mcp", h)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(Metrics(s.metrics))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Calculators are pure; no identity needed.
		r.Route("/calc", func(r chi.Router) {
			r.Get("/one-rep-max", s.handleOneRepMax)
			r.Get("/percentages", s.handlePercentages)
			r.Get("/warmup", s.handleWarmup)
			r.Get("/duration/parse", s.handleDurationParse)
			r.Get("/duration/format", s.handleDurationFormat)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.identity)

			// Writes (API key required)
			r.Group(func(r chi.Router) {
				r.Use(APIKeyAuth(s.apiKey))
				r.Post("/sets", s.handleLogSets)
				r.Post("/import/alpha", s.handleAlphaImport)
			})

			// Reads (no auth, tsnet handles access)
			r.Get("/sets", s.handleQuerySets)
			r.Get("/exercises", s.handleExercises)
			r.Get("/exercises/{name}/summary", s.handleExerciseSummary)
			r.Get("/progress", s.handleProgress)
			r.Get("/volume", s.handleVolume)
			r.Get("/intensity", s.handleIntensity)
			r.Get("/import-logs", s.handleImportLogs)
			r.Get("/stats", s.handleStats)
			r.Get("/me", s.handleMe)
		})
	})
}
