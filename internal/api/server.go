package api

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rinapen/discord-game-bot/internal/ledger"
	"github.com/rinapen/discord-game-bot/internal/seeds"
	"github.com/rinapen/discord-game-bot/internal/session"
)

// Server handles HTTP requests
type Server struct {
	machine   *session.Machine
	seeds     *seeds.Manager
	ledger    ledger.Adapter
	journal   ledger.Journal
	db        *sql.DB
	log       *slog.Logger
	startTime time.Time
}

// Options wires the server's collaborators. DB and Journal are optional;
// the health and reconciliation endpoints degrade without them.
type Options struct {
	Machine *session.Machine
	Seeds   *seeds.Manager
	Ledger  ledger.Adapter
	Journal ledger.Journal
	DB      *sql.DB
	Logger  *slog.Logger
}

// NewServer creates a new API server
func NewServer(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		machine:   opts.Machine,
		seeds:     opts.Seeds,
		ledger:    opts.Ledger,
		journal:   opts.Journal,
		db:        opts.DB,
		log:       log,
		startTime: time.Now(),
	}
}

// Routes sets up the HTTP routes with proper middleware
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health and monitoring endpoints
	r.Get("/health", s.handleHealthCheck)
	r.Get("/health/ready", s.handleReadiness)
	r.Get("/health/live", s.handleLiveness)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleStartSession)
			r.Get("/{id}", s.handleGetSession)
			r.Post("/{id}/action", s.handleAction)
			r.Post("/{id}/cashout", s.handleCashout)
			r.Post("/{id}/reveal", s.handleRevealSeeds)
		})
		r.Route("/seeds/{user}", func(r chi.Router) {
			r.Get("/", s.handleGetSeeds)
			r.Put("/client", s.handleSetClientSeed)
			r.Post("/rotate", s.handleRotateSeeds)
		})
		r.Get("/users/{user}/balance", s.handleBalance)
		r.Get("/admin/unsettled", s.handleUnsettled)
		r.Post("/verify", s.handleVerify)
		r.Post("/seed/hash", s.handleSeedHash)
	})

	return r
}

// writeJSON writes a JSON response with proper headers
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// decodeJSON decodes a request body, rejecting unknown fields.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "invalid request body: "+err.Error(), nil)
		return false
	}
	return true
}
