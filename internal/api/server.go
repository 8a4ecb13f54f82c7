// Package api exposes the household over HTTP: read endpoints and
// child request flows are open on the local network, parent actions sit
// behind a bearer token when credentials are configured.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/hearthpoints/hearth/internal/app/store"
	"github.com/hearthpoints/hearth/internal/auth"
	"github.com/hearthpoints/hearth/internal/domain"
)

// Server is the hearth HTTP API server.
type Server struct {
	store          *store.Store
	issuer         *auth.TokenIssuer
	log            zerolog.Logger
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(st *store.Store, issuer *auth.TokenIssuer, log zerolog.Logger) *Server {
	return &Server{store: st, issuer: issuer, log: log}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)
	r.Use(s.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/auth/login", s.handleLogin)

	// Open endpoints: reads and the child request flow.
	r.Route("/api", func(r chi.Router) {
		r.Get("/household", s.handleGetHousehold)
		r.Get("/children", s.handleListChildren)
		r.Get("/children/{childID}/ledger", s.handleChildLedger)
		r.Get("/children/{childID}/session", s.handleSessionStatus)
		r.Get("/children/{childID}/can-start", s.handleCanStart)
		r.Get("/requests", s.handleListRequests)
		r.Get("/cashouts", s.handleListCashOuts)

		r.Post("/children/{childID}/requests/task", s.handleRequestTask)
		r.Post("/children/{childID}/requests/screen", s.handleRequestScreen)
		r.Post("/children/{childID}/requests/pause", s.handleRequestPause)
		r.Post("/children/{childID}/cashouts", s.handleRequestCashOut)
	})

	// Parent endpoints.
	r.Route("/api/parent", func(r chi.Router) {
		r.Use(s.requireParent)

		r.Post("/household", s.handleCreateHousehold)
		r.Patch("/settings", s.handleUpdateSettings)

		r.Post("/children", s.handleAddChild)
		r.Patch("/children/{childID}", s.handleUpdateChild)
		r.Delete("/children/{childID}", s.handleDeleteChild)
		r.Get("/children/{childID}/invite-code", s.handleInviteCode)

		r.Post("/children/{childID}/goals", s.handleAddGoal)
		r.Patch("/children/{childID}/goals/{goalID}", s.handleUpdateGoal)
		r.Delete("/children/{childID}/goals/{goalID}", s.handleDeleteGoal)

		r.Post("/children/{childID}/tasks/{code}", s.handleCompleteTask)
		r.Post("/children/{childID}/earn", s.handleEarn)
		r.Post("/children/{childID}/spend", s.handleSpend)
		r.Post("/children/{childID}/deduct", s.handleDeduct)
		r.Post("/children/{childID}/deductions/{code}", s.handlePresetDeduction)
		r.Post("/children/{childID}/lockout", s.handleLockout)
		r.Post("/children/{childID}/reset", s.handleReset)

		r.Delete("/ledger/{entryID}", s.handleRemoveEntry)
		r.Post("/ledger/{entryID}/verify", s.handleVerify)
		r.Post("/ledger/{entryID}/incomplete", s.handleIncomplete)

		r.Post("/requests/{requestID}/approve", s.handleApproveRequest)
		r.Post("/requests/{requestID}/deny", s.handleDenyRequest)
		r.Post("/cashouts/{requestID}/process", s.handleProcessCashOut)

		r.Post("/children/{childID}/screen/start", s.handleStartScreen)
		r.Post("/children/{childID}/screen/pause", s.handlePauseScreen)
		r.Post("/children/{childID}/screen/resume", s.handleResumeScreen)
		r.Post("/children/{childID}/screen/end", s.handleEndScreen)

		r.Post("/tasks/reset", s.handleResetTasks)
		r.Post("/tasks/auto-balance", s.handleAutoBalance)
		r.Post("/tasks/auto-complete", s.handleAutoComplete)
		r.Post("/team-bonus", s.handleTeamBonus)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// ─── Middleware ─────────────────────────────────────────────────────────────

// requireParent gates parent endpoints. When the household has no
// credentials configured the device itself is the trust boundary and
// everything is allowed.
func (s *Server) requireParent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, err := s.store.Household()
		if err != nil || h.ParentCredentials == nil {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "parent token required")
			return
		}
		if _, err := s.issuer.Verify(token); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// corsMiddleware adds CORS headers so the family dashboard can run on a
// different port during development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ─── Response Helpers ───────────────────────────────────────────────────────

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// writeStoreError maps domain errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrChildNotFound),
		errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrRequestNotFound),
		errors.Is(err, domain.ErrNoSession),
		errors.Is(err, domain.ErrNoHousehold):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrRequestProcessed):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrCapExceeded),
		errors.Is(err, domain.ErrPastCutoff):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

// decode reads a JSON body into v, tolerating an empty body for
// endpoints whose parameters are all optional.
func decode(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
