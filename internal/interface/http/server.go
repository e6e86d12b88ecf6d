// Package http implements the REST API and the websocket event stream.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/voluntaria-hub/voluntaria-backend/internal/application/adapter"
	"github.com/voluntaria-hub/voluntaria-backend/internal/application/command"
	"github.com/voluntaria-hub/voluntaria-backend/internal/application/query"
	"github.com/voluntaria-hub/voluntaria-backend/internal/infrastructure/fanout"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVER CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains HTTP server configuration.
type Config struct {
	// Host - address to bind (default: "0.0.0.0").
	Host string

	// Port - port to listen on (default: 8080).
	Port int

	// ReadTimeout - maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout - maximum duration for writing the response.
	WriteTimeout time.Duration

	// IdleTimeout - maximum duration for idle connections.
	IdleTimeout time.Duration

	// MaxHeaderBytes - maximum size of request headers.
	MaxHeaderBytes int

	// EnableCORS - enable CORS headers.
	EnableCORS bool

	// AllowedOrigins - allowed origins for CORS.
	AllowedOrigins []string
}

// DefaultConfig returns default server configuration.
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8080,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
	}
}

// Address returns the server address string.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// Dependencies contains everything the HTTP handlers call into.
type Dependencies struct {
	// Lesson lifecycle (CQRS write side)
	RequestLesson  *command.RequestLessonHandler
	AcceptLesson   *command.AcceptLessonHandler
	ConfirmLesson  *command.ConfirmLessonHandler
	CompleteLesson *command.CompleteLessonHandler
	CancelLesson   *command.CancelLessonHandler
	UpdateLesson   *command.UpdateLessonHandler

	// Lesson reads (CQRS read side)
	GetLesson            *query.GetLessonHandler
	ListLessons          *query.ListLessonsHandler
	ListAvailableLessons *query.ListAvailableLessonsHandler
	GetLeaderboard       *query.GetLeaderboardHandler

	// Entity services
	Profiles *adapter.ProfileService
	Subjects *adapter.SubjectService
	News     *adapter.NewsService
	Partners *adapter.PartnerService
	Forum    *adapter.ForumService

	// Event stream
	Hub *fanout.Hub

	// Readiness probes; nil checks are skipped.
	PingDatabase func(ctx context.Context) error
	PingCache    func(ctx context.Context) error

	Logger *slog.Logger
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Server is the HTTP server.
type Server struct {
	config     Config
	deps       Dependencies
	httpServer *http.Server
	router     *http.ServeMux
	logger     *slog.Logger

	mu        sync.RWMutex
	running   bool
	startedAt time.Time
}

// NewServer creates a new HTTP server with the given configuration and
// dependencies.
func NewServer(config Config, deps Dependencies) *Server {
	s := &Server{
		config: config,
		deps:   deps,
		router: http.NewServeMux(),
		logger: deps.Logger,
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:           config.Address(),
		Handler:        s.buildMiddlewareChain(s.router),
		ReadTimeout:    config.ReadTimeout,
		WriteTimeout:   config.WriteTimeout,
		IdleTimeout:    config.IdleTimeout,
		MaxHeaderBytes: config.MaxHeaderBytes,
	}

	return s
}

// Handler returns the fully wrapped handler. Used by tests with
// httptest.Server.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ══════════════════════════════════════════════════════════════════════════════
// ROUTING
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) setupRoutes() {
	// ─────────────────────────────────────────────────────────────────────────
	// Health & Status
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /healthz", s.handleHealth) // Kubernetes alias
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /live", s.handleLive)

	// ─────────────────────────────────────────────────────────────────────────
	// Auth & Profiles
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("POST /api/v1/auth/register", s.handleRegister)
	s.router.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	s.router.HandleFunc("GET /api/v1/users", s.handleListUsers)
	s.router.HandleFunc("GET /api/v1/users/{id}", s.handleGetUser)
	s.router.HandleFunc("PUT /api/v1/users/{id}", s.handleUpdateUser)
	s.router.HandleFunc("GET /api/v1/volunteers", s.handleListVolunteers)
	s.router.HandleFunc("GET /api/v1/volunteers/{id}", s.handleGetVolunteer)
	s.router.HandleFunc("PUT /api/v1/volunteers/{id}", s.handleUpdateVolunteer)
	s.router.HandleFunc("GET /api/v1/volunteers/leaderboard", s.handleGetLeaderboard)
	s.router.HandleFunc("GET /api/v1/learners/{id}", s.handleGetLearner)
	s.router.HandleFunc("PUT /api/v1/learners/{id}/interests", s.handleUpdateLearnerInterests)

	// ─────────────────────────────────────────────────────────────────────────
	// Lessons
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("POST /api/v1/lessons", s.handleRequestLesson)
	s.router.HandleFunc("GET /api/v1/lessons", s.handleListLessons)
	s.router.HandleFunc("GET /api/v1/lessons/available", s.handleListAvailableLessons)
	s.router.HandleFunc("GET /api/v1/lessons/{id}", s.handleGetLesson)
	s.router.HandleFunc("PUT /api/v1/lessons/{id}", s.handleUpdateLesson)
	s.router.HandleFunc("DELETE /api/v1/lessons/{id}", s.handleCancelLesson)
	s.router.HandleFunc("POST /api/v1/lessons/{id}/accept", s.handleAcceptLesson)
	s.router.HandleFunc("POST /api/v1/lessons/{id}/confirm", s.handleConfirmLesson)
	s.router.HandleFunc("POST /api/v1/lessons/{id}/complete", s.handleCompleteLesson)

	// ─────────────────────────────────────────────────────────────────────────
	// Subjects, News, Partners
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("POST /api/v1/subjects", s.handleCreateSubject)
	s.router.HandleFunc("GET /api/v1/subjects", s.handleListSubjects)
	s.router.HandleFunc("GET /api/v1/subjects/{id}", s.handleGetSubject)
	s.router.HandleFunc("PUT /api/v1/subjects/{id}", s.handleUpdateSubject)
	s.router.HandleFunc("DELETE /api/v1/subjects/{id}", s.handleDeleteSubject)

	s.router.HandleFunc("POST /api/v1/news", s.handleCreateNews)
	s.router.HandleFunc("GET /api/v1/news", s.handleListNews)
	s.router.HandleFunc("GET /api/v1/news/{id}", s.handleGetNews)
	s.router.HandleFunc("PUT /api/v1/news/{id}", s.handleUpdateNews)
	s.router.HandleFunc("DELETE /api/v1/news/{id}", s.handleDeleteNews)

	s.router.HandleFunc("POST /api/v1/partners", s.handleCreatePartner)
	s.router.HandleFunc("GET /api/v1/partners", s.handleListPartners)
	s.router.HandleFunc("GET /api/v1/partners/{id}", s.handleGetPartner)
	s.router.HandleFunc("PUT /api/v1/partners/{id}", s.handleUpdatePartner)
	s.router.HandleFunc("DELETE /api/v1/partners/{id}", s.handleDeletePartner)

	// ─────────────────────────────────────────────────────────────────────────
	// Forum
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("POST /api/v1/forum/topics", s.handleCreateTopic)
	s.router.HandleFunc("GET /api/v1/forum/topics", s.handleListTopics)
	s.router.HandleFunc("GET /api/v1/forum/topics/{id}", s.handleGetTopic)
	s.router.HandleFunc("PUT /api/v1/forum/topics/{id}", s.handleUpdateTopic)
	s.router.HandleFunc("DELETE /api/v1/forum/topics/{id}", s.handleDeleteTopic)
	s.router.HandleFunc("POST /api/v1/forum/topics/{id}/resolve", s.handleResolveTopic)
	s.router.HandleFunc("POST /api/v1/forum/topics/{id}/replies", s.handleCreateReply)
	s.router.HandleFunc("GET /api/v1/forum/topics/{id}/replies", s.handleListReplies)
	s.router.HandleFunc("PUT /api/v1/forum/replies/{id}", s.handleUpdateReply)
	s.router.HandleFunc("DELETE /api/v1/forum/replies/{id}", s.handleDeleteReply)
	s.router.HandleFunc("POST /api/v1/forum/replies/{id}/accept", s.handleAcceptReply)
	s.router.HandleFunc("POST /api/v1/forum/replies/{id}/like", s.handleLikeReply)

	// ─────────────────────────────────────────────────────────────────────────
	// Event Stream
	// ─────────────────────────────────────────────────────────────────────────
	s.router.Handle("GET /ws", s.websocketHandler())
}

// ══════════════════════════════════════════════════════════════════════════════
// MIDDLEWARE
// ══════════════════════════════════════════════════════════════════════════════

// buildMiddlewareChain wraps the router with all middleware. Applied in
// reverse order: the last wrap runs first.
func (s *Server) buildMiddlewareChain(handler http.Handler) http.Handler {
	h := handler
	h = s.requestIDMiddleware(h)
	h = s.loggingMiddleware(h)
	h = s.recoveryMiddleware(h)
	if s.config.EnableCORS {
		h = s.corsMiddleware(h)
	}
	return h
}

type contextKey string

const contextKeyRequestID contextKey = "request_id"

// requestIDMiddleware adds a unique request ID to each request.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware logs all HTTP requests. The websocket endpoint is
// skipped: its connections stay open for hours and would log once at
// disconnect with a misleading duration.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", getRequestID(r.Context()),
		)
	})
}

// recoveryMiddleware recovers from panics and returns 500.
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
					"path", r.URL.Path,
					"request_id", getRequestID(r.Context()),
				)
				writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "An unexpected error occurred")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware adds CORS headers and answers preflight requests.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		allowed := false
		for _, o := range s.config.AllowedOrigins {
			if o == "*" || o == origin {
				allowed = true
				break
			}
		}

		if allowed {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			w.Header().Set("Access-Control-Max-Age", "86400")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Start begins listening. It blocks until the server stops.
func (s *Server) Start() error {
	s.mu.Lock()
	s.running = true
	s.startedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("http server starting", "address", s.config.Address())

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	uptime := time.Since(s.startedAt)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": int64(uptime.Seconds()),
		"listeners":      s.deps.Hub.Len(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if s.deps.PingDatabase != nil {
		if err := s.deps.PingDatabase(ctx); err != nil {
			checks["database"] = err.Error()
			healthy = false
		} else {
			checks["database"] = "ok"
		}
	}
	if s.deps.PingCache != nil {
		if err := s.deps.PingCache(ctx); err != nil {
			checks["cache"] = err.Error()
			healthy = false
		} else {
			checks["cache"] = "ok"
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{"ready": healthy, "checks": checks})
}

func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"alive": true})
}

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// responseWriter captures the status code for logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

func getRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(contextKeyRequestID).(string); ok {
		return id
	}
	return ""
}
