package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/cors"

	"github.com/calebmorse/taskpoint/internal/auth"
	"github.com/calebmorse/taskpoint/internal/handler"
	"github.com/calebmorse/taskpoint/internal/middleware"
	"github.com/calebmorse/taskpoint/internal/push"
	"github.com/calebmorse/taskpoint/internal/store"
)

// Config carries the non-database wiring for a Server.
type Config struct {
	Tokens      *auth.TokenManager
	Verifier    auth.Verifier // nil disables federated login
	PushService *push.Service // nil disables push routes
	StaticDir   string        // "" disables static file serving
	CORSOrigins []string      // empty allows all origins
}

type Server struct {
	db          *sql.DB
	authH       *handler.AuthHandler
	activityH   *handler.ActivityHandler
	ledgerH     *handler.LedgerHandler
	adminH      *handler.AdminHandler
	pushH       *handler.PushHandler
	userStore   *store.UserStore
	pushStore   *store.PushStore
	tokens      *auth.TokenManager
	rateLimiter *middleware.RateLimiter
	staticDir   string
	corsOrigins []string
	logger      *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	userStore := store.NewUserStore(db)
	activityStore := store.NewActivityStore(db)
	ledgerStore := store.NewLedgerStore(db)
	pushStore := store.NewPushStore(db)

	var pushH *handler.PushHandler
	if cfg.PushService != nil {
		pushH = handler.NewPushHandler(pushStore, cfg.PushService, logger.With("component", "push_handler"))
	}

	return &Server{
		db:          db,
		authH:       handler.NewAuthHandler(userStore, cfg.Tokens, cfg.Verifier, logger.With("component", "auth")),
		activityH:   handler.NewActivityHandler(activityStore, logger.With("component", "activity")),
		ledgerH:     handler.NewLedgerHandler(ledgerStore, activityStore, logger.With("component", "ledger")),
		adminH:      handler.NewAdminHandler(userStore, ledgerStore, logger.With("component", "admin")),
		pushH:       pushH,
		userStore:   userStore,
		pushStore:   pushStore,
		tokens:      cfg.Tokens,
		rateLimiter: middleware.NewRateLimiter(),
		staticDir:   cfg.StaticDir,
		corsOrigins: cfg.CORSOrigins,
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/auth/signup", s.rateLimitedHandler(s.authH.Signup))
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("POST /api/auth/federated", s.rateLimitedHandler(s.authH.Federated))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.tokens)
	outerMux.Handle("/api/", authMiddleware(protectedMux))

	if s.staticDir != "" {
		outerMux.Handle("GET /", s.staticHandler())
	}

	c := cors.New(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	// Apply request logging middleware
	return middleware.RequestLogger(s.logger.With("component", "http"))(c.Handler(outerMux))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Activity API routes
	mux.HandleFunc("GET /api/activities", s.activityH.List)
	mux.HandleFunc("POST /api/activities", s.activityH.Create)
	mux.HandleFunc("PUT /api/activities/{id}", s.activityH.Update)
	mux.HandleFunc("DELETE /api/activities/{id}", s.activityH.Delete)

	// Ledger API routes
	mux.HandleFunc("GET /api/logs", s.ledgerH.ListLogs)
	mux.HandleFunc("POST /api/logs", s.ledgerH.CreateLog)
	mux.HandleFunc("GET /api/logs/today", s.ledgerH.TodayEarnings)
	mux.HandleFunc("GET /api/balance", s.ledgerH.Balance)
	mux.HandleFunc("GET /api/redemptions", s.ledgerH.ListRedemptions)
	mux.HandleFunc("POST /api/redemptions", s.ledgerH.CreateRedemption)

	// Admin API routes
	adminOnly := middleware.RequireAdmin(s.userStore)
	mux.Handle("GET /api/admin/users", adminOnly(http.HandlerFunc(s.adminH.ListUsers)))
	mux.Handle("GET /api/admin/stats/daily", adminOnly(http.HandlerFunc(s.adminH.DailyStats)))
	mux.Handle("POST /api/admin/users/{id}/toggle-admin", adminOnly(http.HandlerFunc(s.adminH.ToggleAdmin)))

	// Push API routes, registered only when VAPID keys are configured
	if s.pushH != nil {
		mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
		mux.Handle("POST /api/push/test", adminOnly(http.HandlerFunc(s.pushH.TestNotification)))
	}
}

// staticHandler serves the SPA bundle. Unknown paths fall back to
// index.html so client-side routes survive a hard refresh.
func (s *Server) staticHandler() http.Handler {
	fs := http.FileServer(http.Dir(s.staticDir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Join(s.staticDir, filepath.Clean(strings.TrimPrefix(r.URL.Path, "/")))
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			fs.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(s.staticDir, "index.html"))
	})
}
