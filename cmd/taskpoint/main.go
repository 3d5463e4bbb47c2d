package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/calebmorse/taskpoint/internal/auth"
	"github.com/calebmorse/taskpoint/internal/database"
	"github.com/calebmorse/taskpoint/internal/logging"
	"github.com/calebmorse/taskpoint/internal/push"
	"github.com/calebmorse/taskpoint/internal/server"
)

func main() {
	logger := logging.Setup(os.Getenv("TASKPOINT_LOG_LEVEL"), os.Getenv("TASKPOINT_LOG_FORMAT"))

	port := os.Getenv("TASKPOINT_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("TASKPOINT_DB_PATH")
	if dbPath == "" {
		dbPath = "taskpoint.db"
	}

	secret := os.Getenv("TASKPOINT_JWT_SECRET")
	if secret == "" {
		slog.Error("TASKPOINT_JWT_SECRET is required")
		os.Exit(1)
	}

	db, err := database.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	cfg := server.Config{
		Tokens:    auth.NewTokenManager(secret),
		StaticDir: os.Getenv("TASKPOINT_STATIC_DIR"),
	}

	if origins := os.Getenv("TASKPOINT_CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = strings.Split(origins, ",")
	}

	if audience := os.Getenv("TASKPOINT_GOOGLE_AUDIENCE"); audience != "" {
		cfg.Verifier = auth.NewGoogleVerifier(audience)
	}

	vapidPublic := os.Getenv("TASKPOINT_VAPID_PUBLIC_KEY")
	vapidPrivate := os.Getenv("TASKPOINT_VAPID_PRIVATE_KEY")
	if vapidPublic != "" && vapidPrivate != "" {
		cfg.PushService = push.NewService(push.Config{
			VAPIDPublicKey:  vapidPublic,
			VAPIDPrivateKey: vapidPrivate,
			Subscriber:      os.Getenv("TASKPOINT_VAPID_SUBSCRIBER"),
		})
	} else {
		slog.Info("push notifications disabled, VAPID keys not set")
	}

	srv := server.New(db, cfg, logger)

	httpServer := &http.Server{
		Addr:              ":" + port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Background cleanup goroutine
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			case <-cleanupCtx.Done():
				return
			}
		}
	}()

	go func() {
		slog.Info("taskpoint starting", "addr", ":"+port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	cleanupCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
