// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal service
// packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	auditbroker "github.com/YuriTheCoder/AuditCenter-API/internal/audit/broker"
	audithandler "github.com/YuriTheCoder/AuditCenter-API/internal/audit/handler"
	auditmetrics "github.com/YuriTheCoder/AuditCenter-API/internal/audit/metrics"
	auditservice "github.com/YuriTheCoder/AuditCenter-API/internal/audit/service"
	auditstore "github.com/YuriTheCoder/AuditCenter-API/internal/audit/store"
	authhandler "github.com/YuriTheCoder/AuditCenter-API/internal/auth/handler"
	authmetrics "github.com/YuriTheCoder/AuditCenter-API/internal/auth/metrics"
	authservice "github.com/YuriTheCoder/AuditCenter-API/internal/auth/service"
	authstore "github.com/YuriTheCoder/AuditCenter-API/internal/auth/store"
	httpapi "github.com/YuriTheCoder/AuditCenter-API/internal/http"
	"github.com/YuriTheCoder/AuditCenter-API/internal/platform/config"
	"github.com/YuriTheCoder/AuditCenter-API/internal/platform/httpserver"
	"github.com/YuriTheCoder/AuditCenter-API/internal/platform/logger"
	"github.com/YuriTheCoder/AuditCenter-API/internal/token"
	authmw "github.com/YuriTheCoder/AuditCenter-API/pkg/platform/middleware/auth"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	users, events, closeDB, err := buildStores(cfg)
	if err != nil {
		log.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer closeDB()

	tokens := token.NewService(cfg.JWTSigningKey, cfg.TokenLifetime, "auditcenter")

	amx := auditmetrics.New()
	broker := auditbroker.New(cfg.ListenerBuffer,
		auditbroker.WithLogger(log),
		auditbroker.WithMetrics(amx),
	)

	auth := authservice.New(users, tokens,
		authservice.WithLogger(log),
		authservice.WithMetrics(authmetrics.New()),
	)
	audit := auditservice.New(events, broker,
		auditservice.WithLogger(log),
		auditservice.WithMetrics(amx),
	)

	router := httpapi.NewRouter(httpapi.Deps{
		Auth:         authhandler.New(auth, log),
		Audit:        audithandler.New(audit, log, cfg.StreamMaxLifetime, cfg.StreamHeartbeat),
		Authenticate: authmw.Authenticate(tokens, auth, log),
		RequireAuth:  authmw.RequireAuth(log),
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting auditcenter", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	// Close the broker first so stream handlers unwind and the server can
	// drain within its shutdown window.
	broker.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("auditcenter stopped")
}

// buildStores selects postgres-backed stores when DATABASE_URL is set and
// the in-memory stores otherwise.
func buildStores(cfg config.Server) (authservice.UserStore, auditservice.EventStore, func(), error) {
	if cfg.DatabaseURL == "" {
		return authstore.NewMemoryStore(), auditstore.NewMemoryStore(), func() {}, nil
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, nil, err
	}
	for _, schema := range []string{authstore.Schema, auditstore.Schema} {
		if _, err := db.ExecContext(ctx, schema); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
	}

	return authstore.NewPostgres(db), auditstore.NewPostgres(db), func() { _ = db.Close() }, nil
}
