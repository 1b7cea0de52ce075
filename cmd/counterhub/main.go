// Command counterhub runs the visitor-counter service: an in-memory
// sharded counter store fronted by an HTTP API, backed by a periodically
// snapshotted SQLite file.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/counterhub/counterhub/internal/admin"
	"github.com/counterhub/counterhub/internal/adminauth"
	"github.com/counterhub/counterhub/internal/config"
	"github.com/counterhub/counterhub/internal/httpapi"
	"github.com/counterhub/counterhub/internal/identity"
	"github.com/counterhub/counterhub/internal/keys"
	"github.com/counterhub/counterhub/internal/persistence"
	"github.com/counterhub/counterhub/internal/store"

	corelogger "github.com/counterhub/counterhub/core/logger"
	"github.com/counterhub/counterhub/core/server"
)

func main() {
	cfg := config.MustLoad()

	log := buildLogger(cfg)
	corelogger.SetAsDefault(log)

	if cfg.IsDevAuth() {
		log.Warn("ADMIN_TOKEN is empty: admin endpoints are unprotected")
	}

	counterStore := store.New()

	db, err := persistence.Open(cfg.DBPath, log)
	if err != nil {
		log.Error("open database", corelogger.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Load(counterStore); err != nil {
		log.Error("load database", corelogger.Error(err))
		os.Exit(1)
	}

	idDeriver := identity.New()
	keyDeriver := keys.New(cfg.KeyDeriverPolicy(), cfg.KeyDeriverPathStyle())
	auth := adminauth.New(cfg.AdminToken)

	adminService, err := admin.New(counterStore, db, "en")
	if err != nil {
		log.Error("build admin service", corelogger.Error(err))
		os.Exit(1)
	}

	api := httpapi.New(counterStore, idDeriver, keyDeriver, adminService, auth, log)
	router := api.Mount(cfg.MaxBodySizeBytes, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	saveInterval := time.Duration(cfg.SaveIntervalSeconds) * time.Second
	snapshotDone := make(chan struct{})
	go func() {
		defer close(snapshotDone)
		db.RunPeriodic(ctx, counterStore, saveInterval)
	}()

	addr := fmt.Sprintf("0.0.0.0:%s", cfg.Port)
	srv := server.New(addr, server.WithLogger(log))

	log.Info("starting counterhub", "addr", addr, "env", cfg.Env, "key_policy", cfg.KeyPolicy)
	if err := srv.Run(ctx, router)(); err != nil {
		log.Error("server exited with error", corelogger.Error(err))
		os.Exit(1)
	}

	// Wait for RunPeriodic's final snapshot before the deferred db.Close.
	<-snapshotDone
	log.Info("shutdown complete")
}

func buildLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsProduction() {
		return corelogger.New(corelogger.WithProduction("counterhub"))
	}

	opts := []corelogger.Option{corelogger.WithDevelopment("counterhub")}
	if cfg.LogFormat == "json" {
		opts = append(opts, corelogger.WithJSONFormatter())
	}
	return corelogger.New(opts...)
}
