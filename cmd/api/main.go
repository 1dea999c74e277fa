package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"taskhive.org/internal/auth"
	"taskhive.org/internal/config"
	"taskhive.org/internal/httpapi"
	"taskhive.org/internal/obs"
	"taskhive.org/internal/store/pg"
	"taskhive.org/internal/todo"
)

var (
	version = "0.3.0"
	commit  = "dev"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	obs.Init()
	obs.InitBuildInfo(version, commit)
	logger := obs.InitLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	store, err := pg.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("open db", zap.Error(err))
	}
	defer store.Close()

	issuer, err := auth.NewIssuer(cfg.JWTSecret,
		auth.WithIssuerName(cfg.JWTIssuer),
		auth.WithAccessTTL(cfg.AccessTTL),
		auth.WithRefreshTTL(cfg.RefreshTTL),
	)
	if err != nil {
		logger.Fatal("build issuer", zap.Error(err))
	}

	authSvc, err := auth.NewService(store, issuer)
	if err != nil {
		logger.Fatal("build auth service", zap.Error(err))
	}
	catalog, err := auth.NewCatalog(store)
	if err != nil {
		logger.Fatal("build catalog", zap.Error(err))
	}
	evaluator, err := auth.NewEvaluator(store.Roles(), store.Todos(),
		auth.WithDecisionObserver(func(op auth.Operation, outcome string) {
			obs.ObserveAuthDecision(string(op), outcome)
		}),
	)
	if err != nil {
		logger.Fatal("build evaluator", zap.Error(err))
	}
	todoSvc, err := todo.NewService(store.Todos(), evaluator)
	if err != nil {
		logger.Fatal("build todo service", zap.Error(err))
	}

	api := httpapi.New(authSvc, catalog, todoSvc, issuer, evaluator,
		httpapi.ReadyProbe{DB: store.DB()}, version)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.RateLimit(api.Handler(), cfg.RateBurst, cfg.RatePerSec),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("starting taskhive-api", zap.String("version", version), zap.String("addr", srv.Addr))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	logger.Info("stopped")
}
