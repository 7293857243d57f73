package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/bloodbridge/matching-service/internal/config"
	"github.com/bloodbridge/matching-service/internal/insight"
	"github.com/bloodbridge/matching-service/internal/repository/postgres"
	"github.com/bloodbridge/matching-service/internal/service"
	myhttp "github.com/bloodbridge/matching-service/internal/transport/http"
	"github.com/bloodbridge/matching-service/pkg/logger/slogpretty"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	log := slogpretty.SetupLogger(cfg.Env)

	log.Info("starting matching-service", slog.String("env", cfg.Env))

	errChan := make(chan error, 1)

	db, err := postgres.NewDB(cfg.Postgres, log)
	if err != nil {
		return fmt.Errorf("failed to init db: %v", err)
	}
	defer func() {
		err = db.DB().Close()
		if err != nil {
			errChan <- fmt.Errorf("db close failed: %v", err)
		}
	}()

	donorRepo := postgres.NewDonorRepository(db.DB(), log)
	matchRepo := postgres.NewMatchRepository(db.DB(), log)
	requestRepo := postgres.NewBloodRequestRepository(db.DB(), log)
	bankRepo := postgres.NewBloodBankRepository(db.DB(), log)

	// The annotator stays nil without an API key; match responses then simply
	// carry no insight.
	var annotator insight.Annotator
	if cfg.Insight.APIKey != "" {
		annotator = insight.NewClient(cfg.Insight, log)
		log.Info("insight annotation enabled", slog.String("model", cfg.Insight.Model))
	} else {
		log.Warn("insight annotation disabled, no API key configured")
	}

	matchingService := service.NewMatchingService(log, donorRepo, matchRepo, annotator)
	requestService := service.NewBloodRequestService(log, requestRepo)
	bankService := service.NewBloodBankService(log, bankRepo)
	donorService := service.NewDonorService(log, donorRepo)

	srv := myhttp.NewServer(log, matchingService, requestService, bankService, donorService)
	httpServer := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler: srv.Routes(),
	}

	go startServer(log, httpServer, errChan)

	select {
	case err := <-errChan:
		return fmt.Errorf("http server error: %v", err)

	case <-ctx.Done():
		log.Info("stopping server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down http server: %v", err)
	}

	return nil
}

func startServer(log *slog.Logger, httpServer *http.Server, errChan chan error) {
	defer close(errChan)

	log.Info("service started", slog.String("addr", httpServer.Addr))

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		errChan <- fmt.Errorf("error listening and serving: %v", err)
	}
}
