// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httpin "memecoin/internal/adapters/in/http"
	"memecoin/internal/infra/config"
	"memecoin/internal/platform/di"
	"memecoin/internal/platform/logger"
)

const shutdownTimeout = 25 * time.Second

func main() {
	// .env is optional; the real environment wins.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.InitZap(cfg.LogLevel).Named("boot")
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cont, err := di.NewContainer(ctx, cfg)
	if err != nil {
		// Configuration problems stop the process before it listens.
		log.Fatal("di init failed", zap.Error(err))
	}
	defer func() {
		if err := cont.Close(); err != nil {
			log.Warn("container close", zap.Error(err))
		}
	}()

	router := httpin.NewRouter(cont.RouterDeps())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(router, "memecoin-api"),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Issuance waits on uploads and ledger confirmation.
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("wallet", cont.Identity.Address()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", zap.Error(err))
		_ = cont.Close()
		os.Exit(1)
	}
	log.Info("server stopped")
}
