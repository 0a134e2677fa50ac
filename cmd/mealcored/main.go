// Command mealcored runs the meal tracking service: document store, blob
// store, repositories, aggregation, report generation, and the HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"mealcore/internal/aggregate"
	"mealcore/internal/auth"
	"mealcore/internal/blob"
	"mealcore/internal/docstore"
	"mealcore/internal/httpapi"
	"mealcore/internal/metrics"
	"mealcore/internal/repo"
	"mealcore/internal/report"
	"mealcore/internal/seed"
)

const defaultAddr = ":5000"

func main() {
	seedOnly := flag.Bool("seed", false, "load the demo dataset and exit")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "mealcored",
	})
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("load .env", "err", err)
	}
	if err := run(logger, *seedOnly); err != nil {
		logger.Fatal("exit", "err", err)
	}
}

func run(logger *log.Logger, seedOnly bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.New()
	store, err := docstore.Open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Error("close store", "err", err)
		}
	}()
	instrumented := reg.InstrumentStore(store)
	repos := repo.New(instrumented)

	if seedOnly {
		return seed.Run(ctx, instrumented, repos, logger)
	}

	blobs, err := blob.Open(ctx)
	if err != nil {
		return err
	}
	tokens, err := auth.NewTokenIssuerFromEnv()
	if err != nil {
		return err
	}
	engine := aggregate.NewEngine(repos)
	coordinator := report.NewCoordinator(repos, blobs, nil)
	server := httpapi.New(logger, repos, engine, coordinator, tokens, reg)

	addr := os.Getenv("MEALCORE_ADDR")
	if addr == "" {
		addr = defaultAddr
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "store", os.Getenv(docstore.EnvDriver), "blob", blobs.Driver())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
