package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"formgate/internal/contact/handler"
	"formgate/internal/contact/service"
	"formgate/internal/contact/store"
	"formgate/internal/platform/config"
	"formgate/internal/platform/logger"
	"formgate/internal/platform/metrics"
	"formgate/internal/throttle"
	"formgate/internal/token"
	httptransport "formgate/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing formgate",
		"addr", cfg.Addr,
		"token_policy", cfg.TokenPolicy,
		"token_ttl", cfg.TokenTTL,
	)

	m := metrics.New()

	limiter, err := throttle.New(throttle.ContactFormConfig(),
		throttle.WithLogger(log),
		throttle.WithMetrics(m),
	)
	if err != nil {
		log.Error("invalid throttle config", "error", err)
		os.Exit(1)
	}

	tokens := token.NewManager(cfg.TokenTTL, cfg.TokenCapacity,
		token.WithLogger(log),
		token.WithMetrics(m),
	)

	messages := store.NewInMemoryMessageStore()

	contact, err := service.New(limiter, tokens, messages, cfg.TokenPolicy,
		service.WithLogger(log),
		service.WithMetrics(m),
	)
	if err != nil {
		log.Error("invalid service config", "error", err)
		os.Exit(1)
	}

	router := httptransport.NewRouter(handler.New(contact, log, m), log, cfg.MaxBodyBytes)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
