package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ryandol1/qrserver/internal/config"
	"github.com/ryandol1/qrserver/internal/handlers"
	"github.com/ryandol1/qrserver/internal/logger"
	"github.com/ryandol1/qrserver/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func router(h *handlers.Handler, log *zap.SugaredLogger) chi.Router {
	r := chi.NewRouter()
	r.Use(logger.Middleware(log))
	r.Use(middleware.Recoverer)
	r.Use(gzipMiddleware)

	r.Get("/health", h.Health)
	r.Post("/webhook", h.Webhook)
	r.Post("/webhook/batch", h.WebhookBatch)
	r.Get("/qr/{uniqueID}", h.QRCodeImage)
	r.Get("/api/qr", h.QRCodeData)
	r.Route("/admin", func(r chi.Router) {
		r.Get("/form", h.AdminForm)
		r.Post("/form", h.AdminForm)
		r.Get("/entries", h.AdminEntries)
	})

	// chi matches static routes before the catch-all pattern, so /health
	// and friends stay reachable whatever slugs get registered.
	r.Get("/redirect/{slug}", h.Redirect)
	r.Get("/{slug}", h.Redirect)
	return r
}

func parseConfig() (config.Config, error) {
	var cfg config.Config
	flag.StringVar(&cfg.ServerAddress, "a", "", "Server address host:port")
	flag.StringVar(&cfg.BaseURL, "b", "", "Base origin for redirect links")
	flag.IntVar(&cfg.QRSize, "s", 0, "Default QR image size in pixels")
	flag.Parse()

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	cfg.SetDefaults()
	return cfg, nil
}

// Run assembles the service and serves it until SIGINT or SIGTERM.
func Run() error {
	cfg, err := parseConfig()
	if err != nil {
		return err
	}

	log, err := logger.Initialize()
	if err != nil {
		return err
	}
	defer log.Sync()

	h := handlers.New(storage.NewMemoryRegistry(), log, cfg)

	server := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: router(h, log),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infow("server starting", "address", cfg.ServerAddress, "base_url", cfg.BaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Infow("server stopping")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
