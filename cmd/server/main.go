package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/warteg-pro/api/internal/config"
	"github.com/warteg-pro/api/internal/insight"
	"github.com/warteg-pro/api/internal/logging"
	"github.com/warteg-pro/api/internal/router"
	"github.com/warteg-pro/api/internal/seed"
	"github.com/warteg-pro/api/internal/service"
	"github.com/warteg-pro/api/internal/session"
	"github.com/warteg-pro/api/internal/state"
	"github.com/warteg-pro/api/internal/ws"
)

func main() {
	configPath := flag.String("config", "configs/base.yaml", "Path to YAML config (optional)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log := logging.Init("warteg-api", cfg.Log.Level, cfg.Log.File)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := state.New(seed.Data(time.Now()))

	var store service.SessionStore
	if cfg.Session.RedisAddr != "" {
		rdb, err := session.NewRedisClient(ctx, cfg.Session.RedisAddr)
		if err != nil {
			return err
		}
		defer rdb.Close()
		store = session.NewRedisStore(rdb, cfg.Session.TTL)
		log.Info("session store: redis", "addr", cfg.Session.RedisAddr)
	} else {
		store = session.NewMemoryStore()
		log.Info("session store: memory")
	}

	gen, err := insight.NewGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return fmt.Errorf("insight generator: %w", err)
	}
	if cfg.Gemini.APIKey == "" {
		log.Warn("gemini api key not set, insights disabled")
	}

	hub := ws.NewHub()
	go hub.Run(ctx)

	r := router.New(cfg, router.Services{
		Catalog:   service.NewCatalogService(app),
		Cart:      service.NewCartService(app),
		Orders:    service.NewOrderService(app),
		Inventory: service.NewInventoryService(app),
		Reviews:   service.NewReviewService(app),
		Sessions:  service.NewSessionService(app, store),
		Users:     service.NewUserService(app, store),
		Reports:   service.NewReportService(app),
		Insights:  insight.NewAdapter(gen, logging.New("insight")),
		Hub:       hub,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
