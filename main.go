package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docsite/pkg/config"
	"docsite/pkg/handlers"
	"docsite/pkg/metrics"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Initialize config
	config.Init()
	setupLogger()

	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	site := handlers.NewSite(config.SiteTitle, config.SiteDescription, config.DocsPath, metrics.New())
	r := site.Router(handlers.Options{
		TemplatesDir: config.TemplatesDir,
		StaticDir:    config.StaticDir,
		SessionName:  config.SessionName,
		SessionKey:   config.SessionKey(),
	})

	srv := &http.Server{
		Addr:              config.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("serving docs", "addr", config.ListenAddr, "docs", config.DocsPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func setupLogger() {
	opts := &slog.HandlerOptions{Level: config.Level()}
	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if config.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}
