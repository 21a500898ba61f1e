package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"invoice-docstore/config"
	"invoice-docstore/handlers/api"
	"invoice-docstore/renderer"
	"invoice-docstore/stores"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

func setupLogging(cfg config.Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithField("error", err).Fatal("Invalid configuration")
	}
	setupLogging(cfg)

	pdf := renderer.NewPDF()
	ctx := context.Background()
	documentStore, err := stores.GetStore(ctx, cfg, pdf.ContentType())
	if err != nil {
		logrus.WithField("error", err).Fatal("Failed to initialize storage")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := &http.Server{
		Addr: cfg.ListenAddr,
		Handler: api.NewRouter(api.Options{
			Store:          documentStore,
			Renderer:       pdf,
			Registry:       registry,
			MaxBodyBytes:   cfg.MaxBodyBytes,
			AllowedOrigins: cfg.CORSAllowedOrigins,
		}),
	}

	go func() {
		logrus.WithField("addr", cfg.ListenAddr).Info("Listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithField("error", err).Fatal("Server stopped")
		}
	}()

	signalC := make(chan os.Signal, 1)
	signal.Notify(signalC, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	s := <-signalC
	logrus.WithField("signal", s.String()).Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithField("error", err).Error("Graceful shutdown failed")
	}
	if c, ok := documentStore.(io.Closer); ok {
		_ = c.Close()
	}
}
