package main

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	"github.com/rs/cors"
	"log/slog"
	exportweek "wochenbericht/http-server/export-week"
	"wochenbericht/http-server/health"
	"wochenbericht/internal/config"
	"wochenbericht/internal/middleware/auth"
)

func routes(cfg config.Config, log *slog.Logger, exporter exportweek.WeekExporter) *chi.Mux {
	router := chi.NewRouter()

	if len(cfg.AllowedOrigins) > 0 {
		corsHandler := cors.New(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", auth.TokenHeader},
		})
		router.Use(corsHandler.Handler)
	}

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(httplog.RequestLogger(log, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))
	router.Use(middleware.Recoverer)

	router.Get("/health", health.Health())

	router.Group(func(r chi.Router) {
		r.Use(auth.WorkerToken(cfg.ExportWorkerToken))
		r.Use(middleware.RequestSize(cfg.MaxBodyBytes))
		r.Post("/export-week", exportweek.ExportWeek(log, exporter))
	})

	return router
}
