package main

import (
	"log/slog"
	"net/http"
	"wochenbericht/internal/config"
	"wochenbericht/internal/logger"
	"wochenbericht/internal/service/convert"
	"wochenbericht/internal/service/export"
)

func main() {
	cfg := config.MustConfig()

	log, closeLog := logger.Setup(cfg.Env, cfg.ErrorLog)
	defer closeLog()

	converter := convert.NewPDFConverter(log, convert.Options{
		Enabled:       cfg.PDF.Enabled,
		SofficePath:   cfg.PDF.SofficePath,
		Timeout:       cfg.PDF.Timeout,
		MaxConcurrent: cfg.PDF.MaxConcurrent,
	})
	exportService := export.NewService(log, converter, cfg.WorkDir)

	log.Info("server started",
		slog.String("address", cfg.Address),
		slog.String("env", cfg.Env),
		slog.Bool("pdf_enabled", cfg.PDF.Enabled),
		slog.Bool("auth_enabled", cfg.ExportWorkerToken != ""),
	)

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(*cfg, log, exportService),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	if err := srv.ListenAndServe(); err != nil {
		log.Error("failed start server", slog.String("error", err.Error()))
	}

	log.Error("server stopped")
}
