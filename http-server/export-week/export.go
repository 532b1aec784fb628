package exportweek

import (
	"context"
	"errors"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"wochenbericht/internal/service/export"
)

type WeekExporter interface {
	ExportWeek(ctx context.Context, req export.Request) (export.Response, error)
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func ExportWeek(log *slog.Logger, exporter WeekExporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.exportweek.ExportWeek"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req export.Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Warn("invalid request body", slog.String("error", err.Error()))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrorResponse{Error: "Invalid JSON body"})
			return
		}

		resp, err := exporter.ExportWeek(r.Context(), req)
		if err != nil {
			var reqErr *export.RequestError
			if errors.As(err, &reqErr) {
				log.Warn("rejected export request", slog.String("error", reqErr.Msg))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, ErrorResponse{Error: reqErr.Msg})
				return
			}

			log.Error("export failed", slog.String("error", err.Error()))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, ErrorResponse{Error: err.Error()})
			return
		}

		log.Info("export finished",
			slog.String("export_id", resp.ExportID),
			slog.Int("reports", len(resp.Reports)),
		)
		render.JSON(w, r, resp)
	}
}
