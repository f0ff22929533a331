package rest

import (
	"context"
	"log/slog"
	"net/http"
)

type exporter interface {
	Export(ctx context.Context) (string, error)
}

// ExportHandler serves POST /api/exports.
type ExportHandler struct {
	svc exporter
	log *slog.Logger
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(svc exporter, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{svc: svc, log: logger.With("handler", "export")}
}

// Create writes a snapshot and returns its key.
func (h *ExportHandler) Create(w http.ResponseWriter, r *http.Request) {
	key, err := h.svc.Export(r.Context())
	if err != nil {
		handleError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"key": key})
}
