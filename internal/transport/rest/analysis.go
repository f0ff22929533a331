package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/myenglish-capture/internal/domain"
)

type analyzer interface {
	AnalyzeText(ctx context.Context, text string) (domain.ClauseAnalysis, error)
	AnalyzeEntry(ctx context.Context, id int64) (domain.ClauseAnalysis, error)
}

// AnalysisHandler serves clause analysis.
type AnalysisHandler struct {
	svc analyzer
	log *slog.Logger
}

// NewAnalysisHandler creates an AnalysisHandler.
func NewAnalysisHandler(svc analyzer, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{svc: svc, log: logger.With("handler", "analysis")}
}

type analyzeRequest struct {
	Text string `json:"text"`
}

// AnalyzeEntry handles GET /api/entries/{id}/analysis.
func (h *AnalysisHandler) AnalyzeEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, h.log, r, err)
		return
	}

	a, err := h.svc.AnalyzeEntry(r.Context(), id)
	if err != nil {
		handleError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// AnalyzeText handles POST /api/analysis.
func (h *AnalysisHandler) AnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.svc.AnalyzeText(r.Context(), req.Text)
	if err != nil {
		handleError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
