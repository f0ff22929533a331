package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/heartmarshall/myenglish-capture/internal/domain"
	"github.com/heartmarshall/myenglish-capture/internal/service/capture"
)

type captureService interface {
	Capture(ctx context.Context, text string) (capture.Result, error)
	CaptureURL(ctx context.Context, rawURL string) (capture.Result, error)
}

// CaptureHandler serves POST /api/captures.
type CaptureHandler struct {
	svc captureService
	log *slog.Logger
}

// NewCaptureHandler creates a CaptureHandler.
func NewCaptureHandler(svc captureService, logger *slog.Logger) *CaptureHandler {
	return &CaptureHandler{svc: svc, log: logger.With("handler", "capture")}
}

type captureRequest struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

type captureResponse struct {
	capture.Result
	Message string `json:"message"`
}

// Create captures text, or the readable text of a web page, and waits for
// the entry to be stored.
func (h *CaptureHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req captureRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	text, rawURL := req.Text, strings.TrimSpace(req.URL)
	if (strings.TrimSpace(text) == "") == (rawURL == "") {
		handleError(w, h.log, r, domain.NewValidationError("text", "exactly one of text or url is required"))
		return
	}

	var (
		res capture.Result
		err error
	)
	if rawURL != "" {
		res, err = h.svc.CaptureURL(r.Context(), rawURL)
	} else {
		res, err = h.svc.Capture(r.Context(), text)
	}
	if err != nil {
		handleError(w, h.log, r, err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, captureResponse{Result: res, Message: res.Message()})
}
