package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/myenglish-capture/internal/domain"
	"github.com/heartmarshall/myenglish-capture/internal/transport/dataloader"
)

type entryService interface {
	GetEntry(ctx context.Context, id int64) (*domain.Entry, error)
	ListEntries(ctx context.Context, category domain.Category) ([]domain.Entry, error)
	SetTags(ctx context.Context, id int64, tags domain.TagList) error
	SetRelated(ctx context.Context, id int64, related domain.RelatedList) error
	AddRelated(ctx context.Context, id, relatedID int64) (domain.RelatedList, error)
	ResolveRelatedDisplay(ctx context.Context, related domain.RelatedList) ([]string, error)
	SearchCandidates(ctx context.Context, query string, excludeIDs []int64) ([]domain.Candidate, error)
}

// EntryHandler serves entry browsing and editing endpoints.
type EntryHandler struct {
	svc entryService
	log *slog.Logger
}

// NewEntryHandler creates an EntryHandler.
func NewEntryHandler(svc entryService, logger *slog.Logger) *EntryHandler {
	return &EntryHandler{svc: svc, log: logger.With("handler", "entry")}
}

type entryResponse struct {
	*domain.Entry
	RelatedDisplay []string `json:"related_display"`
}

type listResponse struct {
	Entries []entryResponse `json:"entries"`
	Total   int             `json:"total"`
}

type tagsRequest struct {
	Tags  *domain.TagList `json:"tags"`
	Input *string         `json:"input"`
}

type relatedRequest struct {
	Related *domain.RelatedList `json:"related"`
}

type addRelatedRequest struct {
	ID int64 `json:"id"`
}

type tagsResponse struct {
	ID   int64          `json:"id"`
	Tags domain.TagList `json:"tags"`
}

type relatedResponse struct {
	ID             int64              `json:"id"`
	Related        domain.RelatedList `json:"related"`
	RelatedDisplay []string           `json:"related_display"`
}

// List handles GET /api/entries?category=.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	category := domain.Category(r.URL.Query().Get("category"))

	entries, err := h.svc.ListEntries(r.Context(), category)
	if err != nil {
		handleError(w, h.log, r, err)
		return
	}

	lists := make([]domain.RelatedList, len(entries))
	for i := range entries {
		lists[i] = entries[i].Related
	}
	displays, err := h.relatedDisplay(r.Context(), lists)
	if err != nil {
		handleError(w, h.log, r, err)
		return
	}

	resp := listResponse{Entries: make([]entryResponse, len(entries)), Total: len(entries)}
	for i := range entries {
		resp.Entries[i] = entryResponse{Entry: &entries[i], RelatedDisplay: displays[i]}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/entries/{id}.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, h.log, r, err)
		return
	}

	entry, err := h.svc.GetEntry(r.Context(), id)
	if err != nil {
		handleError(w, h.log, r, err)
		return
	}

	displays, err := h.relatedDisplay(r.Context(), []domain.RelatedList{entry.Related})
	if err != nil {
		handleError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entryResponse{Entry: entry, RelatedDisplay: displays[0]})
}

// SetTags handles PUT /api/entries/{id}/tags. The body carries either a
// tag array or comma-separated input.
func (h *EntryHandler) SetTags(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, h.log, r, err)
		return
	}

	var req tagsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var tags domain.TagList
	switch {
	case req.Tags != nil:
		tags = req.Tags.Dedup()
	case req.Input != nil:
		tags = domain.ParseTagInput(*req.Input).Dedup()
	default:
		handleError(w, h.log, r, domain.NewValidationError("tags", "tags or input is required"))
		return
	}

	if err := h.svc.SetTags(r.Context(), id, tags); err != nil {
		handleError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tagsResponse{ID: id, Tags: tags})
}

// SetRelated handles PUT /api/entries/{id}/related.
func (h *EntryHandler) SetRelated(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, h.log, r, err)
		return
	}

	var req relatedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Related == nil {
		handleError(w, h.log, r, domain.NewValidationError("related", "required"))
		return
	}

	if err := h.svc.SetRelated(r.Context(), id, *req.Related); err != nil {
		handleError(w, h.log, r, err)
		return
	}
	h.writeRelated(w, r, id, *req.Related)
}

// AddRelated handles POST /api/entries/{id}/related.
func (h *EntryHandler) AddRelated(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, h.log, r, err)
		return
	}

	var req addRelatedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ID <= 0 {
		handleError(w, h.log, r, domain.NewValidationError("id", "must be a positive integer"))
		return
	}

	related, err := h.svc.AddRelated(r.Context(), id, req.ID)
	if err != nil {
		handleError(w, h.log, r, err)
		return
	}
	h.writeRelated(w, r, id, related)
}

// Candidates handles GET /api/candidates?q=&exclude=1,2.
func (h *EntryHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	exclude, err := parseIDList(q.Get("exclude"))
	if err != nil {
		handleError(w, h.log, r, err)
		return
	}

	candidates, err := h.svc.SearchCandidates(r.Context(), q.Get("q"), exclude)
	if err != nil {
		handleError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Candidate{"candidates": candidates})
}

func (h *EntryHandler) writeRelated(w http.ResponseWriter, r *http.Request, id int64, related domain.RelatedList) {
	displays, err := h.relatedDisplay(r.Context(), []domain.RelatedList{related})
	if err != nil {
		handleError(w, h.log, r, err)
		return
	}
	if related == nil {
		related = domain.RelatedList{}
	}
	writeJSON(w, http.StatusOK, relatedResponse{ID: id, Related: related, RelatedDisplay: displays[0]})
}

// relatedDisplay batches through the request loaders when present.
func (h *EntryHandler) relatedDisplay(ctx context.Context, lists []domain.RelatedList) ([][]string, error) {
	if l := dataloader.FromContext(ctx); l != nil {
		return l.RelatedDisplay(ctx, lists)
	}
	out := make([][]string, len(lists))
	for i, related := range lists {
		d, err := h.svc.ResolveRelatedDisplay(ctx, related)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}
