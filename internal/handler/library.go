package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/bookshelf/internal/apperror"
	"github.com/sakif/bookshelf/internal/auth"
	"github.com/sakif/bookshelf/internal/collection"
	"github.com/sakif/bookshelf/internal/library"
	"github.com/sakif/bookshelf/internal/model"
)

// LibraryHandler serves the user's reading lists: the aggregated collection
// view and the add/move mutations.
type LibraryHandler struct {
	aggregator *collection.Aggregator
	service    *library.Service
	logger     *slog.Logger
}

func NewLibraryHandler(agg *collection.Aggregator, svc *library.Service, logger *slog.Logger) *LibraryHandler {
	return &LibraryHandler{aggregator: agg, service: svc, logger: logger}
}

// CollectionsResponse groups the user's saved books by list. The per-list
// slices are views over the same ordered collection, so a book appears in
// exactly one of them and "all" is their concatenation in saved order.
type CollectionsResponse struct {
	All        []collection.Entry `json:"all"`
	WantToRead []collection.Entry `json:"wantToRead"`
	Reading    []collection.Entry `json:"reading"`
	Finished   []collection.Entry `json:"finished"`
}

// Collections handles GET /api/collections.
func (h *LibraryHandler) Collections(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, apperror.NotAuthenticated())
		return
	}

	buckets, err := h.aggregator.Fetch(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, CollectionsResponse{
		All:        buckets.All(),
		WantToRead: buckets.ByList(model.ListWantToRead),
		Reading:    buckets.ByList(model.ListReading),
		Finished:   buckets.ByList(model.ListFinished),
	})
}

type addRequest struct {
	BookID   string `json:"bookId"`
	ListName string `json:"listName"`
}

// Add handles POST /api/lists: save a book to one of the user's lists.
func (h *LibraryHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, apperror.NotAuthenticated())
		return
	}

	var req addRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	entry, err := h.service.Add(r.Context(), userID, req.BookID, model.ListName(req.ListName))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

type moveRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Move handles PUT /api/lists/{bookId}: move a saved book between lists.
func (h *LibraryHandler) Move(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, apperror.NotAuthenticated())
		return
	}

	bookID := chi.URLParam(r, "bookId")
	if bookID == "" {
		writeError(w, h.logger, &apperror.AppError{
			Err:     apperror.ErrValidation,
			Message: "book ID is required",
		})
		return
	}

	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	err := h.service.Move(r.Context(), userID, bookID,
		model.ListName(req.From), model.ListName(req.To), nil)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
