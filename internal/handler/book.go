package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/bookshelf/internal/apperror"
	"github.com/sakif/bookshelf/internal/catalog"
	"github.com/sakif/bookshelf/internal/reader"
)

// BookHandler serves single-book detail and the reader preview.
type BookHandler struct {
	catalog catalog.Client
	logger  *slog.Logger
}

func NewBookHandler(cat catalog.Client, logger *slog.Logger) *BookHandler {
	return &BookHandler{catalog: cat, logger: logger}
}

// Detail handles GET /api/books/{id}.
func (h *BookHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, h.logger, &apperror.AppError{
			Err:     apperror.ErrValidation,
			Message: "book ID is required",
		})
		return
	}

	book, err := h.catalog.Lookup(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, book)
}

// Reader handles GET /api/books/{id}/reader: the book's metadata and
// description rendered as preview pages.
func (h *BookHandler) Reader(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, h.logger, &apperror.AppError{
			Err:     apperror.ErrValidation,
			Message: "book ID is required",
		})
		return
	}

	book, err := h.catalog.Lookup(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, reader.BuildPages(book))
}
