package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/bookshelf/internal/apperror"
	"github.com/sakif/bookshelf/internal/search"
)

// SearchHandler serves catalog search with pagination.
type SearchHandler struct {
	controller *search.Controller
	logger     *slog.Logger
}

func NewSearchHandler(controller *search.Controller, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{controller: controller, logger: logger}
}

// Search handles GET /api/search?q=<query>&page=<n>.
//
// An absent q browses the whole catalog via the wildcard query. A failed
// upstream call returns the catalog error rather than an empty result, so
// clients can tell "nothing matched" apart from "search broke".
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		query = "*"
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, h.logger, &apperror.AppError{
				Err:     apperror.ErrValidation,
				Message: "page must be a positive integer",
			})
			return
		}
		page = n
	}

	if err := h.controller.RunQuery(r.Context(), query, page); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, h.controller.Snapshot())
}
