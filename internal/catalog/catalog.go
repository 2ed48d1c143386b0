// Package catalog wraps the external book catalog's search API.
//
// The catalog is a collaborator, not something this application owns: every
// call re-fetches over HTTP and nothing is cached locally. Two operations
// exist — paginated text search and by-identifier lookup — and both surface
// failures through the apperror taxonomy so callers never see raw transport
// errors.
package catalog

import (
	"context"

	"github.com/sakif/bookshelf/internal/model"
)

// SearchResult is the ordered item sequence for one (query, page) pair plus
// the catalog's total-item count for the query. The total is independent of
// page size and is whatever the upstream reports (0 when absent).
type SearchResult struct {
	Items      []model.Book `json:"items"`
	TotalItems int          `json:"totalItems"`
}

// Client is the catalog contract the rest of the application programs
// against. The HTTP implementation lives in this package (googlebooks.go);
// tests substitute fakes.
type Client interface {
	// Search runs a text search. query must be non-empty after trimming
	// whitespace. The catalog's wildcard query ("*") is ordinary query text
	// here — no special-casing. An empty item list with a successful
	// response is a valid result, not an error.
	Search(ctx context.Context, query string, pageSize, startOffset int) (*SearchResult, error)

	// Lookup fetches the detailed record for one item identifier.
	Lookup(ctx context.Context, id string) (*model.Book, error)
}
