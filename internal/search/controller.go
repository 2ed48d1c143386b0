// Package search tracks the current catalog search: query, page, and total
// count, with next/prev/go-to-page operations that re-invoke the catalog.
package search

import (
	"context"
	"strings"
	"sync"

	"github.com/sakif/bookshelf/internal/apperror"
	"github.com/sakif/bookshelf/internal/catalog"
	"github.com/sakif/bookshelf/internal/model"
)

// DefaultPageSize matches the fixed page size the application displays.
const DefaultPageSize = 20

// Controller owns the displayed search state.
//
// Searches may overlap: a new RunQuery supersedes any in-flight one.
// The in-flight call is not cancelled; instead every query takes a
// monotonically increasing token under the lock, and a settling call
// applies its result only while its token is still the newest. Whatever
// settles last for the newest token wins — a stale response arriving after
// a newer one is discarded, never applied.
type Controller struct {
	catalog  catalog.Client
	pageSize int

	mu      sync.Mutex
	seq     uint64 // token of the newest issued query
	query   string
	page    int // 1-based
	total   int
	items   []model.Book
	loading bool
	lastErr error
}

// NewController creates a Controller with the given page size (falls back
// to DefaultPageSize when non-positive).
func NewController(cat catalog.Client, pageSize int) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Controller{catalog: cat, pageSize: pageSize}
}

// Snapshot is the displayed state at one point in time.
type Snapshot struct {
	Query      string       `json:"query"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	TotalItems int          `json:"totalItems"`
	LastPage   int          `json:"lastPage"`
	Items      []model.Book `json:"items"`
	Loading    bool         `json:"loading"`
}

// RunQuery issues a search for (query, page) and applies the result unless
// a newer query superseded it meanwhile.
//
// Stale results are cleared before the call goes out, so a failed search
// ends with an empty displayed list: the clear belongs to starting a new
// search, the failure only means nothing arrives to fill it.
//
// The returned error reports this invocation's outcome; a superseded
// invocation returns nil because its outcome no longer owns the display.
func (c *Controller) RunQuery(ctx context.Context, query string, page int) error {
	if strings.TrimSpace(query) == "" {
		return apperror.InvalidQuery()
	}
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	c.seq++
	token := c.seq
	c.query = query
	c.page = page
	c.items = nil
	c.loading = true
	c.lastErr = nil
	startOffset := (page - 1) * c.pageSize
	pageSize := c.pageSize
	c.mu.Unlock()

	// The catalog call happens without the lock so queries can overlap.
	result, err := c.catalog.Search(ctx, query, pageSize, startOffset)

	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.seq {
		// A newer query was issued while this one was in flight; its
		// result owns the display now. Discard, don't apply.
		return nil
	}

	c.loading = false
	if err != nil {
		c.lastErr = err
		return err
	}

	c.items = result.Items
	c.total = result.TotalItems
	return nil
}

// GoToPage re-runs the current query for page n. Out-of-range pages
// (n < 1 or n > LastPage) are silently ignored — no error, no state change.
func (c *Controller) GoToPage(ctx context.Context, n int) error {
	c.mu.Lock()
	query := c.query
	last := c.lastPageLocked()
	c.mu.Unlock()

	if n < 1 || n > last {
		return nil
	}
	return c.RunQuery(ctx, query, n)
}

// NextPage advances one page; silently ignored on the last page.
func (c *Controller) NextPage(ctx context.Context) error {
	c.mu.Lock()
	n := c.page + 1
	c.mu.Unlock()
	return c.GoToPage(ctx, n)
}

// PrevPage goes back one page; silently ignored on the first page.
func (c *Controller) PrevPage(ctx context.Context) error {
	c.mu.Lock()
	n := c.page - 1
	c.mu.Unlock()
	return c.GoToPage(ctx, n)
}

// LastPage is ceil(totalItems / pageSize); 0 when there are no items,
// which callers use to suppress pagination entirely.
func (c *Controller) LastPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastPageLocked()
}

func (c *Controller) lastPageLocked() int {
	if c.total <= 0 {
		return 0
	}
	return (c.total + c.pageSize - 1) / c.pageSize
}

// Snapshot returns a copy of the displayed state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]model.Book, len(c.items))
	copy(items, c.items)

	return Snapshot{
		Query:      c.query,
		Page:       c.page,
		PageSize:   c.pageSize,
		TotalItems: c.total,
		LastPage:   c.lastPageLocked(),
		Items:      items,
		Loading:    c.loading,
	}
}

// LastErr returns the error of the most recent settled query, if any.
// A successful empty result and a failed search both display an empty
// list; this is how the two are told apart.
func (c *Controller) LastErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
