package collection

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/sakif/bookshelf/internal/apperror"
	"github.com/sakif/bookshelf/internal/catalog"
	"github.com/sakif/bookshelf/internal/model"
	"github.com/sakif/bookshelf/internal/repository"
)

// Aggregator builds the bucket set for one user: load the membership rows,
// resolve each row to its catalog record, partition by list name.
//
// The per-row lookups are independent reads with no ordering dependency, so
// they fan out concurrently. Concurrency bounds only timing, never the
// observable result.
type Aggregator struct {
	store       repository.ListEntryRepository
	catalog     catalog.Client
	logger      *slog.Logger
	concurrency int
}

// NewAggregator creates an Aggregator. concurrency caps the number of
// in-flight catalog lookups; 0 means unbounded.
func NewAggregator(store repository.ListEntryRepository, cat catalog.Client, concurrency int, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		store:       store,
		catalog:     cat,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Fetch materializes the bucket set for userID. The whole operation fails
// only when the row fetch itself fails; a failed lookup for one row drops
// that row from every bucket (all included) and is logged as a warning.
//
// Fetch is a full rebuild — it is invoked per collections-view activation
// and is not incremental.
func (a *Aggregator) Fetch(ctx context.Context, userID string) (*Buckets, error) {
	entries, err := a.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.AggregationFailed(err)
	}

	// Resolve into a positional slice so bucket order follows row order no
	// matter which lookup settles first. A nil slot marks a dropped row.
	resolved := make([]*entryResult, len(entries))

	g := new(errgroup.Group)
	if a.concurrency > 0 {
		g.SetLimit(a.concurrency)
	}
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			book, err := a.catalog.Lookup(ctx, entry.BookID)
			if err != nil {
				// Non-fatal: this row is dropped, the rest proceed.
				a.logger.Warn("collection: skipping unresolvable book",
					slog.String("userID", userID),
					slog.String("bookID", entry.BookID),
					slog.String("error", err.Error()),
				)
				return nil
			}
			resolved[i] = &entryResult{row: entries[i], book: *book}
			return nil
		})
	}
	g.Wait()

	buckets := NewBuckets()
	for _, r := range resolved {
		if r == nil {
			continue
		}
		buckets.Add(Entry{Row: r.row, Book: r.book})
	}

	return buckets, nil
}

type entryResult struct {
	row  model.ListEntry
	book model.Book
}
