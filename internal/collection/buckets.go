// Package collection materializes a user's reading-status collections from
// their membership rows and the catalog.
package collection

import "github.com/sakif/bookshelf/internal/model"

// Entry pairs a membership row with its resolved catalog record.
type Entry struct {
	Row  model.ListEntry `json:"row"`
	Book model.Book      `json:"book"`
}

// Buckets holds one aggregation result.
//
// Internally there is a single ordered, book-indexed collection; the
// per-list buckets are derived views over it. That makes the invariant
// len(All) == Σ len(ByList) structural — the "all" bucket and the named
// buckets cannot drift apart because they are the same data.
type Buckets struct {
	entries []Entry
	index   map[string]int // book ID → position in entries
}

// NewBuckets returns an empty bucket set.
func NewBuckets() *Buckets {
	return &Buckets{index: make(map[string]int)}
}

// Add appends an entry, replacing any earlier entry for the same book
// while keeping the original position.
func (b *Buckets) Add(e Entry) {
	if i, ok := b.index[e.Row.BookID]; ok {
		b.entries[i] = e
		return
	}
	b.index[e.Row.BookID] = len(b.entries)
	b.entries = append(b.entries, e)
}

// All returns every entry in aggregation order.
func (b *Buckets) All() []Entry {
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// ByList returns the entries whose membership row carries the given list
// name, preserving aggregation order.
func (b *Buckets) ByList(name model.ListName) []Entry {
	out := make([]Entry, 0)
	for _, e := range b.entries {
		if e.Row.ListName == name {
			out = append(out, e)
		}
	}
	return out
}

// Len is the size of the "all" bucket.
func (b *Buckets) Len() int {
	return len(b.entries)
}

// MoveLocal reconciles the in-memory state after a successful store move:
// the entry's list name flips from from to to while its position in the
// "all" bucket stays put — the row is never removed and re-added there.
//
// Returns false without mutating anything when the book is absent or not
// currently on the from list.
func (b *Buckets) MoveLocal(bookID string, from, to model.ListName) bool {
	i, ok := b.index[bookID]
	if !ok || b.entries[i].Row.ListName != from {
		return false
	}
	b.entries[i].Row.ListName = to
	return true
}
