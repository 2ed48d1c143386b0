package model

import "time"

// ListName is one of the fixed reading-status lists a book can belong to.
//
// The set is closed: the row store enforces it with a CHECK constraint and
// the service layer rejects anything else before touching the store. A book
// belongs to exactly one list per user at a time.
type ListName string

const (
	ListWantToRead ListName = "want-to-read"
	ListReading    ListName = "reading"
	ListFinished   ListName = "finished"
)

// ListNames is the canonical ordering used for bucket iteration.
var ListNames = []ListName{ListWantToRead, ListReading, ListFinished}

// Valid reports whether n is a member of the fixed list-name set.
func (n ListName) Valid() bool {
	switch n {
	case ListWantToRead, ListReading, ListFinished:
		return true
	}
	return false
}

// ListEntry is one membership row: user U keeps book B on list L.
//
// Rows are uniquely keyed by (UserID, BookID). They are created on add and
// mutated (ListName only) on move; this application never deletes them.
type ListEntry struct {
	ID        string    `json:"id"        db:"id"`
	UserID    string    `json:"userId"    db:"user_id"`
	BookID    string    `json:"bookId"    db:"book_id"`
	ListName  ListName  `json:"listName"  db:"list_name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
