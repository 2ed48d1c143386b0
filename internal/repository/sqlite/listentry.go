package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/bookshelf/internal/apperror"
	"github.com/sakif/bookshelf/internal/model"
	"github.com/sakif/bookshelf/internal/repository"
)

// compile-time check that *DB implements repository.ListEntryRepository
var _ repository.ListEntryRepository = (*DB)(nil)

// Insert creates one membership row. The UNIQUE(user_id, book_id) key makes
// a second insert for the same pair fail regardless of list name; that is
// surfaced as the AlreadyInList conflict. A list name the CHECK constraint
// rejects comes back as a validation error.
func (db *DB) Insert(ctx context.Context, entry *model.ListEntry) error {
	entry.ID = xid.New().String()
	entry.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO book_lists (id, user_id, book_id, list_name, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.ID,
		entry.UserID,
		entry.BookID,
		string(entry.ListName),
		entry.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.AlreadyInList(entry.BookID)
		}
		if isCheckViolation(err) {
			return apperror.InvalidListName(string(entry.ListName))
		}
		return fmt.Errorf("sqlite: inserting list entry (user=%s book=%s): %w",
			entry.UserID, entry.BookID, err)
	}

	return nil
}

// UpdateList changes only list_name for the (userID, bookID) row.
func (db *DB) UpdateList(ctx context.Context, userID, bookID string, to model.ListName) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE book_lists SET list_name = ? WHERE user_id = ? AND book_id = ?`,
		string(to),
		userID,
		bookID,
	)
	if err != nil {
		if isCheckViolation(err) {
			return apperror.InvalidListName(string(to))
		}
		return fmt.Errorf("sqlite: updating list entry (user=%s book=%s): %w", userID, bookID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("list entry", bookID)
	}

	return nil
}

// ListByUser returns all membership rows for one user, oldest first. Order
// is stable so the collections view renders deterministically, though the
// aggregator does not depend on it for correctness.
func (db *DB) ListByUser(ctx context.Context, userID string) ([]model.ListEntry, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, book_id, list_name, created_at
		 FROM book_lists
		 WHERE user_id = ?
		 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing entries for user %s: %w", userID, err)
	}
	defer rows.Close()

	entries := make([]model.ListEntry, 0)
	for rows.Next() {
		var e model.ListEntry
		var list string
		if err := rows.Scan(&e.ID, &e.UserID, &e.BookID, &list, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning list entry row: %w", err)
		}
		e.ListName = model.ListName(list)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating list entries: %w", err)
	}

	return entries, nil
}
