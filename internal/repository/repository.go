// Package repository declares the storage interfaces the service layer
// programs against. The SQLite implementation lives in repository/sqlite;
// tests use in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/bookshelf/internal/model"
)

// ListEntryRepository is the row store for list memberships.
//
// The store — not the application — owns the (user, book) uniqueness
// invariant and the list-name constraint. Implementations must report a
// duplicate insert as apperror.ErrConflict and a bad list name as
// apperror.ErrValidation so the service layer can surface them distinctly.
type ListEntryRepository interface {
	Insert(ctx context.Context, entry *model.ListEntry) error
	// UpdateList changes only the list_name of the (userID, bookID) row.
	// Returns apperror.ErrNotFound when no such row exists.
	UpdateList(ctx context.Context, userID, bookID string, to model.ListName) error
	ListByUser(ctx context.Context, userID string) ([]model.ListEntry, error)
}

// UserRepository is the account store.
type UserRepository interface {
	// CreateWithPassword inserts a new password account. A duplicate email
	// is reported as apperror.ErrConflict.
	CreateWithPassword(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	// UpsertGoogle creates or refreshes the account for a Google identity,
	// keyed by google_id, attaching to an existing row with the same email
	// if one exists.
	UpsertGoogle(ctx context.Context, user *model.User) error
}
