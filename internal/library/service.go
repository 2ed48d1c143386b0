// Package library applies add/move operations to a user's reading lists.
//
// The row store owns the hard invariant (one membership row per user+book);
// this layer validates input, translates store constraint failures into the
// user-facing conditions, and keeps the in-memory buckets consistent after
// a move.
package library

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/bookshelf/internal/apperror"
	"github.com/sakif/bookshelf/internal/collection"
	"github.com/sakif/bookshelf/internal/model"
	"github.com/sakif/bookshelf/internal/repository"
)

// Service is the list-membership mutator.
type Service struct {
	store  repository.ListEntryRepository
	logger *slog.Logger
}

// NewService creates a Service.
func NewService(store repository.ListEntryRepository, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Add puts a book on one of the user's lists.
//
// A second add for the same (user, book) pair — any list name — surfaces as
// AlreadyInList via the store's uniqueness constraint. That is a recoverable
// user-facing condition, not a system error, so it is not logged as one.
func (s *Service) Add(ctx context.Context, userID, bookID string, list model.ListName) (*model.ListEntry, error) {
	if userID == "" {
		return nil, apperror.NotAuthenticated()
	}
	bookID = strings.TrimSpace(bookID)
	if bookID == "" {
		return nil, apperror.ValidationFailed("bookId", "book ID is required")
	}
	if !list.Valid() {
		return nil, apperror.InvalidListName(string(list))
	}

	entry := &model.ListEntry{
		UserID:   userID,
		BookID:   bookID,
		ListName: list,
	}
	if err := s.store.Insert(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("book added to list",
		slog.String("userID", userID),
		slog.String("bookID", bookID),
		slog.String("list", string(list)),
	)

	return entry, nil
}

// Move changes which list a book is on. from == to is a no-op. Only the
// row's list name changes — the row itself, and its place in the "all"
// bucket, stay put.
//
// buckets may be nil when the caller holds no materialized collection
// state; when given, it is reconciled only after the store update succeeds.
func (s *Service) Move(ctx context.Context, userID, bookID string, from, to model.ListName, buckets *collection.Buckets) error {
	if userID == "" {
		return apperror.NotAuthenticated()
	}
	bookID = strings.TrimSpace(bookID)
	if bookID == "" {
		return apperror.ValidationFailed("bookId", "book ID is required")
	}
	if !from.Valid() {
		return apperror.InvalidListName(string(from))
	}
	if !to.Valid() {
		return apperror.InvalidListName(string(to))
	}
	if from == to {
		return nil
	}

	if err := s.store.UpdateList(ctx, userID, bookID, to); err != nil {
		return err
	}

	if buckets != nil {
		buckets.MoveLocal(bookID, from, to)
	}

	s.logger.Info("book moved between lists",
		slog.String("userID", userID),
		slog.String("bookID", bookID),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
	)

	return nil
}
