package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/bookshelf/internal/apperror"
	"github.com/sakif/bookshelf/internal/model"
)

// newTestDB opens a fresh in-memory database that lives only for this test.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser satisfies the foreign key on book_lists.user_id.
func createTestUser(t *testing.T, db *DB, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, PasswordHash: "hash"}
	if err := db.CreateWithPassword(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func TestInsert(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@b.co")

	entry := &model.ListEntry{UserID: user.ID, BookID: "b1", ListName: model.ListWantToRead}
	if err := db.Insert(context.Background(), entry); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if entry.ID == "" {
		t.Error("Insert() did not set entry.ID")
	}
	if entry.CreatedAt.IsZero() {
		t.Error("Insert() did not set entry.CreatedAt")
	}
}

func TestInsert_DuplicateBookAnyList(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@b.co")

	first := &model.ListEntry{UserID: user.ID, BookID: "b1", ListName: model.ListWantToRead}
	if err := db.Insert(context.Background(), first); err != nil {
		t.Fatalf("first Insert() error = %v", err)
	}

	// The unique key is (user, book) — the list name does not matter.
	second := &model.ListEntry{UserID: user.ID, BookID: "b1", ListName: model.ListFinished}
	err := db.Insert(context.Background(), second)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("second Insert() error = %v, want conflict", err)
	}
}

func TestInsert_SameBookDifferentUsers(t *testing.T) {
	db := newTestDB(t)
	u1 := createTestUser(t, db, "a@b.co")
	u2 := createTestUser(t, db, "c@d.co")

	for _, u := range []*model.User{u1, u2} {
		entry := &model.ListEntry{UserID: u.ID, BookID: "b1", ListName: model.ListReading}
		if err := db.Insert(context.Background(), entry); err != nil {
			t.Fatalf("Insert() for user %s error = %v", u.ID, err)
		}
	}
}

func TestInsert_InvalidListName(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@b.co")

	entry := &model.ListEntry{UserID: user.ID, BookID: "b1", ListName: "favourites"}
	err := db.Insert(context.Background(), entry)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Insert() error = %v, want validation error from CHECK constraint", err)
	}
}

func TestUpdateList(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@b.co")

	entry := &model.ListEntry{UserID: user.ID, BookID: "b1", ListName: model.ListWantToRead}
	if err := db.Insert(context.Background(), entry); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	err := db.UpdateList(context.Background(), user.ID, "b1", model.ListFinished)
	if err != nil {
		t.Fatalf("UpdateList() error = %v", err)
	}

	entries, err := db.ListByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1 (move must not duplicate the row)", len(entries))
	}
	if entries[0].ListName != model.ListFinished {
		t.Errorf("list = %s, want finished", entries[0].ListName)
	}
	if entries[0].ID != entry.ID {
		t.Errorf("row identity changed across a move: %s → %s", entry.ID, entries[0].ID)
	}
}

func TestUpdateList_MissingRow(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@b.co")

	err := db.UpdateList(context.Background(), user.ID, "ghost", model.ListReading)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("UpdateList() error = %v, want not found", err)
	}
}

func TestUpdateList_InvalidTarget(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@b.co")

	entry := &model.ListEntry{UserID: user.ID, BookID: "b1", ListName: model.ListReading}
	if err := db.Insert(context.Background(), entry); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	err := db.UpdateList(context.Background(), user.ID, "b1", "favourites")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("UpdateList() error = %v, want validation error", err)
	}
}

func TestListByUser_OrderAndIsolation(t *testing.T) {
	db := newTestDB(t)
	u1 := createTestUser(t, db, "a@b.co")
	u2 := createTestUser(t, db, "c@d.co")

	for _, bookID := range []string{"b1", "b2", "b3"} {
		entry := &model.ListEntry{UserID: u1.ID, BookID: bookID, ListName: model.ListReading}
		if err := db.Insert(context.Background(), entry); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}
	other := &model.ListEntry{UserID: u2.ID, BookID: "b9", ListName: model.ListReading}
	if err := db.Insert(context.Background(), other); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	entries, err := db.ListByUser(context.Background(), u1.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i, want := range []string{"b1", "b2", "b3"} {
		if entries[i].BookID != want {
			t.Errorf("entries[%d] = %s, want %s (oldest first)", i, entries[i].BookID, want)
		}
	}
}

func TestListByUser_Empty(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@b.co")

	entries, err := db.ListByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}
