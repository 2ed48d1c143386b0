package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/bookshelf/internal/apperror"
	"github.com/sakif/bookshelf/internal/model"
)

func TestCreateWithPassword(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{Email: "a@b.co", PasswordHash: "hash"}
	if err := db.CreateWithPassword(context.Background(), user); err != nil {
		t.Fatalf("CreateWithPassword() error = %v", err)
	}

	if user.ID == "" {
		t.Error("CreateWithPassword() did not set user.ID")
	}

	found, err := db.GetByEmail(context.Background(), "a@b.co")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if found.ID != user.ID || found.PasswordHash != "hash" {
		t.Errorf("found = %+v, want stored user back", found)
	}
}

func TestCreateWithPassword_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)

	first := &model.User{Email: "a@b.co", PasswordHash: "hash"}
	if err := db.CreateWithPassword(context.Background(), first); err != nil {
		t.Fatalf("first CreateWithPassword() error = %v", err)
	}

	second := &model.User{Email: "a@b.co", PasswordHash: "other"}
	err := db.CreateWithPassword(context.Background(), second)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("second CreateWithPassword() error = %v, want conflict", err)
	}
}

func TestGetByEmail_Missing(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByEmail(context.Background(), "nobody@b.co")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetByEmail() error = %v, want not found", err)
	}
}

func TestGetByID_Missing(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByID(context.Background(), "ghost")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetByID() error = %v, want not found", err)
	}
}

func TestUpsertGoogle_CreatesNewAccount(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		Email:     "g@b.co",
		GoogleID:  "google-sub-1",
		Name:      "G User",
		AvatarURL: "http://img/avatar",
	}
	if err := db.UpsertGoogle(context.Background(), user); err != nil {
		t.Fatalf("UpsertGoogle() error = %v", err)
	}
	if user.ID == "" {
		t.Fatal("UpsertGoogle() did not set user.ID")
	}

	found, err := db.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.GoogleID != "google-sub-1" || found.Name != "G User" {
		t.Errorf("found = %+v", found)
	}
}

func TestUpsertGoogle_StableIDAcrossSignIns(t *testing.T) {
	db := newTestDB(t)

	first := &model.User{Email: "g@b.co", GoogleID: "google-sub-1", Name: "Old Name"}
	if err := db.UpsertGoogle(context.Background(), first); err != nil {
		t.Fatalf("first UpsertGoogle() error = %v", err)
	}

	second := &model.User{Email: "g@b.co", GoogleID: "google-sub-1", Name: "New Name"}
	if err := db.UpsertGoogle(context.Background(), second); err != nil {
		t.Fatalf("second UpsertGoogle() error = %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("internal ID changed across sign-ins: %s → %s", first.ID, second.ID)
	}

	found, _ := db.GetByID(context.Background(), first.ID)
	if found.Name != "New Name" {
		t.Errorf("profile not refreshed: name = %q", found.Name)
	}
}

func TestUpsertGoogle_ClaimsPasswordAccountByEmail(t *testing.T) {
	db := newTestDB(t)

	existing := &model.User{Email: "a@b.co", PasswordHash: "hash"}
	if err := db.CreateWithPassword(context.Background(), existing); err != nil {
		t.Fatalf("CreateWithPassword() error = %v", err)
	}

	google := &model.User{Email: "a@b.co", GoogleID: "google-sub-9"}
	if err := db.UpsertGoogle(context.Background(), google); err != nil {
		t.Fatalf("UpsertGoogle() error = %v", err)
	}

	if google.ID != existing.ID {
		t.Errorf("google sign-in created a second account: %s vs %s", google.ID, existing.ID)
	}

	// The password survives linking; the user can still sign in either way.
	found, _ := db.GetByID(context.Background(), existing.ID)
	if found.PasswordHash != "hash" {
		t.Error("linking a Google identity wiped the password hash")
	}
	if found.GoogleID != "google-sub-9" {
		t.Errorf("google_id = %q, want google-sub-9", found.GoogleID)
	}
}
