package model

import "time"

// User represents a registered account.
//
// Accounts come in two flavours sharing one table: email/password sign-up
// (PasswordHash set, GoogleID empty) and Google sign-in (GoogleID set,
// PasswordHash empty). Email is unique either way, so a Google sign-in with
// an already-registered email attaches to the existing account.
//
// PasswordHash is never serialized — note the json:"-".
type User struct {
	ID           string    `json:"id"        db:"id"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	GoogleID     string    `json:"-"         db:"google_id"` // Google's subject ID, empty for password accounts
	Name         string    `json:"name"      db:"name"`
	AvatarURL    string    `json:"avatarUrl" db:"avatar_url"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
