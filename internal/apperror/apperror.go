// Package apperror defines the domain error taxonomy shared by every layer.
//
// Services return these errors; the HTTP layer maps them to status codes in
// handler/response.go. Sentinels are checked with errors.Is, the wrapping
// AppError carries the human-readable message and is extracted with errors.As.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("conflict")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnavailable     = errors.New("upstream unavailable")
)

type AppError struct {
	Err     error  // sentinel classifying the error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// InvalidQuery is returned by the catalog client when the search text is
// empty after trimming.
func InvalidQuery() *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: "search query must not be empty",
		Field:   "q",
	}
}

// CatalogUnavailable classifies transport failures and non-success responses
// from the catalog API. The upstream status, when known, goes into the message.
func CatalogUnavailable(message string) *AppError {
	return &AppError{
		Err:     ErrUnavailable,
		Message: message,
	}
}

// ItemNotFound is returned by a catalog lookup that got a well-formed
// response with no volume payload in it.
func ItemNotFound(id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("book not found with id %s", id),
	}
}

// NotAuthenticated is returned by mutations attempted without a session.
func NotAuthenticated() *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: "sign in to manage your lists",
	}
}

// InvalidListName rejects list names outside the fixed reading-status set.
func InvalidListName(name string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: fmt.Sprintf("%q is not a valid list name", name),
		Field:   "listName",
	}
}

// AlreadyInList is the recoverable, user-facing condition raised when an add
// hits the one-row-per-(user, book) uniqueness constraint.
func AlreadyInList(bookID string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("book %s is already in one of your lists", bookID),
	}
}

// EmailTaken is raised when a sign-up reuses a registered email address.
func EmailTaken(email string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("email %s is already registered", email),
		Field:   "email",
	}
}

// AggregationFailed reports that the initial membership-row fetch failed.
// Per-item lookup failures during aggregation never produce this.
func AggregationFailed(err error) *AppError {
	return &AppError{
		Err:     ErrUnavailable,
		Message: fmt.Sprintf("loading collections: %v", err),
	}
}
