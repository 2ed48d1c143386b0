package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/bookshelf/internal/apperror"
	"github.com/sakif/bookshelf/internal/auth"
	"github.com/sakif/bookshelf/internal/collection"
	"github.com/sakif/bookshelf/internal/handler"
	"github.com/sakif/bookshelf/internal/library"
	"github.com/sakif/bookshelf/internal/model"
)

// memStore is an in-memory ListEntryRepository with the real store's
// constraint behavior.
type memStore struct {
	rows []model.ListEntry
}

func (m *memStore) Insert(_ context.Context, entry *model.ListEntry) error {
	for _, r := range m.rows {
		if r.UserID == entry.UserID && r.BookID == entry.BookID {
			return apperror.AlreadyInList(entry.BookID)
		}
	}
	entry.ID = "row-" + entry.BookID
	m.rows = append(m.rows, *entry)
	return nil
}

func (m *memStore) UpdateList(_ context.Context, userID, bookID string, to model.ListName) error {
	for i, r := range m.rows {
		if r.UserID == userID && r.BookID == bookID {
			m.rows[i].ListName = to
			return nil
		}
	}
	return apperror.NotFound("list entry", bookID)
}

func (m *memStore) ListByUser(_ context.Context, userID string) ([]model.ListEntry, error) {
	var out []model.ListEntry
	for _, r := range m.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

// newLibraryRouter wires the library routes behind real JWT auth, the way
// the server does, and returns a valid session cookie for user u1.
func newLibraryRouter(t *testing.T, store *memStore, cat *mockCatalog) (*chi.Mux, *http.Cookie) {
	t.Helper()

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	require.NoError(t, err)
	token, err := tokens.Generate("u1", "a@b.co")
	require.NoError(t, err)

	logger := testLogger()
	agg := collection.NewAggregator(store, cat, 2, logger)
	svc := library.NewService(store, logger)
	h := handler.NewLibraryHandler(agg, svc, logger)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Get("/api/collections", h.Collections)
		r.Post("/api/lists", h.Add)
		r.Put("/api/lists/{bookId}", h.Move)
	})

	return r, &http.Cookie{Name: auth.CookieName, Value: token}
}

func TestLibraryHandler_RequiresAuth(t *testing.T) {
	r, _ := newLibraryRouter(t, &memStore{}, &mockCatalog{})

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/collections"},
		{http.MethodPost, "/api/lists"},
		{http.MethodPut, "/api/lists/b1"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader("{}"))
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s without cookie", tc.method, tc.path)
	}
}

func TestLibraryHandler_AddAndCollections(t *testing.T) {
	cat := &mockCatalog{books: map[string]*model.Book{
		"b1": {ID: "b1", Title: "Dune"},
		"b2": {ID: "b2", Title: "Hyperion"},
	}}
	r, cookie := newLibraryRouter(t, &memStore{}, cat)

	add := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/lists", strings.NewReader(body))
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr
	}

	require.Equal(t, http.StatusCreated, add(`{"bookId":"b1","listName":"want-to-read"}`).Code)
	require.Equal(t, http.StatusCreated, add(`{"bookId":"b2","listName":"reading"}`).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/collections", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp handler.CollectionsResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Len(t, resp.All, 2)
	require.Len(t, resp.WantToRead, 1)
	assert.Equal(t, "Dune", resp.WantToRead[0].Book.Title)
	require.Len(t, resp.Reading, 1)
	assert.Equal(t, "Hyperion", resp.Reading[0].Book.Title)
	assert.Empty(t, resp.Finished)
}

func TestLibraryHandler_DuplicateAdd(t *testing.T) {
	cat := &mockCatalog{books: map[string]*model.Book{"b1": {ID: "b1"}}}
	r, cookie := newLibraryRouter(t, &memStore{}, cat)

	body := `{"bookId":"b1","listName":"want-to-read"}`
	for i, wantStatus := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/api/lists", strings.NewReader(body))
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		require.Equal(t, wantStatus, rr.Code, "add attempt %d", i+1)
	}
}

func TestLibraryHandler_InvalidListName(t *testing.T) {
	r, cookie := newLibraryRouter(t, &memStore{}, &mockCatalog{})

	req := httptest.NewRequest(http.MethodPost, "/api/lists",
		strings.NewReader(`{"bookId":"b1","listName":"favourites"}`))
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "validation", body.Error)
}

func TestLibraryHandler_Move(t *testing.T) {
	store := &memStore{}
	cat := &mockCatalog{books: map[string]*model.Book{"b1": {ID: "b1"}}}
	r, cookie := newLibraryRouter(t, store, cat)

	req := httptest.NewRequest(http.MethodPost, "/api/lists",
		strings.NewReader(`{"bookId":"b1","listName":"want-to-read"}`))
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	req = httptest.NewRequest(http.MethodPut, "/api/lists/b1",
		strings.NewReader(`{"from":"want-to-read","to":"finished"}`))
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)

	require.Len(t, store.rows, 1)
	assert.Equal(t, model.ListFinished, store.rows[0].ListName)
}

func TestLibraryHandler_MoveMissingBook(t *testing.T) {
	r, cookie := newLibraryRouter(t, &memStore{}, &mockCatalog{})

	req := httptest.NewRequest(http.MethodPut, "/api/lists/ghost",
		strings.NewReader(`{"from":"reading","to":"finished"}`))
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// A row whose book the catalog cannot resolve is dropped from the
// collections view; the rest still render.
func TestLibraryHandler_CollectionsDropsUnresolvable(t *testing.T) {
	store := &memStore{rows: []model.ListEntry{
		{ID: "r1", UserID: "u1", BookID: "b1", ListName: model.ListReading},
		{ID: "r2", UserID: "u1", BookID: "gone", ListName: model.ListReading},
	}}
	cat := &mockCatalog{books: map[string]*model.Book{"b1": {ID: "b1", Title: "Dune"}}}
	r, cookie := newLibraryRouter(t, store, cat)

	req := httptest.NewRequest(http.MethodGet, "/api/collections", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp handler.CollectionsResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp.All, 1)
	assert.Equal(t, "b1", resp.All[0].Row.BookID)
}
