package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sakif/bookshelf/internal/apperror"
	"github.com/sakif/bookshelf/internal/model"
)

// DefaultBaseURL is the Google Books volumes API root.
const DefaultBaseURL = "https://www.googleapis.com/books/v1"

// compile-time check that *GoogleBooks implements Client
var _ Client = (*GoogleBooks)(nil)

// GoogleBooks is the HTTP Client implementation backed by the Google Books
// volumes API.
//
// The API key is optional — the volumes endpoints answer unauthenticated
// requests with a lower quota. When set, it is appended to every request.
type GoogleBooks struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewGoogleBooks creates a catalog client. baseURL falls back to
// DefaultBaseURL when empty; tests point it at an httptest server.
// Timeout handling is delegated to the http.Client — there is no retry.
func NewGoogleBooks(baseURL, apiKey string) *GoogleBooks {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &GoogleBooks{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// volume is the portion of a catalog volume record we decode. The API
// returns a much larger object — we only unmarshal the fields we need.
type volume struct {
	ID         string      `json:"id"`
	VolumeInfo *volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle"`
	Authors       []string `json:"authors"`
	Description   string   `json:"description"`
	Publisher     string   `json:"publisher"`
	PublishedDate string   `json:"publishedDate"`
	Categories    []string `json:"categories"`
	PageCount     int      `json:"pageCount"`
	ImageLinks    *struct {
		Thumbnail      string `json:"thumbnail"`
		SmallThumbnail string `json:"smallThumbnail"`
	} `json:"imageLinks"`
	PreviewLink string `json:"previewLink"`
	InfoLink    string `json:"infoLink"`
}

type searchResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

// Search implements Client. startOffset is the absolute item offset, not a
// page number — the pagination controller computes it as (page-1)*pageSize.
func (g *GoogleBooks) Search(ctx context.Context, query string, pageSize, startOffset int) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.InvalidQuery()
	}
	if pageSize <= 0 {
		return nil, apperror.ValidationFailed("pageSize", "page size must be positive")
	}
	if startOffset < 0 {
		return nil, apperror.ValidationFailed("startIndex", "start offset must not be negative")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(pageSize))
	params.Set("startIndex", strconv.Itoa(startOffset))
	if g.apiKey != "" {
		params.Set("key", g.apiKey)
	}

	var decoded searchResponse
	if err := g.getJSON(ctx, g.baseURL+"/volumes?"+params.Encode(), &decoded); err != nil {
		return nil, err
	}

	// A response with no items array is "no results", not an error. The
	// upstream still reports a total (0 when it omits that too).
	books := make([]model.Book, 0, len(decoded.Items))
	for _, v := range decoded.Items {
		books = append(books, v.toBook())
	}

	return &SearchResult{Items: books, TotalItems: decoded.TotalItems}, nil
}

// Lookup implements Client.
func (g *GoogleBooks) Lookup(ctx context.Context, id string) (*model.Book, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "book ID is required")
	}

	u := g.baseURL + "/volumes/" + url.PathEscape(id)
	if g.apiKey != "" {
		u += "?key=" + url.QueryEscape(g.apiKey)
	}

	var decoded volume
	if err := g.getJSON(ctx, u, &decoded); err != nil {
		return nil, err
	}

	// Transport and status were fine but the detail payload is missing —
	// this is ItemNotFound, distinct from CatalogUnavailable.
	if decoded.VolumeInfo == nil {
		return nil, apperror.ItemNotFound(id)
	}

	book := decoded.toBook()
	if book.ID == "" {
		book.ID = id
	}
	return &book, nil
}

// getJSON performs a GET and decodes the JSON body into out, translating
// transport failures and non-success statuses into CatalogUnavailable.
func (g *GoogleBooks) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("catalog: building request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return apperror.CatalogUnavailable(fmt.Sprintf("catalog request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperror.CatalogUnavailable(fmt.Sprintf("catalog returned status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.CatalogUnavailable(fmt.Sprintf("decoding catalog response: %v", err))
	}
	return nil
}

func (v volume) toBook() model.Book {
	b := model.Book{ID: v.ID}
	if v.VolumeInfo == nil {
		return b
	}
	info := v.VolumeInfo
	b.Title = info.Title
	b.Subtitle = info.Subtitle
	b.Authors = info.Authors
	b.Description = info.Description
	b.Publisher = info.Publisher
	b.PublishedDate = info.PublishedDate
	b.Categories = info.Categories
	b.PageCount = info.PageCount
	b.PreviewLink = info.PreviewLink
	b.InfoLink = info.InfoLink
	if info.ImageLinks != nil {
		b.Thumbnail = info.ImageLinks.Thumbnail
		if b.Thumbnail == "" {
			b.Thumbnail = info.ImageLinks.SmallThumbnail
		}
	}
	return b
}
