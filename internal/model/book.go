// Package model defines the data structures used throughout the application.
package model

// Book is the slice of a catalog volume record this application cares about.
//
// The catalog owns these records — a Book is a cached read of an external
// source of truth with no freshness contract. The ID is opaque and stable
// across lookups; everything else is display data. Authors keeps the
// catalog's ordering and may be empty; Description and Thumbnail may be
// absent.
type Book struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle,omitempty"`
	Authors       []string `json:"authors,omitempty"`
	Description   string   `json:"description,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	PageCount     int      `json:"pageCount,omitempty"`
	Thumbnail     string   `json:"thumbnail,omitempty"`
	PreviewLink   string   `json:"previewLink,omitempty"`
	InfoLink      string   `json:"infoLink,omitempty"`
}
