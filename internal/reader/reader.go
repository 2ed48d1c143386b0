// Package reader turns a catalog record into paged plain text for the
// in-app preview. The catalog only exposes metadata, so the preview is a
// structured summary of the volume rather than its actual contents.
package reader

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sakif/bookshelf/internal/model"
)

// maxContentLength caps the description so a pathological record cannot
// produce an unbounded preview.
const maxContentLength = 5000

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
	blankLinesPattern = regexp.MustCompile(`\n{3,}`)
)

// Preview is the paged rendering of a single book.
type Preview struct {
	BookID string   `json:"bookId"`
	Title  string   `json:"title"`
	Pages  []string `json:"pages"`
}

// BuildPages renders the preview for a book. Every book yields at least one
// page; a record with no usable description gets a placeholder page.
func BuildPages(book *model.Book) *Preview {
	var sections []string

	sections = append(sections, header(book))

	if meta := metadata(book); meta != "" {
		sections = append(sections, meta)
	}

	if desc := description(book); desc != "" {
		sections = append(sections, splitParagraphs(desc)...)
	}

	if links := links(book); links != "" {
		sections = append(sections, links)
	}

	if len(sections) == 1 && metadata(book) == "" && description(book) == "" {
		sections = append(sections, "No preview content is available for this book.")
	}

	return &Preview{
		BookID: book.ID,
		Title:  book.Title,
		Pages:  sections,
	}
}

func header(book *model.Book) string {
	var b strings.Builder
	b.WriteString(book.Title)
	if book.Subtitle != "" {
		b.WriteString("\n")
		b.WriteString(book.Subtitle)
	}
	return b.String()
}

func metadata(book *model.Book) string {
	var lines []string
	if len(book.Authors) > 0 {
		lines = append(lines, "By "+strings.Join(book.Authors, ", "))
	}
	if book.PublishedDate != "" {
		lines = append(lines, "Published "+book.PublishedDate)
	}
	if book.Publisher != "" {
		lines = append(lines, "Publisher: "+book.Publisher)
	}
	if len(book.Categories) > 0 {
		lines = append(lines, "Categories: "+strings.Join(book.Categories, ", "))
	}
	if book.PageCount > 0 {
		lines = append(lines, fmt.Sprintf("%d pages", book.PageCount))
	}
	return strings.Join(lines, "\n")
}

// description strips markup from the catalog description and caps its
// length. Truncation happens on a paragraph boundary so a page never ends
// mid-sentence.
func description(book *model.Book) string {
	text := stripHTML(book.Description)
	if text == "" {
		return ""
	}
	if len(text) <= maxContentLength {
		return text
	}

	truncated := text[:maxContentLength]
	if cut := strings.LastIndex(truncated, "\n\n"); cut > 0 {
		truncated = truncated[:cut]
	}
	return strings.TrimSpace(truncated) + "..."
}

func links(book *model.Book) string {
	var lines []string
	if book.PreviewLink != "" {
		lines = append(lines, "Preview: "+book.PreviewLink)
	}
	if book.InfoLink != "" {
		lines = append(lines, "More info: "+book.InfoLink)
	}
	return strings.Join(lines, "\n")
}

// stripHTML removes tags and normalizes the common entities the catalog
// emits, then collapses runs of blank lines.
func stripHTML(s string) string {
	if s == "" {
		return ""
	}

	// Block-level tags become paragraph breaks before everything is dropped.
	replacer := strings.NewReplacer(
		"<br>", "\n", "<br/>", "\n", "<br />", "\n",
		"</p>", "\n\n", "</div>", "\n\n",
	)
	s = replacer.Replace(s)
	s = htmlTagPattern.ReplaceAllString(s, "")

	s = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	).Replace(s)

	s = blankLinesPattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func splitParagraphs(text string) []string {
	var pages []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			pages = append(pages, p)
		}
	}
	return pages
}
