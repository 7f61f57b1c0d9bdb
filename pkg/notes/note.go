package notes

import (
	"strings"

	"github.com/jotter/jotter/pkg/models"
	"github.com/jotter/jotter/pkg/readtime"
)

const (
	UntitledTitle = "Untitled"
	NoContent     = "No content"
)

// Note is a row of the notes table.
type Note struct {
	ID        string                `json:"id"`
	Title     string                `json:"title"`
	Content   *string               `json:"content"`
	CreatedAt models.CustomDateTime `json:"created_at"`
	UpdatedAt models.CustomDateTime `json:"updated_at"`
	UserID    string                `json:"user_id"`
}

// Text returns the content, or "" when it is null.
func (n Note) Text() string {
	if n.Content == nil {
		return ""
	}
	return *n.Content
}

// DisplayTitle falls back to "Untitled".
func (n Note) DisplayTitle() string {
	if n.Title == "" {
		return UntitledTitle
	}
	return n.Title
}

// Preview returns the first line of content cut to width runes, or
// "No content".
func (n Note) Preview(width int) string {
	text := strings.TrimSpace(n.Text())
	if text == "" {
		return NoContent
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = strings.TrimSpace(text[:i]) + " …"
	}
	if r := []rune(text); width > 0 && len(r) > width {
		text = string(r[:width-1]) + "…"
	}
	return text
}

func (n Note) ReadTime(wordsPerMinute int) readtime.Result {
	return readtime.Estimate(n.Title, n.Text(), wordsPerMinute)
}
