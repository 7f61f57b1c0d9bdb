package notes

import (
	"errors"
	"strings"

	"github.com/jotter/jotter/pkg/readtime"
)

// ErrEmptyDraft is returned by PrepareDraft when there is nothing to save.
var ErrEmptyDraft = errors.New("note has no title and no content")

// Draft is what the editor sends to the backend.
type Draft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// PrepareDraft refuses a draft whose title and content are both blank and
// names an untitled one "Untitled".
func PrepareDraft(title, content string) (Draft, error) {
	if blank(title) && blank(content) {
		return Draft{}, ErrEmptyDraft
	}
	if title == "" {
		title = UntitledTitle
	}
	return Draft{Title: title, Content: content}, nil
}

func blank(s string) bool {
	return strings.TrimFunc(s, readtime.IsSpace) == ""
}
