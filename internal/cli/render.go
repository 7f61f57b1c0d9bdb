package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jotter/jotter/pkg/notes"
	"github.com/jotter/jotter/pkg/toast"
)

const (
	previewWidth = 72
	dateFormat   = "Jan 02, 2006"
)

var toastIcons = map[toast.Kind]string{
	toast.Success: "✓",
	toast.Error:   "!",
	toast.Info:    "i",
}

type styles struct {
	r     *lipgloss.Renderer
	title lipgloss.Style
	faint lipgloss.Style
	meta  lipgloss.Style
	hint  lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		r:     r,
		title: r.NewStyle().Bold(true),
		faint: r.NewStyle().Faint(true),
		meta:  r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		hint:  r.NewStyle().Italic(true),
	}
}

func (s styles) toast(t toast.Toast) string {
	return s.r.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(t.Kind.Color())).
		Padding(0, 1).
		Render(toastIcons[t.Kind] + " " + t.Message)
}

// card renders a note the way the list shows it.
func (s styles) card(n notes.Note, wpm int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", s.title.Render(n.DisplayTitle()), s.faint.Render(n.ID))
	fmt.Fprintf(&b, "  %s\n", n.Preview(previewWidth))
	fmt.Fprintf(&b, "  %s", s.meta.Render(updated(n)+" · "+n.ReadTime(wpm).Label))
	return b.String()
}

func (s styles) detail(n notes.Note, wpm int) string {
	var b strings.Builder
	fmt.Fprintln(&b, s.title.Render(n.DisplayTitle()))
	fmt.Fprintln(&b, s.meta.Render(fmt.Sprintf("Created %s · %s · %s",
		n.CreatedAt.Format(dateFormat), updated(n), n.ReadTime(wpm).Label)))
	fmt.Fprintln(&b)
	if text := n.Text(); text != "" {
		fmt.Fprint(&b, text)
	} else {
		fmt.Fprint(&b, s.faint.Render(notes.NoContent))
	}
	return b.String()
}

func (s styles) emptyState() string {
	return s.title.Render("No notes yet") + "\n" +
		"Create your first note to start capturing your thoughts and ideas.\n" +
		s.hint.Render("Run `jotter new` to create one.")
}

func updated(n notes.Note) string {
	if n.UpdatedAt.IsZero() {
		return "never updated"
	}
	return "updated " + humanize.Time(n.UpdatedAt.Time)
}
