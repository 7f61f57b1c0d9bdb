package notes

import "strings"

// Filter keeps notes whose title contains query, ignoring case. Content is
// not searched. An empty query keeps everything in order.
func Filter(notes []Note, query string) []Note {
	if query == "" {
		out := make([]Note, len(notes))
		copy(out, notes)
		return out
	}

	q := strings.ToLower(query)
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		if strings.Contains(strings.ToLower(n.Title), q) {
			out = append(out, n)
		}
	}
	return out
}
