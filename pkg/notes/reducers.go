package notes

// The reducers apply a backend response to a cached collection. They never
// modify their input.

// Prepend puts n in front of notes.
func Prepend(notes []Note, n Note) []Note {
	out := make([]Note, 0, len(notes)+1)
	out = append(out, n)
	return append(out, notes...)
}

// ReplaceByID swaps every entry with n's id for n, keeping positions.
func ReplaceByID(notes []Note, n Note) []Note {
	out := make([]Note, len(notes))
	for i, cur := range notes {
		if cur.ID == n.ID {
			out[i] = n
		} else {
			out[i] = cur
		}
	}
	return out
}

// RemoveByID drops every entry with the given id.
func RemoveByID(notes []Note, id string) []Note {
	out := make([]Note, 0, len(notes))
	for _, cur := range notes {
		if cur.ID != id {
			out = append(out, cur)
		}
	}
	return out
}
