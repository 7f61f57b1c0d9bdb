package notes_test

import (
	"fmt"

	"github.com/jotter/jotter/pkg/notes"
)

func ExampleFilter() {
	cache := []notes.Note{
		{ID: "1", Title: "Groceries"},
		{ID: "2", Title: "Work plan"},
	}

	for _, n := range notes.Filter(cache, "work") {
		fmt.Println(n.Title)
	}
	// Output: Work plan
}

func ExamplePrepareDraft() {
	d, err := notes.PrepareDraft("", "call the plumber")
	fmt.Println(d.Title, err)

	_, err = notes.PrepareDraft(" ", "")
	fmt.Println(err)
	// Output:
	// Untitled <nil>
	// note has no title and no content
}
