// Package readtime estimates how long a note takes to read.
package readtime

import (
	"strconv"
	"strings"
	"unicode"
)

// DefaultWordsPerMinute is used when a non-positive rate is given.
const DefaultWordsPerMinute = 20

// LessThanAMinute labels text with no words.
const LessThanAMinute = "Less than a minute"

type Result struct {
	Minutes int
	Words   int
	Label   string
}

// Estimate joins title and content with a space and counts whitespace
// separated words, where IsSpace decides what whitespace is. Any non-empty
// text reads in at least one minute.
func Estimate(title, content string, wordsPerMinute int) Result {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}

	words := len(strings.FieldsFunc(title+" "+content, IsSpace))
	if words == 0 {
		return Result{Label: LessThanAMinute}
	}

	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}

	return Result{
		Minutes: minutes,
		Words:   words,
		Label:   strconv.Itoa(minutes) + " min read",
	}
}

// IsSpace reports Unicode white space, plus the byte order mark.
func IsSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}
