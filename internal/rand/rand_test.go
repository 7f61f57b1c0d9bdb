package rand

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jotter/jotter/pkg/constants"
)

func TestString(t *testing.T) {
	for _, n := range []int{0, 1, 7, 8, 9, constants.RequestIDLength, 33} {
		s := String(n)
		require.Len(t, s, n)
		for _, r := range s {
			assert.True(t, strings.ContainsRune(charset, r), "unexpected rune %q", r)
		}
	}
}

func TestStringIsNotConstant(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		seen[String(constants.RequestIDLength)] = struct{}{}
	}
	assert.Greater(t, len(seen), 90)
}

func BenchmarkString(b *testing.B) {
	for i := 0; i < b.N; i++ {
		String(constants.RequestIDLength)
	}
}
