package toast

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowDefaultsToSuccess(t *testing.T) {
	q := NewQueue()
	defer q.Close()

	toast := q.Show("Note saved successfully", "")
	assert.Equal(t, Success, toast.Kind)
	assert.Equal(t, []Toast{toast}, q.Active())
}

func TestAutoDismiss(t *testing.T) {
	q := NewQueue(WithDuration(20 * time.Millisecond))
	defer q.Close()

	q.Show("one", Info)
	q.Show("two", Error)
	require.Len(t, q.Active(), 2)
	assert.Equal(t, "one", q.Active()[0].Message)

	require.Eventually(t, func() bool { return len(q.Active()) == 0 }, time.Second, 5*time.Millisecond)
}

func TestDismissStopsTimer(t *testing.T) {
	q := NewQueue(WithDuration(time.Hour))
	defer q.Close()

	a := q.Show("a", Success)
	b := q.Show("b", Success)

	assert.True(t, q.Dismiss(a.ID))
	assert.False(t, q.Dismiss(a.ID))
	assert.Equal(t, []Toast{b}, q.Active())

	q.mu.Lock()
	_, pending := q.timers[a.ID]
	q.mu.Unlock()
	assert.False(t, pending)
}

func TestSubscribe(t *testing.T) {
	q := NewQueue(WithDuration(time.Hour))
	defer q.Close()

	var (
		mu   sync.Mutex
		seen [][]Toast
	)
	unsubscribe := q.Subscribe(func(active []Toast) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, active)
	})

	a := q.Show("a", Info)
	q.Dismiss(a.ID)
	unsubscribe()
	q.Show("b", Info)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.Equal(t, []Toast{a}, seen[0])
	assert.Empty(t, seen[1])
}

func TestClose(t *testing.T) {
	q := NewQueue(WithDuration(10 * time.Millisecond))
	q.Show("a", Info)
	q.Close()

	assert.Empty(t, q.Active())
	q.Show("after close", Info)
	assert.Empty(t, q.Active())
}

func TestKindColor(t *testing.T) {
	assert.Equal(t, "#10B981", Success.Color())
	assert.Equal(t, "#EF4444", Error.Color())
	assert.Equal(t, "#3B82F6", Info.Color())
	assert.Equal(t, "#10B981", Kind("").Color())
}
