// Package toast queues short-lived notifications.
//
// Every toast dismisses itself when its display duration runs out. There is
// no shared "visible" flag: a toast is visible while it is in Active.
package toast

import (
	"sync"
	"time"
)

// DefaultDuration is how long a toast stays up.
const DefaultDuration = 3 * time.Second

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Info    Kind = "info"
)

// Color is the background colour of the kind as a hex string.
func (k Kind) Color() string {
	switch k {
	case Error:
		return "#EF4444"
	case Info:
		return "#3B82F6"
	default:
		return "#10B981"
	}
}

type Toast struct {
	ID      int
	Message string
	Kind    Kind
	ShownAt time.Time
}

// Listener receives the active toasts after each change.
type Listener func(active []Toast)

type Queue struct {
	duration time.Duration

	mu        sync.Mutex
	nextID    int
	active    []Toast
	timers    map[int]*time.Timer
	listeners map[int]Listener
	nextSub   int
	closed    bool
}

type Option func(*Queue)

// WithDuration sets the display duration. Non-positive values keep the
// default.
func WithDuration(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.duration = d
		}
	}
}

func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		duration:  DefaultDuration,
		timers:    make(map[int]*time.Timer),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Show enqueues a toast and schedules its dismissal. An empty kind means
// Success. After Close, Show returns the toast without queueing it.
func (q *Queue) Show(message string, kind Kind) Toast {
	if kind == "" {
		kind = Success
	}

	q.mu.Lock()
	q.nextID++
	t := Toast{ID: q.nextID, Message: message, Kind: kind, ShownAt: time.Now()}
	if q.closed {
		q.mu.Unlock()
		return t
	}
	q.active = append(q.active, t)
	id := t.ID
	q.timers[id] = time.AfterFunc(q.duration, func() { q.Dismiss(id) })
	q.mu.Unlock()

	q.notify()
	return t
}

// Dismiss removes a toast before its time and stops its timer. It reports
// whether the toast was still active.
func (q *Queue) Dismiss(id int) bool {
	q.mu.Lock()
	idx := -1
	for i, t := range q.active {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		q.mu.Unlock()
		return false
	}
	q.active = append(q.active[:idx], q.active[idx+1:]...)
	if timer, ok := q.timers[id]; ok {
		timer.Stop()
		delete(q.timers, id)
	}
	q.mu.Unlock()

	q.notify()
	return true
}

// Active returns the visible toasts, oldest first.
func (q *Queue) Active() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Toast, len(q.active))
	copy(out, q.active)
	return out
}

// Subscribe registers fn and returns a func that removes it.
func (q *Queue) Subscribe(fn Listener) func() {
	q.mu.Lock()
	defer q.mu.Unlock()

	id := q.nextSub
	q.nextSub++
	q.listeners[id] = fn

	return func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		delete(q.listeners, id)
	}
}

// Close stops every timer and drops the active toasts. Listeners are not
// notified.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for id, timer := range q.timers {
		timer.Stop()
		delete(q.timers, id)
	}
	q.active = nil
	q.closed = true
}

func (q *Queue) notify() {
	q.mu.Lock()
	active := make([]Toast, len(q.active))
	copy(active, q.active)
	listeners := make([]Listener, 0, len(q.listeners))
	for _, fn := range q.listeners {
		listeners = append(listeners, fn)
	}
	q.mu.Unlock()

	for _, fn := range listeners {
		fn(active)
	}
}
