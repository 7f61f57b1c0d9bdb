// Package notes holds the signed in user's notes.
//
// Store is the single source of truth for the note list. It fetches the
// whole list when the session identity changes, and applies the backend's
// answer to every create, update and delete to its cache with the reducers
// in this package. Mutations are not ordered against each other: whichever
// response arrives last is what the cache shows.
package notes

import (
	"context"
	"sync"

	"github.com/jotter/jotter/pkg/logger"
	"github.com/jotter/jotter/pkg/session"
)

// Messages stored when a backend error carries no text of its own.
const (
	FetchFailed  = "Failed to fetch notes. Please check your connection."
	CreateFailed = "Failed to create note"
	UpdateFailed = "Failed to update note"
	DeleteFailed = "Failed to delete note"
)

// Identity is the part of the session provider the store follows.
type Identity interface {
	State() session.State
	Subscribe(fn session.Listener) func()
}

type Store struct {
	backend Backend
	logger  logger.Logger

	mu      sync.RWMutex
	userID  string
	notes   []Note
	loading bool
	err     string
}

type Option func(*Store)

func WithLogger(l logger.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore returns an empty store that reports loading until its first
// fetch settles.
func NewStore(b Backend, opts ...Option) *Store {
	s := &Store{
		backend: b,
		logger:  logger.Nop(),
		notes:   []Note{},
		loading: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bind follows id: the store fetches once now and again after every
// identity change. The returned func stops following.
func (s *Store) Bind(ctx context.Context, id Identity) func() {
	unsubscribe := id.Subscribe(func(ctx context.Context, u *session.User) {
		s.SetUser(userIDOf(u))
		_ = s.Fetch(ctx)
	})

	s.SetUser(userIDOf(id.State().User))
	_ = s.Fetch(ctx)

	return unsubscribe
}

// SetUser sets whose notes the store holds. An empty id means signed out.
// The cache is left alone until the next Fetch.
func (s *Store) SetUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
}

func (s *Store) currentUser() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Notes returns a copy of the cache, most recently updated first as of the
// last fetch.
func (s *Store) Notes() []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Note, len(s.notes))
	copy(out, s.notes)
	return out
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the message of the last failed operation, or "".
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Get returns the cached note with id.
func (s *Store) Get(id string) (Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.notes {
		if n.ID == id {
			return n, true
		}
	}
	return Note{}, false
}

// Search filters the current cache by title.
func (s *Store) Search(query string) []Note {
	return Filter(s.Notes(), query)
}

// Fetch replaces the cache with the backend's rows. Signed out, it empties
// the cache without calling the backend. A failure empties the cache too.
func (s *Store) Fetch(ctx context.Context) error {
	if s.currentUser() == "" {
		s.mu.Lock()
		s.notes = []Note{}
		s.err = ""
		s.loading = false
		s.mu.Unlock()
		return nil
	}

	notes, err := s.backend.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.notes = []Note{}
		s.err = message(err, FetchFailed)
		s.logger.Warn("fetch notes failed", "error", err)
		return err
	}
	if notes == nil {
		notes = []Note{}
	}
	s.notes = notes
	s.err = ""
	return nil
}

// Refetch is Fetch, for retry affordances.
func (s *Store) Refetch(ctx context.Context) error {
	return s.Fetch(ctx)
}

// Create stores a new note and puts it at the head of the cache. Signed
// out, it does nothing and returns a nil note and a nil error.
func (s *Store) Create(ctx context.Context, title, content string) (*Note, error) {
	if s.currentUser() == "" {
		return nil, nil
	}

	n, err := s.backend.Create(ctx, Draft{Title: title, Content: content})
	if err != nil {
		s.fail(err, CreateFailed, "create note failed")
		return nil, err
	}

	s.mu.Lock()
	s.notes = Prepend(s.notes, *n)
	s.err = ""
	s.mu.Unlock()
	return n, nil
}

// Update replaces a note's title and content. The cache entry is swapped
// in place; the list is not reordered.
func (s *Store) Update(ctx context.Context, id, title, content string) (*Note, error) {
	if s.currentUser() == "" {
		return nil, nil
	}

	n, err := s.backend.Update(ctx, id, Draft{Title: title, Content: content})
	if err != nil {
		s.fail(err, UpdateFailed, "update note failed", "id", id)
		return nil, err
	}

	s.mu.Lock()
	s.notes = ReplaceByID(s.notes, *n)
	s.err = ""
	s.mu.Unlock()
	return n, nil
}

// Delete removes a note. On failure the cache keeps it.
func (s *Store) Delete(ctx context.Context, id string) error {
	if s.currentUser() == "" {
		return nil
	}

	if err := s.backend.Delete(ctx, id); err != nil {
		s.fail(err, DeleteFailed, "delete note failed", "id", id)
		return err
	}

	s.mu.Lock()
	s.notes = RemoveByID(s.notes, id)
	s.err = ""
	s.mu.Unlock()
	return nil
}

func (s *Store) fail(err error, fallback, logMsg string, args ...any) {
	s.mu.Lock()
	s.err = message(err, fallback)
	s.mu.Unlock()
	s.logger.Warn(logMsg, append(args, "error", err)...)
}

func message(err error, fallback string) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

func userIDOf(u *session.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
