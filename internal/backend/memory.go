package backend

import (
	"context"
	"strings"
	"sync"

	"github.com/jotter/jotter/pkg/models"
)

// MemoryStore keeps everything in maps. Notes are listed in insertion order
// unless an order is given.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[string]User
	emails map[string]string
	notes  map[string]Note
	seq    []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[string]User),
		emails: make(map[string]string),
		notes:  make(map[string]Note),
	}
}

func (m *MemoryStore) CreateUser(_ context.Context, u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, ok := m.emails[key]; ok {
		return ErrConflict
	}
	m.users[u.ID] = u
	m.emails[key] = u.ID
	return nil
}

func (m *MemoryStore) UserByEmail(_ context.Context, email string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.emails[strings.ToLower(email)]
	if !ok {
		return User{}, ErrNotFound
	}
	return m.users[id], nil
}

func (m *MemoryStore) UserByID(_ context.Context, id string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (m *MemoryStore) ListNotes(_ context.Context, owner string, order []models.Order) ([]Note, error) {
	if err := validateOrder(order); err != nil {
		return nil, err
	}

	m.mu.RLock()
	notes := make([]Note, 0, len(m.seq))
	for _, id := range m.seq {
		if n := m.notes[id]; n.UserID == owner {
			notes = append(notes, n)
		}
	}
	m.mu.RUnlock()

	sortNotes(notes, order)
	return notes, nil
}

func (m *MemoryStore) GetNote(_ context.Context, owner, id string) (Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.notes[id]
	if !ok || n.UserID != owner {
		return Note{}, ErrNotFound
	}
	return n, nil
}

func (m *MemoryStore) InsertNote(_ context.Context, n Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.notes[n.ID]; ok {
		return ErrConflict
	}
	m.notes[n.ID] = n
	m.seq = append(m.seq, n.ID)
	return nil
}

func (m *MemoryStore) UpdateNote(_ context.Context, n Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.notes[n.ID]
	if !ok || cur.UserID != n.UserID {
		return ErrNotFound
	}
	m.notes[n.ID] = n
	return nil
}

func (m *MemoryStore) DeleteNote(_ context.Context, owner, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.notes[id]
	if !ok || cur.UserID != owner {
		return ErrNotFound
	}
	delete(m.notes, id)
	for i, sid := range m.seq {
		if sid == id {
			m.seq = append(m.seq[:i], m.seq[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryStore) Close() error { return nil }
