package backend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jotter/jotter/pkg/models"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// User is a row of the users table. PasswordHash never leaves the backend.
type User struct {
	ID           string                `json:"id"`
	Email        string                `json:"email"`
	PasswordHash []byte                `json:"-"`
	CreatedAt    models.CustomDateTime `json:"created_at"`
}

// Note is a row of the notes table as it travels on the wire.
type Note struct {
	ID        string                `json:"id"`
	Title     string                `json:"title"`
	Content   *string               `json:"content"`
	CreatedAt models.CustomDateTime `json:"created_at"`
	UpdatedAt models.CustomDateTime `json:"updated_at"`
	UserID    string                `json:"user_id"`
}

// Store persists users and their notes. Every note operation is scoped to
// an owner: rows of other users behave as if they did not exist.
type Store interface {
	// CreateUser returns ErrConflict when the email is taken.
	CreateUser(ctx context.Context, u User) error
	UserByEmail(ctx context.Context, email string) (User, error)
	UserByID(ctx context.Context, id string) (User, error)

	ListNotes(ctx context.Context, owner string, order []models.Order) ([]Note, error)
	GetNote(ctx context.Context, owner, id string) (Note, error)
	InsertNote(ctx context.Context, n Note) error
	UpdateNote(ctx context.Context, n Note) error
	DeleteNote(ctx context.Context, owner, id string) error

	Close() error
}

var noteColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title",
}

func validateOrder(order []models.Order) error {
	for _, o := range order {
		if _, ok := noteColumns[o.Field]; !ok {
			return fmt.Errorf("cannot order by %q", o.Field)
		}
	}
	return nil
}

func sortNotes(notes []Note, order []models.Order) {
	if len(order) == 0 {
		return
	}
	sort.SliceStable(notes, func(i, j int) bool {
		for _, o := range order {
			c := compareNotes(notes[i], notes[j], o.Field)
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compareNotes(a, b Note, field string) int {
	switch field {
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt.Time)
	case "updated_at":
		return a.UpdatedAt.Compare(b.UpdatedAt.Time)
	case "title":
		return strings.Compare(a.Title, b.Title)
	}
	return 0
}
