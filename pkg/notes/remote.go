package notes

import (
	"context"

	"github.com/jotter/jotter"
	"github.com/jotter/jotter/pkg/constants"
	"github.com/jotter/jotter/pkg/models"
)

// Backend is the remote notes table, already scoped to the signed in user.
type Backend interface {
	// List returns the rows ordered by updated_at, newest first.
	List(ctx context.Context) ([]Note, error)
	Create(ctx context.Context, d Draft) (*Note, error)
	Update(ctx context.Context, id string, d Draft) (*Note, error)
	Delete(ctx context.Context, id string) error
}

// Remote talks to the notes table through a backend connection.
type Remote struct {
	db *jotter.DB
}

func NewRemote(db *jotter.DB) *Remote {
	return &Remote{db: db}
}

func (r *Remote) List(ctx context.Context) ([]Note, error) {
	return jotter.Select[Note](ctx, r.db, constants.NotesTable, jotter.OrderBy("updated_at", true))
}

func (r *Remote) Create(ctx context.Context, d Draft) (*Note, error) {
	n, err := jotter.Create[Note](ctx, r.db, constants.NotesTable, d)
	if err == nil && n == nil {
		err = constants.ErrNoRow
	}
	return n, err
}

func (r *Remote) Update(ctx context.Context, id string, d Draft) (*Note, error) {
	n, err := jotter.Update[Note](ctx, r.db, models.NewRecordID(constants.NotesTable, id), d)
	if err == nil && n == nil {
		err = constants.ErrNoRow
	}
	return n, err
}

func (r *Remote) Delete(ctx context.Context, id string) error {
	return jotter.Delete(ctx, r.db, models.NewRecordID(constants.NotesTable, id))
}
