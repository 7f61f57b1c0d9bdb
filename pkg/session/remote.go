package session

import (
	"context"
	"errors"

	"github.com/jotter/jotter"
)

// Remote adapts a backend connection to Auth.
type Remote struct {
	db *jotter.DB
}

func NewRemote(db *jotter.DB) *Remote {
	return &Remote{db: db}
}

func (r *Remote) SignUp(ctx context.Context, email, password string) (string, error) {
	return r.db.SignUp(ctx, jotter.Auth{Email: email, Password: password})
}

func (r *Remote) SignIn(ctx context.Context, email, password string) (string, error) {
	return r.db.SignIn(ctx, jotter.Auth{Email: email, Password: password})
}

func (r *Remote) Authenticate(ctx context.Context, token string) error {
	return r.db.Authenticate(ctx, token)
}

func (r *Remote) Invalidate(ctx context.Context) error {
	return r.db.Invalidate(ctx)
}

func (r *Remote) Info(ctx context.Context) (*User, error) {
	u, err := jotter.Info[User](ctx, r.db)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errors.New("backend returned no account")
	}
	return u, nil
}
