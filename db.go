package jotter

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jotter/jotter/pkg/connection"
	"github.com/jotter/jotter/pkg/logger"
)

// DB is a connection to the backend plus the typed calls it understands.
type DB struct {
	con    connection.Connection
	logger logger.Logger
}

// Auth carries credentials for SignUp and SignIn.
type Auth struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type options struct {
	logger  logger.Logger
	timeout time.Duration
}

type Option func(*options)

// WithLogger sets the logger used by the connection engine.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTimeout bounds every call. Zero keeps the engine default.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// Connect opens a connection to endpoint, choosing the engine from its scheme.
func Connect(ctx context.Context, endpoint string, opts ...Option) (*DB, error) {
	o := options{logger: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	u, err := url.ParseRequestURI(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}

	con, err := connection.New(u, o.logger)
	if err != nil {
		return nil, err
	}

	if o.timeout > 0 {
		switch c := con.(type) {
		case *connection.WebSocketConnection:
			c.SetTimeOut(o.timeout)
		case *connection.HTTPConnection:
			c.SetTimeout(o.timeout)
		}
	}

	if err := con.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", endpoint, err)
	}

	return &DB{con: con, logger: o.logger}, nil
}

// FromConnection wraps an already connected engine. WithTimeout does not
// apply; configure the engine before connecting it.
func FromConnection(con connection.Connection, opts ...Option) *DB {
	o := options{logger: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &DB{con: con, logger: o.logger}
}

// Close closes the underlying connection.
func (db *DB) Close(ctx context.Context) error {
	if err := db.con.Close(ctx); err != nil {
		db.logger.Warn("close connection failed", "error", err)
		return err
	}
	return nil
}

// SignUp creates an account and signs it in. It returns the session token.
func (db *DB) SignUp(ctx context.Context, auth Auth) (string, error) {
	var token string
	if err := db.con.Send(ctx, &token, string(connection.SignUp), auth); err != nil {
		return "", err
	}
	return token, nil
}

// SignIn signs an existing account in. It returns the session token.
func (db *DB) SignIn(ctx context.Context, auth Auth) (string, error) {
	var token string
	if err := db.con.Send(ctx, &token, string(connection.SignIn), auth); err != nil {
		return "", err
	}
	return token, nil
}

// Authenticate resumes the session identified by token.
func (db *DB) Authenticate(ctx context.Context, token string) error {
	return db.con.Send(ctx, nil, string(connection.Authenticate), token)
}

// Invalidate ends the current session.
func (db *DB) Invalidate(ctx context.Context) error {
	return db.con.Send(ctx, nil, string(connection.Invalidate))
}
