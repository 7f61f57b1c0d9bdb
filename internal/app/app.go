// Package app wires the client together. An App is opened once per run
// and handed to whatever needs the session, the notes or the toasts.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jotter/jotter"
	"github.com/jotter/jotter/internal/config"
	"github.com/jotter/jotter/pkg/logger"
	"github.com/jotter/jotter/pkg/notes"
	"github.com/jotter/jotter/pkg/session"
	"github.com/jotter/jotter/pkg/toast"
)

var ErrNotSignedIn = errors.New("not signed in")

type App struct {
	Config  *config.Config
	Logger  logger.Logger
	DB      *jotter.DB
	Session *session.Provider
	Notes   *notes.Store
	Toasts  *toast.Queue

	closeLog func() error
	unbind   func()
}

type Options struct {
	// LogWriter receives logs when the config names no log file. Defaults
	// to stderr.
	LogWriter io.Writer
	// Console selects zerolog's human readable output.
	Console bool
	// Tokens overrides the session file from the config.
	Tokens session.TokenStore
}

// Open connects to the backend and resumes the stored session.
func Open(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	log, closeLog, err := logger.Open(logger.Options{
		Format:  cfg.LogFormat,
		Level:   cfg.LogLevel,
		Path:    cfg.LogFile,
		Writer:  opts.LogWriter,
		Console: opts.Console,
	})
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	db, err := jotter.Connect(ctx, cfg.Endpoint,
		jotter.WithLogger(log),
		jotter.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	tokens := opts.Tokens
	if tokens == nil {
		tokens = session.FileTokenStore{Path: cfg.SessionFile}
	}

	a := &App{
		Config:   cfg,
		Logger:   log,
		DB:       db,
		Session:  session.NewProvider(session.NewRemote(db), tokens, session.WithLogger(log)),
		Notes:    notes.NewStore(notes.NewRemote(db), notes.WithLogger(log)),
		Toasts:   toast.NewQueue(toast.WithDuration(cfg.ToastDuration)),
		closeLog: closeLog,
	}
	a.unbind = a.Notes.Bind(ctx, a.Session)

	if err := a.Session.Restore(ctx); err != nil {
		log.Warn("could not restore session", "error", err)
	}

	return a, nil
}

// User returns the signed in user or ErrNotSignedIn.
func (a *App) User() (*session.User, error) {
	u := a.Session.State().User
	if u == nil {
		return nil, ErrNotSignedIn
	}
	return u, nil
}

// Close releases everything Open acquired.
func (a *App) Close(ctx context.Context) error {
	a.unbind()
	a.Toasts.Close()

	var errs []error
	if err := a.DB.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("close connection: %w", err))
	}
	if err := a.closeLog(); err != nil {
		errs = append(errs, fmt.Errorf("close log: %w", err))
	}
	return errors.Join(errs...)
}
