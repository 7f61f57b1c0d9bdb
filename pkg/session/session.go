// Package session tracks who is signed in.
//
// A Provider owns the current user and a loading flag that is set while the
// identity is being resolved. Other components read it through State and
// react to identity changes through Subscribe. The token handed out by the
// backend is persisted in a TokenStore so that Restore can resume the
// session later.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/jotter/jotter/pkg/logger"
	"github.com/jotter/jotter/pkg/models"
)

// User is the signed in account.
type User struct {
	ID        string                `json:"id"`
	Email     string                `json:"email"`
	CreatedAt models.CustomDateTime `json:"created_at"`
}

// State is a snapshot of the provider.
type State struct {
	User    *User
	Loading bool
}

// Authenticated reports whether a user is signed in.
func (s State) Authenticated() bool {
	return s.User != nil
}

// Auth is the backend's authentication surface.
type Auth interface {
	SignUp(ctx context.Context, email, password string) (string, error)
	SignIn(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, token string) error
	Invalidate(ctx context.Context) error
	Info(ctx context.Context) (*User, error)
}

// Listener is called after the signed in identity changed. user is nil
// after a sign out.
type Listener func(ctx context.Context, user *User)

type Provider struct {
	auth   Auth
	tokens TokenStore
	logger logger.Logger

	mu      sync.RWMutex
	user    *User
	loading bool

	subsMu    sync.Mutex
	listeners map[int]Listener
	nextID    int
}

type Option func(*Provider)

func WithLogger(l logger.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

// NewProvider returns a provider that is loading until Restore, SignIn or
// SignUp settles. A nil token store keeps tokens in memory.
func NewProvider(auth Auth, tokens TokenStore, opts ...Option) *Provider {
	if tokens == nil {
		tokens = &MemoryTokenStore{}
	}
	p := &Provider{
		auth:      auth,
		tokens:    tokens,
		logger:    logger.Nop(),
		loading:   true,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return State{User: p.user, Loading: p.loading}
}

// Subscribe registers fn and returns a func that removes it. Listeners run
// synchronously, in no particular order, on the goroutine that changed the
// identity.
func (p *Provider) Subscribe(fn Listener) func() {
	p.subsMu.Lock()
	defer p.subsMu.Unlock()

	id := p.nextID
	p.nextID++
	p.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			p.subsMu.Lock()
			defer p.subsMu.Unlock()
			delete(p.listeners, id)
		})
	}
}

// Restore resumes the session of the persisted token. A token the backend
// rejects is dropped and leaves the provider signed out; that is not an
// error.
func (p *Provider) Restore(ctx context.Context) error {
	p.setLoading(true)
	defer p.setLoading(false)

	token, err := p.tokens.Load()
	if err != nil {
		p.setUser(ctx, nil)
		return fmt.Errorf("load token: %w", err)
	}
	if token == "" {
		p.setUser(ctx, nil)
		return nil
	}

	user, err := p.resume(ctx, token)
	if err != nil {
		p.logger.Info("stored session rejected", "error", err)
		if clearErr := p.tokens.Clear(); clearErr != nil {
			p.logger.Warn("failed to clear token", "error", clearErr)
		}
		p.setUser(ctx, nil)
		return nil
	}

	p.setUser(ctx, user)
	return nil
}

func (p *Provider) resume(ctx context.Context, token string) (*User, error) {
	if err := p.auth.Authenticate(ctx, token); err != nil {
		return nil, err
	}
	return p.auth.Info(ctx)
}

// SignUp creates an account and signs it in. Backend errors are returned
// as they are.
func (p *Provider) SignUp(ctx context.Context, email, password string) error {
	return p.establish(ctx, func() (string, error) {
		return p.auth.SignUp(ctx, email, password)
	})
}

// SignIn signs an existing account in.
func (p *Provider) SignIn(ctx context.Context, email, password string) error {
	return p.establish(ctx, func() (string, error) {
		return p.auth.SignIn(ctx, email, password)
	})
}

func (p *Provider) establish(ctx context.Context, obtain func() (string, error)) error {
	p.setLoading(true)
	defer p.setLoading(false)

	token, err := obtain()
	if err != nil {
		return err
	}

	user, err := p.auth.Info(ctx)
	if err != nil {
		return fmt.Errorf("fetch account: %w", err)
	}

	if err := p.tokens.Save(token); err != nil {
		p.logger.Warn("failed to persist token", "error", err)
	}

	p.setUser(ctx, user)
	return nil
}

// SignOut ends the backend session and forgets the token. The local state
// is cleared even when the backend cannot be reached.
func (p *Provider) SignOut(ctx context.Context) error {
	invalidateErr := p.auth.Invalidate(ctx)
	if err := p.tokens.Clear(); err != nil {
		p.logger.Warn("failed to clear token", "error", err)
	}
	p.setUser(ctx, nil)

	if invalidateErr != nil {
		return fmt.Errorf("invalidate session: %w", invalidateErr)
	}
	return nil
}

func (p *Provider) setLoading(loading bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = loading
}

// setUser stores user and notifies listeners when the identity changed.
func (p *Provider) setUser(ctx context.Context, user *User) {
	p.mu.Lock()
	changed := userID(p.user) != userID(user)
	p.user = user
	p.mu.Unlock()

	if !changed {
		return
	}

	p.subsMu.Lock()
	listeners := make([]Listener, 0, len(p.listeners))
	for _, fn := range p.listeners {
		listeners = append(listeners, fn)
	}
	p.subsMu.Unlock()

	for _, fn := range listeners {
		fn(ctx, user)
	}
}

func userID(u *User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
