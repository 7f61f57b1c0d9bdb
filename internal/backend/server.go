// Package backend is the jotter development backend. It serves the same RPC
// contract the client SDK speaks, over WebSocket and HTTP, using CBOR
// encoding.
//
// Users sign up and in with an email and password; the backend hands out
// HS256 tokens. Notes are scoped to their owner: a signed in user can never
// see or touch another user's rows.
//
// The server doubles as a test fixture. Stubs can fail or delay any method,
// and call counters tell how often a method was received.
package backend

import (
	"context"
	cryptorand "crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	gorilla "github.com/gorilla/websocket"
	"golang.org/x/crypto/bcrypt"

	"github.com/jotter/jotter/internal/codec"
	"github.com/jotter/jotter/pkg/logger"
	"github.com/jotter/jotter/pkg/models"
)

// DefaultTokenTTL is how long issued tokens stay valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Options configures a Server.
type Options struct {
	// Store defaults to a MemoryStore.
	Store Store
	// Secret signs tokens. A random secret is generated when empty, which
	// invalidates every token on restart.
	Secret []byte
	// TokenTTL defaults to DefaultTokenTTL.
	TokenTTL time.Duration
	// HashCost is the bcrypt cost. Defaults to bcrypt.DefaultCost.
	HashCost int
	Logger   logger.Logger
}

// Server is the backend. It is an http.Handler; Start and Stop run it on a
// listener of its own.
type Server struct {
	store    Store
	tokens   tokenIssuer
	hashCost int
	codec    codec.Codec
	logger   logger.Logger
	router   chi.Router
	upgrader gorilla.Upgrader

	mu    sync.RWMutex
	stubs []*Stub
	calls map[string]int
	conns map[*gorilla.Conn]struct{}

	httpServer *http.Server
	listener   net.Listener
}

func New(opts Options) *Server {
	if opts.Store == nil {
		opts.Store = NewMemoryStore()
	}
	if len(opts.Secret) == 0 {
		opts.Secret = make([]byte, 32)
		if _, err := cryptorand.Read(opts.Secret); err != nil {
			panic(err)
		}
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = DefaultTokenTTL
	}
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	s := &Server{
		store:    opts.Store,
		tokens:   tokenIssuer{secret: opts.Secret, ttl: opts.TokenTTL},
		hashCost: opts.HashCost,
		codec:    models.NewCbor(),
		logger:   opts.Logger,
		upgrader: gorilla.Upgrader{
			Subprotocols:      []string{"cbor"},
			EnableCompression: true,
			CheckOrigin:       func(*http.Request) bool { return true },
		},
		calls: make(map[string]int),
		conns: make(map[*gorilla.Conn]struct{}),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", s.handleHealth)
	r.Get("/rpc", s.handleWebSocket)
	r.Post("/rpc", s.handleHTTP)
	s.router = r

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Start listens on addr and serves in the background. Use "127.0.0.1:0"
// to bind to a random port and Address to find it.
func (s *Server) Start(addr string) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return err
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server stopped", "error", err)
		}
	}()

	s.logger.Info("backend listening", "addr", listener.Addr().String())
	return nil
}

// Stop shuts the HTTP server down, drops open WebSocket connections and
// closes the store.
func (s *Server) Stop(ctx context.Context) error {
	var errs []error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown: %w", err))
		}
	}

	s.mu.Lock()
	for c := range s.conns {
		_ = c.Close()
	}
	s.conns = make(map[*gorilla.Conn]struct{})
	s.mu.Unlock()

	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return errors.Join(errs...)
}

// Address returns the address the server listens on.
func (s *Server) Address() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
