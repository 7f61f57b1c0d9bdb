package backend

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"github.com/jotter/jotter/pkg/connection"
	"github.com/jotter/jotter/pkg/constants"
	"github.com/jotter/jotter/pkg/models"
)

// rpcRequest keeps params raw so each handler decodes them into its own
// types.
type rpcRequest struct {
	ID     any               `json:"id"`
	Method string            `json:"method,omitempty"`
	Params []cbor.RawMessage `json:"params,omitempty"`
}

// session is the authentication state of a WebSocket connection, or of a
// single HTTP request.
type session struct {
	mu     sync.RWMutex
	userID string
}

func (s *session) user() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *session) set(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type noteInput struct {
	Title   string  `json:"title"`
	Content *string `json:"content"`
}

var (
	errNotSignedIn       = &connection.RPCError{Code: connection.CodeUnauthorized, Message: "Not signed in"}
	errInvalidLogin      = &connection.RPCError{Code: connection.CodeUnauthorized, Message: "Invalid login credentials"}
	errInvalidAuthToken  = &connection.RPCError{Code: connection.CodeUnauthorized, Message: "Invalid token"}
	errAlreadyRegistered = &connection.RPCError{Code: connection.CodeConflict, Message: "User already registered"}
	errRecordNotFound    = &connection.RPCError{Code: connection.CodeNotFound, Message: "Record not found"}
)

func (s *Server) handle(ctx context.Context, sess *session, req *rpcRequest) (any, *connection.RPCError) {
	if stub, ok := s.matchStub(req.Method); ok {
		if stub.Delay > 0 {
			t := time.NewTimer(stub.Delay)
			select {
			case <-t.C:
			case <-ctx.Done():
				t.Stop()
				return nil, connection.NewRPCError(connection.CodeBackend, "%v", ctx.Err())
			}
		}
		if stub.Error != nil {
			return nil, stub.Error
		}
		if stub.Result != nil {
			return stub.Result, nil
		}
	}

	switch connection.RPCFunction(req.Method) {
	case connection.SignUp:
		return s.signUp(ctx, sess, req)
	case connection.SignIn:
		return s.signIn(ctx, sess, req)
	case connection.Authenticate:
		return s.authenticate(ctx, sess, req)
	case connection.Invalidate:
		sess.set("")
		return nil, nil
	case connection.Info:
		return s.info(ctx, sess)
	case connection.Select:
		return s.selectNotes(ctx, sess, req)
	case connection.Create:
		return s.createNote(ctx, sess, req)
	case connection.Update:
		return s.updateNote(ctx, sess, req)
	case connection.Delete:
		return s.deleteNote(ctx, sess, req)
	default:
		return nil, connection.NewRPCError(connection.CodeMethodNotFound, "Method not found: %s", req.Method)
	}
}

func (s *Server) param(req *rpcRequest, i int, dest any) *connection.RPCError {
	if i >= len(req.Params) {
		return connection.NewRPCError(connection.CodeInvalidParams, "%s: missing parameter %d", req.Method, i+1)
	}
	if err := s.codec.Unmarshal(req.Params[i], dest); err != nil {
		return connection.NewRPCError(connection.CodeInvalidParams, "%s: invalid parameter %d: %v", req.Method, i+1, err)
	}
	return nil
}

// storeError turns a Store failure into the error sent to the client.
func (s *Server) storeError(method string, err error) *connection.RPCError {
	if errors.Is(err, ErrNotFound) {
		return errRecordNotFound
	}
	s.logger.Error("store failure", "method", method, "error", err)
	return connection.NewRPCError(connection.CodeBackend, "There was a problem with the database: %v", err)
}

func (s *Server) signUp(ctx context.Context, sess *session, req *rpcRequest) (any, *connection.RPCError) {
	var creds credentials
	if err := s.param(req, 0, &creds); err != nil {
		return nil, err
	}

	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" {
		return nil, connection.NewRPCError(connection.CodeInvalidParams, "Email is required")
	}
	if utf8.RuneCountInString(creds.Password) < MinPasswordLength {
		return nil, connection.NewRPCError(connection.CodeInvalidParams,
			"Password should be at least %d characters", MinPasswordLength)
	}

	hash, err := hashPassword(creds.Password, s.hashCost)
	if err != nil {
		return nil, connection.NewRPCError(connection.CodeBackend, "%v", err)
	}

	u := User{
		ID:           uuid.NewString(),
		Email:        creds.Email,
		PasswordHash: hash,
		CreatedAt:    models.Now(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, errAlreadyRegistered
		}
		return nil, s.storeError(req.Method, err)
	}

	token, err := s.tokens.issue(u)
	if err != nil {
		return nil, connection.NewRPCError(connection.CodeBackend, "%v", err)
	}
	sess.set(u.ID)
	s.logger.Info("user signed up", "user", u.ID)
	return token, nil
}

func (s *Server) signIn(ctx context.Context, sess *session, req *rpcRequest) (any, *connection.RPCError) {
	var creds credentials
	if err := s.param(req, 0, &creds); err != nil {
		return nil, err
	}

	u, err := s.store.UserByEmail(ctx, strings.TrimSpace(creds.Email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, errInvalidLogin
		}
		return nil, s.storeError(req.Method, err)
	}
	if !checkPassword(u.PasswordHash, creds.Password) {
		return nil, errInvalidLogin
	}

	token, err := s.tokens.issue(u)
	if err != nil {
		return nil, connection.NewRPCError(connection.CodeBackend, "%v", err)
	}
	sess.set(u.ID)
	return token, nil
}

func (s *Server) authenticate(ctx context.Context, sess *session, req *rpcRequest) (any, *connection.RPCError) {
	var token string
	if err := s.param(req, 0, &token); err != nil {
		return nil, err
	}

	userID, rpcErr := s.resolveToken(ctx, token)
	if rpcErr != nil {
		return nil, rpcErr
	}
	sess.set(userID)
	return nil, nil
}

// resolveToken checks the token and that its user still exists.
func (s *Server) resolveToken(ctx context.Context, token string) (string, *connection.RPCError) {
	userID, err := s.tokens.verify(token)
	if err != nil {
		s.logger.Debug("token rejected", "error", err)
		return "", errInvalidAuthToken
	}
	if _, err := s.store.UserByID(ctx, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", errInvalidAuthToken
		}
		return "", s.storeError(string(connection.Authenticate), err)
	}
	return userID, nil
}

func (s *Server) info(ctx context.Context, sess *session) (any, *connection.RPCError) {
	userID := sess.user()
	if userID == "" {
		return nil, errNotSignedIn
	}
	u, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, s.storeError(string(connection.Info), err)
	}
	return u, nil
}

func (s *Server) notesTable(req *rpcRequest) *connection.RPCError {
	var table models.Table
	if err := s.param(req, 0, &table); err != nil {
		return err
	}
	if table != constants.NotesTable {
		return connection.NewRPCError(connection.CodeInvalidParams, "Table not found: %s", table)
	}
	return nil
}

func (s *Server) noteRecord(req *rpcRequest) (string, *connection.RPCError) {
	var id models.RecordID
	if err := s.param(req, 0, &id); err != nil {
		return "", err
	}
	if id.Table != constants.NotesTable {
		return "", connection.NewRPCError(connection.CodeInvalidParams, "Table not found: %s", id.Table)
	}
	return id.ID, nil
}

func (s *Server) selectNotes(ctx context.Context, sess *session, req *rpcRequest) (any, *connection.RPCError) {
	owner := sess.user()
	if owner == "" {
		return nil, errNotSignedIn
	}
	if err := s.notesTable(req); err != nil {
		return nil, err
	}

	var opts models.SelectOptions
	if len(req.Params) > 1 {
		if err := s.param(req, 1, &opts); err != nil {
			return nil, err
		}
	}
	if err := validateOrder(opts.Order); err != nil {
		return nil, connection.NewRPCError(connection.CodeInvalidParams, "%v", err)
	}

	notes, err := s.store.ListNotes(ctx, owner, opts.Order)
	if err != nil {
		return nil, s.storeError(req.Method, err)
	}
	return notes, nil
}

func (s *Server) createNote(ctx context.Context, sess *session, req *rpcRequest) (any, *connection.RPCError) {
	owner := sess.user()
	if owner == "" {
		return nil, errNotSignedIn
	}
	if err := s.notesTable(req); err != nil {
		return nil, err
	}

	var in noteInput
	if err := s.param(req, 1, &in); err != nil {
		return nil, err
	}

	now := models.Now()
	n := Note{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    owner,
	}
	if err := s.store.InsertNote(ctx, n); err != nil {
		return nil, s.storeError(req.Method, err)
	}
	return n, nil
}

// updateNote merges the title and content keys of the patch. Other keys,
// including owner and timestamps, are ignored.
func (s *Server) updateNote(ctx context.Context, sess *session, req *rpcRequest) (any, *connection.RPCError) {
	owner := sess.user()
	if owner == "" {
		return nil, errNotSignedIn
	}
	id, rpcErr := s.noteRecord(req)
	if rpcErr != nil {
		return nil, rpcErr
	}

	var patch map[string]cbor.RawMessage
	if err := s.param(req, 1, &patch); err != nil {
		return nil, err
	}

	n, err := s.store.GetNote(ctx, owner, id)
	if err != nil {
		return nil, s.storeError(req.Method, err)
	}

	if raw, ok := patch["title"]; ok {
		if err := s.codec.Unmarshal(raw, &n.Title); err != nil {
			return nil, connection.NewRPCError(connection.CodeInvalidParams, "update: invalid title: %v", err)
		}
	}
	if raw, ok := patch["content"]; ok {
		var content *string
		if err := s.codec.Unmarshal(raw, &content); err != nil {
			return nil, connection.NewRPCError(connection.CodeInvalidParams, "update: invalid content: %v", err)
		}
		n.Content = content
	}

	n.UpdatedAt = models.Now()
	if !n.UpdatedAt.After(n.CreatedAt.Time) {
		n.UpdatedAt = models.CustomDateTime{Time: n.CreatedAt.Add(time.Microsecond)}
	}

	if err := s.store.UpdateNote(ctx, n); err != nil {
		return nil, s.storeError(req.Method, err)
	}
	return n, nil
}

func (s *Server) deleteNote(ctx context.Context, sess *session, req *rpcRequest) (any, *connection.RPCError) {
	owner := sess.user()
	if owner == "" {
		return nil, errNotSignedIn
	}
	id, rpcErr := s.noteRecord(req)
	if rpcErr != nil {
		return nil, rpcErr
	}

	n, err := s.store.GetNote(ctx, owner, id)
	if err != nil {
		return nil, s.storeError(req.Method, err)
	}
	if err := s.store.DeleteNote(ctx, owner, id); err != nil {
		return nil, s.storeError(req.Method, err)
	}
	return n, nil
}
