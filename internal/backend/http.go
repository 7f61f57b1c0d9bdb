package backend

import (
	"io"
	"net/http"
	"strings"

	"github.com/jotter/jotter/pkg/connection"
)

const maxRequestBody = 1 << 20

// authMethods still run when the bearer token is stale.
var authMethods = map[connection.RPCFunction]bool{
	connection.SignUp:       true,
	connection.SignIn:       true,
	connection.Authenticate: true,
	connection.Invalidate:   true,
}

// handleHTTP answers a single call. The session lives for this request
// only and is seeded from the bearer token.
func (s *Server) handleHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		s.writeHTTP(w, http.StatusBadRequest, connection.RPCResponse[any]{
			Error: connection.NewRPCError(connection.CodeInvalidRequest, "%v", err),
		})
		return
	}

	var req rpcRequest
	if err := s.codec.Unmarshal(body, &req); err != nil {
		s.writeHTTP(w, http.StatusBadRequest, connection.RPCResponse[any]{
			Error: connection.NewRPCError(connection.CodeParseError, "Parse error"),
		})
		return
	}

	var sess session
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok && token != "" {
		userID, rpcErr := s.resolveToken(r.Context(), token)
		if rpcErr != nil && !authMethods[connection.RPCFunction(req.Method)] {
			s.writeHTTP(w, http.StatusUnauthorized, response(req.ID, nil, rpcErr))
			return
		}
		sess.set(userID)
	}

	result, rpcErr := s.handle(r.Context(), &sess, &req)
	s.writeHTTP(w, http.StatusOK, response(req.ID, result, rpcErr))
}

func (s *Server) writeHTTP(w http.ResponseWriter, status int, resp connection.RPCResponse[any]) {
	data, err := s.codec.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/cbor")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		s.logger.Debug("failed to write response", "error", err)
	}
}
