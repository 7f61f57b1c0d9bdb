package connection

import (
	"errors"
	"fmt"
)

// Error codes shared by the client and the backend.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeBackend        = -32000
	CodeUnauthorized   = -32001
	CodeNotFound       = -32002
	CodeConflict       = -32003
)

// RPCError is the error half of an RPC response.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

func (r *RPCError) Error() string {
	return r.Message
}

// Is reports whether target is an *RPCError with the same code, or an
// *RPCError with code 0 which matches any backend error.
func (r *RPCError) Is(target error) bool {
	if target == nil {
		return r == nil
	}

	var t *RPCError
	if !errors.As(target, &t) || t == nil {
		return false
	}
	return t.Code == 0 || t.Code == r.Code
}

// NewRPCError builds an error with a formatted message.
func NewRPCError(code int, format string, args ...any) *RPCError {
	return &RPCError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// RPCRequest is a single call.
type RPCRequest struct {
	ID     any    `json:"id"`
	Method string `json:"method,omitempty"`
	Params []any  `json:"params,omitempty"`
}

// RPCResponse is the reply to a call. ID echoes the request id.
type RPCResponse[T any] struct {
	ID     any       `json:"id"`
	Error  *RPCError `json:"error,omitempty"`
	Result *T        `json:"result,omitempty"`
}

type RPCFunction string

var (
	Info         RPCFunction = "info"
	SignUp       RPCFunction = "signup"
	SignIn       RPCFunction = "signin"
	Authenticate RPCFunction = "authenticate"
	Invalidate   RPCFunction = "invalidate"
	Select       RPCFunction = "select"
	Create       RPCFunction = "create"
	Update       RPCFunction = "update"
	Delete       RPCFunction = "delete"
)
