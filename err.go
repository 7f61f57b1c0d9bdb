package jotter

import (
	"github.com/jotter/jotter/pkg/connection"
)

// Sentinel errors matching backend error codes with errors.Is.
var (
	ErrUnauthorized error = &connection.RPCError{Code: connection.CodeUnauthorized, Message: "unauthorized"}
	ErrNotFound     error = &connection.RPCError{Code: connection.CodeNotFound, Message: "record not found"}
	ErrConflict     error = &connection.RPCError{Code: connection.CodeConflict, Message: "conflict"}
)
