// Package jotter is the client for the jotter notes backend.
//
// # Connection Engines
//
// There are 2 connection engines, WebSocket and HTTP. Pass an endpoint URL to
// [Connect] and it picks the engine from the scheme: "ws"/"wss" for
// WebSocket, "http"/"https" for HTTP. Over WebSocket the backend keeps the
// authentication state per connection; over HTTP the token is replayed on
// every request.
//
// # Authentication
//
// [DB.SignUp] and [DB.SignIn] return a token that can be stored and handed
// to [DB.Authenticate] later to resume the session. [DB.Invalidate] ends it.
// [Info] returns the record of the signed in user.
//
// # Tables
//
// [Select], [Create], [Update] and [Delete] operate on the rows owned by the
// signed in user. The backend enforces ownership; the client never names a
// user in a query.
//
// # Use Send for low-level control
//
// [Send] is used internally by all data manipulation functions.
//
// Higher level state (the session, the note cache, toasts) lives in the
// packages under pkg/.
package jotter
