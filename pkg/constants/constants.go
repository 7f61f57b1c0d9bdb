package constants

import "time"

const (
	// RequestIDLength is the size of the id sent with each RPC request.
	RequestIDLength = 16
	// CloseMessageCode is the WebSocket close code sent on a clean shutdown.
	CloseMessageCode = 1000
	// DefaultWSTimeout bounds how long a WebSocket call waits for its response.
	DefaultWSTimeout = 30 * time.Second
	// DefaultHTTPTimeout bounds a whole HTTP RPC round trip.
	DefaultHTTPTimeout = 30 * time.Second

	OneSecondToNanoSecond = 1_000_000_000
)

var (
	WebsocketScheme       = "ws"
	WebsocketSecureScheme = "wss"
	HTTPScheme            = "http"
	HTTPSecureScheme      = "https"
)

// Tables served by the backend.
const (
	NotesTable = "notes"
	UsersTable = "users"
)
