package connection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	gorilla "github.com/gorilla/websocket"

	"github.com/jotter/jotter/internal/rand"
	"github.com/jotter/jotter/pkg/constants"
)

// DefaultDialer is the gorilla dialer used by WebSocketConnection. It is
// gorilla's default with compression enabled and the "cbor" subprotocol.
var DefaultDialer = &gorilla.Dialer{
	Proxy:             gorilla.DefaultDialer.Proxy,
	HandshakeTimeout:  gorilla.DefaultDialer.HandshakeTimeout,
	EnableCompression: true,
	Subprotocols:      []string{"cbor"},
}

type WebSocketConnection struct {
	BaseConnection

	Conn     *gorilla.Conn
	connLock sync.Mutex
	// Timeout bounds the wait for an RPC response after the request was
	// written. Zero disables it and leaves timing to the caller's context.
	Timeout time.Duration

	closeChan  chan struct{}
	closeOnce  sync.Once
	closeError error
}

func NewWebSocketConnection(p NewConnectionParams) *WebSocketConnection {
	return &WebSocketConnection{
		BaseConnection: newBaseConnection(p),
		closeChan:      make(chan struct{}),
		Timeout:        constants.DefaultWSTimeout,
	}
}

func (ws *WebSocketConnection) Connect(ctx context.Context) error {
	if err := ws.preConnectionChecks(); err != nil {
		return err
	}

	connection, res, err := DefaultDialer.DialContext(ctx, ws.baseURL+"/rpc", nil)
	if err != nil {
		return err
	}
	if res != nil && res.Body != nil {
		_ = res.Body.Close()
	}

	ws.Conn = connection

	go ws.readLoop()
	return nil
}

func (ws *WebSocketConnection) SetTimeOut(timeout time.Duration) *WebSocketConnection {
	ws.Timeout = timeout
	return ws
}

// Close sends a close frame and tears the connection down. The context
// bounds the close frame write only; the local socket is always closed.
func (ws *WebSocketConnection) Close(ctx context.Context) error {
	ws.connLock.Lock()
	defer ws.connLock.Unlock()

	if ws.Conn == nil {
		return constants.ErrNotConnected
	}

	ws.markClosed(net.ErrClosed)

	writeErr := make(chan error, 1)
	go func() {
		writeErr <- ws.Conn.WriteMessage(gorilla.CloseMessage, gorilla.FormatCloseMessage(constants.CloseMessageCode, ""))
	}()

	select {
	case err := <-writeErr:
		if err != nil {
			ws.logger.Error("failed to write close message", "error", err)
		}
	case <-ctx.Done():
	}

	return ws.Conn.Close()
}

func (ws *WebSocketConnection) markClosed(err error) {
	ws.closeOnce.Do(func() {
		ws.closeError = err
		close(ws.closeChan)
	})
}

// Send writes the request and waits for the response with the same id.
func (ws *WebSocketConnection) Send(ctx context.Context, dest any, method string, params ...any) error {
	if ws.Conn == nil {
		return constants.ErrNotConnected
	}

	if ws.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ws.Timeout)
		defer cancel()
	}

	select {
	case <-ws.closeChan:
		return ws.closeError
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	id := rand.String(constants.RequestIDLength)
	request := &RPCRequest{
		ID:     id,
		Method: method,
		Params: params,
	}

	responseChan, err := ws.createResponseChannel(id)
	if err != nil {
		return err
	}
	defer ws.removeResponseChannel(id)

	if err := ws.write(request); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s", constants.ErrTimeout, method)
		}
		return ctx.Err()
	case <-ws.closeChan:
		return ws.closeError
	case res := <-responseChan:
		return ws.decodeResult(res, dest)
	}
}

func (ws *WebSocketConnection) write(v any) error {
	data, err := ws.marshaler.Marshal(v)
	if err != nil {
		return err
	}

	ws.connLock.Lock()
	defer ws.connLock.Unlock()
	return ws.Conn.WriteMessage(gorilla.BinaryMessage, data)
}

func (ws *WebSocketConnection) readLoop() {
	for {
		_, data, err := ws.Conn.ReadMessage()
		if err != nil {
			ws.handleError(err)
			return
		}
		ws.handleResponse(data)
	}
}

func (ws *WebSocketConnection) handleError(err error) {
	switch {
	case errors.Is(err, net.ErrClosed):
		ws.markClosed(net.ErrClosed)
	case gorilla.IsCloseError(err, gorilla.CloseNormalClosure):
		ws.markClosed(net.ErrClosed)
	default:
		ws.logger.Error("websocket read failed", "error", err)
		ws.markClosed(io.ErrClosedPipe)
	}
}

func (ws *WebSocketConnection) handleResponse(data []byte) {
	var res RPCResponse[cbor.RawMessage]
	if err := ws.unmarshaler.Unmarshal(data, &res); err != nil {
		ws.logger.Error("error unmarshaling response", "error", err)
		return
	}

	if res.ID == nil || res.ID == "" {
		ws.logger.Warn("dropping response without id")
		return
	}

	responseChan, ok := ws.getResponseChannel(fmt.Sprintf("%v", res.ID))
	if !ok {
		ws.logger.Warn("unavailable response channel", "id", fmt.Sprint(res.ID))
		return
	}
	responseChan <- res
}
