package backend

import (
	"context"
	"net/http"
	"sync"

	gorilla "github.com/gorilla/websocket"

	"github.com/jotter/jotter/pkg/connection"
)

// wsConn is one client. Calls are answered concurrently, so writes are
// serialized.
type wsConn struct {
	conn    *gorilla.Conn
	session session
	writeMu sync.Mutex
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		_ = conn.Close()
	}()

	c := &wsConn{conn: conn}
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if !gorilla.IsCloseError(err, gorilla.CloseNormalClosure, gorilla.CloseGoingAway) {
				s.logger.Debug("websocket read failed", "error", err)
			}
			return
		}
		if msgType != gorilla.BinaryMessage {
			continue
		}

		var req rpcRequest
		if err := s.codec.Unmarshal(data, &req); err != nil {
			s.writeWS(c, connection.RPCResponse[any]{
				Error: connection.NewRPCError(connection.CodeParseError, "Parse error"),
			})
			continue
		}

		go func() {
			result, rpcErr := s.handle(ctx, &c.session, &req)
			s.writeWS(c, response(req.ID, result, rpcErr))
		}()
	}
}

func (s *Server) writeWS(c *wsConn, resp connection.RPCResponse[any]) {
	data, err := s.codec.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		data, _ = s.codec.Marshal(connection.RPCResponse[any]{
			ID:    resp.ID,
			Error: connection.NewRPCError(connection.CodeBackend, "%v", err),
		})
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteMessage(gorilla.BinaryMessage, data); err != nil {
		s.logger.Debug("failed to write response", "error", err)
	}
}

func response(id, result any, rpcErr *connection.RPCError) connection.RPCResponse[any] {
	resp := connection.RPCResponse[any]{ID: id}
	if rpcErr != nil {
		resp.Error = rpcErr
		return resp
	}
	resp.Result = &result
	return resp
}
