package connection

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/suite"

	"github.com/jotter/jotter/pkg/models"
)

type RoundTripFunc func(req *http.Request) *http.Response

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

// NewTestClient returns *http.Client with Transport replaced to avoid making real calls
func NewTestClient(fn RoundTripFunc) *http.Client {
	return &http.Client{
		Transport: fn,
	}
}

type HTTPTestSuite struct {
	suite.Suite
	codec models.Cbor
}

func TestHTTPTestSuite(t *testing.T) {
	suite.Run(t, new(HTTPTestSuite))
}

func (s *HTTPTestSuite) newConn(fn RoundTripFunc) *HTTPConnection {
	conn := NewHTTPConnection(NewConnectionParams{
		BaseURL:     "http://notes.test",
		Marshaler:   s.codec,
		Unmarshaler: s.codec,
	})
	conn.SetHTTPClient(NewTestClient(fn))
	return conn
}

func (s *HTTPTestSuite) respond(status int, v any) *http.Response {
	body, err := s.codec.Marshal(v)
	s.Require().NoError(err)
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     make(http.Header),
	}
}

func (s *HTTPTestSuite) result(v any) *cbor.RawMessage {
	raw, err := s.codec.Marshal(v)
	s.Require().NoError(err)
	msg := cbor.RawMessage(raw)
	return &msg
}

func (s *HTTPTestSuite) TestMakeRequestNon2xx() {
	conn := s.newConn(func(req *http.Request) *http.Response {
		return s.respond(http.StatusBadRequest, RPCResponse[cbor.RawMessage]{
			Error: &RPCError{Code: CodeInvalidParams, Message: "There was a problem"},
		})
	})

	req, _ := http.NewRequestWithContext(context.TODO(), http.MethodGet, "http://notes.test/rpc", http.NoBody)
	_, err := conn.MakeRequest(req)
	s.Require().Error(err)
	s.Assert().ErrorIs(err, &RPCError{Code: CodeInvalidParams})
}

func (s *HTTPTestSuite) TestTokenLifecycle() {
	var lastAuth string
	conn := s.newConn(func(req *http.Request) *http.Response {
		lastAuth = req.Header.Get("Authorization")
		s.Assert().Equal("http://notes.test/rpc", req.URL.String())
		s.Assert().Equal("application/cbor", req.Header.Get("Content-Type"))

		var rpcReq RPCRequest
		body, _ := io.ReadAll(req.Body)
		s.Require().NoError(s.codec.Unmarshal(body, &rpcReq))

		switch rpcReq.Method {
		case "signin":
			return s.respond(http.StatusOK, RPCResponse[cbor.RawMessage]{ID: rpcReq.ID, Result: s.result("tok-1")})
		default:
			return s.respond(http.StatusOK, RPCResponse[cbor.RawMessage]{ID: rpcReq.ID})
		}
	})
	ctx := context.Background()

	var token string
	s.Require().NoError(conn.Send(ctx, &token, "signin", map[string]any{"email": "a@b.c", "password": "secret"}))
	s.Assert().Equal("tok-1", token)
	s.Assert().Equal("tok-1", conn.Token())

	s.Require().NoError(conn.Send(ctx, nil, "info"))
	s.Assert().Equal("Bearer tok-1", lastAuth)

	s.Require().NoError(conn.Send(ctx, nil, "authenticate", "tok-2"))
	s.Assert().Equal("tok-2", conn.Token())

	s.Require().NoError(conn.Send(ctx, nil, "invalidate"))
	s.Assert().Empty(conn.Token())

	s.Require().NoError(conn.Send(ctx, nil, "info"))
	s.Assert().Empty(lastAuth)
}

func (s *HTTPTestSuite) TestBackendErrorKeepsToken() {
	conn := s.newConn(func(req *http.Request) *http.Response {
		return s.respond(http.StatusOK, RPCResponse[cbor.RawMessage]{
			Error: &RPCError{Code: CodeBackend, Message: "Invalid login credentials"},
		})
	})
	conn.setToken("keep")

	err := conn.Send(context.Background(), nil, "signin", map[string]any{})
	s.Require().EqualError(err, "Invalid login credentials")
	s.Assert().Equal("keep", conn.Token())
}
