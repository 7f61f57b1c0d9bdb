package connection

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/jotter/jotter/internal/rand"
	"github.com/jotter/jotter/pkg/constants"
)

// HTTPConnection sends every call as its own POST /rpc. The backend is
// stateless over HTTP, so the auth token is remembered here and replayed as
// a bearer header.
type HTTPConnection struct {
	BaseConnection

	httpClient *http.Client

	tokenLock sync.RWMutex
	token     string
}

func NewHTTPConnection(p NewConnectionParams) *HTTPConnection {
	return &HTTPConnection{
		BaseConnection: newBaseConnection(p),
		httpClient: &http.Client{
			Timeout: constants.DefaultHTTPTimeout,
		},
	}
}

func (h *HTTPConnection) Connect(ctx context.Context) error {
	if err := h.preConnectionChecks(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/health", http.NoBody)
	if err != nil {
		return err
	}
	if _, err := h.MakeRequest(req); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	return nil
}

func (h *HTTPConnection) Close(ctx context.Context) error {
	h.httpClient.CloseIdleConnections()
	return nil
}

func (h *HTTPConnection) SetTimeout(timeout time.Duration) *HTTPConnection {
	h.httpClient.Timeout = timeout
	return h
}

func (h *HTTPConnection) SetHTTPClient(client *http.Client) *HTTPConnection {
	h.httpClient = client
	return h
}

// Token returns the bearer token currently attached to requests.
func (h *HTTPConnection) Token() string {
	h.tokenLock.RLock()
	defer h.tokenLock.RUnlock()
	return h.token
}

func (h *HTTPConnection) setToken(token string) {
	h.tokenLock.Lock()
	defer h.tokenLock.Unlock()
	h.token = token
}

func (h *HTTPConnection) Send(ctx context.Context, dest any, method string, params ...any) error {
	if h.baseURL == "" {
		return constants.ErrNoBaseURL
	}

	rpcReq := &RPCRequest{
		ID:     rand.String(constants.RequestIDLength),
		Method: method,
		Params: params,
	}

	reqBody, err := h.marshaler.Marshal(rpcReq)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/rpc", bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/cbor")
	req.Header.Set("Content-Type", "application/cbor")

	if token := h.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	respData, err := h.MakeRequest(req)
	if err != nil {
		return err
	}

	var res RPCResponse[cbor.RawMessage]
	if err := h.unmarshaler.Unmarshal(respData, &res); err != nil {
		return fmt.Errorf("error unmarshaling response: %w", err)
	}
	if res.Error != nil {
		return res.Error
	}

	switch RPCFunction(method) {
	case SignIn, SignUp:
		var token string
		if res.Result != nil {
			if err := h.unmarshaler.Unmarshal(*res.Result, &token); err != nil {
				return fmt.Errorf("error unmarshaling token: %w", err)
			}
		}
		h.setToken(token)
	case Authenticate:
		if len(params) > 0 {
			if token, ok := params[0].(string); ok {
				h.setToken(token)
			}
		}
	case Invalidate:
		h.setToken("")
	}

	return h.decodeResult(res, dest)
}

// MakeRequest performs req and returns the body of a 2xx response. Other
// statuses become an error: the backend's *RPCError when the body carries
// one, a generic error otherwise.
func (h *HTTPConnection) MakeRequest(req *http.Request) ([]byte, error) {
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			h.logger.Warn("failed to close response body", "error", err)
		}
	}(resp.Body)

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return respBytes, nil
	}

	var errorResponse RPCResponse[cbor.RawMessage]
	if err := h.unmarshaler.Unmarshal(respBytes, &errorResponse); err == nil && errorResponse.Error != nil {
		return nil, errorResponse.Error
	}

	return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(respBytes))
}
