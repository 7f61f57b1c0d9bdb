package connection

import (
	"context"
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"

	"github.com/jotter/jotter/internal/codec"
	"github.com/jotter/jotter/pkg/constants"
	"github.com/jotter/jotter/pkg/logger"
)

// Connection is an engine that carries RPC calls to the backend.
type Connection interface {
	Connect(ctx context.Context) error
	Close(ctx context.Context) error
	// Send calls method with params and decodes the result into dest.
	// dest may be nil when the caller does not care about the result.
	// A backend error is returned as *RPCError.
	Send(ctx context.Context, dest any, method string, params ...any) error
}

type NewConnectionParams struct {
	Marshaler   codec.Marshaler
	Unmarshaler codec.Unmarshaler
	BaseURL     string
	Logger      logger.Logger
}

type BaseConnection struct {
	baseURL     string
	marshaler   codec.Marshaler
	unmarshaler codec.Unmarshaler
	logger      logger.Logger

	responseChannels     map[string]chan RPCResponse[cbor.RawMessage]
	responseChannelsLock sync.RWMutex
}

func newBaseConnection(p NewConnectionParams) BaseConnection {
	l := p.Logger
	if l == nil {
		l = logger.Nop()
	}
	return BaseConnection{
		baseURL:          p.BaseURL,
		marshaler:        p.Marshaler,
		unmarshaler:      p.Unmarshaler,
		logger:           l,
		responseChannels: make(map[string]chan RPCResponse[cbor.RawMessage]),
	}
}

func (bc *BaseConnection) createResponseChannel(id string) (chan RPCResponse[cbor.RawMessage], error) {
	bc.responseChannelsLock.Lock()
	defer bc.responseChannelsLock.Unlock()

	if _, ok := bc.responseChannels[id]; ok {
		return nil, fmt.Errorf("%w: %v", constants.ErrIDInUse, id)
	}

	// Buffered so a late response never blocks the reader once the caller gave up.
	ch := make(chan RPCResponse[cbor.RawMessage], 1)
	bc.responseChannels[id] = ch

	return ch, nil
}

func (bc *BaseConnection) removeResponseChannel(id string) {
	bc.responseChannelsLock.Lock()
	defer bc.responseChannelsLock.Unlock()
	delete(bc.responseChannels, id)
}

func (bc *BaseConnection) getResponseChannel(id string) (chan RPCResponse[cbor.RawMessage], bool) {
	bc.responseChannelsLock.RLock()
	defer bc.responseChannelsLock.RUnlock()
	ch, ok := bc.responseChannels[id]
	return ch, ok
}

func (bc *BaseConnection) preConnectionChecks() error {
	if bc.baseURL == "" {
		return constants.ErrNoBaseURL
	}

	if bc.marshaler == nil {
		return constants.ErrNoMarshaler
	}

	if bc.unmarshaler == nil {
		return constants.ErrNoUnmarshaler
	}

	return nil
}

// decodeResult turns a raw response into either the backend error or the
// decoded result.
func (bc *BaseConnection) decodeResult(res RPCResponse[cbor.RawMessage], dest any) error {
	if res.Error != nil {
		return res.Error
	}

	if dest == nil || res.Result == nil {
		return nil
	}

	if err := bc.unmarshaler.Unmarshal(*res.Result, dest); err != nil {
		return fmt.Errorf("error unmarshaling result: %w", err)
	}

	return nil
}
