package constants

import "errors"

var (
	ErrNoRow             = errors.New("backend returned no row")
	ErrIDInUse           = errors.New("id already in use")
	ErrTimeout           = errors.New("timeout")
	ErrNoBaseURL         = errors.New("base url not set")
	ErrNoMarshaler       = errors.New("marshaler is not set")
	ErrNoUnmarshaler     = errors.New("unmarshaler is not set")
	ErrNotConnected      = errors.New("connection is not established")
	ErrUnsupportedScheme = errors.New("unsupported endpoint scheme")
)
