package connection

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jotter/jotter/pkg/constants"
	"github.com/jotter/jotter/pkg/logger"
	"github.com/jotter/jotter/pkg/models"
)

// NewParams derives connection parameters from an endpoint URL such as
// "ws://localhost:8000" or "https://notes.example.com/api". A trailing
// "/rpc" is accepted and dropped.
func NewParams(u *url.URL, l logger.Logger) NewConnectionParams {
	path := strings.TrimSuffix(strings.TrimSuffix(u.Path, "/"), "/rpc")
	c := models.NewCbor()
	return NewConnectionParams{
		BaseURL:     fmt.Sprintf("%s://%s%s", u.Scheme, u.Host, path),
		Marshaler:   c,
		Unmarshaler: c,
		Logger:      l,
	}
}

// New picks the engine matching the URL scheme.
func New(u *url.URL, l logger.Logger) (Connection, error) {
	p := NewParams(u, l)
	switch u.Scheme {
	case constants.WebsocketScheme, constants.WebsocketSecureScheme:
		return NewWebSocketConnection(p), nil
	case constants.HTTPScheme, constants.HTTPSecureScheme:
		return NewHTTPConnection(p), nil
	default:
		return nil, fmt.Errorf("%w: %q", constants.ErrUnsupportedScheme, u.Scheme)
	}
}
