package models

import (
	"io"
	"reflect"
	"sync"

	"github.com/fxamacker/cbor/v2"

	"github.com/jotter/jotter/internal/codec"
)

// CBOR tag numbers understood by the backend.
const (
	TagNone           uint64 = 6
	TagTable          uint64 = 7
	TagRecordID       uint64 = 8
	TagCustomDatetime uint64 = 12
)

var (
	modesOnce sync.Once
	encMode   cbor.EncMode
	decMode   cbor.DecMode
)

func modes() (cbor.EncMode, cbor.DecMode) {
	modesOnce.Do(func() {
		var err error
		encMode, err = cbor.EncOptions{
			Time:    cbor.TimeRFC3339,
			TimeTag: cbor.EncTagRequired,
			Sort:    cbor.SortCanonical,
		}.EncMode()
		if err != nil {
			panic(err)
		}

		decMode, err = cbor.DecOptions{
			DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		}.DecMode()
		if err != nil {
			panic(err)
		}
	})
	return encMode, decMode
}

// CborMarshaler encodes values with the options every jotter endpoint expects.
type CborMarshaler struct{}

func (c CborMarshaler) Marshal(v any) ([]byte, error) {
	em, _ := modes()
	return em.Marshal(v)
}

func (c CborMarshaler) NewEncoder(w io.Writer) codec.Encoder {
	em, _ := modes()
	return em.NewEncoder(w)
}

// CborUnmarshaler decodes maps into map[string]any so that untyped results
// can be inspected without type assertions on interface keys.
type CborUnmarshaler struct{}

func (c CborUnmarshaler) Unmarshal(data []byte, dst any) error {
	_, dm := modes()
	return dm.Unmarshal(data, dst)
}

func (c CborUnmarshaler) NewDecoder(r io.Reader) codec.Decoder {
	_, dm := modes()
	return dm.NewDecoder(r)
}

// Cbor bundles both directions.
type Cbor struct {
	CborMarshaler
	CborUnmarshaler
}

// NewCbor returns the default codec.
func NewCbor() codec.Codec {
	return Cbor{}
}
