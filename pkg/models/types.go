package models

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Table names a backend table on the wire.
type Table string

func (t Table) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(cbor.Tag{
		Number:  TagTable,
		Content: string(t),
	})
}

func (t *Table) UnmarshalCBOR(data []byte) error {
	var raw cbor.RawTag
	if err := cbor.Unmarshal(data, &raw); err != nil {
		var s string
		if strErr := cbor.Unmarshal(data, &s); strErr != nil {
			return err
		}
		*t = Table(s)
		return nil
	}

	if raw.Number != TagTable {
		return fmt.Errorf("unexpected tag number: got %d, want %d", raw.Number, TagTable)
	}

	var s string
	if err := cbor.Unmarshal(raw.Content, &s); err != nil {
		return err
	}
	*t = Table(s)
	return nil
}

// Order sorts select results by one field.
type Order struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc,omitempty"`
}

// SelectOptions travel as the second parameter of a select call.
type SelectOptions struct {
	Order []Order `json:"order,omitempty"`
}
