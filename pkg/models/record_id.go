package models

import (
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// RecordID addresses a single row: the table it lives in and the opaque
// identifier the backend assigned to it.
type RecordID struct {
	Table string
	ID    string
}

// NewRecordID builds a RecordID for the given table and identifier.
func NewRecordID(table, id string) RecordID {
	return RecordID{Table: table, ID: id}
}

// ParseRecordID parses the "table:id" form.
func ParseRecordID(s string) (RecordID, error) {
	table, id, ok := strings.Cut(s, ":")
	if !ok || table == "" || id == "" {
		return RecordID{}, fmt.Errorf("invalid record id %q: expected format is 'table:identifier'", s)
	}
	return RecordID{Table: table, ID: id}, nil
}

func (r RecordID) MarshalCBOR() ([]byte, error) {
	return CborMarshaler{}.Marshal(cbor.Tag{
		Number:  TagRecordID,
		Content: []string{r.Table, r.ID},
	})
}

func (r *RecordID) UnmarshalCBOR(data []byte) error {
	var raw cbor.RawTag
	if err := cbor.Unmarshal(data, &raw); err != nil {
		// Plain "table:id" strings are accepted too.
		var s string
		if strErr := cbor.Unmarshal(data, &s); strErr != nil {
			return err
		}
		parsed, perr := ParseRecordID(s)
		if perr != nil {
			return perr
		}
		*r = parsed
		return nil
	}

	if raw.Number != TagRecordID {
		return fmt.Errorf("unexpected tag number: got %d, want %d", raw.Number, TagRecordID)
	}

	var parts []any
	if err := cbor.Unmarshal(raw.Content, &parts); err != nil {
		return err
	}
	if len(parts) != 2 {
		return fmt.Errorf("record id must have 2 parts, got %d", len(parts))
	}

	table, ok := parts[0].(string)
	if !ok {
		return fmt.Errorf("record id table must be a string, got %T", parts[0])
	}

	r.Table = table
	r.ID = fmt.Sprint(parts[1])
	return nil
}

func (r RecordID) String() string {
	return fmt.Sprintf("%s:%s", r.Table, r.ID)
}

func (r RecordID) IsZero() bool {
	return r.Table == "" && r.ID == ""
}
