package models

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/jotter/jotter/pkg/constants"
)

// CustomDateTime embeds time.Time and travels as tag 12 [seconds, nanoseconds].
// A zero value travels as NONE.
type CustomDateTime struct {
	time.Time
}

// Now returns the current time truncated to microseconds, which is the
// precision the sqlite store keeps.
func Now() CustomDateTime {
	return CustomDateTime{time.Now().UTC().Truncate(time.Microsecond)}
}

func (d CustomDateTime) MarshalCBOR() ([]byte, error) {
	if d.Time.IsZero() {
		return cbor.Marshal(cbor.Tag{Number: TagNone})
	}

	totalNS := d.UnixNano()

	s := totalNS / constants.OneSecondToNanoSecond
	ns := totalNS % constants.OneSecondToNanoSecond

	return cbor.Marshal(cbor.Tag{
		Number:  TagCustomDatetime,
		Content: [2]int64{s, ns},
	})
}

func (d *CustomDateTime) UnmarshalCBOR(data []byte) error {
	var raw cbor.RawTag
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return err
	}

	if raw.Number == TagNone {
		*d = CustomDateTime{}
		return nil
	}

	if raw.Number != TagCustomDatetime {
		return fmt.Errorf("unexpected tag number: got %d, want %d", raw.Number, TagCustomDatetime)
	}

	var temp [2]int64
	if err := cbor.Unmarshal(raw.Content, &temp); err != nil {
		return err
	}

	*d = CustomDateTime{time.Unix(temp[0], temp[1]).UTC()}

	return nil
}

func (d CustomDateTime) String() string {
	return d.Format(time.RFC3339)
}
