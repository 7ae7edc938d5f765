package record

import (
	"errors"
	"fmt"
)

var (
	ErrNilRecord     = errors.New("record: nil record")
	ErrNegativeCount = errors.New("record: negative list count")
)

// MalformedRecordError reports a structural violation inside one envelope.
type MalformedRecordError struct {
	Record  string
	Version int32
	Reason  string
	Err     error
}

func (e *MalformedRecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("record: malformed %s (version %d): %s: %v", e.Record, e.Version, e.Reason, e.Err)
	}
	return fmt.Sprintf("record: malformed %s (version %d): %s", e.Record, e.Version, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}
