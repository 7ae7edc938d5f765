package action

import (
	"errors"
	"fmt"
)

var (
	ErrNoData          = errors.New("action: no data")
	ErrInvalidArgument = errors.New("action: invalid argument")
	ErrNoTransport     = errors.New("action: transport not configured")
)

// NoDataError is the soft outcome of a query that returned nothing under
// the expected key. Got is the key the host answered with, if any.
type NoDataError struct {
	Key string
	Got string
}

func (e *NoDataError) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("action: no data for %q", e.Key)
	}
	return fmt.Sprintf("action: no data for %q (host answered %q)", e.Key, e.Got)
}

func (e *NoDataError) Is(target error) bool {
	return target == ErrNoData
}

// IsNoData reports whether err is the soft "nothing found" outcome.
func IsNoData(err error) bool {
	return errors.Is(err, ErrNoData)
}
