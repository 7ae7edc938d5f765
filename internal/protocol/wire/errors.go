package wire

import (
	"errors"
	"fmt"
)

var (
	ErrNegativeLength = errors.New("wire: negative length prefix")
	ErrTooLarge       = errors.New("wire: value exceeds int32 length prefix")
)

// UnderflowError reports a read that ran past the end of the buffer.
type UnderflowError struct {
	Offset    int
	Need      int
	Remaining int
}

func (e *UnderflowError) Error() string {
	return fmt.Sprintf("wire: underflow at offset %d: need %d bytes, %d remaining", e.Offset, e.Need, e.Remaining)
}
