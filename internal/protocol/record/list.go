package record

import (
	"fmt"

	"github.com/danmuck/locuslink/internal/protocol/wire"
)

// WriteList writes a 4-byte count followed by each item's envelope in order.
func WriteList[T any, P Pointer[T]](w *wire.Writer, items []T) {
	w.Int32(int32(len(items)))
	for i := range items {
		Write(w, P(&items[i]))
	}
}

// ReadList reads a list written by WriteList. Order is preserved.
func ReadList[T any, P Pointer[T]](r *wire.Reader) ([]T, error) {
	count := r.Int32()
	if err := r.Err(); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, ErrNegativeCount
	}
	if count == 0 {
		return nil, nil
	}
	// every envelope needs at least its header
	if int(count) > r.Remaining()/envelopeHeaderLen {
		return nil, &wire.UnderflowError{
			Offset:    r.Offset(),
			Need:      int(count) * envelopeHeaderLen,
			Remaining: r.Remaining(),
		}
	}
	out := make([]T, 0, count)
	for i := 0; i < int(count); i++ {
		item, err := ReadNew[T, P](r)
		if err != nil {
			return nil, fmt.Errorf("record: list item %d: %w", i, err)
		}
		out = append(out, *item)
	}
	return out, nil
}

// EncodeList serializes items as a standalone list.
func EncodeList[T any, P Pointer[T]](items []T) ([]byte, error) {
	w := wire.NewWriter(64)
	WriteList[T, P](w, items)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// DecodeList reads a standalone list and rejects trailing bytes.
func DecodeList[T any, P Pointer[T]](data []byte) ([]T, error) {
	r := wire.NewReader(data)
	out, err := ReadList[T, P](r)
	if err != nil {
		return nil, err
	}
	if r.Remaining() != 0 {
		return nil, &MalformedRecordError{
			Record: "list",
			Reason: fmt.Sprintf("%d trailing bytes after list", r.Remaining()),
		}
	}
	return out, nil
}
