package wire

import (
	"encoding/binary"
	"math"
	"strings"
)

// Writer accumulates big-endian primitives into a byte slice.
// The first error is sticky; later writes are ignored.
type Writer struct {
	buf []byte
	err error
}

func NewWriter(sizeHint int) *Writer {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Writer{buf: make([]byte, 0, sizeHint)}
}

func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) Len() int {
	return len(w.buf)
}

// Bytes returns the accumulated buffer. The slice aliases the writer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) Uint8(v uint8) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, v)
}

func (w *Writer) Bool(v bool) {
	b := uint8(0)
	if v {
		b = 1
	}
	w.Uint8(b)
}

func (w *Writer) Int16(v int16) {
	if w.err != nil {
		return
	}
	w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(v))
}

func (w *Writer) Int32(v int32) {
	if w.err != nil {
		return
	}
	w.buf = binary.BigEndian.AppendUint32(w.buf, uint32(v))
}

func (w *Writer) Int64(v int64) {
	if w.err != nil {
		return
	}
	w.buf = binary.BigEndian.AppendUint64(w.buf, uint64(v))
}

func (w *Writer) Float32(v float32) {
	w.Int32(int32(math.Float32bits(v)))
}

func (w *Writer) Float64(v float64) {
	w.Int64(int64(math.Float64bits(v)))
}

// Str writes a 4-byte length followed by UTF-8 bytes.
func (w *Writer) Str(s string) {
	s = strings.ToValidUTF8(s, "\uFFFD")
	if !w.length(len(s)) {
		return
	}
	w.buf = append(w.buf, s...)
}

// Blob writes a 4-byte length followed by b. Nil and empty both encode as length 0.
func (w *Writer) Blob(b []byte) {
	if !w.length(len(b)) {
		return
	}
	w.buf = append(w.buf, b...)
}

// Int64s writes a 4-byte count followed by each value.
func (w *Writer) Int64s(values []int64) {
	if !w.length(len(values)) {
		return
	}
	for _, v := range values {
		w.Int64(v)
	}
}

// Raw appends b without a length prefix.
func (w *Writer) Raw(b []byte) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, b...)
}

// PutInt32At overwrites 4 bytes at offset. Used to backfill length prefixes.
func (w *Writer) PutInt32At(offset int, v int32) {
	if w.err != nil {
		return
	}
	if offset < 0 || offset+4 > len(w.buf) {
		w.err = &UnderflowError{Offset: offset, Need: 4, Remaining: len(w.buf) - offset}
		return
	}
	binary.BigEndian.PutUint32(w.buf[offset:offset+4], uint32(v))
}

func (w *Writer) length(n int) bool {
	if w.err != nil {
		return false
	}
	if n > math.MaxInt32 {
		w.err = ErrTooLarge
		return false
	}
	w.buf = binary.BigEndian.AppendUint32(w.buf, uint32(n))
	return true
}
