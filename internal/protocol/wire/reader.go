package wire

import (
	"encoding/binary"
	"math"
)

// Reader consumes big-endian primitives from a byte slice in write order.
// The first error is sticky; later reads return zero values.
type Reader struct {
	buf []byte
	pos int
	err error
}

func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

func (r *Reader) Err() error {
	return r.err
}

// Offset returns the cursor position.
func (r *Reader) Offset() int {
	return r.pos
}

func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

// Fail records err if no earlier error is set.
func (r *Reader) Fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n > r.Remaining() {
		r.err = &UnderflowError{Offset: r.pos, Need: n, Remaining: r.Remaining()}
		return nil
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *Reader) Uint8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// Bool reads one byte; any non-zero value is true.
func (r *Reader) Bool() bool {
	return r.Uint8() != 0
}

func (r *Reader) Int16() int16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return int16(binary.BigEndian.Uint16(b))
}

func (r *Reader) Int32() int32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return int32(binary.BigEndian.Uint32(b))
}

func (r *Reader) Int64() int64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return int64(binary.BigEndian.Uint64(b))
}

func (r *Reader) Float32() float32 {
	return math.Float32frombits(uint32(r.Int32()))
}

func (r *Reader) Float64() float64 {
	return math.Float64frombits(uint64(r.Int64()))
}

func (r *Reader) Str() string {
	n := r.Length()
	if n == 0 {
		return ""
	}
	b := r.take(n)
	if b == nil {
		return ""
	}
	return string(b)
}

// Blob reads a length-prefixed byte array. Length 0 yields nil.
func (r *Reader) Blob() []byte {
	n := r.Length()
	if n == 0 {
		return nil
	}
	b := r.take(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

func (r *Reader) Int64s() []int64 {
	n := r.Length()
	if n == 0 {
		return nil
	}
	// each value needs 8 bytes; reject counts the buffer cannot hold
	if n > r.Remaining()/8 {
		r.Fail(&UnderflowError{Offset: r.pos, Need: n * 8, Remaining: r.Remaining()})
		return nil
	}
	out := make([]int64, n)
	for i := range out {
		out[i] = r.Int64()
	}
	return out
}

// Raw reads n bytes without a length prefix. The result is a copy.
func (r *Reader) Raw(n int) []byte {
	if n < 0 {
		r.Fail(ErrNegativeLength)
		return nil
	}
	b := r.take(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) {
	if n < 0 {
		r.Fail(ErrNegativeLength)
		return
	}
	r.take(n)
}

// Length reads a 4-byte length prefix and rejects negative values.
func (r *Reader) Length() int {
	n := r.Int32()
	if r.err != nil {
		return 0
	}
	if n < 0 {
		r.err = ErrNegativeLength
		return 0
	}
	return int(n)
}
