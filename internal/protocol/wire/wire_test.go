package wire

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestWriterPrimitivesAreBigEndian(t *testing.T) {
	w := NewWriter(0)
	w.Int16(0x0102)
	w.Int32(0x03040506)
	w.Int64(0x0708090a0b0c0d0e)
	w.Bool(true)
	if err := w.Err(); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := []byte{
		0x01, 0x02,
		0x03, 0x04, 0x05, 0x06,
		0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e,
		0x01,
	}
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("unexpected bytes: %x", w.Bytes())
	}
}

func TestStringAndBlobLengthPrefix(t *testing.T) {
	w := NewWriter(0)
	w.Str("hé")
	w.Str("")
	w.Blob(nil)
	w.Blob([]byte{})
	w.Blob([]byte{0xaa})
	want := []byte{
		0, 0, 0, 3, 'h', 0xc3, 0xa9,
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 1, 0xaa,
	}
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("unexpected bytes: %x", w.Bytes())
	}
}

func TestRoundTripPrimitives(t *testing.T) {
	w := NewWriter(64)
	w.Uint8(7)
	w.Bool(false)
	w.Int16(-2)
	w.Int32(math.MinInt32)
	w.Int64(math.MaxInt64)
	w.Float32(1.5)
	w.Float64(-46.5)
	w.Str("Summit")
	w.Blob([]byte{1, 2, 3})
	w.Int64s([]int64{3, 1, 2})

	r := NewReader(w.Bytes())
	if got := r.Uint8(); got != 7 {
		t.Fatalf("uint8 got=%d", got)
	}
	if got := r.Bool(); got {
		t.Fatalf("bool got=%v", got)
	}
	if got := r.Int16(); got != -2 {
		t.Fatalf("int16 got=%d", got)
	}
	if got := r.Int32(); got != math.MinInt32 {
		t.Fatalf("int32 got=%d", got)
	}
	if got := r.Int64(); got != math.MaxInt64 {
		t.Fatalf("int64 got=%d", got)
	}
	if got := r.Float32(); got != 1.5 {
		t.Fatalf("float32 got=%v", got)
	}
	if got := r.Float64(); got != -46.5 {
		t.Fatalf("float64 got=%v", got)
	}
	if got := r.Str(); got != "Summit" {
		t.Fatalf("string got=%q", got)
	}
	if got := r.Blob(); !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Fatalf("blob got=%x", got)
	}
	ids := r.Int64s()
	if len(ids) != 3 || ids[0] != 3 || ids[1] != 1 || ids[2] != 2 {
		t.Fatalf("int64s got=%v", ids)
	}
	if err := r.Err(); err != nil {
		t.Fatalf("read: %v", err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("expected buffer consumed, remaining=%d", r.Remaining())
	}
}

func TestEmptyBlobDecodesAbsent(t *testing.T) {
	w := NewWriter(0)
	w.Blob([]byte{})
	r := NewReader(w.Bytes())
	if got := r.Blob(); got != nil {
		t.Fatalf("expected nil blob, got %x", got)
	}
}

func TestReaderUnderflowIsDeterministic(t *testing.T) {
	r := NewReader([]byte{0, 0, 1})
	if got := r.Int32(); got != 0 {
		t.Fatalf("expected zero value, got %d", got)
	}
	var under *UnderflowError
	if !errors.As(r.Err(), &under) {
		t.Fatalf("expected UnderflowError, got %v", r.Err())
	}
	if under.Offset != 0 || under.Need != 4 || under.Remaining != 3 {
		t.Fatalf("unexpected underflow: %+v", under)
	}
	// sticky: later reads keep the first error
	_ = r.Uint8()
	if !errors.As(r.Err(), &under) || under.Need != 4 {
		t.Fatalf("expected sticky first error, got %v", r.Err())
	}
}

func TestReaderTruncatedStringValue(t *testing.T) {
	r := NewReader([]byte{0, 0, 0, 5, 'a', 'b'})
	if got := r.Str(); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	var under *UnderflowError
	if !errors.As(r.Err(), &under) {
		t.Fatalf("expected UnderflowError, got %v", r.Err())
	}
}

func TestReaderNegativeLength(t *testing.T) {
	r := NewReader([]byte{0xff, 0xff, 0xff, 0xff})
	_ = r.Blob()
	if !errors.Is(r.Err(), ErrNegativeLength) {
		t.Fatalf("expected ErrNegativeLength, got %v", r.Err())
	}
}

func TestInt64sRejectsOversizedCount(t *testing.T) {
	r := NewReader([]byte{0, 0, 0, 9, 0, 0, 0, 0, 0, 0, 0, 1})
	if got := r.Int64s(); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	var under *UnderflowError
	if !errors.As(r.Err(), &under) {
		t.Fatalf("expected UnderflowError, got %v", r.Err())
	}
}

func TestWriterIsDeterministic(t *testing.T) {
	build := func() []byte {
		w := NewWriter(0)
		w.Int64(42)
		w.Str("Summit")
		w.Float64(46.5)
		w.Float64(11.3)
		return w.Bytes()
	}
	if !bytes.Equal(build(), build()) {
		t.Fatalf("identical inputs produced different bytes")
	}
}

func TestInvalidUTF8IsNormalized(t *testing.T) {
	w := NewWriter(0)
	w.Str(string([]byte{'a', 0xff}))
	r := NewReader(w.Bytes())
	if got := r.Str(); got != "a�" {
		t.Fatalf("unexpected string %q", got)
	}
}

func TestPutInt32AtBackfills(t *testing.T) {
	w := NewWriter(0)
	w.Int32(0)
	w.Int32(9)
	w.PutInt32At(0, 4)
	r := NewReader(w.Bytes())
	if got := r.Int32(); got != 4 {
		t.Fatalf("backfill got=%d", got)
	}
	w.PutInt32At(6, 1)
	if w.Err() == nil {
		t.Fatalf("expected out-of-range backfill error")
	}
}
