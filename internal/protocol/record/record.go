package record

import (
	"errors"
	"fmt"

	"github.com/danmuck/locuslink/internal/protocol/wire"
)

// envelopeHeaderLen is the version tag plus the payload length.
const envelopeHeaderLen = 4 + 4

// Record is implemented by every value that crosses the process boundary.
//
// WriteFields always writes the current RecordVersion layout. ReadFields
// receives the version found on the wire and must only read the fields that
// existed in that generation.
type Record interface {
	RecordVersion() int32
	WriteFields(w *wire.Writer)
	ReadFields(version int32, r *wire.Reader) error
}

// Pointer constrains P to *T implementing Record, so Decode can allocate T.
type Pointer[T any] interface {
	*T
	Record
}

// Encode serializes rec into a standalone envelope.
func Encode(rec Record) ([]byte, error) {
	if rec == nil {
		return nil, ErrNilRecord
	}
	w := wire.NewWriter(64)
	Write(w, rec)
	if err := w.Err(); err != nil {
		return nil, fmt.Errorf("record: encode %s: %w", nameOf(rec), err)
	}
	return w.Bytes(), nil
}

// Write appends rec's envelope to w. Used for nested records.
func Write(w *wire.Writer, rec Record) {
	w.Int32(rec.RecordVersion())
	lenAt := w.Len()
	w.Int32(0)
	start := w.Len()
	rec.WriteFields(w)
	w.PutInt32At(lenAt, int32(w.Len()-start))
}

// Decode reads a standalone envelope into a fresh T.
// Bytes after the envelope are rejected.
func Decode[T any, P Pointer[T]](data []byte) (*T, error) {
	r := wire.NewReader(data)
	out, err := ReadNew[T, P](r)
	if err != nil {
		return nil, err
	}
	if r.Remaining() != 0 {
		return nil, &MalformedRecordError{
			Record: nameOf(P(out)),
			Reason: fmt.Sprintf("%d trailing bytes after envelope", r.Remaining()),
		}
	}
	return out, nil
}

// Unmarshal decodes data into rec. rec is only modified on success.
func Unmarshal[T any, P Pointer[T]](data []byte, rec P) error {
	out, err := Decode[T, P](data)
	if err != nil {
		return err
	}
	*rec = *out
	return nil
}

// ReadNew reads one nested envelope from r into a fresh T.
func ReadNew[T any, P Pointer[T]](r *wire.Reader) (*T, error) {
	var v T
	if err := Read(r, P(&v)); err != nil {
		return nil, err
	}
	return &v, nil
}

// Read reads one envelope from r into rec. On error rec may hold partial
// data; callers wanting all-or-nothing semantics use Decode or ReadNew.
func Read(r *wire.Reader, rec Record) error {
	name := nameOf(rec)
	version := r.Int32()
	size := r.Int32()
	if err := r.Err(); err != nil {
		return err
	}
	if version < 0 {
		return &MalformedRecordError{Record: name, Version: version, Reason: "negative version"}
	}
	if size < 0 {
		return &MalformedRecordError{Record: name, Version: version, Reason: "negative payload length"}
	}
	payload := r.Raw(int(size))
	if err := r.Err(); err != nil {
		return err
	}

	sub := wire.NewReader(payload)
	if err := rec.ReadFields(version, sub); err != nil {
		return malformed(name, version, err)
	}
	if err := sub.Err(); err != nil {
		return malformed(name, version, err)
	}
	// Remaining payload bytes belong to fields added after this build's
	// version and are skipped.
	return nil
}

func malformed(name string, version int32, err error) error {
	var bad *MalformedRecordError
	if errors.As(err, &bad) {
		return err
	}
	return &MalformedRecordError{Record: name, Version: version, Reason: "payload shorter than required fields", Err: err}
}

func nameOf(rec Record) string {
	if n, ok := rec.(interface{ RecordName() string }); ok {
		return n.RecordName()
	}
	return fmt.Sprintf("%T", rec)
}
