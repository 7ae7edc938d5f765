package action

import (
	"fmt"
	"strings"

	"github.com/danmuck/locuslink/internal/protocol/record"
	"github.com/danmuck/locuslink/internal/protocol/wire"
	"github.com/google/uuid"
)

// Kind selects how the transport delivers a request.
type Kind uint8

const (
	KindActivity Kind = iota + 1
	KindBroadcast
	KindQuery
	KindUpdate
)

func (k Kind) String() string {
	switch k {
	case KindActivity:
		return "activity"
	case KindBroadcast:
		return "broadcast"
	case KindQuery:
		return "query"
	case KindUpdate:
		return "update"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

func (k Kind) Valid() bool { return k >= KindActivity && k <= KindUpdate }

// Dispatch reports whether the kind is one-way.
func (k Kind) Dispatch() bool { return k == KindActivity || k == KindBroadcast }

// Request is a self-contained, transport-agnostic call to the host app.
// Address is a provider address for queries and the host package for
// dispatched actions.
type Request struct {
	ID         string
	Kind       Kind
	Action     string
	Address    string
	Package    string
	PayloadKey string
	Payload    []byte
	Selection  string
	Extras     Extras
}

func newRequest(kind Kind, act, address, pkg string) Request {
	return Request{
		ID:      uuid.NewString(),
		Kind:    kind,
		Action:  act,
		Address: address,
		Package: pkg,
	}
}

func (r Request) Validate() error {
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: request kind %d", ErrInvalidArgument, r.Kind)
	}
	if strings.TrimSpace(r.Action) == "" {
		return fmt.Errorf("%w: request has no action", ErrInvalidArgument)
	}
	if strings.TrimSpace(r.Address) == "" {
		return fmt.Errorf("%w: request has no address", ErrInvalidArgument)
	}
	if len(r.Payload) > 0 && r.PayloadKey == "" {
		return fmt.Errorf("%w: payload without key", ErrInvalidArgument)
	}
	return nil
}

func (r *Request) RecordName() string   { return "request" }
func (r *Request) RecordVersion() int32 { return 0 }

func (r *Request) WriteFields(w *wire.Writer) {
	w.Str(r.ID)
	w.Uint8(uint8(r.Kind))
	w.Str(r.Action)
	w.Str(r.Address)
	w.Str(r.Package)
	w.Str(r.PayloadKey)
	w.Blob(r.Payload)
	w.Str(r.Selection)
	r.Extras.write(w)
}

func (r *Request) ReadFields(_ int32, rd *wire.Reader) error {
	r.ID = rd.Str()
	r.Kind = Kind(rd.Uint8())
	r.Action = rd.Str()
	r.Address = rd.Str()
	r.Package = rd.Str()
	r.PayloadKey = rd.Str()
	r.Payload = rd.Blob()
	r.Selection = rd.Str()
	if err := rd.Err(); err != nil {
		return err
	}
	return r.Extras.read(rd)
}

func EncodeRequest(r Request) ([]byte, error) {
	return record.Encode(&r)
}

func DecodeRequest(data []byte) (*Request, error) {
	return record.Decode[Request](data)
}

// Response is the single recognized key/value pair returned by a query.
type Response struct {
	Key   string
	Value []byte
}

func (r *Response) RecordName() string   { return "response" }
func (r *Response) RecordVersion() int32 { return 0 }

func (r *Response) WriteFields(w *wire.Writer) {
	w.Str(r.Key)
	w.Blob(r.Value)
}

func (r *Response) ReadFields(_ int32, rd *wire.Reader) error {
	r.Key = rd.Str()
	r.Value = rd.Blob()
	return rd.Err()
}

func EncodeResponse(r Response) ([]byte, error) {
	return record.Encode(&r)
}

func DecodeResponse(data []byte) (*Response, error) {
	return record.Decode[Response](data)
}

// Int32Value encodes a scalar response value.
func Int32Value(v int32) []byte {
	w := wire.NewWriter(4)
	w.Int32(v)
	return w.Bytes()
}

func decodeInt32Value(data []byte) (int32, error) {
	r := wire.NewReader(data)
	v := r.Int32()
	if err := r.Err(); err != nil {
		return 0, err
	}
	if r.Remaining() != 0 {
		return 0, &record.MalformedRecordError{Record: "int32", Reason: "trailing bytes"}
	}
	return v, nil
}

// Int64sValue encodes a list of ids as a response value.
func Int64sValue(v []int64) []byte {
	w := wire.NewWriter(4 + 8*len(v))
	w.Int64s(v)
	return w.Bytes()
}

func decodeInt64sValue(data []byte) ([]int64, error) {
	r := wire.NewReader(data)
	v := r.Int64s()
	if err := r.Err(); err != nil {
		return nil, err
	}
	if r.Remaining() != 0 {
		return nil, &record.MalformedRecordError{Record: "int64s", Reason: "trailing bytes"}
	}
	return v, nil
}
