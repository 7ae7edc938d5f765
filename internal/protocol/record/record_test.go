package record

import (
	"errors"
	"testing"

	"github.com/danmuck/locuslink/internal/protocol/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample grew a Note field in version 1.
type sample struct {
	ID   int64
	Name string
	Note string
}

func (s *sample) RecordName() string   { return "sample" }
func (s *sample) RecordVersion() int32 { return 1 }

func (s *sample) WriteFields(w *wire.Writer) {
	w.Int64(s.ID)
	w.Str(s.Name)
	w.Str(s.Note)
}

func (s *sample) ReadFields(version int32, r *wire.Reader) error {
	s.ID = r.Int64()
	s.Name = r.Str()
	if version >= 1 {
		s.Note = r.Str()
	}
	return r.Err()
}

// sampleV0 is the layout an older build would write.
type sampleV0 struct {
	ID   int64
	Name string
}

func (s *sampleV0) RecordVersion() int32 { return 0 }

func (s *sampleV0) WriteFields(w *wire.Writer) {
	w.Int64(s.ID)
	w.Str(s.Name)
}

func (s *sampleV0) ReadFields(_ int32, r *wire.Reader) error {
	s.ID = r.Int64()
	s.Name = r.Str()
	return r.Err()
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := &sample{ID: 7, Name: "alpha", Note: "n"}
	data, err := Encode(in)
	require.NoError(t, err)

	out, err := Decode[sample](data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEnvelopeLayout(t *testing.T) {
	data, err := Encode(&sampleV0{ID: 1, Name: ""})
	require.NoError(t, err)
	want := []byte{
		0, 0, 0, 0, // version
		0, 0, 0, 12, // payload length
		0, 0, 0, 0, 0, 0, 0, 1,
		0, 0, 0, 0,
	}
	assert.Equal(t, want, data)
}

func TestOlderPayloadDecodesWithoutNewFields(t *testing.T) {
	data, err := Encode(&sampleV0{ID: 3, Name: "old"})
	require.NoError(t, err)

	out, err := Decode[sample](data)
	require.NoError(t, err)
	assert.Equal(t, &sample{ID: 3, Name: "old"}, out)
}

func TestNewerPayloadTailIsSkipped(t *testing.T) {
	data, err := Encode(&sample{ID: 4, Name: "new", Note: "tail"})
	require.NoError(t, err)

	out, err := Decode[sampleV0](data)
	require.NoError(t, err)
	assert.Equal(t, &sampleV0{ID: 4, Name: "new"}, out)
}

func TestTruncationIsDetected(t *testing.T) {
	data, err := Encode(&sample{ID: 5, Name: "cut", Note: "me"})
	require.NoError(t, err)

	for n := 0; n < len(data); n++ {
		_, err := Decode[sample](data[:n])
		require.Error(t, err, "prefix len=%d decoded", n)
		var under *wire.UnderflowError
		var bad *MalformedRecordError
		assert.True(t, errors.As(err, &under) || errors.As(err, &bad), "prefix len=%d err=%v", n, err)
	}
}

func TestNegativeVersionIsMalformed(t *testing.T) {
	w := wire.NewWriter(0)
	w.Int32(-1)
	w.Int32(0)
	_, err := Decode[sample](w.Bytes())
	var bad *MalformedRecordError
	require.ErrorAs(t, err, &bad)
	assert.Equal(t, int32(-1), bad.Version)
}

func TestShortPayloadIsMalformedAndWrapsUnderflow(t *testing.T) {
	w := wire.NewWriter(0)
	w.Int32(1)
	w.Int32(4)
	w.Int32(0)
	_, err := Decode[sample](w.Bytes())

	var bad *MalformedRecordError
	require.ErrorAs(t, err, &bad)
	var under *wire.UnderflowError
	assert.ErrorAs(t, err, &under)
}

func TestTrailingBytesRejected(t *testing.T) {
	data, err := Encode(&sample{ID: 1})
	require.NoError(t, err)
	_, err = Decode[sample](append(data, 0))
	var bad *MalformedRecordError
	assert.ErrorAs(t, err, &bad)
}

func TestUnmarshalIsAllOrNothing(t *testing.T) {
	target := sample{ID: 99, Name: "keep"}
	data, err := Encode(&sample{ID: 1, Name: "x", Note: "y"})
	require.NoError(t, err)

	err = Unmarshal(data[:len(data)-1], &target)
	require.Error(t, err)
	assert.Equal(t, sample{ID: 99, Name: "keep"}, target)

	require.NoError(t, Unmarshal(data, &target))
	assert.Equal(t, sample{ID: 1, Name: "x", Note: "y"}, target)
}

func TestListPreservesOrder(t *testing.T) {
	in := []sample{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 3, Name: "c"}}
	data, err := EncodeList(in)
	require.NoError(t, err)

	out, err := DecodeList[sample](data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEmptyList(t *testing.T) {
	data, err := EncodeList[sample]([]sample(nil))
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, data)

	out, err := DecodeList[sample](data)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestListCountBeyondBufferUnderflows(t *testing.T) {
	_, err := DecodeList[sample]([]byte{0, 0, 0, 50})
	var under *wire.UnderflowError
	assert.ErrorAs(t, err, &under)
}

func TestEncodeNil(t *testing.T) {
	_, err := Encode(nil)
	assert.ErrorIs(t, err, ErrNilRecord)
}
