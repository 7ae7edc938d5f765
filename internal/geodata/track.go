package geodata

import (
	"fmt"

	"github.com/danmuck/locuslink/internal/protocol/record"
	"github.com/danmuck/locuslink/internal/protocol/wire"
)

// Track is an ordered path of points. Point order is part of the path.
type Track struct {
	ID           int64
	Name         string
	Description  string
	ActivityType int32
	Points       []Point
	Extra        []byte
}

func (t Track) Len() int {
	return len(t.Points)
}

func (t Track) HasExtra() bool {
	return len(t.Extra) > 0
}

// Clone returns a deep copy; the copy owns its points.
func (t Track) Clone() Track {
	out := t
	if t.Points != nil {
		out.Points = make([]Point, len(t.Points))
		for i, p := range t.Points {
			p.Extra = cloneBytes(p.Extra)
			out.Points[i] = p
		}
	}
	out.Extra = cloneBytes(t.Extra)
	return out
}

func (t Track) Validate() error {
	for i, p := range t.Points {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("track point %d: %w", i, err)
		}
	}
	return nil
}

func (t *Track) RecordName() string   { return "track" }
func (t *Track) RecordVersion() int32 { return 1 }

func (t *Track) WriteFields(w *wire.Writer) {
	// v0
	w.Int64(t.ID)
	w.Str(t.Name)
	record.WriteList(w, t.Points)
	w.Blob(t.Extra)
	// v1
	w.Str(t.Description)
	w.Int32(t.ActivityType)
}

func (t *Track) ReadFields(version int32, r *wire.Reader) error {
	t.ID = r.Int64()
	t.Name = r.Str()
	if err := r.Err(); err != nil {
		return err
	}
	points, err := record.ReadList[Point](r)
	if err != nil {
		return err
	}
	t.Points = points
	t.Extra = r.Blob()
	if version >= 1 {
		t.Description = r.Str()
		t.ActivityType = r.Int32()
	}
	return r.Err()
}

func EncodeTrack(t Track) ([]byte, error) {
	return record.Encode(&t)
}

func DecodeTrack(data []byte) (*Track, error) {
	return record.Decode[Track](data)
}

func EncodeTracks(tracks []Track) ([]byte, error) {
	return record.EncodeList(tracks)
}

func DecodeTracks(data []byte) ([]Track, error) {
	return record.DecodeList[Track](data)
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
