package geodata

import (
	"github.com/danmuck/locuslink/internal/protocol/record"
	"github.com/danmuck/locuslink/internal/protocol/wire"
)

// TrackRecordProfile is one track-recording profile offered by the host.
type TrackRecordProfile struct {
	ID          int64
	Name        string
	Description string
	Icon        []byte
}

func (p TrackRecordProfile) HasIcon() bool {
	return len(p.Icon) > 0
}

func (p *TrackRecordProfile) RecordName() string   { return "track_record_profile" }
func (p *TrackRecordProfile) RecordVersion() int32 { return 0 }

func (p *TrackRecordProfile) WriteFields(w *wire.Writer) {
	w.Int64(p.ID)
	w.Str(p.Name)
	w.Str(p.Description)
	w.Blob(p.Icon)
}

func (p *TrackRecordProfile) ReadFields(_ int32, r *wire.Reader) error {
	p.ID = r.Int64()
	p.Name = r.Str()
	p.Description = r.Str()
	p.Icon = r.Blob()
	return r.Err()
}

func EncodeProfiles(profiles []TrackRecordProfile) ([]byte, error) {
	return record.EncodeList(profiles)
}

func DecodeProfiles(data []byte) ([]TrackRecordProfile, error) {
	return record.DecodeList[TrackRecordProfile](data)
}
