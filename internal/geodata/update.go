package geodata

import (
	"github.com/danmuck/locuslink/internal/protocol/record"
	"github.com/danmuck/locuslink/internal/protocol/wire"
)

// UpdateContainer is the periodic runtime-state snapshot sent by the host.
type UpdateContainer struct {
	MyLocationEnabled bool
	GpsOn             bool
	GpsSatsUsed       int32
	GpsSatsAll        int32
	MyLatitude        float64
	MyLongitude       float64

	MapCenterLatitude  float64
	MapCenterLongitude float64
	MapZoomLevel       int32
	MapRotation        float32

	TrackRecRecording   bool
	TrackRecPaused      bool
	TrackRecProfileName string

	GuideActive           bool
	GuideTargetName       string
	GuideDistanceToTarget float64
}

// TrackRecActive reports recording in progress, paused or not.
func (u UpdateContainer) TrackRecActive() bool {
	return u.TrackRecRecording || u.TrackRecPaused
}

func (u *UpdateContainer) RecordName() string   { return "update_container" }
func (u *UpdateContainer) RecordVersion() int32 { return 1 }

func (u *UpdateContainer) WriteFields(w *wire.Writer) {
	w.Bool(u.MyLocationEnabled)
	w.Bool(u.GpsOn)
	w.Int32(u.GpsSatsUsed)
	w.Int32(u.GpsSatsAll)
	w.Float64(u.MyLatitude)
	w.Float64(u.MyLongitude)
	w.Float64(u.MapCenterLatitude)
	w.Float64(u.MapCenterLongitude)
	w.Int32(u.MapZoomLevel)
	w.Float32(u.MapRotation)
	w.Bool(u.TrackRecRecording)
	w.Bool(u.TrackRecPaused)
	w.Str(u.TrackRecProfileName)
	// v1
	w.Bool(u.GuideActive)
	w.Str(u.GuideTargetName)
	w.Float64(u.GuideDistanceToTarget)
}

func (u *UpdateContainer) ReadFields(version int32, r *wire.Reader) error {
	u.MyLocationEnabled = r.Bool()
	u.GpsOn = r.Bool()
	u.GpsSatsUsed = r.Int32()
	u.GpsSatsAll = r.Int32()
	u.MyLatitude = r.Float64()
	u.MyLongitude = r.Float64()
	u.MapCenterLatitude = r.Float64()
	u.MapCenterLongitude = r.Float64()
	u.MapZoomLevel = r.Int32()
	u.MapRotation = r.Float32()
	u.TrackRecRecording = r.Bool()
	u.TrackRecPaused = r.Bool()
	u.TrackRecProfileName = r.Str()
	if version >= 1 {
		u.GuideActive = r.Bool()
		u.GuideTargetName = r.Str()
		u.GuideDistanceToTarget = r.Float64()
	}
	return r.Err()
}

func EncodeUpdateContainer(u UpdateContainer) ([]byte, error) {
	return record.Encode(&u)
}

func DecodeUpdateContainer(data []byte) (*UpdateContainer, error) {
	return record.Decode[UpdateContainer](data)
}
