package geodata

import (
	"github.com/danmuck/locuslink/internal/protocol/record"
	"github.com/danmuck/locuslink/internal/protocol/wire"
)

// Unit format identifiers reported by the host.
const (
	UnitsMetric   int32 = 0
	UnitsImperial int32 = 1
	UnitsNautical int32 = 2
)

// AppInfo is a read-only snapshot of the host app installation.
type AppInfo struct {
	PackageName            string
	VersionCode            int32
	VersionName            string
	Running                bool
	RootDirectory          string
	PeriodicUpdatesEnabled bool

	UnitsLength   int32
	UnitsAltitude int32
	UnitsSpeed    int32
}

func (a *AppInfo) RecordName() string   { return "app_info" }
func (a *AppInfo) RecordVersion() int32 { return 1 }

func (a *AppInfo) WriteFields(w *wire.Writer) {
	w.Str(a.PackageName)
	w.Int32(a.VersionCode)
	w.Str(a.VersionName)
	w.Bool(a.Running)
	w.Str(a.RootDirectory)
	w.Bool(a.PeriodicUpdatesEnabled)
	// v1
	w.Int32(a.UnitsLength)
	w.Int32(a.UnitsAltitude)
	w.Int32(a.UnitsSpeed)
}

func (a *AppInfo) ReadFields(version int32, r *wire.Reader) error {
	a.PackageName = r.Str()
	a.VersionCode = r.Int32()
	a.VersionName = r.Str()
	a.Running = r.Bool()
	a.RootDirectory = r.Str()
	a.PeriodicUpdatesEnabled = r.Bool()
	if version >= 1 {
		a.UnitsLength = r.Int32()
		a.UnitsAltitude = r.Int32()
		a.UnitsSpeed = r.Int32()
	}
	return r.Err()
}

func EncodeAppInfo(a AppInfo) ([]byte, error) {
	return record.Encode(&a)
}

func DecodeAppInfo(data []byte) (*AppInfo, error) {
	return record.Decode[AppInfo](data)
}
