package hostapp

import (
	"fmt"
	"strings"

	"github.com/danmuck/locuslink/internal/protocol/record"
	"github.com/danmuck/locuslink/internal/protocol/wire"
)

// Installation is one tuple reported by the discovery collaborator.
type Installation struct {
	Flavor      Flavor
	PackageName string
	VersionCode int32
	VersionName string
}

func (i Installation) Validate() error {
	if !i.Flavor.Valid() {
		return fmt.Errorf("%w: flavor %s", ErrInvalidInstallation, i.Flavor)
	}
	if strings.TrimSpace(i.PackageName) == "" {
		return fmt.Errorf("%w: missing package name", ErrInvalidInstallation)
	}
	if i.VersionCode <= 0 {
		return fmt.Errorf("%w: version code %d", ErrInvalidInstallation, i.VersionCode)
	}
	return nil
}

// HostVersion identifies the installation that answered discovery.
type HostVersion struct {
	Flavor      Flavor
	PackageName string
	VersionCode int32
	VersionName string
}

func (i Installation) HostVersion() HostVersion {
	return HostVersion{
		Flavor:      i.Flavor,
		PackageName: strings.TrimSpace(i.PackageName),
		VersionCode: i.VersionCode,
		VersionName: i.VersionName,
	}
}

func (h HostVersion) String() string {
	return fmt.Sprintf("%s(%s) vc=%d", h.PackageName, h.Flavor, h.VersionCode)
}

func (h *HostVersion) RecordName() string   { return "host_version" }
func (h *HostVersion) RecordVersion() int32 { return 0 }

func (h *HostVersion) WriteFields(w *wire.Writer) {
	w.Str(h.Flavor.String())
	w.Str(h.PackageName)
	w.Int32(h.VersionCode)
	w.Str(h.VersionName)
}

func (h *HostVersion) ReadFields(_ int32, r *wire.Reader) error {
	name := r.Str()
	h.PackageName = r.Str()
	h.VersionCode = r.Int32()
	h.VersionName = r.Str()
	if err := r.Err(); err != nil {
		return err
	}
	flavor, err := ParseFlavor(name)
	if err != nil {
		return err
	}
	h.Flavor = flavor
	return nil
}

// EncodeHostVersion serializes h for caller-side caching.
func EncodeHostVersion(h HostVersion) ([]byte, error) {
	return record.Encode(&h)
}

func DecodeHostVersion(data []byte) (*HostVersion, error) {
	return record.Decode[HostVersion](data)
}
