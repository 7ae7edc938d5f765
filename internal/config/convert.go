package config

import (
	"strings"

	"github.com/danmuck/locuslink/internal/geodata"
	"github.com/danmuck/locuslink/internal/hostapp"
)

// Installations converts configured entries into discovery tuples. Entries
// without a package fall back to the flavor's default package.
func Installations(entries []InstallationConfig) []hostapp.Installation {
	out := make([]hostapp.Installation, 0, len(entries))
	for _, entry := range entries {
		flavor, _ := hostapp.ParseFlavor(entry.Flavor)
		pkg := strings.TrimSpace(entry.Package)
		if pkg == "" {
			pkg = flavor.PackageName()
		}
		out = append(out, hostapp.Installation{
			Flavor:      flavor,
			PackageName: pkg,
			VersionCode: entry.VersionCode,
			VersionName: entry.VersionName,
		})
	}
	return out
}

func Profiles(entries []ProfileConfig) []geodata.TrackRecordProfile {
	out := make([]geodata.TrackRecordProfile, 0, len(entries))
	for _, entry := range entries {
		out = append(out, geodata.TrackRecordProfile{
			ID:          entry.ID,
			Name:        strings.TrimSpace(entry.Name),
			Description: entry.Description,
		})
	}
	return out
}

// HostInstallation is the tuple the simulated host reports about itself.
func (c HostSimConfig) HostInstallation() hostapp.Installation {
	return hostapp.Installation{
		Flavor:      c.Flavor,
		PackageName: c.Package,
		VersionCode: c.VersionCode,
		VersionName: c.VersionName,
	}
}
