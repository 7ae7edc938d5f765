package hostapp

import (
	"fmt"
	"strings"
)

// Flavor is a mutually exclusive product variant of the host app.
type Flavor int

const (
	FlavorUnknown Flavor = iota
	FlavorFree
	FlavorPro
	FlavorGis
)

// DefaultPreference is the order used when several flavors are installed.
var DefaultPreference = []Flavor{FlavorPro, FlavorFree, FlavorGis}

const authorityRoot = "content://menion.android.locus"

func (f Flavor) String() string {
	switch f {
	case FlavorFree:
		return "free"
	case FlavorPro:
		return "pro"
	case FlavorGis:
		return "gis"
	default:
		return "unknown"
	}
}

func (f Flavor) Valid() bool {
	return f == FlavorFree || f == FlavorPro || f == FlavorGis
}

// PackageName is the default package identity of the flavor.
func (f Flavor) PackageName() string {
	switch f {
	case FlavorFree:
		return "menion.android.locus"
	case FlavorPro:
		return "menion.android.locus.pro"
	case FlavorGis:
		return "menion.android.locus.gis"
	default:
		return ""
	}
}

// AuthorityPrefix is the routing prefix for provider addresses.
func (f Flavor) AuthorityPrefix() string {
	if !f.Valid() {
		return ""
	}
	return authorityRoot + "." + f.String()
}

func ParseFlavor(raw string) (Flavor, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "free":
		return FlavorFree, nil
	case "pro":
		return FlavorPro, nil
	case "gis":
		return FlavorGis, nil
	default:
		return FlavorUnknown, fmt.Errorf("hostapp: unknown flavor %q", raw)
	}
}

// FlavorForPackage maps a known package identity back to its flavor.
func FlavorForPackage(pkg string) Flavor {
	switch strings.TrimSpace(pkg) {
	case FlavorFree.PackageName():
		return FlavorFree
	case FlavorPro.PackageName():
		return FlavorPro
	case FlavorGis.PackageName():
		return FlavorGis
	default:
		return FlavorUnknown
	}
}

// ParsePreference parses an ordered flavor list, dropping duplicates.
func ParsePreference(raw []string) ([]Flavor, error) {
	out := make([]Flavor, 0, len(raw))
	seen := make(map[Flavor]struct{}, len(raw))
	for _, name := range raw {
		f, err := ParseFlavor(name)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out, nil
}
