package httpbridge

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/danmuck/locuslink/internal/hostapp"
)

const (
	PathInstallations = "/v1/installations"
	PathDispatch      = "/v1/dispatch"
	PathQuery         = "/v1/query"

	ContentTypeRecord = "application/x-locus-record"
	RequestIDHeader   = "X-Locus-Request-Id"
)

var ErrBadBaseURL = errors.New("httpbridge: invalid base url")

// Installation is the JSON shape of one discovery tuple.
type Installation struct {
	Flavor      string `json:"flavor"`
	Package     string `json:"package"`
	VersionCode int32  `json:"version_code"`
	VersionName string `json:"version_name,omitempty"`
}

func FromInstallation(inst hostapp.Installation) Installation {
	return Installation{
		Flavor:      inst.Flavor.String(),
		Package:     inst.PackageName,
		VersionCode: inst.VersionCode,
		VersionName: inst.VersionName,
	}
}

// ToInstallation keeps unknown flavors as FlavorUnknown so the resolver
// can skip them.
func (i Installation) ToInstallation() hostapp.Installation {
	flavor, _ := hostapp.ParseFlavor(i.Flavor)
	return hostapp.Installation{
		Flavor:      flavor,
		PackageName: strings.TrimSpace(i.Package),
		VersionCode: i.VersionCode,
		VersionName: i.VersionName,
	}
}

// ErrorBody is the JSON body of a failed bridge call.
type ErrorBody struct {
	Error string `json:"error"`
}

// StatusError reports a non-success HTTP status from the host.
type StatusError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("httpbridge: %s returned %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("httpbridge: %s returned %d: %s", e.Endpoint, e.Status, e.Message)
}

// Retryable reports whether a later attempt may succeed.
func (e *StatusError) Retryable() bool {
	switch e.Status {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
