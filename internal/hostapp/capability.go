package hostapp

import (
	"fmt"
	"strings"
)

// State is the outcome of evaluating one operation against a host.
type State int

const (
	StateUnprobed State = iota
	StateCapable
	StateIncapable
)

func (s State) String() string {
	switch s {
	case StateCapable:
		return "capable"
	case StateIncapable:
		return "incapable"
	default:
		return "unprobed"
	}
}

type Capability struct {
	Operation       Operation
	State           State
	RequiredVersion int32
	Reason          string
}

func (c Capability) Capable() bool { return c.State == StateCapable }

// Err converts an incapable result into a *CapabilityError.
func (c Capability) Err() error {
	if c.State == StateCapable {
		return nil
	}
	return &CapabilityError{
		Operation:       c.Operation,
		RequiredVersion: c.RequiredVersion,
		Reason:          c.Reason,
	}
}

// Evaluate decides whether host can serve op. A nil host is the unprobed
// state and always evaluates to incapable.
func Evaluate(host *HostVersion, op Operation) Capability {
	gate, ok := gates[op]
	if !ok {
		return Capability{Operation: op, State: StateIncapable, Reason: "unknown operation"}
	}
	out := Capability{Operation: op, RequiredVersion: gate.MinVersion}
	if host == nil {
		out.State = StateIncapable
		out.Reason = "host app not installed"
		return out
	}

	required := gate.RequiredFor(host.Flavor)
	if required == 0 {
		out.State = StateIncapable
		out.Reason = fmt.Sprintf("not supported by %s flavor", host.Flavor)
		return out
	}
	out.RequiredVersion = required
	if host.VersionCode < required {
		out.State = StateIncapable
		out.Reason = fmt.Sprintf("installed %s version %d is too old", host.Flavor, host.VersionCode)
		return out
	}
	out.State = StateCapable
	return out
}

// Check returns nil when host can serve op.
func Check(host *HostVersion, op Operation) error {
	if _, ok := gates[op]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
	return Evaluate(host, op).Err()
}

// Address composes <authority-prefix>.<provider>/<path>[/<suffix>...] for
// a capable host. Dispatch-only operations have no provider address.
func Address(host *HostVersion, op Operation, suffix ...string) (string, error) {
	if err := Check(host, op); err != nil {
		return "", err
	}
	gate := gates[op]
	if gate.Dispatch() {
		return "", fmt.Errorf("%w: %s", ErrOperationNotProvider, op)
	}
	return composeAddress(host.Flavor, gate.Provider, gate.Path, suffix...), nil
}

// Target is the routing destination of op: the provider address for queries
// and the host package for dispatch-only operations.
func Target(host *HostVersion, op Operation, suffix ...string) (string, error) {
	if err := Check(host, op); err != nil {
		return "", err
	}
	gate := gates[op]
	if gate.Dispatch() {
		return host.PackageName, nil
	}
	return composeAddress(host.Flavor, gate.Provider, gate.Path, suffix...), nil
}

func composeAddress(f Flavor, provider, path string, suffix ...string) string {
	var b strings.Builder
	b.WriteString(f.AuthorityPrefix())
	b.WriteByte('.')
	b.WriteString(provider)
	b.WriteByte('/')
	b.WriteString(path)
	for _, s := range suffix {
		s = strings.Trim(s, "/")
		if s == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(s)
	}
	return b.String()
}

// SplitAddress is the inverse of Address for hosts that serve providers.
func SplitAddress(addr string) (Flavor, string, []string, error) {
	rest, ok := strings.CutPrefix(addr, authorityRoot+".")
	if !ok {
		return FlavorUnknown, "", nil, fmt.Errorf("hostapp: address %q has no host authority", addr)
	}
	authority, path, _ := strings.Cut(rest, "/")
	flavorName, provider, ok := strings.Cut(authority, ".")
	if !ok || provider == "" {
		return FlavorUnknown, "", nil, fmt.Errorf("hostapp: address %q has no provider", addr)
	}
	flavor, err := ParseFlavor(flavorName)
	if err != nil {
		return FlavorUnknown, "", nil, err
	}
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return flavor, provider, segments, nil
}
