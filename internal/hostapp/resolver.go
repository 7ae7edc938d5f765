package hostapp

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Resolver turns discovery results into an ordered set of usable hosts.
// Every call re-runs discovery; nothing is cached between calls.
type Resolver struct {
	discoverer Discoverer
	preference []Flavor
	logger     zerolog.Logger
}

type ResolverOption func(*Resolver)

// WithPreference overrides DefaultPreference. Flavors left out of the list
// are still accepted and ordered after the listed ones.
func WithPreference(flavors ...Flavor) ResolverOption {
	return func(r *Resolver) {
		if len(flavors) > 0 {
			r.preference = append([]Flavor(nil), flavors...)
		}
	}
}

func WithLogger(logger zerolog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func NewResolver(d Discoverer, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		discoverer: d,
		preference: append([]Flavor(nil), DefaultPreference...),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Preference() []Flavor {
	return append([]Flavor(nil), r.preference...)
}

// Discover returns at most one host per flavor in preference order.
// Invalid tuples are skipped; the first valid tuple of a flavor wins.
func (r *Resolver) Discover(ctx context.Context) ([]HostVersion, error) {
	if r.discoverer == nil {
		return nil, nil
	}
	found, err := r.discoverer.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("hostapp: discover: %w", err)
	}

	byFlavor := make(map[Flavor]HostVersion, 3)
	for _, inst := range found {
		if err := inst.Validate(); err != nil {
			r.logger.Debug().Err(err).Str("package", inst.PackageName).Msg("skip installation")
			continue
		}
		if _, dup := byFlavor[inst.Flavor]; dup {
			r.logger.Debug().Str("flavor", inst.Flavor.String()).Str("package", inst.PackageName).Msg("skip duplicate flavor")
			continue
		}
		byFlavor[inst.Flavor] = inst.HostVersion()
	}

	out := make([]HostVersion, 0, len(byFlavor))
	for _, f := range r.order() {
		if h, ok := byFlavor[f]; ok {
			out = append(out, h)
		}
	}
	r.logger.Debug().Int("reported", len(found)).Int("usable", len(out)).Msg("discovery complete")
	return out, nil
}

// Active returns the most preferred installed host or ErrNoHost.
func (r *Resolver) Active(ctx context.Context) (*HostVersion, error) {
	hosts, err := r.Discover(ctx)
	if err != nil {
		return nil, err
	}
	if len(hosts) == 0 {
		return nil, ErrNoHost
	}
	return &hosts[0], nil
}

// ActiveFor returns the most preferred host capable of op. When none is
// capable the capability error of the most preferred host is returned.
func (r *Resolver) ActiveFor(ctx context.Context, op Operation) (*HostVersion, error) {
	if _, ok := gates[op]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
	hosts, err := r.Discover(ctx)
	if err != nil {
		return nil, err
	}
	if len(hosts) == 0 {
		return nil, Evaluate(nil, op).Err()
	}
	var first error
	for i := range hosts {
		c := Evaluate(&hosts[i], op)
		if c.Capable() {
			return &hosts[i], nil
		}
		if first == nil {
			first = c.Err()
		}
	}
	r.logger.Debug().Str("operation", string(op)).Err(first).Msg("no capable host")
	return nil, first
}

func (r *Resolver) order() []Flavor {
	out := make([]Flavor, 0, 3)
	seen := make(map[Flavor]struct{}, 3)
	for _, f := range append(r.Preference(), FlavorPro, FlavorFree, FlavorGis) {
		if !f.Valid() {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// Pinned serves capability checks against one already discovered host.
type Pinned HostVersion

func (p Pinned) ActiveFor(_ context.Context, op Operation) (*HostVersion, error) {
	h := HostVersion(p)
	if err := Check(&h, op); err != nil {
		return nil, err
	}
	return &h, nil
}
