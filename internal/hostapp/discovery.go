package hostapp

import "context"

//go:generate mockgen -destination=mock_discovery.go -package=hostapp github.com/danmuck/locuslink/internal/hostapp Discoverer

// Discoverer queries the installed-application registry.
type Discoverer interface {
	Discover(ctx context.Context) ([]Installation, error)
}

// StaticDiscoverer reports a fixed set of installations, typically loaded
// from configuration.
type StaticDiscoverer struct {
	Installations []Installation
}

func (s StaticDiscoverer) Discover(ctx context.Context) ([]Installation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Installation, len(s.Installations))
	copy(out, s.Installations)
	return out, nil
}

// DiscovererFunc adapts a function to Discoverer.
type DiscovererFunc func(ctx context.Context) ([]Installation, error)

func (f DiscovererFunc) Discover(ctx context.Context) ([]Installation, error) {
	return f(ctx)
}
