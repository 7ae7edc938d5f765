package action

import "context"

//go:generate mockgen -destination=mock_transport.go -package=action github.com/danmuck/locuslink/internal/action Transport

// Transport moves requests to the host app.
// Dispatch is one-way. Query returns nil when the host has no answer.
type Transport interface {
	Dispatch(ctx context.Context, req Request) error
	Query(ctx context.Context, req Request) (*Response, error)
}
