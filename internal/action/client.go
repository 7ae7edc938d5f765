package action

import (
	"context"
	"errors"
	"time"

	"github.com/danmuck/locuslink/internal/hostapp"
	"github.com/rs/zerolog"
)

// HostSource picks the host that serves an operation.
// *hostapp.Resolver and hostapp.Pinned both satisfy it.
type HostSource interface {
	ActiveFor(ctx context.Context, op hostapp.Operation) (*hostapp.HostVersion, error)
}

// Metrics receives one observation per client operation.
type Metrics interface {
	ObserveOperation(op string, outcome string, elapsed time.Duration)
	CapabilityRejected(op string, requiredVersion int32)
}

type nopMetrics struct{}

func (nopMetrics) ObserveOperation(string, string, time.Duration) {}
func (nopMetrics) CapabilityRejected(string, int32)               {}

// Operation outcomes reported to Metrics.
const (
	OutcomeOK        = "ok"
	OutcomeNoData    = "no_data"
	OutcomeIncapable = "incapable"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
)

type Client struct {
	hosts     HostSource
	transport Transport
	logger    zerolog.Logger
	metrics   Metrics
}

type Option func(*Client)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(m Metrics) Option {
	return func(c *Client) {
		if m != nil {
			c.metrics = m
		}
	}
}

func NewClient(hosts HostSource, transport Transport, opts ...Option) *Client {
	c := &Client{
		hosts:     hosts,
		transport: transport,
		logger:    zerolog.Nop(),
		metrics:   nopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call is the shared state of one operation in flight.
type call struct {
	op    hostapp.Operation
	host  *hostapp.HostVersion
	start time.Time
}

func (c *Client) begin(ctx context.Context, op hostapp.Operation) (*call, error) {
	cl := &call{op: op, start: time.Now()}
	if c.transport == nil {
		return cl, ErrNoTransport
	}
	if c.hosts == nil {
		return cl, hostapp.Evaluate(nil, op).Err()
	}
	host, err := c.hosts.ActiveFor(ctx, op)
	if err != nil {
		return cl, err
	}
	cl.host = host
	return cl, nil
}

func (c *Client) finish(cl *call, err error) {
	outcome := outcomeOf(err)
	var capErr *hostapp.CapabilityError
	if errors.As(err, &capErr) {
		c.metrics.CapabilityRejected(string(cl.op), capErr.RequiredVersion)
	}
	c.metrics.ObserveOperation(string(cl.op), outcome, time.Since(cl.start))

	ev := c.logger.Debug()
	if outcome == OutcomeError {
		ev = c.logger.Warn()
	}
	if cl.host != nil {
		ev = ev.Str("host", cl.host.PackageName).Int32("version_code", cl.host.VersionCode)
	}
	ev.Str("operation", string(cl.op)).Str("outcome", outcome).Err(err).Msg("host operation")
}

func outcomeOf(err error) string {
	var capErr *hostapp.CapabilityError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrNoData):
		return OutcomeNoData
	case errors.As(err, &capErr):
		return OutcomeIncapable
	case errors.Is(err, ErrInvalidArgument):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

// dispatch runs a one-way operation. build fills payload and extras.
func (c *Client) dispatch(ctx context.Context, op hostapp.Operation, kind Kind, act string, build func(*Request) error) (err error) {
	cl, err := c.begin(ctx, op)
	defer func() { c.finish(cl, err) }()
	if err != nil {
		return err
	}
	target, err := hostapp.Target(cl.host, op)
	if err != nil {
		return err
	}
	req := newRequest(kind, act, target, cl.host.PackageName)
	if build != nil {
		if err = build(&req); err != nil {
			return err
		}
	}
	if err = req.Validate(); err != nil {
		return err
	}
	c.logger.Trace().Str("request_id", req.ID).Str("action", act).Str("address", target).Msg("dispatch")
	return c.transport.Dispatch(ctx, req)
}

// query runs a query-style operation and hands the value stored under key
// to decode.
func (c *Client) query(ctx context.Context, op hostapp.Operation, kind Kind, key string, suffix []string, build func(*Request) error, decode func([]byte) error) (err error) {
	cl, err := c.begin(ctx, op)
	defer func() { c.finish(cl, err) }()
	if err != nil {
		return err
	}
	target, err := hostapp.Address(cl.host, op, suffix...)
	if err != nil {
		return err
	}
	act := ActionQuery
	if kind == KindUpdate {
		act = ActionUpdate
	}
	req := newRequest(kind, act, target, cl.host.PackageName)
	if build != nil {
		if err = build(&req); err != nil {
			return err
		}
	}
	if err = req.Validate(); err != nil {
		return err
	}
	c.logger.Trace().Str("request_id", req.ID).Str("address", target).Str("key", key).Msg("query")
	resp, err := c.transport.Query(ctx, req)
	if err != nil {
		return err
	}
	value, err := expectKey(resp, key)
	if err != nil {
		return err
	}
	return decode(value)
}

// expectKey validates the response before any decoding happens.
func expectKey(resp *Response, key string) ([]byte, error) {
	if resp == nil {
		return nil, &NoDataError{Key: key}
	}
	if resp.Key != key {
		return nil, &NoDataError{Key: key, Got: resp.Key}
	}
	if len(resp.Value) == 0 {
		return nil, &NoDataError{Key: key, Got: resp.Key}
	}
	return resp.Value, nil
}
