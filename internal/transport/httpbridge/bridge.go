package httpbridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/danmuck/locuslink/internal/action"
	"github.com/danmuck/locuslink/internal/auth"
	"github.com/danmuck/locuslink/internal/hostapp"
	"github.com/danmuck/locuslink/internal/observability"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 16 << 20

// Bridge implements action.Transport and hostapp.Discoverer against a host
// reachable over HTTP.
type Bridge struct {
	cfg    Config
	base   *url.URL
	http   *http.Client
	logger zerolog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
	sleep func(context.Context, time.Duration) error
}

var (
	_ action.Transport   = (*Bridge)(nil)
	_ hostapp.Discoverer = (*Bridge)(nil)
)

type Option func(*Bridge)

func WithLogger(logger zerolog.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(b *Bridge) {
		if c != nil {
			b.http = c
		}
	}
}

func New(cfg Config, opts ...Option) (*Bridge, error) {
	cfg = cfg.WithDefaults()
	base, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrBadBaseURL, cfg.BaseURL)
	}
	client, err := httpClient(cfg, base)
	if err != nil {
		return nil, err
	}
	b := &Bridge{
		cfg:    cfg,
		base:   base,
		http:   client,
		logger: zerolog.Nop(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// httpClient applies the TLS section. An https base URL without TLS enabled
// uses the system roots.
func httpClient(cfg Config, base *url.URL) (*http.Client, error) {
	client := &http.Client{Timeout: cfg.Timeout}
	if !cfg.TLS.Enabled {
		return client, nil
	}
	if base.Scheme != "https" {
		return nil, fmt.Errorf("%w: tls enabled for %q", ErrBadBaseURL, cfg.BaseURL)
	}
	tlsCfg, err := cfg.TLS.Client(base.Hostname())
	if err != nil {
		return nil, err
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsCfg
	client.Transport = transport
	return client, nil
}

func (b *Bridge) Discover(ctx context.Context) ([]hostapp.Installation, error) {
	var payload []Installation
	err := b.do(ctx, http.MethodGet, PathInstallations, "", nil, func(resp *http.Response) error {
		if resp.StatusCode != http.StatusOK {
			return statusError(PathInstallations, resp)
		}
		return json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload)
	})
	if err != nil {
		return nil, err
	}
	out := make([]hostapp.Installation, 0, len(payload))
	for _, inst := range payload {
		out = append(out, inst.ToInstallation())
	}
	return out, nil
}

func (b *Bridge) Dispatch(ctx context.Context, req action.Request) error {
	body, err := action.EncodeRequest(req)
	if err != nil {
		return err
	}
	return b.do(ctx, http.MethodPost, PathDispatch, req.ID, body, func(resp *http.Response) error {
		switch resp.StatusCode {
		case http.StatusOK, http.StatusAccepted, http.StatusNoContent:
			return nil
		default:
			return statusError(PathDispatch, resp)
		}
	})
}

// Query returns nil with no error when the host answers 204.
func (b *Bridge) Query(ctx context.Context, req action.Request) (*action.Response, error) {
	body, err := action.EncodeRequest(req)
	if err != nil {
		return nil, err
	}
	var out *action.Response
	err = b.do(ctx, http.MethodPost, PathQuery, req.ID, body, func(resp *http.Response) error {
		switch resp.StatusCode {
		case http.StatusNoContent:
			out = nil
			return nil
		case http.StatusOK:
			data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			if err != nil {
				return err
			}
			decoded, err := action.DecodeResponse(data)
			if err != nil {
				return permanent{err}
			}
			out = decoded
			return nil
		default:
			return statusError(PathQuery, resp)
		}
	})
	return out, err
}

// permanent marks an error that must not be retried.
type permanent struct{ error }

func (p permanent) Unwrap() error { return p.error }

func (b *Bridge) do(ctx context.Context, method, path, requestID string, body []byte, handle func(*http.Response) error) error {
	target := b.base.JoinPath(path).String()
	var lastErr error
	for attempt := 1; attempt <= b.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := b.nextDelay(attempt - 1)
			b.logger.Debug().Str("endpoint", path).Int("attempt", attempt).Dur("delay", delay).Err(lastErr).Msg("bridge retry")
			if err := b.sleep(ctx, delay); err != nil {
				return errors.Join(lastErr, err)
			}
		}

		status, err := b.once(ctx, method, target, requestID, body, handle)
		observability.RecordBridgeAttempt(path, status, attempt > 1)
		if err == nil {
			return nil
		}
		var p permanent
		if errors.As(err, &p) {
			return p.error
		}
		lastErr = err
		if !retryable(ctx, err) {
			return err
		}
	}
	return lastErr
}

func (b *Bridge) once(ctx context.Context, method, target, requestID string, body []byte, handle func(*http.Response) error) (int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, permanent{err}
	}
	if body != nil {
		req.Header.Set("Content-Type", ContentTypeRecord)
	}
	if requestID != "" {
		req.Header.Set(RequestIDHeader, requestID)
	}
	if b.cfg.Token != "" {
		req.Header.Set(auth.Header, auth.Bearer(b.cfg.Token))
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, handle(resp)
}

func (b *Bridge) nextDelay(attempt int) time.Duration {
	b.rngMu.Lock()
	defer b.rngMu.Unlock()
	return NextBackoffDelay(b.cfg.Backoff, attempt, b.rng)
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	var ue *url.Error
	return errors.As(err, &ue)
}

func statusError(endpoint string, resp *http.Response) error {
	var body ErrorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	return &StatusError{Endpoint: endpoint, Status: resp.StatusCode, Message: msg}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
