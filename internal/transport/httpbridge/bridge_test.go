package httpbridge

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danmuck/locuslink/internal/action"
	"github.com/danmuck/locuslink/internal/hostapp"
	"github.com/danmuck/locuslink/internal/protocol/wire"
	"github.com/danmuck/locuslink/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextBackoffDelayDeterministicNoJitter(t *testing.T) {
	testlog.Start(t)
	cfg := BackoffConfig{
		InitialDelay: 250 * time.Millisecond,
		Multiplier:   2.0,
		MaxDelay:     5 * time.Second,
		Jitter:       false,
	}
	if got := NextBackoffDelay(cfg, 1, nil); got != 250*time.Millisecond {
		t.Fatalf("attempt1 got=%v", got)
	}
	if got := NextBackoffDelay(cfg, 2, nil); got != 500*time.Millisecond {
		t.Fatalf("attempt2 got=%v", got)
	}
	if got := NextBackoffDelay(cfg, 6, nil); got != 5*time.Second {
		t.Fatalf("attempt6 got=%v", got)
	}
}

func TestNextBackoffDelayJitterRange(t *testing.T) {
	testlog.Start(t)
	cfg := BackoffConfig{
		InitialDelay: 250 * time.Millisecond,
		Multiplier:   2.0,
		MaxDelay:     5 * time.Second,
		Jitter:       true,
	}
	rng := rand.New(rand.NewSource(7))
	got := NextBackoffDelay(cfg, 2, rng)
	if got < 250*time.Millisecond || got > 750*time.Millisecond {
		t.Fatalf("jitter out of range: %v", got)
	}
}

func newTestBridge(t *testing.T, h http.Handler, attempts int) (*Bridge, *[]time.Duration) {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	b, err := New(Config{
		BaseURL:     ts.URL,
		MaxAttempts: attempts,
		Backoff:     BackoffConfig{InitialDelay: 10 * time.Millisecond, Multiplier: 2},
	}, WithLogger(testlog.Start(t)))
	require.NoError(t, err)
	var slept []time.Duration
	b.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return b, &slept
}

func pointQuery() action.Request {
	return action.Request{
		ID:      "req-7",
		Kind:    action.KindQuery,
		Action:  action.ActionQuery,
		Address: "content://menion.android.locus.pro.LocusDataProvider/waypoint/7",
	}
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:9300", "ftp://host", "http://"} {
		_, err := New(Config{BaseURL: raw})
		assert.ErrorIs(t, err, ErrBadBaseURL, raw)
	}
}

func TestDiscoverDecodesInstallations(t *testing.T) {
	b, _ := newTestBridge(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathInstallations, r.URL.Path)
		_ = json.NewEncoder(w).Encode([]Installation{
			{Flavor: "pro", Package: "menion.android.locus.pro", VersionCode: 602},
			{Flavor: "beta", Package: "menion.android.locus.beta", VersionCode: 700},
		})
	}), 1)

	got, err := b.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, hostapp.FlavorPro, got[0].Flavor)
	assert.Equal(t, int32(602), got[0].VersionCode)
	assert.Equal(t, hostapp.FlavorUnknown, got[1].Flavor)

	r := hostapp.NewResolver(b)
	hosts, err := r.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, hosts, 1)
}

func TestQueryRetriesUnavailableHost(t *testing.T) {
	var calls atomic.Int32
	value := action.Int32Value(1)
	b, slept := newTestBridge(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-7", r.Header.Get(RequestIDHeader))
		assert.Equal(t, ContentTypeRecord, r.Header.Get("Content-Type"))
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		if req, err := action.DecodeRequest(raw); assert.NoError(t, err) {
			assert.Equal(t, "req-7", req.ID)
		}
		body, _ := action.EncodeResponse(action.Response{Key: action.KeyPoint, Value: value})
		w.Header().Set("Content-Type", ContentTypeRecord)
		_, _ = w.Write(body)
	}), 3)

	resp, err := b.Query(context.Background(), pointQuery())
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, action.KeyPoint, resp.Key)
	assert.Equal(t, value, resp.Value)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, *slept)
}

func TestQueryGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	b, _ := newTestBridge(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}), 2)

	_, err := b.Query(context.Background(), pointQuery())
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.Status)
	assert.Equal(t, int32(2), calls.Load())
}

func TestQueryNoContentIsAbsent(t *testing.T) {
	b, _ := newTestBridge(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), 1)
	resp, err := b.Query(context.Background(), pointQuery())
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	b, slept := newTestBridge(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(ErrorBody{Error: "pause while idle"})
	}), 3)

	err := b.Dispatch(context.Background(), action.Request{
		ID:      "req-1",
		Kind:    action.KindBroadcast,
		Action:  action.ActionTrackRecordPause,
		Address: "menion.android.locus.pro",
	})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusConflict, se.Status)
	assert.Equal(t, "pause while idle", se.Message)
	assert.False(t, se.Retryable())
	assert.Equal(t, int32(1), calls.Load())
	assert.Empty(t, *slept)
}

func TestMalformedResponseIsPermanent(t *testing.T) {
	var calls atomic.Int32
	b, _ := newTestBridge(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte{0, 0, 0, 0, 0, 0, 0, 9, 1})
	}), 3)

	_, err := b.Query(context.Background(), pointQuery())
	require.Error(t, err)
	var perm permanent
	assert.False(t, errors.As(err, &perm))
	var under *wire.UnderflowError
	assert.ErrorAs(t, err, &under)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRetryStopsWhenContextEnds(t *testing.T) {
	b, _ := newTestBridge(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}), 5)
	ctx, cancel := context.WithCancel(context.Background())
	b.sleep = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := b.Query(ctx, pointQuery())
	assert.ErrorIs(t, err, context.Canceled)
	var se *StatusError
	assert.ErrorAs(t, err, &se)
}
