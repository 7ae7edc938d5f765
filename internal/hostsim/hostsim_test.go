package hostsim

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danmuck/locuslink/internal/action"
	"github.com/danmuck/locuslink/internal/config"
	"github.com/danmuck/locuslink/internal/geodata"
	"github.com/danmuck/locuslink/internal/hostapp"
	"github.com/danmuck/locuslink/internal/testutil/testlog"
	"github.com/danmuck/locuslink/internal/testutil/tlstest"
	"github.com/danmuck/locuslink/internal/transport/httpbridge"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	server *Server
	client *action.Client
	bridge *httpbridge.Bridge
}

func newFixture(t *testing.T, mutate func(*config.HostSimConfig)) fixture {
	t.Helper()
	logger := testlog.Start(t)
	cfg := config.DefaultHostSimConfig()
	cfg.MissingTiles = 8
	if mutate != nil {
		mutate(&cfg)
	}
	srv := NewServer(cfg, logger)
	ts := httptest.NewServer(srv.HTTPRouter())
	t.Cleanup(ts.Close)

	bridge, err := httpbridge.New(httpbridge.Config{BaseURL: ts.URL, MaxAttempts: 1}, httpbridge.WithLogger(logger))
	require.NoError(t, err)
	resolver := hostapp.NewResolver(bridge, hostapp.WithLogger(logger))
	return fixture{
		server: srv,
		client: action.NewClient(resolver, bridge, action.WithLogger(logger)),
		bridge: bridge,
	}
}

func TestBridgeDiscoversSimulatedHost(t *testing.T) {
	f := newFixture(t, nil)
	found, err := f.bridge.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, hostapp.FlavorPro, found[0].Flavor)
	assert.Equal(t, "menion.android.locus.pro", found[0].PackageName)
	assert.Equal(t, hostapp.VersionUpdate13, found[0].VersionCode)
}

func TestDisplayThenGetPoint(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	summit := geodata.NewPoint("Summit", 46.5, 11.3)
	summit.SetAltitude(3340)
	require.NoError(t, f.client.DisplayPoints(ctx, []geodata.Point{summit}, action.DisplayCenter))

	ids, err := f.client.GetPointIDs(ctx, "summit")
	require.NoError(t, err)
	require.Len(t, ids, 1)

	got, err := f.client.GetPoint(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "Summit", got.Name)
	assert.Equal(t, 46.5, got.Latitude)
	assert.True(t, got.HasAltitude)

	snap := f.server.Host().Snapshot()
	assert.Equal(t, 46.5, snap.MapCenterLatitude)
	assert.Equal(t, 11.3, snap.MapCenterLongitude)

	got.Name = "Summit Cross"
	n, err := f.client.UpdatePoint(ctx, *got, false, false)
	require.NoError(t, err)
	assert.Equal(t, int32(1), n)
	again, err := f.client.GetPoint(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "Summit Cross", again.Name)

	require.NoError(t, f.client.RemoveDataSilently(ctx, ids))
	_, err = f.client.GetPoint(ctx, ids[0])
	assert.True(t, action.IsNoData(err), "got %v", err)
}

func TestUnknownIDsAreNoData(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.client.GetPoint(ctx, 999)
	var nd *action.NoDataError
	require.ErrorAs(t, err, &nd)
	assert.Equal(t, action.KeyPoint, nd.Key)

	_, err = f.client.GetTrack(ctx, 999)
	assert.True(t, action.IsNoData(err))

	state, err := f.client.GetItemPurchaseState(ctx, 5)
	assert.True(t, action.IsNoData(err))
	assert.Equal(t, action.PurchaseUnknown, state)

	f.server.Host().SetPurchaseState(5, action.PurchasePurchased)
	state, err = f.client.GetItemPurchaseState(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, action.PurchasePurchased, state)

	n, err := f.client.UpdatePoint(ctx, geodata.NewPoint("missing", 1, 1), false, false)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTrackRecordingTransitions(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	host := f.server.Host()

	profiles, err := f.client.GetTrackRecordProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "Walk", profiles[0].Name)

	require.NoError(t, f.client.TrackRecordStart(ctx, "Walk"))
	assert.Equal(t, RecRecording, host.RecorderState())
	host.SetLocation(46.0, 11.0)

	state, err := f.client.GetUpdateContainer(ctx)
	require.NoError(t, err)
	assert.True(t, state.TrackRecRecording)
	assert.Equal(t, "Walk", state.TrackRecProfileName)

	require.NoError(t, f.client.TrackRecordPause(ctx))
	assert.Equal(t, RecPaused, host.RecorderState())

	err = f.client.TrackRecordPause(ctx)
	var se *httpbridge.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusConflict, se.Status)

	require.NoError(t, f.client.TrackRecordStart(ctx, ""))
	assert.Equal(t, RecRecording, host.RecorderState())
	require.NoError(t, f.client.TrackRecordAddWaypoint(ctx, action.AddWaypointOptions{Name: "Hut", After: action.WaypointPhoto}))

	require.NoError(t, f.client.TrackRecordStop(ctx, true))
	assert.Equal(t, RecIdle, host.RecorderState())

	tracks := host.Tracks()
	require.Len(t, tracks, 1)
	assert.Equal(t, 2, tracks[0].Len())

	got, err := f.client.GetTrack(ctx, tracks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, tracks[0].Name, got.Name)

	err = f.client.TrackRecordStop(ctx, false)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusConflict, se.Status)
}

func TestTrackRecordUnknownProfile(t *testing.T) {
	f := newFixture(t, nil)
	err := f.client.TrackRecordStart(context.Background(), "Skydive")
	var se *httpbridge.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Status)
	assert.Equal(t, RecIdle, f.server.Host().RecorderState())
}

func TestMapPreviewMissingTilesDrain(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	params := action.MapPreviewParams{Latitude: 50.08, Longitude: 14.42, Zoom: 14, Width: 64, Height: 48}

	want := []int32{8, 4, 2, 1, 0}
	for i, tiles := range want {
		res, err := f.client.GetMapPreview(ctx, params)
		require.NoError(t, err, "call %d", i)
		assert.Equal(t, tiles, res.NotYetLoadedTiles, "call %d", i)
		require.True(t, res.Valid())

		cfg, err := png.DecodeConfig(bytes.NewReader(res.Image))
		require.NoError(t, err)
		assert.Equal(t, 64, cfg.Width)
		assert.Equal(t, 48, cfg.Height)
	}

	params.TinyMode = true
	res, err := f.client.GetMapPreview(ctx, params)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(res.Image))
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Width)
}

func TestAppInfoReflectsConfig(t *testing.T) {
	f := newFixture(t, func(c *config.HostSimConfig) {
		c.VersionName = "4.1.2"
	})
	ctx := context.Background()
	info, err := f.client.GetAppInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "menion.android.locus.pro", info.PackageName)
	assert.Equal(t, "4.1.2", info.VersionName)
	assert.False(t, info.PeriodicUpdatesEnabled)

	require.NoError(t, f.client.RefreshPeriodicUpdateListeners(ctx))
	info, err = f.client.GetAppInfo(ctx)
	require.NoError(t, err)
	assert.True(t, info.PeriodicUpdatesEnabled)
}

func TestOldHostRejectedBeforeTransport(t *testing.T) {
	f := newFixture(t, func(c *config.HostSimConfig) {
		c.VersionCode = hostapp.VersionUpdate05
	})
	_, err := f.client.GetAppInfo(context.Background())
	var ce *hostapp.CapabilityError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, hostapp.VersionUpdate13, ce.RequiredVersion)
	assert.Empty(t, f.server.Deliveries().List())
}

func TestNavigationSetsGuide(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.server.Host().SetLocation(46.0, 11.0)

	require.NoError(t, f.client.GuideToPoint(ctx, geodata.NewPoint("Lake", 46.01, 11.0)))
	snap := f.server.Host().Snapshot()
	assert.True(t, snap.GuideActive)
	assert.Equal(t, "Lake", snap.GuideTargetName)
	assert.InDelta(t, 1112, snap.GuideDistanceToTarget, 5)

	require.NoError(t, f.client.NavigateToAddress(ctx, "Wenceslas Square, Prague"))
	assert.Equal(t, "Wenceslas Square, Prague", f.server.Host().Snapshot().GuideTargetName)
}

func TestDispatchIsIdempotentPerRequestID(t *testing.T) {
	f := newFixture(t, nil)
	payload, err := geodata.EncodePoints([]geodata.Point{geodata.NewPoint("A", 1, 2)})
	require.NoError(t, err)
	body, err := action.EncodeRequest(action.Request{
		ID:         "req-1",
		Kind:       action.KindBroadcast,
		Action:     action.ActionDisplayDataSilently,
		Address:    "menion.android.locus.pro",
		PayloadKey: action.ExtraPointsDataArray,
		Payload:    payload,
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, httpbridge.PathDispatch, bytes.NewReader(body))
		req.Header.Set(httpbridge.RequestIDHeader, "req-1")
		rr := httptest.NewRecorder()
		f.server.HTTPRouter().ServeHTTP(rr, req)
		require.Equal(t, http.StatusNoContent, rr.Code, "attempt %d body=%s", i, rr.Body.String())
	}

	ids, err := f.client.GetPointIDs(context.Background(), "A")
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	d, ok := f.server.Deliveries().Get("req-1")
	require.True(t, ok)
	assert.Equal(t, 2, d.Attempts)
	assert.True(t, d.Applied)
}

func TestDispatchRejectsMalformedAndForeignRequests(t *testing.T) {
	f := newFixture(t, nil)
	router := f.server.HTTPRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, httpbridge.PathDispatch, bytes.NewReader([]byte{0, 0})))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var body httpbridge.ErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)

	foreign, err := action.EncodeRequest(action.Request{
		ID:      "req-2",
		Kind:    action.KindActivity,
		Action:  action.ActionPickLocation,
		Address: "menion.android.locus.gis",
	})
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, httpbridge.PathDispatch, bytes.NewReader(foreign)))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	d, ok := f.server.Deliveries().Get("req-2")
	require.True(t, ok)
	assert.False(t, d.Applied)
	assert.NotEmpty(t, d.LastError)
}

func TestValidateSchema(t *testing.T) {
	req := action.Request{Kind: action.KindActivity, Action: action.ActionAddNewWmsMap, Address: "x"}
	err := Validate(req)
	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, action.ExtraAddNewWmsMapURL, verr.Key)

	req.Extras.PutInt32(action.ExtraAddNewWmsMapURL, 7)
	require.ErrorAs(t, Validate(req), &verr)
	assert.Contains(t, verr.Reason, "type mismatch")

	req = action.Request{Kind: action.KindBroadcast, Action: action.ActionDisplayData, Address: "x"}
	require.ErrorAs(t, Validate(req), &verr)

	req = action.Request{Kind: action.KindActivity, Action: action.ActionNavigationStart, Address: "x"}
	req.Extras.PutString(action.ExtraAddressText, "Prague")
	assert.NoError(t, Validate(req))
}

func TestRecorderStateMachine(t *testing.T) {
	var r Recorder
	assert.ErrorIs(t, r.Pause(), ErrInvalidTransition)
	_, err := r.Stop()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, r.Start("Cycle", fixedTime()))
	assert.ErrorIs(t, r.Start("Cycle", fixedTime()), ErrInvalidTransition)
	r.Track(geodata.NewPoint("", 1, 1))
	require.NoError(t, r.Pause())
	r.Track(geodata.NewPoint("", 2, 2))
	require.NoError(t, r.AddWaypoint(geodata.NewPoint("w", 3, 3)))

	track, err := r.Stop()
	require.NoError(t, err)
	assert.Equal(t, 2, track.Len())
	assert.Contains(t, track.Name, "Cycle")
	assert.Equal(t, RecIdle, r.State())
	assert.Empty(t, r.Profile())
}

func TestDeliveryLogEvictsOldest(t *testing.T) {
	l := NewDeliveryLog(2)
	base := fixedTime()
	l.Seen("a", "x", base)
	l.Seen("b", "x", base.Add(1))
	l.Seen("c", "x", base.Add(2))

	_, ok := l.Get("a")
	assert.False(t, ok)
	list := l.List()
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].RequestID)
	assert.Equal(t, "c", list[1].RequestID)
}

func fixedTime() time.Time {
	return time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
}

func TestBridgeTokenRequiredWhenConfigured(t *testing.T) {
	logger := testlog.Start(t)
	cfg := config.DefaultHostSimConfig()
	cfg.AuthToken = "s3cret"
	srv := NewServer(cfg, logger)
	ts := httptest.NewServer(srv.HTTPRouter())
	t.Cleanup(ts.Close)

	anon, err := httpbridge.New(httpbridge.Config{BaseURL: ts.URL, MaxAttempts: 1})
	require.NoError(t, err)
	_, err = anon.Discover(context.Background())
	var se *httpbridge.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Status)

	authed, err := httpbridge.New(httpbridge.Config{BaseURL: ts.URL, Token: "s3cret", MaxAttempts: 1})
	require.NoError(t, err)
	found, err := authed.Discover(context.Background())
	require.NoError(t, err)
	assert.Len(t, found, 1)

	rr := httptest.NewRecorder()
	srv.HTTPRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestBridgeOverMutualTLS(t *testing.T) {
	logger := testlog.Start(t)
	ca := tlstest.NewAuthority(t, t.TempDir())

	cfg := config.DefaultHostSimConfig()
	cfg.TLS = ca.HostTLS(t, true)
	srv := NewServer(cfg, logger)
	tlsCfg, err := srv.TLSConfig()
	require.NoError(t, err)
	require.NotNil(t, tlsCfg)

	ts := httptest.NewUnstartedServer(srv.HTTPRouter())
	ts.TLS = tlsCfg
	ts.StartTLS()
	t.Cleanup(ts.Close)

	trusted, err := httpbridge.New(httpbridge.Config{
		BaseURL:     ts.URL,
		MaxAttempts: 1,
		TLS:         ca.ClientTLS(t, true),
	}, httpbridge.WithLogger(logger))
	require.NoError(t, err)
	found, err := trusted.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, cfg.Package, found[0].PackageName)

	anonymous, err := httpbridge.New(httpbridge.Config{
		BaseURL:     ts.URL,
		MaxAttempts: 1,
		TLS:         ca.ClientTLS(t, false),
	}, httpbridge.WithLogger(logger))
	require.NoError(t, err)
	_, err = anonymous.Discover(context.Background())
	assert.Error(t, err)

	_, err = httpbridge.New(httpbridge.Config{
		BaseURL: "http://127.0.0.1:1",
		TLS:     ca.ClientTLS(t, false),
	})
	assert.ErrorIs(t, err, httpbridge.ErrBadBaseURL)
}
