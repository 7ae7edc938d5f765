package hostsim

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/danmuck/locuslink/internal/action"
	"github.com/danmuck/locuslink/internal/config"
	"github.com/danmuck/locuslink/internal/geodata"
	"github.com/danmuck/locuslink/internal/hostapp"
	"github.com/danmuck/locuslink/internal/protocol/wire"
)

var (
	ErrNotFound      = errors.New("hostsim: not found")
	ErrWrongHost     = errors.New("hostsim: request addressed to another host")
	ErrUnknownRoute  = errors.New("hostsim: unknown provider route")
	ErrInvalidRecord = errors.New("hostsim: invalid payload")
)

const earthRadiusM = 6371000.0

// Host is the simulated host app state.
type Host struct {
	mu  sync.Mutex
	cfg config.HostSimConfig
	now func() time.Time

	points    map[int64]geodata.Point
	tracks    map[int64]geodata.Track
	nextID    int64
	profiles  []geodata.TrackRecordProfile
	purchases map[int64]action.PurchaseState
	wmsMaps   []string
	refreshes int

	recorder Recorder
	state    geodata.UpdateContainer
	guide    *geodata.Point
	pending  map[string]int32
}

func NewHost(cfg config.HostSimConfig) *Host {
	return &Host{
		cfg:       cfg,
		now:       time.Now,
		points:    make(map[int64]geodata.Point),
		tracks:    make(map[int64]geodata.Track),
		nextID:    1,
		profiles:  config.Profiles(cfg.Profiles),
		purchases: make(map[int64]action.PurchaseState),
		pending:   make(map[string]int32),
		state: geodata.UpdateContainer{
			MyLocationEnabled: true,
			GpsOn:             true,
			GpsSatsUsed:       8,
			GpsSatsAll:        12,
			MapZoomLevel:      12,
		},
	}
}

func (h *Host) Installation() hostapp.Installation {
	return h.cfg.HostInstallation()
}

func (h *Host) SetPurchaseState(itemID int64, state action.PurchaseState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.purchases[itemID] = state
}

// SetLocation moves the simulated device and feeds the recorder.
func (h *Host) SetLocation(lat, lon float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.MyLatitude = lat
	h.state.MyLongitude = lon
	p := geodata.NewPoint("", lat, lon)
	p.TimeMS = h.now().UnixMilli()
	h.recorder.Track(p)
	h.refreshGuideLocked()
}

// Snapshot returns the current runtime state.
func (h *Host) Snapshot() geodata.UpdateContainer {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked()
}

func (h *Host) snapshotLocked() geodata.UpdateContainer {
	out := h.state
	out.TrackRecRecording = h.recorder.State() == RecRecording
	out.TrackRecPaused = h.recorder.State() == RecPaused
	out.TrackRecProfileName = h.recorder.Profile()
	return out
}

func (h *Host) RecorderState() RecState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.recorder.State()
}

// Apply executes one dispatched request.
func (h *Host) Apply(req action.Request) error {
	if err := Validate(req); err != nil {
		return err
	}
	if req.Address != h.cfg.Package {
		return fmt.Errorf("%w: %s", ErrWrongHost, req.Address)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	switch req.Action {
	case action.ActionDisplayData, action.ActionDisplayDataSilently:
		return h.displayLocked(req)
	case action.ActionRemoveDataSilently:
		return h.removeLocked(req.Payload)
	case action.ActionNavigationStart, action.ActionGuidingStart:
		return h.guideLocked(req)
	case action.ActionAddNewWmsMap:
		u, _ := req.Extras.String(action.ExtraAddNewWmsMapURL)
		h.wmsMaps = append(h.wmsMaps, u)
		return nil
	case action.ActionDisplayPointScreen:
		id, _ := req.Extras.Int64(action.ExtraItemID)
		if _, ok := h.points[id]; !ok {
			return fmt.Errorf("%w: point %d", ErrNotFound, id)
		}
		return nil
	case action.ActionTrackRecordStart:
		profile, _ := req.Extras.String(action.ExtraTrackRecProfile)
		if profile != "" && !h.hasProfileLocked(profile) {
			return fmt.Errorf("%w: profile %q", ErrNotFound, profile)
		}
		return h.recorder.Start(profile, h.now())
	case action.ActionTrackRecordPause:
		return h.recorder.Pause()
	case action.ActionTrackRecordStop:
		return h.stopLocked(req)
	case action.ActionTrackRecordAddWaypoint:
		name, _ := req.Extras.String(action.ExtraName)
		if after, ok := req.Extras.String(action.ExtraTrackRecActAfter); ok && !action.WaypointAction(after).Valid() {
			return ValidationError{Action: req.Action, Key: action.ExtraTrackRecActAfter, Reason: "unknown waypoint action"}
		}
		p := geodata.NewPoint(name, h.state.MyLatitude, h.state.MyLongitude)
		p.TimeMS = h.now().UnixMilli()
		return h.recorder.AddWaypoint(p)
	case action.ActionRefreshPeriodicUpdates:
		h.refreshes++
		return nil
	default:
		// pick location and store item screens have no state to change
		return nil
	}
}

func (h *Host) displayLocked(req action.Request) error {
	var (
		points []geodata.Point
		tracks []geodata.Track
		err    error
	)
	switch req.PayloadKey {
	case action.ExtraPointsData:
		var p *geodata.Point
		if p, err = geodata.DecodePoint(req.Payload); err == nil {
			points = []geodata.Point{*p}
		}
	case action.ExtraPointsDataArray:
		points, err = geodata.DecodePoints(req.Payload)
	case action.ExtraTracksSingle:
		var t *geodata.Track
		if t, err = geodata.DecodeTrack(req.Payload); err == nil {
			tracks = []geodata.Track{*t}
		}
	case action.ExtraTracksMulti:
		tracks, err = geodata.DecodeTracks(req.Payload)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	for _, p := range points {
		h.storePointLocked(p)
	}
	for _, t := range tracks {
		h.storeTrackLocked(t)
	}
	if center, _ := req.Extras.Bool(action.ExtraCenterOnData); center {
		if lat, lon, ok := centerOf(points, tracks); ok {
			h.state.MapCenterLatitude = lat
			h.state.MapCenterLongitude = lon
		}
	}
	return nil
}

func (h *Host) storePointLocked(p geodata.Point) int64 {
	if p.ID <= 0 {
		p.ID = h.allocIDLocked()
	} else if p.ID >= h.nextID {
		h.nextID = p.ID + 1
	}
	h.points[p.ID] = p
	return p.ID
}

func (h *Host) storeTrackLocked(t geodata.Track) int64 {
	if t.ID <= 0 {
		t.ID = h.allocIDLocked()
	} else if t.ID >= h.nextID {
		h.nextID = t.ID + 1
	}
	h.tracks[t.ID] = t.Clone()
	return t.ID
}

func (h *Host) allocIDLocked() int64 {
	id := h.nextID
	h.nextID++
	return id
}

func (h *Host) removeLocked(payload []byte) error {
	r := wire.NewReader(payload)
	ids := r.Int64s()
	if err := r.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	for _, id := range ids {
		delete(h.points, id)
		delete(h.tracks, id)
	}
	return nil
}

func (h *Host) guideLocked(req action.Request) error {
	var target geodata.Point
	if req.PayloadKey == action.ExtraPointsData {
		p, err := geodata.DecodePoint(req.Payload)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
		target = *p
	} else if addr, ok := req.Extras.String(action.ExtraAddressText); ok {
		target = geodata.NewPoint(addr, h.state.MapCenterLatitude, h.state.MapCenterLongitude)
	} else {
		lat, _ := req.Extras.Float64(action.ExtraLatitude)
		lon, _ := req.Extras.Float64(action.ExtraLongitude)
		name, _ := req.Extras.String(action.ExtraName)
		target = geodata.NewPoint(name, lat, lon)
	}
	h.guide = &target
	h.refreshGuideLocked()
	return nil
}

func (h *Host) refreshGuideLocked() {
	if h.guide == nil {
		return
	}
	h.state.GuideActive = true
	h.state.GuideTargetName = h.guide.Name
	h.state.GuideDistanceToTarget = distance(h.state.MyLatitude, h.state.MyLongitude, h.guide.Latitude, h.guide.Longitude)
}

func (h *Host) stopLocked(req action.Request) error {
	track, err := h.recorder.Stop()
	if err != nil {
		return err
	}
	if autoSave, _ := req.Extras.Bool(action.ExtraTrackRecAutoSave); autoSave {
		h.storeTrackLocked(track)
	}
	return nil
}

func (h *Host) hasProfileLocked(name string) bool {
	for _, p := range h.profiles {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

// Tracks lists stored tracks by id.
func (h *Host) Tracks() []geodata.Track {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]geodata.Track, 0, len(h.tracks))
	for _, t := range h.tracks {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func centerOf(points []geodata.Point, tracks []geodata.Track) (float64, float64, bool) {
	var lat, lon float64
	n := 0
	add := func(p geodata.Point) {
		lat += p.Latitude
		lon += p.Longitude
		n++
	}
	for _, p := range points {
		add(p)
	}
	for _, t := range tracks {
		for _, p := range t.Points {
			add(p)
		}
	}
	if n == 0 {
		return 0, 0, false
	}
	return lat / float64(n), lon / float64(n), true
}

// distance is the haversine distance in meters.
func distance(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusM * math.Asin(math.Min(1, math.Sqrt(a)))
}
