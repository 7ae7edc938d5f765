package hostsim

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/danmuck/locuslink/internal/action"
	"github.com/danmuck/locuslink/internal/geodata"
	"github.com/danmuck/locuslink/internal/hostapp"
)

// Answer serves one query or update request. A nil response means the host
// has nothing under the requested key.
func (h *Host) Answer(req action.Request) (*action.Response, error) {
	if req.Kind != action.KindQuery && req.Kind != action.KindUpdate {
		return nil, ValidationError{Action: req.Action, Reason: fmt.Sprintf("kind %s is not a query", req.Kind)}
	}
	flavor, provider, segments, err := hostapp.SplitAddress(req.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownRoute, err)
	}
	if flavor != h.cfg.Flavor {
		return nil, fmt.Errorf("%w: %s authority", ErrWrongHost, flavor)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRoute, req.Address)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	switch provider {
	case hostapp.ProviderData:
		return h.answerDataLocked(req, segments)
	case hostapp.ProviderMapTools:
		if segments[0] == hostapp.PathMapPreview {
			return h.previewLocked(req.Selection)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownRoute, req.Address)
}

func (h *Host) answerDataLocked(req action.Request, segments []string) (*action.Response, error) {
	switch segments[0] {
	case hostapp.PathWaypoint:
		if req.Kind == action.KindUpdate {
			return h.updatePointLocked(req)
		}
		if req.Selection == action.SelectionGetWaypointID {
			name, _ := req.Extras.String(action.ExtraName)
			return &action.Response{Key: action.KeyPointIDs, Value: action.Int64sValue(h.pointIDsLocked(name))}, nil
		}
		id, err := idSegment(segments)
		if err != nil {
			return nil, err
		}
		p, ok := h.points[id]
		if !ok {
			return nil, nil
		}
		return respond(action.KeyPoint)(geodata.EncodePoint(p))
	case hostapp.PathTrack:
		id, err := idSegment(segments)
		if err != nil {
			return nil, err
		}
		t, ok := h.tracks[id]
		if !ok {
			return nil, nil
		}
		return respond(action.KeyTrack)(geodata.EncodeTrack(t))
	case hostapp.PathTrackRecProfile:
		return respond(action.KeyTrackRecProfile)(geodata.EncodeProfiles(h.profiles))
	case hostapp.PathItemPurchase:
		id, err := idSegment(segments)
		if err != nil {
			return nil, err
		}
		state, ok := h.purchases[id]
		if !ok {
			return nil, nil
		}
		return &action.Response{Key: action.KeyPurchaseState, Value: action.Int32Value(int32(state))}, nil
	case hostapp.PathData:
		if len(segments) < 2 {
			break
		}
		switch segments[1] {
		case action.KeyLocusInfo:
			return respond(action.KeyLocusInfo)(geodata.EncodeAppInfo(h.appInfoLocked()))
		case action.KeyUpdateContainer:
			return respond(action.KeyUpdateContainer)(geodata.EncodeUpdateContainer(h.snapshotLocked()))
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownRoute, strings.Join(segments, "/"))
}

func (h *Host) updatePointLocked(req action.Request) (*action.Response, error) {
	if req.PayloadKey != action.ExtraPointPayload {
		return nil, ValidationError{Action: req.Action, Key: req.PayloadKey, Reason: "unexpected payload key"}
	}
	p, err := geodata.DecodePoint(req.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	updated := int32(0)
	overwrite, _ := req.Extras.Bool(action.ExtraPointOverwrite)
	if _, ok := h.points[p.ID]; ok || (overwrite && p.ID > 0) {
		h.storePointLocked(*p)
		updated = 1
	}
	return &action.Response{Key: action.KeyPointUpdated, Value: action.Int32Value(updated)}, nil
}

func (h *Host) pointIDsLocked(name string) []int64 {
	var out []int64
	for id, p := range h.points {
		if strings.EqualFold(p.Name, name) {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (h *Host) appInfoLocked() geodata.AppInfo {
	return geodata.AppInfo{
		PackageName:            h.cfg.Package,
		VersionCode:            h.cfg.VersionCode,
		VersionName:            h.cfg.VersionName,
		Running:                true,
		RootDirectory:          "/sdcard/Locus",
		PeriodicUpdatesEnabled: h.refreshes > 0,
		UnitsLength:            geodata.UnitsMetric,
		UnitsAltitude:          geodata.UnitsMetric,
		UnitsSpeed:             geodata.UnitsMetric,
	}
}

func idSegment(segments []string) (int64, error) {
	if len(segments) < 2 {
		return 0, fmt.Errorf("%w: missing id", ErrUnknownRoute)
	}
	id, err := strconv.ParseInt(segments[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: id %q", ErrUnknownRoute, segments[1])
	}
	return id, nil
}

// respond wraps an encoder result into a response under key.
func respond(key string) func([]byte, error) (*action.Response, error) {
	return func(value []byte, err error) (*action.Response, error) {
		if err != nil {
			return nil, err
		}
		return &action.Response{Key: key, Value: value}, nil
	}
}
