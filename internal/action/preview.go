package action

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/danmuck/locuslink/internal/geodata"
)

const maxPreviewZoom = 22

// MapPreviewParams describes a rendered map excerpt.
type MapPreviewParams struct {
	Latitude  float64
	Longitude float64
	Zoom      int32
	Width     int32
	Height    int32
	TinyMode  bool
}

func (p MapPreviewParams) Validate() error {
	if err := geodata.NewPoint("", p.Latitude, p.Longitude).Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if p.Zoom < 0 || p.Zoom > maxPreviewZoom {
		return fmt.Errorf("%w: zoom %d", ErrInvalidArgument, p.Zoom)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidArgument, p.Width, p.Height)
	}
	return nil
}

// Selection renders the query selection understood by the host.
func (p MapPreviewParams) Selection() string {
	tiny := 0
	if p.TinyMode {
		tiny = 1
	}
	return fmt.Sprintf("lon=%s,lat=%s,zoom=%d,width=%d,height=%d,tinyMode=%d",
		strconv.FormatFloat(p.Longitude, 'f', -1, 64),
		strconv.FormatFloat(p.Latitude, 'f', -1, 64),
		p.Zoom, p.Width, p.Height, tiny)
}

// ParseMapPreviewSelection is the inverse of Selection.
func ParseMapPreviewSelection(sel string) (MapPreviewParams, error) {
	var (
		out  MapPreviewParams
		seen = make(map[string]bool, 6)
	)
	for _, part := range strings.Split(sel, ",") {
		key, raw, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return MapPreviewParams{}, fmt.Errorf("%w: selection part %q", ErrInvalidArgument, part)
		}
		var err error
		switch key {
		case "lon":
			out.Longitude, err = strconv.ParseFloat(raw, 64)
		case "lat":
			out.Latitude, err = strconv.ParseFloat(raw, 64)
		case "zoom":
			out.Zoom, err = parseInt32(raw)
		case "width":
			out.Width, err = parseInt32(raw)
		case "height":
			out.Height, err = parseInt32(raw)
		case "tinyMode":
			out.TinyMode = raw == "1"
		default:
			continue
		}
		if err != nil {
			return MapPreviewParams{}, fmt.Errorf("%w: selection %s: %v", ErrInvalidArgument, key, err)
		}
		seen[key] = true
	}
	for _, key := range []string{"lon", "lat", "zoom", "width", "height"} {
		if !seen[key] {
			return MapPreviewParams{}, fmt.Errorf("%w: selection missing %s", ErrInvalidArgument, key)
		}
	}
	return out, out.Validate()
}

func parseInt32(raw string) (int32, error) {
	v, err := strconv.ParseInt(raw, 10, 32)
	return int32(v), err
}
