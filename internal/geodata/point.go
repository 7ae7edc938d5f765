package geodata

import (
	"errors"
	"fmt"
	"math"

	"github.com/danmuck/locuslink/internal/protocol/record"
	"github.com/danmuck/locuslink/internal/protocol/wire"
)

var ErrInvalidCoordinates = errors.New("geodata: invalid coordinates")

// Point is a single geospatial waypoint.
type Point struct {
	ID          int64
	Name        string
	Description string
	Latitude    float64
	Longitude   float64
	HasAltitude bool
	Altitude    float64
	TimeMS      int64
	Extra       []byte
}

func NewPoint(name string, lat, lon float64) Point {
	return Point{Name: name, Latitude: lat, Longitude: lon}
}

func (p Point) HasExtra() bool {
	return len(p.Extra) > 0
}

// SetAltitude marks the altitude as known.
func (p *Point) SetAltitude(alt float64) {
	p.HasAltitude = true
	p.Altitude = alt
}

func (p Point) Validate() error {
	if math.IsNaN(p.Latitude) || p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v", ErrInvalidCoordinates, p.Latitude)
	}
	if math.IsNaN(p.Longitude) || p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v", ErrInvalidCoordinates, p.Longitude)
	}
	return nil
}

func (p *Point) RecordName() string   { return "point" }
func (p *Point) RecordVersion() int32 { return 2 }

func (p *Point) WriteFields(w *wire.Writer) {
	// v0
	w.Int64(p.ID)
	w.Str(p.Name)
	w.Float64(p.Latitude)
	w.Float64(p.Longitude)
	w.Blob(p.Extra)
	// v1
	w.Str(p.Description)
	w.Bool(p.HasAltitude)
	w.Float64(p.Altitude)
	// v2
	w.Int64(p.TimeMS)
}

func (p *Point) ReadFields(version int32, r *wire.Reader) error {
	p.ID = r.Int64()
	p.Name = r.Str()
	p.Latitude = r.Float64()
	p.Longitude = r.Float64()
	p.Extra = r.Blob()
	if version >= 1 {
		p.Description = r.Str()
		p.HasAltitude = r.Bool()
		p.Altitude = r.Float64()
	}
	if version >= 2 {
		p.TimeMS = r.Int64()
	}
	return r.Err()
}

func EncodePoint(p Point) ([]byte, error) {
	return record.Encode(&p)
}

func DecodePoint(data []byte) (*Point, error) {
	return record.Decode[Point](data)
}

func EncodePoints(points []Point) ([]byte, error) {
	return record.EncodeList(points)
}

func DecodePoints(data []byte) ([]Point, error) {
	return record.DecodeList[Point](data)
}
