package hostsim

import (
	"errors"
	"fmt"
	"time"

	"github.com/danmuck/locuslink/internal/geodata"
)

var ErrInvalidTransition = errors.New("hostsim: invalid track recording transition")

// RecState is the track recorder state.
type RecState int

const (
	RecIdle RecState = iota
	RecRecording
	RecPaused
)

func (s RecState) String() string {
	switch s {
	case RecRecording:
		return "recording"
	case RecPaused:
		return "paused"
	default:
		return "idle"
	}
}

// Recorder is the idle -> recording <-> paused -> idle state machine.
// It is not safe for concurrent use; the host guards it.
type Recorder struct {
	state     RecState
	profile   string
	startedAt time.Time
	points    []geodata.Point
	waypoints []geodata.Point
}

func (r *Recorder) State() RecState { return r.state }
func (r *Recorder) Profile() string { return r.profile }

// Start begins a recording, or resumes a paused one.
func (r *Recorder) Start(profile string, at time.Time) error {
	switch r.state {
	case RecIdle:
		r.state = RecRecording
		r.profile = profile
		r.startedAt = at
		r.points = nil
		r.waypoints = nil
		return nil
	case RecPaused:
		r.state = RecRecording
		return nil
	default:
		return fmt.Errorf("%w: start while %s", ErrInvalidTransition, r.state)
	}
}

func (r *Recorder) Pause() error {
	if r.state != RecRecording {
		return fmt.Errorf("%w: pause while %s", ErrInvalidTransition, r.state)
	}
	r.state = RecPaused
	return nil
}

// Track records a position while recording; paused or idle recorders drop it.
func (r *Recorder) Track(p geodata.Point) {
	if r.state == RecRecording {
		r.points = append(r.points, p)
	}
}

func (r *Recorder) AddWaypoint(p geodata.Point) error {
	if r.state == RecIdle {
		return fmt.Errorf("%w: waypoint while idle", ErrInvalidTransition)
	}
	r.waypoints = append(r.waypoints, p)
	return nil
}

// Stop ends the recording and returns the recorded track.
func (r *Recorder) Stop() (geodata.Track, error) {
	if r.state == RecIdle {
		return geodata.Track{}, fmt.Errorf("%w: stop while idle", ErrInvalidTransition)
	}
	track := geodata.Track{
		Name:        fmt.Sprintf("%s %s", r.profileName(), r.startedAt.UTC().Format("2006-01-02 15:04")),
		Description: fmt.Sprintf("%d waypoints", len(r.waypoints)),
		Points:      append(r.points, r.waypoints...),
	}
	*r = Recorder{}
	return track, nil
}

func (r *Recorder) profileName() string {
	if r.profile == "" {
		return "Track"
	}
	return r.profile
}
