package action

import (
	"context"
	"fmt"
	"strings"

	"github.com/danmuck/locuslink/internal/hostapp"
)

// TrackRecordStart starts recording. An empty profile uses the host default.
func (c *Client) TrackRecordStart(ctx context.Context, profile string) error {
	return c.dispatch(ctx, hostapp.OpTrackRecord, KindBroadcast, ActionTrackRecordStart, func(req *Request) error {
		if profile = strings.TrimSpace(profile); profile != "" {
			req.Extras.PutString(ExtraTrackRecProfile, profile)
		}
		return nil
	})
}

func (c *Client) TrackRecordPause(ctx context.Context) error {
	return c.dispatch(ctx, hostapp.OpTrackRecord, KindBroadcast, ActionTrackRecordPause, nil)
}

// TrackRecordStop stops recording; autoSave skips the host's save dialog.
func (c *Client) TrackRecordStop(ctx context.Context, autoSave bool) error {
	return c.dispatch(ctx, hostapp.OpTrackRecord, KindBroadcast, ActionTrackRecordStop, func(req *Request) error {
		req.Extras.PutBool(ExtraTrackRecAutoSave, autoSave)
		return nil
	})
}

// AddWaypointOptions configures a waypoint added to the running recording.
// After, when set, overrides AutoSave: the host always opens the follow-up
// action instead of saving silently.
type AddWaypointOptions struct {
	Name     string
	AutoSave bool
	After    WaypointAction
}

func (c *Client) TrackRecordAddWaypoint(ctx context.Context, opts AddWaypointOptions) error {
	return c.dispatch(ctx, hostapp.OpTrackRecordAddWaypoint, KindBroadcast, ActionTrackRecordAddWaypoint, func(req *Request) error {
		if name := strings.TrimSpace(opts.Name); name != "" {
			req.Extras.PutString(ExtraName, name)
		}
		if opts.After == "" {
			req.Extras.PutBool(ExtraTrackRecAutoSave, opts.AutoSave)
			return nil
		}
		if !opts.After.Valid() {
			return fmt.Errorf("%w: waypoint action %q", ErrInvalidArgument, opts.After)
		}
		req.Extras.PutBool(ExtraTrackRecAutoSave, false)
		req.Extras.PutString(ExtraTrackRecActAfter, string(opts.After))
		return nil
	})
}
