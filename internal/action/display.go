package action

import (
	"context"
	"fmt"

	"github.com/danmuck/locuslink/internal/geodata"
	"github.com/danmuck/locuslink/internal/hostapp"
)

// DisplayMode controls what the host does with displayed data.
type DisplayMode int

const (
	DisplayNone DisplayMode = iota
	DisplayCenter
	DisplayImport
)

func (m DisplayMode) apply(req *Request) {
	req.Extras.PutBool(ExtraCenterOnData, m == DisplayCenter)
	if req.Kind == KindActivity {
		req.Extras.PutBool(ExtraCallImport, m == DisplayImport)
	}
}

func validatePoints(points []geodata.Point) error {
	if len(points) == 0 {
		return fmt.Errorf("%w: no points", ErrInvalidArgument)
	}
	for i := range points {
		if err := points[i].Validate(); err != nil {
			return fmt.Errorf("%w: point %d: %v", ErrInvalidArgument, i, err)
		}
	}
	return nil
}

func validateTracks(tracks []geodata.Track) error {
	if len(tracks) == 0 {
		return fmt.Errorf("%w: no tracks", ErrInvalidArgument)
	}
	for i := range tracks {
		if err := tracks[i].Validate(); err != nil {
			return fmt.Errorf("%w: track %d: %v", ErrInvalidArgument, i, err)
		}
	}
	return nil
}

// DisplayPoints shows points on the host map in the foreground.
func (c *Client) DisplayPoints(ctx context.Context, points []geodata.Point, mode DisplayMode) error {
	return c.displayPoints(ctx, hostapp.OpDisplayData, KindActivity, ActionDisplayData, points, mode)
}

// DisplayPointsSilently sends points without bringing the host forward.
func (c *Client) DisplayPointsSilently(ctx context.Context, points []geodata.Point, center bool) error {
	mode := DisplayNone
	if center {
		mode = DisplayCenter
	}
	return c.displayPoints(ctx, hostapp.OpDisplayDataSilently, KindBroadcast, ActionDisplayDataSilently, points, mode)
}

func (c *Client) displayPoints(ctx context.Context, op hostapp.Operation, kind Kind, act string, points []geodata.Point, mode DisplayMode) error {
	return c.dispatch(ctx, op, kind, act, func(req *Request) error {
		if err := validatePoints(points); err != nil {
			return err
		}
		payload, err := geodata.EncodePoints(points)
		if err != nil {
			return err
		}
		req.PayloadKey = ExtraPointsDataArray
		req.Payload = payload
		mode.apply(req)
		return nil
	})
}

// DisplayTracks shows tracks on the host map in the foreground.
func (c *Client) DisplayTracks(ctx context.Context, tracks []geodata.Track, mode DisplayMode) error {
	return c.displayTracks(ctx, hostapp.OpDisplayData, KindActivity, ActionDisplayData, tracks, mode)
}

func (c *Client) DisplayTracksSilently(ctx context.Context, tracks []geodata.Track, center bool) error {
	mode := DisplayNone
	if center {
		mode = DisplayCenter
	}
	return c.displayTracks(ctx, hostapp.OpDisplayDataSilently, KindBroadcast, ActionDisplayDataSilently, tracks, mode)
}

func (c *Client) displayTracks(ctx context.Context, op hostapp.Operation, kind Kind, act string, tracks []geodata.Track, mode DisplayMode) error {
	return c.dispatch(ctx, op, kind, act, func(req *Request) error {
		if err := validateTracks(tracks); err != nil {
			return err
		}
		var (
			payload []byte
			err     error
		)
		if len(tracks) == 1 {
			req.PayloadKey = ExtraTracksSingle
			payload, err = geodata.EncodeTrack(tracks[0])
		} else {
			req.PayloadKey = ExtraTracksMulti
			payload, err = geodata.EncodeTracks(tracks)
		}
		if err != nil {
			return err
		}
		req.Payload = payload
		mode.apply(req)
		return nil
	})
}

// RemoveDataSilently removes previously displayed items by id.
func (c *Client) RemoveDataSilently(ctx context.Context, itemIDs []int64) error {
	return c.dispatch(ctx, hostapp.OpRemoveDataSilently, KindBroadcast, ActionRemoveDataSilently, func(req *Request) error {
		if len(itemIDs) == 0 {
			return fmt.Errorf("%w: no item ids", ErrInvalidArgument)
		}
		req.PayloadKey = ExtraItemsID
		req.Payload = Int64sValue(itemIDs)
		return nil
	})
}

// DisplayPointScreen opens the detail screen of a stored point.
func (c *Client) DisplayPointScreen(ctx context.Context, pointID int64) error {
	return c.dispatch(ctx, hostapp.OpDisplayPointScreen, KindActivity, ActionDisplayPointScreen, func(req *Request) error {
		req.Extras.PutInt64(ExtraItemID, pointID)
		return nil
	})
}

func (c *Client) DisplayStoreItem(ctx context.Context, itemID int64) error {
	return c.dispatch(ctx, hostapp.OpDisplayStoreItem, KindActivity, ActionDisplayStoreItem, func(req *Request) error {
		req.Extras.PutInt64(ExtraItemID, itemID)
		return nil
	})
}
