package action

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/danmuck/locuslink/internal/geodata"
	"github.com/danmuck/locuslink/internal/hostapp"
)

func idSuffix(id int64) []string {
	return []string{strconv.FormatInt(id, 10)}
}

// GetPoint loads one stored point by id.
func (c *Client) GetPoint(ctx context.Context, id int64) (*geodata.Point, error) {
	var out *geodata.Point
	err := c.query(ctx, hostapp.OpGetPoint, KindQuery, KeyPoint, idSuffix(id), nil, func(value []byte) (err error) {
		out, err = geodata.DecodePoint(value)
		return err
	})
	return out, err
}

// GetPointIDs returns the ids of stored points named name.
func (c *Client) GetPointIDs(ctx context.Context, name string) ([]int64, error) {
	var out []int64
	err := c.query(ctx, hostapp.OpGetPointIDs, KindQuery, KeyPointIDs, nil, func(req *Request) error {
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("%w: empty point name", ErrInvalidArgument)
		}
		req.Selection = SelectionGetWaypointID
		req.Extras.PutString(ExtraName, name)
		return nil
	}, func(value []byte) (err error) {
		out, err = decodeInt64sValue(value)
		return err
	})
	return out, err
}

// UpdatePoint replaces a stored point and returns the number of rows the
// host changed.
func (c *Client) UpdatePoint(ctx context.Context, p geodata.Point, overwrite, loadAllGcPoints bool) (int32, error) {
	var out int32
	err := c.query(ctx, hostapp.OpUpdatePoint, KindUpdate, KeyPointUpdated, idSuffix(p.ID), func(req *Request) error {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		payload, err := geodata.EncodePoint(p)
		if err != nil {
			return err
		}
		req.PayloadKey = ExtraPointPayload
		req.Payload = payload
		req.Extras.PutBool(ExtraPointOverwrite, overwrite)
		req.Extras.PutBool(ExtraLoadAllGcPoints, loadAllGcPoints)
		return nil
	}, func(value []byte) (err error) {
		out, err = decodeInt32Value(value)
		return err
	})
	return out, err
}

func (c *Client) GetTrack(ctx context.Context, id int64) (*geodata.Track, error) {
	var out *geodata.Track
	err := c.query(ctx, hostapp.OpGetTrack, KindQuery, KeyTrack, idSuffix(id), nil, func(value []byte) (err error) {
		out, err = geodata.DecodeTrack(value)
		return err
	})
	return out, err
}

// GetTrackRecordProfiles lists the host's recording profiles in host order.
func (c *Client) GetTrackRecordProfiles(ctx context.Context) ([]geodata.TrackRecordProfile, error) {
	var out []geodata.TrackRecordProfile
	err := c.query(ctx, hostapp.OpGetTrackRecordProfiles, KindQuery, KeyTrackRecProfile, nil, nil, func(value []byte) (err error) {
		out, err = geodata.DecodeProfiles(value)
		return err
	})
	return out, err
}

func (c *Client) GetAppInfo(ctx context.Context) (*geodata.AppInfo, error) {
	var out *geodata.AppInfo
	err := c.query(ctx, hostapp.OpGetAppInfo, KindQuery, KeyLocusInfo, []string{KeyLocusInfo}, nil, func(value []byte) (err error) {
		out, err = geodata.DecodeAppInfo(value)
		return err
	})
	return out, err
}

func (c *Client) GetUpdateContainer(ctx context.Context) (*geodata.UpdateContainer, error) {
	var out *geodata.UpdateContainer
	err := c.query(ctx, hostapp.OpGetUpdateContainer, KindQuery, KeyUpdateContainer, []string{KeyUpdateContainer}, nil, func(value []byte) (err error) {
		out, err = geodata.DecodeUpdateContainer(value)
		return err
	})
	return out, err
}

// GetMapPreview renders a map excerpt. A result with NotYetLoadedTiles > 0
// is partial; call again later for a complete image.
func (c *Client) GetMapPreview(ctx context.Context, params MapPreviewParams) (*geodata.BitmapLoadResult, error) {
	var out *geodata.BitmapLoadResult
	err := c.query(ctx, hostapp.OpGetMapPreview, KindQuery, KeyMapPreview, nil, func(req *Request) error {
		if err := params.Validate(); err != nil {
			return err
		}
		req.Selection = params.Selection()
		return nil
	}, func(value []byte) (err error) {
		out, err = geodata.DecodeBitmapLoadResult(value)
		return err
	})
	return out, err
}

// GetItemPurchaseState returns PurchaseUnknown with a *NoDataError when the
// host does not know the item.
func (c *Client) GetItemPurchaseState(ctx context.Context, itemID int64) (PurchaseState, error) {
	out := PurchaseUnknown
	err := c.query(ctx, hostapp.OpGetItemPurchaseState, KindQuery, KeyPurchaseState, idSuffix(itemID), nil, func(value []byte) error {
		v, err := decodeInt32Value(value)
		if err != nil {
			return err
		}
		out = PurchaseState(v)
		return nil
	})
	return out, err
}
