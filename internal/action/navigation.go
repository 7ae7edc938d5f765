package action

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/danmuck/locuslink/internal/geodata"
	"github.com/danmuck/locuslink/internal/hostapp"
)

func putTarget(req *Request, name string, lat, lon float64) error {
	if err := geodata.NewPoint(name, lat, lon).Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if name != "" {
		req.Extras.PutString(ExtraName, name)
	}
	req.Extras.PutFloat64(ExtraLatitude, lat)
	req.Extras.PutFloat64(ExtraLongitude, lon)
	return nil
}

func putPoint(req *Request, p geodata.Point) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	payload, err := geodata.EncodePoint(p)
	if err != nil {
		return err
	}
	req.PayloadKey = ExtraPointsData
	req.Payload = payload
	return nil
}

// StartNavigation starts navigation to a coordinate. name may be empty.
func (c *Client) StartNavigation(ctx context.Context, name string, lat, lon float64) error {
	return c.dispatch(ctx, hostapp.OpStartNavigation, KindActivity, ActionNavigationStart, func(req *Request) error {
		return putTarget(req, name, lat, lon)
	})
}

func (c *Client) NavigateToPoint(ctx context.Context, p geodata.Point) error {
	return c.dispatch(ctx, hostapp.OpStartNavigation, KindActivity, ActionNavigationStart, func(req *Request) error {
		return putPoint(req, p)
	})
}

// NavigateToAddress lets the host geocode a free-form address.
func (c *Client) NavigateToAddress(ctx context.Context, address string) error {
	return c.dispatch(ctx, hostapp.OpNavigateToAddress, KindActivity, ActionNavigationStart, func(req *Request) error {
		address = strings.TrimSpace(address)
		if address == "" {
			return fmt.Errorf("%w: empty address", ErrInvalidArgument)
		}
		req.Extras.PutString(ExtraAddressText, address)
		return nil
	})
}

func (c *Client) StartGuiding(ctx context.Context, name string, lat, lon float64) error {
	return c.dispatch(ctx, hostapp.OpStartGuiding, KindActivity, ActionGuidingStart, func(req *Request) error {
		return putTarget(req, name, lat, lon)
	})
}

func (c *Client) GuideToPoint(ctx context.Context, p geodata.Point) error {
	return c.dispatch(ctx, hostapp.OpStartGuiding, KindActivity, ActionGuidingStart, func(req *Request) error {
		return putPoint(req, p)
	})
}

// PickLocation opens the host's location picker.
func (c *Client) PickLocation(ctx context.Context) error {
	return c.dispatch(ctx, hostapp.OpPickLocation, KindActivity, ActionPickLocation, nil)
}

// AddWmsMap registers a WMS service with the host.
func (c *Client) AddWmsMap(ctx context.Context, rawURL string) error {
	return c.dispatch(ctx, hostapp.OpAddWmsMap, KindActivity, ActionAddNewWmsMap, func(req *Request) error {
		u, err := url.Parse(strings.TrimSpace(rawURL))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: wms url %q", ErrInvalidArgument, rawURL)
		}
		req.Extras.PutString(ExtraAddNewWmsMapURL, u.String())
		return nil
	})
}

// RefreshPeriodicUpdateListeners asks the host to push a fresh update.
func (c *Client) RefreshPeriodicUpdateListeners(ctx context.Context) error {
	return c.dispatch(ctx, hostapp.OpRefreshPeriodicUpdates, KindBroadcast, ActionRefreshPeriodicUpdates, nil)
}
