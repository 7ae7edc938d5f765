package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/danmuck/locuslink/internal/action"
	"github.com/danmuck/locuslink/internal/geodata"
	"github.com/danmuck/locuslink/internal/hostapp"
)

func (a *App) discover(ctx context.Context) error {
	hosts, err := a.resolver.Discover(ctx)
	if err != nil {
		return err
	}
	if len(hosts) == 0 {
		a.printf("no host app installed\n")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FLAVOR\tPACKAGE\tVERSION\tNAME")
	for _, h := range hosts {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", h.Flavor, h.PackageName, h.VersionCode, h.VersionName)
	}
	return tw.Flush()
}

// check evaluates ops (all registered ops when empty) against every host.
func (a *App) check(ctx context.Context, names []string) error {
	ops, err := selectOps(names)
	if err != nil {
		return err
	}
	hosts, err := a.resolver.Discover(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OPERATION\tHOST\tSTATE\tREQUIRED\tREASON")
	for _, op := range ops {
		if len(hosts) == 0 {
			c := hostapp.Evaluate(nil, op)
			fmt.Fprintf(tw, "%s\t-\t%s\t%d\t%s\n", op, c.State, c.RequiredVersion, c.Reason)
			continue
		}
		for i := range hosts {
			c := hostapp.Evaluate(&hosts[i], op)
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", op, hosts[i].Flavor, c.State, c.RequiredVersion, c.Reason)
		}
	}
	return tw.Flush()
}

func selectOps(names []string) ([]hostapp.Operation, error) {
	if len(names) == 0 {
		return hostapp.Operations(), nil
	}
	out := make([]hostapp.Operation, 0, len(names))
	for _, name := range names {
		op := hostapp.Operation(name)
		if _, ok := hostapp.GateFor(op); !ok {
			return nil, fmt.Errorf("%w: %s", hostapp.ErrUnknownOperation, name)
		}
		out = append(out, op)
	}
	return out, nil
}

func printOps(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OPERATION\tFREE/PRO\tGIS\tROUTE")
	for _, op := range hostapp.Operations() {
		g, _ := hostapp.GateFor(op)
		gis := "-"
		if g.MinVersionGis > 0 {
			gis = fmt.Sprint(g.MinVersionGis)
		}
		route := "dispatch"
		if !g.Dispatch() {
			route = g.Provider + "/" + g.Path
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", op, g.MinVersion, gis, route)
	}
	return tw.Flush()
}

func (a *App) displayPoint(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("display-point", flag.ContinueOnError)
	name := fs.String("name", "", "point name")
	lat := fs.Float64("lat", 0, "latitude")
	lon := fs.Float64("lon", 0, "longitude")
	alt := fs.Float64("alt", 0, "altitude in meters (0 = none)")
	desc := fs.String("desc", "", "description")
	silent := fs.Bool("silent", false, "broadcast without opening the host")
	center := fs.Bool("center", false, "center the map on the point")
	importIt := fs.Bool("import", false, "ask the host to import the point")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p := geodata.NewPoint(*name, *lat, *lon)
	p.Description = *desc
	if *alt != 0 {
		p.SetAltitude(*alt)
	}
	points := []geodata.Point{p}

	if *silent {
		if err := a.client.DisplayPointsSilently(ctx, points, *center); err != nil {
			return err
		}
	} else {
		mode := action.DisplayNone
		switch {
		case *importIt:
			mode = action.DisplayImport
		case *center:
			mode = action.DisplayCenter
		}
		if err := a.client.DisplayPoints(ctx, points, mode); err != nil {
			return err
		}
	}
	a.printf("displayed %q at %.6f,%.6f\n", p.Name, p.Latitude, p.Longitude)
	return nil
}

func (a *App) trackRec(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("trackrec: expected start|pause|stop|waypoint|profiles")
	}
	sub, rest := args[0], args[1:]
	fs := flag.NewFlagSet("trackrec "+sub, flag.ContinueOnError)
	profile := fs.String("profile", "", "recording profile (start)")
	autoSave := fs.Bool("autosave", false, "save without a dialog (stop, waypoint)")
	name := fs.String("name", "", "waypoint name (waypoint)")
	after := fs.String("after", "", "basic|audio|photo|video (waypoint)")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	var err error
	switch sub {
	case "start":
		err = a.client.TrackRecordStart(ctx, *profile)
	case "pause":
		err = a.client.TrackRecordPause(ctx)
	case "stop":
		err = a.client.TrackRecordStop(ctx, *autoSave)
	case "waypoint":
		err = a.client.TrackRecordAddWaypoint(ctx, action.AddWaypointOptions{
			Name:     *name,
			AutoSave: *autoSave,
			After:    action.WaypointAction(*after),
		})
	case "profiles":
		return a.profiles(ctx)
	default:
		return fmt.Errorf("trackrec: unknown subcommand %q", sub)
	}
	if err != nil {
		return err
	}
	a.printf("trackrec %s sent\n", sub)
	return nil
}

func (a *App) profiles(ctx context.Context) error {
	profiles, err := a.client.GetTrackRecordProfiles(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
	for _, p := range profiles {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", p.ID, p.Name, p.Description)
	}
	return tw.Flush()
}

func (a *App) info(ctx context.Context) error {
	info, err := a.client.GetAppInfo(ctx)
	if err != nil {
		return err
	}
	a.printf("package:   %s\n", info.PackageName)
	a.printf("version:   %s (%d)\n", info.VersionName, info.VersionCode)
	a.printf("running:   %t\n", info.Running)
	a.printf("root:      %s\n", info.RootDirectory)
	a.printf("periodic:  %t\n", info.PeriodicUpdatesEnabled)

	state, err := a.client.GetUpdateContainer(ctx)
	if action.IsNoData(err) {
		a.printf("state:     unavailable\n")
		return nil
	}
	if err != nil {
		return err
	}
	a.printf("location:  %.6f,%.6f gps=%t sats=%d/%d\n", state.MyLatitude, state.MyLongitude, state.GpsOn, state.GpsSatsUsed, state.GpsSatsAll)
	a.printf("map:       %.6f,%.6f zoom=%d\n", state.MapCenterLatitude, state.MapCenterLongitude, state.MapZoomLevel)
	a.printf("trackrec:  recording=%t paused=%t profile=%q\n", state.TrackRecRecording, state.TrackRecPaused, state.TrackRecProfileName)
	if state.GuideActive {
		a.printf("guiding:   %s %.0fm\n", state.GuideTargetName, state.GuideDistanceToTarget)
	}
	return nil
}

func (a *App) preview(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	lat := fs.Float64("lat", 0, "center latitude")
	lon := fs.Float64("lon", 0, "center longitude")
	zoom := fs.Int("zoom", 12, "zoom level")
	width := fs.Int("width", 256, "width in pixels")
	height := fs.Int("height", 256, "height in pixels")
	tiny := fs.Bool("tiny", false, "request tiny mode")
	out := fs.String("out", "preview.png", "output png path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := a.client.GetMapPreview(ctx, action.MapPreviewParams{
		Latitude:  *lat,
		Longitude: *lon,
		Zoom:      int32(*zoom),
		Width:     int32(*width),
		Height:    int32(*height),
		TinyMode:  *tiny,
	})
	if err != nil {
		return err
	}
	if !res.Valid() {
		a.printf("no image yet, %d tiles loading\n", res.NotYetLoadedTiles)
		return nil
	}
	if err := os.WriteFile(*out, res.Image, 0o644); err != nil {
		return err
	}
	a.printf("wrote %s (%d bytes, %d tiles loading)\n", *out, len(res.Image), res.NotYetLoadedTiles)
	return nil
}
