package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/locuslink/internal/logging"
)

const usage = `usage: locusctl [-config path] <command> [flags]

commands:
  discover        list installed host apps in preference order
  check [op...]   evaluate operations against every installed host
  ops             print the operation gate table
  display-point   send one point to the active host
  trackrec        start|pause|stop|waypoint|profiles
  info            print host app info and runtime state
  preview         fetch a map preview into a png file
  decode          print a record file as JSON
`

func main() {
	fs := flag.NewFlagSet("locusctl", flag.ExitOnError)
	configPath := fs.String("config", "cmd/locusctl/config.toml", "client config path")
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	_ = fs.Parse(os.Args[1:])

	args := fs.Args()
	if len(args) == 0 {
		fs.Usage()
		os.Exit(2)
	}

	logging.ConfigureRuntime()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, args, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "locusctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, args []string, out io.Writer) error {
	cmd, rest := args[0], args[1:]
	if cmd == "decode" {
		return runDecode(rest, out)
	}
	if cmd == "ops" {
		return printOps(out)
	}

	app, err := newApp(configPath, out)
	if err != nil {
		return err
	}
	switch cmd {
	case "discover":
		return app.discover(ctx)
	case "check":
		return app.check(ctx, rest)
	case "display-point":
		return app.displayPoint(ctx, rest)
	case "trackrec":
		return app.trackRec(ctx, rest)
	case "info":
		return app.info(ctx)
	case "preview":
		return app.preview(ctx, rest)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}
