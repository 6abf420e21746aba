// smart-dashboard is a dashboard shell that runs Android applications
// under Waydroid and shows their windows inside the dashboard.
//
// In compositor mode, enabled with --compositor or by setting
// DASHBOARD_COMPOSITOR, it runs a nested Wayland compositor and
// presents the surfaces of the applications it launches in its own
// window. Otherwise it finds the applications' windows on the host X
// server and reparents them into its window.
package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/patrick9487/Smart-dashboard/compositor"
	"github.com/patrick9487/Smart-dashboard/config"
	"github.com/patrick9487/Smart-dashboard/waydroid"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

//go:embed assets
var assets embed.FS

type options struct {
	configPath   string
	socket       string
	compositor   bool
	packages     []string
	hostWindow   uint32
	noWindow     bool
	logLevel     string
	pollInterval time.Duration
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var opts options
	flagSet := pflag.NewFlagSet("smart-dashboard", pflag.ContinueOnError)
	flagSet.StringVar(&opts.configPath, "config", "", "load the configuration from this file instead of the usual locations")
	flagSet.StringVar(&opts.socket, "socket", compositor.ChannelName(), "name or path of the nested compositor's socket")
	flagSet.BoolVar(&opts.compositor, "compositor", compositor.Enabled(), "embed applications through a nested Wayland compositor")
	flagSet.StringArrayVar(&opts.packages, "package", nil, "embed this package at startup (repeatable)")
	flagSet.Uint32Var(&opts.hostWindow, "host-window", 0, "X window to reparent applications into in overlay mode")
	flagSet.BoolVar(&opts.noWindow, "no-window", false, "do not open a dashboard window")
	flagSet.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flagSet.DurationVar(&opts.pollInterval, "poll-interval", waydroid.DefaultStatusInterval, "how often to check the Waydroid session")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		fmt.Fprintln(os.Stderr, "Usage: smart-dashboard [flags]")
		flagSet.SetOutput(os.Stderr)
		flagSet.PrintDefaults()
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	logger, err := newLogger(opts.logLevel)
	if err != nil {
		return err
	}

	candidates := config.DefaultCandidates(assets)
	if opts.configPath != "" {
		candidates = []config.Candidate{{Path: opts.configPath}}
	}
	cfg, _, err := config.Load(candidates, logger)
	if err != nil {
		return err
	}

	bundle, err := fs.Sub(assets, "assets")
	if err != nil {
		return err
	}
	if err := cfg.CheckHomePage(bundle); err != nil {
		return fmt.Errorf("UI bundle: %w", err)
	}
	layout, err := config.LoadLayout(bundle, cfg.HomePage)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := dashboard{
		opts:   opts,
		layout: layout,
		logger: logger,
	}
	if opts.compositor {
		err = d.runCompositor(ctx)
	} else {
		err = d.runOverlay(ctx)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// newLogger logs text to a terminal and JSON to anything else.
func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}

	var handler slog.Handler
	options := &slog.HandlerOptions{Level: l}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler), nil
}
