package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/patrick9487/Smart-dashboard/compositor"
	"github.com/patrick9487/Smart-dashboard/config"
	"github.com/patrick9487/Smart-dashboard/embedding"
	"github.com/patrick9487/Smart-dashboard/internal/loop"
	"github.com/patrick9487/Smart-dashboard/internal/poll"
	"github.com/patrick9487/Smart-dashboard/internal/x11"
	"github.com/patrick9487/Smart-dashboard/present"
	"github.com/patrick9487/Smart-dashboard/registry"
	"github.com/patrick9487/Smart-dashboard/waydroid"
	"golang.org/x/sync/errgroup"
)

type dashboard struct {
	opts   options
	layout *config.Layout
	logger *slog.Logger
}

func (d *dashboard) poller(client *waydroid.Client, sched poll.Scheduler, post func(func()) bool) *waydroid.Poller {
	return waydroid.NewPoller(waydroid.PollerConfig{
		Client:    client,
		Logger:    d.logger,
		Scheduler: sched,
		Post:      post,
		Interval:  d.opts.pollInterval,
		OnApps: func(apps []waydroid.AppEntry) {
			d.logger.Info("app list updated", "apps", len(apps))
			for _, app := range apps {
				d.logger.Debug("app", "label", app.Label, "package", app.Package)
			}
		},
	})
}

func (d *dashboard) onFailed(pkg string, err error) {
	d.logger.Error("could not embed application", "package", pkg, "err", err)
}

func (d *dashboard) runCompositor(ctx context.Context) error {
	comp := compositor.New(compositor.Config{
		Channel:    d.opts.socket,
		Logger:     d.logger,
		OutputSize: d.layout.Embed.Rect().Size(),
	})
	if err := comp.Start(); err != nil {
		return fmt.Errorf("start compositor: %w", err)
	}
	defer comp.Close()

	client := waydroid.New(waydroid.ExecRunner{
		Env: []string{"WAYLAND_DISPLAY=" + comp.SocketPath()},
	}, d.logger)

	view := present.NewView(d.layout.Embed.Rect())
	stage := present.NewStage(view, func(id registry.SurfaceID) present.Surface {
		if s := comp.Surface(id); s != nil {
			return s
		}
		return nil
	}, d.logger)
	manager := embedding.NewManager(embedding.Config{
		Host:      comp,
		Launcher:  client,
		Presenter: stage,
		Logger:    d.logger,
		OnFailed:  d.onFailed,
	})
	poller := d.poller(client, comp.Scheduler(), comp.Post)

	// The X connection must outlive the event loop, which paints into
	// it.
	loopDone := make(chan struct{})

	g, ctx := errgroup.WithContext(ctx)
	if !d.opts.noWindow {
		xc, err := x11.Connect()
		if err != nil {
			return fmt.Errorf("connect to X server: %w", err)
		}
		win, err := xc.CreateWindow(d.layout.Title, d.layout.Size())
		if err != nil {
			xc.Close()
			return err
		}
		out := present.NewOutput(win, d.layout.Size(), view, comp.Post, d.logger)

		g.Go(func() error {
			err := out.Run()
			if (ctx.Err() != nil) || errors.Is(err, x11.ErrDisconnected) {
				return nil
			}
			return err
		})
		g.Go(func() error {
			<-loopDone
			win.Destroy()
			xc.Close()
			return nil
		})
	}

	comp.Post(func() {
		comp.OnEvent(manager.HandleEvent)
		comp.OnEvent(stage.HandleEvent)
		poller.Start(ctx)
		for _, pkg := range d.opts.packages {
			manager.Embed(pkg)
		}
	})

	d.logger.Info("compositor mode", "socket", comp.SocketPath(), "packages", d.opts.packages)
	g.Go(func() error {
		defer close(loopDone)
		err := comp.Run(ctx)

		// Run returned on this goroutine, so the loop's state is ours
		// until loopDone is closed.
		poller.Stop()
		manager.StopAll()
		return err
	})
	return g.Wait()
}

func (d *dashboard) runOverlay(ctx context.Context) error {
	xc, err := x11.Connect()
	if err != nil {
		return fmt.Errorf("connect to X server: %w", err)
	}
	defer xc.Close()

	l := loop.New(nil, d.logger)
	client := waydroid.New(nil, d.logger)

	host := xproto.Window(d.opts.hostWindow)
	bounds := d.layout.Embed.Rect()
	if (host == 0) && !d.opts.noWindow {
		win, err := xc.CreateWindow(d.layout.Title, d.layout.Size())
		if err != nil {
			return err
		}
		defer win.Destroy()
		host = win.ID

		// Applications get their input straight from the X server once
		// they are reparented, so the window's own events are dropped.
		go func() {
			for {
				if _, err := win.NextInput(); err != nil {
					return
				}
			}
		}()
	}

	overlay := x11.NewOverlay(xc, host, bounds, l.Scheduler(), d.logger)
	manager := embedding.NewManager(embedding.Config{
		Host:      overlay,
		Launcher:  client,
		Presenter: overlay,
		Logger:    d.logger,
		Search:    x11.OverlaySearch,
		OnFailed:  d.onFailed,
	})
	poller := d.poller(client, l.Scheduler(), l.Post)

	l.Post(func() {
		poller.Start(ctx)
		for _, pkg := range d.opts.packages {
			manager.Embed(pkg)
		}
	})

	d.logger.Info("overlay mode", "host", host, "packages", d.opts.packages)
	err = l.Run(ctx)

	// The loop has stopped, so nothing else touches its state.
	poller.Stop()
	manager.StopAll()
	return err
}
