package x11

import (
	"image"
	"log/slog"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/patrick9487/Smart-dashboard/internal/poll"
	"github.com/patrick9487/Smart-dashboard/registry"
)

// OverlaySearch is how long overlay mode looks for an application's
// window.
var OverlaySearch = poll.Policy{
	Interval: 500 * time.Millisecond,
	Attempts: 10,
}

// Overlay embeds application windows that live directly on the host X
// server. It finds them by WM_CLASS or title and either reparents them
// into a host window or raises them. Windows stand in for surfaces, so
// the surface IDs it hands out are X window IDs.
//
// An Overlay must only be used from the goroutine its scheduler runs
// callbacks on.
type Overlay struct {
	conn    *Conn
	host    xproto.Window
	bounds  image.Rectangle
	sched   poll.Scheduler
	logger  *slog.Logger
	windows map[string]xproto.Window
}

// NewOverlay returns an Overlay that reparents windows into host at
// bounds. If host is zero, windows are raised in place instead.
func NewOverlay(conn *Conn, host xproto.Window, bounds image.Rectangle, sched poll.Scheduler, logger *slog.Logger) *Overlay {
	return &Overlay{
		conn:    conn,
		host:    host,
		bounds:  bounds,
		sched:   sched,
		logger:  logger,
		windows: make(map[string]xproto.Window),
	}
}

func (o *Overlay) RequestMatch(pkg string) (registry.SurfaceID, bool) {
	var exclude []xproto.Window
	if o.host != 0 {
		exclude = append(exclude, o.host)
	}

	info, ok, err := o.conn.FindWindow(pkg, exclude...)
	if err != nil {
		o.logger.Warn("window search failed", "package", pkg, "err", err)
		return 0, false
	}
	if !ok {
		return 0, false
	}

	o.logger.Debug("found window", "package", pkg, "window", info.ID, "title", info.Title, "class", info.Class)
	o.windows[pkg] = info.ID
	return registry.SurfaceID(info.ID), true
}

func (o *Overlay) CancelMatch(pkg string) {
	delete(o.windows, pkg)
}

// HasContent is always true, since the X server only lists windows
// that have been mapped.
func (o *Overlay) HasContent(registry.SurfaceID) bool {
	return true
}

func (o *Overlay) Scheduler() poll.Scheduler {
	return o.sched
}

func (o *Overlay) Present(pkg string, id registry.SurfaceID) {
	win := xproto.Window(id)
	o.windows[pkg] = win

	var err error
	if o.host != 0 {
		err = o.conn.Reparent(win, o.host, o.bounds)
	} else {
		err = o.conn.Raise(win)
	}
	if err != nil {
		o.logger.Error("failed to embed window", "package", pkg, "window", win, "err", err)
	}
}

func (o *Overlay) Release(pkg string) {
	win, ok := o.windows[pkg]
	if !ok {
		return
	}
	delete(o.windows, pkg)

	if o.host == 0 {
		return
	}
	err := o.conn.Release(win)
	if err != nil {
		o.logger.Warn("failed to release window", "package", pkg, "window", win, "err", err)
	}
}
