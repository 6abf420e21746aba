// Package compositor runs the nested Wayland display server that
// Android application windows are embedded through, and matches its
// surfaces to the packages that the dashboard asks for.
//
// Everything except Start, Run, Close, Post and Invoke must be called
// on the event loop, either from an event handler or from a function
// passed to Post or Invoke.
package compositor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/patrick9487/Smart-dashboard/internal/clock"
	"github.com/patrick9487/Smart-dashboard/internal/poll"
	"github.com/patrick9487/Smart-dashboard/internal/set"
	"github.com/patrick9487/Smart-dashboard/match"
	"github.com/patrick9487/Smart-dashboard/registry"
	"github.com/patrick9487/Smart-dashboard/server"
	"github.com/patrick9487/Smart-dashboard/wire"
)

var (
	// ErrChannelInUse is returned by Start if another compositor
	// already owns the channel.
	ErrChannelInUse = errors.New("wayland channel is already in use")

	ErrNotStarted = errors.New("compositor has not been started")

	// ErrClosed is returned by Start after Close.
	ErrClosed = errors.New("compositor is closed")
)

// DefaultContentPoll is how long a new surface is watched for its
// first buffer before it is considered never mapped.
var DefaultContentPoll = poll.Policy{
	Interval: 20 * time.Millisecond,
	Attempts: 250,
}

type Config struct {
	// Channel is the socket name. Defaults to ChannelName().
	Channel string

	// RuntimeDir holds the socket. Defaults to $XDG_RUNTIME_DIR.
	RuntimeDir string

	Logger      *slog.Logger
	Clock       clock.Clock
	OutputSize  image.Point
	ContentPoll poll.Policy
}

type Compositor struct {
	config Config
	logger *slog.Logger

	m      sync.Mutex
	server *server.Server
	lock   *os.File
	path   string
	closed bool

	reg       *registry.Registry
	matcher   *match.Matcher
	surfaces  map[registry.SurfaceID]*server.Surface
	polls     map[registry.SurfaceID]*poll.Poll
	mapped    set.Set[registry.SurfaceID]
	observers []func(Event)
}

func New(config Config) *Compositor {
	if config.Channel == "" {
		config.Channel = ChannelName()
	}
	if config.RuntimeDir == "" {
		config.RuntimeDir = wire.RuntimeDir()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.ContentPoll.Attempts == 0 {
		config.ContentPoll = DefaultContentPoll
	}

	reg := registry.New()
	return &Compositor{
		config:   config,
		logger:   config.Logger.With("channel", config.Channel),
		reg:      reg,
		matcher:  match.New(reg),
		surfaces: make(map[registry.SurfaceID]*server.Surface),
		polls:    make(map[registry.SurfaceID]*poll.Poll),
		mapped:   make(set.Set[registry.SurfaceID]),
	}
}

// Start creates the channel socket. Calling it again after it has
// succeeded does nothing. Failures are configuration errors and are
// not retried. A closed compositor cannot be started again.
func (c *Compositor) Start() error {
	c.m.Lock()
	defer c.m.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.server != nil {
		return nil
	}

	path := c.config.Channel
	if !filepath.IsAbs(path) {
		err := os.MkdirAll(c.config.RuntimeDir, 0o700)
		if err != nil {
			return fmt.Errorf("create runtime directory: %w", err)
		}
		path = filepath.Join(c.config.RuntimeDir, path)
	}

	lock, err := acquireLock(path + ".lock")
	if err != nil {
		return err
	}

	// Holding the lock means any existing socket is left over from a
	// compositor that exited without cleaning up.
	err = os.Remove(path)
	if (err != nil) && !errors.Is(err, fs.ErrNotExist) {
		releaseLock(lock)
		return fmt.Errorf("remove stale socket: %w", err)
	}

	lis, err := wire.Listen(path)
	if err != nil {
		releaseLock(lock)
		return fmt.Errorf("listen on %v: %w", path, err)
	}

	c.lock = lock
	c.path = path
	c.server = server.NewServer(lis, server.Config{
		Logger:     c.config.Logger,
		Clock:      c.config.Clock,
		Listener:   listener{c: c},
		OutputSize: c.config.OutputSize,
	})
	c.logger.Info("compositor listening", "socket", path)
	return nil
}

func (c *Compositor) started() *server.Server {
	c.m.Lock()
	defer c.m.Unlock()
	return c.server
}

// Run runs the event loop until ctx is canceled or Close is called.
func (c *Compositor) Run(ctx context.Context) error {
	s := c.started()
	if s == nil {
		return ErrNotStarted
	}

	defer c.cancelPolls()
	return s.Run(ctx)
}

// Close stops the event loop and removes the socket and its lock.
// Closing more than once does nothing.
func (c *Compositor) Close() error {
	c.m.Lock()
	defer c.m.Unlock()

	c.closed = true
	if c.server == nil {
		return nil
	}
	err := errors.Join(c.server.Close(), releaseLock(c.lock))
	c.server = nil
	c.lock = nil
	c.path = ""
	return err
}

// SocketPath is the path clients connect to. It is empty until Start
// succeeds and again after Close.
func (c *Compositor) SocketPath() string {
	c.m.Lock()
	defer c.m.Unlock()
	return c.path
}

// Channel is the name clients should use as WAYLAND_DISPLAY.
func (c *Compositor) Channel() string {
	return c.config.Channel
}

// Post queues f to run on the event loop.
func (c *Compositor) Post(f func()) bool {
	s := c.started()
	if s == nil {
		return false
	}
	return s.Post(func() error {
		f()
		return nil
	})
}

// Invoke runs f on the event loop and waits for it to finish.
func (c *Compositor) Invoke(ctx context.Context, f func()) error {
	s := c.started()
	if s == nil {
		return ErrNotStarted
	}
	return s.Invoke(ctx, f)
}

// Scheduler returns a poll.Scheduler whose callbacks run on the event
// loop.
func (c *Compositor) Scheduler() poll.Scheduler {
	return loopScheduler{clock: c.config.Clock, post: c.Post}
}

// OnEvent registers f to be called on the event loop for every Event.
func (c *Compositor) OnEvent(f func(Event)) {
	c.observers = append(c.observers, f)
}

func (c *Compositor) emit(ev Event) {
	for _, f := range c.observers {
		f(ev)
	}
}

// RequestMatch returns the surface for pkg if one with content is
// already known, and otherwise leaves pkg pending. A later title
// observation that matches raises EventMatched.
func (c *Compositor) RequestMatch(pkg string) (registry.SurfaceID, bool) {
	return c.matcher.RequestMatch(pkg)
}

// CancelMatch forgets any pending request or binding for pkg.
func (c *Compositor) CancelMatch(pkg string) {
	c.matcher.Cancel(pkg)
}

// Lookup returns the surface currently bound to pkg.
func (c *Compositor) Lookup(pkg string) (registry.SurfaceID, bool) {
	return c.matcher.Lookup(pkg)
}

func (c *Compositor) HasContent(id registry.SurfaceID) bool {
	return c.reg.HasContent(id)
}

// Surface returns the live surface with the given ID, or nil.
func (c *Compositor) Surface(id registry.SurfaceID) *server.Surface {
	return c.surfaces[id]
}

// ContentfulSurfaces returns a snapshot of every surface with content.
func (c *Compositor) ContentfulSurfaces() []registry.Info {
	return c.reg.ContentfulSurfaces()
}

func (c *Compositor) cancelPolls() {
	// Run has returned, so nothing else touches the polls.
	for id, p := range c.polls {
		p.Cancel()
		delete(c.polls, id)
	}
}

type loopScheduler struct {
	clock clock.Clock
	post  func(func()) bool
}

func (s loopScheduler) AfterFunc(d time.Duration, f func()) *clock.Timer {
	return s.clock.AfterFunc(d, func() { s.post(f) })
}
