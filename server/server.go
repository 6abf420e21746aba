// Package server implements the nested Wayland compositor that hosts
// application windows for the dashboard.
//
// All protocol state is owned by the goroutine running Server.Run.
// Client reader goroutines and any other goroutine that needs to touch
// that state hand closures to it with Post or Invoke.
package server

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/patrick9487/Smart-dashboard/internal/clock"
	"github.com/patrick9487/Smart-dashboard/internal/cq"
	"github.com/patrick9487/Smart-dashboard/internal/set"
)

// ErrClosed is returned by Invoke once the server has stopped.
var ErrClosed = errors.New("server closed")

const frameInterval = time.Second / 60

// Listener is notified of compositor state changes. Its methods are
// called on the goroutine running Server.Run.
type Listener interface {
	ClientAdded(c *Client)
	ClientRemoved(c *Client)
	SurfaceCreated(s *Surface)
	SurfaceCommitted(s *Surface)
	SurfaceDestroyed(s *Surface)
	ShellCreated(sh Shell)
}

// NopListener implements Listener by doing nothing. Embed it to
// implement only some of the methods.
type NopListener struct{}

func (NopListener) ClientAdded(*Client)       {}
func (NopListener) ClientRemoved(*Client)     {}
func (NopListener) SurfaceCreated(*Surface)   {}
func (NopListener) SurfaceCommitted(*Surface) {}
func (NopListener) SurfaceDestroyed(*Surface) {}
func (NopListener) ShellCreated(Shell)        {}

type Config struct {
	Logger   *slog.Logger
	Clock    clock.Clock
	Listener Listener

	// OutputSize is advertised as the mode of the single wl_output.
	// Defaults to 1280x720.
	OutputSize image.Point
}

type Server struct {
	done  chan struct{}
	close sync.Once
	lis   *net.UnixListener

	logger   *slog.Logger
	clock    clock.Clock
	listener Listener
	queue    *cq.Queue[func() error]
	start    time.Time

	clients       set.Set[*Client]
	globals       []global
	nextSurfaceID uint64
	serial        uint32
	outputSize    image.Point
	framePending  set.Set[*Surface]
	seat          seatState
}

type global struct {
	name    uint32
	iface   string
	version uint32
	bind    func(c *Client, id, version uint32) error
}

// NewServer creates a server that accepts clients from lis. The server
// takes ownership of lis. Nothing is dispatched until Run is called.
func NewServer(lis *net.UnixListener, config Config) *Server {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Listener == nil {
		config.Listener = NopListener{}
	}
	if config.OutputSize == (image.Point{}) {
		config.OutputSize = image.Pt(1280, 720)
	}

	server := Server{
		done:         make(chan struct{}),
		lis:          lis,
		logger:       config.Logger,
		clock:        config.Clock,
		listener:     config.Listener,
		queue:        cq.New[func() error](),
		start:        config.Clock.Now(),
		clients:      make(set.Set[*Client]),
		outputSize:   config.OutputSize,
		framePending: make(set.Set[*Surface]),
	}
	server.addGlobal(CompositorInterface, CompositorVersion, bindCompositor)
	server.addGlobal(ShmInterface, ShmVersion, bindShm)
	server.addGlobal(SeatInterface, SeatVersion, bindSeat)
	server.addGlobal(OutputInterface, OutputVersion, bindOutput)
	server.addGlobal(WmBaseInterface, WmBaseVersion, bindWmBase)
	server.addGlobal(ShellInterface, ShellVersion, bindShell)
	go server.listen()

	return &server
}

func (server *Server) addGlobal(iface string, version uint32, bind func(*Client, uint32, uint32) error) {
	server.globals = append(server.globals, global{
		name:    uint32(len(server.globals) + 1),
		iface:   iface,
		version: version,
		bind:    bind,
	})
}

func (server *Server) listen() {
	for {
		c, err := server.lis.AcceptUnix()
		if err != nil {
			select {
			case <-server.done:
			default:
				server.logger.Error("accept failed", "err", err)
			}
			return
		}

		client := newClient(server, c)
		ok := server.Post(func() error {
			server.addClient(client)
			return nil
		})
		if !ok {
			client.conn.Close()
			return
		}
	}
}

func (server *Server) addClient(c *Client) {
	server.clients.Add(c)
	server.listener.ClientAdded(c)
	go c.listen()
}

// Close stops accepting clients and makes Run return. It is safe to
// call more than once and from any goroutine.
func (server *Server) Close() error {
	var err error
	server.close.Do(func() {
		close(server.done)
		err = server.lis.Close()
	})
	return err
}

// Run dispatches client requests and posted functions until ctx is
// canceled or Close is called. Every client is disconnected before it
// returns.
func (server *Server) Run(ctx context.Context) error {
	defer server.shutdown()

	frames := server.clock.NewTicker(frameInterval)
	defer frames.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-server.done:
			return nil
		case queue := <-server.queue.Get():
			for _, err := range cq.Flush(queue) {
				server.logger.Warn("event failed", "err", err)
			}
		case <-frames.C:
			server.sendFrames()
		}
	}
}

func (server *Server) shutdown() {
	server.Close()
	server.queue.Stop()
	for c := range server.clients {
		c.destroy()
	}
}

// Post queues f to be called on the goroutine running Run. It reports
// false if the server has already shut down.
func (server *Server) Post(f func() error) bool {
	return server.queue.Push(f)
}

// Invoke calls f on the goroutine running Run and waits for it to
// return. It must not be called from that goroutine.
func (server *Server) Invoke(ctx context.Context, f func()) error {
	done := make(chan struct{})
	ok := server.Post(func() error {
		defer close(done)
		f()
		return nil
	})
	if !ok {
		return ErrClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-server.queue.Done():
		return ErrClosed
	case <-done:
		return nil
	}
}

// Logger returns the logger the server was configured with.
func (server *Server) Logger() *slog.Logger {
	return server.logger
}

// OutputSize returns the size advertised for the output.
func (server *Server) OutputSize() image.Point {
	return server.outputSize
}

func (server *Server) nextSerial() uint32 {
	server.serial++
	return server.serial
}

// now returns the millisecond timestamp used by input events and frame
// callbacks.
func (server *Server) now() uint32 {
	return uint32(server.clock.Now().Sub(server.start).Milliseconds())
}

func (server *Server) sendFrames() {
	if len(server.framePending) == 0 {
		return
	}

	now := server.now()
	for s := range server.framePending {
		frames := s.frames
		s.frames = nil
		for _, cb := range frames {
			cb.done(now)
		}
	}
	clear(server.framePending)
}
