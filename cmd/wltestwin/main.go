// wltestwin connects to a Wayland compositor, usually the dashboard's
// nested one, and shows a titled test window. It is useful for
// checking that the dashboard picks up and presents a client's window
// without starting Waydroid.
package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	wl "github.com/patrick9487/Smart-dashboard/client"
	"github.com/patrick9487/Smart-dashboard/compositor"
	"github.com/patrick9487/Smart-dashboard/pointer"
	"github.com/patrick9487/Smart-dashboard/wire"
	"github.com/spf13/pflag"
)

var (
	light = color.NRGBA{0xEE, 0xEE, 0xEE, 0xFF}
	dark  = color.NRGBA{0x66, 0x66, 0x66, 0xFF}
)

type testWindow struct {
	state   *wl.State
	globals *wl.Globals
	logger  *slog.Logger

	surface *wl.Surface
	buf     *wl.ImageBuffer
	size    image.Point
}

func (p *testWindow) init(ctx context.Context, title, appID string) error {
	globals, err := wl.BindGlobals(ctx, p.state)
	if err != nil {
		return fmt.Errorf("bind globals: %w", err)
	}
	p.globals = globals

	p.surface = globals.Compositor.CreateSurface()

	switch {
	case globals.WmBase != nil:
		xs := globals.WmBase.GetXdgSurface(p.surface)
		toplevel := xs.GetToplevel()
		toplevel.Configure = func(width, height int32, states []byte) {
			if (width > 0) && (height > 0) {
				p.size = image.Pt(int(width), int(height))
			}
		}
		toplevel.Close = func() { p.logger.Info("compositor asked the window to close") }
		xs.Configure = func(uint32) { p.draw() }
		toplevel.SetTitle(title)
		if appID != "" {
			toplevel.SetAppID(appID)
		}
		p.surface.Commit()

	case globals.Shell != nil:
		ss := globals.Shell.GetShellSurface(p.surface)
		ss.Configure = func(edges uint32, width, height int32) {
			if (width > 0) && (height > 0) {
				p.size = image.Pt(int(width), int(height))
				p.draw()
			}
		}
		ss.SetToplevel()
		ss.SetTitle(title)
		p.draw()

	default:
		return errors.New("compositor has no shell")
	}

	if globals.Seat != nil {
		p.watchPointer(globals.Seat)
	}
	return nil
}

func (p *testWindow) watchPointer(seat *wl.Seat) {
	var ptr *wl.Pointer
	seat.Capabilities = func(caps uint32) {
		if (caps&wl.SeatCapabilityPointer == 0) || (ptr != nil) {
			return
		}
		ptr = seat.GetPointer()
		ptr.Enter = func(serial uint32, s *wl.Surface, x, y wire.Fixed) {
			p.logger.Info("pointer entered", "x", x.Float(), "y", y.Float())
		}
		ptr.Leave = func(uint32, *wl.Surface) { p.logger.Info("pointer left") }
		ptr.Button = func(serial, time uint32, button pointer.Button, pressed bool) {
			p.logger.Info("pointer button", "button", button, "pressed", pressed)
		}
	}
}

// draw fills a fresh buffer with a striped pattern and commits it.
func (p *testWindow) draw() {
	if (p.buf == nil) || (p.buf.Bounds().Size() != p.size) {
		if p.buf != nil {
			p.buf.Destroy()
			p.buf = nil
		}
		buf, err := wl.NewImageBuffer(p.globals.Shm, int32(p.size.X), int32(p.size.Y))
		if err != nil {
			p.logger.Error("create buffer", "err", err)
			return
		}
		p.buf = buf
	}

	img := p.buf.Image()
	for y := 0; y < p.size.Y; y++ {
		for x := 0; x < p.size.X; x++ {
			c := light
			if (x+y/8*8)%16 < 8 {
				c = dark
			}
			img.Set(x, y, c)
		}
	}

	p.surface.Attach(p.buf.Buffer(), 0, 0)
	p.surface.Damage(0, 0, int32(p.size.X), int32(p.size.Y))
	p.surface.Commit()
}

func (p *testWindow) run(ctx context.Context) error {
	for {
		err := p.state.Dispatch(ctx)
		if err != nil {
			var derr *wl.DisplayError
			if errors.As(err, &derr) || errors.Is(err, net.ErrClosed) || (ctx.Err() != nil) {
				return err
			}
			p.logger.Warn("dispatch", "err", err)
		}
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	socket := pflag.String("socket", "", "socket name or path to connect to (default: WAYLAND_DISPLAY)")
	nested := pflag.Bool("nested", false, "connect to the dashboard's nested compositor")
	title := pflag.String("title", "wltestwin", "window title")
	appID := pflag.String("app-id", "", "xdg app ID")
	width := pflag.Int("width", 640, "window width")
	height := pflag.Int("height", 480, "window height")
	pflag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	path := *socket
	if *nested {
		path = compositor.ChannelName()
	}

	var state *wl.State
	var err error
	if path == "" {
		state, err = wl.Dial()
	} else {
		state, err = wl.DialPath(wire.SocketPath(path))
	}
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer state.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := testWindow{
		state:  state,
		logger: logger,
		size:   image.Pt(*width, *height),
	}
	if err := p.init(ctx, *title, *appID); err != nil {
		return err
	}
	logger.Info("window created", "title", *title)

	err = p.run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
