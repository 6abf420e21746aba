package server_test

import (
	"context"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"
	"time"

	wl "github.com/patrick9487/Smart-dashboard/client"
	"github.com/patrick9487/Smart-dashboard/pointer"
	"github.com/patrick9487/Smart-dashboard/server"
	"github.com/patrick9487/Smart-dashboard/wire"
)

type recorder struct {
	server.NopListener

	created   []*server.Surface
	committed []*server.Surface
	destroyed []*server.Surface
	shells    []server.Shell
	titles    []string
	removed   int
}

func (r *recorder) SurfaceCreated(s *server.Surface)   { r.created = append(r.created, s) }
func (r *recorder) SurfaceCommitted(s *server.Surface) { r.committed = append(r.committed, s) }
func (r *recorder) SurfaceDestroyed(s *server.Surface) { r.destroyed = append(r.destroyed, s) }
func (r *recorder) ClientRemoved(*server.Client)       { r.removed++ }

func (r *recorder) ShellCreated(sh server.Shell) {
	r.shells = append(r.shells, sh)
	sh.OnTitle(func(title string) { r.titles = append(r.titles, title) })
}

func startServer(t *testing.T, lis server.Listener) (*server.Server, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "wayland-test")
	ln, err := wire.Listen(path)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	s := server.NewServer(ln, server.Config{Listener: lis, OutputSize: image.Pt(640, 480)})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return s, path
}

func connect(t *testing.T, path string) (*wl.State, *wl.Globals) {
	t.Helper()

	state, err := wl.DialPath(path)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { state.Close() })

	globals, err := wl.BindGlobals(testContext(t), state)
	if err != nil {
		t.Fatalf("bind globals: %v", err)
	}
	return state, globals
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func invoke(t *testing.T, s *server.Server, f func()) {
	t.Helper()
	err := s.Invoke(testContext(t), f)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
}

func fill(t *testing.T, g *wl.Globals, w, h int32, c color.Color) *wl.ImageBuffer {
	t.Helper()

	buf, err := wl.NewImageBuffer(g.Shm, w, h)
	if err != nil {
		t.Fatalf("create buffer: %v", err)
	}
	t.Cleanup(buf.Destroy)

	img := buf.Image()
	for y := 0; y < int(h); y++ {
		for x := 0; x < int(w); x++ {
			img.Set(x, y, c)
		}
	}
	return buf
}

func TestToplevelTitleAndContent(t *testing.T) {
	var rec recorder
	s, path := startServer(t, &rec)
	state, g := connect(t, path)
	ctx := testContext(t)

	if (g.WmBase == nil) || (g.Seat == nil) || (g.Output == nil) || (g.Shell == nil) {
		t.Fatalf("missing globals: %+v", g)
	}

	surface := g.Compositor.CreateSurface()
	xs := g.WmBase.GetXdgSurface(surface)
	configured := false
	xs.Configure = func(uint32) { configured = true }
	top := xs.GetToplevel()
	top.SetTitle("Camera")
	if err := state.RoundTrip(ctx); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if !configured {
		t.Fatal("toplevel was not configured")
	}

	invoke(t, s, func() {
		if len(rec.created) != 1 {
			t.Errorf("created %v surfaces, want 1", len(rec.created))
			return
		}
		if rec.created[0].HasContent() {
			t.Error("surface has content before commit")
		}
		if len(rec.shells) != 1 || rec.shells[0].Title() != "Camera" {
			t.Errorf("shells = %v", rec.shells)
		}
		if len(rec.titles) != 1 || rec.titles[0] != "Camera" {
			t.Errorf("titles = %v", rec.titles)
		}
	})

	red := color.NRGBA{R: 0xFF, A: 0xFF}
	buf := fill(t, g, 4, 3, red)
	released := false
	buf.Buffer().Release = func() { released = true }
	surface.Attach(buf.Buffer(), 0, 0)
	surface.Damage(0, 0, 4, 3)
	surface.Commit()
	if err := state.RoundTrip(ctx); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if !released {
		t.Error("buffer was not released after commit")
	}

	invoke(t, s, func() {
		surf := rec.created[0]
		if !surf.HasContent() {
			t.Error("surface has no content after commit")
			return
		}
		if surf.Size() != image.Pt(4, 3) {
			t.Errorf("size = %v, want (4,3)", surf.Size())
		}
		r, gr, b, a := surf.Image().At(2, 1).RGBA()
		if (r != 0xFFFF) || (gr != 0) || (b != 0) || (a != 0xFFFF) {
			t.Errorf("pixel = %v %v %v %v, want opaque red", r, gr, b, a)
		}
		if surf.Shell() != rec.shells[0] {
			t.Error("surface shell does not match the created shell")
		}
	})

	surface.Attach(nil, 0, 0)
	surface.Commit()
	if err := state.RoundTrip(ctx); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	invoke(t, s, func() {
		surf := rec.created[0]
		if !surf.HasContent() {
			t.Error("content flag was cleared by a null attach")
		}
		if surf.Image() != nil {
			t.Error("image still set after a null attach")
		}
	})
}

func TestWlShellTitle(t *testing.T) {
	var rec recorder
	s, path := startServer(t, &rec)
	state, g := connect(t, path)

	surface := g.Compositor.CreateSurface()
	ss := g.Shell.GetShellSurface(surface)
	ss.SetToplevel()
	ss.SetTitle("Files")
	ss.SetTitle("Files")
	if err := state.RoundTrip(testContext(t)); err != nil {
		t.Fatalf("round trip: %v", err)
	}

	invoke(t, s, func() {
		if len(rec.titles) != 2 {
			t.Errorf("titles = %v, want two observations", rec.titles)
			return
		}
		if rec.shells[0].Surface() != rec.created[0] {
			t.Error("shell surface is attached to the wrong surface")
		}
	})
}

func TestSurfaceDestroyed(t *testing.T) {
	var rec recorder
	s, path := startServer(t, &rec)
	state, g := connect(t, path)
	ctx := testContext(t)

	surface := g.Compositor.CreateSurface()
	surface.Destroy()
	if err := state.RoundTrip(ctx); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	invoke(t, s, func() {
		if len(rec.destroyed) != 1 || !rec.destroyed[0].Destroyed() {
			t.Errorf("destroyed = %v", rec.destroyed)
		}
	})

	g.Compositor.CreateSurface()
	if err := state.RoundTrip(ctx); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	state.Close()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		var removed, destroyed int
		invoke(t, s, func() {
			removed = rec.removed
			destroyed = len(rec.destroyed)
		})
		if (removed == 1) && (destroyed == 2) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("disconnecting did not destroy the client's surfaces")
}

func TestRoleConflict(t *testing.T) {
	_, path := startServer(t, nil)
	state, g := connect(t, path)

	surface := g.Compositor.CreateSurface()
	g.Shell.GetShellSurface(surface)
	g.WmBase.GetXdgSurface(surface)

	err := state.RoundTrip(testContext(t))
	var derr *wl.DisplayError
	if !errors.As(err, &derr) {
		t.Fatalf("round trip error = %v, want a display error", err)
	}
}

func TestPointerInput(t *testing.T) {
	var rec recorder
	s, path := startServer(t, &rec)
	state, g := connect(t, path)
	ctx := testContext(t)

	p := g.Seat.GetPointer()
	var entered bool
	var buttons []pointer.Button
	p.Enter = func(_ uint32, _ *wl.Surface, x, y wire.Fixed) {
		entered = (x.Int() == 10) && (y.Int() == 20)
	}
	p.Button = func(_, _ uint32, button pointer.Button, pressed bool) {
		if pressed {
			buttons = append(buttons, button)
		}
	}
	g.Compositor.CreateSurface()
	if err := state.RoundTrip(ctx); err != nil {
		t.Fatalf("round trip: %v", err)
	}

	invoke(t, s, func() {
		surf := rec.created[0]
		surf.PointerButton(pointer.ButtonRight, true)
		surf.PointerMotion(10, 20)
		surf.PointerButton(pointer.ButtonLeft, true)
		surf.PointerButton(pointer.ButtonLeft, false)
	})
	if err := state.RoundTrip(ctx); err != nil {
		t.Fatalf("round trip: %v", err)
	}

	if !entered {
		t.Error("pointer did not enter at (10, 20)")
	}
	if len(buttons) != 1 || buttons[0] != pointer.ButtonLeft {
		t.Errorf("buttons = %v, want [left]", buttons)
	}
}

func TestInvokeAfterClose(t *testing.T) {
	s, _ := startServer(t, nil)
	s.Close()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		err := s.Invoke(context.Background(), func() {})
		if errors.Is(err, server.ErrClosed) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("Invoke kept succeeding after Close")
}
