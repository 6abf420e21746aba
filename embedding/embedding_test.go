package embedding_test

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/patrick9487/Smart-dashboard/compositor"
	"github.com/patrick9487/Smart-dashboard/embedding"
	"github.com/patrick9487/Smart-dashboard/internal/clock"
	"github.com/patrick9487/Smart-dashboard/internal/poll"
	"github.com/patrick9487/Smart-dashboard/match"
	"github.com/patrick9487/Smart-dashboard/registry"
)

type fakeSurface struct {
	id      uint64
	content bool
}

func (s *fakeSurface) SurfaceID() uint64 { return s.id }
func (s *fakeSurface) HasContent() bool  { return s.content }

// host plays the compositor's part, using a real registry and matcher
// on a fake clock.
type host struct {
	clk     *clock.FakeClock
	reg     *registry.Registry
	matcher *match.Matcher
	next    uint64
}

func newHost() *host {
	reg := registry.New()
	return &host{
		clk:     clock.Fake(time.Unix(0, 0)),
		reg:     reg,
		matcher: match.New(reg),
	}
}

func (h *host) RequestMatch(pkg string) (registry.SurfaceID, bool) { return h.matcher.RequestMatch(pkg) }
func (h *host) CancelMatch(pkg string)                             { h.matcher.Cancel(pkg) }
func (h *host) HasContent(id registry.SurfaceID) bool              { return h.reg.HasContent(id) }
func (h *host) Scheduler() poll.Scheduler                          { return h.clk }

func (h *host) addSurface(title string) (*fakeSurface, registry.SurfaceID, []compositor.Event) {
	h.next++
	s := &fakeSurface{id: h.next}
	id := h.reg.Add(s)
	h.reg.SetTitle(id, title)

	var events []compositor.Event
	for _, pkg := range h.matcher.TryMatch(id, title) {
		events = append(events, compositor.Event{Kind: compositor.EventMatched, Surface: id, Package: pkg})
	}
	return s, id, events
}

func (h *host) destroy(id registry.SurfaceID) []compositor.Event {
	var events []compositor.Event
	for _, pkg := range h.reg.Remove(id) {
		events = append(events, compositor.Event{Kind: compositor.EventUnbound, Surface: id, Package: pkg})
	}
	return append(events, compositor.Event{Kind: compositor.EventDestroyed, Surface: id})
}

type presenter struct {
	presented map[string]registry.SurfaceID
	released  []string
}

func (p *presenter) Present(pkg string, id registry.SurfaceID) { p.presented[pkg] = id }

func (p *presenter) Release(pkg string) {
	delete(p.presented, pkg)
	p.released = append(p.released, pkg)
}

type launcher []string

func (l *launcher) Launch(pkg string) { *l = append(*l, pkg) }

type fixture struct {
	host      *host
	presenter *presenter
	launched  launcher
	failures  []error
	manager   *embedding.Manager
}

func newFixture() *fixture {
	f := fixture{
		host:      newHost(),
		presenter: &presenter{presented: make(map[string]registry.SurfaceID)},
	}
	f.manager = embedding.NewManager(embedding.Config{
		Host:      f.host,
		Launcher:  &f.launched,
		Presenter: f.presenter,
		OnFailed:  func(pkg string, err error) { f.failures = append(f.failures, err) },
	})
	return &f
}

func (f *fixture) handle(events []compositor.Event) {
	for _, ev := range events {
		f.manager.HandleEvent(ev)
	}
}

func TestEmbedLifecycle(t *testing.T) {
	f := newFixture()
	const pkg = "com.example.camera"

	f.manager.Embed(pkg)
	f.manager.Embed(pkg)
	if !slices.Equal(f.launched, []string{pkg}) {
		t.Fatalf("launched = %v, want one launch", f.launched)
	}
	if state := f.manager.State(pkg); state != embedding.Pending {
		t.Fatalf("State() = %v, want pending", state)
	}

	s, id, events := f.host.addSurface("Camera")
	f.handle(events)
	if state := f.manager.State(pkg); state != embedding.Matched {
		t.Fatalf("State() after match = %v, want matched", state)
	}
	if len(f.presenter.presented) != 0 {
		t.Fatal("surface presented before it had content")
	}

	s.content = true
	f.manager.HandleEvent(compositor.Event{Kind: compositor.EventMapped, Surface: id})
	if state := f.manager.State(pkg); state != embedding.Displayed {
		t.Fatalf("State() after mapping = %v, want displayed", state)
	}
	if got := f.presenter.presented[pkg]; got != id {
		t.Fatalf("presented surface = %v, want %v", got, id)
	}
	if n := f.host.clk.PendingCount(); n != 0 {
		t.Fatalf("%v timers still pending after display", n)
	}

	f.handle(f.host.destroy(id))
	if state := f.manager.State(pkg); state != embedding.TornDown {
		t.Fatalf("State() after destroy = %v, want torn down", state)
	}
	if !slices.Equal(f.presenter.released, []string{pkg}) {
		t.Fatalf("released = %v", f.presenter.released)
	}
}

func TestEmbedAlreadyRunning(t *testing.T) {
	f := newFixture()
	s, id, _ := f.host.addSurface("Clock")
	s.content = true

	f.manager.Embed("com.example.clock")
	if state := f.manager.State("com.example.clock"); state != embedding.Displayed {
		t.Fatalf("State() = %v, want displayed", state)
	}
	if got, ok := f.manager.Surface("com.example.clock"); !ok || got != id {
		t.Fatalf("Surface() = %v, %v", got, ok)
	}
	if n := f.host.clk.PendingCount(); n != 0 {
		t.Fatalf("%v timers pending after immediate match", n)
	}
}

func TestEmbedSearchTimeout(t *testing.T) {
	f := newFixture()
	const pkg = "com.example.maps"

	f.manager.Embed(pkg)
	for range embedding.DefaultSearch.Attempts - 2 {
		f.host.clk.Advance(embedding.DefaultSearch.Interval)
	}
	if len(f.failures) != 0 {
		t.Fatal("failed before the search budget ran out")
	}

	f.host.clk.Advance(embedding.DefaultSearch.Interval)
	if len(f.failures) != 1 || !errors.Is(f.failures[0], embedding.ErrSearchTimeout) {
		t.Fatalf("failures = %v, want one ErrSearchTimeout", f.failures)
	}
	if state := f.manager.State(pkg); state != embedding.Idle {
		t.Fatalf("State() = %v, want idle", state)
	}
	if f.host.matcher.IsPending(pkg) {
		t.Fatal("package is still pending after giving up")
	}
	if n := f.host.clk.PendingCount(); n != 0 {
		t.Fatalf("%v timers pending after giving up", n)
	}
}

func TestSearchFindsLateContent(t *testing.T) {
	f := newFixture()
	const pkg = "com.example.notes"

	f.manager.Embed(pkg)
	s, id, _ := f.host.addSurface("Untitled")
	f.host.reg.SetTitle(id, "Notes")
	s.content = true

	// No title event reached the matcher, so only the search loop's
	// rescan can find the surface.
	f.host.clk.Advance(embedding.DefaultSearch.Interval)
	if state := f.manager.State(pkg); state != embedding.Displayed {
		t.Fatalf("State() = %v, want displayed", state)
	}
}

func TestStopBeforeMatch(t *testing.T) {
	f := newFixture()
	const pkg = "com.example.camera"

	f.manager.Embed(pkg)
	f.manager.Stop(pkg)
	if state := f.manager.State(pkg); state != embedding.Idle {
		t.Fatalf("State() = %v, want idle", state)
	}
	if n := f.host.clk.PendingCount(); n != 0 {
		t.Fatalf("%v timers pending after Stop", n)
	}

	s, _, events := f.host.addSurface("Camera")
	s.content = true
	if len(events) != 0 {
		t.Fatalf("match events after Stop: %v", events)
	}
	f.host.clk.Advance(time.Minute)
	if len(f.failures) != 0 || len(f.presenter.presented) != 0 {
		t.Fatal("callbacks fired after Stop")
	}
}

func TestStopDisplayed(t *testing.T) {
	f := newFixture()
	s, _, _ := f.host.addSurface("Clock")
	s.content = true

	f.manager.Embed("com.example.clock")
	f.manager.Stop("com.example.clock")
	if !slices.Equal(f.presenter.released, []string{"com.example.clock"}) {
		t.Fatalf("released = %v", f.presenter.released)
	}
	if _, ok := f.host.matcher.Lookup("com.example.clock"); ok {
		t.Fatal("binding survived Stop")
	}
}

func TestStopAll(t *testing.T) {
	f := newFixture()
	s, _, _ := f.host.addSurface("Clock")
	s.content = true

	f.manager.Embed("com.example.clock")
	f.manager.Embed("com.example.camera")
	f.manager.StopAll()

	if !slices.Equal(f.presenter.released, []string{"com.example.clock"}) {
		t.Fatalf("released = %v", f.presenter.released)
	}
	for _, pkg := range []string{"com.example.clock", "com.example.camera"} {
		if state := f.manager.State(pkg); state != embedding.Idle {
			t.Errorf("State(%q) = %v, want idle", pkg, state)
		}
	}
	if pending := f.host.matcher.Pending(); len(pending) != 0 {
		t.Fatalf("pending after StopAll = %v", pending)
	}
	if n := f.host.clk.PendingCount(); n != 0 {
		t.Fatalf("%v timers pending after StopAll", n)
	}
}

// overlayHost keeps one window per matched package and forgets it when
// the match is cancelled, the way the X overlay does.
type overlayHost struct {
	*host
	windows  map[string]registry.SurfaceID
	released []registry.SurfaceID
}

func (o *overlayHost) CancelMatch(pkg string) {
	delete(o.windows, pkg)
	o.host.CancelMatch(pkg)
}

func (o *overlayHost) Present(pkg string, id registry.SurfaceID) { o.windows[pkg] = id }

func (o *overlayHost) Release(pkg string) {
	if id, ok := o.windows[pkg]; ok {
		o.released = append(o.released, id)
	}
}

func TestStopDisplayedSharedHost(t *testing.T) {
	o := &overlayHost{host: newHost(), windows: make(map[string]registry.SurfaceID)}
	manager := embedding.NewManager(embedding.Config{Host: o, Presenter: o})

	s, id, _ := o.addSurface("Clock")
	s.content = true
	manager.Embed("com.example.clock")
	if state := manager.State("com.example.clock"); state != embedding.Displayed {
		t.Fatalf("State() = %v, want displayed", state)
	}

	manager.Stop("com.example.clock")
	if !slices.Equal(o.released, []registry.SurfaceID{id}) {
		t.Fatalf("released windows = %v, want [%v]", o.released, id)
	}
	if len(o.windows) != 0 {
		t.Fatalf("windows after Stop = %v", o.windows)
	}
}

func TestRematchAfterSurfaceWithoutContent(t *testing.T) {
	f := newFixture()
	const pkg = "com.example.camera"

	f.manager.Embed(pkg)
	_, splash, events := f.host.addSurface("Camera")
	f.handle(events)
	if state := f.manager.State(pkg); state != embedding.Matched {
		t.Fatalf("State() = %v, want matched", state)
	}

	// The search keeps running while the splash never draws.
	f.host.clk.Advance(embedding.DefaultSearch.Interval)
	if !f.host.matcher.IsPending(pkg) {
		t.Fatal("package is not pending while bound to a surface without content")
	}

	s, window, events := f.host.addSurface("Camera")
	s.content = true
	f.handle(events)
	if state := f.manager.State(pkg); state != embedding.Displayed {
		t.Fatalf("State() = %v, want displayed", state)
	}
	if got := f.presenter.presented[pkg]; got != window {
		t.Fatalf("presented = %v, want %v", got, window)
	}

	f.handle(f.host.destroy(splash))
	if state := f.manager.State(pkg); state != embedding.Displayed {
		t.Fatalf("State() after splash destroyed = %v, want displayed", state)
	}
}

func TestMatchedSurfaceDestroyed(t *testing.T) {
	f := newFixture()
	const pkg = "com.example.camera"

	f.manager.Embed(pkg)
	_, id, events := f.host.addSurface("Camera")
	f.handle(events)
	if state := f.manager.State(pkg); state != embedding.Matched {
		t.Fatalf("State() = %v, want matched", state)
	}

	f.handle(f.host.destroy(id))
	if state := f.manager.State(pkg); state != embedding.Pending {
		t.Fatalf("State() after destroy = %v, want pending", state)
	}
	if !f.host.matcher.IsPending(pkg) {
		t.Fatal("package was not requested again")
	}

	s, id, events := f.host.addSurface("Camera (2)")
	s.content = true
	f.handle(events)
	if state := f.manager.State(pkg); state != embedding.Displayed {
		t.Fatalf("State() = %v, want displayed", state)
	}
	if got := f.presenter.presented[pkg]; got != id {
		t.Fatalf("presented = %v, want %v", got, id)
	}
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []embedding.Strategy{embedding.StrategyCompositor, embedding.StrategyReparent, embedding.StrategyTexture} {
		got, err := embedding.ParseStrategy(s.String())
		if err != nil || got != s {
			t.Errorf("ParseStrategy(%q) = %v, %v", s, got, err)
		}
	}
	if _, err := embedding.ParseStrategy("magic"); err == nil {
		t.Error("ParseStrategy() accepted an unknown strategy")
	}
}
