package waydroid

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/patrick9487/Smart-dashboard/internal/clock"
)

// fakeRunner answers commands from a script. Unscripted commands fail
// to spawn.
type fakeRunner struct {
	m       sync.Mutex
	results map[string][]Result
	started [][]string
}

func (r *fakeRunner) script(cmd string, results ...Result) {
	r.m.Lock()
	defer r.m.Unlock()
	if r.results == nil {
		r.results = make(map[string][]Result)
	}
	r.results[cmd] = append(r.results[cmd], results...)
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) Result {
	r.m.Lock()
	defer r.m.Unlock()

	cmd := strings.Join(args, " ")
	queue := r.results[cmd]
	if len(queue) == 0 {
		return Result{Kind: ResultSpawn, Err: errors.New("unscripted command: " + cmd)}
	}
	r.results[cmd] = queue[1:]
	return queue[0]
}

func (r *fakeRunner) Start(name string, args ...string) error {
	r.m.Lock()
	defer r.m.Unlock()
	r.started = append(r.started, append([]string{name}, args...))
	return nil
}

func ok(out string) Result { return Result{Kind: ResultOK, Output: out} }

type pollerFixture struct {
	clk     *clock.FakeClock
	runner  *fakeRunner
	posted  chan func()
	poller  *Poller
	running []bool
	apps    [][]AppEntry
}

func newPollerFixture(t *testing.T) *pollerFixture {
	f := pollerFixture{
		clk:    clock.Fake(time.Unix(0, 0)),
		runner: &fakeRunner{},
		posted: make(chan func(), 16),
	}
	f.poller = NewPoller(PollerConfig{
		Client:    New(f.runner, slog.Default()),
		Scheduler: f.clk,
		Post: func(fn func()) bool {
			f.posted <- fn
			return true
		},
		OnRunning: func(running bool) { f.running = append(f.running, running) },
		OnApps:    func(apps []AppEntry) { f.apps = append(f.apps, apps) },
	})
	t.Cleanup(f.poller.Stop)
	return &f
}

// step runs the next function posted by a command goroutine.
func (f *pollerFixture) step(t *testing.T) {
	t.Helper()
	select {
	case fn := <-f.posted:
		fn()
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a command result")
	}
}

func TestPollerLifecycle(t *testing.T) {
	f := newPollerFixture(t)
	f.runner.script("status", ok("Session:\tRUNNING"))
	f.runner.script("app list", ok(""), ok("com.example.clock - Clock"))

	f.poller.Start(context.Background())
	f.step(t)
	if !f.poller.Running() || !slices.Equal(f.running, []bool{true}) {
		t.Fatalf("running = %v, want one transition to true", f.running)
	}

	// The first listing is empty, so it is retried.
	f.step(t)
	if len(f.poller.Apps()) != 0 {
		t.Fatalf("apps = %v, want none yet", f.poller.Apps())
	}
	f.clk.Advance(DefaultAppsRetry.Interval)
	f.step(t)
	want := []AppEntry{{Label: "Clock", Package: "com.example.clock"}}
	if !slices.Equal(f.poller.Apps(), want) {
		t.Fatalf("apps = %v, want %v", f.poller.Apps(), want)
	}

	// A failed status check keeps the last known state.
	f.runner.script("status", Result{Kind: ResultExit, ExitCode: 1, Err: errors.New("boom")})
	f.clk.Advance(DefaultStatusInterval)
	f.step(t)
	if !f.poller.Running() || len(f.poller.Apps()) != 1 {
		t.Fatal("state changed after a failed status check")
	}

	f.runner.script("status", ok("Session:\tSTOPPED"))
	f.clk.Advance(DefaultStatusInterval)
	f.step(t)
	if f.poller.Running() || len(f.poller.Apps()) != 0 {
		t.Fatalf("running = %v, apps = %v after stop", f.poller.Running(), f.poller.Apps())
	}
	if !slices.Equal(f.running, []bool{true, false}) {
		t.Fatalf("running transitions = %v", f.running)
	}
}

func TestPollerStop(t *testing.T) {
	f := newPollerFixture(t)
	f.runner.script("status", ok("STOPPED"))

	f.poller.Start(context.Background())
	f.step(t)
	f.poller.Stop()
	if n := f.clk.PendingCount(); n != 0 {
		t.Fatalf("%v timers pending after Stop", n)
	}
}

func TestClientCommands(t *testing.T) {
	runner := &fakeRunner{}
	c := New(runner, slog.Default())
	c.Launch("com.example.clock")
	c.StartSession()
	c.StopSession()
	c.ShowFullUI()

	want := [][]string{
		{"waydroid", "app", "launch", "com.example.clock"},
		{"waydroid", "container", "start"},
		{"waydroid", "container", "stop"},
		{"waydroid", "show-full-ui"},
	}
	if !slices.EqualFunc(runner.started, want, slices.Equal[[]string]) {
		t.Fatalf("started = %v, want %v", runner.started, want)
	}
}

func TestResultError(t *testing.T) {
	if err := ok("").Error(); err != nil {
		t.Errorf("OK result has error %v", err)
	}
	r := Result{Kind: ResultExit, ExitCode: 2, Err: errors.New("bad")}
	if err := r.Error(); err == nil || !strings.Contains(err.Error(), "status 2") {
		t.Errorf("Error() = %v", err)
	}
}
