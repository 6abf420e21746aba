package waydroid

import (
	"context"
	"log/slog"
	"time"

	"github.com/patrick9487/Smart-dashboard/internal/clock"
	"github.com/patrick9487/Smart-dashboard/internal/poll"
)

// DefaultStatusInterval is how often the session status is checked.
const DefaultStatusInterval = 2 * time.Second

// DefaultAppsRetry is how long to keep asking for the app list after
// the session starts if it comes back empty.
var DefaultAppsRetry = poll.Policy{
	Interval:    time.Second,
	Attempts:    6,
	Backoff:     2,
	MaxInterval: 8 * time.Second,
}

type PollerConfig struct {
	Client *Client
	Logger *slog.Logger

	// Scheduler and Post must run functions on the goroutine that
	// owns the Poller.
	Scheduler poll.Scheduler
	Post      func(func()) bool

	// Interval defaults to DefaultStatusInterval.
	Interval time.Duration

	// AppsRetry defaults to DefaultAppsRetry.
	AppsRetry poll.Policy

	OnRunning func(running bool)
	OnApps    func(apps []AppEntry)
}

// Poller tracks whether the session is running and which applications
// are installed. Commands run on their own goroutines and their results
// are posted back, so the owning goroutine never blocks.
type Poller struct {
	config PollerConfig
	logger *slog.Logger
	ctx    context.Context

	running bool
	apps    []AppEntry

	timer      *clock.Timer
	appsPoll   *poll.Poll
	statusBusy bool
	appsBusy   bool
	haveApps   bool
	stopped    bool
}

func NewPoller(config PollerConfig) *Poller {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Interval <= 0 {
		config.Interval = DefaultStatusInterval
	}
	if config.AppsRetry.Attempts == 0 {
		config.AppsRetry = DefaultAppsRetry
	}

	return &Poller{
		config: config,
		logger: config.Logger,
	}
}

// Running returns the last known session state.
func (p *Poller) Running() bool {
	return p.running
}

// Apps returns the last known app list.
func (p *Poller) Apps() []AppEntry {
	return p.apps
}

// Start checks the status immediately and then on every interval
// until ctx is canceled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.ctx = ctx
	p.stopped = false
	p.tick()
}

func (p *Poller) Stop() {
	p.stopped = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.appsPoll != nil {
		p.appsPoll.Cancel()
		p.appsPoll = nil
	}
}

func (p *Poller) tick() {
	if p.stopped || (p.ctx.Err() != nil) {
		return
	}

	p.timer = p.config.Scheduler.AfterFunc(p.config.Interval, p.tick)
	if p.statusBusy {
		return
	}

	p.statusBusy = true
	ctx := p.ctx
	go func() {
		running, r := p.config.Client.Status(ctx)
		p.config.Post(func() {
			p.statusBusy = false
			p.applyStatus(running, r)
		})
	}()
}

func (p *Poller) applyStatus(running bool, r Result) {
	if p.stopped {
		return
	}
	if !r.OK() {
		p.logger.Warn("status check failed", "err", r.Error())
		return
	}
	if running == p.running {
		return
	}

	p.logger.Info("waydroid session changed", "running", running)
	p.running = running
	if p.config.OnRunning != nil {
		p.config.OnRunning(running)
	}

	if !running {
		if p.appsPoll != nil {
			p.appsPoll.Cancel()
			p.appsPoll = nil
		}
		p.setApps(nil)
		return
	}
	p.Refresh()
}

// Refresh fetches the app list, retrying while it is empty.
func (p *Poller) Refresh() {
	if p.appsPoll != nil {
		p.appsPoll.Cancel()
	}

	p.haveApps = false
	p.appsPoll = poll.Start(
		p.config.Scheduler,
		p.config.AppsRetry,
		func() bool {
			if p.haveApps {
				return true
			}
			p.fetchApps()
			return false
		},
		nil,
		func() { p.logger.Warn("app list is still empty", "budget", p.config.AppsRetry.Budget()) },
	)
}

func (p *Poller) fetchApps() {
	if p.appsBusy {
		return
	}

	p.appsBusy = true
	ctx := p.ctx
	go func() {
		apps, r := p.config.Client.Apps(ctx)
		p.config.Post(func() {
			p.appsBusy = false
			p.applyApps(apps, r)
		})
	}()
}

func (p *Poller) applyApps(apps []AppEntry, r Result) {
	if p.stopped || !p.running {
		return
	}
	if !r.OK() {
		p.logger.Warn("listing apps failed", "err", r.Error())
		return
	}

	p.setApps(apps)
	p.haveApps = len(apps) > 0
	if p.haveApps && (p.appsPoll != nil) {
		p.appsPoll.Check()
	}
}

func (p *Poller) setApps(apps []AppEntry) {
	p.apps = apps
	if p.config.OnApps != nil {
		p.config.OnApps(apps)
	}
}
