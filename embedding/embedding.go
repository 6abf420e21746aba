// Package embedding drives embedding requests for application packages
// through launch, surface matching and presentation.
package embedding

import (
	"errors"
	"log/slog"
	"time"

	"github.com/patrick9487/Smart-dashboard/compositor"
	"github.com/patrick9487/Smart-dashboard/internal/poll"
	"github.com/patrick9487/Smart-dashboard/registry"
)

var (
	// ErrSearchTimeout is reported through Config.OnFailed when no
	// surface with content is found for a package within the search
	// budget.
	ErrSearchTimeout = errors.New("no window appeared for the application")

	ErrUnsupported = errors.New("embedding strategy is not supported")
)

// DefaultSearch bounds how long Embed waits for an application's
// surface.
var DefaultSearch = poll.Policy{
	Interval: 500 * time.Millisecond,
	Attempts: 20,
}

// Host is the part of the compositor a Manager needs. Its methods are
// only called on the compositor's event loop.
type Host interface {
	RequestMatch(pkg string) (registry.SurfaceID, bool)
	CancelMatch(pkg string)
	HasContent(id registry.SurfaceID) bool
	Scheduler() poll.Scheduler
}

// Launcher starts applications. Launch must not block.
type Launcher interface {
	Launch(pkg string)
}

// Presenter shows matched surfaces.
type Presenter interface {
	Present(pkg string, id registry.SurfaceID)
	Release(pkg string)
}

type Config struct {
	Host      Host
	Launcher  Launcher
	Presenter Presenter
	Logger    *slog.Logger

	// Search defaults to DefaultSearch.
	Search poll.Policy

	// OnFailed is called when a request gives up.
	OnFailed func(pkg string, err error)

	// OnStateChange is called after every state transition.
	OnStateChange func(pkg string, state State)
}

// Manager tracks one embedding request per package. Like the
// compositor it belongs to, it must only be used from the event loop.
type Manager struct {
	config   Config
	logger   *slog.Logger
	requests map[string]*request
}

type request struct {
	state   State
	surface registry.SurfaceID
	search  *poll.Poll
}

func NewManager(config Config) *Manager {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Search.Attempts == 0 {
		config.Search = DefaultSearch
	}

	return &Manager{
		config:   config,
		logger:   config.Logger,
		requests: make(map[string]*request),
	}
}

// State returns the state of the request for pkg.
func (m *Manager) State(pkg string) State {
	r, ok := m.requests[pkg]
	if !ok {
		return Idle
	}
	return r.state
}

// Surface returns the surface matched to pkg, if any.
func (m *Manager) Surface(pkg string) (registry.SurfaceID, bool) {
	r, ok := m.requests[pkg]
	if !ok || (r.state != Matched && r.state != Displayed) {
		return 0, false
	}
	return r.surface, true
}

// Embed launches pkg and starts looking for its surface. It does
// nothing if a request for pkg is already in progress.
func (m *Manager) Embed(pkg string) {
	if r, ok := m.requests[pkg]; ok && (r.state != Idle) && (r.state != TornDown) {
		return
	}

	r := &request{}
	m.requests[pkg] = r
	m.setState(pkg, r, Pending)

	if m.config.Launcher != nil {
		m.config.Launcher.Launch(pkg)
	}

	r.search = poll.Start(
		m.config.Host.Scheduler(),
		m.config.Search,
		func() bool { return m.check(pkg, r) },
		nil,
		func() { m.fail(pkg, r) },
	)
}

func (m *Manager) check(pkg string, r *request) bool {
	if r.state == Displayed {
		return true
	}

	id, ok := m.config.Host.RequestMatch(pkg)
	if !ok {
		return false
	}
	m.display(pkg, r, id)
	return true
}

func (m *Manager) fail(pkg string, r *request) {
	m.logger.Warn("giving up on embedding", "package", pkg, "state", r.state, "budget", m.config.Search.Budget())

	m.config.Host.CancelMatch(pkg)
	delete(m.requests, pkg)
	m.setState(pkg, r, Idle)
	if m.config.OnFailed != nil {
		m.config.OnFailed(pkg, ErrSearchTimeout)
	}
}

// Stop cancels the request for pkg. No callback for it fires after
// Stop returns.
func (m *Manager) Stop(pkg string) {
	r, ok := m.requests[pkg]
	if !ok {
		return
	}

	if r.search != nil {
		r.search.Cancel()
	}
	// The presenter may share bookkeeping with the host, so release
	// before the match is forgotten.
	if (r.state == Displayed) && (m.config.Presenter != nil) {
		m.config.Presenter.Release(pkg)
	}
	m.config.Host.CancelMatch(pkg)
	delete(m.requests, pkg)
	m.setState(pkg, r, Idle)
}

// StopAll stops every request.
func (m *Manager) StopAll() {
	for pkg := range m.requests {
		m.Stop(pkg)
	}
}

// HandleEvent advances requests in response to compositor events.
func (m *Manager) HandleEvent(ev compositor.Event) {
	switch ev.Kind {
	case compositor.EventMatched:
		// A request that matched a surface which never drew can be
		// matched again to another one.
		r, ok := m.requests[ev.Package]
		if !ok || ((r.state != Pending) && (r.state != Matched)) {
			return
		}
		r.surface = ev.Surface
		m.setState(ev.Package, r, Matched)
		if m.config.Host.HasContent(ev.Surface) {
			m.display(ev.Package, r, ev.Surface)
		}

	case compositor.EventMapped:
		for pkg, r := range m.requests {
			if (r.state == Matched) && (r.surface == ev.Surface) {
				m.display(pkg, r, ev.Surface)
			}
		}

	case compositor.EventUnbound:
		r, ok := m.requests[ev.Package]
		if !ok || (r.surface != ev.Surface) {
			return
		}
		switch r.state {
		case Matched:
			m.logger.Info("matched surface destroyed before drawing", "package", ev.Package, "surface", ev.Surface)
			r.surface = 0
			m.setState(ev.Package, r, Pending)
			if id, ok := m.config.Host.RequestMatch(ev.Package); ok {
				m.display(ev.Package, r, id)
			}
		case Displayed:
			if m.config.Presenter != nil {
				m.config.Presenter.Release(ev.Package)
			}
			r.surface = 0
			m.setState(ev.Package, r, TornDown)
		}
	}
}

func (m *Manager) display(pkg string, r *request, id registry.SurfaceID) {
	if r.state == Displayed {
		return
	}

	r.surface = id
	if r.search != nil {
		r.search.Cancel()
	}
	m.setState(pkg, r, Displayed)
	if m.config.Presenter != nil {
		m.config.Presenter.Present(pkg, id)
	}
}

func (m *Manager) setState(pkg string, r *request, state State) {
	if r.state == state {
		return
	}
	m.logger.Debug("embedding state changed", "package", pkg, "from", r.state, "to", state)
	r.state = state
	if m.config.OnStateChange != nil {
		m.config.OnStateChange(pkg, state)
	}
}
