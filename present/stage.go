package present

import (
	"log/slog"

	"github.com/patrick9487/Smart-dashboard/compositor"
	"github.com/patrick9487/Smart-dashboard/registry"
)

// Stage shows the surface of whichever package was presented most
// recently in a single View.
type Stage struct {
	view   *View
	lookup func(registry.SurfaceID) Surface
	logger *slog.Logger
	pkg    string
}

// NewStage returns a Stage that finds surfaces with lookup. lookup
// must return nil, not a nil pointer wrapped in the interface, for
// surfaces that do not exist.
func NewStage(view *View, lookup func(registry.SurfaceID) Surface, logger *slog.Logger) *Stage {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stage{
		view:   view,
		lookup: lookup,
		logger: logger,
	}
}

// Package returns the package currently on stage.
func (s *Stage) Package() string {
	return s.pkg
}

func (s *Stage) Present(pkg string, id registry.SurfaceID) {
	surface := s.lookup(id)
	if surface == nil {
		s.logger.Warn("presented surface does not exist", "package", pkg, "surface", id)
		return
	}

	s.logger.Info("presenting surface", "package", pkg, "surface", id)
	s.pkg = pkg
	s.view.SetSurface(surface)
}

func (s *Stage) Release(pkg string) {
	if pkg != s.pkg {
		return
	}
	s.pkg = ""
	s.view.SetSurface(nil)
}

// HandleEvent keeps the view in step with its surface.
func (s *Stage) HandleEvent(ev compositor.Event) {
	switch ev.Kind {
	case compositor.EventCommitted:
		s.view.Committed(uint64(ev.Surface))
	case compositor.EventDestroyed:
		s.view.SurfaceDestroyed(uint64(ev.Surface))
	}
}
