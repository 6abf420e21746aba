// Package registry keeps track of the live surfaces of the nested
// compositor.
//
// Surfaces are stored in an arena keyed by SurfaceID. Shell metadata and
// package bindings are side tables keyed by the same ID, so removing a
// surface is a single operation that also clears everything that
// referred to it. A Registry must only be used from the compositor's
// event loop.
package registry

import (
	"slices"

	"github.com/patrick9487/Smart-dashboard/internal/set"
	"github.com/patrick9487/Smart-dashboard/internal/xslices"
	"golang.org/x/exp/maps"
)

// SurfaceID identifies a surface for its whole lifetime. IDs are never
// reused.
type SurfaceID uint64

// Surface is the registry's view of a compositor surface.
type Surface interface {
	SurfaceID() uint64
	HasContent() bool
}

// Info is a snapshot of a surface's state.
type Info struct {
	ID       SurfaceID
	Title    string
	HasShell bool
}

type Registry struct {
	surfaces map[SurfaceID]Surface
	order    set.Ordered[SurfaceID]
	titles   map[SurfaceID]string
	bindings map[string]SurfaceID
}

func New() *Registry {
	return &Registry{
		surfaces: make(map[SurfaceID]Surface),
		titles:   make(map[SurfaceID]string),
		bindings: make(map[string]SurfaceID),
	}
}

// Add registers s and returns its ID. Adding the same surface again
// has no effect.
func (r *Registry) Add(s Surface) SurfaceID {
	id := SurfaceID(s.SurfaceID())
	if r.order.Add(id) {
		r.surfaces[id] = s
	}
	return id
}

// Remove forgets the surface, its shell metadata, and every binding
// that refers to it. It returns the packages that lost their binding,
// sorted.
func (r *Registry) Remove(id SurfaceID) (unbound []string) {
	if !r.order.Remove(id) {
		return nil
	}
	delete(r.surfaces, id)
	delete(r.titles, id)

	for pkg, bound := range r.bindings {
		if bound == id {
			delete(r.bindings, pkg)
			unbound = append(unbound, pkg)
		}
	}
	slices.Sort(unbound)
	return unbound
}

func (r *Registry) Has(id SurfaceID) bool {
	return r.order.Has(id)
}

func (r *Registry) Len() int {
	return r.order.Len()
}

// HasContent reports whether the surface has committed at least one
// buffer. Unknown surfaces have no content.
func (r *Registry) HasContent(id SurfaceID) bool {
	s, ok := r.surfaces[id]
	return ok && s.HasContent()
}

// SetTitle records shell metadata for the surface. It reports false if
// the surface is not registered.
func (r *Registry) SetTitle(id SurfaceID, title string) bool {
	if !r.order.Has(id) {
		return false
	}
	r.titles[id] = title
	return true
}

// Title returns the title of the surface's shell. ok is false if the
// surface has no shell.
func (r *Registry) Title(id SurfaceID) (title string, ok bool) {
	title, ok = r.titles[id]
	return title, ok
}

// Bind associates pkg with the surface, replacing any previous binding
// for pkg. It reports false if the surface is not registered.
func (r *Registry) Bind(pkg string, id SurfaceID) bool {
	if !r.order.Has(id) {
		return false
	}
	r.bindings[pkg] = id
	return true
}

func (r *Registry) Unbind(pkg string) {
	delete(r.bindings, pkg)
}

// Binding returns the surface bound to pkg.
func (r *Registry) Binding(pkg string) (SurfaceID, bool) {
	id, ok := r.bindings[pkg]
	return id, ok
}

// Bindings returns a copy of every package binding.
func (r *Registry) Bindings() map[string]SurfaceID {
	return maps.Clone(r.bindings)
}

// ContentfulSurfaces returns a snapshot of every surface that has
// content, in the order the surfaces were added.
func (r *Registry) ContentfulSurfaces() []Info {
	ids := xslices.Filter(r.order.Values(), r.HasContent)
	return xslices.Map(ids, r.info)
}

func (r *Registry) info(id SurfaceID) Info {
	title, ok := r.titles[id]
	return Info{ID: id, Title: title, HasShell: ok}
}
