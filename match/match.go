// Package match resolves package identifiers to compositor surfaces by
// comparing them against window titles.
package match

import (
	"strings"

	"github.com/patrick9487/Smart-dashboard/internal/set"
	"github.com/patrick9487/Smart-dashboard/registry"
)

// DeriveSearchTerm returns the part of pkg after its last '.', or pkg
// itself if it has no '.'. Android applications usually title their
// windows after the last component of their package name.
func DeriveSearchTerm(pkg string) string {
	i := strings.LastIndexByte(pkg, '.')
	if i < 0 {
		return pkg
	}
	term := pkg[i+1:]
	if term == "" {
		// A trailing '.' would make every title match.
		return pkg
	}
	return term
}

// Matches reports whether title looks like it belongs to pkg. Either
// the search term or the full package identifier must appear in the
// title, ignoring case. An empty pkg matches nothing.
func Matches(pkg, title string) bool {
	if pkg == "" {
		return false
	}
	title = strings.ToLower(title)
	return strings.Contains(title, strings.ToLower(DeriveSearchTerm(pkg))) ||
		strings.Contains(title, strings.ToLower(pkg))
}

// Matcher holds package requests that have not been matched to a
// surface yet. Bindings live in the registry. A Matcher must only be
// used from the compositor's event loop.
type Matcher struct {
	reg     *registry.Registry
	pending set.Ordered[string]
}

func New(reg *registry.Registry) *Matcher {
	return &Matcher{reg: reg}
}

// RequestMatch returns the surface bound to pkg if that surface has
// content. Otherwise it scans the existing contentful surfaces for a
// matching title and, failing that, leaves pkg pending so that a later
// TryMatch can resolve it. A binding to a surface that has not drawn
// yet is kept, but a contentful match replaces it. Requesting the same
// package twice leaves a single pending entry.
func (m *Matcher) RequestMatch(pkg string) (registry.SurfaceID, bool) {
	if id, ok := m.reg.Binding(pkg); ok && m.reg.HasContent(id) {
		m.pending.Remove(pkg)
		return id, true
	}

	for _, info := range m.reg.ContentfulSurfaces() {
		if info.HasShell && Matches(pkg, info.Title) {
			m.reg.Bind(pkg, info.ID)
			m.pending.Remove(pkg)
			return info.ID, true
		}
	}

	m.pending.Add(pkg)
	return 0, false
}

// TryMatch binds every pending package whose search term or identifier
// appears in title to the surface, in the order the packages were
// requested, replacing any earlier binding. It returns the packages
// that were bound.
func (m *Matcher) TryMatch(id registry.SurfaceID, title string) (matched []string) {
	if !m.reg.Has(id) {
		return nil
	}

	for _, pkg := range m.pending.Values() {
		if !Matches(pkg, title) {
			continue
		}
		m.reg.Bind(pkg, id)
		m.pending.Remove(pkg)
		matched = append(matched, pkg)
	}
	return matched
}

// Cancel forgets pkg, whether it is pending or bound.
func (m *Matcher) Cancel(pkg string) {
	m.pending.Remove(pkg)
	m.reg.Unbind(pkg)
}

// Lookup returns the surface bound to pkg, with or without content.
func (m *Matcher) Lookup(pkg string) (registry.SurfaceID, bool) {
	return m.reg.Binding(pkg)
}

func (m *Matcher) IsPending(pkg string) bool {
	return m.pending.Has(pkg)
}

// Pending returns the pending packages in the order they were
// requested.
func (m *Matcher) Pending() []string {
	return m.pending.Values()
}
