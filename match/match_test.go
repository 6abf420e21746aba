package match

import (
	"slices"
	"testing"

	"github.com/patrick9487/Smart-dashboard/registry"
)

type fakeSurface struct {
	id      uint64
	content bool
}

func (s *fakeSurface) SurfaceID() uint64 { return s.id }
func (s *fakeSurface) HasContent() bool  { return s.content }

func TestDeriveSearchTerm(t *testing.T) {
	tests := []struct {
		pkg  string
		want string
	}{
		{pkg: "com.example.camera", want: "camera"},
		{pkg: "a.b", want: "b"},
		{pkg: "org.mozilla.firefox_beta", want: "firefox_beta"},
		{pkg: "settings", want: "settings"},
		{pkg: "", want: ""},
		{pkg: "com.example.", want: "com.example."},
	}
	for _, test := range tests {
		if got := DeriveSearchTerm(test.pkg); got != test.want {
			t.Errorf("DeriveSearchTerm(%q) = %q, want %q", test.pkg, got, test.want)
		}
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		pkg   string
		title string
		want  bool
	}{
		{pkg: "com.example.camera", title: "Camera", want: true},
		{pkg: "com.example.camera", title: "MY CAMERA APP", want: true},
		{pkg: "com.example.camera", title: "Window for COM.EXAMPLE.CAMERA", want: true},
		{pkg: "com.example.camera", title: "Clock", want: false},
		{pkg: "com.example.camera", title: "", want: false},
		{pkg: "settings", title: "System Settings", want: true},
		{pkg: "", title: "Anything", want: false},
	}
	for _, test := range tests {
		if got := Matches(test.pkg, test.title); got != test.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", test.pkg, test.title, got, test.want)
		}
	}
}

func TestRequestMatchIsIdempotent(t *testing.T) {
	m := New(registry.New())
	for range 2 {
		if _, ok := m.RequestMatch("com.example.camera"); ok {
			t.Fatal("RequestMatch() resolved with no surfaces")
		}
	}
	if got := m.Pending(); !slices.Equal(got, []string{"com.example.camera"}) {
		t.Fatalf("Pending() = %v, want one entry", got)
	}
}

func TestTryMatch(t *testing.T) {
	reg := registry.New()
	m := New(reg)
	m.RequestMatch("com.example.clock")
	m.RequestMatch("com.example.camera")
	m.RequestMatch("org.other.camera")

	id := reg.Add(&fakeSurface{id: 5})
	matched := m.TryMatch(id, "Camera")
	want := []string{"com.example.camera", "org.other.camera"}
	if !slices.Equal(matched, want) {
		t.Fatalf("TryMatch() = %v, want %v", matched, want)
	}
	if got := m.Pending(); !slices.Equal(got, []string{"com.example.clock"}) {
		t.Errorf("Pending() = %v, want [com.example.clock]", got)
	}
	if got, ok := m.Lookup("com.example.camera"); !ok || got != id {
		t.Errorf("Lookup() = (%v, %v), want (%v, true)", got, ok, id)
	}

	if matched := m.TryMatch(id, "Camera"); len(matched) != 0 {
		t.Errorf("second TryMatch() = %v, want nothing", matched)
	}
	if matched := m.TryMatch(99, "Clock"); len(matched) != 0 {
		t.Errorf("TryMatch() on an unknown surface = %v", matched)
	}
}

func TestRequestMatchRequiresContent(t *testing.T) {
	reg := registry.New()
	m := New(reg)
	s := &fakeSurface{id: 1}
	id := reg.Add(s)
	m.RequestMatch("com.example.camera")
	m.TryMatch(id, "Camera")

	if _, ok := m.RequestMatch("com.example.camera"); ok {
		t.Fatal("RequestMatch() returned a binding without content")
	}
	if !m.IsPending("com.example.camera") {
		t.Fatal("package bound to a surface without content is not pending")
	}
	if got, ok := m.Lookup("com.example.camera"); !ok || got != id {
		t.Fatalf("Lookup() = (%v, %v), want (%v, true)", got, ok, id)
	}

	s.content = true
	got, ok := m.RequestMatch("com.example.camera")
	if !ok || got != id {
		t.Fatalf("RequestMatch() = (%v, %v), want (%v, true)", got, ok, id)
	}
	if m.IsPending("com.example.camera") {
		t.Error("resolved package is still pending")
	}
}

func TestRebindFromSurfaceWithoutContent(t *testing.T) {
	reg := registry.New()
	m := New(reg)
	splash := reg.Add(&fakeSurface{id: 1})
	m.RequestMatch("com.example.camera")
	m.TryMatch(splash, "Camera")

	if _, ok := m.RequestMatch("com.example.camera"); ok {
		t.Fatal("RequestMatch() resolved to a surface without content")
	}

	window := reg.Add(&fakeSurface{id: 2, content: true})
	matched := m.TryMatch(window, "Camera")
	if !slices.Equal(matched, []string{"com.example.camera"}) {
		t.Fatalf("TryMatch() = %v, want [com.example.camera]", matched)
	}
	if got, ok := m.Lookup("com.example.camera"); !ok || got != window {
		t.Fatalf("Lookup() = (%v, %v), want (%v, true)", got, ok, window)
	}
	if unbound := reg.Remove(splash); len(unbound) != 0 {
		t.Fatalf("Remove(splash) unbound %v, want nothing", unbound)
	}

	got, ok := m.RequestMatch("com.example.camera")
	if !ok || got != window {
		t.Fatalf("RequestMatch() = (%v, %v), want (%v, true)", got, ok, window)
	}
}

func TestRequestMatchRescansPastContentlessBinding(t *testing.T) {
	reg := registry.New()
	m := New(reg)
	splash := reg.Add(&fakeSurface{id: 1})
	m.RequestMatch("com.example.camera")
	m.TryMatch(splash, "Camera")

	window := reg.Add(&fakeSurface{id: 2, content: true})
	reg.SetTitle(window, "Camera")
	got, ok := m.RequestMatch("com.example.camera")
	if !ok || got != window {
		t.Fatalf("RequestMatch() = (%v, %v), want (%v, true)", got, ok, window)
	}
	if m.IsPending("com.example.camera") {
		t.Error("resolved package is still pending")
	}
}

func TestRequestMatchScansExistingSurfaces(t *testing.T) {
	reg := registry.New()
	m := New(reg)
	id := reg.Add(&fakeSurface{id: 4, content: true})
	reg.SetTitle(id, "Clock")
	reg.Add(&fakeSurface{id: 6, content: true})

	got, ok := m.RequestMatch("com.example.clock")
	if !ok || got != id {
		t.Fatalf("RequestMatch() = (%v, %v), want (%v, true)", got, ok, id)
	}
	if len(m.Pending()) != 0 {
		t.Errorf("Pending() = %v, want empty", m.Pending())
	}
}

func TestDestroyedSurfaceUnbinds(t *testing.T) {
	reg := registry.New()
	m := New(reg)
	id := reg.Add(&fakeSurface{id: 2, content: true})
	m.RequestMatch("com.example.camera")
	m.TryMatch(id, "Camera")

	reg.Remove(id)
	if _, ok := m.Lookup("com.example.camera"); ok {
		t.Fatal("Lookup() returned a binding to a destroyed surface")
	}
	if _, ok := m.RequestMatch("com.example.camera"); ok {
		t.Fatal("RequestMatch() resolved after the surface was destroyed")
	}
}

func TestCancel(t *testing.T) {
	reg := registry.New()
	m := New(reg)
	m.RequestMatch("com.example.camera")
	m.Cancel("com.example.camera")

	id := reg.Add(&fakeSurface{id: 3, content: true})
	if matched := m.TryMatch(id, "Camera"); len(matched) != 0 {
		t.Fatalf("TryMatch() = %v after Cancel", matched)
	}
}
