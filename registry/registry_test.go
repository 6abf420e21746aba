package registry

import (
	"slices"
	"testing"
)

type fakeSurface struct {
	id      uint64
	content bool
}

func (s *fakeSurface) SurfaceID() uint64 { return s.id }
func (s *fakeSurface) HasContent() bool  { return s.content }

func TestRemovePurgesBindings(t *testing.T) {
	r := New()
	s := &fakeSurface{id: 1, content: true}
	other := &fakeSurface{id: 2, content: true}
	id := r.Add(s)
	r.Add(other)
	r.SetTitle(id, "Camera")
	r.Bind("com.example.camera", id)
	r.Bind("org.example.camera", id)
	r.Bind("com.example.clock", SurfaceID(other.id))

	unbound := r.Remove(id)
	want := []string{"com.example.camera", "org.example.camera"}
	if !slices.Equal(unbound, want) {
		t.Fatalf("Remove() = %v, want %v", unbound, want)
	}

	if _, ok := r.Binding("com.example.camera"); ok {
		t.Error("binding survived removal of its surface")
	}
	if _, ok := r.Title(id); ok {
		t.Error("title survived removal of its surface")
	}
	if r.HasContent(id) {
		t.Error("removed surface still reports content")
	}
	if got, ok := r.Binding("com.example.clock"); !ok || got != SurfaceID(other.id) {
		t.Errorf("unrelated binding = (%v, %v)", got, ok)
	}
	if r.Remove(id) != nil {
		t.Error("second Remove() reported unbound packages")
	}
}

func TestRemoveUnboundOrder(t *testing.T) {
	r := New()
	id := r.Add(&fakeSurface{id: 1})
	want := []string{"a.app", "b.app", "c.app", "d.app", "e.app", "f.app"}
	for _, pkg := range slices.Backward(want) {
		r.Bind(pkg, id)
	}

	if got := r.Remove(id); !slices.Equal(got, want) {
		t.Fatalf("Remove() = %v, want %v", got, want)
	}
}

func TestContentfulSurfacesIsSnapshot(t *testing.T) {
	r := New()
	a := &fakeSurface{id: 3, content: true}
	b := &fakeSurface{id: 1}
	c := &fakeSurface{id: 2, content: true}
	r.Add(a)
	r.Add(b)
	r.Add(c)
	r.SetTitle(2, "Clock")

	got := r.ContentfulSurfaces()
	want := []Info{{ID: 3}, {ID: 2, Title: "Clock", HasShell: true}}
	if !slices.Equal(got, want) {
		t.Fatalf("ContentfulSurfaces() = %v, want %v", got, want)
	}

	b.content = true
	r.Remove(3)
	if len(got) != 2 || got[0].ID != 3 {
		t.Errorf("snapshot changed after registry mutation: %v", got)
	}
	if n := len(r.ContentfulSurfaces()); n != 2 {
		t.Errorf("len(ContentfulSurfaces()) = %v, want 2", n)
	}
}

func TestBindUnknownSurface(t *testing.T) {
	r := New()
	if r.Bind("com.example.camera", 9) {
		t.Fatal("Bind() accepted an unknown surface")
	}
	if r.SetTitle(9, "Camera") {
		t.Fatal("SetTitle() accepted an unknown surface")
	}

	id := r.Add(&fakeSurface{id: 9})
	r.Bind("com.example.camera", id)
	bindings := r.Bindings()
	delete(bindings, "com.example.camera")
	if _, ok := r.Binding("com.example.camera"); !ok {
		t.Error("Bindings() returned a live view")
	}
}
