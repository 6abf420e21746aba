// Package present shows embedded surfaces in the dashboard and
// forwards input to them.
package present

import (
	"image"
	"image/color"

	"github.com/patrick9487/Smart-dashboard/pointer"
	"golang.org/x/image/draw"
)

// Surface is a client surface that can be shown in a View.
// *server.Surface implements it.
type Surface interface {
	SurfaceID() uint64
	Image() image.Image
	Size() image.Point
	Configure(size image.Point)
	PointerMotion(x, y float64)
	PointerButton(button pointer.Button, pressed bool)
	PointerLeave()
	Key(key uint32, pressed bool)
}

// Background fills the parts of a View that the surface does not cover.
var Background = color.RGBA{R: 0x20, G: 0x20, B: 0x24, A: 0xFF}

// View binds a single surface to a region of the dashboard. It keeps a
// reference to the surface, never a copy of its pixels. A View must
// only be used from the compositor's event loop.
type View struct {
	surface Surface
	bounds  image.Rectangle

	// inside is set while the pointer is over the view.
	inside bool

	// OnRepaint is called whenever the view's contents change.
	OnRepaint func()
}

func NewView(bounds image.Rectangle) *View {
	return &View{bounds: bounds}
}

// Surface returns the bound surface, or nil.
func (v *View) Surface() Surface {
	return v.surface
}

func (v *View) Bounds() image.Rectangle {
	return v.bounds
}

// SetSurface binds s, releasing whatever was bound before. Binding the
// surface that is already bound does nothing. A nil s unbinds.
func (v *View) SetSurface(s Surface) {
	if s == v.surface {
		return
	}

	if v.surface != nil {
		v.surface.PointerLeave()
	}
	v.surface = s
	v.inside = false
	if s != nil {
		s.Configure(v.bounds.Size())
	}
	v.repaint()
}

// SetBounds moves the view and asks the bound surface to resize to
// match.
func (v *View) SetBounds(bounds image.Rectangle) {
	if bounds == v.bounds {
		return
	}

	resized := bounds.Size() != v.bounds.Size()
	v.bounds = bounds
	if resized && (v.surface != nil) {
		v.surface.Configure(bounds.Size())
	}
	v.repaint()
}

// Committed should be called whenever any surface commits.
func (v *View) Committed(id uint64) {
	if (v.surface != nil) && (v.surface.SurfaceID() == id) {
		v.repaint()
	}
}

// SurfaceDestroyed unbinds the surface if it is the one with the given
// ID. The surface itself is not touched, since it is already gone.
func (v *View) SurfaceDestroyed(id uint64) {
	if (v.surface == nil) || (v.surface.SurfaceID() != id) {
		return
	}
	v.surface = nil
	v.inside = false
	v.repaint()
}

func (v *View) repaint() {
	if v.OnRepaint != nil {
		v.OnRepaint()
	}
}

// Paint draws the view into dst at its bounds. The surface is drawn at
// its own size, anchored at the top left of the view and clipped to it.
func (v *View) Paint(dst draw.Image) {
	draw.Draw(dst, v.bounds, image.NewUniform(Background), image.Point{}, draw.Src)
	if v.surface == nil {
		return
	}

	img := v.surface.Image()
	if img == nil {
		return
	}
	src := img.Bounds()
	r := image.Rectangle{Min: v.bounds.Min, Max: v.bounds.Min.Add(src.Size())}.Intersect(v.bounds)
	src.Max = src.Min.Add(r.Size())
	draw.Copy(dst, r.Min, img, src, draw.Over, nil)
}

// Contains reports whether p, in dashboard coordinates, is inside the
// view.
func (v *View) Contains(p image.Point) bool {
	return p.In(v.bounds)
}

// PointerMotion forwards a pointer position, in dashboard coordinates,
// as a position relative to the view. Leaving the view sends a leave
// instead.
func (v *View) PointerMotion(x, y float64) {
	if v.surface == nil {
		return
	}
	if !v.Contains(image.Pt(int(x), int(y))) {
		v.inside = false
		v.surface.PointerLeave()
		return
	}
	v.inside = true
	v.surface.PointerMotion(x-float64(v.bounds.Min.X), y-float64(v.bounds.Min.Y))
}

// PointerButton forwards a button only while the pointer is over the
// view, as last reported by PointerMotion.
func (v *View) PointerButton(button pointer.Button, pressed bool) {
	if (v.surface != nil) && v.inside {
		v.surface.PointerButton(button, pressed)
	}
}

func (v *View) PointerLeave() {
	v.inside = false
	if v.surface != nil {
		v.surface.PointerLeave()
	}
}

func (v *View) Key(key uint32, pressed bool) {
	if v.surface != nil {
		v.surface.Key(key, pressed)
	}
}
