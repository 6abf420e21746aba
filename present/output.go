package present

import (
	"image"
	"log/slog"

	"github.com/patrick9487/Smart-dashboard/internal/x11"
	"golang.org/x/image/draw"
)

// Output shows a View in an X window and feeds the window's input
// back into it.
type Output struct {
	win    *x11.Window
	view   *View
	canvas *image.RGBA
	post   func(func()) bool
	logger *slog.Logger
}

// NewOutput connects view to win, which is size pixels large. post
// must run functions on the goroutine that owns view.
func NewOutput(win *x11.Window, size image.Point, view *View, post func(func()) bool, logger *slog.Logger) *Output {
	o := Output{
		win:    win,
		view:   view,
		canvas: image.NewRGBA(image.Rectangle{Max: size}),
		post:   post,
		logger: logger,
	}
	view.OnRepaint = o.Repaint
	return &o
}

// Repaint redraws the window. It must be called on the view's
// goroutine.
func (o *Output) Repaint() {
	draw.Draw(o.canvas, o.canvas.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)
	o.view.Paint(o.canvas)
	o.win.Put(o.canvas)
}

// Run reads input from the window until the X connection is closed.
func (o *Output) Run() error {
	for {
		in, err := o.win.NextInput()
		if err != nil {
			return err
		}
		if !o.post(func() { o.handle(in) }) {
			return nil
		}
	}
}

func (o *Output) handle(in x11.Input) {
	switch in.Kind {
	case x11.InputMotion:
		o.view.PointerMotion(in.X, in.Y)
	case x11.InputButton:
		// X reports where the click happened, which may be the first
		// position seen since the pointer entered the window.
		o.view.PointerMotion(in.X, in.Y)
		o.view.PointerButton(in.Button, in.Pressed)
	case x11.InputKey:
		o.view.Key(in.Key, in.Pressed)
	case x11.InputLeave:
		o.view.PointerLeave()
	case x11.InputExpose:
		o.Repaint()
	case x11.InputResize:
		if in.Size == o.canvas.Bounds().Size() {
			return
		}
		o.logger.Debug("output resized", "size", in.Size)
		o.canvas = image.NewRGBA(image.Rectangle{Max: in.Size})
		o.Repaint()
	}
}
