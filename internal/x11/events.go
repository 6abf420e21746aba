package x11

import (
	"errors"
	"image"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/patrick9487/Smart-dashboard/pointer"
)

// ErrDisconnected is returned by NextInput when the connection to the
// X server is lost.
var ErrDisconnected = errors.New("X connection closed")

// evdevOffset is the difference between X keycodes and the Linux
// input event codes that Wayland uses.
const evdevOffset = 8

type InputKind int

const (
	InputMotion InputKind = iota
	InputButton
	InputKey
	InputLeave
	InputExpose
	InputResize
)

// Input is an event on a Window, in window coordinates.
type Input struct {
	Kind    InputKind
	X, Y    float64
	Button  pointer.Button
	Key     uint32
	Pressed bool
	Size    image.Point
}

// NextInput blocks until an event arrives for w that can be
// translated. Events for other windows and events that carry nothing
// useful are skipped.
func (w *Window) NextInput() (Input, error) {
	conn := w.conn.XUtil.Conn()
	for {
		ev, xerr := conn.WaitForEvent()
		if (ev == nil) && (xerr == nil) {
			return Input{}, ErrDisconnected
		}
		if xerr != nil {
			continue
		}

		in, ok := w.translate(ev)
		if ok {
			return in, nil
		}
	}
}

func (w *Window) translate(ev xgb.Event) (Input, bool) {
	switch ev := ev.(type) {
	case xproto.MotionNotifyEvent:
		if ev.Event != w.ID {
			return Input{}, false
		}
		return Input{Kind: InputMotion, X: float64(ev.EventX), Y: float64(ev.EventY)}, true

	case xproto.ButtonPressEvent:
		return w.button(ev.Event, ev.Detail, ev.EventX, ev.EventY, true)

	case xproto.ButtonReleaseEvent:
		return w.button(ev.Event, ev.Detail, ev.EventX, ev.EventY, false)

	case xproto.KeyPressEvent:
		if (ev.Event != w.ID) || (ev.Detail < evdevOffset) {
			return Input{}, false
		}
		return Input{Kind: InputKey, Key: uint32(ev.Detail) - evdevOffset, Pressed: true}, true

	case xproto.KeyReleaseEvent:
		if (ev.Event != w.ID) || (ev.Detail < evdevOffset) {
			return Input{}, false
		}
		return Input{Kind: InputKey, Key: uint32(ev.Detail) - evdevOffset}, true

	case xproto.LeaveNotifyEvent:
		if ev.Event != w.ID {
			return Input{}, false
		}
		return Input{Kind: InputLeave}, true

	case xproto.ExposeEvent:
		if (ev.Window != w.ID) || (ev.Count != 0) {
			return Input{}, false
		}
		return Input{Kind: InputExpose}, true

	case xproto.ConfigureNotifyEvent:
		if ev.Window != w.ID {
			return Input{}, false
		}
		return Input{Kind: InputResize, Size: image.Pt(int(ev.Width), int(ev.Height))}, true
	}

	return Input{}, false
}

func (w *Window) button(win xproto.Window, detail xproto.Button, x, y int16, pressed bool) (Input, bool) {
	if win != w.ID {
		return Input{}, false
	}
	b, ok := pointer.FromX11(byte(detail))
	if !ok {
		return Input{}, false
	}
	return Input{
		Kind:    InputButton,
		X:       float64(x),
		Y:       float64(y),
		Button:  b,
		Pressed: pressed,
	}, true
}
