package wl

import (
	"github.com/patrick9487/Smart-dashboard/wire"
)

// WmBase is xdg_wm_base. Pings are answered automatically.
type WmBase struct {
	object
}

func (wm *WmBase) Interface() string { return "xdg_wm_base" }

func (wm *WmBase) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // ping
		serial := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		mb := wire.NewMessage(wm, 3)
		mb.WriteUint(serial)
		wm.state.send(mb)
		return nil

	default:
		return wire.UnknownOpError{Interface: wm.Interface(), Op: msg.Op()}
	}
}

func (wm *WmBase) GetXdgSurface(s *Surface) *XdgSurface {
	xs := &XdgSurface{object: object{state: wm.state}}
	wm.state.add(xs)

	mb := wire.NewMessage(wm, 2)
	mb.WriteObject(xs)
	mb.WriteObject(s)
	wm.state.send(mb)
	return xs
}

// XdgSurface acknowledges every configure event before calling
// Configure.
type XdgSurface struct {
	Configure func(serial uint32)

	object
}

func (xs *XdgSurface) Interface() string { return "xdg_surface" }

func (xs *XdgSurface) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // configure
		serial := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		mb := wire.NewMessage(xs, 4)
		mb.WriteUint(serial)
		xs.state.send(mb)
		if xs.Configure != nil {
			xs.Configure(serial)
		}
		return nil

	default:
		return wire.UnknownOpError{Interface: xs.Interface(), Op: msg.Op()}
	}
}

func (xs *XdgSurface) Destroy() {
	xs.destroy(xs, 0)
}

func (xs *XdgSurface) GetToplevel() *Toplevel {
	t := &Toplevel{object: object{state: xs.state}}
	xs.state.add(t)

	mb := wire.NewMessage(xs, 1)
	mb.WriteObject(t)
	xs.state.send(mb)
	return t
}

type Toplevel struct {
	Configure func(width, height int32, states []byte)
	Close     func()

	object
}

func (t *Toplevel) Interface() string { return "xdg_toplevel" }

func (t *Toplevel) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // configure
		width, height := msg.ReadInt(), msg.ReadInt()
		states := msg.ReadArray()
		if err := msg.Err(); err != nil {
			return err
		}
		if t.Configure != nil {
			t.Configure(width, height, states)
		}
		return nil

	case 1: // close
		if t.Close != nil {
			t.Close()
		}
		return nil

	default:
		return wire.UnknownOpError{Interface: t.Interface(), Op: msg.Op()}
	}
}

func (t *Toplevel) Destroy() {
	t.destroy(t, 0)
}

func (t *Toplevel) SetTitle(title string) {
	mb := wire.NewMessage(t, 2)
	mb.WriteString(title)
	t.state.send(mb)
}

func (t *Toplevel) SetAppID(appID string) {
	mb := wire.NewMessage(t, 3)
	mb.WriteString(appID)
	t.state.send(mb)
}
