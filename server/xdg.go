package server

import (
	"image"

	"github.com/patrick9487/Smart-dashboard/wire"
)

const toplevelStateActivated = 4

func bindWmBase(c *Client, id, version uint32) error {
	return c.add(&wmBase{resource: resource{client: c, version: version}}, id)
}

type wmBase struct {
	resource
}

func (wm *wmBase) Interface() string { return WmBaseInterface }
func (wm *wmBase) Delete()           {}

func (wm *wmBase) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // destroy
		wm.client.remove(wm.id)
		return nil

	case 1: // create_positioner
		id := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		return wm.client.add(&positioner{resource: resource{client: wm.client, version: wm.version}}, id)

	case 2: // get_xdg_surface
		id := msg.ReadUint()
		sid := msg.ReadObject()
		if err := msg.Err(); err != nil {
			return err
		}
		s, err := lookup[*Surface](wm.client, sid, false)
		if err != nil {
			return err
		}
		if (s.role != "") && (s.role != ToplevelInterface) && (s.role != PopupInterface) {
			return &ProtocolError{Object: wm, Code: wmBaseErrRole, Message: "surface already has a role"}
		}
		return wm.client.add(&xdgSurface{resource: resource{client: wm.client, version: wm.version}, surface: s}, id)

	case 3: // pong
		return nil

	default:
		return wire.UnknownOpError{Interface: wm.Interface(), Op: msg.Op()}
	}
}

// positioner only exists so that popups can be created and
// immediately dismissed.
type positioner struct {
	resource
}

func (p *positioner) Interface() string { return PositionerInterface }
func (p *positioner) Delete()           {}

func (p *positioner) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // destroy
		p.client.remove(p.id)
		return nil
	default:
		return nil
	}
}

type xdgSurface struct {
	resource
	surface   *Surface
	geometry  image.Rectangle
	lastAcked uint32
}

func (xs *xdgSurface) Interface() string { return XdgSurfaceInterface }
func (xs *xdgSurface) Delete()           {}

func (xs *xdgSurface) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // destroy
		xs.client.remove(xs.id)
		return nil

	case 1: // get_toplevel
		id := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		return xs.getToplevel(id)

	case 2: // get_popup
		id := msg.ReadUint()
		msg.ReadObject()
		msg.ReadObject()
		if err := msg.Err(); err != nil {
			return err
		}
		if !xs.surface.setRole(PopupInterface) {
			return &ProtocolError{Object: xs, Code: wmBaseErrRole, Message: "surface already has a role"}
		}
		p := &popup{resource: resource{client: xs.client, version: xs.version}}
		if err := xs.client.add(p, id); err != nil {
			return err
		}
		// Popups are not composited, so they are dismissed right away.
		xs.client.send(wire.NewMessage(p, popupDoneEvent))
		return nil

	case 3: // set_window_geometry
		x, y := msg.ReadInt(), msg.ReadInt()
		w, h := msg.ReadInt(), msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		xs.geometry = image.Rect(int(x), int(y), int(x+w), int(y+h))
		return nil

	case 4: // ack_configure
		serial := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		xs.lastAcked = serial
		return nil

	default:
		return wire.UnknownOpError{Interface: xs.Interface(), Op: msg.Op()}
	}
}

func (xs *xdgSurface) getToplevel(id uint32) error {
	s := xs.surface
	if !s.setRole(ToplevelInterface) {
		return &ProtocolError{Object: xs, Code: wmBaseErrRole, Message: "surface already has a role"}
	}

	t := &Toplevel{
		resource: resource{client: xs.client, version: xs.version},
		xdg:      xs,
	}
	if err := xs.client.add(t, id); err != nil {
		return err
	}
	s.shell = t
	xs.client.server.listener.ShellCreated(t)

	// A zero size lets the client pick its own.
	t.Configure(image.Point{})
	return nil
}

func (xs *xdgSurface) configure() {
	mb := wire.NewMessage(xs, xdgSurfaceConfigure)
	mb.WriteUint(xs.client.server.nextSerial())
	xs.client.send(mb)
}

// Toplevel is an xdg_toplevel.
type Toplevel struct {
	resource
	titles
	xdg       *xdgSurface
	destroyed bool
}

func (t *Toplevel) Interface() string { return ToplevelInterface }
func (t *Toplevel) Surface() *Surface { return t.xdg.surface }

func (t *Toplevel) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // destroy
		t.client.remove(t.id)
		return nil

	case 2: // set_title
		title := msg.ReadString()
		if err := msg.Err(); err != nil {
			return err
		}
		t.setTitle(title)
		return nil

	case 3: // set_app_id
		appID := msg.ReadString()
		if err := msg.Err(); err != nil {
			return err
		}
		t.appID = appID
		return nil

	case 1, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13:
		// set_parent, show_window_menu, move, resize, set_max_size,
		// set_min_size, set_maximized, unset_maximized,
		// set_fullscreen, unset_fullscreen, set_minimized
		return nil

	default:
		return wire.UnknownOpError{Interface: t.Interface(), Op: msg.Op()}
	}
}

func (t *Toplevel) Delete() {
	t.destroyed = true
}

func (t *Toplevel) Configure(size image.Point) {
	if t.destroyed || t.xdg.surface.destroyed {
		return
	}

	mb := wire.NewMessage(t, toplevelConfigureEvent)
	mb.WriteInt(int32(size.X))
	mb.WriteInt(int32(size.Y))
	mb.WriteArray(wordArray(toplevelStateActivated))
	t.client.send(mb)

	t.xdg.configure()
}

func (t *Toplevel) Close() {
	if t.destroyed {
		return
	}
	t.client.send(wire.NewMessage(t, toplevelCloseEvent))
}

type popup struct {
	resource
}

func (p *popup) Interface() string { return PopupInterface }
func (p *popup) Delete()           {}

func (p *popup) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // destroy
		p.client.remove(p.id)
		return nil
	default:
		return nil
	}
}
