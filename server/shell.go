package server

import (
	"image"

	"github.com/patrick9487/Smart-dashboard/wire"
)

// Shell is the role object that turns a surface into an application
// window. Both xdg_toplevel and the legacy wl_shell_surface implement
// it.
type Shell interface {
	// Surface is the surface the role was assigned to.
	Surface() *Surface

	// Title is the most recently set window title.
	Title() string

	// AppID is the application ID or window class, if the client set
	// one.
	AppID() string

	// OnTitle registers f to be called every time the client sets the
	// title, including when it sets the same title again.
	OnTitle(f func(title string))

	// Configure asks the client to resize the window.
	Configure(size image.Point)

	// Close asks the client to close the window. It does nothing for
	// roles that can't express the request.
	Close()
}

// titles holds the title state shared by every Shell implementation.
type titles struct {
	title   string
	appID   string
	onTitle []func(string)
}

func (t *titles) Title() string { return t.title }
func (t *titles) AppID() string { return t.appID }

func (t *titles) OnTitle(f func(string)) {
	t.onTitle = append(t.onTitle, f)
}

func (t *titles) setTitle(title string) {
	t.title = title
	for _, f := range t.onTitle {
		f(title)
	}
}

func bindShell(c *Client, id, version uint32) error {
	return c.add(&wlShell{resource: resource{client: c, version: version}}, id)
}

type wlShell struct {
	resource
}

func (sh *wlShell) Interface() string { return ShellInterface }
func (sh *wlShell) Delete()           {}

func (sh *wlShell) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // get_shell_surface
		id := msg.ReadUint()
		sid := msg.ReadObject()
		if err := msg.Err(); err != nil {
			return err
		}
		s, err := lookup[*Surface](sh.client, sid, false)
		if err != nil {
			return err
		}
		if !s.setRole(ShellSurfaceInterface) {
			return &ProtocolError{Object: sh, Code: shellErrRole, Message: "surface already has a role"}
		}

		ss := &ShellSurface{
			resource: resource{client: sh.client, version: sh.version},
			surface:  s,
		}
		if err := sh.client.add(ss, id); err != nil {
			return err
		}
		s.shell = ss
		sh.client.server.listener.ShellCreated(ss)
		return nil

	default:
		return wire.UnknownOpError{Interface: sh.Interface(), Op: msg.Op()}
	}
}

// ShellSurface is a wl_shell_surface.
type ShellSurface struct {
	resource
	titles
	surface *Surface
}

func (ss *ShellSurface) Interface() string { return ShellSurfaceInterface }
func (ss *ShellSurface) Delete()           {}
func (ss *ShellSurface) Surface() *Surface { return ss.surface }

func (ss *ShellSurface) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 8: // set_title
		title := msg.ReadString()
		if err := msg.Err(); err != nil {
			return err
		}
		ss.setTitle(title)
		return nil

	case 9: // set_class
		class := msg.ReadString()
		if err := msg.Err(); err != nil {
			return err
		}
		ss.appID = class
		return nil

	case 0, 1, 2, 3, 4, 5, 6, 7: // pong, move, resize, set_toplevel, set_transient, set_fullscreen, set_popup, set_maximized
		return nil

	default:
		return wire.UnknownOpError{Interface: ss.Interface(), Op: msg.Op()}
	}
}

func (ss *ShellSurface) Configure(size image.Point) {
	if ss.surface.destroyed {
		return
	}

	mb := wire.NewMessage(ss, shellSurfaceConfigure)
	mb.WriteUint(0)
	mb.WriteInt(int32(size.X))
	mb.WriteInt(int32(size.Y))
	ss.client.send(mb)
}

func (ss *ShellSurface) Close() {}
