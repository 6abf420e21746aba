package x11

import (
	"fmt"
	"image"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/patrick9487/Smart-dashboard/match"
)

// WindowInfo describes a top-level client window.
type WindowInfo struct {
	ID       xproto.Window
	Title    string
	Instance string
	Class    string
}

// Matches reports whether the window looks like it belongs to pkg,
// judging by its WM_CLASS or its title.
func (info WindowInfo) Matches(pkg string) bool {
	return match.Matches(pkg, info.Class) ||
		match.Matches(pkg, info.Instance) ||
		match.Matches(pkg, info.Title)
}

// Clients lists the windows managed by the window manager.
func (c *Conn) Clients() ([]WindowInfo, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("get client list: %w", err)
	}

	infos := make([]WindowInfo, 0, len(clients))
	for _, win := range clients {
		info := WindowInfo{
			ID:    win,
			Title: c.windowTitle(win),
		}
		if class, err := icccm.WmClassGet(c.XUtil, win); err == nil {
			info.Instance = strings.TrimSpace(class.Instance)
			info.Class = strings.TrimSpace(class.Class)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (c *Conn) windowTitle(win xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, win)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, win)
	if err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// FindWindow returns the first client window that matches pkg,
// ignoring the windows in exclude.
func (c *Conn) FindWindow(pkg string, exclude ...xproto.Window) (WindowInfo, bool, error) {
	infos, err := c.Clients()
	if err != nil {
		return WindowInfo{}, false, err
	}

outer:
	for _, info := range infos {
		for _, ex := range exclude {
			if info.ID == ex {
				continue outer
			}
		}
		if info.Matches(pkg) {
			return info, true, nil
		}
	}
	return WindowInfo{}, false, nil
}

// Reparent moves win into parent and places it at bounds, relative to
// parent.
func (c *Conn) Reparent(win, parent xproto.Window, bounds image.Rectangle) error {
	conn := c.XUtil.Conn()

	err := xproto.ReparentWindowChecked(conn, win, parent, int16(bounds.Min.X), int16(bounds.Min.Y)).Check()
	if err != nil {
		return fmt.Errorf("reparent window %v: %w", win, err)
	}

	xproto.ConfigureWindow(
		conn,
		win,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{
			uint32(bounds.Min.X),
			uint32(bounds.Min.Y),
			uint32(max(bounds.Dx(), 1)),
			uint32(max(bounds.Dy(), 1)),
		},
	)
	xproto.MapWindow(conn, win)
	return nil
}

// Release moves a reparented window back to the root window.
func (c *Conn) Release(win xproto.Window) error {
	err := xproto.ReparentWindowChecked(c.XUtil.Conn(), win, c.Root, 0, 0).Check()
	if err != nil {
		return fmt.Errorf("release window %v: %w", win, err)
	}
	return nil
}

// Raise asks the window manager to activate win and stacks it above
// its siblings.
func (c *Conn) Raise(win xproto.Window) error {
	err := ewmh.ActiveWindowReq(c.XUtil, win)
	if err != nil {
		return fmt.Errorf("activate window %v: %w", win, err)
	}

	xproto.ConfigureWindow(
		c.XUtil.Conn(),
		win,
		xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeAbove},
	)
	return nil
}
