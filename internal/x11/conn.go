// Package x11 talks to the host X server. It finds and reparents
// application windows in overlay mode and provides the window that
// compositor mode presents surfaces in.
package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// Conn is a connection to the X server named by $DISPLAY.
type Conn struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

func Connect() (*Conn, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	return &Conn{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

func (c *Conn) Close() {
	c.XUtil.Conn().Close()
}

// maxRequestBytes is the largest request the server accepts.
func (c *Conn) maxRequestBytes() int {
	return int(c.XUtil.Setup().MaximumRequestLength) * 4
}
