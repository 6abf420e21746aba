package x11

import (
	"fmt"
	"image"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// putImageHeader is the size of a PutImage request without its data.
const putImageHeader = 24

const windowEvents = xproto.EventMaskExposure |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskPointerMotion |
	xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskKeyPress |
	xproto.EventMaskKeyRelease |
	xproto.EventMaskLeaveWindow

// Window is a top-level window that images can be drawn into.
type Window struct {
	conn  *Conn
	ID    xproto.Window
	gc    xproto.Gcontext
	depth byte
	buf   []byte
}

// CreateWindow creates and maps a window on the root window.
func (c *Conn) CreateWindow(title string, size image.Point) (*Window, error) {
	conn := c.XUtil.Conn()
	screen := c.XUtil.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}

	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		c.Root,
		0, 0,
		uint16(size.X), uint16(size.Y),
		0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		[]uint32{0, windowEvents},
	).Check()
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		xproto.DestroyWindow(conn, wid)
		return nil, err
	}
	err = xproto.CreateGCChecked(conn, gc, xproto.Drawable(wid), 0, nil).Check()
	if err != nil {
		xproto.DestroyWindow(conn, wid)
		return nil, fmt.Errorf("create graphics context: %w", err)
	}

	ewmh.WmNameSet(c.XUtil, wid, title)
	icccm.WmClassSet(c.XUtil, wid, &icccm.WmClass{
		Instance: "smart-dashboard",
		Class:    "SmartDashboard",
	})
	xproto.MapWindow(conn, wid)

	return &Window{
		conn:  c,
		ID:    wid,
		gc:    gc,
		depth: screen.RootDepth,
	}, nil
}

// Destroy destroys the window.
func (w *Window) Destroy() {
	conn := w.conn.XUtil.Conn()
	xproto.FreeGC(conn, w.gc)
	xproto.DestroyWindow(conn, w.ID)
}

// Put draws img at the window's origin. The image is split across
// several requests if it does not fit in one.
func (w *Window) Put(img *image.RGBA) {
	bounds := img.Bounds()
	width := bounds.Dx()
	if (width == 0) || (bounds.Dy() == 0) {
		return
	}

	rowBytes := width * 4
	rows := max((w.conn.maxRequestBytes()-putImageHeader)/rowBytes, 1)
	if cap(w.buf) < rows*rowBytes {
		w.buf = make([]byte, rows*rowBytes)
	}

	conn := w.conn.XUtil.Conn()
	for y := bounds.Min.Y; y < bounds.Max.Y; y += rows {
		n := min(rows, bounds.Max.Y-y)
		data := w.buf[:n*rowBytes]
		for row := 0; row < n; row++ {
			src := img.Pix[img.PixOffset(bounds.Min.X, y+row):][:rowBytes]
			dst := data[row*rowBytes:][:rowBytes]
			for i := 0; i < rowBytes; i += 4 {
				// ZPixmap at depth 24 is BGRX on little-endian servers.
				dst[i+0] = src[i+2]
				dst[i+1] = src[i+1]
				dst[i+2] = src[i+0]
				dst[i+3] = src[i+3]
			}
		}

		xproto.PutImage(
			conn,
			xproto.ImageFormatZPixmap,
			xproto.Drawable(w.ID),
			w.gc,
			uint16(width), uint16(n),
			0, int16(y-bounds.Min.Y),
			0,
			w.depth,
			data,
		)
	}
}
