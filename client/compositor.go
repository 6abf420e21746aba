package wl

import "github.com/patrick9487/Smart-dashboard/wire"

type Compositor struct {
	object
}

func (c *Compositor) Interface() string { return "wl_compositor" }

func (c *Compositor) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: c.Interface(), Op: msg.Op()}
}

func (c *Compositor) CreateSurface() *Surface {
	s := &Surface{object: object{state: c.state}}
	c.state.add(s)

	mb := wire.NewMessage(c, 0)
	mb.WriteObject(s)
	c.state.send(mb)
	return s
}

type Surface struct {
	object
}

func (s *Surface) Interface() string { return "wl_surface" }

func (s *Surface) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0, 1: // enter, leave
		return nil
	default:
		return wire.UnknownOpError{Interface: s.Interface(), Op: msg.Op()}
	}
}

func (s *Surface) Destroy() {
	s.destroy(s, 0)
}

// Attach attaches buf as the surface's next content. A nil buf removes
// the content on the next commit.
func (s *Surface) Attach(buf *Buffer, x, y int32) {
	mb := wire.NewMessage(s, 1)
	if buf != nil {
		mb.WriteObject(buf)
	} else {
		mb.WriteObject(nil)
	}
	mb.WriteInt(x)
	mb.WriteInt(y)
	s.state.send(mb)
}

func (s *Surface) Damage(x, y, width, height int32) {
	mb := wire.NewMessage(s, 2)
	mb.WriteInt(x)
	mb.WriteInt(y)
	mb.WriteInt(width)
	mb.WriteInt(height)
	s.state.send(mb)
}

func (s *Surface) Frame() *Callback {
	cb := &Callback{object: object{state: s.state}}
	s.state.add(cb)

	mb := wire.NewMessage(s, 3)
	mb.WriteObject(cb)
	s.state.send(mb)
	return cb
}

func (s *Surface) Commit() {
	s.state.send(wire.NewMessage(s, 6))
}
