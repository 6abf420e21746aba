package server

import (
	"image"

	"github.com/patrick9487/Smart-dashboard/wire"
)

func bindCompositor(c *Client, id, version uint32) error {
	return c.add(&compositor{resource: resource{client: c, version: version}}, id)
}

type compositor struct {
	resource
}

func (comp *compositor) Interface() string { return CompositorInterface }
func (comp *compositor) Delete()           {}

func (comp *compositor) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // create_surface
		id := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		return comp.createSurface(id)

	case 1: // create_region
		id := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		return comp.client.add(&region{resource: resource{client: comp.client, version: comp.version}}, id)

	default:
		return wire.UnknownOpError{Interface: comp.Interface(), Op: msg.Op()}
	}
}

func (comp *compositor) createSurface(id uint32) error {
	server := comp.client.server
	server.nextSurfaceID++

	s := Surface{
		resource: resource{client: comp.client, version: comp.version},
		sid:      server.nextSurfaceID,
	}
	if err := comp.client.add(&s, id); err != nil {
		return err
	}

	server.listener.SurfaceCreated(&s)
	return nil
}

type region struct {
	resource
}

func (r *region) Interface() string { return RegionInterface }
func (r *region) Delete()           {}

func (r *region) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // destroy
		r.client.remove(r.id)
		return nil
	case 1, 2: // add, subtract
		return nil
	default:
		return wire.UnknownOpError{Interface: r.Interface(), Op: msg.Op()}
	}
}

// Surface is a wl_surface. Its committed content is copied out of the
// client's buffer at commit time, so the image returned by Image stays
// valid after the buffer has been released back to the client.
type Surface struct {
	resource
	sid uint64

	role  string
	shell Shell

	pending struct {
		attached bool
		buffer   *Buffer
		frames   []*callback
	}
	image      image.Image
	hasContent bool
	frames     []*callback
	destroyed  bool
}

func (s *Surface) Interface() string { return SurfaceInterface }

// SurfaceID is unique among every surface the server ever creates,
// unlike the protocol object ID.
func (s *Surface) SurfaceID() uint64 { return s.sid }

// HasContent reports whether the surface has ever committed a buffer.
func (s *Surface) HasContent() bool { return s.hasContent }

// Image returns the most recently committed content, or nil if the
// surface currently has no buffer.
func (s *Surface) Image() image.Image { return s.image }

// Size returns the size of the current content.
func (s *Surface) Size() image.Point {
	if s.image == nil {
		return image.Point{}
	}
	return s.image.Bounds().Size()
}

// Shell returns the shell role object for the surface, or nil if it
// has none.
func (s *Surface) Shell() Shell { return s.shell }

// Configure asks the client to resize the surface's window. It does
// nothing if the surface has no shell.
func (s *Surface) Configure(size image.Point) {
	if s.shell != nil {
		s.shell.Configure(size)
	}
}

// Destroyed reports whether the client destroyed the surface.
func (s *Surface) Destroyed() bool { return s.destroyed }

func (s *Surface) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // destroy
		s.client.remove(s.id)
		return nil

	case 1: // attach
		bid := msg.ReadObject()
		msg.ReadInt()
		msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		buf, err := lookup[*Buffer](s.client, bid, true)
		if err != nil {
			return err
		}
		s.pending.attached = true
		s.pending.buffer = buf
		return nil

	case 3: // frame
		id := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		cb := &callback{resource: resource{client: s.client, version: 1}}
		if err := s.client.add(cb, id); err != nil {
			return err
		}
		s.pending.frames = append(s.pending.frames, cb)
		return nil

	case 6: // commit
		return s.commit()

	case 2, 4, 5, 7, 8, 9: // damage, set_opaque_region, set_input_region, set_buffer_transform, set_buffer_scale, damage_buffer
		return nil

	default:
		return wire.UnknownOpError{Interface: s.Interface(), Op: msg.Op()}
	}
}

func (s *Surface) commit() error {
	if s.pending.attached {
		buf := s.pending.buffer
		switch {
		case (buf == nil) || buf.destroyed:
			s.image = nil
		default:
			img, err := buf.snapshot()
			if err != nil {
				return err
			}
			s.image = img
			s.hasContent = true
			buf.release()
		}
	}
	s.pending.attached = false
	s.pending.buffer = nil

	s.frames = append(s.frames, s.pending.frames...)
	s.pending.frames = nil

	server := s.client.server
	if len(s.frames) > 0 {
		server.framePending.Add(s)
	}
	server.listener.SurfaceCommitted(s)
	return nil
}

func (s *Surface) setRole(role string) bool {
	if (s.role != "") && (s.role != role) {
		return false
	}
	s.role = role
	return true
}

func (s *Surface) Delete() {
	s.destroyed = true

	server := s.client.server
	server.framePending.Remove(s)
	server.seat.surfaceDestroyed(s)

	frames := append(s.pending.frames, s.frames...)
	s.pending.frames = nil
	s.frames = nil
	if !s.client.closed {
		for _, cb := range frames {
			s.client.remove(cb.id)
		}
	}

	server.listener.SurfaceDestroyed(s)
}
