package server

import (
	"github.com/patrick9487/Smart-dashboard/internal/bin"
	"github.com/patrick9487/Smart-dashboard/pointer"
	"github.com/patrick9487/Smart-dashboard/shm"
	"github.com/patrick9487/Smart-dashboard/wire"
)

// keymap is resolved by the client's xkbcommon against the system
// keyboard configuration.
const keymap = `xkb_keymap {
	xkb_keycodes { include "evdev+aliases(qwerty)" };
	xkb_types { include "complete" };
	xkb_compat { include "complete" };
	xkb_symbols { include "pc+us+inet(evdev)" };
	xkb_geometry { include "pc(pc105)" };
};
`

const keymapFormatXKBV1 = 1

func bindSeat(c *Client, id, version uint32) error {
	s := &seat{resource: resource{client: c, version: version}}
	if err := c.add(s, id); err != nil {
		return err
	}

	mb := wire.NewMessage(s, seatCapabilitiesEvent)
	mb.WriteUint(seatCapPointer | seatCapKeyboard)
	c.send(mb)

	if version >= 2 {
		mb := wire.NewMessage(s, seatNameEvent)
		mb.WriteString("seat0")
		c.send(mb)
	}
	return nil
}

type seat struct {
	resource
}

func (s *seat) Interface() string { return SeatInterface }
func (s *seat) Delete()           {}

func (s *seat) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // get_pointer
		id := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		p := &seatPointer{resource: resource{client: s.client, version: s.version}}
		if err := s.client.add(p, id); err != nil {
			return err
		}
		s.client.pointers.Add(p)
		return nil

	case 1: // get_keyboard
		id := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		k := &seatKeyboard{resource: resource{client: s.client, version: s.version}}
		if err := s.client.add(k, id); err != nil {
			return err
		}
		s.client.keyboards.Add(k)
		return k.keymap()

	case 2: // get_touch
		id := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		return s.client.add(&touch{resource: resource{client: s.client, version: s.version}}, id)

	case 3: // release
		s.client.remove(s.id)
		return nil

	default:
		return wire.UnknownOpError{Interface: s.Interface(), Op: msg.Op()}
	}
}

type seatPointer struct {
	resource
}

func (p *seatPointer) Interface() string { return PointerInterface }

func (p *seatPointer) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // set_cursor
		return nil
	case 1: // release
		p.client.remove(p.id)
		return nil
	default:
		return wire.UnknownOpError{Interface: p.Interface(), Op: msg.Op()}
	}
}

func (p *seatPointer) Delete() {
	p.client.pointers.Remove(p)
}

func (p *seatPointer) frame() {
	if p.version >= 5 {
		p.client.send(wire.NewMessage(p, pointerFrameEvent))
	}
}

type seatKeyboard struct {
	resource
}

func (k *seatKeyboard) Interface() string { return KeyboardInterface }

func (k *seatKeyboard) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // release
		k.client.remove(k.id)
		return nil
	default:
		return wire.UnknownOpError{Interface: k.Interface(), Op: msg.Op()}
	}
}

func (k *seatKeyboard) Delete() {
	k.client.keyboards.Remove(k)
}

func (k *seatKeyboard) keymap() error {
	file, err := shm.Create("keymap")
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(keymap + "\x00")
	if err != nil {
		return err
	}

	mb := wire.NewMessage(k, keyboardKeymapEvent)
	mb.WriteUint(keymapFormatXKBV1)
	mb.WriteFile(file)
	mb.WriteUint(uint32(len(keymap) + 1))
	k.client.send(mb)
	return nil
}

type touch struct {
	resource
}

func (t *touch) Interface() string { return "wl_touch" }
func (t *touch) Delete()           {}

func (t *touch) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // release
		t.client.remove(t.id)
		return nil
	default:
		return wire.UnknownOpError{Interface: t.Interface(), Op: msg.Op()}
	}
}

// seatState tracks which surfaces have input focus. There is a single
// seat shared by every client.
type seatState struct {
	pointerFocus  *Surface
	keyboardFocus *Surface
}

func (state *seatState) surfaceDestroyed(s *Surface) {
	if state.pointerFocus == s {
		state.pointerFocus = nil
	}
	if state.keyboardFocus == s {
		state.keyboardFocus = nil
	}
}

func (server *Server) setPointerFocus(s *Surface, x, y float64) {
	old := server.seat.pointerFocus
	if old == s {
		return
	}
	server.seat.pointerFocus = s

	if (old != nil) && !old.destroyed {
		serial := server.nextSerial()
		for p := range old.client.pointers {
			mb := wire.NewMessage(p, pointerLeaveEvent)
			mb.WriteUint(serial)
			mb.WriteObject(old)
			p.client.send(mb)
			p.frame()
		}
	}

	if s == nil {
		return
	}
	serial := server.nextSerial()
	for p := range s.client.pointers {
		mb := wire.NewMessage(p, pointerEnterEvent)
		mb.WriteUint(serial)
		mb.WriteObject(s)
		mb.WriteFixed(wire.FixedFloat(x))
		mb.WriteFixed(wire.FixedFloat(y))
		p.client.send(mb)
	}
}

func (server *Server) setKeyboardFocus(s *Surface) {
	old := server.seat.keyboardFocus
	if old == s {
		return
	}
	server.seat.keyboardFocus = s

	if (old != nil) && !old.destroyed {
		serial := server.nextSerial()
		for k := range old.client.keyboards {
			mb := wire.NewMessage(k, keyboardLeaveEvent)
			mb.WriteUint(serial)
			mb.WriteObject(old)
			k.client.send(mb)
		}
	}

	if s == nil {
		return
	}
	serial := server.nextSerial()
	for k := range s.client.keyboards {
		mb := wire.NewMessage(k, keyboardEnterEvent)
		mb.WriteUint(serial)
		mb.WriteObject(s)
		mb.WriteArray(wordArray())
		k.client.send(mb)

		mb = wire.NewMessage(k, keyboardModifiersEvent)
		mb.WriteUint(serial)
		mb.WriteUint(0)
		mb.WriteUint(0)
		mb.WriteUint(0)
		mb.WriteUint(0)
		k.client.send(mb)
	}
}

// PointerMotion moves the pointer to (x, y) in surface-local
// coordinates, giving s pointer focus first if necessary.
func (s *Surface) PointerMotion(x, y float64) {
	if s.destroyed {
		return
	}

	server := s.client.server
	if server.seat.pointerFocus != s {
		server.setPointerFocus(s, x, y)
		for p := range s.client.pointers {
			p.frame()
		}
		return
	}

	now := server.now()
	for p := range s.client.pointers {
		mb := wire.NewMessage(p, pointerMotionEvent)
		mb.WriteUint(now)
		mb.WriteFixed(wire.FixedFloat(x))
		mb.WriteFixed(wire.FixedFloat(y))
		p.client.send(mb)
		p.frame()
	}
}

// PointerButton sends a button event to s. It is ignored unless s has
// pointer focus.
func (s *Surface) PointerButton(button pointer.Button, pressed bool) {
	server := s.client.server
	if s.destroyed || (server.seat.pointerFocus != s) {
		return
	}

	var state uint32
	if pressed {
		state = 1
	}

	serial := server.nextSerial()
	now := server.now()
	for p := range s.client.pointers {
		mb := wire.NewMessage(p, pointerButtonEvent)
		mb.WriteUint(serial)
		mb.WriteUint(now)
		mb.WriteUint(uint32(button))
		mb.WriteUint(state)
		p.client.send(mb)
		p.frame()
	}
}

// PointerLeave removes pointer focus from s.
func (s *Surface) PointerLeave() {
	server := s.client.server
	if server.seat.pointerFocus == s {
		server.setPointerFocus(nil, 0, 0)
	}
}

// Key sends a key event with an evdev key code to s, giving it
// keyboard focus first if necessary.
func (s *Surface) Key(key uint32, pressed bool) {
	if s.destroyed {
		return
	}

	server := s.client.server
	server.setKeyboardFocus(s)

	var state uint32
	if pressed {
		state = 1
	}

	serial := server.nextSerial()
	now := server.now()
	for k := range s.client.keyboards {
		mb := wire.NewMessage(k, keyboardKeyEvent)
		mb.WriteUint(serial)
		mb.WriteUint(now)
		mb.WriteUint(key)
		mb.WriteUint(state)
		k.client.send(mb)
	}
}

// wordArray encodes words as a protocol array argument.
func wordArray(words ...uint32) []byte {
	buf := make([]byte, 0, 4*len(words))
	for _, w := range words {
		b := bin.Bytes(w)
		buf = append(buf, b[:]...)
	}
	return buf
}
