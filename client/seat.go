package wl

import (
	"os"

	"github.com/patrick9487/Smart-dashboard/pointer"
	"github.com/patrick9487/Smart-dashboard/wire"
)

const (
	SeatCapabilityPointer  = 1
	SeatCapabilityKeyboard = 2
)

type Seat struct {
	Capabilities func(caps uint32)
	Name         func(name string)

	object
	version uint32
}

func (s *Seat) Interface() string { return "wl_seat" }

func (s *Seat) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // capabilities
		caps := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		if s.Capabilities != nil {
			s.Capabilities(caps)
		}
		return nil

	case 1: // name
		name := msg.ReadString()
		if err := msg.Err(); err != nil {
			return err
		}
		if s.Name != nil {
			s.Name(name)
		}
		return nil

	default:
		return wire.UnknownOpError{Interface: s.Interface(), Op: msg.Op()}
	}
}

func (s *Seat) GetPointer() *Pointer {
	p := &Pointer{object: object{state: s.state}}
	s.state.add(p)

	mb := wire.NewMessage(s, 0)
	mb.WriteObject(p)
	s.state.send(mb)
	return p
}

func (s *Seat) GetKeyboard() *Keyboard {
	k := &Keyboard{object: object{state: s.state}}
	s.state.add(k)

	mb := wire.NewMessage(s, 1)
	mb.WriteObject(k)
	s.state.send(mb)
	return k
}

type Pointer struct {
	Enter  func(serial uint32, s *Surface, x, y wire.Fixed)
	Leave  func(serial uint32, s *Surface)
	Motion func(time uint32, x, y wire.Fixed)
	Button func(serial, time uint32, button pointer.Button, pressed bool)
	Frame  func()

	object
}

func (p *Pointer) Interface() string { return "wl_pointer" }

func (p *Pointer) surface(id uint32) *Surface {
	s, _ := p.state.get(id).(*Surface)
	return s
}

func (p *Pointer) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // enter
		serial := msg.ReadUint()
		sid := msg.ReadObject()
		x, y := msg.ReadFixed(), msg.ReadFixed()
		if err := msg.Err(); err != nil {
			return err
		}
		if p.Enter != nil {
			p.Enter(serial, p.surface(sid), x, y)
		}
		return nil

	case 1: // leave
		serial := msg.ReadUint()
		sid := msg.ReadObject()
		if err := msg.Err(); err != nil {
			return err
		}
		if p.Leave != nil {
			p.Leave(serial, p.surface(sid))
		}
		return nil

	case 2: // motion
		time := msg.ReadUint()
		x, y := msg.ReadFixed(), msg.ReadFixed()
		if err := msg.Err(); err != nil {
			return err
		}
		if p.Motion != nil {
			p.Motion(time, x, y)
		}
		return nil

	case 3: // button
		serial := msg.ReadUint()
		time := msg.ReadUint()
		button := msg.ReadUint()
		state := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		if p.Button != nil {
			p.Button(serial, time, pointer.Button(button), state == 1)
		}
		return nil

	case 5: // frame
		if p.Frame != nil {
			p.Frame()
		}
		return nil

	case 4, 6, 7, 8: // axis, axis_source, axis_stop, axis_discrete
		return nil

	default:
		return wire.UnknownOpError{Interface: p.Interface(), Op: msg.Op()}
	}
}

type Keyboard struct {
	Keymap func(format uint32, file *os.File, size uint32)
	Enter  func(serial uint32, s *Surface)
	Leave  func(serial uint32, s *Surface)
	Key    func(serial, time, key uint32, pressed bool)

	object
}

func (k *Keyboard) Interface() string { return "wl_keyboard" }

func (k *Keyboard) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // keymap
		format := msg.ReadUint()
		file := msg.ReadFile()
		size := msg.ReadUint()
		if err := msg.Err(); err != nil {
			if file != nil {
				file.Close()
			}
			return err
		}
		if k.Keymap == nil {
			file.Close()
			return nil
		}
		// The handler owns the file.
		k.Keymap(format, file, size)
		return nil

	case 1: // enter
		serial := msg.ReadUint()
		sid := msg.ReadObject()
		msg.ReadArray()
		if err := msg.Err(); err != nil {
			return err
		}
		if k.Enter != nil {
			s, _ := k.state.get(sid).(*Surface)
			k.Enter(serial, s)
		}
		return nil

	case 2: // leave
		serial := msg.ReadUint()
		sid := msg.ReadObject()
		if err := msg.Err(); err != nil {
			return err
		}
		if k.Leave != nil {
			s, _ := k.state.get(sid).(*Surface)
			k.Leave(serial, s)
		}
		return nil

	case 3: // key
		serial := msg.ReadUint()
		time := msg.ReadUint()
		key := msg.ReadUint()
		state := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		if k.Key != nil {
			k.Key(serial, time, key, state == 1)
		}
		return nil

	case 4, 5: // modifiers, repeat_info
		return nil

	default:
		return wire.UnknownOpError{Interface: k.Interface(), Op: msg.Op()}
	}
}
