package wl

import (
	"github.com/patrick9487/Smart-dashboard/wire"
)

type Display struct {
	object
}

func (d *Display) Interface() string { return "wl_display" }

func (d *Display) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // error
		id := msg.ReadObject()
		code := msg.ReadUint()
		message := msg.ReadString()
		if err := msg.Err(); err != nil {
			return err
		}
		return &DisplayError{ObjectID: id, Code: code, Message: message}

	case 1: // delete_id
		id := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		d.state.store.Delete(id)
		return nil

	default:
		return wire.UnknownOpError{Interface: d.Interface(), Op: msg.Op()}
	}
}

func (d *Display) Sync() *Callback {
	cb := &Callback{object: object{state: d.state}}
	d.state.add(cb)

	mb := wire.NewMessage(d, 0)
	mb.WriteObject(cb)
	d.state.send(mb)
	return cb
}

func (d *Display) GetRegistry() *Registry {
	r := &Registry{object: object{state: d.state}}
	d.state.add(r)

	mb := wire.NewMessage(d, 1)
	mb.WriteObject(r)
	d.state.send(mb)
	return r
}

type Registry struct {
	Global       func(name uint32, inter string, version uint32)
	GlobalRemove func(name uint32)

	object
}

func (r *Registry) Interface() string { return "wl_registry" }

func (r *Registry) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // global
		name := msg.ReadUint()
		inter := msg.ReadString()
		version := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		if r.Global != nil {
			r.Global(name, inter, version)
		}
		return nil

	case 1: // global_remove
		name := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		if r.GlobalRemove != nil {
			r.GlobalRemove(name)
		}
		return nil

	default:
		return wire.UnknownOpError{Interface: r.Interface(), Op: msg.Op()}
	}
}

// bind binds the global name to obj, which must not have an ID yet.
func (r *Registry) bind(name uint32, obj wire.Object, version uint32) {
	r.state.add(obj)

	mb := wire.NewMessage(r, 0)
	mb.WriteUint(name)
	mb.WriteNewID(wire.NewID{Interface: obj.Interface(), Version: version, ID: obj.ID()})
	r.state.send(mb)
}

func (r *Registry) BindCompositor(name, version uint32) *Compositor {
	c := &Compositor{object: object{state: r.state}}
	r.bind(name, c, version)
	return c
}

func (r *Registry) BindShm(name, version uint32) *Shm {
	s := &Shm{object: object{state: r.state}}
	r.bind(name, s, version)
	return s
}

func (r *Registry) BindSeat(name, version uint32) *Seat {
	s := &Seat{object: object{state: r.state}, version: version}
	r.bind(name, s, version)
	return s
}

func (r *Registry) BindOutput(name, version uint32) *Output {
	o := &Output{object: object{state: r.state}}
	r.bind(name, o, version)
	return o
}

func (r *Registry) BindWmBase(name, version uint32) *WmBase {
	wm := &WmBase{object: object{state: r.state}}
	r.bind(name, wm, version)
	return wm
}

func (r *Registry) BindShell(name, version uint32) *Shell {
	sh := &Shell{object: object{state: r.state}}
	r.bind(name, sh, version)
	return sh
}

type Callback struct {
	Done func(data uint32)

	object
}

func (cb *Callback) Interface() string { return "wl_callback" }

func (cb *Callback) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // done
		data := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		if cb.Done != nil {
			cb.Done(data)
		}
		return nil

	default:
		return wire.UnknownOpError{Interface: cb.Interface(), Op: msg.Op()}
	}
}
