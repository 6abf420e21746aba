package server

import (
	"fmt"

	"github.com/patrick9487/Smart-dashboard/wire"
)

type display struct {
	resource
}

func (d *display) Interface() string { return DisplayInterface }
func (d *display) Delete()           {}

func (d *display) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // sync
		id := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		cb := &callback{resource: resource{client: d.client, version: 1}}
		if err := d.client.add(cb, id); err != nil {
			return err
		}
		cb.done(d.client.server.nextSerial())
		return nil

	case 1: // get_registry
		id := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		r := &registry{resource: resource{client: d.client, version: 1}}
		if err := d.client.add(r, id); err != nil {
			return err
		}
		for _, g := range d.client.server.globals {
			r.global(g)
		}
		return nil

	default:
		return wire.UnknownOpError{Interface: d.Interface(), Op: msg.Op()}
	}
}

func (d *display) error(obj wire.Object, code uint32, message string) {
	mb := wire.NewMessage(d, displayErrorEvent)
	mb.WriteObject(obj)
	mb.WriteUint(code)
	mb.WriteString(message)
	d.client.send(mb)
}

func (d *display) deleteID(id uint32) {
	mb := wire.NewMessage(d, displayDeleteIDEvent)
	mb.WriteUint(id)
	d.client.send(mb)
}

type registry struct {
	resource
}

func (r *registry) Interface() string { return RegistryInterface }
func (r *registry) Delete()           {}

func (r *registry) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // bind
		name := msg.ReadUint()
		id := msg.ReadNewID()
		if err := msg.Err(); err != nil {
			return err
		}
		return r.bind(name, id)

	default:
		return wire.UnknownOpError{Interface: r.Interface(), Op: msg.Op()}
	}
}

func (r *registry) bind(name uint32, id wire.NewID) error {
	globals := r.client.server.globals
	if (name == 0) || (int(name) > len(globals)) {
		return &ProtocolError{Object: r, Code: ErrInvalidObject, Message: fmt.Sprintf("invalid global %v", name)}
	}

	g := globals[name-1]
	if id.Interface != g.iface {
		return &ProtocolError{
			Object:  r,
			Code:    ErrInvalidObject,
			Message: fmt.Sprintf("invalid interface for global %v: have %v, wanted %v", name, id.Interface, g.iface),
		}
	}
	if (id.Version == 0) || (id.Version > g.version) {
		return &ProtocolError{
			Object:  r,
			Code:    ErrInvalidObject,
			Message: fmt.Sprintf("invalid version for global %v (%v): have %v, wanted at most %v", name, g.iface, id.Version, g.version),
		}
	}

	return g.bind(r.client, id.ID, id.Version)
}

func (r *registry) global(g global) {
	mb := wire.NewMessage(r, registryGlobalEvent)
	mb.WriteUint(g.name)
	mb.WriteString(g.iface)
	mb.WriteUint(g.version)
	r.client.send(mb)
}

// callback is a wl_callback. It is destroyed as soon as it fires.
type callback struct {
	resource
}

func (cb *callback) Interface() string { return CallbackInterface }
func (cb *callback) Delete()           {}

func (cb *callback) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: cb.Interface(), Op: msg.Op()}
}

func (cb *callback) done(data uint32) {
	mb := wire.NewMessage(cb, callbackDoneEvent)
	mb.WriteUint(data)
	cb.client.send(mb)
	cb.client.remove(cb.id)
}
