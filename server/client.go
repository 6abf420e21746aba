package server

import (
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/patrick9487/Smart-dashboard/internal/debug"
	"github.com/patrick9487/Smart-dashboard/internal/objstore"
	"github.com/patrick9487/Smart-dashboard/internal/set"
	"github.com/patrick9487/Smart-dashboard/wire"
)

// Client is a single connected Wayland client.
type Client struct {
	server  *Server
	conn    *wire.Conn
	store   *objstore.Store
	display *display

	closed bool
	failed bool

	pointers  set.Set[*seatPointer]
	keyboards set.Set[*seatKeyboard]
}

func newClient(server *Server, c *net.UnixConn) *Client {
	client := Client{
		server:    server,
		conn:      wire.NewConn(c),
		store:     objstore.New(serverIDStart),
		pointers:  make(set.Set[*seatPointer]),
		keyboards: make(set.Set[*seatKeyboard]),
	}
	client.display = &display{resource: resource{client: &client, id: 1, version: 1}}
	client.store.Add(client.display)

	return &client
}

// Server returns the server that the client is connected to.
func (c *Client) Server() *Server {
	return c.server
}

// Closed reports whether the client has disconnected.
func (c *Client) Closed() bool {
	return c.closed
}

func (c *Client) listen() {
	for {
		msg, err := wire.ReadMessage(c.conn)
		if err != nil {
			c.server.Post(func() error {
				if !c.closed && !c.failed && !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
					c.server.logger.Warn("client read failed", "err", err)
				}
				c.destroy()
				return nil
			})
			return
		}

		ok := c.server.Post(func() error { return c.dispatch(msg) })
		if !ok {
			return
		}
	}
}

func (c *Client) dispatch(msg *wire.MessageBuffer) error {
	if c.closed {
		return nil
	}

	obj := c.store.Get(msg.Sender())
	if obj == nil {
		err := wire.UnknownSenderIDError{Msg: msg}
		c.fail(c.display, &ProtocolError{Object: c.display, Code: ErrInvalidObject, Message: err.Error()})
		return err
	}

	err := obj.Dispatch(msg)
	debug.Printf(c.server.logger, " -> %v", wire.Debug(obj, msg.Op(), msg.Args()))
	if err != nil {
		c.fail(obj, err)
		return fmt.Errorf("dispatch %v@%v: %w", obj.Interface(), obj.ID(), err)
	}
	return nil
}

// fail reports err to the client and disconnects it.
func (c *Client) fail(obj wire.Object, err error) {
	var perr *ProtocolError
	var operr wire.UnknownOpError
	switch {
	case errors.As(err, &perr):
		c.display.error(perr.Object, perr.Code, perr.Message)
	case errors.As(err, &operr):
		c.display.error(obj, ErrInvalidMethod, operr.Error())
	default:
		c.display.error(c.display, ErrImplementation, err.Error())
	}
	c.destroy()
}

func (c *Client) send(mb *wire.MessageBuilder) {
	if c.closed || c.failed {
		return
	}

	debug.Printf(c.server.logger, " <- %v", mb)
	err := mb.Build(c.conn)
	if err != nil {
		c.server.logger.Warn("send failed, disconnecting client", "err", err)
		c.failed = true
		// The reader goroutine notices and posts the cleanup.
		c.conn.Close()
	}
}

// add registers a client-allocated object.
func (c *Client) add(obj wire.Object, id uint32) error {
	if (id == 0) || (id >= serverIDStart) || c.store.Has(id) {
		return &ProtocolError{
			Object:  c.display,
			Code:    ErrInvalidObject,
			Message: fmt.Sprintf("invalid new %v id %v", obj.Interface(), id),
		}
	}

	obj.SetID(id)
	c.store.Add(obj)
	return nil
}

// remove destroys the object with the given ID and tells the client
// that the ID can be reused.
func (c *Client) remove(id uint32) {
	c.store.Delete(id)
	if !c.closed && (id < serverIDStart) {
		c.display.deleteID(id)
	}
}

// lookup finds a client-referenced object of type T. A zero ID yields
// the zero T when nullable is true.
func lookup[T wire.Object](c *Client, id uint32, nullable bool) (T, error) {
	var zero T
	if id == 0 {
		if nullable {
			return zero, nil
		}
		return zero, &ProtocolError{Object: c.display, Code: ErrInvalidObject, Message: "unexpected null object"}
	}

	obj, ok := c.store.Get(id).(T)
	if !ok {
		return zero, &ProtocolError{
			Object:  c.display,
			Code:    ErrInvalidObject,
			Message: fmt.Sprintf("object %v has the wrong type or does not exist", id),
		}
	}
	return obj, nil
}

func (c *Client) destroy() {
	if c.closed {
		return
	}
	c.closed = true

	c.conn.Close()
	c.store.Clear()
	c.server.clients.Remove(c)
	c.server.listener.ClientRemoved(c)
}

// resource holds the state common to every protocol object.
type resource struct {
	client  *Client
	id      uint32
	version uint32
}

func (r *resource) ID() uint32      { return r.id }
func (r *resource) SetID(id uint32) { r.id = id }

// Client returns the client that owns the object.
func (r *resource) Client() *Client { return r.client }
