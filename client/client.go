// Package wl is a small Wayland client. It implements just enough of
// the core and xdg-shell protocols to put a titled window with content
// on screen, which is what the wltestwin command and the compositor tests
// need.
//
// A State is not safe for concurrent use. Events are dispatched on the
// goroutine that calls Flush, Dispatch or RoundTrip.
package wl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/patrick9487/Smart-dashboard/internal/cq"
	"github.com/patrick9487/Smart-dashboard/internal/debug"
	"github.com/patrick9487/Smart-dashboard/internal/objstore"
	"github.com/patrick9487/Smart-dashboard/wire"
)

// DisplayError is a fatal protocol error reported by the compositor.
type DisplayError struct {
	ObjectID uint32
	Code     uint32
	Message  string
}

func (err *DisplayError) Error() string {
	return fmt.Sprintf("display error on object %v, code %v: %v", err.ObjectID, err.Code, err.Message)
}

type State struct {
	done   chan struct{}
	close  sync.Once
	conn   *wire.Conn
	store  *objstore.Store
	queue  *cq.Queue[func() error]
	logger *slog.Logger

	display *Display
}

// Dial connects to the compositor named by the environment.
func Dial() (*State, error) {
	c, err := wire.Dial()
	if err != nil {
		return nil, err
	}
	return NewState(c), nil
}

// DialPath connects to the compositor listening at path.
func DialPath(path string) (*State, error) {
	c, err := wire.DialPath(path)
	if err != nil {
		return nil, err
	}
	return NewState(c), nil
}

func NewState(conn *wire.Conn) *State {
	state := State{
		done:   make(chan struct{}),
		conn:   conn,
		store:  objstore.New(1),
		queue:  cq.New[func() error](),
		logger: slog.Default(),
	}
	state.display = &Display{object: object{state: &state}}
	state.store.Add(state.display)
	go state.listen()

	return &state
}

func (state *State) listen() {
	for {
		msg, err := wire.ReadMessage(state.conn)
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				state.queue.Push(func() error { return err })
			}
			return
		}

		if !state.queue.Push(func() error { return state.dispatch(msg) }) {
			return
		}
	}
}

func (state *State) Display() *Display {
	return state.display
}

func (state *State) Close() error {
	var err error
	state.close.Do(func() {
		close(state.done)
		state.queue.Stop()
		err = state.conn.Close()
	})
	return err
}

func (state *State) add(obj wire.Object) {
	state.store.Add(obj)
}

func (state *State) get(id uint32) wire.Object {
	return state.store.Get(id)
}

func (state *State) dispatch(msg *wire.MessageBuffer) error {
	obj := state.store.Get(msg.Sender())
	if obj == nil {
		// Events for objects that were destroyed locally but not yet
		// acknowledged by the compositor are dropped.
		return nil
	}

	err := obj.Dispatch(msg)
	debug.Printf(state.logger, " -> %v", wire.Debug(obj, msg.Op(), msg.Args()))
	return err
}

func (state *State) send(mb *wire.MessageBuilder) {
	debug.Printf(state.logger, " <- %v", mb)
	err := mb.Build(state.conn)
	if err != nil {
		state.queue.Push(func() error { return fmt.Errorf("send %v: %w", mb, err) })
	}
}

// Flush dispatches every event that has already arrived without
// blocking.
func (state *State) Flush() []error {
	select {
	case queue := <-state.queue.Get():
		return cq.Flush(queue)
	default:
		return nil
	}
}

// Dispatch waits for at least one event and dispatches everything that
// has arrived.
func (state *State) Dispatch(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-state.done:
		return net.ErrClosed
	case queue := <-state.queue.Get():
		return errors.Join(cq.Flush(queue)...)
	}
}

// RoundTrip blocks until the compositor has processed every request
// sent so far, dispatching events in the meantime.
func (state *State) RoundTrip(ctx context.Context) error {
	done := false
	cb := state.display.Sync()
	cb.Done = func(uint32) { done = true }

	var errs []error
	for !done {
		err := state.Dispatch(ctx)
		if err != nil {
			errs = append(errs, err)
			var derr *DisplayError
			if errors.As(err, &derr) || errors.Is(err, ctx.Err()) || errors.Is(err, net.ErrClosed) {
				break
			}
		}
	}
	return errors.Join(errs...)
}

type object struct {
	state *State
	id    uint32
}

func (obj *object) ID() uint32      { return obj.id }
func (obj *object) SetID(id uint32) { obj.id = id }
func (obj *object) Delete()         {}

// destroy sends a destructor request. The ID stays reserved until the
// compositor confirms it with wl_display.delete_id.
func (obj *object) destroy(sender wire.Object, op uint16) {
	obj.state.send(wire.NewMessage(sender, op))
}
