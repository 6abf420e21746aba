package wl

import "github.com/patrick9487/Smart-dashboard/wire"

type Output struct {
	Mode func(flags uint32, width, height, refresh int32)
	Done func()

	object
}

func (o *Output) Interface() string { return "wl_output" }

func (o *Output) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 1: // mode
		flags := msg.ReadUint()
		width, height := msg.ReadInt(), msg.ReadInt()
		refresh := msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		if o.Mode != nil {
			o.Mode(flags, width, height, refresh)
		}
		return nil

	case 2: // done
		if o.Done != nil {
			o.Done()
		}
		return nil

	case 0, 3: // geometry, scale
		return nil

	default:
		return wire.UnknownOpError{Interface: o.Interface(), Op: msg.Op()}
	}
}
