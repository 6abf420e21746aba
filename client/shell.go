package wl

import "github.com/patrick9487/Smart-dashboard/wire"

// Shell is the legacy wl_shell global.
type Shell struct {
	object
}

func (sh *Shell) Interface() string { return "wl_shell" }

func (sh *Shell) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: sh.Interface(), Op: msg.Op()}
}

func (sh *Shell) GetShellSurface(s *Surface) *ShellSurface {
	ss := &ShellSurface{object: object{state: sh.state}}
	sh.state.add(ss)

	mb := wire.NewMessage(sh, 0)
	mb.WriteObject(ss)
	mb.WriteObject(s)
	sh.state.send(mb)
	return ss
}

type ShellSurface struct {
	Configure func(edges uint32, width, height int32)

	object
}

func (ss *ShellSurface) Interface() string { return "wl_shell_surface" }

func (ss *ShellSurface) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // ping
		serial := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		mb := wire.NewMessage(ss, 0)
		mb.WriteUint(serial)
		ss.state.send(mb)
		return nil

	case 1: // configure
		edges := msg.ReadUint()
		width, height := msg.ReadInt(), msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		if ss.Configure != nil {
			ss.Configure(edges, width, height)
		}
		return nil

	case 2: // popup_done
		return nil

	default:
		return wire.UnknownOpError{Interface: ss.Interface(), Op: msg.Op()}
	}
}

func (ss *ShellSurface) SetToplevel() {
	ss.state.send(wire.NewMessage(ss, 3))
}

func (ss *ShellSurface) SetTitle(title string) {
	mb := wire.NewMessage(ss, 8)
	mb.WriteString(title)
	ss.state.send(mb)
}
