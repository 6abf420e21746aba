package wl

import (
	"context"
	"fmt"
)

// Globals holds the globals a simple windowed client needs.
type Globals struct {
	Registry   *Registry
	Compositor *Compositor
	Shm        *Shm
	Seat       *Seat
	Output     *Output
	WmBase     *WmBase
	Shell      *Shell
}

// BindGlobals binds every global Globals has a field for. Compositor
// and Shm are required.
func BindGlobals(ctx context.Context, state *State) (*Globals, error) {
	var g Globals
	g.Registry = state.Display().GetRegistry()
	g.Registry.Global = func(name uint32, inter string, version uint32) {
		switch inter {
		case "wl_compositor":
			g.Compositor = g.Registry.BindCompositor(name, min(version, 4))
		case "wl_shm":
			g.Shm = g.Registry.BindShm(name, 1)
		case "wl_seat":
			g.Seat = g.Registry.BindSeat(name, min(version, 5))
		case "wl_output":
			g.Output = g.Registry.BindOutput(name, min(version, 2))
		case "xdg_wm_base":
			g.WmBase = g.Registry.BindWmBase(name, 1)
		case "wl_shell":
			g.Shell = g.Registry.BindShell(name, 1)
		}
	}

	err := state.RoundTrip(ctx)
	if err != nil {
		return nil, err
	}
	if (g.Compositor == nil) || (g.Shm == nil) {
		return nil, fmt.Errorf("compositor is missing wl_compositor or wl_shm")
	}
	return &g, nil
}
