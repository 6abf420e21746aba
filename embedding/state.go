package embedding

import "fmt"

// State is the progress of a single embedding request.
type State int

const (
	// Idle means nothing has been requested, or the request was
	// stopped or gave up.
	Idle State = iota

	// Pending means the application was launched but no surface has
	// been matched to it yet.
	Pending

	// Matched means a surface was matched but has not drawn anything.
	Matched

	// Displayed means the matched surface has content and is being
	// presented.
	Displayed

	// TornDown means the displayed surface went away.
	TornDown
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Matched:
		return "matched"
	case Displayed:
		return "displayed"
	case TornDown:
		return "torn down"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Strategy is a way of getting an application's window into the
// dashboard.
type Strategy int

const (
	// StrategyCompositor serves the application from the nested
	// compositor and presents its surface directly.
	StrategyCompositor Strategy = iota

	// StrategyReparent finds the application's window on the host X
	// server and reparents it into the dashboard.
	StrategyReparent

	// StrategyTexture would capture the window into a texture. It is
	// not implemented.
	StrategyTexture
)

func (s Strategy) String() string {
	switch s {
	case StrategyCompositor:
		return "compositor"
	case StrategyReparent:
		return "reparent"
	case StrategyTexture:
		return "texture"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy is the inverse of Strategy.String.
func ParseStrategy(s string) (Strategy, error) {
	for _, v := range []Strategy{StrategyCompositor, StrategyReparent, StrategyTexture} {
		if v.String() == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown embedding strategy %q", s)
}
