// Package pointer contains utilities for handling pointer input.
package pointer

// Button indicates a mouse button.
type Button uint32

// These values were pulled from linux/input-event-codes.h.
const (
	ButtonLeft Button = 0x110 + iota
	ButtonRight
	ButtonMiddle
	ButtonSide
	ButtonExtra
	ButtonForward
	ButtonBack
	ButtonTask
)

// FromX11 converts a core X button number. Buttons 4 through 7 are
// scroll steps, not buttons, and are rejected.
func FromX11(detail byte) (Button, bool) {
	switch detail {
	case 1:
		return ButtonLeft, true
	case 2:
		return ButtonMiddle, true
	case 3:
		return ButtonRight, true
	case 8:
		return ButtonBack, true
	case 9:
		return ButtonForward, true
	}
	return 0, false
}

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	case ButtonSide:
		return "side"
	case ButtonExtra:
		return "extra"
	case ButtonForward:
		return "forward"
	case ButtonBack:
		return "back"
	case ButtonTask:
		return "task"
	}

	return "unknown"
}
