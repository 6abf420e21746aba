// Package wire defines types helpful for dealing with the Wayland
// wire protocol. It is used by both the nested compositor in package
// server and the small client in package client.
package wire

import (
	"fmt"
	"math"
	"strconv"
)

// Object represents a Wayland protocol object.
type Object interface {
	// ID is the protocol object ID. It is only unique within a single
	// connection.
	ID() uint32

	// SetID assigns the protocol object ID. It is called by object
	// stores that allocate IDs.
	SetID(id uint32)

	// Interface is the protocol interface name, such as "wl_surface".
	Interface() string

	// Dispatch performs the operation requested by the message in the
	// buffer.
	Dispatch(msg *MessageBuffer) error

	// Delete is called when the object is removed from its store.
	Delete()
}

// NewID is an untyped new_id argument. Typed new_id arguments are sent
// as plain object IDs.
type NewID struct {
	Interface string
	Version   uint32
	ID        uint32
}

// Fixed is a 24.8 signed fixed-point number. Wayland does not have
// support for floating point numbers in its core protocol and uses
// these instead.
type Fixed int32

func FixedInt(v int) Fixed {
	return Fixed(v << 8)
}

func FixedFloat(v float64) Fixed {
	return Fixed(math.Round(v * 256))
}

// Int returns the integer part of f, rounded toward negative infinity.
func (f Fixed) Int() int {
	return int(f >> 8)
}

func (f Fixed) Float() float64 {
	return float64(f) / 256
}

func (f Fixed) String() string {
	return strconv.FormatFloat(f.Float(), 'f', -1, 64)
}

// padding returns the number of bytes needed to pad a payload of
// length n to a 32-bit boundary.
func padding(n uint32) uint32 {
	return (4 - (n % 4)) % 4
}

// Debug formats a message for protocol traces.
func Debug(obj Object, op uint16, args []any) string {
	return fmt.Sprintf("%v@%v.%v%v", obj.Interface(), obj.ID(), op, formatArgs(args))
}
