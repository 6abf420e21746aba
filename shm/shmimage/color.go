package shmimage

import "image/color"

// ARGB8888Color is one pixel of a client's wl_shm buffer as the
// dashboard snapshots it: alpha in the top byte, then red, green and
// blue, with the color channels already multiplied by alpha.
type ARGB8888Color uint32

func NewARGB8888Color(r, g, b, a uint8) ARGB8888Color {
	return ARGB8888Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// channel returns the byte at shift.
func (c ARGB8888Color) channel(shift uint) uint32 {
	return uint32(c>>shift) & 0xFF
}

func (c ARGB8888Color) RGBA() (r, g, b, a uint32) {
	return c.channel(16) * 0x101, c.channel(8) * 0x101, c.channel(0) * 0x101, c.channel(24) * 0x101
}

// ARGB8888Model converts colors for buffers that carry alpha.
var ARGB8888Model color.Model = color.ModelFunc(func(c color.Color) color.Color {
	return toARGB8888(c)
})

// XRGB8888Model converts colors for buffers whose top byte is unused.
// The dashboard treats such pixels as fully opaque.
var XRGB8888Model color.Model = color.ModelFunc(func(c color.Color) color.Color {
	return toARGB8888(c) | 0xFF000000
})

func toARGB8888(c color.Color) ARGB8888Color {
	if c, ok := c.(ARGB8888Color); ok {
		return c
	}
	r, g, b, a := c.RGBA()
	return NewARGB8888Color(uint8(r>>8), uint8(g>>8), uint8(b>>8), uint8(a>>8))
}
