// Package bin reads and writes the 32-bit words that make up Wayland
// messages. The wire format uses host byte order.
package bin

import (
	"encoding/binary"
	"io"
)

// Word is any 32-bit argument type.
type Word interface {
	~int32 | ~uint32
}

func Read[T Word](r io.Reader) (T, error) {
	var data [4]byte
	_, err := io.ReadFull(r, data[:])
	if err != nil {
		return 0, err
	}
	return T(binary.NativeEndian.Uint32(data[:])), nil
}

func Write[T Word](w io.Writer, v T) error {
	var data [4]byte
	binary.NativeEndian.PutUint32(data[:], uint32(v))
	n, err := w.Write(data[:])
	if (err == nil) && (n < len(data)) {
		return io.ErrShortWrite
	}
	return err
}

// Header splits the second header word into message size and opcode.
func Header(word uint32) (size, op uint16) {
	return uint16(word >> 16), uint16(word & 0xFFFF)
}

// Bytes returns the host byte order representation of v.
func Bytes[T Word](v T) [4]byte {
	var data [4]byte
	binary.NativeEndian.PutUint32(data[:], uint32(v))
	return data
}

// Value is the inverse of Bytes.
func Value[T Word](data [4]byte) T {
	return T(binary.NativeEndian.Uint32(data[:]))
}
