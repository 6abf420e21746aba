package wl

import (
	"os"

	"github.com/patrick9487/Smart-dashboard/wire"
)

const (
	ShmFormatArgb8888 = 0
	ShmFormatXrgb8888 = 1
)

type Shm struct {
	Format func(format uint32)

	object
}

func (s *Shm) Interface() string { return "wl_shm" }

func (s *Shm) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // format
		format := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		if s.Format != nil {
			s.Format(format)
		}
		return nil

	default:
		return wire.UnknownOpError{Interface: s.Interface(), Op: msg.Op()}
	}
}

func (s *Shm) CreatePool(file *os.File, size int32) *ShmPool {
	pool := &ShmPool{object: object{state: s.state}}
	s.state.add(pool)

	mb := wire.NewMessage(s, 0)
	mb.WriteObject(pool)
	mb.WriteFile(file)
	mb.WriteInt(size)
	s.state.send(mb)
	return pool
}

type ShmPool struct {
	object
}

func (pool *ShmPool) Interface() string { return "wl_shm_pool" }

func (pool *ShmPool) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: pool.Interface(), Op: msg.Op()}
}

func (pool *ShmPool) CreateBuffer(offset, width, height, stride int32, format uint32) *Buffer {
	buf := &Buffer{object: object{state: pool.state}}
	pool.state.add(buf)

	mb := wire.NewMessage(pool, 0)
	mb.WriteObject(buf)
	mb.WriteInt(offset)
	mb.WriteInt(width)
	mb.WriteInt(height)
	mb.WriteInt(stride)
	mb.WriteUint(format)
	pool.state.send(mb)
	return buf
}

func (pool *ShmPool) Destroy() {
	pool.destroy(pool, 1)
}

func (pool *ShmPool) Resize(size int32) {
	mb := wire.NewMessage(pool, 2)
	mb.WriteInt(size)
	pool.state.send(mb)
}

type Buffer struct {
	Release func()

	object
}

func (buf *Buffer) Interface() string { return "wl_buffer" }

func (buf *Buffer) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // release
		if buf.Release != nil {
			buf.Release()
		}
		return nil
	default:
		return wire.UnknownOpError{Interface: buf.Interface(), Op: msg.Op()}
	}
}

func (buf *Buffer) Destroy() {
	buf.destroy(buf, 0)
}
