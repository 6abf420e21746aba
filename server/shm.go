package server

import (
	"fmt"
	"image"
	"os"
	rdebug "runtime/debug"

	"github.com/patrick9487/Smart-dashboard/shm"
	"github.com/patrick9487/Smart-dashboard/shm/shmimage"
	"github.com/patrick9487/Smart-dashboard/wire"
	"golang.org/x/sys/unix"
)

func bindShm(c *Client, id, version uint32) error {
	s := &shmGlobal{resource: resource{client: c, version: version}}
	if err := c.add(s, id); err != nil {
		return err
	}
	s.format(ShmFormatARGB8888)
	s.format(ShmFormatXRGB8888)
	return nil
}

type shmGlobal struct {
	resource
}

func (s *shmGlobal) Interface() string { return ShmInterface }
func (s *shmGlobal) Delete()           {}

func (s *shmGlobal) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // create_pool
		id := msg.ReadUint()
		file := msg.ReadFile()
		size := msg.ReadInt()
		if err := msg.Err(); err != nil {
			if file != nil {
				file.Close()
			}
			return err
		}
		return s.createPool(id, file, size)

	default:
		return wire.UnknownOpError{Interface: s.Interface(), Op: msg.Op()}
	}
}

func (s *shmGlobal) createPool(id uint32, file *os.File, size int32) error {
	if size <= 0 {
		file.Close()
		return &ProtocolError{Object: s, Code: shmErrInvalidStride, Message: fmt.Sprintf("invalid pool size %v", size)}
	}

	mmap, err := shm.Map(file, int(size), unix.PROT_READ)
	if err != nil {
		file.Close()
		return &ProtocolError{Object: s, Code: shmErrInvalidFD, Message: fmt.Sprintf("mmap failed: %v", err)}
	}

	pool := shmPool{
		resource: resource{client: s.client, version: s.version},
		file:     file,
		mmap:     mmap,
		refs:     1,
	}
	err = s.client.add(&pool, id)
	if err != nil {
		pool.unref()
		return err
	}
	return nil
}

func (s *shmGlobal) format(format uint32) {
	mb := wire.NewMessage(s, shmFormatEvent)
	mb.WriteUint(format)
	s.client.send(mb)
}

// shmPool keeps its mapping alive until the pool and every buffer
// created from it have been destroyed.
type shmPool struct {
	resource
	file *os.File
	mmap shm.Mmap
	refs int
}

func (pool *shmPool) Interface() string { return ShmPoolInterface }

func (pool *shmPool) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // create_buffer
		id := msg.ReadUint()
		offset := msg.ReadInt()
		width := msg.ReadInt()
		height := msg.ReadInt()
		stride := msg.ReadInt()
		format := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		return pool.createBuffer(id, offset, width, height, stride, format)

	case 1: // destroy
		pool.client.remove(pool.id)
		return nil

	case 2: // resize
		size := msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		return pool.resize(size)

	default:
		return wire.UnknownOpError{Interface: pool.Interface(), Op: msg.Op()}
	}
}

func (pool *shmPool) createBuffer(id uint32, offset, width, height, stride int32, format uint32) error {
	if (format != ShmFormatARGB8888) && (format != ShmFormatXRGB8888) {
		return &ProtocolError{Object: pool, Code: shmErrInvalidFormat, Message: fmt.Sprintf("unsupported format %#x", format)}
	}

	end := int64(offset) + int64(stride)*int64(height)
	if (width <= 0) || (height <= 0) || (offset < 0) || (stride < width*4) || (end > int64(len(pool.mmap))) {
		return &ProtocolError{
			Object:  pool,
			Code:    shmErrInvalidStride,
			Message: fmt.Sprintf("invalid buffer %vx%v, stride %v, offset %v in pool of size %v", width, height, stride, offset, len(pool.mmap)),
		}
	}

	buf := Buffer{
		resource: resource{client: pool.client, version: 1},
		pool:     pool,
		offset:   offset,
		width:    width,
		height:   height,
		stride:   stride,
		format:   format,
	}
	if err := pool.client.add(&buf, id); err != nil {
		return err
	}
	pool.refs++
	return nil
}

func (pool *shmPool) resize(size int32) error {
	if int(size) < len(pool.mmap) {
		return &ProtocolError{Object: pool, Code: shmErrInvalidStride, Message: "pools can not shrink"}
	}
	if int(size) == len(pool.mmap) {
		return nil
	}

	mmap, err := shm.Map(pool.file, int(size), unix.PROT_READ)
	if err != nil {
		return &ProtocolError{Object: pool, Code: shmErrInvalidFD, Message: fmt.Sprintf("mmap failed: %v", err)}
	}
	pool.mmap.Unmap()
	pool.mmap = mmap
	return nil
}

func (pool *shmPool) Delete() {
	pool.unref()
}

func (pool *shmPool) unref() {
	pool.refs--
	if pool.refs > 0 {
		return
	}
	pool.mmap.Unmap()
	pool.mmap = nil
	pool.file.Close()
}

// Buffer is a wl_buffer backed by a wl_shm_pool.
type Buffer struct {
	resource
	pool *shmPool

	offset, width, height, stride int32
	format                        uint32
	destroyed                     bool
}

func (b *Buffer) Interface() string { return BufferInterface }

func (b *Buffer) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // destroy
		b.client.remove(b.id)
		return nil
	default:
		return wire.UnknownOpError{Interface: b.Interface(), Op: msg.Op()}
	}
}

func (b *Buffer) Delete() {
	b.destroyed = true
	b.pool.unref()
}

func (b *Buffer) Size() image.Point {
	return image.Pt(int(b.width), int(b.height))
}

// snapshot copies the buffer's pixels into memory owned by the server.
// Clients can shrink the file behind a pool at any time, so faults
// while reading are turned into errors instead of crashing the
// process.
func (b *Buffer) snapshot() (img *shmimage.ARGB8888, err error) {
	defer rdebug.SetPanicOnFault(rdebug.SetPanicOnFault(true))
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read %v@%v: %v", b.Interface(), b.id, r)
		}
	}()

	view := shmimage.ARGB8888{
		Pix:    b.pool.mmap[b.offset:],
		Stride: int(b.stride),
		Rect:   image.Rect(0, 0, int(b.width), int(b.height)),
	}
	if b.format == ShmFormatXRGB8888 {
		return (&shmimage.XRGB8888{ARGB8888: view}).Clone(), nil
	}
	return view.Clone(), nil
}

func (b *Buffer) release() {
	mb := wire.NewMessage(b, bufferReleaseEvent)
	b.client.send(mb)
}
