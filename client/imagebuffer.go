package wl

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	"deedles.dev/ximage/format"
	"github.com/patrick9487/Smart-dashboard/shm"
	"golang.org/x/sys/unix"
)

// ImageBuffer is a single ARGB8888 wl_buffer whose pixels can be drawn
// into directly.
type ImageBuffer struct {
	w, h int32
	shm  *Shm
	pool *ShmPool
	buf  *Buffer
	file *os.File
	mmap shm.Mmap
}

func NewImageBuffer(s *Shm, w, h int32) (buf *ImageBuffer, err error) {
	defer func() {
		if err != nil {
			buf.Destroy()
		}
	}()

	buf = &ImageBuffer{
		w:   w,
		h:   h,
		shm: s,
	}

	file, err := shm.Create("wl-image-buffer")
	if err != nil {
		return buf, fmt.Errorf("create SHM file: %w", err)
	}
	buf.file = file
	err = buf.file.Truncate(int64(buf.Len()))
	if err != nil {
		return buf, fmt.Errorf("truncate SHM file: %w", err)
	}

	mmap, err := shm.Map(file, int(buf.Len()), unix.PROT_READ|unix.PROT_WRITE)
	if err != nil {
		return buf, fmt.Errorf("mmap SHM file: %w", err)
	}
	buf.mmap = mmap

	buf.pool = buf.shm.CreatePool(file, int32(len(buf.mmap)))
	buf.buf = buf.pool.CreateBuffer(0, w, h, buf.Stride(), ShmFormatArgb8888)

	return buf, nil
}

func (s *ImageBuffer) Destroy() {
	if s.mmap != nil {
		s.mmap.Unmap()
	}
	if s.file != nil {
		s.file.Close()
	}
	if s.buf != nil {
		s.buf.Destroy()
	}
	if s.pool != nil {
		s.pool.Destroy()
	}
}

func (s *ImageBuffer) Buffer() *Buffer {
	return s.buf
}

func (s *ImageBuffer) Stride() int32 {
	return s.w * 4
}

func (s *ImageBuffer) Len() int32 {
	return s.Stride() * s.h
}

func (s *ImageBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(s.w), int(s.h))
}

func (s *ImageBuffer) Image() draw.Image {
	return &format.Image{
		Format: format.ARGB8888,
		Rect:   s.Bounds(),
		Pix:    s.mmap,
	}
}
