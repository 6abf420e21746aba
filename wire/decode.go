package wire

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/patrick9487/Smart-dashboard/internal/bin"
)

// maxMessageSize is the largest message the protocol can express.
const maxMessageSize = 1<<16 - 1

// MessageBuffer holds message data that has been read from the socket
// but not yet decoded. Read methods record the first error and turn
// every later call into a no-op, so a request handler can read all of
// its arguments and check Err once.
type MessageBuffer struct {
	sender uint32
	op     uint16
	size   uint16
	data   bytes.Reader
	conn   *Conn
	err    error
	args   []any
}

// ReadMessage reads a single message from c.
func ReadMessage(c *Conn) (*MessageBuffer, error) {
	var header [8]byte
	_, err := io.ReadFull(c, header[:])
	if err != nil {
		return nil, err
	}

	r := bytes.NewReader(header[:])
	sender, _ := bin.Read[uint32](r)
	word, _ := bin.Read[uint32](r)
	size, op := bin.Header(word)
	if size < 8 {
		return nil, fmt.Errorf("message size %v is smaller than its header", size)
	}

	body := make([]byte, int(size)-8)
	_, err = io.ReadFull(c, body)
	if err != nil {
		return nil, fmt.Errorf("read message body: %w", err)
	}

	msg := MessageBuffer{
		sender: sender,
		op:     op,
		size:   size,
		conn:   c,
	}
	msg.data.Reset(body)
	return &msg, nil
}

// Sender is the object ID of the sender of the message.
func (r *MessageBuffer) Sender() uint32 {
	return r.sender
}

// Op is the opcode of the message.
func (r *MessageBuffer) Op() uint16 {
	return r.op
}

// Size is the total size of the message, including the 8 byte header.
func (r *MessageBuffer) Size() uint16 {
	return r.size
}

// Args returns the arguments decoded so far, for tracing.
func (r *MessageBuffer) Args() []any {
	return r.args
}

// Err returns the first error encountered while decoding arguments.
func (r *MessageBuffer) Err() error {
	if errors.Is(r.err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return r.err
}

func (r *MessageBuffer) ReadInt() (v int32) {
	if r.err != nil {
		return
	}

	v, r.err = bin.Read[int32](&r.data)
	r.args = append(r.args, v)
	return v
}

func (r *MessageBuffer) ReadUint() (v uint32) {
	if r.err != nil {
		return
	}

	v, r.err = bin.Read[uint32](&r.data)
	r.args = append(r.args, v)
	return v
}

func (r *MessageBuffer) ReadFixed() (v Fixed) {
	if r.err != nil {
		return
	}

	v, r.err = bin.Read[Fixed](&r.data)
	r.args = append(r.args, v)
	return v
}

// ReadObject reads an object ID. Zero means null.
func (r *MessageBuffer) ReadObject() uint32 {
	return r.ReadUint()
}

func (r *MessageBuffer) ReadNewID() NewID {
	return NewID{
		Interface: r.ReadString(),
		Version:   r.ReadUint(),
		ID:        r.ReadUint(),
	}
}

func (r *MessageBuffer) ReadString() string {
	if r.err != nil {
		return ""
	}

	length := r.ReadUint()
	if r.err != nil {
		return ""
	}
	if length == 0 {
		// Null string.
		return ""
	}
	if length > maxMessageSize {
		r.err = fmt.Errorf("string length %v exceeds message size", length)
		return ""
	}

	buf := make([]byte, length+padding(length))
	_, r.err = io.ReadFull(&r.data, buf)
	if r.err != nil {
		return ""
	}
	if buf[length-1] != 0 {
		r.err = errors.New("string is not null-terminated")
		return ""
	}

	v := string(buf[:length-1])
	r.args = append(r.args, v)
	return v
}

func (r *MessageBuffer) ReadArray() []byte {
	if r.err != nil {
		return nil
	}

	length := r.ReadUint()
	if r.err != nil {
		return nil
	}
	if length > maxMessageSize {
		r.err = fmt.Errorf("array length %v exceeds message size", length)
		return nil
	}

	buf := make([]byte, length+padding(length))
	_, r.err = io.ReadFull(&r.data, buf)
	if r.err != nil {
		return nil
	}

	r.args = append(r.args, buf[:length])
	return buf[:length]
}

// ReadFile claims the next file descriptor received on the connection.
// The caller owns the returned file.
func (r *MessageBuffer) ReadFile() *os.File {
	if r.err != nil {
		return nil
	}

	fd, ok := r.conn.popFD()
	if !ok {
		r.err = errors.New("no more file descriptors")
		return nil
	}

	f := os.NewFile(uintptr(fd), "")
	r.args = append(r.args, f)
	return f
}

func formatArgs(args []any) string {
	strs := make([]string, 0, len(args))
	for _, arg := range args {
		switch arg := arg.(type) {
		case string:
			strs = append(strs, strconv.Quote(arg))
		case *os.File:
			strs = append(strs, fmt.Sprintf("fd %v", arg.Fd()))
		default:
			strs = append(strs, fmt.Sprint(arg))
		}
	}
	return "(" + strings.Join(strs, ", ") + ")"
}
