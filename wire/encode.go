package wire

import (
	"bytes"
	"errors"
	"os"

	"github.com/patrick9487/Smart-dashboard/internal/bin"
	"golang.org/x/sys/unix"
)

// MessageBuilder is a message that is under construction.
type MessageBuilder struct {
	sender Object
	op     uint16
	data   bytes.Buffer
	fds    []int
	args   []any
	err    error
}

func NewMessage(sender Object, op uint16) *MessageBuilder {
	return &MessageBuilder{
		sender: sender,
		op:     op,
	}
}

func (mb *MessageBuilder) Sender() Object {
	return mb.sender
}

func (mb *MessageBuilder) Op() uint16 {
	return mb.op
}

func (mb *MessageBuilder) WriteInt(v int32) {
	if mb.err != nil {
		return
	}

	bin.Write(&mb.data, v)
	mb.args = append(mb.args, v)
}

func (mb *MessageBuilder) WriteUint(v uint32) {
	if mb.err != nil {
		return
	}

	bin.Write(&mb.data, v)
	mb.args = append(mb.args, v)
}

func (mb *MessageBuilder) WriteFixed(v Fixed) {
	if mb.err != nil {
		return
	}

	bin.Write(&mb.data, v)
	mb.args = append(mb.args, v)
}

// WriteObject writes the ID of v, or zero if v is nil.
func (mb *MessageBuilder) WriteObject(v Object) {
	var id uint32
	if v != nil {
		id = v.ID()
	}
	mb.WriteUint(id)
}

func (mb *MessageBuilder) WriteNewID(v NewID) {
	mb.WriteString(v.Interface)
	mb.WriteUint(v.Version)
	mb.WriteUint(v.ID)
}

func (mb *MessageBuilder) WriteString(v string) {
	if mb.err != nil {
		return
	}

	length := uint32(len(v) + 1)
	bin.Write(&mb.data, length)
	mb.data.WriteString(v)
	mb.data.WriteByte(0)
	mb.data.Write(make([]byte, padding(length)))
	mb.args = append(mb.args, v)
}

func (mb *MessageBuilder) WriteArray(v []byte) {
	if mb.err != nil {
		return
	}

	length := uint32(len(v))
	bin.Write(&mb.data, length)
	mb.data.Write(v)
	mb.data.Write(make([]byte, padding(length)))
	mb.args = append(mb.args, v)
}

// WriteFile attaches a duplicate of v's descriptor to the message. The
// duplicate is closed once the message is built, so the caller keeps
// ownership of v.
func (mb *MessageBuilder) WriteFile(v *os.File) {
	if mb.err != nil {
		return
	}

	fd, err := unix.Dup(int(v.Fd()))
	if err != nil {
		mb.err = err
		return
	}
	mb.fds = append(mb.fds, fd)
	mb.args = append(mb.args, v)
}

// Build builds the message and sends it to c. The MessageBuilder
// should not be used again after this method is called.
func (mb *MessageBuilder) Build(c *Conn) error {
	defer mb.closeFDs()
	if mb.err != nil {
		return mb.err
	}

	length := uint32(8 + mb.data.Len())
	if length > maxMessageSize {
		return errors.New("message too large")
	}

	msg := bytes.NewBuffer(make([]byte, 0, length))
	bin.Write(msg, mb.sender.ID())
	bin.Write(msg, (length<<16)|uint32(mb.op))
	msg.Write(mb.data.Bytes())

	var oob []byte
	if len(mb.fds) > 0 {
		oob = unix.UnixRights(mb.fds...)
	}
	return c.write(msg.Bytes(), oob)
}

func (mb *MessageBuilder) closeFDs() {
	for _, fd := range mb.fds {
		unix.Close(fd)
	}
	mb.fds = nil
}

func (mb *MessageBuilder) String() string {
	return Debug(mb.sender, mb.op, mb.args)
}
