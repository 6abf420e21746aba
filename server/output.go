package server

import "github.com/patrick9487/Smart-dashboard/wire"

const (
	outputModeCurrent   = 0x1
	outputModePreferred = 0x2
	outputRefresh       = 60000
)

func bindOutput(c *Client, id, version uint32) error {
	o := &output{resource: resource{client: c, version: version}}
	if err := c.add(o, id); err != nil {
		return err
	}
	o.describe()
	return nil
}

type output struct {
	resource
}

func (o *output) Interface() string { return OutputInterface }
func (o *output) Delete()           {}

func (o *output) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // release
		o.client.remove(o.id)
		return nil
	default:
		return wire.UnknownOpError{Interface: o.Interface(), Op: msg.Op()}
	}
}

func (o *output) describe() {
	size := o.client.server.outputSize

	// Physical size assumes 96 DPI.
	mb := wire.NewMessage(o, outputGeometryEvent)
	mb.WriteInt(0)
	mb.WriteInt(0)
	mb.WriteInt(int32(size.X * 254 / 960))
	mb.WriteInt(int32(size.Y * 254 / 960))
	mb.WriteInt(0)
	mb.WriteString("Smart Dashboard")
	mb.WriteString("Nested Output")
	mb.WriteInt(0)
	o.client.send(mb)

	mb = wire.NewMessage(o, outputModeEvent)
	mb.WriteUint(outputModeCurrent | outputModePreferred)
	mb.WriteInt(int32(size.X))
	mb.WriteInt(int32(size.Y))
	mb.WriteInt(outputRefresh)
	o.client.send(mb)

	if o.version >= 2 {
		mb = wire.NewMessage(o, outputScaleEvent)
		mb.WriteInt(1)
		o.client.send(mb)

		o.client.send(wire.NewMessage(o, outputDoneEvent))
	}
}
