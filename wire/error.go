package wire

import "fmt"

// UnknownOpError reports a message whose opcode the receiving object
// does not implement. The server answers it with an invalid_method
// protocol error on that object and disconnects the client.
type UnknownOpError struct {
	Interface string
	Op        uint16
}

func (err UnknownOpError) Error() string {
	return fmt.Sprintf("%v has no message with opcode %v", err.Interface, err.Op)
}

// UnknownSenderIDError reports a message addressed to an object ID
// that is not live on the connection.
type UnknownSenderIDError struct {
	Msg *MessageBuffer
}

func (err UnknownSenderIDError) Error() string {
	return fmt.Sprintf("opcode %v sent to object %v, which does not exist", err.Msg.Op(), err.Msg.Sender())
}
