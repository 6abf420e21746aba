package server

import (
	"fmt"

	"github.com/patrick9487/Smart-dashboard/wire"
)

// ProtocolError is returned by a request handler when the client
// violated the protocol. It is delivered as a wl_display.error event
// and the client is disconnected.
type ProtocolError struct {
	Object  wire.Object
	Code    uint32
	Message string
}

func (err *ProtocolError) Error() string {
	return fmt.Sprintf("%v@%v: error %v: %v", err.Object.Interface(), err.Object.ID(), err.Code, err.Message)
}
