package triton

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection indicates the stream to the controller could not be opened, or failed while
	// writing a command or reading its reply.
	ErrConnection = errors.New("connection error")

	// ErrTimeout indicates that no reply arrived within the reply timeout.
	ErrTimeout = errors.New("reply timeout")

	// ErrParse indicates that the payload of a reply is not a number.
	ErrParse = errors.New("reply payload is not numeric")

	// ErrProtocolMismatch indicates that a reply is too short to hold the fixed header and trailer.
	// Errors matching ErrProtocolMismatch also match ErrParse.
	ErrProtocolMismatch = errors.New("reply shorter than header and trailer")

	// ErrInvalidParam indicates that a command parameter is out of its valid range.
	ErrInvalidParam = errors.New("invalid command parameter")
)

// ReplyError reports a reply that does not satisfy the reply-format contract.
type ReplyError struct {
	// Reply is the raw reply as received.
	Reply []byte
	// Err is ErrProtocolMismatch or the underlying number conversion error.
	Err error
}

func (e *ReplyError) Error() string {
	return fmt.Sprintf("triton: invalid reply %q: %v", e.Reply, e.Err)
}

// Unwrap makes a ReplyError match ErrParse as well as its underlying cause.
func (e *ReplyError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}
