package triton

import (
	"bytes"
	"strconv"
)

// Reply-format contract.
const (
	// ReplyHeaderLen is the length of the echoed header preceding the payload.
	ReplyHeaderLen = 26
	// ReplyTrailerLen is the length of the trailer following the payload.
	ReplyTrailerLen = 2
	// MinReplyLen is the shortest reply that satisfies the contract.
	MinReplyLen = ReplyHeaderLen + ReplyTrailerLen
	// MaxReplySize is the size of the receive buffer for a single reply.
	MaxReplySize = 4096
)

// Reply is a raw reply received from the controller.
type Reply []byte

// Payload returns the bytes between header and trailer.
func (r Reply) Payload() ([]byte, error) {
	if len(r) < MinReplyLen {
		return nil, &ReplyError{Reply: bytes.Clone(r), Err: ErrProtocolMismatch}
	}

	return r[ReplyHeaderLen : len(r)-ReplyTrailerLen], nil
}

// Float parses the payload as a floating-point number.
func (r Reply) Float() (float64, error) {
	payload, err := r.Payload()
	if err != nil {
		return 0, err
	}

	v, err := strconv.ParseFloat(string(bytes.TrimSpace(payload)), 64)
	if err != nil {
		return 0, &ReplyError{Reply: bytes.Clone(r), Err: err}
	}

	return v, nil
}

func (r Reply) String() string {
	return string(bytes.TrimRight(r, "\r\n"))
}

// ParseFloat parses the numeric payload of a raw reply.
func ParseFloat(reply []byte) (float64, error) {
	return Reply(reply).Float()
}
