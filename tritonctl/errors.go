package tritonctl

import "errors"

var (
	// ErrConnConfigNil indicates that a nil ConnectionConfig was provided.
	ErrConnConfigNil = errors.New("connection config is nil")

	// ErrNotOpen indicates that a command was issued on a client that is not open.
	ErrNotOpen = errors.New("client is not open")

	// ErrAlreadyOpen indicates that Open was called on a client that is open or opening.
	ErrAlreadyOpen = errors.New("client is already open")
)
