package protocol

import "errors"

var (
	ErrInvalidNumber  = errors.New("protocol: invalid numeric line")
	ErrLengthMismatch = errors.New("protocol: response length mismatch")
	ErrTruncated      = errors.New("protocol: truncated data")
	ErrEmptyToken     = errors.New("protocol: empty token line")
	ErrInvalidRequest = errors.New("protocol: invalid request")
)
