package hexcodec

import "github.com/pkg/errors"

// hex codec errors
var (
	ErrInvalidHex     = errors.New("invalid hex string")
	ErrLengthMismatch = errors.New("decoded length mismatch")
)
