package sessionkeys

import (
	"github.com/pkg/errors"

	"github.com/lorawan-tools/nwksintkeys/internal/block"
	"github.com/lorawan-tools/nwksintkeys/internal/hexcodec"
)

// key derivation errors
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrPrimitiveFailure = errors.New("aes primitive failure")
	ErrSelfTestMismatch = errors.New("self-test mismatch: decrypted key does not match block")
)

// errorKind returns the label used for the error counter.
func errorKind(err error) string {
	switch errors.Cause(err) {
	case ErrInvalidInput:
		return "invalid_input"
	case ErrPrimitiveFailure:
		return "primitive_failure"
	case ErrSelfTestMismatch:
		return "self_test_mismatch"
	case hexcodec.ErrInvalidHex:
		return "invalid_hex"
	case hexcodec.ErrLengthMismatch:
		return "length_mismatch"
	case block.ErrBlockOverflow:
		return "block_overflow"
	case block.ErrInvalidConstant:
		return "invalid_constant"
	default:
		return "other"
	}
}
