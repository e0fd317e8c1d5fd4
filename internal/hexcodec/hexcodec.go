// Package hexcodec converts between ASCII hex strings and raw bytes.
package hexcodec

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ValidateHex returns the number of characters in s when every character
// is a hex digit. The empty string is valid and has length 0.
func ValidateHex(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return 0, errors.Wrap(ErrInvalidHex, fmt.Sprintf("character %q at position %d", s[i], i))
		}
	}
	return len(s), nil
}

// Decode decodes s into exactly n bytes. The first character of each pair
// is the high nibble, both cases are accepted.
func Decode(s string, n int) ([]byte, error) {
	l, err := ValidateHex(s)
	if err != nil {
		return nil, err
	}
	if l%2 != 0 {
		return nil, errors.Wrap(ErrInvalidHex, fmt.Sprintf("odd length %d", l))
	}
	if l/2 != n {
		return nil, errors.Wrap(ErrLengthMismatch, fmt.Sprintf("expected %d bytes, got %d", n, l/2))
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidHex, err.Error())
	}
	return b, nil
}

// Encode returns the uppercase hex representation of b.
func Encode(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
