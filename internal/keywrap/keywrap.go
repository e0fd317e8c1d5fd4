// Package keywrap exports derived keys as LoRaWAN Backend Interfaces
// KeyEnvelopes, optionally wrapped (RFC 3394) under a key-encryption key.
package keywrap

import (
	"crypto/aes"
	"fmt"

	keywrap "github.com/NickBall/go-aes-key-wrap"
	"github.com/pkg/errors"

	"github.com/brocaar/lorawan"
	"github.com/brocaar/lorawan/backend"

	"github.com/lorawan-tools/nwksintkeys/internal/hexcodec"
)

// keywrap errors
var (
	ErrInvalidKEK      = errors.New("invalid kek")
	ErrInvalidEnvelope = errors.New("invalid key envelope")
)

// ParseKEK decodes a hex encoded KEK. The KEK must be 16, 24 or 32 bytes.
// An empty string returns a nil KEK.
func ParseKEK(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}

	l, err := hexcodec.ValidateHex(s)
	if err != nil {
		return nil, errors.Wrap(err, "decode kek error")
	}

	if err := validateKEK(l / 2); err != nil {
		return nil, err
	}

	kek, err := hexcodec.Decode(s, l/2)
	if err != nil {
		return nil, errors.Wrap(err, "decode kek error")
	}
	return kek, nil
}

func validateKEK(n int) error {
	switch n {
	case 16, 24, 32:
		return nil
	default:
		return errors.Wrap(ErrInvalidKEK, fmt.Sprintf("kek must be 16, 24 or 32 bytes, got %d", n))
	}
}

// NewKeyEnvelope returns the KeyEnvelope for the given key. The key is only
// wrapped when both a label and a KEK are given, as readers use an empty
// KEKLabel to detect a plain key.
func NewKeyEnvelope(label string, kek []byte, key lorawan.AES128Key) (*backend.KeyEnvelope, error) {
	if label == "" || len(kek) == 0 {
		return &backend.KeyEnvelope{
			AESKey: backend.HEXBytes(key[:]),
		}, nil
	}

	if err := validateKEK(len(kek)); err != nil {
		return nil, err
	}

	ke, err := backend.NewKeyEnvelope(label, kek, key)
	if err != nil {
		return nil, errors.Wrap(err, "key wrap error")
	}
	return ke, nil
}

// Unwrap returns the key from the given KeyEnvelope. The KEK is only used
// when the envelope carries a KEKLabel.
func Unwrap(ke *backend.KeyEnvelope, kek []byte) (lorawan.AES128Key, error) {
	var key lorawan.AES128Key

	if ke == nil {
		return key, errors.Wrap(ErrInvalidEnvelope, "envelope is nil")
	}

	if ke.KEKLabel == "" {
		if len(ke.AESKey) != len(key) {
			return key, errors.Wrap(ErrInvalidEnvelope, fmt.Sprintf("expected %d key bytes, got %d", len(key), len(ke.AESKey)))
		}
		copy(key[:], ke.AESKey)
		return key, nil
	}

	if err := validateKEK(len(kek)); err != nil {
		return key, err
	}

	block, err := aes.NewCipher(kek)
	if err != nil {
		return key, errors.Wrap(ErrInvalidKEK, err.Error())
	}

	b, err := keywrap.Unwrap(block, ke.AESKey[:])
	if err != nil {
		return key, errors.Wrap(err, "key unwrap error")
	}
	if len(b) != len(key) {
		return key, errors.Wrap(ErrInvalidEnvelope, fmt.Sprintf("expected %d key bytes, got %d", len(key), len(b)))
	}

	copy(key[:], b)
	return key, nil
}
