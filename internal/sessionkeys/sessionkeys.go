// Package sessionkeys derives the LoRaWAN 1.1 FNwkSIntKey and SNwkSIntKey
// from the NwkKey and the join-exchange fields.
package sessionkeys

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/brocaar/lorawan"

	"github.com/lorawan-tools/nwksintkeys/internal/block"
	"github.com/lorawan-tools/nwksintkeys/internal/hexcodec"
)

// KeySize is the size of the root key and the derived keys in bytes.
const KeySize = 16

// Config holds the Deriver configuration.
type Config struct {
	// SelfTest decrypts every derived key and compares it with the
	// assembled block.
	SelfTest bool
}

// SessionKeys holds the derived keys and the blocks they were derived from.
type SessionKeys struct {
	FNwkSIntKey lorawan.AES128Key
	SNwkSIntKey lorawan.AES128Key

	FNwkSIntBlock block.Block
	SNwkSIntBlock block.Block

	// SelfTested is set when both keys decrypted back to their block.
	SelfTested bool
}

// Deriver derives session keys. It holds no state between calls and is
// safe for concurrent use.
type Deriver struct {
	selfTest  bool
	newCipher func(key []byte) (cipher.Block, error)
}

// New creates a new Deriver.
func New(conf Config) *Deriver {
	return &Deriver{
		selfTest:  conf.SelfTest,
		newCipher: aes.NewCipher,
	}
}

// DeriveKeysFromHex decodes the given hex strings and derives the keys.
func (d *Deriver) DeriveKeysFromHex(rootKey, joinNonce, joinEUI, devNonce string) (SessionKeys, error) {
	fields := []struct {
		name string
		s    string
		n    int
	}{
		{"nwk_key", rootKey, KeySize},
		{"join_nonce", joinNonce, block.JoinNonceSize},
		{"join_eui", joinEUI, block.JoinEUISize},
		{"dev_nonce", devNonce, block.DevNonceSize},
	}

	decoded := make([][]byte, len(fields))
	for i, f := range fields {
		b, err := hexcodec.Decode(f.s, f.n)
		if err != nil {
			derivationError(errorKind(err)).Inc()
			return SessionKeys{}, errors.Wrap(err, fmt.Sprintf("decode %s error", f.name))
		}
		decoded[i] = b
	}

	return d.DeriveKeys(decoded[0], decoded[1], decoded[2], decoded[3])
}

// DeriveKeysLoRaWAN derives the keys from brocaar/lorawan typed values.
func (d *Deriver) DeriveKeysLoRaWAN(nwkKey lorawan.AES128Key, joinNonce lorawan.JoinNonce, joinEUI lorawan.EUI64, devNonce lorawan.DevNonce) (SessionKeys, error) {
	if joinNonce >= 1<<24 {
		derivationError(errorKind(ErrInvalidInput)).Inc()
		return SessionKeys{}, errors.Wrap(ErrInvalidInput, "join_nonce exceeds 24 bits")
	}

	jn := []byte{byte(joinNonce >> 16), byte(joinNonce >> 8), byte(joinNonce)}
	dn := []byte{byte(devNonce >> 8), byte(devNonce)}

	return d.DeriveKeys(nwkKey[:], jn, joinEUI[:], dn)
}

// DeriveKeys derives the FNwkSIntKey and SNwkSIntKey. The fields must be
// in typed-in order (most significant byte first). Each key is the single
// block AES-128 encryption of the assembled block under rootKey.
func (d *Deriver) DeriveKeys(rootKey, joinNonce, joinEUI, devNonce []byte) (SessionKeys, error) {
	var out SessionKeys

	if err := validateSizes(rootKey, joinNonce, joinEUI, devNonce); err != nil {
		derivationError(errorKind(err)).Inc()
		return out, err
	}

	c, err := d.newCipher(rootKey)
	if err != nil {
		derivationError(errorKind(ErrPrimitiveFailure)).Inc()
		return out, errors.Wrap(ErrPrimitiveFailure, err.Error())
	}
	if c.BlockSize() != block.Size {
		derivationError(errorKind(ErrPrimitiveFailure)).Inc()
		return out, errors.Wrap(ErrPrimitiveFailure, fmt.Sprintf("block-size of %d bytes is expected", block.Size))
	}

	for _, constant := range block.Constants() {
		b, err := block.Assemble(constant, joinNonce, joinEUI, devNonce)
		if err != nil {
			derivationError(errorKind(err)).Inc()
			return SessionKeys{}, errors.Wrap(err, "assemble block error")
		}

		var key lorawan.AES128Key
		c.Encrypt(key[:], b[:])

		if d.selfTest {
			var dec block.Block
			c.Decrypt(dec[:], key[:])
			if dec != b {
				derivationError(errorKind(ErrSelfTestMismatch)).Inc()
				log.WithFields(log.Fields{
					"key":       constant,
					"block":     b,
					"decrypted": dec,
				}).Error("sessionkeys: self-test failed")
				return SessionKeys{}, errors.Wrap(ErrSelfTestMismatch, constant.String())
			}
		}

		switch constant {
		case block.FNwkSIntKey:
			out.FNwkSIntKey = key
			out.FNwkSIntBlock = b
		case block.SNwkSIntKey:
			out.SNwkSIntKey = key
			out.SNwkSIntBlock = b
		}
	}
	out.SelfTested = d.selfTest

	for _, constant := range block.Constants() {
		derivedKey(constant.String()).Inc()
	}

	log.WithFields(log.Fields{
		"join_nonce": hexcodec.Encode(joinNonce),
		"join_eui":   hexcodec.Encode(joinEUI),
		"dev_nonce":  hexcodec.Encode(devNonce),
		"self_test":  d.selfTest,
	}).Debug("sessionkeys: session keys derived")

	return out, nil
}

func validateSizes(rootKey, joinNonce, joinEUI, devNonce []byte) error {
	if len(rootKey) != KeySize {
		return errors.Wrap(ErrInvalidInput, fmt.Sprintf("nwk_key must be %d bytes, got %d", KeySize, len(rootKey)))
	}

	for _, f := range []struct {
		name string
		b    []byte
		n    int
	}{
		{"join_nonce", joinNonce, block.JoinNonceSize},
		{"join_eui", joinEUI, block.JoinEUISize},
		{"dev_nonce", devNonce, block.DevNonceSize},
	} {
		if len(f.b) != f.n {
			return errors.Wrap(ErrInvalidInput, fmt.Sprintf("%s must be %d bytes, got %d", f.name, f.n, len(f.b)))
		}
	}

	return nil
}
