// Package block assembles the 16 byte AES input block used for the
// LoRaWAN 1.1 network session key derivation:
//
//   aes128_encrypt(NwkKey, constant | JoinNonce | JoinEUI | DevNonce | pad16)
package block

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/lorawan-tools/nwksintkeys/internal/hexcodec"
)

// Size is the size of a block in bytes.
const Size = 16

// Field widths in bytes.
const (
	JoinNonceSize = 3
	JoinEUISize   = 8
	DevNonceSize  = 2
)

// block errors
var (
	ErrBlockOverflow   = errors.New("fields exceed block size")
	ErrInvalidConstant = errors.New("invalid derivation constant")
)

// DerivationConstant is the first byte of the block and selects the key
// that is derived.
type DerivationConstant byte

// Supported derivation constants.
const (
	FNwkSIntKey DerivationConstant = 0x01
	SNwkSIntKey DerivationConstant = 0x03
)

// Constants returns the supported derivation constants in derivation order.
func Constants() []DerivationConstant {
	return []DerivationConstant{FNwkSIntKey, SNwkSIntKey}
}

// Valid returns true when c is a supported derivation constant.
func (c DerivationConstant) Valid() bool {
	return c == FNwkSIntKey || c == SNwkSIntKey
}

// String returns the name of the key derived with c.
func (c DerivationConstant) String() string {
	switch c {
	case FNwkSIntKey:
		return "FNwkSIntKey"
	case SNwkSIntKey:
		return "SNwkSIntKey"
	default:
		return fmt.Sprintf("DerivationConstant(0x%02x)", byte(c))
	}
}

// Block is an assembled AES input block.
type Block [Size]byte

// String implements fmt.Stringer.
func (b Block) String() string {
	return hexcodec.Encode(b[:])
}

// MarshalText implements encoding.TextMarshaler.
func (b Block) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Block) UnmarshalText(text []byte) error {
	out, err := hexcodec.Decode(string(text), Size)
	if err != nil {
		return err
	}
	copy(b[:], out)
	return nil
}

// Assemble returns the block for the given derivation constant. The
// fields must be given in the order they are typed in (most significant
// byte first); they are written to the block in reversed byte order.
func Assemble(c DerivationConstant, joinNonce, joinEUI, devNonce []byte) (Block, error) {
	if !c.Valid() {
		return Block{}, errors.Wrap(ErrInvalidConstant, c.String())
	}
	return assemble(byte(c), joinNonce, joinEUI, devNonce)
}

func assemble(c byte, fields ...[]byte) (Block, error) {
	var out Block

	n := 1
	for _, f := range fields {
		n += len(f)
	}
	if n > Size {
		return out, errors.Wrap(ErrBlockOverflow, fmt.Sprintf("%d bytes", n))
	}

	out[0] = c
	i := 1
	for _, f := range fields {
		for j := len(f) - 1; j >= 0; j-- {
			out[i] = f[j]
			i++
		}
	}

	return out, nil
}
