package block

import (
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"
)

func TestAssemble(t *testing.T) {
	Convey("Given JoinNonce 010203, JoinEUI 0102030405060708 and DevNonce 0102", t, func() {
		joinNonce := []byte{0x01, 0x02, 0x03}
		joinEUI := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
		devNonce := []byte{0x01, 0x02}

		Convey("When assembling the FNwkSIntKey block", func() {
			b, err := Assemble(FNwkSIntKey, joinNonce, joinEUI, devNonce)
			So(err, ShouldBeNil)

			Convey("Then the fields are written in reversed byte order and padded with zeros", func() {
				So(b, ShouldResemble, Block{
					0x01,
					0x03, 0x02, 0x01,
					0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
					0x02, 0x01,
					0x00, 0x00,
				})
				So(b.String(), ShouldEqual, "01030201080706050403020102010000")
			})

			Convey("Then assembling again gives the same block", func() {
				b2, err := Assemble(FNwkSIntKey, joinNonce, joinEUI, devNonce)
				So(err, ShouldBeNil)
				So(b2, ShouldResemble, b)
			})

			Convey("Then the input buffers are not modified", func() {
				So(joinNonce, ShouldResemble, []byte{0x01, 0x02, 0x03})
				So(devNonce, ShouldResemble, []byte{0x01, 0x02})
			})
		})

		Convey("When assembling the SNwkSIntKey block", func() {
			b, err := Assemble(SNwkSIntKey, joinNonce, joinEUI, devNonce)
			So(err, ShouldBeNil)

			Convey("Then only the first byte differs from the FNwkSIntKey block", func() {
				f, err := Assemble(FNwkSIntKey, joinNonce, joinEUI, devNonce)
				So(err, ShouldBeNil)

				So(b[0], ShouldEqual, byte(0x03))
				So(b[1:], ShouldResemble, f[1:])
			})
		})
	})
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name          string
		constant      DerivationConstant
		joinNonce     []byte
		joinEUI       []byte
		devNonce      []byte
		expectedError error
	}{
		{
			name:          "AppSKey constant is not supported",
			constant:      0x02,
			joinNonce:     make([]byte, JoinNonceSize),
			joinEUI:       make([]byte, JoinEUISize),
			devNonce:      make([]byte, DevNonceSize),
			expectedError: ErrInvalidConstant,
		},
		{
			name:          "zero constant",
			constant:      0x00,
			expectedError: ErrInvalidConstant,
		},
		{
			name:          "fields exceed 15 bytes",
			constant:      FNwkSIntKey,
			joinNonce:     make([]byte, 4),
			joinEUI:       make([]byte, 10),
			devNonce:      make([]byte, 2),
			expectedError: ErrBlockOverflow,
		},
	}

	for _, tst := range tests {
		t.Run(tst.name, func(t *testing.T) {
			assert := require.New(t)

			_, err := Assemble(tst.constant, tst.joinNonce, tst.joinEUI, tst.devNonce)
			assert.Equal(tst.expectedError, errors.Cause(err))
		})
	}
}

func TestAssembleFieldWidths(t *testing.T) {
	t.Run("fields filling the block exactly", func(t *testing.T) {
		assert := require.New(t)

		b, err := Assemble(SNwkSIntKey, []byte{1, 2, 3, 4, 5}, []byte{6, 7, 8, 9, 10, 11, 12, 13}, []byte{14, 15})
		assert.NoError(err)
		assert.Equal(Block{0x03, 5, 4, 3, 2, 1, 13, 12, 11, 10, 9, 8, 7, 6, 15, 14}, b)
	})

	t.Run("empty fields", func(t *testing.T) {
		assert := require.New(t)

		b, err := Assemble(FNwkSIntKey, nil, nil, nil)
		assert.NoError(err)
		assert.Equal(Block{0x01}, b)
	})
}

func TestDerivationConstant(t *testing.T) {
	assert := require.New(t)

	assert.Equal([]DerivationConstant{FNwkSIntKey, SNwkSIntKey}, Constants())
	assert.Equal("FNwkSIntKey", FNwkSIntKey.String())
	assert.Equal("SNwkSIntKey", SNwkSIntKey.String())
	assert.Equal("DerivationConstant(0x02)", DerivationConstant(0x02).String())
	assert.True(FNwkSIntKey.Valid())
	assert.False(DerivationConstant(0x04).Valid())
}

func TestBlockText(t *testing.T) {
	assert := require.New(t)

	b := Block{0x01, 0x03, 0x02, 0x01, 0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01, 0x02, 0x01}
	text, err := b.MarshalText()
	assert.NoError(err)
	assert.Equal("01030201080706050403020102010000", string(text))

	var out Block
	assert.NoError(out.UnmarshalText([]byte("01030201080706050403020102010000")))
	assert.Equal(b, out)

	assert.Error(out.UnmarshalText([]byte("0103")))
}
