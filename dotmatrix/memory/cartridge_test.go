package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func headerROM(cartType uint8, title string) []byte {
	rom := make([]byte, 0x8000)
	copy(rom[titleAddress:], title)
	rom[cartridgeTypeAddress] = cartType
	return rom
}

func TestCartridge_headerDecoding(t *testing.T) {
	testCases := []struct {
		cartType uint8
		want     MBCType
	}{
		{0x00, NoMBCType},
		{0x01, MBC1Type},
		{0x02, MBC1Type},
		{0x03, MBC1Type},
		{0x05, MBC2Type},
		{0x06, MBC2Type},
	}
	for _, tC := range testCases {
		cart, err := NewCartridgeWithData(headerROM(tC.cartType, "TESTGAME"))
		assert.NoError(t, err)
		assert.Equalf(t, tC.want, cart.Type(), "type 0x%02X", tC.cartType)
	}
}

func TestCartridge_title(t *testing.T) {
	cart, err := NewCartridgeWithData(headerROM(0x00, "TETRIS"))
	assert.NoError(t, err)
	assert.Equal(t, "TETRIS", cart.Title())
}

func TestCartridge_unsupportedType(t *testing.T) {
	for _, cartType := range []uint8{0x0F, 0x13, 0x19, 0x20} {
		_, err := NewCartridgeWithData(headerROM(cartType, "BAD"))
		assert.Errorf(t, err, "type 0x%02X", cartType)
	}
}

func TestCartridge_tooSmall(t *testing.T) {
	_, err := NewCartridgeWithData(make([]byte, 0x100))
	assert.Error(t, err)
}
