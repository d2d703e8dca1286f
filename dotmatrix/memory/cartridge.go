package memory

import (
	"fmt"
	"strings"
)

const titleLength = 16

const (
	titleAddress         = 0x134
	cartridgeTypeAddress = 0x147
	romSizeAddress       = 0x148
	ramSizeAddress       = 0x149
	versionNumberAddress = 0x14C
)

// MBCType identifies the controller selected by header byte 0x147.
type MBCType int

const (
	NoMBCType MBCType = iota
	MBC1Type
	MBC2Type
	MBCUnsupportedType
)

// Cartridge holds a raw cartridge image plus the decoded header fields that
// drive controller selection.
type Cartridge struct {
	data    []byte
	title   string
	mbcType MBCType
	version uint8
	romSize uint8
	ramSize uint8
}

// NewCartridge creates an empty cartridge, the equivalent of powering on
// with nothing inserted. Useful for tests.
func NewCartridge() *Cartridge {
	return &Cartridge{
		data:    make([]byte, 0x8000),
		mbcType: NoMBCType,
	}
}

// NewCartridgeWithData initializes a Cartridge from a ROM image.
// Returns an error when the image is too small to carry a header or the
// header selects a controller this emulator does not support.
func NewCartridgeWithData(data []byte) (*Cartridge, error) {
	if len(data) < 0x150 {
		return nil, fmt.Errorf("cartridge image too small: %d bytes", len(data))
	}

	cartType := data[cartridgeTypeAddress]
	mbcType, err := decodeMBCType(cartType)
	if err != nil {
		return nil, err
	}

	title := strings.TrimRight(string(data[titleAddress:titleAddress+titleLength]), "\x00")

	cart := &Cartridge{
		data:    make([]byte, len(data)),
		title:   title,
		mbcType: mbcType,
		version: data[versionNumberAddress],
		romSize: data[romSizeAddress],
		ramSize: data[ramSizeAddress],
	}
	copy(cart.data, data)

	return cart, nil
}

func decodeMBCType(value uint8) (MBCType, error) {
	switch value {
	case 0x00:
		return NoMBCType, nil
	case 0x01, 0x02, 0x03:
		return MBC1Type, nil
	case 0x05, 0x06:
		return MBC2Type, nil
	default:
		return MBCUnsupportedType, fmt.Errorf("unsupported cartridge type 0x%02X", value)
	}
}

// Title returns the game title from the header.
func (c *Cartridge) Title() string {
	return c.title
}

// Type returns the decoded controller type.
func (c *Cartridge) Type() MBCType {
	return c.mbcType
}

// newMBC builds the controller selected by the header.
func (c *Cartridge) newMBC() MBC {
	switch c.mbcType {
	case MBC1Type:
		return NewMBC1(c.data)
	case MBC2Type:
		return NewMBC2(c.data)
	default:
		return NewNoMBC(c.data)
	}
}
