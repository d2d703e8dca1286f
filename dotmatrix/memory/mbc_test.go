package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// makeROM builds an image of the given bank count where every bank is
// filled with its own number.
func makeROM(banks int) []uint8 {
	rom := make([]uint8, banks*0x4000)
	for bank := 0; bank < banks; bank++ {
		for i := 0; i < 0x4000; i++ {
			rom[bank*0x4000+i] = uint8(bank)
		}
	}
	return rom
}

func TestNoMBC(t *testing.T) {
	rom := makeROM(2)
	mbc := NewNoMBC(rom)

	assert.Equal(t, uint8(0), mbc.Read(0x0000))
	assert.Equal(t, uint8(1), mbc.Read(0x4000))

	// writes are ignored
	mbc.Write(0x2000, 0x05)
	assert.Equal(t, uint8(1), mbc.Read(0x4000))

	// no external RAM
	assert.Equal(t, uint8(0xFF), mbc.Read(0xA000))
}

func TestMBC1_romBanking(t *testing.T) {
	mbc := NewMBC1(makeROM(128))

	// bank 1 is mapped by default
	assert.Equal(t, uint8(1), mbc.Read(0x4000))
	// bank 0 stays fixed in the low window
	assert.Equal(t, uint8(0), mbc.Read(0x0000))

	mbc.Write(0x2000, 0x05)
	assert.Equal(t, uint8(5), mbc.Read(0x4000))

	// upper bits come from the 0x4000 register in ROM mode
	mbc.Write(0x4000, 0x01)
	assert.Equal(t, uint8(0x25), mbc.Read(0x4000))
}

func TestMBC1_bankZeroNeverMapped(t *testing.T) {
	mbc := NewMBC1(makeROM(128))

	mbc.Write(0x2000, 0x00)
	assert.Equal(t, uint8(1), mbc.romBank)
	assert.Equal(t, uint8(1), mbc.Read(0x4000))

	mbc.Write(0x2000, 0x20) // only low 5 bits count, 0x20 & 0x1F == 0
	assert.Equal(t, uint8(1), mbc.romBank)
}

func TestMBC1_ramEnable(t *testing.T) {
	mbc := NewMBC1(makeROM(4))

	// disabled RAM reads 0xFF and drops writes
	mbc.Write(0xA000, 0x42)
	assert.Equal(t, uint8(0xFF), mbc.Read(0xA000))

	mbc.Write(0x0000, 0x0A)
	mbc.Write(0xA000, 0x42)
	assert.Equal(t, uint8(0x42), mbc.Read(0xA000))

	// any non-0xA low nibble disables
	mbc.Write(0x0000, 0x00)
	assert.Equal(t, uint8(0xFF), mbc.Read(0xA000))

	mbc.Write(0x0000, 0x0A)
	assert.Equal(t, uint8(0x42), mbc.Read(0xA000))
}

func TestMBC1_ramBanking(t *testing.T) {
	mbc := NewMBC1(makeROM(4))
	mbc.Write(0x0000, 0x0A)

	// RAM banking mode
	mbc.Write(0x6000, 0x01)
	mbc.Write(0x4000, 0x02)
	mbc.Write(0xA000, 0x11)

	mbc.Write(0x4000, 0x03)
	mbc.Write(0xA000, 0x33)

	mbc.Write(0x4000, 0x02)
	assert.Equal(t, uint8(0x11), mbc.Read(0xA000))

	// returning to ROM mode forces RAM bank 0
	mbc.Write(0x6000, 0x00)
	assert.Equal(t, uint8(0), mbc.ramBank)
}

func TestMBC2_romBanking(t *testing.T) {
	mbc := NewMBC2(makeROM(16))

	// address bit 8 set selects the ROM bank
	mbc.Write(0x2100, 0x07)
	assert.Equal(t, uint8(7), mbc.Read(0x4000))

	mbc.Write(0x2100, 0x00)
	assert.Equal(t, uint8(1), mbc.romBank)

	// address bit 8 clear toggles RAM enable instead
	mbc.Write(0x2000, 0x03)
	assert.Equal(t, uint8(1), mbc.romBank)
}

func TestMBC2_ram(t *testing.T) {
	mbc := NewMBC2(makeROM(4))

	mbc.Write(0x0000, 0x0A)
	mbc.Write(0xA000, 0xFF)

	// only 4 bits are stored, the upper nibble reads as set
	assert.Equal(t, uint8(0xFF), mbc.Read(0xA000))
	assert.Equal(t, uint8(0x0F), mbc.ram[0])

	mbc.Write(0xA001, 0x05)
	assert.Equal(t, uint8(0xF5), mbc.Read(0xA001))
}

func TestMBC1_ramRoundTrip(t *testing.T) {
	mbc := NewMBC1(makeROM(4))
	mbc.Write(0x0000, 0x0A)
	mbc.Write(0xA000, 0x42)

	saved := mbc.DumpRAM()

	restored := NewMBC1(makeROM(4))
	restored.LoadRAM(saved)
	restored.Write(0x0000, 0x0A)

	assert.Equal(t, uint8(0x42), restored.Read(0xA000))
}
