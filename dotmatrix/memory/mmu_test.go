package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mlauria/dotmatrix/dotmatrix/addr"
)

func TestMMU_workRAM(t *testing.T) {
	mmu := New()

	mmu.Write(0xC000, 0x42)
	assert.Equal(t, uint8(0x42), mmu.Read(0xC000))

	mmu.Write(0xDFFF, 0x99)
	assert.Equal(t, uint8(0x99), mmu.Read(0xDFFF))
}

func TestMMU_echoRAM(t *testing.T) {
	mmu := New()

	// writes to work RAM are visible through the echo region
	mmu.Write(0xC000, 0x42)
	assert.Equal(t, uint8(0x42), mmu.Read(0xE000))

	// and writes to the echo land in work RAM
	mmu.Write(0xE123, 0x77)
	assert.Equal(t, uint8(0x77), mmu.Read(0xC123))
	assert.Equal(t, uint8(0x77), mmu.Read(0xE123))
}

func TestMMU_unusableRegion(t *testing.T) {
	mmu := New()

	for address := uint16(0xFEA0); address <= 0xFEFF; address++ {
		mmu.Write(address, 0x42)
		assert.Equal(t, uint8(0xFF), mmu.Read(address))
	}
}

func TestMMU_restrictedIOBlock(t *testing.T) {
	mmu := New()

	mmu.Write(0xFF50, 0xAB)
	assert.Equal(t, uint8(0x00), mmu.Read(0xFF50))
}

func TestMMU_hram(t *testing.T) {
	mmu := New()

	mmu.Write(0xFF80, 0x42)
	mmu.Write(0xFFFE, 0x99)

	assert.Equal(t, uint8(0x42), mmu.Read(0xFF80))
	assert.Equal(t, uint8(0x99), mmu.Read(0xFFFE))
}

func TestMMU_interruptRegisters(t *testing.T) {
	mmu := New()

	// games may write IF directly; the unused bits read as set
	mmu.Write(addr.IF, 0x05)
	assert.Equal(t, uint8(0xE5), mmu.Read(addr.IF))

	mmu.Write(addr.IE, 0x1F)
	assert.Equal(t, uint8(0x1F), mmu.Read(addr.IE))

	mmu.Write(addr.IF, 0x01)
	mmu.RequestInterrupt(addr.TimerInterrupt)
	assert.Equal(t, uint8(0x05), mmu.Read(addr.IF)&0x1F)
}

func TestMMU_lyWriteResets(t *testing.T) {
	mmu := New()

	mmu.SetLY(0x90)
	assert.Equal(t, uint8(0x90), mmu.Read(addr.LY))

	mmu.Write(addr.LY, 0x05)
	assert.Equal(t, uint8(0x00), mmu.Read(addr.LY))
}

func TestMMU_divWriteResets(t *testing.T) {
	mmu := New()

	mmu.Tick(1024)
	assert.NotEqual(t, uint8(0), mmu.Read(addr.DIV))

	mmu.Write(addr.DIV, 0xFF)
	assert.Equal(t, uint8(0), mmu.Read(addr.DIV))
}

func TestMMU_oamDMA(t *testing.T) {
	mmu := New()

	for i := uint16(0); i < 0xA0; i++ {
		mmu.Write(0xC000+i, uint8(i))
	}

	mmu.Write(addr.DMA, 0xC0)

	for i := uint16(0); i < 0xA0; i++ {
		assert.Equal(t, uint8(i), mmu.Read(0xFE00+i))
	}
}

func TestMMU_postBootIOValues(t *testing.T) {
	mmu := New()

	seeds := map[uint16]byte{
		0xFF05: 0x00, 0xFF06: 0x00, 0xFF07: 0x00,
		0xFF10: 0x80, 0xFF11: 0xBF, 0xFF12: 0xF3, 0xFF14: 0xBF,
		0xFF16: 0x3F, 0xFF19: 0xBF, 0xFF1A: 0x7F, 0xFF1B: 0xFF,
		0xFF1C: 0x9F, 0xFF1E: 0xBF, 0xFF20: 0xFF, 0xFF23: 0xBF,
		0xFF24: 0x77, 0xFF25: 0xF3, 0xFF26: 0xF1,
		0xFF40: 0x91, 0xFF47: 0xFC, 0xFF48: 0xFF, 0xFF49: 0xFF,
	}
	for address, want := range seeds {
		assert.Equalf(t, want, mmu.Read(address), "0x%04X", address)
	}
}

func TestMMU_timerRegisterRouting(t *testing.T) {
	mmu := New()

	mmu.Write(addr.TAC, 0x05)
	mmu.Write(addr.TMA, 0x42)
	mmu.Write(addr.TIMA, 0xFF)

	mmu.Tick(16)

	assert.Equal(t, uint8(0x42), mmu.Read(addr.TIMA))
	assert.Equal(t, uint8(0x04), mmu.Read(addr.IF)&0x04)
}

func TestMMU_vramAndOAM(t *testing.T) {
	mmu := New()

	mmu.Write(0x8000, 0x11)
	assert.Equal(t, uint8(0x11), mmu.Read(0x8000))

	mmu.Write(0xFE00, 0x22)
	assert.Equal(t, uint8(0x22), mmu.Read(0xFE00))
}

func TestMMU_romWritesRouteToMBC(t *testing.T) {
	rom := makeROM(4)
	rom[cartridgeTypeAddress] = 0x01 // MBC1

	cart, err := NewCartridgeWithData(rom)
	assert.NoError(t, err)

	mmu := NewWithCartridge(cart)

	// cartridge bytes are never mutated by ROM-window writes
	mmu.Write(0x2000, 0x02)
	assert.Equal(t, uint8(0x00), mmu.Read(0x2000))
	assert.Equal(t, uint8(0x02), mmu.Read(0x4000))
}
