package memory

import (
	"fmt"

	"github.com/mlauria/dotmatrix/dotmatrix/addr"
	"github.com/mlauria/dotmatrix/dotmatrix/bit"
)

type memRegion uint8

const (
	regionROM memRegion = iota
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionIO
)

// SerialPort is the minimal interface for a device connected to SB/SC.
// Implementations must only accept reads/writes of addr.SB and addr.SC.
type SerialPort interface {
	Write(address uint16, value byte)
	Read(address uint16) byte
	Tick(cycles int)
}

// MMU routes 16-bit addresses to their backing storage and applies the I/O
// side effects of the memory map: cartridge banking, echo RAM, the unusable
// region, OAM DMA, and the timer/joypad/serial register blocks.
type MMU struct {
	cart      *Cartridge
	mbc       MBC
	memory    []byte
	joypad    *Joypad
	timer     Timer
	serial    SerialPort
	regionMap [256]memRegion
}

// New creates a memory unit with no cartridge loaded.
func New() *MMU {
	m := &MMU{
		memory: make([]byte, 0x10000),
		cart:   NewCartridge(),
		joypad: NewJoypad(),
	}
	m.mbc = m.cart.newMBC()
	m.joypad.InterruptHandler = func() { m.RequestInterrupt(addr.JoypadInterrupt) }
	m.timer.OverflowHandler = func() { m.RequestInterrupt(addr.TimerInterrupt) }
	m.initRegionMap()
	m.seedIORegisters()
	return m
}

// NewWithCartridge creates a memory unit with the provided cartridge loaded.
func NewWithCartridge(cart *Cartridge) *MMU {
	m := New()
	m.cart = cart
	m.mbc = cart.newMBC()
	return m
}

func (m *MMU) initRegionMap() {
	for i := 0x00; i <= 0x7F; i++ {
		m.regionMap[i] = regionROM
	}
	for i := 0x80; i <= 0x9F; i++ {
		m.regionMap[i] = regionVRAM
	}
	for i := 0xA0; i <= 0xBF; i++ {
		m.regionMap[i] = regionExtRAM
	}
	for i := 0xC0; i <= 0xDF; i++ {
		m.regionMap[i] = regionWRAM
	}
	for i := 0xE0; i <= 0xFD; i++ {
		m.regionMap[i] = regionEcho
	}
	m.regionMap[0xFE] = regionOAM
	m.regionMap[0xFF] = regionIO
}

// seedIORegisters stores the post-boot values the boot ROM leaves behind.
func (m *MMU) seedIORegisters() {
	seeds := map[uint16]byte{
		0xFF10: 0x80, 0xFF11: 0xBF, 0xFF12: 0xF3, 0xFF14: 0xBF,
		0xFF16: 0x3F, 0xFF19: 0xBF, 0xFF1A: 0x7F, 0xFF1B: 0xFF,
		0xFF1C: 0x9F, 0xFF1E: 0xBF, 0xFF20: 0xFF, 0xFF23: 0xBF,
		0xFF24: 0x77, 0xFF25: 0xF3, 0xFF26: 0xF1,
		0xFF40: 0x91, 0xFF47: 0xFC, 0xFF48: 0xFF, 0xFF49: 0xFF,
	}
	for address, value := range seeds {
		m.memory[address] = value
	}
}

// SetSerial connects a serial device to SB/SC.
func (m *MMU) SetSerial(port SerialPort) {
	m.serial = port
}

// Tick advances any memory-mapped hardware that needs cycle counts.
func (m *MMU) Tick(cycles int) {
	m.timer.Tick(cycles)
	if m.serial != nil {
		m.serial.Tick(cycles)
	}
}

// RequestInterrupt sets the chosen interrupt's bit in IF.
func (m *MMU) RequestInterrupt(interrupt addr.Interrupt) {
	m.memory[addr.IF] = bit.Set(uint8(interrupt), m.memory[addr.IF]) | 0xE0
}

// ReadBit reads the bit at the given index of the byte at address.
func (m *MMU) ReadBit(index uint8, address uint16) bool {
	return bit.IsSet(index, m.Read(address))
}

func (m *MMU) Read(address uint16) byte {
	switch m.regionMap[address>>8] {
	case regionROM, regionExtRAM:
		return m.mbc.Read(address)
	case regionVRAM, regionWRAM:
		return m.memory[address]
	case regionEcho:
		return m.memory[address-0x2000]
	case regionOAM:
		if address <= addr.OAMEnd {
			return m.memory[address]
		}
		// unusable region 0xFEA0-0xFEFF
		return 0xFF
	case regionIO:
		return m.readIO(address)
	default:
		panic(fmt.Sprintf("read from unmapped address 0x%04X", address))
	}
}

func (m *MMU) readIO(address uint16) byte {
	switch {
	case address == addr.P1:
		return m.joypad.Read()
	case address == addr.SB || address == addr.SC:
		if m.serial != nil {
			return m.serial.Read(address)
		}
		return m.memory[address]
	case address >= addr.DIV && address <= addr.TAC:
		return m.timer.Read(address)
	case address == addr.IF:
		// the unused upper three bits always read as set
		return m.memory[address] | 0xE0
	default:
		return m.memory[address]
	}
}

func (m *MMU) Write(address uint16, value byte) {
	switch m.regionMap[address>>8] {
	case regionROM, regionExtRAM:
		m.mbc.Write(address, value)
	case regionVRAM, regionWRAM:
		m.memory[address] = value
	case regionEcho:
		m.memory[address-0x2000] = value
	case regionOAM:
		if address <= addr.OAMEnd {
			m.memory[address] = value
		}
		// writes into 0xFEA0-0xFEFF are dropped
	case regionIO:
		m.writeIO(address, value)
	default:
		panic(fmt.Sprintf("write to unmapped address 0x%04X", address))
	}
}

func (m *MMU) writeIO(address uint16, value byte) {
	switch {
	case address == addr.P1:
		m.joypad.Write(value)
	case address == addr.SB || address == addr.SC:
		if m.serial != nil {
			m.serial.Write(address, value)
			return
		}
		m.memory[address] = value
	case address >= addr.DIV && address <= addr.TAC:
		m.timer.Write(address, value)
	case address == addr.IF:
		m.memory[address] = value | 0xE0
	case address == addr.LY:
		// a game write resets the scanline counter
		m.memory[address] = 0
	case address == addr.DMA:
		m.dmaTransfer(value)
		m.memory[address] = value
	case address >= 0xFF4C && address <= 0xFF7F:
		// restricted block, writes are dropped
	default:
		m.memory[address] = value
	}
}

// dmaTransfer copies 160 bytes from value<<8 into OAM.
func (m *MMU) dmaTransfer(value byte) {
	source := uint16(value) << 8
	for i := uint16(0); i < 0xA0; i++ {
		m.memory[addr.OAMStart+i] = m.Read(source + i)
	}
}

// SetLY stores the current scanline without triggering the game-facing
// write-resets-LY behavior. Only the PPU should call this.
func (m *MMU) SetLY(value byte) {
	m.memory[addr.LY] = value
}

// HandleKeyPress presses a joypad key.
func (m *MMU) HandleKeyPress(key JoypadKey) {
	m.joypad.Press(key)
}

// HandleKeyRelease releases a joypad key.
func (m *MMU) HandleKeyRelease(key JoypadKey) {
	m.joypad.Release(key)
}

// Cartridge returns the loaded cartridge.
func (m *MMU) Cartridge() *Cartridge {
	return m.cart
}

// DumpRAM returns the external cartridge RAM for battery saves.
func (m *MMU) DumpRAM() []uint8 {
	return m.mbc.DumpRAM()
}

// LoadRAM restores external cartridge RAM from a battery save.
func (m *MMU) LoadRAM(data []uint8) {
	m.mbc.LoadRAM(data)
}
