package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mlauria/dotmatrix/dotmatrix/memory"
)

// loadProgram writes opcode bytes into work RAM and points PC at them.
func loadProgram(cpu *CPU, code ...uint8) {
	for i, b := range code {
		cpu.memory.Write(0xC000+uint16(i), b)
	}
	cpu.pc = 0xC000
}

func TestOpcode_addHalfCarry(t *testing.T) {
	cpu := New(memory.New())
	cpu.f = 0
	cpu.a = 0x0F
	cpu.b = 0x01

	loadProgram(cpu, 0x80) // ADD A, B
	cycles := cpu.Tick()

	assert.Equal(t, uint8(0x10), cpu.a)
	assert.Equal(t, uint8(halfCarryFlag), cpu.f)
	assert.Equal(t, 4, cycles)
}

func TestOpcode_subBorrow(t *testing.T) {
	cpu := New(memory.New())
	cpu.f = 0
	cpu.a = 0x10
	cpu.b = 0x01

	loadProgram(cpu, 0x90) // SUB B
	cpu.Tick()

	assert.Equal(t, uint8(0x0F), cpu.a)
	assert.Equal(t, uint8(subFlag|halfCarryFlag), cpu.f)
}

func TestOpcode_jrBackwards(t *testing.T) {
	cpu := New(memory.New())
	cpu.resetFlag(zeroFlag)

	// JR NZ, -2 lands back on itself
	loadProgram(cpu, 0x20, 0xFE)
	cycles := cpu.Tick()

	assert.Equal(t, 12, cycles)
	assert.Equal(t, uint16(0xC000), cpu.pc)
}

func TestOpcode_jrNotTakenSkipsImmediate(t *testing.T) {
	cpu := New(memory.New())
	cpu.setFlag(zeroFlag)

	loadProgram(cpu, 0x20, 0xFE) // JR NZ, -2
	cycles := cpu.Tick()

	assert.Equal(t, 8, cycles)
	assert.Equal(t, uint16(0xC002), cpu.pc)
}

func TestOpcode_daaAfterAdd(t *testing.T) {
	cpu := New(memory.New())
	cpu.f = 0
	cpu.a = 0x45
	cpu.b = 0x38

	loadProgram(cpu, 0x80, 0x27) // ADD A, B ; DAA
	cpu.Tick()
	assert.Equal(t, uint8(0x7D), cpu.a)

	cpu.Tick()
	assert.Equal(t, uint8(0x83), cpu.a)
	assert.False(t, cpu.isSetFlag(zeroFlag))
	assert.False(t, cpu.isSetFlag(halfCarryFlag))
	assert.False(t, cpu.isSetFlag(carryFlag))
}

func TestOpcode_ldAFromAddress(t *testing.T) {
	cpu := New(memory.New())
	cpu.memory.Write(0xC123, 0x99)

	// LD A, (nn) fetches a 16-bit address, then reads that address
	loadProgram(cpu, 0xFA, 0x23, 0xC1)
	cycles := cpu.Tick()

	assert.Equal(t, 16, cycles)
	assert.Equal(t, uint8(0x99), cpu.a)
	assert.Equal(t, uint16(0xC003), cpu.pc)
}

func TestOpcode_pushPop(t *testing.T) {
	cpu := New(memory.New())
	cpu.sp = 0xFFFE
	cpu.setBC(0xBEEF)

	loadProgram(cpu, 0xC5, 0xD1) // PUSH BC ; POP DE
	cpu.Tick()
	cpu.Tick()

	assert.Equal(t, uint16(0xBEEF), cpu.getDE())
	assert.Equal(t, uint16(0xFFFE), cpu.sp)
}

func TestOpcode_popAFMasksFlags(t *testing.T) {
	cpu := New(memory.New())
	cpu.sp = 0xFFFE
	cpu.pushStack(0x12FF)

	loadProgram(cpu, 0xF1) // POP AF
	cpu.Tick()

	assert.Equal(t, uint16(0x12F0), cpu.getAF())
}

func TestOpcode_ldiLdd(t *testing.T) {
	cpu := New(memory.New())
	cpu.a = 0x42
	cpu.setHL(0xC800)

	loadProgram(cpu, 0x22, 0x32) // LDI (HL), A ; LDD (HL), A
	cpu.Tick()
	assert.Equal(t, uint8(0x42), cpu.memory.Read(0xC800))
	assert.Equal(t, uint16(0xC801), cpu.getHL())

	cpu.Tick()
	assert.Equal(t, uint8(0x42), cpu.memory.Read(0xC801))
	assert.Equal(t, uint16(0xC800), cpu.getHL())
}

func TestOpcode_cycleCounts(t *testing.T) {
	testCases := []struct {
		desc   string
		code   []uint8
		setup  func(*CPU)
		cycles int
	}{
		{desc: "NOP", code: []uint8{0x00}, cycles: 4},
		{desc: "LD BC,nn", code: []uint8{0x01, 0x34, 0x12}, cycles: 12},
		{desc: "LD (nn),SP", code: []uint8{0x08, 0x00, 0xC8}, cycles: 20},
		{desc: "INC (HL)", code: []uint8{0x34}, setup: func(c *CPU) { c.setHL(0xC800) }, cycles: 12},
		{desc: "LD B,C", code: []uint8{0x41}, cycles: 4},
		{desc: "LD B,(HL)", code: []uint8{0x46}, setup: func(c *CPU) { c.setHL(0xC800) }, cycles: 8},
		{desc: "ADD A,(HL)", code: []uint8{0x86}, setup: func(c *CPU) { c.setHL(0xC800) }, cycles: 8},
		{desc: "ADD A,n", code: []uint8{0xC6, 0x01}, cycles: 8},
		{desc: "JP nn", code: []uint8{0xC3, 0x00, 0xC8}, cycles: 16},
		{desc: "JP taken", code: []uint8{0xCA, 0x00, 0xC8}, setup: func(c *CPU) { c.setFlag(zeroFlag) }, cycles: 16},
		{desc: "JP not taken", code: []uint8{0xCA, 0x00, 0xC8}, setup: func(c *CPU) { c.resetFlag(zeroFlag) }, cycles: 12},
		{desc: "CALL nn", code: []uint8{0xCD, 0x00, 0xC8}, cycles: 24},
		{desc: "CALL taken", code: []uint8{0xDC, 0x00, 0xC8}, setup: func(c *CPU) { c.setFlag(carryFlag) }, cycles: 24},
		{desc: "CALL not taken", code: []uint8{0xDC, 0x00, 0xC8}, setup: func(c *CPU) { c.resetFlag(carryFlag) }, cycles: 12},
		{desc: "RET", code: []uint8{0xC9}, setup: func(c *CPU) { c.pushStack(0xC800) }, cycles: 16},
		{desc: "RET taken", code: []uint8{0xD0}, setup: func(c *CPU) { c.pushStack(0xC800); c.resetFlag(carryFlag) }, cycles: 20},
		{desc: "RET not taken", code: []uint8{0xD0}, setup: func(c *CPU) { c.setFlag(carryFlag) }, cycles: 8},
		{desc: "RST 0x18", code: []uint8{0xDF}, cycles: 16},
		{desc: "PUSH BC", code: []uint8{0xC5}, cycles: 16},
		{desc: "POP BC", code: []uint8{0xC1}, setup: func(c *CPU) { c.pushStack(0x1234) }, cycles: 12},
		{desc: "LDH (n),A", code: []uint8{0xE0, 0x80}, cycles: 12},
		{desc: "LDH A,(n)", code: []uint8{0xF0, 0x80}, cycles: 12},
		{desc: "ADD SP,n", code: []uint8{0xE8, 0x01}, cycles: 16},
		{desc: "LD HL,SP+n", code: []uint8{0xF8, 0x01}, cycles: 12},
		{desc: "JP (HL)", code: []uint8{0xE9}, setup: func(c *CPU) { c.setHL(0xC800) }, cycles: 4},
		{desc: "LD SP,HL", code: []uint8{0xF9}, cycles: 8},
		{desc: "EI", code: []uint8{0xFB}, cycles: 4},
		{desc: "DI", code: []uint8{0xF3}, cycles: 4},
		{desc: "HALT", code: []uint8{0x76}, cycles: 4},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu := New(memory.New())
			cpu.sp = 0xFFFE
			if tC.setup != nil {
				tC.setup(cpu)
			}
			loadProgram(cpu, tC.code...)
			assert.Equal(t, tC.cycles, cpu.Tick())
		})
	}
}

// CB opcode costs are uniform per operand column: 8 for registers, 16 for
// (HL), except BIT which only reads and costs 12.
func TestOpcode_cbCycleCounts(t *testing.T) {
	for n := 0; n < 256; n++ {
		expected := 8
		if n&0x07 == 0x06 {
			expected = 16
			if n >= 0x40 && n <= 0x7F {
				expected = 12
			}
		}

		cpu := New(memory.New())
		cpu.setHL(0xC800)
		loadProgram(cpu, 0xCB, uint8(n))

		assert.Equalf(t, expected, cpu.Tick(), "CB opcode 0x%02X", n)
	}
}

func TestOpcode_illegalPanics(t *testing.T) {
	for _, n := range []uint8{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD} {
		cpu := New(memory.New())
		loadProgram(cpu, n)
		assert.Panicsf(t, func() { cpu.Tick() }, "opcode 0x%02X", n)
	}
}

func TestOpcode_halted(t *testing.T) {
	cpu := New(memory.New())
	cpu.halted = true
	loadProgram(cpu, 0x3C) // INC A, must not run

	cycles := cpu.Tick()

	assert.Equal(t, 4, cycles)
	assert.Equal(t, uint16(0xC000), cpu.pc)
	assert.Equal(t, uint8(0x01), cpu.a)
}
