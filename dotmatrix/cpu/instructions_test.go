package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mlauria/dotmatrix/dotmatrix/memory"
)

func TestCPU_postBootState(t *testing.T) {
	cpu := New(memory.New())

	assert.Equal(t, uint16(0x01B0), cpu.getAF())
	assert.Equal(t, uint16(0x0013), cpu.getBC())
	assert.Equal(t, uint16(0x00D8), cpu.getDE())
	assert.Equal(t, uint16(0x014D), cpu.getHL())
	assert.Equal(t, uint16(0xFFFE), cpu.sp)
	assert.Equal(t, uint16(0x0100), cpu.pc)
}

func TestCPU_stack(t *testing.T) {
	cpu := New(memory.New())

	cpu.sp = 0xFFFE
	cpu.pushStack(0x0102)

	assert.Equal(t, uint16(0xFFFC), cpu.sp)
	// high byte first, at decreasing addresses
	assert.Equal(t, uint8(0x01), cpu.memory.Read(0xFFFD))
	assert.Equal(t, uint8(0x02), cpu.memory.Read(0xFFFC))

	popped := cpu.popStack()

	assert.Equal(t, uint16(0x0102), popped)
	assert.Equal(t, uint16(0xFFFE), cpu.sp)
}

func TestCPU_setAFMasksLowNibble(t *testing.T) {
	cpu := New(memory.New())

	cpu.setAF(0x12FF)

	assert.Equal(t, uint8(0x12), cpu.a)
	assert.Equal(t, uint8(0xF0), cpu.f)
	assert.Equal(t, uint16(0x12F0), cpu.getAF())
}

func TestCPU_inc(t *testing.T) {
	cpu := New(memory.New())

	testCases := []struct {
		desc  string
		arg   uint8
		want  uint8
		flags Flag
	}{
		{desc: "increases", arg: 0x0A, want: 0x0B},
		{desc: "sets half carry on low nibble wrap", arg: 0x0F, want: 0x10, flags: halfCarryFlag},
		{desc: "sets zero flag", arg: 0xFF, want: 0, flags: zeroFlag | halfCarryFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu.f = 0
			cpu.b = tC.arg
			cpu.inc(&cpu.b)
			assert.Equal(t, tC.want, cpu.b)
			assert.Equal(t, uint8(tC.flags), cpu.f)
		})
	}
}

func TestCPU_incPreservesCarry(t *testing.T) {
	cpu := New(memory.New())

	cpu.f = uint8(carryFlag)
	cpu.b = 0x01
	cpu.inc(&cpu.b)

	assert.True(t, cpu.isSetFlag(carryFlag))
}

func TestCPU_dec(t *testing.T) {
	cpu := New(memory.New())

	testCases := []struct {
		desc  string
		arg   uint8
		want  uint8
		flags Flag
	}{
		{desc: "decreases", arg: 0x0A, want: 0x09, flags: subFlag},
		{desc: "sets half carry on borrow", arg: 0x10, want: 0x0F, flags: subFlag | halfCarryFlag},
		{desc: "sets zero flag", arg: 0x01, want: 0, flags: subFlag | zeroFlag},
		{desc: "wraps around", arg: 0x00, want: 0xFF, flags: subFlag | halfCarryFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu.f = 0
			cpu.b = tC.arg
			cpu.dec(&cpu.b)
			assert.Equal(t, tC.want, cpu.b)
			assert.Equal(t, uint8(tC.flags), cpu.f)
		})
	}
}

func TestCPU_addToA(t *testing.T) {
	cpu := New(memory.New())

	testCases := []struct {
		desc  string
		a     uint8
		value uint8
		want  uint8
		flags Flag
	}{
		{desc: "adds", a: 0x01, value: 0x02, want: 0x03},
		{desc: "half carry", a: 0x0F, value: 0x01, want: 0x10, flags: halfCarryFlag},
		{desc: "carry", a: 0xFF, value: 0x02, want: 0x01, flags: halfCarryFlag | carryFlag},
		{desc: "zero", a: 0x80, value: 0x80, want: 0x00, flags: zeroFlag | carryFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu.f = 0
			cpu.a = tC.a
			cpu.addToA(tC.value)
			assert.Equal(t, tC.want, cpu.a)
			assert.Equal(t, uint8(tC.flags), cpu.f)
		})
	}
}

func TestCPU_adcToA(t *testing.T) {
	cpu := New(memory.New())

	// carry participates in both the nibble and the byte test
	cpu.f = uint8(carryFlag)
	cpu.a = 0x0F
	cpu.adcToA(0x00)

	assert.Equal(t, uint8(0x10), cpu.a)
	assert.True(t, cpu.isSetFlag(halfCarryFlag))
	assert.False(t, cpu.isSetFlag(carryFlag))

	cpu.f = uint8(carryFlag)
	cpu.a = 0xFF
	cpu.adcToA(0x00)

	assert.Equal(t, uint8(0x00), cpu.a)
	assert.True(t, cpu.isSetFlag(zeroFlag))
	assert.True(t, cpu.isSetFlag(carryFlag))
}

func TestCPU_sub(t *testing.T) {
	cpu := New(memory.New())

	testCases := []struct {
		desc  string
		a     uint8
		value uint8
		want  uint8
		flags Flag
	}{
		{desc: "subtracts with half borrow", a: 0x10, value: 0x01, want: 0x0F, flags: subFlag | halfCarryFlag},
		{desc: "zero", a: 0x42, value: 0x42, want: 0x00, flags: subFlag | zeroFlag},
		{desc: "borrow", a: 0x01, value: 0x02, want: 0xFF, flags: subFlag | halfCarryFlag | carryFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu.f = 0
			cpu.a = tC.a
			cpu.sub(tC.value)
			assert.Equal(t, tC.want, cpu.a)
			assert.Equal(t, uint8(tC.flags), cpu.f)
		})
	}
}

func TestCPU_sbc(t *testing.T) {
	cpu := New(memory.New())

	cpu.f = uint8(carryFlag)
	cpu.a = 0x10
	cpu.sbc(0x0F)

	assert.Equal(t, uint8(0x00), cpu.a)
	assert.True(t, cpu.isSetFlag(zeroFlag))
	assert.True(t, cpu.isSetFlag(halfCarryFlag))
	assert.False(t, cpu.isSetFlag(carryFlag))
}

func TestCPU_logicOps(t *testing.T) {
	cpu := New(memory.New())

	cpu.f = 0
	cpu.a = 0xF0
	cpu.and(0x0F)
	assert.Equal(t, uint8(0x00), cpu.a)
	assert.Equal(t, uint8(zeroFlag|halfCarryFlag), cpu.f)

	cpu.f = 0xF0
	cpu.a = 0xF0
	cpu.or(0x0F)
	assert.Equal(t, uint8(0xFF), cpu.a)
	assert.Equal(t, uint8(0), cpu.f)

	cpu.f = 0
	cpu.a = 0xFF
	cpu.xor(0xFF)
	assert.Equal(t, uint8(0x00), cpu.a)
	assert.Equal(t, uint8(zeroFlag), cpu.f)
}

func TestCPU_cp(t *testing.T) {
	cpu := New(memory.New())

	cpu.a = 0x42
	cpu.cp(0x42)
	assert.True(t, cpu.isSetFlag(zeroFlag))
	assert.True(t, cpu.isSetFlag(subFlag))
	assert.Equal(t, uint8(0x42), cpu.a)

	cpu.cp(0x50)
	assert.False(t, cpu.isSetFlag(zeroFlag))
	assert.True(t, cpu.isSetFlag(carryFlag))
}

func TestCPU_addToHL(t *testing.T) {
	cpu := New(memory.New())

	// zero flag survives, half carry from bit 11, carry from bit 15
	cpu.f = uint8(zeroFlag)
	cpu.setHL(0x0FFF)
	cpu.addToHL(0x0001)

	assert.Equal(t, uint16(0x1000), cpu.getHL())
	assert.True(t, cpu.isSetFlag(zeroFlag))
	assert.True(t, cpu.isSetFlag(halfCarryFlag))
	assert.False(t, cpu.isSetFlag(carryFlag))

	cpu.setHL(0xFFFF)
	cpu.addToHL(0x0001)
	assert.Equal(t, uint16(0x0000), cpu.getHL())
	assert.True(t, cpu.isSetFlag(carryFlag))
}

func TestCPU_addSignedToSP(t *testing.T) {
	cpu := New(memory.New())

	testCases := []struct {
		desc   string
		sp     uint16
		offset uint8
		want   uint16
		flags  Flag
	}{
		{desc: "positive offset", sp: 0xFFF8, offset: 0x08, want: 0x0000, flags: halfCarryFlag | carryFlag},
		{desc: "negative offset", sp: 0x0010, offset: 0xFE, want: 0x000E, flags: carryFlag},
		{desc: "no carries", sp: 0x1000, offset: 0x01, want: 0x1001},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu.f = 0xF0
			cpu.sp = tC.sp
			cpu.memory.Write(0xC000, tC.offset)
			cpu.pc = 0xC000

			result := cpu.addSignedToSP()

			assert.Equal(t, tC.want, result)
			assert.Equal(t, uint8(tC.flags), cpu.f)
		})
	}
}

func TestCPU_daa(t *testing.T) {
	cpu := New(memory.New())

	testCases := []struct {
		desc   string
		a      uint8
		flags  Flag
		want   uint8
		wantC  bool
	}{
		{desc: "adjusts low nibble after add", a: 0x7D, want: 0x83},
		{desc: "adjusts high nibble after add", a: 0xA0, want: 0x00, wantC: true},
		{desc: "no adjustment needed", a: 0x42, want: 0x42},
		{desc: "adjusts after subtract with half borrow", a: 0x0F, flags: subFlag | halfCarryFlag, want: 0x09},
		{desc: "keeps carry after subtract", a: 0xF0, flags: subFlag | carryFlag, want: 0x90, wantC: true},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu.f = uint8(tC.flags)
			cpu.a = tC.a
			cpu.daa()
			assert.Equal(t, tC.want, cpu.a)
			assert.Equal(t, tC.wantC, cpu.isSetFlag(carryFlag))
			assert.False(t, cpu.isSetFlag(halfCarryFlag))
			assert.Equal(t, cpu.a == 0, cpu.isSetFlag(zeroFlag))
		})
	}
}

func TestCPU_rotates(t *testing.T) {
	cpu := New(memory.New())

	t.Run("rlc", func(t *testing.T) {
		cpu.f = 0
		cpu.b = 0x80
		cpu.rlc(&cpu.b)
		assert.Equal(t, uint8(0x01), cpu.b)
		assert.True(t, cpu.isSetFlag(carryFlag))
	})

	t.Run("rlc sets zero", func(t *testing.T) {
		cpu.f = 0
		cpu.b = 0x00
		cpu.rlc(&cpu.b)
		assert.Equal(t, uint8(0x00), cpu.b)
		assert.True(t, cpu.isSetFlag(zeroFlag))
	})

	t.Run("rl shifts carry in", func(t *testing.T) {
		cpu.f = uint8(carryFlag)
		cpu.b = 0x01
		cpu.rl(&cpu.b)
		assert.Equal(t, uint8(0x03), cpu.b)
		assert.False(t, cpu.isSetFlag(carryFlag))
	})

	t.Run("rrc", func(t *testing.T) {
		cpu.f = 0
		cpu.b = 0x01
		cpu.rrc(&cpu.b)
		assert.Equal(t, uint8(0x80), cpu.b)
		assert.True(t, cpu.isSetFlag(carryFlag))
	})

	t.Run("rr shifts carry in", func(t *testing.T) {
		cpu.f = uint8(carryFlag)
		cpu.b = 0x02
		cpu.rr(&cpu.b)
		assert.Equal(t, uint8(0x81), cpu.b)
		assert.False(t, cpu.isSetFlag(carryFlag))
	})
}

func TestCPU_shifts(t *testing.T) {
	cpu := New(memory.New())

	t.Run("sla", func(t *testing.T) {
		cpu.f = 0
		cpu.b = 0xC0
		cpu.sla(&cpu.b)
		assert.Equal(t, uint8(0x80), cpu.b)
		assert.True(t, cpu.isSetFlag(carryFlag))
	})

	t.Run("sra keeps sign bit", func(t *testing.T) {
		cpu.f = 0
		cpu.b = 0x81
		cpu.sra(&cpu.b)
		assert.Equal(t, uint8(0xC0), cpu.b)
		assert.True(t, cpu.isSetFlag(carryFlag))
	})

	t.Run("srl clears sign bit", func(t *testing.T) {
		cpu.f = 0
		cpu.b = 0x81
		cpu.srl(&cpu.b)
		assert.Equal(t, uint8(0x40), cpu.b)
		assert.True(t, cpu.isSetFlag(carryFlag))
	})

	t.Run("swap", func(t *testing.T) {
		cpu.f = 0xF0
		cpu.b = 0xAB
		cpu.swap(&cpu.b)
		assert.Equal(t, uint8(0xBA), cpu.b)
		assert.Equal(t, uint8(0), cpu.f)
	})
}

func TestCPU_bitTest(t *testing.T) {
	cpu := New(memory.New())

	cpu.f = uint8(carryFlag)
	cpu.bitTest(7, 0x80)
	assert.False(t, cpu.isSetFlag(zeroFlag))
	assert.True(t, cpu.isSetFlag(halfCarryFlag))
	// carry is untouched
	assert.True(t, cpu.isSetFlag(carryFlag))

	cpu.bitTest(6, 0x80)
	assert.True(t, cpu.isSetFlag(zeroFlag))
}
