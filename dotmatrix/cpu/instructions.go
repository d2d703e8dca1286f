package cpu

import "github.com/mlauria/dotmatrix/dotmatrix/bit"

// readImmediate fetches the byte at PC and advances it.
func (c *CPU) readImmediate() uint8 {
	value := c.memory.Read(c.pc)
	c.pc++
	return value
}

// readImmediateWord fetches a little-endian word at PC and advances it.
func (c *CPU) readImmediateWord() uint16 {
	low := c.readImmediate()
	high := c.readImmediate()
	return bit.Combine(high, low)
}

// pushStack pushes a word, high byte first, at decreasing SP.
func (c *CPU) pushStack(value uint16) {
	c.sp--
	c.memory.Write(c.sp, bit.High(value))
	c.sp--
	c.memory.Write(c.sp, bit.Low(value))
}

func (c *CPU) popStack() uint16 {
	low := c.memory.Read(c.sp)
	c.sp++
	high := c.memory.Read(c.sp)
	c.sp++
	return bit.Combine(high, low)
}

func (c *CPU) inc(r *uint8) {
	*r++
	value := *r

	c.setFlagToCondition(zeroFlag, value == 0)
	c.setFlagToCondition(halfCarryFlag, value&0xF == 0)
	c.resetFlag(subFlag)
}

func (c *CPU) dec(r *uint8) {
	*r--
	value := *r

	c.setFlagToCondition(zeroFlag, value == 0)
	c.setFlagToCondition(halfCarryFlag, value&0xF == 0xF)
	c.setFlag(subFlag)
}

func (c *CPU) addToA(value uint8) {
	a := c.a
	result := a + value

	c.setFlagToCondition(zeroFlag, result == 0)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, a&0xF+value&0xF > 0xF)
	c.setFlagToCondition(carryFlag, uint16(a)+uint16(value) > 0xFF)

	c.a = result
}

func (c *CPU) adcToA(value uint8) {
	a := c.a
	carry := c.flagToBit(carryFlag)
	result := a + value + carry

	c.setFlagToCondition(zeroFlag, result == 0)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, a&0xF+value&0xF+carry > 0xF)
	c.setFlagToCondition(carryFlag, uint16(a)+uint16(value)+uint16(carry) > 0xFF)

	c.a = result
}

func (c *CPU) sub(value uint8) {
	a := c.a
	result := a - value

	c.setFlagToCondition(zeroFlag, result == 0)
	c.setFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, a&0xF < value&0xF)
	c.setFlagToCondition(carryFlag, a < value)

	c.a = result
}

func (c *CPU) sbc(value uint8) {
	a := c.a
	carry := c.flagToBit(carryFlag)
	result := a - value - carry

	c.setFlagToCondition(zeroFlag, result == 0)
	c.setFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, a&0xF < value&0xF+carry)
	c.setFlagToCondition(carryFlag, uint16(a) < uint16(value)+uint16(carry))

	c.a = result
}

func (c *CPU) and(value uint8) {
	c.a &= value

	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.setFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
}

func (c *CPU) or(value uint8) {
	c.a |= value

	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
}

func (c *CPU) xor(value uint8) {
	c.a ^= value

	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
}

// cp compares against A: the flags of a subtraction with the result dropped.
func (c *CPU) cp(value uint8) {
	a := c.a

	c.setFlagToCondition(zeroFlag, a == value)
	c.setFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, a&0xF < value&0xF)
	c.setFlagToCondition(carryFlag, a < value)
}

// addToHL adds a 16-bit value to HL. Zero is left untouched; half carry is
// taken from bit 11, carry from bit 15.
func (c *CPU) addToHL(value uint16) {
	hl := c.getHL()

	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, hl&0xFFF+value&0xFFF > 0xFFF)
	c.setFlagToCondition(carryFlag, uint32(hl)+uint32(value) > 0xFFFF)

	c.setHL(hl + value)
}

// addSignedToSP computes SP plus a sign-extended immediate. Half carry and
// carry come from the unsigned sum of the low bytes; zero and subtract are
// always cleared. Used by ADD SP,i8 and LD HL,SP+i8.
func (c *CPU) addSignedToSP() uint16 {
	offset := c.readImmediate()
	result := uint16(int32(c.sp) + int32(int8(offset)))

	c.resetFlag(zeroFlag)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, c.sp&0xF+uint16(offset)&0xF > 0xF)
	c.setFlagToCondition(carryFlag, c.sp&0xFF+uint16(offset) > 0xFF)

	return result
}

// daa adjusts A into binary-coded decimal after an add or subtract, using
// the correction-mask form.
func (c *CPU) daa() {
	var correction uint8

	if c.isSetFlag(halfCarryFlag) || (!c.isSetFlag(subFlag) && c.a&0xF > 9) {
		correction |= 0x06
	}
	if c.isSetFlag(carryFlag) || (!c.isSetFlag(subFlag) && c.a > 0x99) {
		correction |= 0x60
	}

	if c.isSetFlag(subFlag) {
		c.a -= correction
	} else {
		c.a += correction
	}

	if correction&0x60 != 0 {
		c.setFlag(carryFlag)
	}
	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(halfCarryFlag)
}

func (c *CPU) rlc(r *uint8) {
	value := *r

	c.setFlagToCondition(carryFlag, value > 0x7F)
	value = value<<1 | value>>7

	c.setFlagToCondition(zeroFlag, value == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)

	*r = value
}

func (c *CPU) rl(r *uint8) {
	value := *r
	carry := c.flagToBit(carryFlag)

	c.setFlagToCondition(carryFlag, value > 0x7F)
	value = value<<1 | carry

	c.setFlagToCondition(zeroFlag, value == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)

	*r = value
}

func (c *CPU) rrc(r *uint8) {
	value := *r

	c.setFlagToCondition(carryFlag, value&1 == 1)
	value = value>>1 | value<<7

	c.setFlagToCondition(zeroFlag, value == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)

	*r = value
}

func (c *CPU) rr(r *uint8) {
	value := *r
	carry := c.flagToBit(carryFlag) << 7

	c.setFlagToCondition(carryFlag, value&1 == 1)
	value = value>>1 | carry

	c.setFlagToCondition(zeroFlag, value == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)

	*r = value
}

func (c *CPU) sla(r *uint8) {
	value := *r

	c.setFlagToCondition(carryFlag, value > 0x7F)
	value <<= 1

	c.setFlagToCondition(zeroFlag, value == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)

	*r = value
}

// sra shifts right keeping bit 7 (arithmetic shift).
func (c *CPU) sra(r *uint8) {
	value := *r

	c.setFlagToCondition(carryFlag, value&1 == 1)
	value = value>>1 | value&0x80

	c.setFlagToCondition(zeroFlag, value == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)

	*r = value
}

func (c *CPU) srl(r *uint8) {
	value := *r

	c.setFlagToCondition(carryFlag, value&1 == 1)
	value >>= 1

	c.setFlagToCondition(zeroFlag, value == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)

	*r = value
}

func (c *CPU) swap(r *uint8) {
	value := *r<<4 | *r>>4

	c.setFlagToCondition(zeroFlag, value == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.resetFlag(carryFlag)

	*r = value
}

// bitTest sets Z from the complement of the chosen bit. Carry is untouched.
func (c *CPU) bitTest(index uint8, value uint8) {
	c.setFlagToCondition(zeroFlag, !bit.IsSet(index, value))
	c.resetFlag(subFlag)
	c.setFlag(halfCarryFlag)
}

func (c *CPU) res(index uint8, r *uint8) {
	*r = bit.Reset(index, *r)
}

func (c *CPU) set(index uint8, r *uint8) {
	*r = bit.Set(index, *r)
}

// jr applies a signed displacement relative to the address after the
// immediate byte.
func (c *CPU) jr() {
	offset := int8(c.readImmediate())
	c.pc = uint16(int32(c.pc) + int32(offset))
}

func (c *CPU) jp() {
	c.pc = c.readImmediateWord()
}

func (c *CPU) call() {
	address := c.readImmediateWord()
	c.pushStack(c.pc)
	c.pc = address
}

func (c *CPU) ret() {
	c.pc = c.popStack()
}

func (c *CPU) rst(vector uint16) {
	c.pushStack(c.pc)
	c.pc = vector
}
