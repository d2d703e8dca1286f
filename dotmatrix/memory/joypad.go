package memory

import "github.com/mlauria/dotmatrix/dotmatrix/bit"

// JoypadKey represents a key on the joypad. The value is the bit position in
// the button matrix: directions in the low nibble, buttons in the high one.
type JoypadKey uint8

const (
	JoypadRight JoypadKey = iota
	JoypadLeft
	JoypadUp
	JoypadDown
	JoypadA
	JoypadB
	JoypadSelect
	JoypadStart
)

// Joypad models the 4x2 button matrix behind the P1 register.
//
// The matrix is active low: 1 means released. P1 bit 4 selects the direction
// row, bit 5 the button row; the selected nibble is visible in P1 bits 3-0.
type Joypad struct {
	matrix    uint8
	selection uint8

	// Called when a selected key goes from released to pressed.
	InterruptHandler func()
}

// NewJoypad creates a Joypad with every key released.
func NewJoypad() *Joypad {
	return &Joypad{matrix: 0xFF}
}

// Read builds the P1 value from the stored selection bits and the matrix.
// Unselected low bits read high.
func (j *Joypad) Read() uint8 {
	result := j.selection ^ 0xFF

	if !bit.IsSet(4, j.selection) {
		result &= (j.matrix & 0x0F) | 0xF0
	} else if !bit.IsSet(5, j.selection) {
		result &= (j.matrix >> 4) | 0xF0
	}

	return result
}

// Write stores the selection bits. Only bits 4-5 are writable.
func (j *Joypad) Write(value uint8) {
	j.selection = value & 0x30
}

// Press clears the matrix bit for the key. If the key's row is currently
// selected and the bit transitions from set to clear, the joypad interrupt
// is requested.
func (j *Joypad) Press(key JoypadKey) {
	wasReleased := bit.IsSet(uint8(key), j.matrix)
	j.matrix = bit.Reset(uint8(key), j.matrix)

	isButton := key > JoypadDown

	selected := false
	if isButton && !bit.IsSet(5, j.selection) {
		selected = true
	} else if !isButton && !bit.IsSet(4, j.selection) {
		selected = true
	}

	if selected && wasReleased && j.InterruptHandler != nil {
		j.InterruptHandler()
	}
}

// Release sets the matrix bit for the key.
func (j *Joypad) Release(key JoypadKey) {
	j.matrix = bit.Set(uint8(key), j.matrix)
}
