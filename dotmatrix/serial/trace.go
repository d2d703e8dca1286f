// Package serial implements a diagnostic sink for the link port.
//
// Test roms report their results by writing a byte to SB and 0x81 to SC;
// wiring a Trace to the MMU captures that stream.
package serial

import (
	"io"
	"log/slog"

	"github.com/mlauria/dotmatrix/dotmatrix/addr"
	"github.com/mlauria/dotmatrix/dotmatrix/bit"
)

// transferCycles is the DMG cost of shifting one byte out with the
// internal clock (8 bits at 8192 Hz).
const transferCycles = 4096

// Trace is a serial device with no peer: outgoing bytes are copied to an
// optional writer and logged line by line, incoming bytes read as 0xFF.
type Trace struct {
	irqHandler func()
	out        io.Writer

	sb, sc    byte
	countdown int
	line      []byte
}

// NewTrace creates a serial trace. irq is called when a transfer completes
// and should be wired to request the serial interrupt. out may be nil.
func NewTrace(irq func(), out io.Writer) *Trace {
	return &Trace{
		irqHandler: irq,
		out:        out,
	}
}

func (t *Trace) Read(address uint16) byte {
	switch address {
	case addr.SB:
		return t.sb
	case addr.SC:
		return t.sc
	default:
		panic("serial.Trace: invalid read address")
	}
}

func (t *Trace) Write(address uint16, value byte) {
	switch address {
	case addr.SB:
		t.sb = value
	case addr.SC:
		t.sc = value
		t.maybeStartTransfer()
	default:
		panic("serial.Trace: invalid write address")
	}
}

// Tick advances an active transfer and completes it when its cycle budget
// has elapsed.
func (t *Trace) Tick(cycles int) {
	if t.countdown <= 0 {
		return
	}
	t.countdown -= cycles
	if t.countdown <= 0 {
		t.completeTransfer()
	}
}

func (t *Trace) maybeStartTransfer() {
	// a transfer starts when both the start bit and the internal clock
	// bit are set
	if !bit.IsSet(7, t.sc) || !bit.IsSet(0, t.sc) {
		return
	}
	if t.countdown > 0 {
		return
	}

	t.emit(t.sb)
	t.countdown = transferCycles
}

func (t *Trace) emit(b byte) {
	if t.out != nil {
		t.out.Write([]byte{b})
	}

	if b == '\n' || b == '\r' || b == 0 {
		if len(t.line) > 0 {
			slog.Info("serial", "line", string(t.line))
			t.line = t.line[:0]
		}
		return
	}
	t.line = append(t.line, b)
}

func (t *Trace) completeTransfer() {
	// no peer: the shifted-in byte is all ones
	t.sb = 0xFF
	t.sc = bit.Reset(7, t.sc)
	t.countdown = 0
	if t.irqHandler != nil {
		t.irqHandler()
	}
}
