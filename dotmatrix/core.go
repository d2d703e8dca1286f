package dotmatrix

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mlauria/dotmatrix/dotmatrix/addr"
	"github.com/mlauria/dotmatrix/dotmatrix/cpu"
	"github.com/mlauria/dotmatrix/dotmatrix/memory"
	"github.com/mlauria/dotmatrix/dotmatrix/serial"
	"github.com/mlauria/dotmatrix/dotmatrix/timing"
	"github.com/mlauria/dotmatrix/dotmatrix/video"
)

// DMG is the root struct composing the CPU, memory unit, and PPU into a
// runnable machine.
//
// All state is owned by the goroutine calling RunUntilFrame. The framebuffer
// is read and keys are pressed between frames only.
type DMG struct {
	cpu *cpu.CPU
	gpu *video.GPU
	mem *memory.MMU

	frameCount       uint64
	instructionCount uint64
}

func (e *DMG) init(mem *memory.MMU) {
	e.cpu = cpu.New(mem)
	e.gpu = video.NewGpu(mem)
	e.mem = mem
}

// New creates a machine with no cartridge inserted. Useful for tests.
func New() *DMG {
	e := &DMG{}
	e.init(memory.New())
	return e
}

// NewWithCartridge creates a machine with the given cartridge loaded.
func NewWithCartridge(cart *memory.Cartridge) *DMG {
	e := &DMG{}
	e.init(memory.NewWithCartridge(cart))
	return e
}

// NewWithFile creates a machine and loads the ROM image at path into it.
func NewWithFile(path string) (*DMG, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ROM: %w", err)
	}

	cart, err := memory.NewCartridgeWithData(data)
	if err != nil {
		return nil, fmt.Errorf("loading cartridge: %w", err)
	}

	slog.Debug("Loaded ROM", "size", len(data), "title", cart.Title())

	return NewWithCartridge(cart), nil
}

// RunUntilFrame drives the machine for one frame's worth of cycles. Each
// CPU step feeds its cycle count to the timer and PPU before the interrupt
// check for that instruction, so an overflow caused by instruction N is
// serviceable at the end of N.
func (e *DMG) RunUntilFrame() {
	total := 0
	for total < timing.CyclesPerFrame {
		cycles := e.cpu.Tick()
		e.mem.Tick(cycles)
		e.gpu.Tick(cycles)
		e.instructionCount++
		total += cycles + e.cpu.ServiceInterrupts()
	}

	e.frameCount++
	if e.frameCount%600 == 0 {
		slog.Debug("Frame completed", "frame", e.frameCount, "pc", fmt.Sprintf("0x%04X", e.cpu.GetPC()))
	}
}

// GetCurrentFrame returns the most recently rendered framebuffer.
func (e *DMG) GetCurrentFrame() *video.FrameBuffer {
	return e.gpu.GetFrameBuffer()
}

// HandleKeyPress presses a joypad key.
func (e *DMG) HandleKeyPress(key memory.JoypadKey) {
	e.mem.HandleKeyPress(key)
}

// HandleKeyRelease releases a joypad key.
func (e *DMG) HandleKeyRelease(key memory.JoypadKey) {
	e.mem.HandleKeyRelease(key)
}

// EnableSerialTrace connects a diagnostic serial sink. Test roms report
// their results over the link port; out may be nil to only log.
func (e *DMG) EnableSerialTrace(out io.Writer) {
	e.mem.SetSerial(serial.NewTrace(func() {
		e.mem.RequestInterrupt(addr.SerialInterrupt)
	}, out))
}

// SaveBatteryRAM writes the external cartridge RAM to path.
func (e *DMG) SaveBatteryRAM(path string) error {
	ram := e.mem.DumpRAM()
	if ram == nil {
		return nil
	}
	return os.WriteFile(path, ram, 0644)
}

// LoadBatteryRAM restores external cartridge RAM from path, if it exists.
func (e *DMG) LoadBatteryRAM(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	e.mem.LoadRAM(data)
	return nil
}

// GetMMU returns the memory unit.
func (e *DMG) GetMMU() *memory.MMU {
	return e.mem
}

// GetCPU returns the CPU.
func (e *DMG) GetCPU() *cpu.CPU {
	return e.cpu
}

// GetFrameCount returns the number of completed frames.
func (e *DMG) GetFrameCount() uint64 {
	return e.frameCount
}

// GetInstructionCount returns the number of executed instructions.
func (e *DMG) GetInstructionCount() uint64 {
	return e.instructionCount
}
