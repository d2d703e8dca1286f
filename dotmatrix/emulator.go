package dotmatrix

import (
	"github.com/mlauria/dotmatrix/dotmatrix/memory"
	"github.com/mlauria/dotmatrix/dotmatrix/video"
)

// Emulator is the interface backends drive: run a frame, read it, feed keys.
type Emulator interface {
	RunUntilFrame()
	GetCurrentFrame() *video.FrameBuffer
	HandleKeyPress(key memory.JoypadKey)
	HandleKeyRelease(key memory.JoypadKey)
}

var _ Emulator = (*DMG)(nil)
