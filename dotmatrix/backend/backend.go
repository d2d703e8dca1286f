// Package backend defines the pluggable frontends: rendering a frame to
// some output and translating platform input into joypad events.
package backend

import (
	"github.com/mlauria/dotmatrix/dotmatrix/memory"
	"github.com/mlauria/dotmatrix/dotmatrix/timing"
	"github.com/mlauria/dotmatrix/dotmatrix/video"
)

// EventType says whether a key went down or up.
type EventType int

const (
	Press EventType = iota
	Release
)

// InputEvent is a translated platform input. Quit events ask the run loop
// to stop; all others carry a joypad key.
type InputEvent struct {
	Key  memory.JoypadKey
	Type EventType
	Quit bool
}

// Config holds settings shared by all backends.
type Config struct {
	Title string
	Scale int
}

// Backend is a complete frontend: it renders frames to its output and
// reports the input events collected since the previous update.
type Backend interface {
	// Init prepares the backend. Required before the first Update.
	Init(config Config) error

	// Update renders the frame and returns the pending input events.
	Update(frame *video.FrameBuffer) ([]InputEvent, error)

	// Cleanup releases backend resources.
	Cleanup() error
}

// Emulator is the slice of the machine the run loop needs.
type Emulator interface {
	RunUntilFrame()
	GetCurrentFrame() *video.FrameBuffer
	HandleKeyPress(key memory.JoypadKey)
	HandleKeyRelease(key memory.JoypadKey)
}

// Run drives the emulator against a backend until it reports a quit event.
// Input events are applied between frames, never inside one.
func Run(emu Emulator, b Backend, limiter timing.Limiter) error {
	for {
		emu.RunUntilFrame()

		events, err := b.Update(emu.GetCurrentFrame())
		if err != nil {
			return err
		}

		for _, ev := range events {
			if ev.Quit {
				return nil
			}
			switch ev.Type {
			case Press:
				emu.HandleKeyPress(ev.Key)
			case Release:
				emu.HandleKeyRelease(ev.Key)
			}
		}

		limiter.WaitForNextFrame()
	}
}
