// Package ui implements a windowed frontend on ebiten. Unlike the other
// backends ebiten owns the main loop, so this package exposes Run instead
// of the Backend interface.
package ui

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/mlauria/dotmatrix/dotmatrix/backend"
	"github.com/mlauria/dotmatrix/dotmatrix/memory"
	"github.com/mlauria/dotmatrix/dotmatrix/video"
)

var keyBindings = map[ebiten.Key]memory.JoypadKey{
	ebiten.KeyArrowUp:    memory.JoypadUp,
	ebiten.KeyArrowDown:  memory.JoypadDown,
	ebiten.KeyArrowLeft:  memory.JoypadLeft,
	ebiten.KeyArrowRight: memory.JoypadRight,
	ebiten.KeyZ:          memory.JoypadA,
	ebiten.KeyX:          memory.JoypadB,
	ebiten.KeyEnter:      memory.JoypadStart,
	ebiten.KeyShiftRight: memory.JoypadSelect,
}

type game struct {
	emu backend.Emulator
	tex *ebiten.Image
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	for key, joypadKey := range keyBindings {
		if inpututil.IsKeyJustPressed(key) {
			g.emu.HandleKeyPress(joypadKey)
		}
		if inpututil.IsKeyJustReleased(key) {
			g.emu.HandleKeyRelease(joypadKey)
		}
	}

	// ebiten calls Update at 60Hz, close enough to the hardware rate
	// that no extra pacing is needed
	g.emu.RunUntilFrame()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.tex.WritePixels(g.emu.GetCurrentFrame().ToRGBA())
	screen.DrawImage(g.tex, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return video.FramebufferWidth, video.FramebufferHeight
}

// Run opens a window and drives the emulator until the window closes.
func Run(emu backend.Emulator, config backend.Config) error {
	scale := config.Scale
	if scale <= 0 {
		scale = 3
	}

	ebiten.SetWindowTitle(config.Title)
	ebiten.SetWindowSize(video.FramebufferWidth*scale, video.FramebufferHeight*scale)

	g := &game{
		emu: emu,
		tex: ebiten.NewImage(video.FramebufferWidth, video.FramebufferHeight),
	}

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
