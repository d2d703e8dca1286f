//go:build sdl2

// Package sdl2 implements an SDL2 frontend. Building it requires the SDL2
// development libraries; default builds get the stub instead (build tag
// sdl2 enables this file).
package sdl2

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/mlauria/dotmatrix/dotmatrix/backend"
	"github.com/mlauria/dotmatrix/dotmatrix/memory"
	"github.com/mlauria/dotmatrix/dotmatrix/video"
)

// Backend renders into an SDL2 window through a streaming texture.
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	config   backend.Config
}

// New creates an SDL2 backend.
func New() *Backend {
	return &Backend{}
}

func (s *Backend) Init(config backend.Config) error {
	s.config = config

	scale := config.Scale
	if scale <= 0 {
		scale = 3
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("initializing SDL2: %w", err)
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(video.FramebufferWidth*scale),
		int32(video.FramebufferHeight*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("creating window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("creating renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.FramebufferWidth,
		video.FramebufferHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("creating texture: %w", err)
	}
	s.texture = texture

	return nil
}

func (s *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	events := s.pollEvents()

	pixels := frame.ToRGBA()
	if err := s.texture.Update(nil, pixels, video.FramebufferWidth*4); err != nil {
		return events, err
	}

	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()

	return events, nil
}

func (s *Backend) Cleanup() error {
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
	return nil
}

func (s *Backend) pollEvents() []backend.InputEvent {
	var out []backend.InputEvent

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch ev := event.(type) {
		case *sdl.QuitEvent:
			out = append(out, backend.InputEvent{Quit: true})
		case *sdl.KeyboardEvent:
			if ev.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
				if ev.Type == sdl.KEYDOWN {
					out = append(out, backend.InputEvent{Quit: true})
				}
				continue
			}

			key, ok := translateScancode(ev.Keysym.Scancode)
			if !ok || ev.Repeat != 0 {
				continue
			}

			eventType := backend.Press
			if ev.Type == sdl.KEYUP {
				eventType = backend.Release
			}
			out = append(out, backend.InputEvent{Key: key, Type: eventType})
		}
	}

	return out
}

func translateScancode(code sdl.Scancode) (memory.JoypadKey, bool) {
	switch code {
	case sdl.SCANCODE_UP:
		return memory.JoypadUp, true
	case sdl.SCANCODE_DOWN:
		return memory.JoypadDown, true
	case sdl.SCANCODE_LEFT:
		return memory.JoypadLeft, true
	case sdl.SCANCODE_RIGHT:
		return memory.JoypadRight, true
	case sdl.SCANCODE_Z:
		return memory.JoypadA, true
	case sdl.SCANCODE_X:
		return memory.JoypadB, true
	case sdl.SCANCODE_RETURN:
		return memory.JoypadStart, true
	case sdl.SCANCODE_RSHIFT:
		return memory.JoypadSelect, true
	}
	return 0, false
}
