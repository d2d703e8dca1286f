// Package terminal implements a tcell-based frontend that renders the
// frame with half-block characters, two scanlines per terminal row.
package terminal

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/mlauria/dotmatrix/dotmatrix/backend"
	"github.com/mlauria/dotmatrix/dotmatrix/memory"
	"github.com/mlauria/dotmatrix/dotmatrix/video"
)

// keyTimeout releases a key that has not repeated for this long. Terminals
// only deliver key-down events, so releases have to be synthesized.
const keyTimeout = 100 * time.Millisecond

// Backend renders to the terminal through tcell.
type Backend struct {
	screen tcell.Screen
	config backend.Config
	events chan tcell.Event

	// last press time per key, for synthesized releases
	keyStates map[memory.JoypadKey]time.Time
	pressed   map[memory.JoypadKey]bool
}

// New creates a terminal backend.
func New() *Backend {
	return &Backend{
		keyStates: make(map[memory.JoypadKey]time.Time),
		pressed:   make(map[memory.JoypadKey]bool),
	}
}

func (t *Backend) Init(config backend.Config) error {
	t.config = config

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}

	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	t.screen = screen
	t.events = make(chan tcell.Event, 64)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			t.events <- ev
		}
	}()

	return nil
}

func (t *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	events := t.collectEvents()
	t.drawFrame(frame)
	t.screen.Show()
	return events, nil
}

func (t *Backend) Cleanup() error {
	if t.screen != nil {
		t.screen.Fini()
	}
	return nil
}

func (t *Backend) collectEvents() []backend.InputEvent {
	var out []backend.InputEvent
	now := time.Now()

	for {
		select {
		case ev := <-t.events:
			switch tev := ev.(type) {
			case *tcell.EventKey:
				if tev.Key() == tcell.KeyEscape || tev.Key() == tcell.KeyCtrlC {
					out = append(out, backend.InputEvent{Quit: true})
					continue
				}
				if key, ok := translateKey(tev); ok {
					t.keyStates[key] = now
					if !t.pressed[key] {
						t.pressed[key] = true
						out = append(out, backend.InputEvent{Key: key, Type: backend.Press})
					}
				}
			case *tcell.EventResize:
				t.screen.Sync()
			}
		default:
			// synthesize releases for keys that stopped repeating
			for key, last := range t.keyStates {
				if now.Sub(last) > keyTimeout {
					delete(t.keyStates, key)
					t.pressed[key] = false
					out = append(out, backend.InputEvent{Key: key, Type: backend.Release})
				}
			}
			return out
		}
	}
}

func translateKey(ev *tcell.EventKey) (memory.JoypadKey, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return memory.JoypadUp, true
	case tcell.KeyDown:
		return memory.JoypadDown, true
	case tcell.KeyLeft:
		return memory.JoypadLeft, true
	case tcell.KeyRight:
		return memory.JoypadRight, true
	case tcell.KeyEnter:
		return memory.JoypadStart, true
	case tcell.KeyTab:
		return memory.JoypadSelect, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'z', 'Z':
			return memory.JoypadA, true
		case 'x', 'X':
			return memory.JoypadB, true
		}
	}
	return 0, false
}

// drawFrame packs two scanlines into each terminal row using the upper
// half block, with the foreground carrying the top pixel.
func (t *Backend) drawFrame(frame *video.FrameBuffer) {
	for y := 0; y < video.FramebufferHeight; y += 2 {
		for x := 0; x < video.FramebufferWidth; x++ {
			top := shadeColor(frame.GetPixel(x, y))
			bottom := shadeColor(frame.GetPixel(x, y+1))

			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			t.screen.SetContent(x, y/2, '▀', nil, style)
		}
	}
}

func shadeColor(s video.Shade) tcell.Color {
	r, g, b := s.RGB()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
