//go:build !sdl2

package sdl2

import (
	"fmt"

	"github.com/mlauria/dotmatrix/dotmatrix/backend"
	"github.com/mlauria/dotmatrix/dotmatrix/video"
)

// Backend stub for builds without SDL2 support.
type Backend struct{}

// New creates a stub SDL2 backend that fails on Init.
func New() *Backend {
	return &Backend{}
}

func (s *Backend) Init(config backend.Config) error {
	return fmt.Errorf("SDL2 backend not available, build with -tags sdl2 to enable")
}

func (s *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	return nil, fmt.Errorf("SDL2 backend not available")
}

func (s *Backend) Cleanup() error {
	return nil
}
