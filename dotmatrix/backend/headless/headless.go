// Package headless implements a backend with no output at all, for batch
// runs and tests.
package headless

import (
	"log/slog"

	"github.com/mlauria/dotmatrix/dotmatrix/backend"
	"github.com/mlauria/dotmatrix/dotmatrix/video"
)

// Backend counts frames and quits once the requested number has run.
type Backend struct {
	config     backend.Config
	frameCount int
	maxFrames  int
}

// New creates a headless backend that stops after maxFrames.
func New(maxFrames int) *Backend {
	return &Backend{maxFrames: maxFrames}
}

func (h *Backend) Init(config backend.Config) error {
	h.config = config
	slog.Info("Running headless", "frames", h.maxFrames)
	return nil
}

func (h *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	h.frameCount++

	if h.frameCount%60 == 0 {
		slog.Debug("Frame progress", "completed", h.frameCount, "total", h.maxFrames)
	}

	if h.frameCount >= h.maxFrames {
		return []backend.InputEvent{{Quit: true}}, nil
	}
	return nil, nil
}

func (h *Backend) Cleanup() error {
	slog.Info("Headless run completed", "frames", h.frameCount)
	return nil
}
