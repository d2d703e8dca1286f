package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameBuffer_pixels(t *testing.T) {
	fb := NewFrameBuffer()

	assert.Equal(t, White, fb.GetPixel(0, 0))

	fb.SetPixel(159, 143, Black)
	assert.Equal(t, Black, fb.GetPixel(159, 143))

	fb.Clear()
	assert.Equal(t, White, fb.GetPixel(159, 143))
}

func TestShade_colors(t *testing.T) {
	assert.Equal(t, WhiteColor, White.Color())
	assert.Equal(t, LightGrayColor, LightGray.Color())
	assert.Equal(t, DarkGrayColor, DarkGray.Color())
	assert.Equal(t, BlackColor, Black.Color())
}

func TestShade_rgb(t *testing.T) {
	r, g, b := LightGray.RGB()
	assert.Equal(t, uint8(0xCC), r)
	assert.Equal(t, uint8(0xCC), g)
	assert.Equal(t, uint8(0xCC), b)
}

func TestFrameBuffer_toRGBA(t *testing.T) {
	fb := NewFrameBuffer()
	fb.SetPixel(0, 0, Black)
	fb.SetPixel(1, 0, DarkGray)

	data := fb.ToRGBA()

	assert.Equal(t, FramebufferSize*4, len(data))
	assert.Equal(t, uint8(0x00), data[0])
	assert.Equal(t, uint8(0xFF), data[3]) // alpha
	assert.Equal(t, uint8(0x77), data[4])
}
