package video

import (
	"github.com/mlauria/dotmatrix/dotmatrix/addr"
	"github.com/mlauria/dotmatrix/dotmatrix/bit"
	"github.com/mlauria/dotmatrix/dotmatrix/memory"
)

// GpuMode represents the PPU's current rendering stage.
// These values match the STAT register bits 1-0.
type GpuMode uint8

const (
	// hblankMode (mode 0): horizontal blank, CPU can access VRAM/OAM
	hblankMode GpuMode = 0
	// vblankMode (mode 1): vertical blank, lines 144-153
	vblankMode GpuMode = 1
	// oamReadMode (mode 2): PPU is scanning OAM
	oamReadMode GpuMode = 2
	// vramReadMode (mode 3): PPU is transferring pixels
	vramReadMode GpuMode = 3
)

const (
	// scanlineCycles is the cost of one full scanline.
	scanlineCycles = 456
	// oamBound is the counter position where mode 2 ends (first 80 cycles).
	oamBound = scanlineCycles - 80
	// transferBound is the counter position where mode 3 ends (next 172).
	transferBound = oamBound - 172

	lastScanline = 153
)

// LCD Status register bits.
// Bit 6 - LYC interrupt enable, bit 5/4/3 - mode 2/1/0 interrupt enables,
// bit 2 - coincidence flag, bits 1-0 - current mode.
const (
	statLycIrq       uint8 = 6
	statOamIrq       uint8 = 5
	statVblankIrq    uint8 = 4
	statHblankIrq    uint8 = 3
	statLycCondition uint8 = 2
)

// LCD Control register bits.
// Bit 7 - LCD enable
// Bit 6 - window tile map select (0=9800, 1=9C00)
// Bit 5 - window enable
// Bit 4 - BG/window tile data select (0=8800 signed, 1=8000 unsigned)
// Bit 3 - BG tile map select (0=9800, 1=9C00)
// Bit 2 - sprite size (0=8x8, 1=8x16)
// Bit 1 - sprite enable
// Bit 0 - BG/window enable
const (
	lcdDisplayEnable       uint8 = 7
	windowTileMapSelect    uint8 = 6
	windowDisplayEnable    uint8 = 5
	bgWindowTileDataSelect uint8 = 4
	bgTileMapSelect        uint8 = 3
	spriteSize             uint8 = 2
	spriteDisplayEnable    uint8 = 1
	bgDisplay              uint8 = 0
)

// GPU drives the scanline state machine and renders into the framebuffer.
//
// A down-counter tracks the cycles left in the current scanline: the first
// 80 cycles are OAM scan (mode 2), the next 172 pixel transfer (mode 3), and
// the remainder HBlank (mode 0). Lines 144-153 are VBlank (mode 1). The
// whole line is rendered at once when the counter underflows.
type GPU struct {
	memory      *memory.MMU
	framebuffer *FrameBuffer

	scanlineCounter int

	// background color indices of the current line, for sprite priority
	bgLine [FramebufferWidth]uint8
}

// NewGpu creates a GPU attached to the given memory unit.
func NewGpu(memory *memory.MMU) *GPU {
	return &GPU{
		memory:          memory,
		framebuffer:     NewFrameBuffer(),
		scanlineCounter: scanlineCycles,
	}
}

// GetFrameBuffer returns the frame rendered so far.
func (g *GPU) GetFrameBuffer() *FrameBuffer {
	return g.framebuffer
}

func (g *GPU) lcdEnabled() bool {
	return g.memory.ReadBit(lcdDisplayEnable, addr.LCDC)
}

// Tick advances the PPU by the given number of CPU cycles.
func (g *GPU) Tick(cycles int) {
	g.updateLCDStatus()

	if !g.lcdEnabled() {
		return
	}

	g.scanlineCounter -= cycles
	if g.scanlineCounter > 0 {
		return
	}
	g.scanlineCounter += scanlineCycles

	line := int(g.memory.Read(addr.LY)) + 1

	switch {
	case line == FramebufferHeight:
		g.memory.SetLY(byte(line))
		g.memory.RequestInterrupt(addr.VBlankInterrupt)
	case line > lastScanline:
		g.memory.SetLY(0)
	case line < FramebufferHeight:
		g.memory.SetLY(byte(line))
		g.drawScanline(line)
	default:
		g.memory.SetLY(byte(line))
	}
}

// updateLCDStatus maintains the STAT register: current mode in bits 1-0,
// the LY=LYC coincidence flag, and the mode/coincidence interrupt edges.
func (g *GPU) updateLCDStatus() {
	stat := g.memory.Read(addr.STAT)

	if !g.lcdEnabled() {
		// LCD off: counter reloaded, LY forced to 0, mode bits report VBlank
		g.scanlineCounter = scanlineCycles
		g.memory.SetLY(0)
		stat = stat&0xFC | uint8(vblankMode)
		g.memory.Write(addr.STAT, stat)
		return
	}

	line := g.memory.Read(addr.LY)
	currentMode := GpuMode(stat & 0x03)

	var mode GpuMode
	requestIrq := false

	if line >= FramebufferHeight {
		mode = vblankMode
		requestIrq = bit.IsSet(statVblankIrq, stat)
	} else {
		switch {
		case g.scanlineCounter >= oamBound:
			mode = oamReadMode
			requestIrq = bit.IsSet(statOamIrq, stat)
		case g.scanlineCounter >= transferBound:
			mode = vramReadMode
		default:
			mode = hblankMode
			requestIrq = bit.IsSet(statHblankIrq, stat)
		}
	}

	// mode interrupts fire on entry only
	if requestIrq && mode != currentMode {
		g.memory.RequestInterrupt(addr.LCDSTATInterrupt)
	}
	stat = stat&0xFC | uint8(mode)

	if line == g.memory.Read(addr.LYC) {
		if !bit.IsSet(statLycCondition, stat) {
			stat = bit.Set(statLycCondition, stat)
			if bit.IsSet(statLycIrq, stat) {
				g.memory.RequestInterrupt(addr.LCDSTATInterrupt)
			}
		}
	} else {
		stat = bit.Reset(statLycCondition, stat)
	}

	g.memory.Write(addr.STAT, stat)
}

func (g *GPU) drawScanline(line int) {
	lcdc := g.memory.Read(addr.LCDC)

	if bit.IsSet(bgDisplay, lcdc) {
		g.drawBackground(line)
	} else {
		for x := 0; x < FramebufferWidth; x++ {
			g.bgLine[x] = 0
			g.framebuffer.SetPixel(x, line, White)
		}
	}

	if bit.IsSet(spriteDisplayEnable, lcdc) {
		g.drawSprites(line)
	}
}

// drawBackground renders the background and, where active, the window for
// one scanline.
func (g *GPU) drawBackground(line int) {
	lcdc := g.memory.Read(addr.LCDC)

	scrollY := g.memory.Read(addr.SCY)
	scrollX := g.memory.Read(addr.SCX)
	windowY := int(g.memory.Read(addr.WY))
	windowX := int(g.memory.Read(addr.WX)) - 7

	usingWindow := bit.IsSet(windowDisplayEnable, lcdc) && windowY <= line
	unsignedTiles := bit.IsSet(bgWindowTileDataSelect, lcdc)

	bgMap := addr.TileMap0
	if bit.IsSet(bgTileMapSelect, lcdc) {
		bgMap = addr.TileMap1
	}
	windowMap := addr.TileMap0
	if bit.IsSet(windowTileMapSelect, lcdc) {
		windowMap = addr.TileMap1
	}

	for x := 0; x < FramebufferWidth; x++ {
		inWindow := usingWindow && x >= windowX

		var xPos, yPos uint8
		var mapBase uint16
		if inWindow {
			xPos = uint8(x - windowX)
			yPos = uint8(line - windowY)
			mapBase = windowMap
		} else {
			xPos = uint8(x) + scrollX
			yPos = uint8(line) + scrollY
			mapBase = bgMap
		}

		tileIndexAddr := mapBase + uint16(yPos/8)*32 + uint16(xPos/8)
		tileIndex := g.memory.Read(tileIndexAddr)

		var tileAddr uint16
		if unsignedTiles {
			tileAddr = addr.TileData0 + uint16(tileIndex)*16
		} else {
			tileAddr = uint16(int(addr.TileData2) + int(int8(tileIndex))*16)
		}

		rowAddr := tileAddr + uint16(yPos%8)*2
		low := g.memory.Read(rowAddr)
		high := g.memory.Read(rowAddr + 1)

		// bit 7 of the pair is the leftmost pixel
		bitIndex := 7 - xPos%8
		colorIndex := bit.Value(bitIndex, high)<<1 | bit.Value(bitIndex, low)

		g.bgLine[x] = colorIndex
		g.framebuffer.SetPixel(x, line, g.resolveShade(addr.BGP, colorIndex))
	}
}

// drawSprites renders every OAM entry that overlaps the scanline.
func (g *GPU) drawSprites(line int) {
	lcdc := g.memory.Read(addr.LCDC)

	height := 8
	if bit.IsSet(spriteSize, lcdc) {
		height = 16
	}

	for sprite := 0; sprite < 40; sprite++ {
		oamAddr := addr.OAMStart + uint16(sprite)*4

		// stored positions are offset by +16/+8
		y := int(g.memory.Read(oamAddr)) - 16
		x := int(g.memory.Read(oamAddr+1)) - 8
		tileIndex := g.memory.Read(oamAddr + 2)
		attrs := g.memory.Read(oamAddr + 3)

		if line < y || line >= y+height {
			continue
		}

		paletteAddr := addr.OBP0
		if bit.IsSet(4, attrs) {
			paletteAddr = addr.OBP1
		}
		flipX := bit.IsSet(5, attrs)
		flipY := bit.IsSet(6, attrs)
		behindBG := bit.IsSet(7, attrs)

		row := line - y
		if flipY {
			row = height - 1 - row
		}

		if height == 16 {
			// the top half always uses an even tile index
			tileIndex &= 0xFE
		}

		// sprites always use unsigned addressing from 0x8000
		rowAddr := addr.TileData0 + uint16(tileIndex)*16 + uint16(row)*2
		low := g.memory.Read(rowAddr)
		high := g.memory.Read(rowAddr + 1)

		for px := 0; px < 8; px++ {
			screenX := x + px
			if screenX < 0 || screenX >= FramebufferWidth {
				continue
			}

			bitIndex := uint8(7 - px)
			if flipX {
				bitIndex = uint8(px)
			}

			colorIndex := bit.Value(bitIndex, high)<<1 | bit.Value(bitIndex, low)
			// color 0 is transparent for sprites
			if colorIndex == 0 {
				continue
			}

			if behindBG && g.bgLine[screenX] != 0 {
				continue
			}

			g.framebuffer.SetPixel(screenX, line, g.resolveShade(paletteAddr, colorIndex))
		}
	}
}

// resolveShade maps a 2-bit color index through a palette register.
func (g *GPU) resolveShade(paletteAddr uint16, colorIndex uint8) Shade {
	palette := g.memory.Read(paletteAddr)
	return Shade(palette >> (2 * colorIndex) & 0x03)
}
