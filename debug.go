package arucolite

import (
	"image/color"
	"strconv"

	"tinygo.org/x/tinyfont"

	"tinygo.org/x/arucolite/geom"
)

// Debug palette indices, carried over from the reference
// implementation's ADP_* enum and debug_colors table.
const (
	debugBlack = iota
	debugGreen
	debugRed
	debugBlue
	debugYellow
	debugEdgePointColor
	debugMarkerColor
	debugMagenta
	debugGray
)

// DebugPalette maps each debug.go palette index to its packed 0xRRGGBB
// color, in ADP_* order.
var DebugPalette = [9]uint32{
	debugBlack:          0x000000,
	debugGreen:          0x00ff00,
	debugRed:            0xff0000,
	debugBlue:           0x0000ff,
	debugYellow:         0xffff00,
	debugEdgePointColor: 0x0000ff,
	debugMarkerColor:    0xffffff,
	debugMagenta:        0xff00ff,
	debugGray:           0x808080,
}

// DebugFrame returns the detector's debug buffer from the most recent
// Process call, one palette index per pixel, row-major. It is nil if
// Config.Debug was false at construction.
func (d *Detector) DebugFrame() []byte { return d.debugFrame }

func (d *Detector) clearDebugFrame() {
	for i := range d.debugFrame {
		d.debugFrame[i] = debugGray
	}
}

func (d *Detector) plot(x, y, paletteIdx int) {
	if x < 0 || y < 0 || x >= d.cfg.Width || y >= d.cfg.Height {
		return
	}
	d.debugFrame[y*d.cfg.Width+x] = byte(paletteIdx)
}

// drawQuad outlines a marker's four corners in debugMarkerColor using
// Bresenham's line algorithm, matching the reference implementation's
// debug_draw_marker intent (a visible outline, not a filled polygon).
func (d *Detector) drawQuad(corners [4]geom.Point) {
	for e := 0; e < 4; e++ {
		a, b := corners[e], corners[(e+1)%4]
		d.drawLine(int(a.X), int(a.Y), int(b.X), int(b.Y), debugMarkerColor)
	}
}

func (d *Detector) drawLine(x0, y0, x1, y1, paletteIdx int) {
	dx := iabs(x1 - x0)
	dy := -iabs(y1 - y0)
	sx, sy := 1, 1
	if x0 >= x1 {
		sx = -1
	}
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy
	for {
		d.plot(x0, y0, paletteIdx)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func iabs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// debugDisplay adapts a Detector's indexed debug buffer to
// tinyfont.Displayer (the same SetPixel/Display/Size shape the
// teacher's own display drivers implement), so WriteLine can stamp
// text onto it. Every color tinyfont asks to set is written as
// debugEdgePointColor: the debug buffer holds palette indices, not
// true color, and the annotator only ever writes in one color.
type debugDisplay struct {
	det *Detector
}

func (a debugDisplay) Size() (x, y int16) {
	return int16(a.det.cfg.Width), int16(a.det.cfg.Height)
}

func (a debugDisplay) SetPixel(x, y int16, _ color.RGBA) {
	a.det.plot(int(x), int(y), debugEdgePointColor)
}

func (a debugDisplay) Display() error { return nil }

// annotate stamps a marker's dictionary ID near its top-left corner.
func (d *Detector) annotate(m Marker) {
	x := int16(m.Corners[0].X)
	y := int16(m.Corners[0].Y)
	tinyfont.WriteLine(debugDisplay{d}, &tinyfont.TomThumb, x, y, strconv.Itoa(m.DictionaryID), color.RGBA{})
}
