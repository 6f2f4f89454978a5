package dict_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"tinygo.org/x/arucolite/dict"
	"tinygo.org/x/arucolite/geom"
	"tinygo.org/x/arucolite/internal/arena"
	"tinygo.org/x/arucolite/internal/contrast"
)

// drawUniformMarker paints a solid dark (x0,y0)-(x0+side,y0+side) square
// on an otherwise light frame, so every sampled cell (border and
// interior alike) reads dark.
func drawUniformMarker(w, h, x0, y0, side int, light, dark byte) []byte {
	f := make([]byte, w*h)
	for i := range f {
		f[i] = light
	}
	for y := y0; y < y0+side; y++ {
		for x := x0; x < x0+side; x++ {
			f[y*w+x] = dark
		}
	}
	return f
}

func buildGrid(t *testing.T, w, h int, frame []byte) (*contrast.Estimator, int, int, int, int) {
	t.Helper()
	usableW := w &^ 7
	usableH := h &^ 7
	marginX := (w - usableW) / 2
	marginY := (h - usableH) / 2

	grid := contrast.New(usableW/contrast.Cell, usableH/contrast.Cell)
	region := arena.NewRegion(grid.SumBytes())
	grid.Compute(frame, w, marginX, marginY, region)
	return grid, usableW, usableH, marginX, marginY
}

func TestSamplerPacksAllDarkMarker(t *testing.T) {
	c := qt.New(t)

	const w, h = 160, 160
	frame := drawUniformMarker(w, h, 50, 50, 60, 200, 50)
	grid, usableW, usableH, marginX, marginY := buildGrid(t, w, h, frame)

	s := dict.NewSampler(4, w, h, usableW, usableH, marginX, marginY)
	corners := [4]geom.Point{
		{X: 50, Y: 50}, {X: 110, Y: 50}, {X: 110, Y: 110}, {X: 50, Y: 110},
	}

	bmp, ok := s.Sample(frame, w, grid, corners)
	c.Assert(ok, qt.IsTrue)
	c.Assert(bmp, qt.DeepEquals, []byte{0x00, 0x00})
}

func TestSamplerRejectsLightBorder(t *testing.T) {
	c := qt.New(t)

	const w, h = 160, 160
	frame := drawUniformMarker(w, h, 50, 50, 60, 200, 50)
	// brighten the row the sampler centers its first (border) band on,
	// so the border ring reads light there. With a 60px square split
	// into 6 bands of 10px each, band 0's center row is y=55.
	for x := 50; x < 110; x++ {
		frame[55*w+x] = 200
	}
	grid, usableW, usableH, marginX, marginY := buildGrid(t, w, h, frame)

	s := dict.NewSampler(4, w, h, usableW, usableH, marginX, marginY)
	corners := [4]geom.Point{
		{X: 50, Y: 50}, {X: 110, Y: 50}, {X: 110, Y: 110}, {X: 50, Y: 110},
	}

	_, ok := s.Sample(frame, w, grid, corners)
	c.Assert(ok, qt.IsFalse)
}
