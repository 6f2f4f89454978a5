package contrast_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"tinygo.org/x/arucolite/internal/arena"
	"tinygo.org/x/arucolite/internal/contrast"
)

func uniformFrame(w, h int, value byte) []byte {
	f := make([]byte, w*h)
	for i := range f {
		f[i] = value
	}
	return f
}

func TestUniformFrameYieldsBiasedFlatThreshold(t *testing.T) {
	c := qt.New(t)

	const w, h = 64, 64
	frame := uniformFrame(w, h, 128)

	e := contrast.New(w/contrast.Cell, h/contrast.Cell)
	region := arena.NewRegion(e.SumBytes())
	e.Compute(frame, w, 0, 0, region)

	want := uint8((uint32(128) * 240) / 256)
	for gy := 0; gy < h/contrast.Cell; gy++ {
		for gx := 0; gx < w/contrast.Cell; gx++ {
			c.Assert(e.At(gx, gy), qt.Equals, want)
		}
	}
}

func TestThresholdBiasesBelowMean(t *testing.T) {
	c := qt.New(t)

	const w, h = 64, 64
	frame := uniformFrame(w, h, 200)

	e := contrast.New(w/contrast.Cell, h/contrast.Cell)
	region := arena.NewRegion(e.SumBytes())
	e.Compute(frame, w, 0, 0, region)

	got := e.At(4, 4)
	c.Assert(int(got) < 200, qt.IsTrue)
}
