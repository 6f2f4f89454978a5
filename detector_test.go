package arucolite_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"tinygo.org/x/arucolite"
	"tinygo.org/x/arucolite/dict"
)

// drawSolidMarker paints a uniformly dark square on an otherwise light
// frame: since every sampled cell (border ring and interior alike)
// reads dark, its packed bitmap is all-zero regardless of exactly
// where the fitted quad's corners land.
func drawSolidMarker(w, h, x0, y0, side int, light, dark byte) []byte {
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

func allZeroDictionary() *dict.Dictionary {
	zero := []byte{0x00, 0x00}
	return dict.New(4, []dict.Entry{{zero, zero, zero, zero}})
}

func TestProcessFindsSolidSquareMarker(t *testing.T) {
	c := qt.New(t)

	const w, h = 160, 160
	frame := drawSolidMarker(w, h, 50, 50, 60, 200, 20)

	det, err := arucolite.New(arucolite.Config{
		Width:      w,
		Height:     h,
		Dictionary: allZeroDictionary(),
	})
	c.Assert(err, qt.IsNil)

	c.Assert(det.Process(frame), qt.IsNil)
	results := det.Results()
	c.Assert(len(results) >= 1, qt.IsTrue)
	c.Assert(results[0].DictionaryID, qt.Equals, 0)
}

func TestProcessEmptyFrameFindsNothing(t *testing.T) {
	c := qt.New(t)

	const w, h = 160, 160
	frame := make([]byte, w*h)
	for i := range frame {
		frame[i] = 128
	}

	det, err := arucolite.New(arucolite.Config{
		Width:      w,
		Height:     h,
		Dictionary: allZeroDictionary(),
	})
	c.Assert(err, qt.IsNil)

	c.Assert(det.Process(frame), qt.IsNil)
	c.Assert(len(det.Results()), qt.Equals, 0)
}

func TestProcessRejectsWrongFrameLength(t *testing.T) {
	c := qt.New(t)

	det, err := arucolite.New(arucolite.Config{
		Width:      160,
		Height:     160,
		Dictionary: allZeroDictionary(),
	})
	c.Assert(err, qt.IsNil)

	err = det.Process(make([]byte, 100))
	c.Assert(err, qt.Equals, arucolite.ErrFrameSize)
}

func TestNewRejectsBadConfig(t *testing.T) {
	c := qt.New(t)

	_, err := arucolite.New(arucolite.Config{Dictionary: allZeroDictionary()})
	c.Assert(err, qt.Equals, arucolite.ErrBadConfig)

	_, err = arucolite.New(arucolite.Config{Width: 160, Height: 160})
	c.Assert(err, qt.Equals, arucolite.ErrBadConfig)
}

func TestDebugFrameNilWithoutDebugConfig(t *testing.T) {
	c := qt.New(t)

	det, err := arucolite.New(arucolite.Config{
		Width:      160,
		Height:     160,
		Dictionary: allZeroDictionary(),
	})
	c.Assert(err, qt.IsNil)
	c.Assert(det.DebugFrame(), qt.IsNil)
}

func TestDebugFrameAllocatedWithDebugConfig(t *testing.T) {
	c := qt.New(t)

	det, err := arucolite.New(arucolite.Config{
		Width:      160,
		Height:     160,
		Dictionary: allZeroDictionary(),
		Debug:      true,
	})
	c.Assert(err, qt.IsNil)

	frame := drawSolidMarker(160, 160, 50, 50, 60, 200, 20)
	c.Assert(det.Process(frame), qt.IsNil)
	c.Assert(len(det.DebugFrame()), qt.Equals, 160*160)
}
