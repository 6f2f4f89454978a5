package quad_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"tinygo.org/x/arucolite/internal/arena"
	"tinygo.org/x/arucolite/internal/quad"
)

// squareSegments yields the (y, start, length) segments of a solid
// axis-aligned square, as the segmenter would have produced them.
func squareSegments(x0, y0, side int, fn func(y, start, length int)) {
	for y := y0; y < y0+side; y++ {
		fn(y, x0, side)
	}
}

func newFitter(frameHeight, usableH, marginY int) *quad.Fitter {
	sizes := quad.DefaultSizes(frameHeight, usableH)
	region := arena.NewRegion(sizes.ByteSize())
	return quad.NewFitter(region, sizes, marginY)
}

func TestFitAcceptsSolidSquare(t *testing.T) {
	c := qt.New(t)

	const frameH, usableH, marginY = 160, 152, 4
	f := newFitter(frameH, usableH, marginY)

	quadResult, ok := f.Fit(func(fn func(y, start, length int)) {
		squareSegments(50, 50, 60, fn)
	})

	c.Assert(ok, qt.IsTrue)
	// the four fitted corners should roughly bound the 50..110 square;
	// loosely check they are not all coincident and stay near the
	// drawn extent, since the exact sub-pixel position depends on the
	// boundary-walk/outward-shift details.
	var minX, maxX, minY, maxY float32 = 1e9, -1e9, 1e9, -1e9
	for _, p := range quadResult.Corners {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	c.Assert(maxX-minX > 40, qt.IsTrue)
	c.Assert(maxY-minY > 40, qt.IsTrue)
}

func TestFitRejectsBorderTouchingBlob(t *testing.T) {
	c := qt.New(t)

	const frameH, usableH, marginY = 160, 152, 4
	f := newFitter(frameH, usableH, marginY)

	_, ok := f.Fit(func(fn func(y, start, length int)) {
		squareSegments(10, 0, 60, fn)
	})
	c.Assert(ok, qt.IsFalse)
}

func TestFitRejectsShortBlob(t *testing.T) {
	c := qt.New(t)

	const frameH, usableH, marginY = 160, 152, 4
	f := newFitter(frameH, usableH, marginY)

	_, ok := f.Fit(func(fn func(y, start, length int)) {
		squareSegments(50, 50, 5, fn)
	})
	c.Assert(ok, qt.IsFalse)
}

func TestFitRejectsThinBlob(t *testing.T) {
	c := qt.New(t)

	const frameH, usableH, marginY = 160, 152, 4
	f := newFitter(frameH, usableH, marginY)

	_, ok := f.Fit(func(fn func(y, start, length int)) {
		for y := 40; y < 100; y++ {
			fn(y, 50, 1)
		}
	})
	c.Assert(ok, qt.IsFalse)
}
