package segment_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"tinygo.org/x/arucolite/internal/arena"
	"tinygo.org/x/arucolite/internal/contrast"
	"tinygo.org/x/arucolite/internal/segment"
)

// drawBlackSquare paints a dark square of the given side into an
// otherwise uniformly light frame, so the segmenter has exactly one
// blob to find.
func drawBlackSquare(w, h, x0, y0, side int, light, dark byte) []byte {
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

func runSegmenter(t *testing.T, w, h int, frame []byte) *segment.Segmenter {
	t.Helper()
	usableW := w &^ 7
	usableH := h &^ 7
	marginX := (w - usableW) / 2
	marginY := (h - usableH) / 2

	grid := contrast.New(usableW/contrast.Cell, usableH/contrast.Cell)
	sumRegion := arena.NewRegion(grid.SumBytes())
	grid.Compute(frame, w, marginX, marginY, sumRegion)

	sizes := segment.DefaultSizes(usableW, usableH)
	segRegion := arena.NewRegion(sizes.ByteSize())
	segRegion.Enter(arena.PhaseTwo)
	s := segment.New(segRegion, 0, sizes)
	s.Run(frame, w, marginX, marginY, usableW, usableH, grid)
	return s
}

func TestSegmenterFindsOneBlob(t *testing.T) {
	c := qt.New(t)

	const w, h = 160, 160
	frame := drawBlackSquare(w, h, 50, 50, 60, 200, 20)

	s := runSegmenter(t, w, h, frame)

	found := 0
	maxSegs := 0
	for i := 0; i < s.BlobCount(); i++ {
		if !s.BlobAlive(i) {
			continue
		}
		found++
		if n := s.BlobSegmentCount(i); n > maxSegs {
			maxSegs = n
		}
	}
	c.Assert(found >= 1, qt.IsTrue)
	// the square is 60 rows tall, so the surviving blob should have
	// accumulated well more than the 20-segment drop threshold
	c.Assert(maxSegs > 20, qt.IsTrue)
}

func TestSegmenterEmptyFrameFindsNothing(t *testing.T) {
	c := qt.New(t)

	const w, h = 160, 160
	frame := make([]byte, w*h)
	for i := range frame {
		frame[i] = 128
	}

	s := runSegmenter(t, w, h, frame)

	for i := 0; i < s.BlobCount(); i++ {
		c.Assert(s.BlobAlive(i), qt.IsFalse)
	}
}

func TestSegmenterRowExtentsMatchSquare(t *testing.T) {
	c := qt.New(t)

	const w, h = 160, 160
	frame := drawBlackSquare(w, h, 50, 50, 60, 200, 20)

	s := runSegmenter(t, w, h, frame)

	var minX, maxX = w, 0
	var minY, maxY = h, 0
	for i := 0; i < s.BlobCount(); i++ {
		if !s.BlobAlive(i) || s.BlobSegmentCount(i) <= 20 {
			continue
		}
		s.ForEachSegment(i, func(y, start, length int) {
			if start < minX {
				minX = start
			}
			if start+length > maxX {
				maxX = start + length
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		})
	}

	// the segmenter's reported edge columns are offset by the 4-tap
	// smoothing assumption baked into the edge table, so allow a
	// couple of pixels of slack around the true 50..110 square.
	c.Assert(minX >= 45 && minX <= 52, qt.IsTrue)
	c.Assert(maxX >= 108 && maxX <= 115, qt.IsTrue)
	c.Assert(minY >= 48 && minY <= 52, qt.IsTrue)
	c.Assert(maxY >= 108 && maxY <= 112, qt.IsTrue)
}
