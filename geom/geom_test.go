package geom_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"tinygo.org/x/arucolite/geom"
)

func TestPointArithmetic(t *testing.T) {
	c := qt.New(t)

	a := geom.Point{X: 1, Y: 2}
	b := geom.Point{X: 3, Y: 4}

	c.Assert(a.Add(b), qt.Equals, geom.Point{X: 4, Y: 6})
	c.Assert(a.Sub(b), qt.Equals, geom.Point{X: -2, Y: -2})
	c.Assert(a.Neg(), qt.Equals, geom.Point{X: -1, Y: -2})
	c.Assert(a.Scale(2), qt.Equals, geom.Point{X: 2, Y: 4})
	c.Assert(a.Cross(b), qt.Equals, float32(1*4-2*3))
}

func TestIntersectParallel(t *testing.T) {
	c := qt.New(t)

	a := geom.Line{C: geom.Point{X: 0, Y: 0}, V: geom.Point{X: 1, Y: 0}}
	b := geom.Line{C: geom.Point{X: 0, Y: 1}, V: geom.Point{X: 2, Y: 0}}

	_, ok := geom.Intersect(a, b)
	c.Assert(ok, qt.IsFalse)
}

func TestIntersectCrossing(t *testing.T) {
	c := qt.New(t)

	a := geom.Line{C: geom.Point{X: 0, Y: 0}, V: geom.Point{X: 1, Y: 0}}
	b := geom.Line{C: geom.Point{X: 5, Y: -5}, V: geom.Point{X: 0, Y: 1}}

	p, ok := geom.Intersect(a, b)
	c.Assert(ok, qt.IsTrue)
	c.Assert(p.X, qt.Equals, float32(5))
	c.Assert(p.Y, qt.Equals, float32(0))
}

func TestFitRequiresTwoPoints(t *testing.T) {
	c := qt.New(t)

	var f geom.Fit
	f.Add(1, 1)
	_, ok := f.Compute()
	c.Assert(ok, qt.IsFalse)
}

func TestFitHorizontalLine(t *testing.T) {
	c := qt.New(t)

	var f geom.Fit
	for _, x := range []float32{0, 1, 2, 3, 4} {
		f.Add(x, 10)
	}
	line, ok := f.Compute()
	c.Assert(ok, qt.IsTrue)
	c.Assert(line.C.X, qt.Equals, float32(2))
	c.Assert(line.C.Y, qt.Equals, float32(10))
	// direction should be horizontal, either +X or -X
	c.Assert(abs(line.V.Y) < 1e-5, qt.IsTrue)
}

func TestFitVerticalLine(t *testing.T) {
	c := qt.New(t)

	var f geom.Fit
	for _, y := range []float32{0, 1, 2, 3, 4} {
		f.Add(7, y)
	}
	line, ok := f.Compute()
	c.Assert(ok, qt.IsTrue)
	c.Assert(line.C.X, qt.Equals, float32(7))
	c.Assert(abs(line.V.X) < 1e-5, qt.IsTrue)
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
