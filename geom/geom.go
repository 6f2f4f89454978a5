// Package geom provides the small float32 2D primitives the fitter and
// decoder build on: points, lines, an incremental total-least-squares
// line fit, and line-line intersection.
//
// Values are float32 throughout, matching the original fixed-point-free
// C++ reference, so that results stay reproducible across platforms.
// Callers that need determinism across compilers should build with
// contraction (fused multiply-add) disabled for this package, since an
// FMA-contracted accumulation here can shift the regression and
// intersection results by an ULP or two.
package geom

import "math"

// Point is a 2D point or vector in frame coordinates (Y-down).
type Point struct {
	X, Y float32
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Neg returns -p.
func (p Point) Neg() Point { return Point{-p.X, -p.Y} }

// Scale returns p*s.
func (p Point) Scale(s float32) Point { return Point{p.X * s, p.Y * s} }

// Cross returns the 2D cross product p x q (a scalar).
func (p Point) Cross(q Point) float32 { return p.X*q.Y - p.Y*q.X }

// Norm returns the Euclidean length of p.
func (p Point) Norm() float32 { return float32(math.Sqrt(float64(p.X*p.X + p.Y*p.Y))) }

// Line is a line represented by a center point and a direction vector,
// the same representation the original reference uses so that the
// fitter and intersection code translate directly.
type Line struct {
	C Point // a point on the line
	V Point // direction (not necessarily unit length)
}

// minIntersectDet is the minimum determinant magnitude accepted as a
// valid (non-parallel) intersection; below this the lines are treated
// as parallel and the candidate is rejected.
const minIntersectDet = 1e-3

// Intersect computes the intersection of two lines given in
// center+direction form. It reports false if the lines are parallel
// (determinant below minIntersectDet), in which case result is
// unspecified.
func Intersect(a, b Line) (Point, bool) {
	x1, y1 := a.C.X, a.C.Y
	x2, y2 := a.C.X+a.V.X, a.C.Y+a.V.Y
	x3, y3 := b.C.X, b.C.Y
	x4, y4 := b.C.X+b.V.X, b.C.Y+b.V.Y

	divider := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if abs32(divider) < minIntersectDet {
		return Point{}, false
	}

	t := ((x1-x3)*(y3-y4) - (y1-y3)*(x3-x4)) / divider
	return Point{
		X: x1 + t*(x2-x1),
		Y: y1 + t*(y2-y1),
	}, true
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// Fit accumulates points for an incremental total-least-squares
// (principal axis) line fit. The zero value is ready to use.
type Fit struct {
	sumX, sumY, sumXX, sumXY, sumYY float32
	n                               int
}

// Reset clears the accumulator so it can be reused for a new line.
func (f *Fit) Reset() {
	*f = Fit{}
}

// Add accumulates one sample point.
func (f *Fit) Add(x, y float32) {
	f.sumX += x
	f.sumY += y
	f.sumXX += x * x
	f.sumXY += x * y
	f.sumYY += y * y
	f.n++
}

// N reports how many points have been accumulated.
func (f *Fit) N() int { return f.n }

// Compute performs the total-least-squares fit over the accumulated
// points, reporting false if fewer than two points were added (a line
// is not defined).
//
// The fitted direction is the principal axis of the point scatter:
// theta = 0.5*atan2(2*(Sxy - Sx*Sy/n), (Sxx - Sx*meanX) - (Syy - Sy*meanY))
func (f *Fit) Compute() (Line, bool) {
	if f.n < 2 {
		return Line{}, false
	}

	n := float32(f.n)
	meanX := f.sumX / n
	meanY := f.sumY / n

	x0 := f.sumXX - f.sumX*meanX
	x1 := f.sumYY - f.sumY*meanY

	tx := x0 - x1
	ty := 2 * (f.sumXY - f.sumX*f.sumY/n)

	theta := 0.5 * math.Atan2(float64(ty), float64(tx))

	return Line{
		C: Point{X: meanX, Y: meanY},
		V: Point{X: float32(math.Cos(theta)), Y: float32(math.Sin(theta))},
	}, true
}
