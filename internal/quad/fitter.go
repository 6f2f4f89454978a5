package quad

import (
	"tinygo.org/x/arucolite/geom"
	"tinygo.org/x/arucolite/internal/arena"
)

// angleDelta sets both the look-ahead/look-behind span used to estimate
// each edge point's local tangent angle, and (via (2*angleDelta+1)*4)
// how far the total vote of the four histogram peaks may fall short of
// the edge point count for the quad to be accepted.
const angleDelta = 4

const numBuckets = 32

// approxAtan2 is the reference implementation's 8-bit-resolution
// atan2 approximation: it returns a value in [0, 256) proportional to
// the angle of (y, x), accurate to a few degrees, avoiding a floating
// point atan2 call per edge point.
func approxAtan2(y, x int) uint8 {
	if x == 0 && y == 0 {
		return 0
	}
	var t int
	if iabs(y) > iabs(x) {
		t = (-x*32)/y + 64
		if y < 0 {
			t += 128
		}
	} else {
		t = (y * 32) / x
		if x < 0 {
			t += 128
		}
	}
	return uint8(t)
}

func iabs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// histogram is Region B's arena.PhaseTwo view: one angle byte per edge
// point (computed once, reused by both the bucket pass and the per-bin
// refit), and the 32-bucket overlapping angle histogram itself.
type histogram struct {
	edgeAngle  []uint8
	edgeBucket []uint16
}

func enterHistogram(region *arena.Region, byteOffset, maxEdgePoints int) *histogram {
	region.Enter(arena.PhaseTwo)
	return &histogram{
		edgeAngle:  arena.View[uint8](region, arena.PhaseTwo, byteOffset, maxEdgePoints),
		edgeBucket: arena.View[uint16](region, arena.PhaseTwo, byteOffset+maxEdgePoints, numBuckets),
	}
}

// buckets returns the two (possibly equal) overlapping histogram bins
// that an edge angle contributes to: a direct bin and one shifted by
// half a bucket width so a boundary angle is never split between two
// cold bins.
func buckets(angle uint8) (int, int) {
	b0 := (int(angle) / 16) * 2
	b1 := (((int(angle)+8)/16)*2 + 31) & 31
	return b0, b1
}

func wrapIndex(i, n int) int {
	if i < 0 {
		return i + n
	}
	if i >= n {
		return i - n
	}
	return i
}

// Fitter fits a quadrilateral to a blob's traced boundary: it buckets
// each edge point's local tangent angle into a 32-bin histogram, picks
// the four strongest non-adjacent peaks (the quad's four sides), fits
// a total-least-squares line to the points voting for each peak, and
// intersects consecutive sides for the four corners.
type Fitter struct {
	region        *arena.Region
	tablesOffset  int
	histOffset    int
	frameHeight   int
	maxEdgePoints int
	marginY       int

	tracer *tracer
}

// Sizes describes the capacities a Fitter needs from its shared Region
// B, derived from the frame height (for per-row extent tables) and the
// usable height (for the boundary-point buffer, the reference
// implementation's MAX_EDGE_PTS bound — 4 points per row of usable
// height).
type Sizes struct {
	FrameHeight   int
	MaxEdgePoints int
}

// DefaultSizes derives MaxEdgePoints from the usable height the way
// the reference implementation does: four boundary points per row is
// enough headroom for any blob shape that survives triage.
func DefaultSizes(frameHeight, usableH int) Sizes {
	return Sizes{FrameHeight: frameHeight, MaxEdgePoints: usableH * 4}
}

// ByteSize reports the Region B capacity a Fitter needs: the larger of
// its two phases, since they are never live at once.
func (s Sizes) ByteSize() int {
	tablesBytes := s.FrameHeight * 2 * 2
	histBytes := s.MaxEdgePoints + numBuckets*2
	if tablesBytes > histBytes {
		return tablesBytes
	}
	return histBytes
}

// NewFitter builds a Fitter that uses region (Region B) for its
// per-blob scratch, entering arena.PhaseOne for row-extent tables and
// arena.PhaseTwo for the angle histogram as needed. The persistent
// boundary-point buffer is allocated once here, sized by sizes.
func NewFitter(region *arena.Region, sizes Sizes, marginY int) *Fitter {
	return &Fitter{
		region:        region,
		tablesOffset:  0,
		histOffset:    0,
		frameHeight:   sizes.FrameHeight,
		maxEdgePoints: sizes.MaxEdgePoints,
		marginY:       marginY,
		tracer:        newTracer(sizes.MaxEdgePoints),
	}
}

// Quad is a detected quadrilateral's four corners, in CCW winding
// order starting from an arbitrary side.
type Quad struct {
	Corners [4]geom.Point
}

// Fit triages one blob's (y, start, length) segments (via forEachSeg)
// and, if it survives shape rejection and angle-histogram peak
// selection, returns its fitted quadrilateral.
func (f *Fitter) Fit(forEachSeg func(fn func(y, start, length int))) (Quad, bool) {
	tb := enterTables(f.region, f.tablesOffset, f.frameHeight)
	tb.reset()
	forEachSeg(tb.addSegment)

	if !tb.accepted(f.frameHeight, f.marginY) {
		return Quad{}, false
	}

	f.tracer.build(tb)
	if f.tracer.count == 0 {
		return Quad{}, false
	}

	hist := enterHistogram(f.region, f.histOffset, f.maxEdgePoints)
	return f.fitFromEdges(hist)
}

func (f *Fitter) fitFromEdges(hist *histogram) (Quad, bool) {
	n := f.tracer.count
	for i := range hist.edgeBucket {
		hist.edgeBucket[i] = 0
	}

	for i := 0; i < n; i++ {
		i1 := wrapIndex(i-angleDelta, n)
		i2 := wrapIndex(i+angleDelta, n)
		p1 := f.tracer.points[i1]
		p2 := f.tracer.points[i2]
		angle := approxAtan2(int(p2.Y)-int(p1.Y), int(p2.X)-int(p1.X))
		hist.edgeAngle[i] = angle

		b0, b1 := buckets(angle)
		hist.edgeBucket[b0]++
		hist.edgeBucket[b1]++
	}

	var picks [4]int
	var total int
	for k := 0; k < 4; k++ {
		best, bestCount := 0, -1
		for b := 0; b < numBuckets; b++ {
			if int(hist.edgeBucket[b]) > bestCount {
				bestCount = int(hist.edgeBucket[b])
				best = b
			}
		}
		picks[k] = best
		total += bestCount

		hist.edgeBucket[wrapIndex(best-1, numBuckets)] = 0
		hist.edgeBucket[best] = 0
		hist.edgeBucket[wrapIndex(best+1, numBuckets)] = 0
	}

	threshold := n - (2*angleDelta+1)*4
	if total < threshold {
		return Quad{}, false
	}

	sortFour(&picks)

	var fits [4]geom.Fit
	for i := 0; i < n; i++ {
		b0, b1 := buckets(hist.edgeAngle[i])
		p := f.tracer.points[i]
		x, y := float32(p.X)+0.5, float32(p.Y)+0.5
		for s, bucket := range picks {
			if b0 == bucket || b1 == bucket {
				fits[s].Add(x, y)
			}
		}
	}

	var lines [4]geom.Line
	for s := range fits {
		line, ok := fits[s].Compute()
		if !ok {
			return Quad{}, false
		}
		lines[s] = line
	}

	var center geom.Point
	for _, l := range lines {
		center = center.Add(l.C)
	}
	center = center.Scale(0.25)

	for s := range lines {
		if lines[s].V.Cross(lines[s].C.Sub(center)) > 0 {
			lines[s].V = lines[s].V.Neg()
		}
		lines[s].C = lines[s].C.Add(geom.Point{X: lines[s].V.Y, Y: -lines[s].V.X}.Scale(0.5))
	}

	var q Quad
	for s := 0; s < 4; s++ {
		next := (s + 1) % 4
		corner, ok := geom.Intersect(lines[s], lines[next])
		if !ok {
			return Quad{}, false
		}
		q.Corners[s] = corner
	}
	return q, true
}

// sortFour runs the reference implementation's 5-comparator sorting
// network over the four picked bucket indices, producing ascending
// (and so consistently CCW) side order.
func sortFour(v *[4]int) {
	compAndSwap(v, 0, 2)
	compAndSwap(v, 1, 3)
	compAndSwap(v, 0, 1)
	compAndSwap(v, 2, 3)
	compAndSwap(v, 1, 2)
}

func compAndSwap(v *[4]int, a, b int) {
	if v[a] < v[b] {
		return
	}
	v[a], v[b] = v[b], v[a]
}
