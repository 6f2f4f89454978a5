// Package contrast implements the detector's local-contrast estimator:
// a two-pass summed-area table over 8x8 pixel cells, reduced to a
// per-cell threshold biased slightly below the local mean.
package contrast

import "tinygo.org/x/arucolite/internal/arena"

// Cell is the pixel side of one local-contrast cell.
const Cell = 8

// delta is the half-width, in cells, of the averaging window used to
// turn the integral-sum grid into a threshold grid.
const delta = 5

// thresholdNumerator/thresholdDenominator bias the windowed mean
// slightly downward (240/256) so a perfectly uniform surface reads as
// "light" rather than borderline noise.
const thresholdNumerator = 240
const thresholdDenominator = 256

// Estimator computes and holds the per-cell threshold grid for one
// frame. Its output grid is allocated once, at construction, and is
// independent of the segmenter/fitter scratch (it must stay valid
// throughout segmentation, decoding, everything) — only the
// intermediate integral-sum table is transient, and that one lives in
// the caller-supplied arena region so its bytes can be reused once the
// threshold grid has been produced.
type Estimator struct {
	gridW, gridH int
	grid         []uint8 // gridH*gridW, row-major, persists for the whole frame
}

// New allocates an Estimator for a grid of gridW x gridH cells.
func New(gridW, gridH int) *Estimator {
	return &Estimator{
		gridW: gridW,
		gridH: gridH,
		grid:  make([]uint8, gridW*gridH),
	}
}

// SumBytes reports how many bytes of arena.Region storage Compute
// needs for the transient integral-sum table.
func (e *Estimator) SumBytes() int {
	return e.gridW * e.gridH * 4 // uint32 per cell
}

// At returns the threshold for cell (gx, gy).
func (e *Estimator) At(gx, gy int) uint8 {
	return e.grid[gy*e.gridW+gx]
}

// Grid returns the full threshold grid, row-major, gridH rows of
// gridW cells each.
func (e *Estimator) Grid() []uint8 {
	return e.grid
}

// Compute derives the threshold grid from frame, whose usable area
// starts at (marginX, marginY) and is stride bytes per row. region
// must have at least SumBytes() of capacity; Compute enters and
// leaves it in arena.PhaseOne, writing the integral-sum table there as
// scratch — those bytes are invalid once Compute returns, since the
// segmenter is about to reuse the same region for PhaseTwo.
func (e *Estimator) Compute(frame []byte, stride, marginX, marginY int, region *arena.Region) {
	region.Enter(arena.PhaseOne)
	sums := arena.View[uint32](region, arena.PhaseOne, 0, e.gridW*e.gridH)

	e.computeSums(frame, stride, marginX, marginY, sums)
	e.computeThresholds(sums)
}

func (e *Estimator) sumAt(sums []uint32, gy, gx int) uint32 {
	if gy < 0 || gx < 0 {
		return 0
	}
	return sums[gy*e.gridW+gx]
}

func (e *Estimator) computeSums(frame []byte, stride, marginX, marginY int, sums []uint32) {
	for gy := 0; gy < e.gridH; gy++ {
		y := gy*Cell + marginY
		for gx := 0; gx < e.gridW; gx++ {
			x := gx*Cell + marginX

			var total uint32
			for iy := 0; iy < Cell; iy++ {
				row := frame[(y+iy)*stride+x : (y+iy)*stride+x+Cell]
				for _, p := range row {
					total += uint32(p)
				}
			}

			if gy != 0 {
				total += e.sumAt(sums, gy-1, gx)
			}
			if gx != 0 {
				total += e.sumAt(sums, gy, gx-1)
			}
			if gx != 0 && gy != 0 {
				total -= e.sumAt(sums, gy-1, gx-1)
			}

			sums[gy*e.gridW+gx] = total
		}
	}
}

func (e *Estimator) computeThresholds(sums []uint32) {
	windowCells := delta*2 + 1
	windowArea := uint32(windowCells * windowCells * Cell * Cell)

	clamp := func(v, lo, hi int) int {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}

	for y := 0; y < e.gridH; y++ {
		gy := clamp(y, delta, e.gridH-delta-1)
		for x := 0; x < e.gridW; x++ {
			gx := clamp(x, delta, e.gridW-delta-1)

			sum := e.sumAt(sums, gy-delta, gx-delta) +
				e.sumAt(sums, gy+delta, gx+delta) -
				e.sumAt(sums, gy-delta, gx+delta) -
				e.sumAt(sums, gy+delta, gx-delta)

			avg := sum / windowArea
			avg = (avg * thresholdNumerator) / thresholdDenominator

			e.grid[y*e.gridW+x] = uint8(avg)
		}
	}
}
