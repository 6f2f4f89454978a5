// Package quad implements stages 4 and 5 of the pipeline: per-blob
// shape triage, outer-boundary tracing, and quadrilateral fitting by
// angular binning plus linear regression.
package quad

import "tinygo.org/x/arucolite/internal/arena"

// Shape-rejection thresholds, taken directly from the reference
// implementation's process_aruco.
const (
	minVerticalExtent = 15
	maxRowJump        = 50
	jumpMargin        = 5
	minMaxWidth       = 15
)

// Sentinels the reference implementation initializes first[]/last[]
// to before accumulating a blob's row extents: a memset of 0x10 bytes
// (each int16 becomes 0x1010) for "first", so any real column is
// smaller, and a memset of 0xFF bytes (each int16 becomes -1) for
// "last", so any real column is larger.
const (
	firstSentinel int16 = 0x1010
	lastSentinel  int16 = -1
)

// tables holds one blob's per-row (first, last) column extents — a
// view into the detector's shared Region B, valid only while that
// region is in arena.PhaseOne.
type tables struct {
	first, last  []int16
	yStart, yEnd int
	frameHeight  int
}

func (t *tables) reset() {
	for i := range t.first {
		t.first[i] = firstSentinel
	}
	for i := range t.last {
		t.last[i] = lastSentinel
	}
	t.yStart = t.frameHeight
	t.yEnd = -1
}

func (t *tables) addSegment(y, start, length int) {
	first := int16(start)
	last := int16(start + length - 1)
	if y < t.yStart {
		t.yStart = y
	}
	if y > t.yEnd {
		t.yEnd = y
	}
	if first < t.first[y] {
		t.first[y] = first
	}
	if last > t.last[y] {
		t.last[y] = last
	}
}

// accepted runs four cheap shape-rejection heuristics: border touch,
// minimum vertical extent, sudden left/right-edge jumps, and minimum
// width.
func (t *tables) accepted(frameHeight, marginY int) bool {
	if t.yStart <= marginY {
		return false
	}
	if t.yEnd >= frameHeight-marginY-1 {
		return false
	}
	if t.yEnd-t.yStart < minVerticalExtent {
		return false
	}
	for i := t.yStart + jumpMargin; i < t.yEnd-jumpMargin; i++ {
		if abs16(t.first[i]-t.first[i+1]) > maxRowJump {
			return false
		}
		if abs16(t.last[i]-t.last[i+1]) > maxRowJump {
			return false
		}
	}
	maxWidth := 0
	for i := t.yStart; i <= t.yEnd; i++ {
		w := int(t.last[i]) - int(t.first[i])
		if w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth >= minMaxWidth
}

func abs16(v int16) int16 {
	if v < 0 {
		return -v
	}
	return v
}

// enterTables switches region to arena.PhaseOne and returns a tables
// view sized for frameHeight rows, carved out of the region starting
// at byteOffset.
func enterTables(region *arena.Region, byteOffset, frameHeight int) *tables {
	region.Enter(arena.PhaseOne)
	return &tables{
		first:       arena.View[int16](region, arena.PhaseOne, byteOffset, frameHeight),
		last:        arena.View[int16](region, arena.PhaseOne, byteOffset+frameHeight*2, frameHeight),
		frameHeight: frameHeight,
	}
}
