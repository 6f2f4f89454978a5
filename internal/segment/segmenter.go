// Package segment implements stage 3 of the pipeline: row-wise
// thresholding into horizontal dark runs, and an eager-merge
// union-find that joins runs across rows into candidate-marker blobs.
package segment

import (
	"unsafe"

	"tinygo.org/x/arucolite/internal/arena"
	"tinygo.org/x/arucolite/internal/contrast"
)

// minKeptSegments is the total segment count a blob must exceed to
// survive end-of-row housekeeping; blobs at or below this are
// transient noise.
const minKeptSegments = 20

// maxRunLength is the longest dark run accepted; longer ones are
// dropped outright.
const maxRunLength = 255

// Sizes describes the capacities the segmenter needs from its shared
// scratch region, all derived from the usable frame area.
type Sizes struct {
	MaxSegments    int
	MaxBlobs       int
	MaxSegsPerLine int
}

// DefaultSizes derives the reference implementation's capacity
// formulas from the usable area usableW*usableH.
func DefaultSizes(usableW, usableH int) Sizes {
	area := usableW * usableH
	maxSegments := area / 50
	if maxSegments > 65535 {
		maxSegments = 65535
	}
	return Sizes{
		MaxSegments:    maxSegments,
		MaxBlobs:       area / 850,
		MaxSegsPerLine: usableW / 6,
	}
}

// ByteSize reports how many bytes of arena.Region storage a segmenter
// of these sizes needs for arena.PhaseTwo.
func (s Sizes) ByteSize() int {
	var seg Segment
	segBytes := s.MaxSegments * int(unsafe.Sizeof(seg))
	blobBytes := s.MaxBlobs * 2 * 2 // head + segCount, int16 each
	lineBytes := s.MaxSegsPerLine * 2 * 2
	return segBytes + blobBytes + lineBytes
}

// Segmenter scans one frame's usable area and produces a set of blobs,
// each a connected run of dark horizontal segments. Its scratch lives
// entirely in the caller-supplied arena.Region, entered in
// arena.PhaseTwo; the region must not be read under any other phase
// until the segmenter's caller is done with this frame's blobs.
type Segmenter struct {
	sizes Sizes

	segs  *segmentArena
	blobs *blobArena

	prevLine      []uint16
	prevLineCount int
	curLine       []uint16
	curLineCount  int
}

// New builds a Segmenter sized for sizes, carving its storage out of
// region starting at byteOffset. region must already have at least
// byteOffset+sizes.ByteSize() bytes of capacity.
func New(region *arena.Region, byteOffset int, sizes Sizes) *Segmenter {
	var seg Segment
	segBytes := sizes.MaxSegments * int(unsafe.Sizeof(seg))

	segs := newSegmentArena(region, arena.PhaseTwo, byteOffset, sizes.MaxSegments)

	blobOffset := byteOffset + segBytes
	blobs, lineOffset := newBlobArena(region, arena.PhaseTwo, blobOffset, sizes.MaxBlobs)

	prevLine := arena.View[uint16](region, arena.PhaseTwo, lineOffset, sizes.MaxSegsPerLine)
	curLine := arena.View[uint16](region, arena.PhaseTwo, lineOffset+sizes.MaxSegsPerLine*2, sizes.MaxSegsPerLine)

	return &Segmenter{
		sizes:    sizes,
		segs:     segs,
		blobs:    blobs,
		prevLine: prevLine,
		curLine:  curLine,
	}
}

// BlobCount reports how many blob slots have ever been allocated this
// frame (including ones since dropped — callers must check
// BlobAlive).
func (s *Segmenter) BlobCount() int { return s.blobs.count }

// BlobAlive reports whether blob i is still live.
func (s *Segmenter) BlobAlive(i int) bool { return s.blobs.segCount[i] != -1 }

// BlobSegmentCount reports how many segments blob i has accumulated.
func (s *Segmenter) BlobSegmentCount(i int) int { return int(s.blobs.segCount[i]) }

// ForEachSegment calls fn(y, start, length) for every segment of blob
// i, in the blob's intrusive list order (most-recently-added first).
func (s *Segmenter) ForEachSegment(i int, fn func(y, start, length int)) {
	segIdx := s.blobs.head[i]
	for segIdx != noIndex {
		seg := s.segs.get(segIdx)
		fn(int(seg.Y), int(seg.Start), int(seg.Length))
		segIdx = seg.Next
	}
}

// Run scans the frame's usable area, which starts at
// (marginX, marginY), is usableW x usableH, stride bytes per row, and
// is thresholded against grid (whose cells are contrast.Cell pixels
// wide/tall). It resets all segmenter state first, so a single
// Segmenter can be reused across frames.
func (s *Segmenter) Run(frame []byte, stride, marginX, marginY, usableW, usableH int, grid *contrast.Estimator) {
	s.segs.reset()
	s.blobs.reset()
	s.prevLineCount = 0
	s.curLineCount = 0

	for y := 0; y < usableH; y++ {
		py := y + marginY
		gy := y / contrast.Cell
		s.scanRow(frame, stride, marginX, py, gy, usableW, grid)
		s.advanceRow()
	}
	// extra housekeeping pass: closes blobs that touch the bottom row
	s.advanceRow()
}

func (s *Segmenter) scanRow(frame []byte, stride, marginX, py, gy, usableW int, grid *contrast.Estimator) {
	gridW := usableW / contrast.Cell

	segmentStart := -1
	shift := uint8(0xAA)
	px := marginX

	for gx := 0; gx < gridW; gx++ {
		avg := grid.At(gx, gy)
		base := py*stride + marginX + gx*contrast.Cell
		row := frame[base : base+contrast.Cell]

		var cellShift uint8
		for k := 0; k < contrast.Cell; k++ {
			if row[k] > avg {
				cellShift |= 1 << uint(k)
			}
		}

		if (cellShift == 0 || cellShift == 0xFF) && (cellShift&0x0F) == (shift&0x0F) {
			px += contrast.Cell
			continue
		}

		for ix := 0; ix < contrast.Cell; ix++ {
			shift = (shift << 1) | (cellShift & 1)
			cellShift >>= 1

			switch edgeTable[shift] {
			case 1:
				segmentStart = px - 3
			case 2:
				if segmentStart != -1 {
					s.processSegment(py, segmentStart, px-3)
					segmentStart = -1
				}
			}
			px++
		}
	}
}

func (s *Segmenter) intersects(prevIdx, newIdx int16) bool {
	prev := s.segs.get(prevIdx)
	cur := s.segs.get(newIdx)
	if int(prev.Start) >= int(cur.Start)+int(cur.Length) {
		return false
	}
	if int(cur.Start) >= int(prev.Start)+int(prev.Length) {
		return false
	}
	return true
}

func (s *Segmenter) processSegment(y, x1, x2 int) {
	if x2-x1 > maxRunLength {
		return
	}

	segIdx := s.segs.alloc()
	if segIdx == noIndex {
		return
	}

	seg := s.segs.get(segIdx)
	seg.Y = uint16(y)
	seg.Start = uint16(x1)
	seg.Length = uint8(x2 - x1)

	// On line-buffer overflow the segment stays allocated and counted in
	// its blob, but the next row's overlap scan cannot find it.
	if s.curLineCount < len(s.curLine) {
		s.curLine[s.curLineCount] = uint16(segIdx)
		s.curLineCount++
	}

	blobIdx := noIndex
	for i := 0; i < s.prevLineCount; i++ {
		prevIdx := int16(s.prevLine[i])
		if !s.intersects(prevIdx, segIdx) {
			continue
		}
		prevBlob := s.segs.blob(prevIdx)
		if blobIdx == noIndex {
			blobIdx = prevBlob
		} else if blobIdx != prevBlob {
			blobIdx = s.blobs.merge(blobIdx, prevBlob, s.segs)
		}
	}

	if blobIdx == noIndex {
		blobIdx = s.blobs.alloc()
		if blobIdx == noIndex {
			s.segs.dealloc(segIdx)
			return
		}
	}
	s.blobs.addSegment(blobIdx, segIdx, s.segs)
}

// advanceRow closes out any blob that appeared in the previous row's
// tracking list but not the current one, dropping it immediately if
// its total segment count is too small to be a plausible marker yet.
func (s *Segmenter) advanceRow() {
	for i := 0; i < s.prevLineCount; i++ {
		prevBlob := s.segs.blob(int16(s.prevLine[i]))
		stillTracked := false
		for j := 0; j < s.curLineCount; j++ {
			if s.segs.blob(int16(s.curLine[j])) == prevBlob {
				stillTracked = true
				break
			}
		}
		if !stillTracked {
			s.checkValidAndDrop(prevBlob)
		}
	}

	copy(s.prevLine, s.curLine[:s.curLineCount])
	s.prevLineCount = s.curLineCount
	s.curLineCount = 0
}

func (s *Segmenter) checkValidAndDrop(idx int16) {
	if s.blobs.segCount[idx] == -1 {
		return
	}
	if s.blobs.segCount[idx] > minKeptSegments {
		return
	}
	s.blobs.dealloc(idx, s.segs)
}
