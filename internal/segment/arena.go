package segment

import "tinygo.org/x/arucolite/internal/arena"

// noIndex is the sentinel "none" value used throughout the segment and
// blob arenas, in place of the reference implementation's bare -1: it
// marks an empty list, an exhausted free list, and (on a blob's
// segment-count field) a deallocated blob.
const noIndex int16 = -1

// Segment is one horizontal dark run. Next is an intrusive link reused
// for two purposes: inside a blob's segment list it points at the next
// segment of that blob, and once freed it points at the next free
// segment — exactly one of those two lists may reference it at a
// time, never both.
type Segment struct {
	Y      uint16
	Start  uint16
	Length uint8
	Blob   int16
	Next   int16
}

// segmentArena is an index-based arena for Segment, backed by the
// shared scratch region. alloc/free are the only ways to move a slot
// between "live" and "free" — there is no garbage collection to rely
// on, so a caller that forgets to free leaks the slot for the rest of
// the frame, exactly as the reference implementation's bump allocator
// would.
type segmentArena struct {
	items []Segment
	count int
	free  int16
}

func newSegmentArena(region *arena.Region, phase arena.Phase, byteOffset, capacity int) *segmentArena {
	return &segmentArena{
		items: arena.View[Segment](region, phase, byteOffset, capacity),
		free:  noIndex,
	}
}

func (a *segmentArena) reset() {
	a.count = 0
	a.free = noIndex
}

func (a *segmentArena) alloc() int16 {
	if a.free == noIndex {
		if a.count >= len(a.items) {
			return noIndex
		}
		idx := int16(a.count)
		a.count++
		return idx
	}
	idx := a.free
	a.free = a.items[idx].Next
	return idx
}

func (a *segmentArena) dealloc(idx int16) {
	a.items[idx].Next = a.free
	a.free = idx
}

func (a *segmentArena) next(idx int16) int16    { return a.items[idx].Next }
func (a *segmentArena) setNext(idx, v int16)    { a.items[idx].Next = v }
func (a *segmentArena) blob(idx int16) int16    { return a.items[idx].Blob }
func (a *segmentArena) setBlob(idx, blob int16) { a.items[idx].Blob = blob }
func (a *segmentArena) get(idx int16) *Segment  { return &a.items[idx] }

// blobArena is an index-based arena for candidate-marker blobs. head
// is the same kind of dual-purpose slot as Segment.Next: for a live
// blob it is the head of its segment list; for a dead blob it is the
// free-list link. segCount is -1 exactly when the blob is dead — the
// one piece of state that disambiguates which list head means.
type blobArena struct {
	head     []int16
	segCount []int16
	count    int
	free     int16
}

func newBlobArena(region *arena.Region, phase arena.Phase, byteOffset, capacity int) (*blobArena, int) {
	head := arena.View[int16](region, phase, byteOffset, capacity)
	segCountOffset := byteOffset + capacity*2
	segCount := arena.View[int16](region, phase, segCountOffset, capacity)
	return &blobArena{head: head, segCount: segCount, free: noIndex}, segCountOffset + capacity*2
}

func (b *blobArena) reset() {
	b.count = 0
	b.free = noIndex
}

func (b *blobArena) alloc() int16 {
	var idx int16
	if b.free == noIndex {
		if b.count >= len(b.head) {
			return noIndex
		}
		idx = int16(b.count)
		b.count++
	} else {
		idx = b.free
		b.free = b.head[idx]
	}
	b.head[idx] = noIndex
	b.segCount[idx] = 0
	return idx
}

func (b *blobArena) dealloc(idx int16, segs *segmentArena) {
	segIdx := b.head[idx]
	for segIdx != noIndex {
		next := segs.next(segIdx)
		segs.dealloc(segIdx)
		segIdx = next
	}
	b.head[idx] = b.free
	b.segCount[idx] = -1
	b.free = idx
}

func (b *blobArena) addSegment(blobIdx, segIdx int16, segs *segmentArena) {
	segs.setBlob(segIdx, blobIdx)
	segs.setNext(segIdx, b.head[blobIdx])
	b.head[blobIdx] = segIdx
	b.segCount[blobIdx]++
}

// merge absorbs the smaller (by segment count) of a and c into the
// larger, relabeling every segment of the loser so later reads stay
// O(1); this is the reference implementation's eager-merge choice,
// preserved rather than switched to path-compressed union-find. On an
// exact tie the first argument survives, matching this repository's
// documented merge-tie rule (see SPEC_FULL.md).
func (b *blobArena) merge(a, c int16, segs *segmentArena) int16 {
	main, loser := a, c
	if b.segCount[c] > b.segCount[a] {
		main, loser = c, a
	}

	if b.segCount[loser] == -1 {
		return main
	}

	segIdx := b.head[loser]
	last := noIndex
	for segIdx != noIndex {
		segs.setBlob(segIdx, main)
		last = segIdx
		segIdx = segs.next(segIdx)
	}
	if last != noIndex {
		segs.setNext(last, b.head[main])
		b.head[main] = b.head[loser]
	}
	b.head[loser] = noIndex
	b.segCount[main] += b.segCount[loser]

	b.dealloc(loser, segs)

	return main
}
