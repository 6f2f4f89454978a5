// Package arena implements the detector's overlaid scratch storage as
// an explicit, checkable two-phase arena, instead of the C union the
// reference implementation used to let two incompatible record layouts
// share one block of memory.
//
// A Region owns one backing allocation, word-aligned so any fixed-size
// type can be carved out of it. At any moment the region is in one of
// two phases; View panics if asked for a slice while the region is in
// the other phase, or before Enter has ever been called. Transitioning
// phases with Enter is a one-way handoff: the caller is expected to
// have dropped every slice it obtained under the previous phase before
// calling Enter again, since those bytes are about to be reinterpreted
// as a different type.
package arena

import "unsafe"

// Phase identifies which of a Region's two layouts is currently valid.
type Phase int

const (
	// PhaseNone is the zero value: no view has been entered yet, and
	// View always panics in this phase.
	PhaseNone Phase = iota
	// PhaseOne is the region's first layout (e.g. the local-contrast
	// integral-sum grid, or a blob's first/last row-extent tables).
	PhaseOne
	// PhaseTwo is the region's second layout (e.g. the segment/blob
	// arenas, or a blob's angle histogram).
	PhaseTwo
)

// Region is a fixed-size scratch buffer shared by two mutually
// exclusive typed views. It is sized once, at detector construction,
// and never grows.
type Region struct {
	words []uint64 // backing storage, 8-byte aligned so any View fits
	phase Phase
}

// NewRegion allocates a region with at least byteCapacity bytes of
// backing storage.
func NewRegion(byteCapacity int) *Region {
	words := (byteCapacity + 7) / 8
	if words == 0 {
		words = 1
	}
	return &Region{words: make([]uint64, words)}
}

// Enter switches the region to phase p. It is the explicit, one-way
// handoff point: views obtained under the previous phase must not be
// used again after this call.
func (r *Region) Enter(p Phase) {
	r.phase = p
}

// Phase reports the region's current phase.
func (r *Region) Phase() Phase {
	return r.phase
}

// Bytes reports the region's total backing capacity in bytes.
func (r *Region) Bytes() int {
	return len(r.words) * 8
}

// View reinterprets byteOffset..byteOffset+n*sizeof(T) of the region's
// backing storage as a []T, provided the region is currently in phase
// want. It panics if the region is in the wrong phase (including
// PhaseNone) or if the requested range does not fit the backing
// storage — both are programmer errors, never a runtime data issue.
func View[T any](r *Region, want Phase, byteOffset, n int) []T {
	if r.phase != want {
		panic("arena: view requested while region is not in the expected phase")
	}
	if n == 0 {
		return nil
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	need := byteOffset + n*size
	if byteOffset < 0 || need > r.Bytes() {
		panic("arena: view exceeds region capacity")
	}
	base := unsafe.Pointer(&r.words[0])
	ptr := unsafe.Add(base, byteOffset)
	return unsafe.Slice((*T)(ptr), n)
}
