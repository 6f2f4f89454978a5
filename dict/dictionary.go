// Package dict implements stage 6 of the pipeline: sampling a fitted
// quadrilateral's interior bit grid and matching it against a fixed
// marker dictionary, with rotation normalization.
package dict

import (
	"bytes"

	"tinygo.org/x/arucolite/geom"
)

// Entry is one marker's four 90°-rotated bit-packed layouts, each
// ceil(Bits*Bits/8) bytes, MSB-first, row-major.
type Entry [4][]byte

// Dictionary is a fixed table of markers, each entry a set of bit
// patterns keyed by rotation. The zero value is an empty dictionary
// that never matches.
type Dictionary struct {
	// Bits is the marker's data grid side length B (so a marker
	// samples as a (B+2)x(B+2) grid including its solid border ring).
	Bits int
	// Entries holds every marker's four rotation byte-packings.
	Entries []Entry
}

// ByteLen reports the packed byte length for one rotation of one
// entry: ceil(Bits*Bits / 8).
func (d *Dictionary) ByteLen() int {
	return (d.Bits*d.Bits + 7) / 8
}

// New builds a Dictionary of the given bit grid side, validating that
// every supplied entry's four rotations are already sized ByteLen().
// A caller assembling entries programmatically (see Builtin) is
// expected to have gotten this right; New panics otherwise, since a
// malformed dictionary is a build-time configuration error, not a
// runtime condition to recover from.
func New(bits int, entries []Entry) *Dictionary {
	d := &Dictionary{Bits: bits, Entries: entries}
	want := d.ByteLen()
	for _, e := range entries {
		for _, bmp := range e {
			if len(bmp) != want {
				panic("dict: entry has wrong byte length")
			}
		}
	}
	return d
}

// Len reports how many marker entries the dictionary holds.
func (d *Dictionary) Len() int { return len(d.Entries) }

// Lookup searches every entry's four rotations for an exact match
// against bmp, returning the matching entry's index and the rotation
// it matched at. Entries are searched in index order, and within an
// entry rotations are searched 0..3, matching the reference
// implementation's search_and_rotate so that degenerate dictionaries
// with duplicate entries resolve deterministically to the first hit.
func (d *Dictionary) Lookup(bmp []byte) (id int, rotation int, ok bool) {
	for i, e := range d.Entries {
		for r, want := range e {
			if bytes.Equal(bmp, want) {
				return i, r, true
			}
		}
	}
	return 0, 0, false
}

// RotateCorners reorders corners in place so that, after a match at
// rotation r, corners[0] becomes the marker's canonical top-left:
// new[e] = old[(e + 4 - r) mod 4].
func RotateCorners(corners *[4]geom.Point, rotation int) {
	if rotation == 0 {
		return
	}
	tmp := *corners
	for e := 0; e < 4; e++ {
		corners[e] = tmp[(e+4-rotation)%4]
	}
}
