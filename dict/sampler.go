package dict

import (
	"tinygo.org/x/arucolite/geom"
	"tinygo.org/x/arucolite/internal/contrast"
)

// border is the width, in cells, of the solid ring every marker must
// carry around its B x B data grid.
const border = 1

// Sampler sweeps a fitted quadrilateral's (B+2)x(B+2) cell grid,
// thresholding each cell against the same local-contrast estimate the
// segmenter used, and packs the interior B x B bits into a byte array
// ready for Dictionary.Lookup.
type Sampler struct {
	bits             int
	totalBits        int
	frameW, frameH   int
	usableW, usableH int
	marginX, marginY int

	bmp []byte
}

// NewSampler builds a Sampler for a dictionary whose marker grid side
// is bits, sized for a frameW x frameH frame whose usable area is
// usableW x usableH starting at (marginX, marginY).
func NewSampler(bits, frameW, frameH, usableW, usableH, marginX, marginY int) *Sampler {
	return &Sampler{
		bits:      bits,
		totalBits: bits + border*2,
		frameW:    frameW,
		frameH:    frameH,
		usableW:   usableW,
		usableH:   usableH,
		marginX:   marginX,
		marginY:   marginY,
		bmp:       make([]byte, (bits*bits+7)/8),
	}
}

// isLight reports whether the frame pixel at (ix, iy) reads above the
// local-contrast threshold for its cell. Samples landing outside the
// usable area (but still inside the full frame) read as dark, the
// same silent default the reference implementation's
// mono_frame_pixel uses.
func (s *Sampler) isLight(frame []byte, stride int, grid *contrast.Estimator, ix, iy int) bool {
	x := ix - s.marginX
	y := iy - s.marginY
	if x < 0 || x >= s.usableW || y < 0 || y >= s.usableH {
		return false
	}
	threshold := grid.At(x/contrast.Cell, y/contrast.Cell)
	return frame[iy*stride+ix] > threshold
}

// Sample walks corners' interior grid and, if every sample lands
// inside the frame and every border cell reads dark, returns the
// packed B x B interior bits ready for dictionary lookup.
func (s *Sampler) Sample(frame []byte, stride int, grid *contrast.Estimator, corners [4]geom.Point) ([]byte, bool) {
	n := float32(s.totalBits)
	vec0 := corners[3].Sub(corners[0]).Scale(1 / (2 * n))
	vec1 := corners[2].Sub(corners[1]).Scale(1 / (2 * n))

	for i := range s.bmp {
		s.bmp[i] = 0
	}

	bit := uint8(128)
	bIdx := 0
	var b uint8

	for i := 0; i < s.totalBits; i++ {
		e0 := corners[0].Add(vec0.Scale(float32(i*2 + 1)))
		e1 := corners[1].Add(vec1.Scale(float32(i*2 + 1)))
		v := e1.Sub(e0).Scale(1 / (2 * n))

		for j := 0; j < s.totalBits; j++ {
			p := e0.Add(v.Scale(float32(j*2 + 1)))

			ix := int(p.X)
			if ix < 0 || ix >= s.frameW {
				return nil, false
			}
			iy := int(p.Y)
			if iy < 0 || iy >= s.frameH {
				return nil, false
			}

			light := s.isLight(frame, stride, grid, ix, iy)

			onBorder := i < border || i >= s.totalBits-border || j < border || j >= s.totalBits-border
			if onBorder {
				if light {
					return nil, false
				}
				continue
			}

			if light {
				b |= bit
			}
			bit >>= 1
			if bit == 0 {
				bit = 128
				s.bmp[bIdx] = b
				bIdx++
				b = 0
			}
		}
	}

	if remainder := (s.bits * s.bits) & 7; remainder != 0 {
		b >>= uint(8 - remainder)
		s.bmp[bIdx] = b
	}

	return s.bmp, true
}
