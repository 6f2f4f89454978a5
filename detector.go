// Package arucolite detects ArUco-style square fiducial markers in a
// fixed-size, single-channel (grayscale) image buffer, using only
// memory allocated once at construction time.
package arucolite

import (
	"github.com/rs/zerolog"

	"tinygo.org/x/arucolite/dict"
	"tinygo.org/x/arucolite/geom"
	"tinygo.org/x/arucolite/internal/arena"
	"tinygo.org/x/arucolite/internal/contrast"
	"tinygo.org/x/arucolite/internal/quad"
	"tinygo.org/x/arucolite/internal/segment"
)

// Marker is one decoded fiducial: its four corners in the source
// frame's pixel coordinates, Corners[0] being the marker's top-left as
// defined by the dictionary and the rest following clockwise, and the
// dictionary entry it matched.
type Marker struct {
	Corners      [4]geom.Point
	DictionaryID int
}

// Detector holds every piece of fixed-size scratch state needed to
// find markers in one frame size, built once by New and reused across
// any number of Process calls.
type Detector struct {
	cfg Config

	usableW, usableH int
	marginX, marginY int

	regionA *arena.Region
	regionB *arena.Region

	grid      *contrast.Estimator
	segmenter *segment.Segmenter
	fitter    *quad.Fitter
	sampler   *dict.Sampler

	results []Marker

	debugFrame []byte

	log zerolog.Logger
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// New builds a Detector for frames of cfg.Width x cfg.Height pixels,
// allocating all of its scratch storage up front. It returns
// ErrBadConfig if cfg is incomplete or geometrically impossible.
func New(cfg Config) (*Detector, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	usableW := cfg.Width &^ 7
	usableH := cfg.Height &^ 7
	marginX := (cfg.Width - usableW) / 2
	marginY := (cfg.Height - usableH) / 2

	gridW := usableW / contrast.Cell
	gridH := usableH / contrast.Cell
	grid := contrast.New(gridW, gridH)

	segSizes := segment.DefaultSizes(usableW, usableH)
	regionABytes := maxInt(grid.SumBytes(), segSizes.ByteSize())
	regionA := arena.NewRegion(regionABytes)
	regionA.Enter(arena.PhaseTwo)
	segmenter := segment.New(regionA, 0, segSizes)

	quadSizes := quad.DefaultSizes(cfg.Height, usableH)
	regionB := arena.NewRegion(quadSizes.ByteSize())
	fitter := quad.NewFitter(regionB, quadSizes, marginY)

	sampler := dict.NewSampler(cfg.Dictionary.Bits, cfg.Width, cfg.Height, usableW, usableH, marginX, marginY)

	d := &Detector{
		cfg:       cfg,
		usableW:   usableW,
		usableH:   usableH,
		marginX:   marginX,
		marginY:   marginY,
		regionA:   regionA,
		regionB:   regionB,
		grid:      grid,
		segmenter: segmenter,
		fitter:    fitter,
		sampler:   sampler,
		results:   make([]Marker, 0, cfg.maxMarkers()),
		log:       newLogger(cfg.Verbose),
	}
	if cfg.Debug {
		d.debugFrame = make([]byte, cfg.Width*cfg.Height)
	}
	return d, nil
}

// Process finds every marker in frame, a row-major grayscale buffer of
// exactly Config.Width*Config.Height bytes, and replaces the set
// returned by Results. It returns ErrFrameSize if frame's length does
// not match the configured dimensions; every other rejection (bad
// shape, failed fit, unreadable bits, dictionary miss) is silent, per
// this package's fixed-capacity, drop-don't-fail contract.
func (d *Detector) Process(frame []byte) error {
	if len(frame) != d.cfg.Width*d.cfg.Height {
		return ErrFrameSize
	}

	stride := d.cfg.Width
	d.results = d.results[:0]
	if d.cfg.Debug {
		d.clearDebugFrame()
	}

	d.grid.Compute(frame, stride, d.marginX, d.marginY, d.regionA)
	d.regionA.Enter(arena.PhaseTwo)
	d.segmenter.Run(frame, stride, d.marginX, d.marginY, d.usableW, d.usableH, d.grid)

	maxMarkers := d.cfg.maxMarkers()
	blobs := d.segmenter.BlobCount()
	d.log.Debug().Int("blobs", blobs).Msg("segmentation complete")

	for i := 0; i < blobs && len(d.results) < maxMarkers; i++ {
		if !d.segmenter.BlobAlive(i) {
			continue
		}

		blobIdx := i
		q, ok := d.fitter.Fit(func(fn func(y, start, length int)) {
			d.segmenter.ForEachSegment(blobIdx, fn)
		})
		if !ok {
			continue
		}

		bmp, ok := d.sampler.Sample(frame, stride, d.grid, q.Corners)
		if !ok {
			continue
		}

		id, rotation, ok := d.cfg.Dictionary.Lookup(bmp)
		if !ok {
			continue
		}

		corners := q.Corners
		dict.RotateCorners(&corners, rotation)
		m := Marker{Corners: corners, DictionaryID: id}
		d.results = append(d.results, m)

		if d.cfg.Debug {
			d.drawQuad(corners)
			d.annotate(m)
		}
	}

	d.log.Debug().Int("markers", len(d.results)).Msg("process complete")
	return nil
}

// Results returns the markers found by the most recent Process call.
// The returned slice is reused by the next Process call; copy it if
// it must outlive that call.
func (d *Detector) Results() []Marker {
	return d.results
}
