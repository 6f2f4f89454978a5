package arucolite

import "tinygo.org/x/arucolite/dict"

// defaultMaxMarkers is K's default value, matching the reference
// implementation's MAX_ARUCO_COUNT template default.
const defaultMaxMarkers = 16

// Config holds a Detector's build-time parameters. All fields are
// fixed for the Detector's lifetime and known at build time; there is
// no runtime reconfiguration.
type Config struct {
	// Width and Height are the frame's pixel dimensions. Required.
	Width, Height int
	// MaxMarkers (K) bounds how many markers one Process call can
	// report. Zero defaults to 16.
	MaxMarkers int
	// Dictionary supplies the marker bit-grid side (B) and the
	// entries Process matches decoded bits against. Required.
	Dictionary *dict.Dictionary
	// Debug, if true, allocates a second Width*Height debug buffer
	// annotated during Process; see debug.go.
	Debug bool
	// Verbose gates per-stage structured trace logging.
	Verbose bool
}

func (c Config) maxMarkers() int {
	if c.MaxMarkers > 0 {
		return c.MaxMarkers
	}
	return defaultMaxMarkers
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return ErrBadConfig
	}
	if c.Dictionary == nil || c.Dictionary.Bits <= 0 {
		return ErrBadConfig
	}
	usableW := c.Width &^ 7
	usableH := c.Height &^ 7
	if usableW == 0 || usableH == 0 {
		return ErrBadConfig
	}
	return nil
}
