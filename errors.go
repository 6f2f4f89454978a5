package arucolite

import "errors"

// ErrFrameSize is returned by (*Detector).Process when the supplied
// frame's length does not match Width*Height.
var ErrFrameSize = errors.New("arucolite: frame length does not match configured width*height")

// ErrBadConfig is returned by New when a Config is missing required
// fields or carries a geometrically impossible combination of them.
var ErrBadConfig = errors.New("arucolite: invalid configuration")
