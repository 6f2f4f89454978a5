package ws2812

import "image/color"

// Status colors for an on-board indicator LED reporting a Detector's
// most recent Process outcome: idle (nothing found yet), a marker
// seen, or the detector's capacity-exhausted ceiling hit — the
// silent-drop policy made visible on hardware that has no other
// output.
var (
	StatusIdle      = color.RGBA{R: 0, G: 0, B: 16, A: 0xff}
	StatusDetected  = color.RGBA{R: 0, G: 32, B: 0, A: 0xff}
	StatusSaturated = color.RGBA{R: 32, G: 16, B: 0, A: 0xff}
)

// ShowDetectionStatus drives a single-pixel strip to reflect how many
// markers the most recent Process call found against the detector's
// configured ceiling: off becomes StatusIdle, 1..max-1 becomes
// StatusDetected, and reaching the ceiling becomes StatusSaturated so
// a deployment can notice it's silently dropping candidates.
func (d Device) ShowDetectionStatus(found, maxMarkers int) error {
	c := StatusIdle
	switch {
	case found >= maxMarkers && maxMarkers > 0:
		c = StatusSaturated
	case found > 0:
		c = StatusDetected
	}
	return d.WriteColors([]color.RGBA{c})
}
