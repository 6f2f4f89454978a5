package epd2in66b

// ShowDebugFrame renders a detector's indexed debug frame onto the
// panel: it walks frame (one palette index per pixel, row-major,
// frameW x frameH) painting the panel's matching region one pixel at
// a time through SetPixel, then calls Display. The panel has only
// three inks, so each packed palette color is classified down to its
// nearest of white, red, or black before being set.
//
// palette is a packed 0xRRGGBB table indexed the same way frame's
// bytes are; tinygo.org/x/arucolite's DebugPalette is the expected
// source.
func (d *Device) ShowDebugFrame(frame []byte, frameW, frameH int, palette []uint32) error {
	d.ClearBuffer()

	panelW, panelH := d.Size()
	for y := 0; y < frameH && int(y) < int(panelH); y++ {
		for x := 0; x < frameW && int(x) < int(panelW); x++ {
			idx := frame[y*frameW+x]
			if int(idx) >= len(palette) {
				continue
			}
			d.SetPixel(int16(x), int16(y), classify(palette[idx]))
		}
	}
	return d.Display()
}

// classify reduces a packed 0xRRGGBB color to the panel's nearest
// native ink: pure white stays white, anything with red dominant and
// green/blue dark reads as red, everything else collapses to black.
func classify(v uint32) PixelColor {
	r := byte(v >> 16)
	g := byte(v >> 8)
	b := byte(v)

	switch {
	case r == 0xff && g == 0xff && b == 0xff:
		return ColorWhite
	case r != 0 && g == 0 && b == 0:
		return ColorRed
	default:
		return ColorBlack
	}
}
