// Package ws2812 implements a driver for WS2812 and SK6812 RGB LED
// strips, used here as the detector's single-pixel status indicator.
package ws2812

import (
	"errors"
	"image/color"
	"machine"
	"time"
)

var errUnknownClockSpeed = errors.New("ws2812: unknown CPU clock speed")

type deviceType uint8

const (
	WS2812 deviceType = iota // RGB, uses 3 bytes
	SK6812                   // RGBA / RGBW, uses 4 bytes
)

// Device wraps a pin object for an easy driver interface.
type Device struct {
	Pin        machine.Pin
	deviceType deviceType
}

// deprecated, use NewWS2812 or NewSK6812 depending on which device you want.
// calls NewWS2812() to avoid breaking everyone's existing code.
func New(pin machine.Pin) Device {
	return NewWS2812(pin)
}

// New returns a new WS2812(RGB) driver.
// It does not touch the pin object: you have
// to configure it as an output pin before calling New.
func NewWS2812(pin machine.Pin) Device {
	return Device{
		Pin:        pin,
		deviceType: WS2812,
	}
}

// New returns a new SK6812(RGBA) driver.
// It does not touch the pin object: you have
// to configure it as an output pin before calling New.
func NewSK6812(pin machine.Pin) Device {
	return Device{
		Pin:        pin,
		deviceType: SK6812,
	}
}

// Write the raw bitstring out using the WS2812 protocol.
func (d Device) Write(buf []byte) (n int, err error) {
	for _, c := range buf {
		d.WriteByte(c)
	}
	return len(buf), nil
}

// Write the given color slice out using the WS2812 protocol.
// Colors are sent out in the usual GRB(A) format.
func (d Device) WriteColors(buf []color.RGBA) (err error) {
	switch d.deviceType {
	case WS2812:
		err = d.writeColorsRGB(buf)
	case SK6812:
		err = d.writeColorsRGBA(buf)
	}
	return
}

func (d Device) writeColorsRGB(buf []color.RGBA) (err error) {
	for _, color := range buf {
		d.WriteByte(color.G)       // green
		d.WriteByte(color.R)       // red
		err = d.WriteByte(color.B) // blue
	}
	return
}

func (d Device) writeColorsRGBA(buf []color.RGBA) (err error) {
	for _, color := range buf {
		d.WriteByte(color.G)       // green
		d.WriteByte(color.R)       // red
		d.WriteByte(color.B)       // blue
		err = d.WriteByte(color.A) // alpha
	}
	return
}

// WS2812 bit timing, per the datasheet: a 0 bit is a short high pulse
// followed by a long low, a 1 bit the reverse, both within a roughly
// 1.25us period.
const (
	t0h = 400 * time.Nanosecond
	t0l = 850 * time.Nanosecond
	t1h = 800 * time.Nanosecond
	t1l = 450 * time.Nanosecond
)

// WriteByte clocks out one byte, MSB first, over Pin using the
// datasheet's one-wire bit timing. Unlike the per-architecture
// cycle-counted versions this driver normally ships, it uses plain
// time.Sleep and so carries looser timing margin; fine for a status
// LED, not for long strips on a busy bus.
func (d Device) WriteByte(c byte) error {
	for bit := 7; bit >= 0; bit-- {
		d.Pin.High()
		if c&(1<<uint(bit)) != 0 {
			time.Sleep(t1h)
			d.Pin.Low()
			time.Sleep(t1l)
		} else {
			time.Sleep(t0h)
			d.Pin.Low()
			time.Sleep(t0l)
		}
	}
	return nil
}
