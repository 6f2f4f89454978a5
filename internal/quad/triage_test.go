package quad

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"tinygo.org/x/arucolite/internal/arena"
)

func TestTablesSentinelsSurviveUntouchedRows(t *testing.T) {
	c := qt.New(t)

	const frameHeight = 40
	region := arena.NewRegion(frameHeight * 2 * 2)
	tb := enterTables(region, 0, frameHeight)
	tb.reset()

	c.Assert(tb.first[0], qt.Equals, firstSentinel)
	c.Assert(tb.last[0], qt.Equals, lastSentinel)
	c.Assert(tb.yStart, qt.Equals, frameHeight)
	c.Assert(tb.yEnd, qt.Equals, -1)
}

func TestTablesAddSegmentTracksExtents(t *testing.T) {
	c := qt.New(t)

	const frameHeight = 40
	region := arena.NewRegion(frameHeight * 2 * 2)
	tb := enterTables(region, 0, frameHeight)
	tb.reset()

	tb.addSegment(10, 5, 20)
	tb.addSegment(10, 2, 3) // narrower/earlier run on the same row

	c.Assert(tb.yStart, qt.Equals, 10)
	c.Assert(tb.yEnd, qt.Equals, 10)
	c.Assert(tb.first[10], qt.Equals, int16(2))
	c.Assert(tb.last[10], qt.Equals, int16(24))
}

func TestAcceptedRejectsBorderTouch(t *testing.T) {
	c := qt.New(t)

	const frameHeight = 100
	region := arena.NewRegion(frameHeight * 2 * 2)
	tb := enterTables(region, 0, frameHeight)
	tb.reset()

	for y := 0; y < 30; y++ {
		tb.addSegment(y, 10, 30)
	}
	c.Assert(tb.accepted(frameHeight, 4), qt.IsFalse)
}

func TestAcceptedAllowsStableSquare(t *testing.T) {
	c := qt.New(t)

	const frameHeight = 100
	region := arena.NewRegion(frameHeight * 2 * 2)
	tb := enterTables(region, 0, frameHeight)
	tb.reset()

	for y := 20; y < 60; y++ {
		tb.addSegment(y, 10, 30)
	}
	c.Assert(tb.accepted(frameHeight, 4), qt.IsTrue)
}
