// FILE: opentype.go
// Package main – Market open classification from the first minutes of trade.
//
// OpenTypeClassifier watches the opening window (default 30 minutes) and
// buckets the session open into one of four auction types:
//   • OPEN_DRIVE             – strong one-way move, trend day likely (skip)
//   • OPEN_TEST_DRIVE        – brief opposite test, then sustained move
//   • OPEN_REJECTION_REVERSE – extreme made early then rejected (proceed)
//   • OPEN_AUCTION           – rotational two-way discovery (proceed)
//
// Classification is performed exactly once per session, on the first bar at
// or after the window's end, and never revised afterwards.

package main

import "time"

// OpenType is the auction classification of the session open.
type OpenType int

const (
	OpenUnknown OpenType = iota
	OpenDrive
	OpenTestDrive
	OpenRejectionReverse
	OpenAuction
)

func (o OpenType) String() string {
	switch o {
	case OpenDrive:
		return "OPEN_DRIVE"
	case OpenTestDrive:
		return "OPEN_TEST_DRIVE"
	case OpenRejectionReverse:
		return "OPEN_REJECTION_REVERSE"
	case OpenAuction:
		return "OPEN_AUCTION"
	default:
		return "UNKNOWN"
	}
}

// Description returns the operator-facing explanation used by session logs.
func (o OpenType) Description() string {
	switch o {
	case OpenDrive:
		return "Open Drive - strong directional move, trend day likely (SKIP)"
	case OpenTestDrive:
		return "Open Test Drive - brief test then trend (CAUTION)"
	case OpenRejectionReverse:
		return "Open Rejection Reverse - balanced day likely (PROCEED)"
	case OpenAuction:
		return "Open Auction - rotational discovery (PROCEED)"
	default:
		return "Unknown - insufficient data"
	}
}

// OpenSnapshot is the read-only classifier view returned after every update.
type OpenSnapshot struct {
	Class             OpenType
	Classified        bool
	TrendDayLikely    bool // OPEN_DRIVE only
	BalancedDayLikely bool // REJECTION_REVERSE or AUCTION
	FirstMove         Direction
}

// OpenTypeClassifier collects bars inside the analysis window and classifies
// the open once the window closes.
type OpenTypeClassifier struct {
	openMin int // market open, minutes since midnight
	endMin  int // openMin + analysis minutes

	sessionDate time.Time
	bars        []Candle
	openPrice   float64
	haveOpen    bool
	maxHigh     float64
	minLow      float64

	firstMove     Direction
	haveMove      bool
	firstMoveFlat bool

	class      OpenType
	classified bool
}

// NewOpenTypeClassifier builds a classifier for the given open time and
// analysis window length in minutes.
func NewOpenTypeClassifier(openMin, analysisMinutes int) *OpenTypeClassifier {
	return &OpenTypeClassifier{
		openMin: openMin,
		endMin:  openMin + analysisMinutes,
		bars:    make([]Candle, 0, analysisMinutes+5),
		class:   OpenUnknown,
	}
}

func (c *OpenTypeClassifier) reset() {
	c.bars = c.bars[:0]
	c.openPrice, c.haveOpen = 0, false
	c.maxHigh, c.minLow = 0, 0
	c.firstMove, c.haveMove, c.firstMoveFlat = Flat, false, false
	c.class, c.classified = OpenUnknown, false
}

// Update folds one bar into the classifier and returns the refreshed snapshot.
func (c *OpenTypeClassifier) Update(bar Candle) OpenSnapshot {
	day := sessionDay(bar.Time)
	tod := minuteOfDay(bar.Time)

	if !c.sessionDate.Equal(day) {
		c.reset()
		c.sessionDate = day
	}

	switch {
	case tod < c.openMin || c.classified:
		// pre-open, or already decided for this session
	case tod >= c.endMin:
		c.classify()
	default:
		c.collect(bar)
	}

	return c.Snapshot()
}

// Snapshot returns the current view without processing a bar.
func (c *OpenTypeClassifier) Snapshot() OpenSnapshot {
	return OpenSnapshot{
		Class:             c.class,
		Classified:        c.classified,
		TrendDayLikely:    c.classified && c.class == OpenDrive,
		BalancedDayLikely: c.classified && (c.class == OpenRejectionReverse || c.class == OpenAuction),
		FirstMove:         c.firstMove,
	}
}

func (c *OpenTypeClassifier) collect(bar Candle) {
	if !c.haveOpen {
		c.openPrice = bar.Open
		c.maxHigh = bar.High
		c.minLow = bar.Low
		c.haveOpen = true
	}
	c.bars = append(c.bars, bar)

	if bar.High > c.maxHigh {
		c.maxHigh = bar.High
	}
	if bar.Low < c.minLow {
		c.minLow = bar.Low
	}

	// The first significant move needs 0.1% from the open, checked once the
	// fifth bar has printed.
	if !c.haveMove && len(c.bars) >= 5 {
		fifthClose := c.bars[4].Close
		threshold := c.openPrice * 0.001
		switch {
		case fifthClose > c.openPrice+threshold:
			c.firstMove = Long
		case fifthClose < c.openPrice-threshold:
			c.firstMove = Short
		default:
			c.firstMove = Flat
			c.firstMoveFlat = true
		}
		c.haveMove = true
	}
}

func (c *OpenTypeClassifier) classify() {
	defer func() { c.classified = true }()

	if len(c.bars) < 15 {
		c.class = OpenUnknown
		return
	}

	finalClose := c.bars[len(c.bars)-1].Close
	totalRange := c.maxHigh - c.minLow
	if totalRange == 0 {
		c.class = OpenAuction
		return
	}

	netMovePct := 0.0
	if c.openPrice > 0 {
		netMove := finalClose - c.openPrice
		if netMove < 0 {
			netMove = -netMove
		}
		netMovePct = netMove / c.openPrice
	}

	// end_position is oriented by the first move: for an up move it measures
	// proximity to the high, for a down move proximity to the low.
	var endPosition float64
	switch {
	case c.haveMove && c.firstMove == Long:
		endPosition = (finalClose - c.minLow) / totalRange
	case c.haveMove && c.firstMove == Short:
		endPosition = (c.maxHigh - finalClose) / totalRange
	default:
		midpoint := (c.maxHigh + c.minLow) / 2
		endPosition = 0.5 + (finalClose-midpoint)/totalRange
	}

	upBars, downBars := 0, 0
	for _, b := range c.bars {
		if b.Close > b.Open {
			upBars++
		} else if b.Close < b.Open {
			downBars++
		}
	}
	directional := float64(max(upBars, downBars)) / float64(len(c.bars))

	pullback := c.earlyPullback()
	rejection := c.rejection(finalClose)

	switch {
	case directional > 0.70 && endPosition > 0.75 && !pullback:
		c.class = OpenDrive
	case rejection && endPosition < 0.40:
		c.class = OpenRejectionReverse
	case pullback && endPosition > 0.60 && netMovePct > 0.002:
		c.class = OpenTestDrive
	case directional > 0.65 && endPosition > 0.70 && netMovePct > 0.003:
		c.class = OpenDrive
	default:
		c.class = OpenAuction
	}
}

// earlyPullback checks the first 10 bars (skipping the first) for a close
// back across the session open against the first move direction.
func (c *OpenTypeClassifier) earlyPullback() bool {
	if !c.haveMove || c.firstMoveFlat {
		return false
	}
	n := len(c.bars)
	if n > 10 {
		n = 10
	}
	for _, b := range c.bars[1:n] {
		if c.firstMove == Long && b.Close < c.openPrice {
			return true
		}
		if c.firstMove == Short && b.Close > c.openPrice {
			return true
		}
	}
	return false
}

// rejection detects an extreme made in the first third of the window with
// the final close on the opposite side of the range midpoint.
func (c *OpenTypeClassifier) rejection(finalClose float64) bool {
	if len(c.bars) < 10 {
		return false
	}

	highIdx, lowIdx := 0, 0
	for i, b := range c.bars {
		if b.High == c.maxHigh {
			highIdx = i
		}
		if b.Low == c.minLow {
			lowIdx = i
		}
	}

	third := len(c.bars) / 3
	midpoint := (c.maxHigh + c.minLow) / 2

	if highIdx <= third && finalClose < midpoint {
		return true
	}
	if lowIdx <= third && finalClose > midpoint {
		return true
	}
	return false
}
