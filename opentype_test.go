package main

import "testing"

func newTestClassifier() *OpenTypeClassifier {
	return NewOpenTypeClassifier(570, 30) // 09:30 open, 30-minute window
}

// TestUnknownWithFewBars: fewer than 15 bars in the window classifies UNKNOWN.
func TestUnknownWithFewBars(t *testing.T) {
	c := newTestClassifier()
	day := testDay(0)

	for i := 0; i < 10; i++ {
		c.Update(testBar(day, 9, 30+i, 4500, 4501, 4499, 4500.5, 100))
	}
	snap := c.Update(testBar(day, 10, 0, 4500, 4501, 4499, 4500, 100))

	if !snap.Classified || snap.Class != OpenUnknown {
		t.Errorf("class = %s classified=%v, want UNKNOWN true", snap.Class, snap.Classified)
	}
	if snap.TrendDayLikely || snap.BalancedDayLikely {
		t.Error("UNKNOWN must be neither trend nor balanced")
	}
}

// TestOpenDriveDetected: a strong one-way open with no pullback classifies
// OPEN_DRIVE and marks the session trend-day-likely.
func TestOpenDriveDetected(t *testing.T) {
	c := newTestClassifier()
	day := testDay(0)

	price := 4500.0
	for i := 0; i < 30; i++ {
		o := price
		price += 1.5
		c.Update(testBar(day, 9, 30+i, o, price+0.2, o-0.2, price, 100))
	}
	snap := c.Update(testBar(day, 10, 0, price, price+0.5, price-0.5, price, 100))

	if snap.Class != OpenDrive {
		t.Errorf("class = %s, want OPEN_DRIVE", snap.Class)
	}
	if !snap.TrendDayLikely {
		t.Error("open drive must be trend-day-likely")
	}
	if snap.FirstMove != Long {
		t.Errorf("first move = %s, want LONG", snap.FirstMove)
	}
}

// TestRejectionReverseDetected: an early low that gets bought back above the
// midpoint classifies OPEN_REJECTION_REVERSE.
func TestRejectionReverseDetected(t *testing.T) {
	c := newTestClassifier()
	day := testDay(0)

	// Bars 0-4: sell-off from 4500 down to 4493 (low 4492 made early).
	declines := []struct{ o, h, l, cl float64 }{
		{4500, 4500.5, 4497.5, 4498},
		{4498, 4498.5, 4496, 4496.5},
		{4496.5, 4497, 4494, 4494.5},
		{4494.5, 4495, 4492, 4493.5},
		{4493.5, 4494, 4492.5, 4493},
	}
	for i, b := range declines {
		c.Update(testBar(day, 9, 30+i, b.o, b.h, b.l, b.cl, 100))
	}
	// Bars 5-29: steady rally to 4506.
	price := 4493.0
	for i := 5; i < 30; i++ {
		o := price
		price += 0.52
		c.Update(testBar(day, 9, 30+i, o, price+0.3, o-0.2, price, 100))
	}
	snap := c.Update(testBar(day, 10, 0, price, price+0.5, price-0.5, price, 100))

	if snap.Class != OpenRejectionReverse {
		t.Errorf("class = %s, want OPEN_REJECTION_REVERSE", snap.Class)
	}
	if !snap.BalancedDayLikely {
		t.Error("rejection reverse must be balanced-day-likely")
	}
}

// TestAuctionDefault: rotational two-way bars fall through to OPEN_AUCTION.
func TestAuctionDefault(t *testing.T) {
	c := newTestClassifier()
	day := testDay(0)

	for i := 0; i < 30; i++ {
		if i%2 == 0 {
			c.Update(testBar(day, 9, 30+i, 4499.5, 4501, 4499, 4500.5, 100))
		} else {
			c.Update(testBar(day, 9, 30+i, 4500.5, 4501, 4499, 4499.5, 100))
		}
	}
	snap := c.Update(testBar(day, 10, 0, 4500, 4500.5, 4499.5, 4500, 100))

	if snap.Class != OpenAuction {
		t.Errorf("class = %s, want OPEN_AUCTION", snap.Class)
	}
	if !snap.BalancedDayLikely {
		t.Error("auction must be balanced-day-likely")
	}
}

// TestClassificationDeterministic: identical bar sequences produce identical
// classifications, and the result never changes after the window closes.
func TestClassificationDeterministic(t *testing.T) {
	day := testDay(0)
	bars := make([]Candle, 0, 32)
	price := 4500.0
	for i := 0; i < 30; i++ {
		o := price
		if i%3 == 0 {
			price -= 0.75
		} else {
			price += 0.5
		}
		bars = append(bars, testBar(day, 9, 30+i, o, max(o, price)+0.25, min(o, price)-0.25, price, 100))
	}
	bars = append(bars, testBar(day, 10, 0, price, price+0.5, price-0.5, price, 100))

	a, b := newTestClassifier(), newTestClassifier()
	var snapA, snapB OpenSnapshot
	for _, bar := range bars {
		snapA = a.Update(bar)
		snapB = b.Update(bar)
	}
	if snapA.Class != snapB.Class {
		t.Errorf("same input, different classes: %s vs %s", snapA.Class, snapB.Class)
	}

	// Post-window bars cannot revise the classification.
	later := a.Update(testBar(day, 10, 15, 4400, 4401, 4399, 4400, 100))
	if later.Class != snapA.Class {
		t.Errorf("classification revised after window: %s -> %s", snapA.Class, later.Class)
	}
}

// TestPreOpenBarsIgnored: bars before the open never enter the window.
func TestPreOpenBarsIgnored(t *testing.T) {
	c := newTestClassifier()
	day := testDay(0)

	c.Update(testBar(day, 9, 0, 4500, 4501, 4499, 4500, 100))
	if len(c.bars) != 0 {
		t.Error("pre-open bar collected")
	}
}
