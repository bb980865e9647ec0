package main

import "testing"

func newTestDetector() *CandleConfirmationDetector {
	return NewCandleConfirmationDetector(2.0, 2.0)
}

// seedBar is a neutral bar used to satisfy the 2-bar minimum.
func seedBar(day int) Candle {
	return testBar(testDay(day), 10, 0, 4495, 4495.6, 4494.4, 4495.5, 1000)
}

// TestHammerDetected: long lower wick, small upper wick.
func TestHammerDetected(t *testing.T) {
	d := newTestDetector()
	d.Update(seedBar(0))

	// body 0.25, lower wick 0.60, upper wick 0.10
	flags := d.Update(testBar(testDay(0), 10, 1, 4484.75, 4484.85, 4483.90, 4484.50, 500))
	if !flags.BullishRejection {
		t.Error("should detect hammer as bullish rejection")
	}
	if flags.AnyBearish() {
		t.Error("hammer should not flag bearish")
	}
}

// TestShootingStarDetected: long upper wick, small lower wick.
func TestShootingStarDetected(t *testing.T) {
	d := newTestDetector()
	d.Update(seedBar(0))

	// body 0.25, upper wick 0.60, lower wick 0.10
	flags := d.Update(testBar(testDay(0), 10, 1, 4505.25, 4506.10, 4505.15, 4505.50, 500))
	if !flags.BearishRejection {
		t.Error("should detect shooting star as bearish rejection")
	}
}

// TestDojiVariants: near-zero body judged on dominant wick.
func TestDojiVariants(t *testing.T) {
	d := newTestDetector()
	d.Update(seedBar(0))

	// Dragonfly: no body, long lower wick.
	flags := d.Update(testBar(testDay(0), 10, 1, 4500, 4500.1, 4499, 4500, 500))
	if !flags.BullishRejection {
		t.Error("dragonfly doji should be bullish rejection")
	}

	// Gravestone: no body, long upper wick.
	flags = d.Update(testBar(testDay(0), 10, 2, 4500, 4501, 4499.9, 4500, 500))
	if !flags.BearishRejection {
		t.Error("gravestone doji should be bearish rejection")
	}

	// Balanced doji: no dominant wick, no signal.
	flags = d.Update(testBar(testDay(0), 10, 3, 4500, 4500.5, 4499.5, 4500, 500))
	if flags.BullishRejection || flags.BearishRejection {
		t.Error("balanced doji should not signal")
	}
}

// TestBullishEngulfing: larger bullish body containing the prior bearish body.
func TestBullishEngulfing(t *testing.T) {
	d := newTestDetector()
	d.Update(testBar(testDay(0), 10, 0, 4496, 4496.5, 4494.5, 4495, 500)) // bearish
	flags := d.Update(testBar(testDay(0), 10, 1, 4494.5, 4497.5, 4494, 4497, 500))
	if !flags.BullishEngulfing {
		t.Error("should detect bullish engulfing")
	}

	// Same-size body does not engulf.
	d2 := newTestDetector()
	d2.Update(testBar(testDay(0), 10, 0, 4496, 4496.5, 4494.5, 4495, 500))
	flags = d2.Update(testBar(testDay(0), 10, 1, 4495, 4496.5, 4494.5, 4496, 500))
	if flags.BullishEngulfing {
		t.Error("equal body must not engulf")
	}
}

// TestBearishEngulfing: mirror case.
func TestBearishEngulfing(t *testing.T) {
	d := newTestDetector()
	d.Update(testBar(testDay(0), 10, 0, 4495, 4496.5, 4494.5, 4496, 500)) // bullish
	flags := d.Update(testBar(testDay(0), 10, 1, 4496.5, 4497, 4493.5, 4494, 500))
	if !flags.BearishEngulfing {
		t.Error("should detect bearish engulfing")
	}
}

// TestVolumeClimax: needs 10 volumes of history and a 2x spike.
func TestVolumeClimax(t *testing.T) {
	d := newTestDetector()
	day := testDay(0)

	// Not enough volume history: no climax even on a spike.
	flags := d.Update(testBar(day, 9, 59, 4495, 4496, 4494.8, 4495.9, 5000))
	if flags.VolumeClimaxBullish {
		t.Error("climax fired without volume history")
	}

	d2 := newTestDetector()
	for i := 0; i < 10; i++ {
		d2.Update(testBar(day, 10, i, 4495, 4495.6, 4494.4, 4495.5, 1000))
	}
	// Spike on a bullish bar: avg of last 10 is ~1000, 2500 > 2x.
	flags = d2.Update(testBar(day, 10, 10, 4495, 4496.2, 4494.8, 4496, 2500))
	if !flags.VolumeClimaxBullish {
		t.Error("should detect bullish volume climax")
	}

	// Spike on a bearish bar.
	d3 := newTestDetector()
	for i := 0; i < 10; i++ {
		d3.Update(testBar(day, 10, i, 4495, 4495.6, 4494.4, 4495.5, 1000))
	}
	flags = d3.Update(testBar(day, 10, 10, 4496, 4496.2, 4494.8, 4495, 2500))
	if !flags.VolumeClimaxBearish {
		t.Error("should detect bearish volume climax")
	}
}

// TestStrengthGrading: two simultaneous same-direction patterns grade strong.
func TestStrengthGrading(t *testing.T) {
	d := newTestDetector()
	day := testDay(0)
	for i := 0; i < 10; i++ {
		d.Update(testBar(day, 10, i, 4495, 4495.6, 4494.4, 4495.5, 1000))
	}

	// Hammer shape AND volume climax on the same bullish bar.
	flags := d.Update(testBar(day, 10, 10, 4495, 4495.4, 4493.2, 4495.3, 3000))
	if !flags.BullishRejection || !flags.VolumeClimaxBullish {
		t.Fatalf("expected hammer + climax, got %+v", flags)
	}
	if flags.Strength() != StrengthStrong {
		t.Errorf("strength = %s, want strong", flags.Strength())
	}
	if flags.SignalDirection() != Long {
		t.Errorf("direction = %s, want LONG", flags.SignalDirection())
	}

	// A single pattern grades moderate.
	single := PatternFlags{BullishRejection: true}
	if single.Strength() != StrengthModerate {
		t.Errorf("single pattern strength = %s, want moderate", single.Strength())
	}
	if (PatternFlags{}).Strength() != StrengthWeak {
		t.Error("no patterns should grade weak")
	}
}
