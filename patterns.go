// FILE: patterns.go
// Package main – Candlestick confirmation signals for zone entries.
//
// CandleConfirmationDetector watches a short rolling window of completed bars
// and flags three families of reversal evidence on the latest bar:
//   • rejection candles (hammer / shooting star, plus the doji variants)
//   • engulfing bodies
//   • volume climax (outsized volume on a directional bar)
//
// The detector is stateless across sessions on purpose: a confirmation is a
// property of the last one or two bars, not of the day.

package main

// PatternFlags reports which confirmation patterns fired on the latest bar.
type PatternFlags struct {
	BullishRejection    bool
	BearishRejection    bool
	BullishEngulfing    bool
	BearishEngulfing    bool
	VolumeClimaxBullish bool
	VolumeClimaxBearish bool
}

// AnyBullish reports whether any bullish confirmation fired.
func (p PatternFlags) AnyBullish() bool {
	return p.BullishRejection || p.BullishEngulfing || p.VolumeClimaxBullish
}

// AnyBearish reports whether any bearish confirmation fired.
func (p PatternFlags) AnyBearish() bool {
	return p.BearishRejection || p.BearishEngulfing || p.VolumeClimaxBearish
}

// PatternStrength grades the latest confirmation set.
type PatternStrength int

const (
	StrengthWeak PatternStrength = iota
	StrengthModerate
	StrengthStrong
)

func (s PatternStrength) String() string {
	switch s {
	case StrengthStrong:
		return "strong"
	case StrengthModerate:
		return "moderate"
	default:
		return "weak"
	}
}

// Strength counts same-direction patterns: two or more is strong, exactly one
// is moderate, none is weak.
func (p PatternFlags) Strength() PatternStrength {
	bull, bear := 0, 0
	for _, f := range []bool{p.BullishRejection, p.BullishEngulfing, p.VolumeClimaxBullish} {
		if f {
			bull++
		}
	}
	for _, f := range []bool{p.BearishRejection, p.BearishEngulfing, p.VolumeClimaxBearish} {
		if f {
			bear++
		}
	}
	switch n := max(bull, bear); {
	case n >= 2:
		return StrengthStrong
	case n == 1:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

// SignalDirection collapses the flags into a net direction; Flat when nothing
// fired or when bullish and bearish evidence conflict.
func (p PatternFlags) SignalDirection() Direction {
	switch {
	case p.AnyBullish() && p.AnyBearish():
		return Flat
	case p.AnyBullish():
		return Long
	case p.AnyBearish():
		return Short
	default:
		return Flat
	}
}

// CandleConfirmationDetector holds the rolling bar/volume windows.
type CandleConfirmationDetector struct {
	wickBodyRatio   float64
	volumeClimaxMul float64

	bars    *ring[Candle]
	volumes *ring[float64]

	last PatternFlags
}

const (
	patternLookback = 5
	volumeLookback  = 20
	volumeAvgWindow = 10
	dojiBodyEpsilon = 0.0001
)

// NewCandleConfirmationDetector builds a detector with the given wick/body
// ratio and volume climax multiplier (2.0 and 2.0 are the working defaults).
func NewCandleConfirmationDetector(wickBodyRatio, volumeClimaxMul float64) *CandleConfirmationDetector {
	return &CandleConfirmationDetector{
		wickBodyRatio:   wickBodyRatio,
		volumeClimaxMul: volumeClimaxMul,
		bars:            newRing[Candle](patternLookback),
		volumes:         newRing[float64](volumeLookback),
	}
}

// Update folds one completed bar in and returns the patterns seen on it.
func (d *CandleConfirmationDetector) Update(bar Candle) PatternFlags {
	d.bars.Push(bar)
	d.volumes.Push(bar.Volume)

	var flags PatternFlags
	if d.bars.Len() < 2 {
		d.last = flags
		return flags
	}

	current := d.bars.At(d.bars.Len() - 1)
	previous := d.bars.At(d.bars.Len() - 2)

	switch d.rejection(current) {
	case Long:
		flags.BullishRejection = true
	case Short:
		flags.BearishRejection = true
	}

	switch d.engulfing(current, previous) {
	case Long:
		flags.BullishEngulfing = true
	case Short:
		flags.BearishEngulfing = true
	}

	switch d.volumeClimax(current) {
	case Long:
		flags.VolumeClimaxBullish = true
	case Short:
		flags.VolumeClimaxBearish = true
	}

	d.last = flags
	return flags
}

// Last returns the flags computed on the most recent bar.
func (d *CandleConfirmationDetector) Last() PatternFlags { return d.last }

// rejection classifies hammer (Long) and shooting star (Short) shapes. A
// near-zero body is treated as a doji and judged on wick dominance alone.
func (d *CandleConfirmationDetector) rejection(bar Candle) Direction {
	body := bar.Close - bar.Open
	if body < 0 {
		body = -body
	}
	upperWick := bar.High - max(bar.Close, bar.Open)
	lowerWick := min(bar.Close, bar.Open) - bar.Low

	if body < dojiBodyEpsilon {
		if lowerWick > upperWick*2 {
			return Long // dragonfly doji
		}
		if upperWick > lowerWick*2 {
			return Short // gravestone doji
		}
		return Flat
	}

	if lowerWick >= body*d.wickBodyRatio && upperWick < body {
		return Long
	}
	if upperWick >= body*d.wickBodyRatio && lowerWick < body {
		return Short
	}
	return Flat
}

// engulfing requires a strictly larger opposite-color body whose open/close
// straddle the previous bar's body.
func (d *CandleConfirmationDetector) engulfing(current, previous Candle) Direction {
	prevBody := previous.Close - previous.Open
	if prevBody < 0 {
		prevBody = -prevBody
	}
	currBody := current.Close - current.Open
	if currBody < 0 {
		currBody = -currBody
	}
	if currBody <= prevBody {
		return Flat
	}

	if previous.Close < previous.Open &&
		current.Close > current.Open &&
		current.Open <= previous.Close &&
		current.Close >= previous.Open {
		return Long
	}
	if previous.Close > previous.Open &&
		current.Close < current.Open &&
		current.Open >= previous.Close &&
		current.Close <= previous.Open {
		return Short
	}
	return Flat
}

// volumeClimax fires when the bar's volume exceeds the multiplier times the
// average of the last ten volumes, directed by the candle color.
func (d *CandleConfirmationDetector) volumeClimax(bar Candle) Direction {
	if d.volumes.Len() < volumeAvgWindow {
		return Flat
	}
	sum := 0.0
	for i := d.volumes.Len() - volumeAvgWindow; i < d.volumes.Len(); i++ {
		sum += d.volumes.At(i)
	}
	avg := sum / volumeAvgWindow

	if bar.Volume <= avg*d.volumeClimaxMul {
		return Flat
	}
	switch {
	case bar.Close > bar.Open:
		return Long
	case bar.Close < bar.Open:
		return Short
	default:
		return Flat
	}
}

// Reset clears the rolling windows.
func (d *CandleConfirmationDetector) Reset() {
	d.bars.Clear()
	d.volumes.Clear()
	d.last = PatternFlags{}
}
