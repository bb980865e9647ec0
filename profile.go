// FILE: profile.go
// Package main – Session volume-at-price profile (POC / value area).
//
// VolumeProfileEngine maintains a per-session histogram of traded volume by
// price bucket and derives the developing Point of Control (POC) and value
// area (VAH/VAL). It resets itself when a new session date is observed at or
// after the session start time.
//
// Buckets are keyed by integer tick index round(price/tickSize), never by a
// float price: two prices that round to the same tick always hit the same
// bucket regardless of floating representation.
//
// Distribution: each bar's volume is spread over every bucket in the bar's
// tick-rounded [low, high] range with weight 1/(1+d) where d is the bucket's
// distance in ticks from the bar's typical price bucket (H+L+C)/3. Weights
// are normalized so the bar contributes exactly bar.Volume to the histogram.
// This is a deliberate approximation of trade-level volume-at-price from
// bar-level OHLCV data.

package main

import (
	"math"
	"sort"
	"time"
)

// ProfileSnapshot is the read-only view returned after every update.
type ProfileSnapshot struct {
	POC         float64
	POCVolume   float64
	VAH         float64
	VAL         float64
	TotalVolume float64
	HasPOC      bool
	Ready       bool
}

// VolumeProfileEngine owns the per-session volume-at-price histogram.
type VolumeProfileEngine struct {
	tickSize     float64
	valueArea    float64 // target fraction of total volume
	sessionStart int     // minute of day

	hist        map[int64]float64
	totalVolume float64
	sessionDate time.Time
	barCount    int

	pocTick   int64
	pocVolume float64
	hasPOC    bool
	vahTick   int64
	valTick   int64
	ready     bool

	last ProfileSnapshot
}

// NewVolumeProfileEngine builds an engine for the given tick size, value-area
// fraction, and session start (minutes since midnight).
func NewVolumeProfileEngine(tickSize, valueAreaFraction float64, sessionStart int) *VolumeProfileEngine {
	return &VolumeProfileEngine{
		tickSize:     tickSize,
		valueArea:    valueAreaFraction,
		sessionStart: sessionStart,
		hist:         make(map[int64]float64),
	}
}

// Reset clears all session state. Called automatically on session change.
func (v *VolumeProfileEngine) Reset() {
	v.hist = make(map[int64]float64)
	v.totalVolume = 0
	v.barCount = 0
	v.pocTick, v.pocVolume, v.hasPOC = 0, 0, false
	v.vahTick, v.valTick = 0, 0
	v.ready = false
	v.last = ProfileSnapshot{}
}

func (v *VolumeProfileEngine) tickOf(price float64) int64 {
	return int64(math.Round(price / v.tickSize))
}

func (v *VolumeProfileEngine) priceOf(tick int64) float64 {
	return float64(tick) * v.tickSize
}

// Update folds one bar into the histogram and returns the refreshed snapshot.
// Bars before the session start are ignored (snapshot unchanged).
func (v *VolumeProfileEngine) Update(bar Candle) ProfileSnapshot {
	day := sessionDay(bar.Time)
	tod := minuteOfDay(bar.Time)

	if !v.sessionDate.Equal(day) && tod >= v.sessionStart {
		v.Reset()
		v.sessionDate = day
	}
	if tod < v.sessionStart {
		return v.last
	}

	v.barCount++
	v.distribute(bar)
	v.recompute()

	if v.barCount >= 5 && v.hasPOC {
		v.ready = true
	}

	v.last = v.snapshot()
	return v.last
}

// distribute spreads bar.Volume across the tick buckets the bar touched.
// A bar with zero high-low range contributes nothing (guarded, not an error).
func (v *VolumeProfileEngine) distribute(bar Candle) {
	if bar.Volume <= 0 || bar.High <= bar.Low {
		return
	}

	lowTick := v.tickOf(bar.Low)
	highTick := v.tickOf(bar.High)
	typicalTick := v.tickOf((bar.High + bar.Low + bar.Close) / 3)

	totalWeight := 0.0
	for t := lowTick; t <= highTick; t++ {
		d := t - typicalTick
		if d < 0 {
			d = -d
		}
		totalWeight += 1.0 / (1.0 + float64(d))
	}
	if totalWeight == 0 {
		return
	}

	for t := lowTick; t <= highTick; t++ {
		d := t - typicalTick
		if d < 0 {
			d = -d
		}
		w := (1.0 / (1.0 + float64(d))) / totalWeight
		v.hist[t] += w * bar.Volume
	}
	v.totalVolume += bar.Volume
}

// recompute rescans the histogram for POC and re-expands the value area.
func (v *VolumeProfileEngine) recompute() {
	if len(v.hist) == 0 {
		return
	}

	ticks := make([]int64, 0, len(v.hist))
	for t := range v.hist {
		ticks = append(ticks, t)
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i] < ticks[j] })

	// POC: strictly-greater comparison over ascending ticks means an exact
	// volume tie resolves to the lower price.
	pocIdx := 0
	maxVol := v.hist[ticks[0]]
	for i := 1; i < len(ticks); i++ {
		if vol := v.hist[ticks[i]]; vol > maxVol {
			maxVol = vol
			pocIdx = i
		}
	}
	v.pocTick = ticks[pocIdx]
	v.pocVolume = maxVol
	v.hasPOC = true

	// Value area: expand from POC toward the heavier neighbor until the
	// accumulated volume reaches the target fraction. Ties extend upward.
	target := v.totalVolume * v.valueArea
	lo, hi := pocIdx, pocIdx
	acc := maxVol
	for acc < target {
		canUp := hi+1 < len(ticks)
		canDown := lo-1 >= 0
		if !canUp && !canDown {
			break
		}
		volUp, volDown := 0.0, 0.0
		if canUp {
			volUp = v.hist[ticks[hi+1]]
		}
		if canDown {
			volDown = v.hist[ticks[lo-1]]
		}
		switch {
		case canUp && volUp >= volDown:
			hi++
			acc += volUp
		case canDown:
			lo--
			acc += volDown
		default:
			hi++
			acc += volUp
		}
	}
	v.vahTick = ticks[hi]
	v.valTick = ticks[lo]
}

func (v *VolumeProfileEngine) snapshot() ProfileSnapshot {
	s := ProfileSnapshot{
		TotalVolume: v.totalVolume,
		HasPOC:      v.hasPOC,
		Ready:       v.ready,
	}
	if v.hasPOC {
		s.POC = v.priceOf(v.pocTick)
		s.POCVolume = v.pocVolume
		s.VAH = v.priceOf(v.vahTick)
		s.VAL = v.priceOf(v.valTick)
	}
	return s
}

// Snapshot returns the last computed view without processing a bar.
func (v *VolumeProfileEngine) Snapshot() ProfileSnapshot { return v.last }

// DistanceToPOC reports price minus POC; ok is false before any POC exists.
func (v *VolumeProfileEngine) DistanceToPOC(price float64) (float64, bool) {
	if !v.hasPOC {
		return 0, false
	}
	return price - v.priceOf(v.pocTick), true
}

// InValueArea reports whether price sits inside [VAL, VAH].
func (v *VolumeProfileEngine) InValueArea(price float64) bool {
	if !v.hasPOC {
		return false
	}
	return price >= v.priceOf(v.valTick) && price <= v.priceOf(v.vahTick)
}

// bucketVolume exposes a single bucket's accumulated volume for tests.
func (v *VolumeProfileEngine) bucketVolume(price float64) float64 {
	return v.hist[v.tickOf(price)]
}
