// FILE: initial_balance.go
// Package main – Initial Balance range tracking and width classification.
//
// InitialBalanceTracker follows the high/low range printed during the opening
// window (default 09:30–10:30), accumulates the volume traded inside it, and
// keeps a bounded rolling history of completed IB ranges so today's range can
// be classified narrow/medium/wide against the multi-day average.
//
// A finished IB is appended to the history on the NEXT session's first bar,
// and only if the window actually completed with a positive range.

package main

import "time"

// IBClass is the width classification of the current Initial Balance.
type IBClass int

const (
	IBClassUnknown IBClass = iota
	IBNarrow
	IBMedium
	IBWide
)

func (c IBClass) String() string {
	switch c {
	case IBNarrow:
		return "narrow"
	case IBMedium:
		return "medium"
	case IBWide:
		return "wide"
	default:
		return "unknown"
	}
}

// IBSnapshot is the read-only view returned after every update.
type IBSnapshot struct {
	IBH      float64
	IBL      float64
	Range    float64
	Midpoint float64
	Volume   float64
	HasRange bool // false until the first in-window bar
	Complete bool
	Class    IBClass
	Ratio    float64 // today's range / rolling average
	AvgRange float64
	Ready    bool
}

// InitialBalanceTracker owns the per-session IB state and the rolling range
// history (oldest evicted beyond rollingDays).
type InitialBalanceTracker struct {
	startMin  int
	endMin    int
	narrowThr float64
	wideThr   float64

	ranges *ring[float64]

	sessionDate time.Time
	ibh, ibl    float64
	hasRange    bool
	volume      float64
	complete    bool
	ready       bool
}

const ibRollingDays = 20

// NewInitialBalanceTracker builds a tracker for the given window (minutes
// since midnight) and classification thresholds.
func NewInitialBalanceTracker(startMin, endMin int, narrowThr, wideThr float64) *InitialBalanceTracker {
	return &InitialBalanceTracker{
		startMin:  startMin,
		endMin:    endMin,
		narrowThr: narrowThr,
		wideThr:   wideThr,
		ranges:    newRing[float64](ibRollingDays),
	}
}

func (t *InitialBalanceTracker) resetSession() {
	t.ibh, t.ibl = 0, 0
	t.hasRange = false
	t.volume = 0
	t.complete = false
}

// Update folds one bar into the tracker and returns the refreshed snapshot.
func (t *InitialBalanceTracker) Update(bar Candle) IBSnapshot {
	day := sessionDay(bar.Time)
	tod := minuteOfDay(bar.Time)

	if !t.sessionDate.Equal(day) {
		// Only sessions with a completed window and a positive range enter
		// the rolling history.
		if t.complete && t.hasRange && t.ibh-t.ibl > 0 {
			t.ranges.Push(t.ibh - t.ibl)
		}
		t.sessionDate = day
		t.resetSession()
	}

	if tod >= t.startMin && tod < t.endMin {
		if !t.hasRange || bar.High > t.ibh {
			t.ibh = bar.High
		}
		if !t.hasRange || bar.Low < t.ibl {
			t.ibl = bar.Low
		}
		t.hasRange = true
		t.volume += bar.Volume
	} else if tod >= t.endMin && !t.complete {
		t.complete = true
		t.ready = t.ranges.Len() >= 5
	}

	return t.Snapshot()
}

// Snapshot returns the current view without processing a bar.
func (t *InitialBalanceTracker) Snapshot() IBSnapshot {
	s := IBSnapshot{
		Volume:   t.volume,
		HasRange: t.hasRange,
		Complete: t.complete,
		Ready:    t.ready,
		Class:    IBClassUnknown,
	}
	if t.hasRange {
		s.IBH = t.ibh
		s.IBL = t.ibl
		s.Range = t.ibh - t.ibl
		s.Midpoint = (t.ibh + t.ibl) / 2
	}
	if avg, ok := mean(t.ranges); ok {
		s.AvgRange = avg
		if t.hasRange {
			if avg == 0 {
				s.Ratio = 1.0
			} else {
				s.Ratio = s.Range / avg
			}
			switch {
			case s.Ratio < t.narrowThr:
				s.Class = IBNarrow
			case s.Ratio > t.wideThr:
				s.Class = IBWide
			default:
				s.Class = IBMedium
			}
		}
	}
	return s
}

// ExtensionAmount reports how far price has extended beyond the IB in the
// given direction, expressed in IB-range multiples. Returns 0 when price is
// inside the range or the range is undefined.
func (t *InitialBalanceTracker) ExtensionAmount(price float64, dir Direction) float64 {
	if !t.hasRange || t.ibh-t.ibl == 0 {
		return 0
	}
	var ext float64
	switch dir {
	case Long:
		ext = t.ibl - price
	case Short:
		ext = price - t.ibh
	default:
		return 0
	}
	if ext <= 0 {
		return 0
	}
	return ext / (t.ibh - t.ibl)
}

// IsPriceExtended checks both sides of the IB and returns the extension
// direction and amount when it meets minExtension; (Flat, 0) otherwise.
func (t *InitialBalanceTracker) IsPriceExtended(price, minExtension float64) (Direction, float64) {
	if !t.hasRange || t.ibh-t.ibl == 0 {
		return Flat, 0
	}
	ibRange := t.ibh - t.ibl
	if price > t.ibh {
		if ext := (price - t.ibh) / ibRange; ext >= minExtension {
			return Short, ext
		}
	}
	if price < t.ibl {
		if ext := (t.ibl - price) / ibRange; ext >= minExtension {
			return Long, ext
		}
	}
	return Flat, 0
}

// StopDistance returns multiplier × IB range; 0 when the range is undefined.
func (t *InitialBalanceTracker) StopDistance(multiplier float64) float64 {
	if !t.hasRange {
		return 0
	}
	return (t.ibh - t.ibl) * multiplier
}
