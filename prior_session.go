// FILE: prior_session.go
// Package main – Prior-session reference levels (PDH/PDL, prior POC and VA).
//
// PriorSessionContext accumulates the current session's OHLC plus the
// developing POC/VAH/VAL, and on the first bar of a new date promotes the
// finished session into a bounded multi-day history. The most recent entry
// becomes the "prior day" every downstream consumer reads.

package main

import "time"

// SessionRecord is one completed session's key levels.
type SessionRecord struct {
	Date  time.Time
	High  float64
	Low   float64
	Open  float64
	Close float64
	POC   float64
	VAH   float64
	VAL   float64
	// HasProfile is false when the session never produced a POC (thin or
	// zero-range tape).
	HasProfile bool
}

// Range returns the session high-low range.
func (r SessionRecord) Range() float64 { return r.High - r.Low }

// PriorSnapshot is the read-only view returned after every update.
type PriorSnapshot struct {
	Prior SessionRecord
	Ready bool
}

// PriorSessionContext owns the rolling session history.
type PriorSessionContext struct {
	startMin int
	endMin   int

	history *ring[SessionRecord]

	sessionDate time.Time
	haveDate    bool

	high, low       float64
	open, lastClose float64
	haveBar         bool
	poc, vah        float64
	val             float64
	haveProfile     bool
}

const priorHistoryDays = 5

// NewPriorSessionContext builds a context tracking the regular session window
// (minutes since midnight).
func NewPriorSessionContext(startMin, endMin int) *PriorSessionContext {
	return &PriorSessionContext{
		startMin: startMin,
		endMin:   endMin,
		history:  newRing[SessionRecord](priorHistoryDays),
	}
}

func (p *PriorSessionContext) resetSession() {
	p.high, p.low = 0, 0
	p.open, p.lastClose = 0, 0
	p.haveBar = false
	p.poc, p.vah, p.val = 0, 0, 0
	p.haveProfile = false
}

// Update folds one bar (with the profile view as of that bar) into the
// context and returns the refreshed snapshot.
func (p *PriorSessionContext) Update(bar Candle, profile ProfileSnapshot) PriorSnapshot {
	day := sessionDay(bar.Time)
	tod := minuteOfDay(bar.Time)

	if !p.haveDate || !p.sessionDate.Equal(day) {
		if p.haveDate && p.haveBar {
			p.history.Push(SessionRecord{
				Date:       p.sessionDate,
				High:       p.high,
				Low:        p.low,
				Open:       p.open,
				Close:      p.lastClose,
				POC:        p.poc,
				VAH:        p.vah,
				VAL:        p.val,
				HasProfile: p.haveProfile,
			})
		}
		p.sessionDate = day
		p.haveDate = true
		p.resetSession()
	}

	// Only regular-session bars shape the record.
	if tod < p.startMin || tod >= p.endMin {
		return p.Snapshot()
	}

	if !p.haveBar {
		p.open = bar.Open
		p.high = bar.High
		p.low = bar.Low
		p.haveBar = true
	}
	if bar.High > p.high {
		p.high = bar.High
	}
	if bar.Low < p.low {
		p.low = bar.Low
	}
	p.lastClose = bar.Close

	if profile.HasPOC {
		p.poc = profile.POC
		p.vah = profile.VAH
		p.val = profile.VAL
		p.haveProfile = true
	}

	return p.Snapshot()
}

// Snapshot returns the current view without processing a bar.
func (p *PriorSessionContext) Snapshot() PriorSnapshot {
	rec, ok := p.history.Last()
	return PriorSnapshot{Prior: rec, Ready: ok}
}

// GapPercent returns (open-priorClose)/priorClose; ok is false without a
// usable prior close.
func (p *PriorSessionContext) GapPercent(openPrice float64) (float64, bool) {
	rec, ok := p.history.Last()
	if !ok || rec.Close == 0 {
		return 0, false
	}
	return (openPrice - rec.Close) / rec.Close, true
}

// IsSignificantGap reports whether |gap| exceeds threshold.
func (p *PriorSessionContext) IsSignificantGap(openPrice, threshold float64) bool {
	gap, ok := p.GapPercent(openPrice)
	if !ok {
		return false
	}
	if gap < 0 {
		gap = -gap
	}
	return gap > threshold
}

// OpenInsideValueArea reports whether a price sits inside the prior session's
// value area. False when no prior profile exists.
func (p *PriorSessionContext) OpenInsideValueArea(openPrice float64) bool {
	rec, ok := p.history.Last()
	if !ok || !rec.HasProfile {
		return false
	}
	return openPrice >= rec.VAL && openPrice <= rec.VAH
}

// OpenAboveValueArea reports whether a price opens above the prior VA.
func (p *PriorSessionContext) OpenAboveValueArea(openPrice float64) bool {
	rec, ok := p.history.Last()
	if !ok || !rec.HasProfile {
		return false
	}
	return openPrice > rec.VAH
}

// OpenBelowValueArea reports whether a price opens below the prior VA.
func (p *PriorSessionContext) OpenBelowValueArea(openPrice float64) bool {
	rec, ok := p.history.Last()
	if !ok || !rec.HasProfile {
		return false
	}
	return openPrice < rec.VAL
}

// OvernightRangeRatio returns (onHigh-onLow)/priorRange; ok is false when the
// prior range is missing or zero.
func (p *PriorSessionContext) OvernightRangeRatio(onHigh, onLow float64) (float64, bool) {
	rec, ok := p.history.Last()
	if !ok || rec.Range() == 0 {
		return 0, false
	}
	return (onHigh - onLow) / rec.Range(), true
}

// AverageRange averages the daily range over up to `days` most recent
// sessions; ok is false when the history is empty.
func (p *PriorSessionContext) AverageRange(days int) (float64, bool) {
	n := p.history.Len()
	if n == 0 {
		return 0, false
	}
	if days > n {
		days = n
	}
	sum := 0.0
	for i := n - days; i < n; i++ {
		sum += p.history.At(i).Range()
	}
	return sum / float64(days), true
}
