// FILE: session.go
// Package main – Session clock, trading phases, and bounded history buffers.
//
// What's here:
//   • Candle       – the normalized OHLCV row the engine uses everywhere
//   • Phase        – the five-stage session state, a pure function of time
//   • clock helpers – "HH:MM" parsing and minute-of-day extraction
//   • ring[T]      – fixed-capacity ring buffer used by every rolling history
//
// Phase is recomputed on every bar; it is never stored as a transition log.

package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Candle is the normalized OHLCV row the engine uses everywhere. Timestamps
// are session-local (the feed resolves timezone and contract rolls upstream).
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Phase is the session state machine position, derived purely from time of day.
type Phase int

const (
	PhasePreMarket Phase = iota
	PhaseIBFormation
	PhaseTrading
	PhaseEODManagement
	PhaseClosed
)

// String implements fmt.Stringer for pretty logging.
func (p Phase) String() string {
	switch p {
	case PhasePreMarket:
		return "PRE_MARKET"
	case PhaseIBFormation:
		return "IB_FORMATION"
	case PhaseTrading:
		return "TRADING"
	case PhaseEODManagement:
		return "EOD_MANAGEMENT"
	case PhaseClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// parseClock converts "HH:MM" into minutes since midnight.
func parseClock(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("bad clock: %s", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("bad clock: %s", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("bad clock: %s", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("bad clock: %s", s)
	}
	return h*60 + m, nil
}

// minuteOfDay returns minutes since midnight in the bar's own location.
func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// sessionDay truncates a timestamp to its calendar date (session-local).
func sessionDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ---- Bounded rolling histories ----

// ring is a fixed-capacity ring buffer. Pushing beyond capacity evicts the
// oldest element. Backing storage is allocated once; the per-bar hot path
// never allocates.
type ring[T any] struct {
	buf  []T
	head int // index of the oldest element
	n    int
}

func newRing[T any](capacity int) *ring[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &ring[T]{buf: make([]T, capacity)}
}

func (r *ring[T]) Push(v T) {
	if r.n < len(r.buf) {
		r.buf[(r.head+r.n)%len(r.buf)] = v
		r.n++
		return
	}
	r.buf[r.head] = v
	r.head = (r.head + 1) % len(r.buf)
}

func (r *ring[T]) Len() int { return r.n }

// At returns the i-th element, oldest first.
func (r *ring[T]) At(i int) T {
	return r.buf[(r.head+i)%len(r.buf)]
}

// Last returns the most recently pushed element; ok is false when empty.
func (r *ring[T]) Last() (T, bool) {
	var zero T
	if r.n == 0 {
		return zero, false
	}
	return r.At(r.n - 1), true
}

// Values copies out the elements oldest-first. Test/reporting convenience;
// not used on the per-bar path.
func (r *ring[T]) Values() []T {
	out := make([]T, r.n)
	for i := 0; i < r.n; i++ {
		out[i] = r.At(i)
	}
	return out
}

func (r *ring[T]) Clear() {
	r.head, r.n = 0, 0
}

// mean averages the contents of a float ring; ok is false when empty.
func mean(r *ring[float64]) (float64, bool) {
	if r.Len() == 0 {
		return 0, false
	}
	sum := 0.0
	for i := 0; i < r.Len(); i++ {
		sum += r.At(i)
	}
	return sum / float64(r.Len()), true
}
