package main

import (
	"testing"
	"time"
)

// testDay returns consecutive weekdays starting Mon 2024-01-08 so weekend
// skipping never interferes with multi-day fixtures.
func testDay(offset int) time.Time {
	days := []int{8, 9, 10, 11, 12, 15, 16, 17, 18, 19}
	return time.Date(2024, time.January, days[offset%len(days)], 0, 0, 0, 0, time.UTC)
}

// testBar builds a bar at hh:mm on the given day.
func testBar(day time.Time, hh, mm int, o, h, l, c, v float64) Candle {
	return Candle{
		Time:   time.Date(day.Year(), day.Month(), day.Day(), hh, mm, 0, 0, day.Location()),
		Open:   o,
		High:   h,
		Low:    l,
		Close:  c,
		Volume: v,
	}
}

// TestParseClock tests "HH:MM" parsing
func TestParseClock(t *testing.T) {
	m, err := parseClock("09:30")
	if err != nil || m != 570 {
		t.Errorf("parseClock(09:30) = %d, %v; want 570, nil", m, err)
	}
	m, err = parseClock("15:45")
	if err != nil || m != 945 {
		t.Errorf("parseClock(15:45) = %d, %v; want 945, nil", m, err)
	}
	for _, bad := range []string{"", "930", "25:00", "09:61", "ab:cd"} {
		if _, err := parseClock(bad); err == nil {
			t.Errorf("parseClock(%q) should fail", bad)
		}
	}
}

// TestRingEviction tests fixed-capacity eviction order
func TestRingEviction(t *testing.T) {
	r := newRing[int](3)
	for i := 1; i <= 5; i++ {
		r.Push(i)
	}
	if r.Len() != 3 {
		t.Fatalf("Len = %d, want 3", r.Len())
	}
	want := []int{3, 4, 5}
	for i, w := range want {
		if got := r.At(i); got != w {
			t.Errorf("At(%d) = %d, want %d", i, got, w)
		}
	}
	last, ok := r.Last()
	if !ok || last != 5 {
		t.Errorf("Last = %d, %v; want 5, true", last, ok)
	}
}

// TestRingMean tests the float mean helper
func TestRingMean(t *testing.T) {
	r := newRing[float64](4)
	if _, ok := mean(r); ok {
		t.Error("mean of empty ring should not be ok")
	}
	r.Push(10)
	r.Push(20)
	avg, ok := mean(r)
	if !ok || avg != 15 {
		t.Errorf("mean = %f, %v; want 15, true", avg, ok)
	}
}

// TestSessionDay truncates to calendar date
func TestSessionDay(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 14, 22, 10, 0, time.UTC)
	d := sessionDay(ts)
	if d.Hour() != 0 || d.Day() != 5 {
		t.Errorf("sessionDay = %v", d)
	}
	if minuteOfDay(ts) != 14*60+22 {
		t.Errorf("minuteOfDay = %d", minuteOfDay(ts))
	}
}
