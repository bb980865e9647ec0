// FILE: replay.go
// Package main – CSV loader and bar-replay runner.
//
// What's here:
//   • loadCSV(path) -> []Candle   : reads time,open,high,low,close,volume
//   • runReplay(ctx, csvPath, engine, gateway)
//       - streams every bar through the engine in timestamp order
//       - marks the paper gateway price before each bar
//       - logs periodic progress and a final equity line
//
// Notes:
//   • Time column accepts RFC3339 or UNIX seconds.
//   • Unknown columns are ignored; headers are case-insensitive.

package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// loadCSV reads a generic candle CSV with headers:
// time|timestamp, open, high, low, close, volume
func loadCSV(path string) ([]Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var out []Candle
	var headers []string
	rowIdx := 0

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if rowIdx == 0 {
			headers = rec
			rowIdx++
			continue
		}
		row := map[string]string{}
		for j, h := range headers {
			k := strings.ToLower(strings.TrimSpace(h))
			if j < len(rec) {
				row[k] = strings.TrimSpace(rec[j])
			}
		}
		ts := first(row, "time", "timestamp")
		op := first(row, "open")
		hp := first(row, "high")
		lp := first(row, "low")
		cp := first(row, "close")
		vp := first(row, "volume", "vol")
		if ts == "" || op == "" || cp == "" {
			continue
		}
		tt, err := parseTimeFlexible(ts)
		if err != nil {
			continue
		}
		o, _ := strconv.ParseFloat(op, 64)
		h, _ := strconv.ParseFloat(hp, 64)
		l, _ := strconv.ParseFloat(lp, 64)
		c, _ := strconv.ParseFloat(cp, 64)
		v, _ := strconv.ParseFloat(vp, 64)
		out = append(out, Candle{Time: tt, Open: o, High: h, Low: l, Close: c, Volume: v})
		rowIdx++
	}

	sortCandles(out)
	return out, nil
}

// parseTimeFlexible supports RFC3339 or UNIX seconds.
func parseTimeFlexible(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("bad time: %s", s)
}

// sortCandles ensures ascending time.
func sortCandles(c []Candle) {
	sort.Slice(c, func(i, j int) bool { return c[i].Time.Before(c[j].Time) })
}

// first returns the first non-empty value for keys in m.
func first(m map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := m[k]; v != "" {
			return v
		}
	}
	return ""
}

// runReplay streams a CSV of minute bars through the engine.
func runReplay(ctx context.Context, csvPath string, engine *Engine, gateway *PaperGateway) {
	candles, err := loadCSV(csvPath)
	if err != nil {
		log.Fatalf("replay load: %v", err)
	}
	if len(candles) == 0 {
		log.Fatalf("replay: no candles in %s", csvPath)
	}

	log.Printf("[REPLAY] %d bars from %s", len(candles), csvPath)

	for i, bar := range candles {
		select {
		case <-ctx.Done():
			log.Println("replay canceled")
			return
		default:
		}

		gateway.MarkPrice(bar.Close)
		engine.OnBar(ctx, bar)

		if i%1000 == 0 {
			stats := engine.Stats()
			log.Printf("[REPLAY] i=%d t=%s phase=%s trades=%d daily=$%.2f equity=%.2f",
				i, bar.Time.Format("2006-01-02 15:04"), engine.Phase(),
				stats.TradesTaken, stats.DailyPnL, engine.Equity())
		}
	}

	engine.FlushSummary()
	log.Printf("Replay complete. Equity=%.2f", engine.Equity())
	setEquityMetric(engine.Equity())
}
