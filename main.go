// FILE: main.go
// Package main – Program entrypoint and HTTP/metrics server.
//
// Boot sequence:
//   1) loadBotEnv()                – read .env (no shell exports required)
//   2) cfg := loadConfigFromEnv()  – build runtime Config
//   3) wire gateway/journal/engine
//   4) start Prometheus /healthz server on cfg.Port
//   5) runReplay or runFeed based on flags
//
// Flags:
//   -replay <csv>     Replay a CSV of minute bars (time,open,high,low,close,volume)
//   -feed             Stream CSV bars from stdin (one row per line, no header)
//   -symbol <name>    Instrument symbol used for orders and the journal
//
// Example:
//   go run . -replay data/mes_2024.csv
//   tail -f /var/feed/mes.csv | go run . -feed
//
// Notes:
//   - The feed is expected to deliver bars in session-local time, already
//     resolved to a single continuous contract.
//   - No environment exports are needed; keep editing .env and restart.

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// ---- Flags ----
	var csvReplay string
	var feed bool
	var symbol string
	flag.StringVar(&csvReplay, "replay", "", "Path to CSV (time,open,high,low,close,volume)")
	flag.BoolVar(&feed, "feed", false, "Stream CSV bars from stdin (ignores -replay)")
	flag.StringVar(&symbol, "symbol", "MES", "Instrument symbol")
	flag.Parse()

	// ---- Environment & Config ----
	loadBotEnv()
	cfg := loadConfigFromEnv()

	// ---- Gateway / journal / engine wiring ----
	gateway := NewPaperGateway()

	journal, err := OpenTradeJournal(cfg.JournalDB)
	if err != nil {
		log.Fatalf("journal init: %v", err)
	}
	defer journal.Close()

	engine := NewEngine(cfg, symbol, gateway, journal)
	setEquityMetric(engine.Equity())

	// ---- HTTP metrics/health ----
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Port), Handler: mux}
	go func() {
		log.Printf("serving metrics on :%d/metrics", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	// ---- Run selected mode ----
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch {
	case feed:
		runFeed(ctx, engine, gateway)
	case csvReplay != "":
		runReplay(ctx, csvReplay, engine, gateway)
	default:
		flag.Usage()
		os.Exit(2)
	}

	// ---- Graceful shutdown for HTTP server ----
	shutdownCtx, c := context.WithTimeout(context.Background(), 2*time.Second)
	defer c()
	_ = srv.Shutdown(shutdownCtx)
}

// runFeed consumes headerless CSV rows from stdin as they arrive:
// time,open,high,low,close,volume. Malformed rows are skipped with a log line.
func runFeed(ctx context.Context, engine *Engine, gateway *PaperGateway) {
	log.Printf("[FEED] reading bars from stdin")
	sc := bufio.NewScanner(os.Stdin)

	for sc.Scan() {
		select {
		case <-ctx.Done():
			log.Println("feed canceled")
			return
		default:
		}

		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		bar, err := parseFeedRow(line)
		if err != nil {
			log.Printf("[FEED] skipping row: %v", err)
			continue
		}

		gateway.MarkPrice(bar.Close)
		engine.OnBar(ctx, bar)
	}
	if err := sc.Err(); err != nil {
		log.Printf("[FEED] read error: %v", err)
	}
	engine.FlushSummary()
}

// parseFeedRow parses one headerless CSV row into a Candle.
func parseFeedRow(line string) (Candle, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 6 {
		return Candle{}, fmt.Errorf("want 6 fields, got %d", len(parts))
	}
	tt, err := parseTimeFlexible(strings.TrimSpace(parts[0]))
	if err != nil {
		return Candle{}, err
	}
	vals := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i+1]), 64)
		if err != nil {
			return Candle{}, fmt.Errorf("bad field %d: %w", i+1, err)
		}
		vals[i] = v
	}
	return Candle{Time: tt, Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3], Volume: vals[4]}, nil
}
