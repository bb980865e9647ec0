// FILE: metrics.go
// Package main – Prometheus metrics for observability.
//
// Exposes the primary metrics the engine updates during operation:
//   • bot_phase               – session phase as a numeric gauge (0..4)
//   • bot_equity_usd          – current marked equity (gauge)
//   • bot_daily_pnl_usd       – running daily PnL (gauge)
//   • bot_position_contracts  – signed open position size (gauge)
//   • bot_setup_score         – last computed setup score (gauge)
//   • bot_trades_total        – entries placed (counter)
//   • bot_trade_results_total{result} – closed trades by result (win|loss)
//   • bot_exit_reasons_total{reason}  – position closes by reason
//
// These are registered in init() and served by the HTTP handler started in
// main.go at /metrics (Prometheus text exposition format).

package main

import "github.com/prometheus/client_golang/prometheus"

var (
	mtxPhase = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_phase",
			Help: "Session phase (0=pre_market 1=ib_formation 2=trading 3=eod 4=closed)",
		},
	)

	mtxEquity = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_equity_usd",
			Help: "Equity in USD",
		},
	)

	mtxDailyPnL = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_daily_pnl_usd",
			Help: "Running daily PnL in USD",
		},
	)

	mtxPosition = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_position_contracts",
			Help: "Signed open position size in contracts",
		},
	)

	mtxSetupScore = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_setup_score",
			Help: "Most recent setup score (0-10)",
		},
	)

	mtxTrades = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_trades_total",
			Help: "Entries placed",
		},
	)

	mtxResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_trade_results_total",
			Help: "Closed trades by result",
		},
		[]string{"result"}, // win|loss
	)

	mtxExitReasons = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_exit_reasons_total",
			Help: "Position closes by reason",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(mtxPhase, mtxEquity, mtxDailyPnL)
	prometheus.MustRegister(mtxPosition, mtxSetupScore)
	prometheus.MustRegister(mtxTrades, mtxResults, mtxExitReasons)
}

// Helper setters used by the engine; kept here so engine code stays terse.
func setPhaseMetric(p Phase)       { mtxPhase.Set(float64(p)) }
func setEquityMetric(v float64)    { mtxEquity.Set(v) }
func setPnLMetric(v float64)       { mtxDailyPnL.Set(v) }
func setPositionMetric(signed int) { mtxPosition.Set(float64(signed)) }
func setScoreMetric(score int)     { mtxSetupScore.Set(float64(score)) }
func incTradeMetric()              { mtxTrades.Inc() }
func incWinMetric()                { mtxResults.WithLabelValues("win").Inc() }
func incLossMetric()               { mtxResults.WithLabelValues("loss").Inc() }
func incExitReasonMetric(r string) { mtxExitReasons.WithLabelValues(r).Inc() }
