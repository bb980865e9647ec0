// FILE: engine.go
// Package main – Phase-driven decision engine (setup scoring + position risk).
//
// Engine is the orchestrator. Each bar flows through the five session
// components in a fixed order (profile → IB → open type → prior session →
// patterns), then the phase handler runs:
//   • PRE_MARKET      – daily reset, prior-day context logging
//   • IB_FORMATION    – observe only, log the completed IB once
//   • TRADING         – look for fade setups, manage any open position
//   • EOD_MANAGEMENT  – no new entries, manage/tighten
//   • CLOSED          – force-flat
//
// The engine issues market orders optimistically: in-memory position state is
// updated as soon as the order is routed; the gateway remains the authority
// on actual fills.

package main

import (
	"context"
	"log"
	"time"
)

// Position is the engine's single mutable position record. Direction Flat
// means no position; the struct is zeroed on every full close.
type Position struct {
	Dir            Direction
	EntryPrice     float64
	StopLoss       float64
	TargetPOC      float64 // refreshed from the live profile every bar
	TargetMidpoint float64 // static IB midpoint scale-out level
	Quantity       int
	RemainingQty   int
	AtBreakeven    bool
	TookPartial    bool
	EntryTime      time.Time
	SetupScore     int
}

// DailyStats enforces the daily loss cap and feeds the end-of-day summary.
type DailyStats struct {
	Date        time.Time
	TradesTaken int
	Wins        int
	Losses      int
	DailyPnL    float64
}

// Engine wires the session components to an execution gateway.
type Engine struct {
	cfg     Config
	symbol  string
	gateway ExecutionGateway
	journal *TradeJournal // nil disables journaling

	profile  *VolumeProfileEngine
	ib       *InitialBalanceTracker
	openType *OpenTypeClassifier
	prior    *PriorSessionContext
	patterns *CandleConfirmationDetector

	phase  Phase
	pos    Position
	stats  DailyStats
	equity float64

	loggedPrior bool
	loggedIB    bool
}

// NewEngine constructs the engine and all of its session components.
func NewEngine(cfg Config, symbol string, gw ExecutionGateway, journal *TradeJournal) *Engine {
	return &Engine{
		cfg:     cfg,
		symbol:  symbol,
		gateway: gw,
		journal: journal,
		profile: NewVolumeProfileEngine(cfg.TickSize, cfg.ValueAreaFraction, cfg.MarketOpen),
		ib: NewInitialBalanceTracker(cfg.MarketOpen, cfg.IBEnd,
			cfg.IBNarrowThreshold, cfg.IBWideThreshold),
		openType: NewOpenTypeClassifier(cfg.MarketOpen, cfg.OpenAnalysisMinutes),
		prior:    NewPriorSessionContext(cfg.MarketOpen, cfg.MarketClose),
		patterns: NewCandleConfirmationDetector(2.0, 2.0),
		phase:    PhasePreMarket,
		equity:   cfg.USDEquity,
	}
}

// Equity returns the engine's current marked equity.
func (e *Engine) Equity() float64 { return e.equity }

// Stats returns a copy of today's statistics.
func (e *Engine) Stats() DailyStats { return e.stats }

// Position returns a copy of the current position record.
func (e *Engine) Position() Position { return e.pos }

// Phase returns the phase computed on the most recent bar.
func (e *Engine) Phase() Phase { return e.phase }

// phaseFor maps a minute-of-day onto the session state machine.
func (e *Engine) phaseFor(tod int) Phase {
	switch {
	case tod < e.cfg.MarketOpen:
		return PhasePreMarket
	case tod < e.cfg.IBEnd:
		return PhaseIBFormation
	case tod < e.cfg.NewEntryCutoff:
		return PhaseTrading
	case tod < e.cfg.CloseAllTime:
		return PhaseEODManagement
	default:
		return PhaseClosed
	}
}

// OnBar processes exactly one bar to completion. Bars must arrive in
// non-decreasing timestamp order; weekend bars are skipped outright.
func (e *Engine) OnBar(ctx context.Context, bar Candle) {
	if wd := bar.Time.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return
	}

	// Daily reset keys on the date change itself, not on a pre-market bar,
	// so a feed that opens mid-session still resets exactly once.
	day := sessionDay(bar.Time)
	if !e.stats.Date.Equal(day) {
		e.logDailySummary()
		e.stats = DailyStats{Date: day}
		e.loggedPrior = false
		e.loggedIB = false
	}

	e.phase = e.phaseFor(minuteOfDay(bar.Time))
	setPhaseMetric(e.phase)

	profSnap := e.profile.Update(bar)
	ibSnap := e.ib.Update(bar)
	openSnap := e.openType.Update(bar)
	priorSnap := e.prior.Update(bar, profSnap)
	flags := e.patterns.Update(bar)

	switch e.phase {
	case PhasePreMarket:
		e.handlePreMarket(priorSnap)
	case PhaseIBFormation:
		e.handleIBFormation(ibSnap, openSnap)
	case PhaseTrading:
		if e.pos.Dir != Flat {
			e.managePosition(ctx, bar, profSnap, false)
		} else {
			e.checkEntry(ctx, bar, ibSnap, profSnap, openSnap, flags)
		}
	case PhaseEODManagement:
		if e.pos.Dir != Flat {
			e.managePosition(ctx, bar, profSnap, true)
		}
	case PhaseClosed:
		if e.pos.Dir != Flat {
			e.closePosition(ctx, bar.Close, "session close")
		}
	}
}

func (e *Engine) handlePreMarket(prior PriorSnapshot) {
	if prior.Ready && !e.loggedPrior {
		rec := prior.Prior
		log.Printf("[CTX] prior day: PDH=%.2f PDL=%.2f range=%.2f POC=%.2f VA=[%.2f, %.2f]",
			rec.High, rec.Low, rec.Range(), rec.POC, rec.VAL, rec.VAH)
		e.loggedPrior = true
	}
}

func (e *Engine) handleIBFormation(ib IBSnapshot, open OpenSnapshot) {
	if ib.Complete && !e.loggedIB {
		log.Printf("[IB] complete: range=%.2f class=%s (%.1f%% of avg) IBH=%.2f IBL=%.2f mid=%.2f",
			ib.Range, ib.Class, ib.Ratio*100, ib.IBH, ib.IBL, ib.Midpoint)
		if open.Classified {
			log.Printf("[OPEN] %s", open.Class.Description())
			if open.TrendDayLikely {
				log.Printf("[OPEN] open drive detected, skipping session")
			}
		}
		e.loggedIB = true
	}
}

// checkEntry evaluates a fade setup on the current bar. Every failed gate
// degrades to "no action this bar" without touching state.
func (e *Engine) checkEntry(ctx context.Context, bar Candle, ib IBSnapshot,
	prof ProfileSnapshot, open OpenSnapshot, flags PatternFlags) {

	price := bar.Close

	if !ib.Ready || !prof.Ready || !ib.Complete {
		return
	}
	if open.Classified && open.Class == OpenDrive {
		return
	}
	if e.stats.DailyPnL <= -(e.cfg.MaxDailyRisk * e.equity) {
		return
	}
	if !ib.HasRange || ib.Range == 0 {
		return
	}

	var dir Direction
	var extension float64
	switch {
	case price > ib.IBH:
		dir = Short
		extension = e.ib.ExtensionAmount(price, Short)
	case price < ib.IBL:
		dir = Long
		extension = e.ib.ExtensionAmount(price, Long)
	default:
		return
	}
	if extension == 0 {
		return
	}
	if extension < e.cfg.MinExtension || extension > e.cfg.MaxExtension {
		return
	}

	confirmed := false
	if dir == Long {
		confirmed = flags.AnyBullish()
	} else {
		confirmed = flags.AnyBearish()
	}
	if !confirmed {
		return
	}

	if !prof.HasPOC {
		return
	}
	stopDistance := ib.Range * e.cfg.StopIBMultiplier

	var stop, profitDistance float64
	if dir == Long {
		stop = price - stopDistance
		profitDistance = prof.POC - price
	} else {
		stop = price + stopDistance
		profitDistance = price - prof.POC
	}
	// POC must sit on the profit side of the entry.
	if profitDistance <= 0 {
		return
	}
	rr := profitDistance / stopDistance
	if rr < e.cfg.MinRRRatio {
		return
	}

	// Volume filter: extension bars printing below the IB's per-minute
	// average suggest the move is running out of participation.
	ibMinutes := float64(e.cfg.IBEnd - e.cfg.MarketOpen)
	volumeDeclining := true
	if ib.Volume > 0 && ibMinutes > 0 {
		volumeDeclining = bar.Volume < ib.Volume/ibMinutes
	}

	score := e.setupScore(bar.Time, ib, extension, confirmed, volumeDeclining, rr)
	setScoreMetric(score)
	if score < e.cfg.MinScoreToTrade {
		log.Printf("DEBUG setup score %d below minimum %d, skipping", score, e.cfg.MinScoreToTrade)
		return
	}

	e.executeEntry(ctx, dir, price, stop, prof.POC, ib, score, bar.Time)
}

// setupScore grades a candidate setup 0-10.
func (e *Engine) setupScore(at time.Time, ib IBSnapshot, extension float64,
	confirmed, volumeDeclining bool, rr float64) int {

	score := 0

	if ib.Class == IBMedium || ib.Class == IBWide {
		score += 2
	}

	// Non-drive day: the open-drive gate already filtered, always awarded.
	score += 2

	if extension >= e.cfg.OptimalExtensionLow && extension <= e.cfg.OptimalExtensionHigh {
		score += 2
	}
	if confirmed {
		score++
	}
	if volumeDeclining {
		score++
	}
	if rr >= 2.5 {
		score++
	}

	tod := minuteOfDay(at)
	if tod >= e.cfg.OptimalWindowStart && tod <= e.cfg.OptimalWindowEnd {
		score++
	}

	return score
}

// positionSize converts risk budget into whole contracts.
func (e *Engine) positionSize(stopDistance float64, class IBClass) int {
	if stopDistance <= 0 {
		return 0
	}

	sizeMult := e.cfg.MediumIBSizeMult
	switch class {
	case IBNarrow:
		sizeMult = e.cfg.NarrowIBSizeMult
	case IBWide:
		sizeMult = e.cfg.WideIBSizeMult
	}

	riskAmount := e.equity * e.cfg.RiskPerTrade * sizeMult
	riskPerContract := stopDistance * e.cfg.ContractMultiplier
	contracts := int(riskAmount / riskPerContract)

	if contracts == 0 && e.equity > e.cfg.MinCapitalUSD {
		contracts = 1
	}
	return contracts
}

func (e *Engine) executeEntry(ctx context.Context, dir Direction, entry, stop, targetPOC float64,
	ib IBSnapshot, score int, at time.Time) {

	stopDistance := entry - stop
	if stopDistance < 0 {
		stopDistance = -stopDistance
	}
	qty := e.positionSize(stopDistance, ib.Class)
	if qty == 0 {
		log.Printf("DEBUG computed quantity is 0, skipping trade")
		return
	}

	signed := qty
	if dir == Short {
		signed = -qty
	}
	order, err := e.gateway.PlaceMarketOrder(ctx, e.symbol, signed)
	if err != nil {
		log.Printf("[ENTRY] order rejected: %v", err)
		return
	}

	e.pos = Position{
		Dir:            dir,
		EntryPrice:     entry,
		StopLoss:       stop,
		TargetPOC:      targetPOC,
		TargetMidpoint: ib.Midpoint,
		Quantity:       qty,
		RemainingQty:   qty,
		EntryTime:      at,
		SetupScore:     score,
	}
	e.stats.TradesTaken++
	incTradeMetric()
	setPositionMetric(signed)

	log.Printf("[ENTRY] %s id=%s price=%.2f qty=%d stop=%.2f poc=%.2f mid=%.2f score=%d",
		dir, order.ID, entry, qty, stop, targetPOC, ib.Midpoint, score)

	e.journal.RecordEntry(at, e.symbol, dir, entry, stop, targetPOC, qty, score)
}

// managePosition runs the per-bar exit logic: stop, breakeven, partial at the
// IB midpoint, full close at the live POC, and EOD tightening.
func (e *Engine) managePosition(ctx context.Context, bar Candle, prof ProfileSnapshot, eodMode bool) {
	price := bar.Close

	// The POC target is dynamic: it follows the developing profile.
	if prof.HasPOC {
		e.pos.TargetPOC = prof.POC
	}

	stopHit := (e.pos.Dir == Long && price <= e.pos.StopLoss) ||
		(e.pos.Dir == Short && price >= e.pos.StopLoss)
	if stopHit {
		e.closePosition(ctx, price, "stop loss hit")
		return
	}

	var profit, stopDistance float64
	if e.pos.Dir == Long {
		profit = price - e.pos.EntryPrice
		stopDistance = e.pos.EntryPrice - e.pos.StopLoss
	} else {
		profit = e.pos.EntryPrice - price
		stopDistance = e.pos.StopLoss - e.pos.EntryPrice
	}

	// Breakeven move is one-way: it never reverts within the trade.
	if !e.pos.AtBreakeven && profit >= stopDistance {
		e.pos.StopLoss = e.pos.EntryPrice
		e.pos.AtBreakeven = true
		log.Printf("[MANAGE] moved stop to breakeven: %.2f", e.pos.EntryPrice)
	}

	midpointHit := (e.pos.Dir == Long && price >= e.pos.TargetMidpoint) ||
		(e.pos.Dir == Short && price <= e.pos.TargetMidpoint)
	if !e.pos.TookPartial && midpointHit {
		partial := e.pos.RemainingQty / 2
		if partial > 0 {
			signed := -partial
			if e.pos.Dir == Short {
				signed = partial
			}
			if _, err := e.gateway.PlaceMarketOrder(ctx, e.symbol, signed); err != nil {
				log.Printf("[MANAGE] partial exit rejected: %v", err)
			} else {
				e.pos.RemainingQty -= partial
				e.pos.TookPartial = true
				log.Printf("[MANAGE] partial exit at midpoint (%.2f): %d contracts",
					e.pos.TargetMidpoint, partial)
			}
		}
	}

	pocHit := (e.pos.Dir == Long && price >= e.pos.TargetPOC) ||
		(e.pos.Dir == Short && price <= e.pos.TargetPOC)
	if pocHit {
		e.closePosition(ctx, price, "POC target hit")
		return
	}

	if eodMode && minuteOfDay(bar.Time) >= e.cfg.TightenStopsTime {
		e.tightenStop(price)
	}
}

// tightenStop halves the stop distance toward current price, monotonically.
func (e *Engine) tightenStop(price float64) {
	if e.pos.Dir == Long {
		newStop := price - (price-e.pos.StopLoss)*0.5
		if newStop > e.pos.StopLoss {
			e.pos.StopLoss = newStop
			log.Printf("[MANAGE] EOD tightened stop: %.2f", newStop)
		}
	} else {
		newStop := price + (e.pos.StopLoss-price)*0.5
		if newStop < e.pos.StopLoss {
			e.pos.StopLoss = newStop
			log.Printf("[MANAGE] EOD tightened stop: %.2f", newStop)
		}
	}
}

// closePosition flattens the position at the given price. PnL is booked on
// the full original quantity against the single daily ledger.
func (e *Engine) closePosition(ctx context.Context, price float64, reason string) {
	var pnl float64
	if e.pos.Dir == Long {
		pnl = (price - e.pos.EntryPrice) * float64(e.pos.Quantity) * e.cfg.ContractMultiplier
	} else {
		pnl = (e.pos.EntryPrice - price) * float64(e.pos.Quantity) * e.cfg.ContractMultiplier
	}

	if err := e.gateway.Liquidate(ctx, e.symbol); err != nil {
		log.Printf("[EXIT] liquidate error (state reset anyway): %v", err)
	}

	e.stats.DailyPnL += pnl
	e.equity += pnl
	if pnl > 0 {
		e.stats.Wins++
		incWinMetric()
	} else {
		e.stats.Losses++
		incLossMetric()
	}
	setPnLMetric(e.stats.DailyPnL)
	setEquityMetric(e.equity)
	setPositionMetric(0)
	incExitReasonMetric(reason)

	log.Printf("[EXIT] %s | entry=%.2f exit=%.2f pnl=$%.2f daily=$%.2f",
		reason, e.pos.EntryPrice, price, pnl, e.stats.DailyPnL)

	e.journal.RecordExit(e.pos.EntryTime, e.symbol, e.pos.Dir, e.pos.EntryPrice,
		price, e.pos.Quantity, pnl, reason)

	e.pos = Position{}
}

// logDailySummary prints the prior day's tally when it saw at least one trade.
func (e *Engine) logDailySummary() {
	if e.stats.TradesTaken == 0 {
		return
	}
	total := e.stats.Wins + e.stats.Losses
	winRate := 0.0
	if total > 0 {
		winRate = float64(e.stats.Wins) / float64(total) * 100
	}
	log.Printf("[SUMMARY] %s trades=%d W/L=%d/%d (%.1f%%) pnl=$%.2f",
		e.stats.Date.Format("2006-01-02"), e.stats.TradesTaken,
		e.stats.Wins, e.stats.Losses, winRate, e.stats.DailyPnL)

	e.journal.RecordSummary(e.stats.Date, e.stats.TradesTaken,
		e.stats.Wins, e.stats.Losses, e.stats.DailyPnL)
}

// FlushSummary logs the current day's summary, for end-of-replay reporting.
func (e *Engine) FlushSummary() { e.logDailySummary() }
