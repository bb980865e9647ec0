// FILE: config.go
// Package main – Runtime configuration model and loader.
//
// This file defines the Config struct (all the knobs the engine uses) and a
// helper to populate it from environment variables. The .env file is read
// by loadBotEnv() (see env.go), so you can tune behavior without exports.
//
// Typical flow (see main.go):
//   loadBotEnv()
//   cfg := loadConfigFromEnv()
//
// Session boundaries are clock strings in the instrument's session timezone
// (bars arrive already normalized to that timezone per the feed contract).

package main

import "log"

// Config holds all runtime knobs for the decision engine and its harness.
type Config struct {
	// Instrument
	TickSize           float64 // price bucket granularity, e.g. 0.25 for MES
	ContractMultiplier float64 // dollars per point per contract, e.g. 5 for MES

	// Volume profile
	ValueAreaFraction float64 // fraction of volume captured by the value area

	// Initial balance classification
	IBNarrowThreshold float64 // ratio below which IB is narrow
	IBWideThreshold   float64 // ratio above which IB is wide

	// Extension zone
	MinExtension         float64 // minimum extension beyond IB, in IB multiples
	MaxExtension         float64 // maximum extension beyond IB
	OptimalExtensionLow  float64 // optimal sub-band lower bound
	OptimalExtensionHigh float64 // optimal sub-band upper bound

	// Risk management
	RiskPerTrade     float64 // fraction of equity risked per trade
	MaxDailyRisk     float64 // fraction of equity allowed as daily loss
	StopIBMultiplier float64 // stop distance as a fraction of IB range
	MinRRRatio       float64 // minimum reward:risk to take a setup
	MinCapitalUSD    float64 // floor below which the 1-contract fallback is denied

	// Position size multipliers by IB classification
	NarrowIBSizeMult float64
	MediumIBSizeMult float64
	WideIBSizeMult   float64

	// Setup scoring
	MinScoreToTrade int

	// Session clock (minutes since midnight, session-local)
	MarketOpen       int
	IBEnd            int
	NewEntryCutoff   int
	TightenStopsTime int
	CloseAllTime     int
	MarketClose      int

	// Optimal entry window for the time-of-day score factor
	OptimalWindowStart int
	OptimalWindowEnd   int

	// Open type analysis
	OpenAnalysisMinutes int

	// Capital
	USDEquity float64

	// Ops
	Port      int
	JournalDB string // path to the SQLite trade journal; empty disables
}

// loadConfigFromEnv reads the process env (already hydrated by loadBotEnv())
// and returns a Config with sane defaults if keys are missing.
func loadConfigFromEnv() Config {
	cfg := Config{
		TickSize:           getEnvFloat("TICK_SIZE", 0.25),
		ContractMultiplier: getEnvFloat("CONTRACT_MULTIPLIER", 5.0),

		ValueAreaFraction: getEnvFloat("VALUE_AREA_FRACTION", 0.70),

		IBNarrowThreshold: getEnvFloat("IB_NARROW_THRESHOLD", 0.70),
		IBWideThreshold:   getEnvFloat("IB_WIDE_THRESHOLD", 1.30),

		MinExtension:         getEnvFloat("MIN_EXTENSION", 0.50),
		MaxExtension:         getEnvFloat("MAX_EXTENSION", 1.50),
		OptimalExtensionLow:  getEnvFloat("OPTIMAL_EXTENSION_LOW", 0.50),
		OptimalExtensionHigh: getEnvFloat("OPTIMAL_EXTENSION_HIGH", 1.00),

		RiskPerTrade:     getEnvFloat("RISK_PER_TRADE", 0.01),
		MaxDailyRisk:     getEnvFloat("MAX_DAILY_RISK", 0.03),
		StopIBMultiplier: getEnvFloat("STOP_IB_MULTIPLIER", 0.50),
		MinRRRatio:       getEnvFloat("MIN_RR_RATIO", 2.0),
		MinCapitalUSD:    getEnvFloat("MIN_CAPITAL_USD", 10000.0),

		NarrowIBSizeMult: getEnvFloat("NARROW_IB_SIZE_MULT", 0.50),
		MediumIBSizeMult: getEnvFloat("MEDIUM_IB_SIZE_MULT", 1.00),
		WideIBSizeMult:   getEnvFloat("WIDE_IB_SIZE_MULT", 1.00),

		MinScoreToTrade: getEnvInt("MIN_SCORE_TO_TRADE", 4),

		MarketOpen:       mustClock("MARKET_OPEN", "09:30"),
		IBEnd:            mustClock("IB_END", "10:30"),
		NewEntryCutoff:   mustClock("NEW_ENTRY_CUTOFF", "14:30"),
		TightenStopsTime: mustClock("TIGHTEN_STOPS_TIME", "15:00"),
		CloseAllTime:     mustClock("CLOSE_ALL_TIME", "15:45"),
		MarketClose:      mustClock("MARKET_CLOSE", "16:00"),

		OptimalWindowStart: mustClock("OPTIMAL_WINDOW_START", "10:30"),
		OptimalWindowEnd:   mustClock("OPTIMAL_WINDOW_END", "12:30"),

		OpenAnalysisMinutes: getEnvInt("OPEN_ANALYSIS_MINUTES", 30),

		USDEquity: getEnvFloat("USD_EQUITY", 100000.0),

		Port:      getEnvInt("PORT", 8080),
		JournalDB: getEnv("JOURNAL_DB", ""),
	}
	return cfg
}

// mustClock reads a "HH:MM" env knob and converts it to minutes since
// midnight, falling back to the default on a malformed value.
func mustClock(key, def string) int {
	raw := getEnv(key, def)
	m, err := parseClock(raw)
	if err != nil {
		log.Printf("config: bad clock %s=%q, using default %s", key, raw, def)
		m, _ = parseClock(def)
	}
	return m
}
