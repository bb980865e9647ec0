// FILE: gateway_paper.go
// Package main – In-memory paper gateway (no external dependencies).
//
// This gateway simulates fills at the latest marked price. It is used for dry
// runs and bar replays; orders here never leave the process. The engine marks
// the price on every bar before routing orders, so fills always happen at the
// close of the bar that triggered them.
//
// Methods:
//   • Name() string
//   • MarkPrice(price)                              // called once per bar
//   • PlaceMarketOrder(ctx, symbol, contracts)      // signed contracts
//   • Liquidate(ctx, symbol)
package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PaperGateway keeps a single mutable price used to simulate fills and a net
// contract position for liquidation bookkeeping.
type PaperGateway struct {
	mu       sync.Mutex
	price    float64
	position int // net contracts, signed
}

func NewPaperGateway() *PaperGateway { return &PaperGateway{} }

func (p *PaperGateway) Name() string { return "paper" }

// MarkPrice updates the simulated fill price.
func (p *PaperGateway) MarkPrice(price float64) {
	p.mu.Lock()
	p.price = price
	p.mu.Unlock()
}

// PlaceMarketOrder simulates an instant fill at the marked price. Positive
// contracts buy, negative sell.
func (p *PaperGateway) PlaceMarketOrder(ctx context.Context, symbol string, contracts int) (*PlacedOrder, error) {
	if contracts == 0 {
		return nil, errors.New("contracts must be non-zero")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.price <= 0 {
		return nil, errors.New("no marked price yet")
	}

	side := SideBuy
	size := contracts
	if contracts < 0 {
		side = SideSell
		size = -contracts
	}
	p.position += contracts

	return &PlacedOrder{
		ID:         uuid.New().String(),
		Symbol:     symbol,
		Side:       side,
		Price:      p.price,
		Contracts:  size,
		CreateTime: time.Now().UTC(),
	}, nil
}

// Liquidate flattens the simulated position at the marked price.
func (p *PaperGateway) Liquidate(ctx context.Context, symbol string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = 0
	return nil
}

// NetPosition reports the signed simulated position (tests and diagnostics).
func (p *PaperGateway) NetPosition() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}
