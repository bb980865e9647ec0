// FILE: gateway.go
// Package main – Execution gateway abstraction shared by all backends.
//
// This file defines the minimal interface the decision engine needs to route
// orders to an execution backend (paper or real):
//   • ExecutionGateway interface: place market orders in contracts, liquidate
//   • Common types: Direction, OrderSide, PlacedOrder
//
// The concrete paper implementation lives in gateway_paper.go. A brokerage
// adapter would implement the same interface out of process.
package main

import (
	"context"
	"time"
)

// Direction is the side of a position or signal.
type Direction int

const (
	Flat Direction = iota
	Long
	Short
)

func (d Direction) String() string {
	switch d {
	case Long:
		return "LONG"
	case Short:
		return "SHORT"
	default:
		return "FLAT"
	}
}

// OrderSide is the side of a single order.
type OrderSide string

const (
	SideBuy  OrderSide = "BUY"
	SideSell OrderSide = "SELL"
)

// PlacedOrder is a normalized view of a filled/placed market order.
type PlacedOrder struct {
	ID         string
	Symbol     string
	Side       OrderSide
	Price      float64 // assumed execution price
	Contracts  int     // filled size, always positive
	CreateTime time.Time
}

// ExecutionGateway is the minimal surface the engine needs to operate.
// PlaceMarketOrder takes signed contracts: positive buys, negative sells.
type ExecutionGateway interface {
	Name() string
	PlaceMarketOrder(ctx context.Context, symbol string, contracts int) (*PlacedOrder, error)
	Liquidate(ctx context.Context, symbol string) error
}
