// Package lmsr implements the Logarithmic Market Scoring Rule (LMSR)
// originally developed by Robin Hanson for prediction markets.
//
// LMSR provides:
// - Bounded loss for the market maker (max loss = b * ln(n) for n outcomes)
// - Always available liquidity
// - Price = probability interpretation (here scaled to sum to 100)
// - Well-defined cost function, so a sequence of trades costs the same as
//   the equivalent net trade (path independence)
//
// All arithmetic runs on decimals; share vectors are fixed-length ordered
// sequences sized at market creation.
//
// Reference: "Logarithmic Market Scoring Rules for Modular Combinatorial
// Information Aggregation" by Robin Hanson, 2003, George Mason University
package lmsr

import (
	"github.com/shopspring/decimal"
)

// calcPrecision is the decimal precision used for exp/ln expansions.
// 24 digits keeps cumulative drift well below any display rounding.
const calcPrecision = 24

// PriceScale is the value the per-outcome prices sum to.
var PriceScale = decimal.NewFromInt(100)

// LMSR is a market maker over an n-outcome share vector.
type LMSR struct {
	// B is the liquidity parameter (also called the "market depth" or
	// "subsidy"). Higher B = more stable prices, less slippage, but more
	// potential loss for the market maker.
	B decimal.Decimal
}

// New creates a new LMSR market maker with the given liquidity parameter.
func New(liquidity decimal.Decimal) *LMSR {
	if !liquidity.IsPositive() {
		liquidity = decimal.NewFromInt(100) // Default liquidity
	}
	return &LMSR{B: liquidity}
}

// Cost calculates the cost function C(q) = b * ln(sum of exp(q_i / b)).
func (l *LMSR) Cost(q []decimal.Decimal) (decimal.Decimal, error) {
	// Shift every exponent by the max term so the largest argument is
	// zero (log-sum-exp trick, same stabilization the float version uses).
	maxQ := q[0]
	for _, qi := range q[1:] {
		if qi.GreaterThan(maxQ) {
			maxQ = qi
		}
	}

	sum := decimal.Zero
	for _, qi := range q {
		e, err := qi.Sub(maxQ).Div(l.B).ExpTaylor(calcPrecision)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(e)
	}

	// sum >= 1 always (the max term contributes exp(0)), so Ln is safe.
	ln, err := sum.Ln(calcPrecision)
	if err != nil {
		return decimal.Zero, err
	}
	return maxQ.Add(l.B.Mul(ln)), nil
}

// Prices returns the instantaneous price of every outcome:
// price_i = exp(q_i/b) / sum_j(exp(q_j/b)) * PriceScale.
// Prices always sum to PriceScale up to the working precision.
func (l *LMSR) Prices(q []decimal.Decimal) ([]decimal.Decimal, error) {
	maxQ := q[0]
	for _, qi := range q[1:] {
		if qi.GreaterThan(maxQ) {
			maxQ = qi
		}
	}

	exps := make([]decimal.Decimal, len(q))
	sum := decimal.Zero
	for i, qi := range q {
		e, err := qi.Sub(maxQ).Div(l.B).ExpTaylor(calcPrecision)
		if err != nil {
			return nil, err
		}
		exps[i] = e
		sum = sum.Add(e)
	}

	prices := make([]decimal.Decimal, len(q))
	for i, e := range exps {
		prices[i] = e.Mul(PriceScale).Div(sum)
	}
	return prices, nil
}

// Price returns the instantaneous price of a single outcome.
func (l *LMSR) Price(q []decimal.Decimal, outcome int) (decimal.Decimal, error) {
	prices, err := l.Prices(q)
	if err != nil {
		return decimal.Zero, err
	}
	return prices[outcome], nil
}

// CostToBuy calculates the cost to add `shares` of `outcome` to the vector:
// Cost = C(q_new) - C(q_current). Non-negative for a positive delta.
func (l *LMSR) CostToBuy(q []decimal.Decimal, outcome int, shares decimal.Decimal) (decimal.Decimal, error) {
	current, err := l.Cost(q)
	if err != nil {
		return decimal.Zero, err
	}

	after, err := l.Cost(Apply(q, outcome, shares))
	if err != nil {
		return decimal.Zero, err
	}
	return after.Sub(current), nil
}

// Apply returns a copy of q with `shares` added to `outcome` only.
func Apply(q []decimal.Decimal, outcome int, shares decimal.Decimal) []decimal.Decimal {
	next := make([]decimal.Decimal, len(q))
	copy(next, q)
	next[outcome] = next[outcome].Add(shares)
	return next
}

// MaxLoss returns the maximum possible loss for the market maker over an
// n-outcome market: b * ln(n).
func (l *LMSR) MaxLoss(outcomes int) (decimal.Decimal, error) {
	ln, err := decimal.NewFromInt(int64(outcomes)).Ln(calcPrecision)
	if err != nil {
		return decimal.Zero, err
	}
	return l.B.Mul(ln), nil
}
