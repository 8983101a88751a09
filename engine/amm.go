package engine

import (
	"hybridmarket/handlers/math/probabilities/lmsr"

	"github.com/shopspring/decimal"
)

// AMM is the automated market maker side of one market. It owns the LMSR
// share vector and the trade aggregates. It is not internally synchronized;
// the registry serializes mutations per market.
type AMM struct {
	maker  *lmsr.LMSR
	q      []decimal.Decimal
	volume decimal.Decimal
	trades int64
	users  map[string]struct{}

	impactLimit float64
}

// NewAMM creates an AMM with a zeroed share vector of len(outcomes) entries.
// The vector length is fixed for the life of the market.
func NewAMM(liquidity decimal.Decimal, outcomes int, impactLimit float64) *AMM {
	q := make([]decimal.Decimal, outcomes)
	for i := range q {
		q[i] = decimal.Zero
	}
	return &AMM{
		maker:       lmsr.New(liquidity),
		q:           q,
		volume:      decimal.Zero,
		users:       make(map[string]struct{}),
		impactLimit: impactLimit,
	}
}

// Prices returns the current price vector. Pure read, no side effects.
func (a *AMM) Prices() ([]decimal.Decimal, error) {
	return a.maker.Prices(a.q)
}

// Buy purchases delta shares of the given outcome for userID, debiting the
// trade cost from the reserve. All validation runs before any mutation: a
// failed buy leaves the share vector, the aggregates and the reserve exactly
// as they were. There is no partial fill.
func (a *AMM) Buy(reserve *Reserve, userID string, outcome int, delta decimal.Decimal) (decimal.Decimal, error) {
	if outcome < 0 || outcome >= len(a.q) {
		return decimal.Zero, ErrInvalidOutcome
	}
	if !delta.IsPositive() {
		return decimal.Zero, ErrInvalidQuantity
	}

	prices, err := a.maker.Prices(a.q)
	if err != nil {
		return decimal.Zero, err
	}
	prePrice := prices[outcome]

	postPrice, err := a.maker.Price(lmsr.Apply(a.q, outcome, delta), outcome)
	if err != nil {
		return decimal.Zero, err
	}

	// Marginal impact of the full requested delta, not an incremental
	// walk. Only a relative comparison, so float is sufficient here.
	impact := postPrice.Sub(prePrice).Abs().Div(prePrice).InexactFloat64()
	if impact > a.impactLimit {
		return decimal.Zero, ErrPriceImpactExceeded
	}

	cost, err := a.maker.CostToBuy(a.q, outcome, delta)
	if err != nil {
		return decimal.Zero, err
	}

	// Last failure point. Debit is atomic, so once it succeeds the commit
	// below cannot fail and the books stay conserved.
	if err := reserve.Debit(cost); err != nil {
		return decimal.Zero, err
	}

	a.q[outcome] = a.q[outcome].Add(delta)
	a.volume = a.volume.Add(cost)
	a.trades++
	a.users[userID] = struct{}{}
	return cost, nil
}

// Quantities returns a copy of the cumulative share vector.
func (a *AMM) Quantities() []decimal.Decimal {
	q := make([]decimal.Decimal, len(a.q))
	copy(q, a.q)
	return q
}

// Volume returns the cumulative cost of all executed buys.
func (a *AMM) Volume() decimal.Decimal { return a.volume }

// Trades returns the number of executed buys.
func (a *AMM) Trades() int64 { return a.trades }

// ActiveUsers returns the set of user ids that have traded against the AMM.
func (a *AMM) ActiveUsers() map[string]struct{} { return a.users }

// MaxLoss returns the market maker's worst case loss for this market.
func (a *AMM) MaxLoss() (decimal.Decimal, error) {
	return a.maker.MaxLoss(len(a.q))
}
