package engine

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Reserve is the pooled backing capital shared by every market's AMM. It is
// an injected handle, not package state: the same instance must be passed to
// every component that debits it so the sufficiency check and the debit stay
// atomic across markets.
type Reserve struct {
	mu      sync.Mutex
	balance decimal.Decimal
}

// NewReserve creates a reserve with the given starting balance.
func NewReserve(initial decimal.Decimal) *Reserve {
	return &Reserve{balance: initial}
}

// Balance returns the current available balance.
func (r *Reserve) Balance() decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.balance
}

// Debit removes cost from the reserve. The balance check and the debit run
// under one lock so a concurrent buy on another market cannot pass the check
// against a stale balance. On ErrInsufficientCollateral the balance is
// untouched. The reserve never goes negative.
func (r *Reserve) Debit(cost decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.balance.LessThan(cost) {
		return ErrInsufficientCollateral
	}
	r.balance = r.balance.Sub(cost)
	return nil
}
