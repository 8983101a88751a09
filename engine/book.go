package engine

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Side is the direction of a limit order.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Order is a resting limit order. Immutable after creation except for
// QtyLeft, which the matching loop decrements; the order is removed from
// its ledger when QtyLeft reaches zero.
type Order struct {
	ID        uuid.UUID       `json:"id"`
	UserID    string          `json:"userId"`
	Side      Side            `json:"side"`
	Price     decimal.Decimal `json:"price"`
	QtyTotal  decimal.Decimal `json:"qtyTotal"`
	QtyLeft   decimal.Decimal `json:"qtyLeft"`
	CreatedAt time.Time       `json:"createdAt"`

	// seq breaks price ties: it increases with submission order, so at
	// equal price the earlier order keeps priority even when two
	// timestamps collide.
	seq uint64
}

// Trade is one execution from the matching loop.
type Trade struct {
	ID         uuid.UUID       `json:"id"`
	Buyer      string          `json:"buyer"`
	Seller     string          `json:"seller"`
	Qty        decimal.Decimal `json:"qty"`
	Price      decimal.Decimal `json:"price"`
	ExecutedAt time.Time       `json:"executedAt"`
}

// Book is a continuous double auction with price-time priority. Bids are
// kept sorted by descending price then submission order, asks by ascending
// price then submission order, so the best quote on either side is index 0.
// Not internally synchronized; the registry serializes mutations per market.
type Book struct {
	bids   []*Order
	asks   []*Order
	trades []Trade
	users  map[string]struct{}

	lastPrice decimal.Decimal
	hasLast   bool

	// totalLiq accumulates the quantity of every placement attempt,
	// including rejected ones, and is never decremented on fills or
	// cancellations. Deliberately kept that way; see the activation gate
	// tests before changing it.
	totalLiq decimal.Decimal

	minLiquidity decimal.Decimal
	clampBand    decimal.Decimal
	minTick      decimal.Decimal
	nextSeq      uint64
}

// NewBook creates an empty book. minLiquidity is the activation floor,
// clampBand the allowed fractional move per trade, minTick the price floor.
func NewBook(minLiquidity, clampBand, minTick decimal.Decimal) *Book {
	return &Book{
		users:        make(map[string]struct{}),
		totalLiq:     decimal.Zero,
		minLiquidity: minLiquidity,
		clampBand:    clampBand,
		minTick:      minTick,
	}
}

// Place validates and inserts a limit order, then runs the matching loop if
// the book has seen enough cumulative quantity to be live. Returns the
// executions this placement triggered alongside the order.
func (b *Book) Place(userID string, side Side, price, qty decimal.Decimal) (*Order, []Trade, error) {
	if side != SideBuy && side != SideSell {
		return nil, nil, ErrInvalidSide
	}
	if !price.IsPositive() {
		return nil, nil, ErrInvalidPrice
	}
	if !qty.IsPositive() {
		return nil, nil, ErrInvalidQuantity
	}

	b.totalLiq = b.totalLiq.Add(qty)
	b.users[userID] = struct{}{}

	o := &Order{
		ID:        uuid.New(),
		UserID:    userID,
		Side:      side,
		Price:     price,
		QtyTotal:  qty,
		QtyLeft:   qty,
		CreatedAt: time.Now(),
		seq:       b.nextSeq,
	}
	b.nextSeq++

	if side == SideBuy {
		b.bids = insertOrder(b.bids, o, bidBefore)
	} else {
		b.asks = insertOrder(b.asks, o, askBefore)
	}

	// Below the activation floor the placement is rejected for matching
	// purposes only: the order rests, the user counts as active and the
	// liquidity contribution above sticks. It can still fill once a later
	// placement lifts the book over the floor.
	if b.totalLiq.LessThan(b.minLiquidity) {
		return nil, nil, ErrBookNotLive
	}

	return o, b.match(), nil
}

// bidBefore reports whether a should rest ahead of b on the bid ledger.
func bidBefore(a, b *Order) bool {
	if !a.Price.Equal(b.Price) {
		return a.Price.GreaterThan(b.Price)
	}
	return a.seq < b.seq
}

// askBefore reports whether a should rest ahead of b on the ask ledger.
func askBefore(a, b *Order) bool {
	if !a.Price.Equal(b.Price) {
		return a.Price.LessThan(b.Price)
	}
	return a.seq < b.seq
}

func insertOrder(ledger []*Order, o *Order, before func(a, b *Order) bool) []*Order {
	i := sort.Search(len(ledger), func(i int) bool { return before(o, ledger[i]) })
	ledger = append(ledger, nil)
	copy(ledger[i+1:], ledger[i:])
	ledger[i] = o
	return ledger
}

// match executes crossings until no resting bid price reaches any resting
// ask price. Each execution trades min of the two remaining quantities at
// the clamped midpoint of the two resting prices.
func (b *Book) match() []Trade {
	var executed []Trade
	for len(b.bids) > 0 && len(b.asks) > 0 {
		bid, ask := b.bids[0], b.asks[0]
		if bid.Price.LessThan(ask.Price) {
			break
		}

		qty := decimal.Min(bid.QtyLeft, ask.QtyLeft)
		price := b.clamp(bid.Price.Add(ask.Price).Div(two))

		bid.QtyLeft = bid.QtyLeft.Sub(qty)
		ask.QtyLeft = ask.QtyLeft.Sub(qty)
		b.lastPrice = price
		b.hasLast = true

		tr := Trade{
			ID:         uuid.New(),
			Buyer:      bid.UserID,
			Seller:     ask.UserID,
			Qty:        qty,
			Price:      price,
			ExecutedAt: time.Now(),
		}
		b.trades = append(b.trades, tr)
		executed = append(executed, tr)

		if bid.QtyLeft.IsZero() {
			b.bids = b.bids[1:]
		}
		if ask.QtyLeft.IsZero() {
			b.asks = b.asks[1:]
		}
	}
	return executed
}

var two = decimal.NewFromInt(2)

// clamp bounds an execution price to within the band around the previous
// trade's price when one exists, then floors it at the minimum tick. The
// recorded trade price is the clamped value, not the nominal midpoint; the
// discrepancy is the intended risk control.
func (b *Book) clamp(price decimal.Decimal) decimal.Decimal {
	if b.hasLast {
		band := b.lastPrice.Mul(b.clampBand)
		if lo := b.lastPrice.Sub(band); price.LessThan(lo) {
			price = lo
		}
		if hi := b.lastPrice.Add(band); price.GreaterThan(hi) {
			price = hi
		}
	}
	if price.LessThan(b.minTick) {
		price = b.minTick
	}
	return price
}

// BestBid returns the highest resting bid price, if any.
func (b *Book) BestBid() (decimal.Decimal, bool) {
	if len(b.bids) == 0 {
		return decimal.Zero, false
	}
	return b.bids[0].Price, true
}

// BestAsk returns the lowest resting ask price, if any.
func (b *Book) BestAsk() (decimal.Decimal, bool) {
	if len(b.asks) == 0 {
		return decimal.Zero, false
	}
	return b.asks[0].Price, true
}

// LastPrice returns the most recent execution price, if any trade exists.
func (b *Book) LastPrice() (decimal.Decimal, bool) {
	return b.lastPrice, b.hasLast
}

// TotalLiquidity returns the only-increasing activation accumulator.
func (b *Book) TotalLiquidity() decimal.Decimal { return b.totalLiq }

// Trades returns a copy of the execution log.
func (b *Book) Trades() []Trade {
	out := make([]Trade, len(b.trades))
	copy(out, b.trades)
	return out
}

// ActiveUsers returns the set of user ids that have placed accepted orders.
func (b *Book) ActiveUsers() map[string]struct{} { return b.users }

// Depth returns the number of resting orders on each side.
func (b *Book) Depth() (bids, asks int) { return len(b.bids), len(b.asks) }
