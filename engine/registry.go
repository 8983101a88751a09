package engine

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mode is the authoritative pricing mechanism for a market.
type Mode string

const (
	ModeAMM Mode = "amm"
	ModeCDA Mode = "cda"
)

// Recorder receives post-commit side effects. Implementations must not
// block: a slow or failing recorder cannot stall or roll back a trade that
// already committed.
type Recorder interface {
	AMMTrade(marketID, userID string, outcome int, shares, cost decimal.Decimal, prices []decimal.Decimal)
	BookTrade(marketID string, trade Trade)
	AMMSnapshot(marketID string, q []decimal.Decimal, volume decimal.Decimal, trades int64)
}

// nopRecorder is the default when no persistence layer is wired.
type nopRecorder struct{}

func (nopRecorder) AMMTrade(string, string, int, decimal.Decimal, decimal.Decimal, []decimal.Decimal) {
}
func (nopRecorder) BookTrade(string, Trade)                                   {}
func (nopRecorder) AMMSnapshot(string, []decimal.Decimal, decimal.Decimal, int64) {}

// Market is one registry entry: a fixed outcome list, one AMM, one book and
// the current mode. The mutex serializes mutations; quotes take the read
// side so they observe a consistent snapshot.
type Market struct {
	ID       string
	Outcomes []string

	mu   sync.RWMutex
	mode Mode
	amm  *AMM
	book *Book
}

// MarketInfo is the listing shape for one market.
type MarketInfo struct {
	ID           string `json:"marketId"`
	OutcomeCount int    `json:"outcomeCount"`
	Mode         Mode   `json:"mode"`
}

// Descriptor describes one market for the boundary layer.
type Descriptor struct {
	ID            string   `json:"marketId"`
	Outcomes      []string `json:"outcomes"`
	OutcomeCount  int      `json:"outcomeCount"`
	Mode          Mode     `json:"mode"`
	ActiveTraders int      `json:"activeTraders"`
}

// BuyResult is the outcome of a successful AMM buy.
type BuyResult struct {
	Cost                decimal.Decimal   `json:"cost"`
	NewPrice            decimal.Decimal   `json:"newPrice"`
	Prices              []decimal.Decimal `json:"prices"`
	RemainingCollateral decimal.Decimal   `json:"remainingCollateral"`
}

// PlaceResult is the outcome of a successful order placement.
type PlaceResult struct {
	OrderID   uuid.UUID        `json:"orderId"`
	LastPrice *decimal.Decimal `json:"lastPrice,omitempty"`
	BestBid   *decimal.Decimal `json:"bestBid,omitempty"`
	BestAsk   *decimal.Decimal `json:"bestAsk,omitempty"`
}

// QuoteResult is mode-dependent: a price vector while the AMM is
// authoritative, top-of-book plus last trade while the CDA is.
type QuoteResult struct {
	Mode      Mode              `json:"mode"`
	Prices    []decimal.Decimal `json:"prices,omitempty"`
	BestBid   *decimal.Decimal  `json:"bestBid,omitempty"`
	BestAsk   *decimal.Decimal  `json:"bestAsk,omitempty"`
	LastPrice *decimal.Decimal  `json:"lastPrice,omitempty"`
}

// MarketStats is the read-only aggregate view the analytics sweep consumes.
type MarketStats struct {
	ID            string
	Mode          Mode
	AMMVolume     decimal.Decimal
	AMMTrades     int64
	BookTrades    int
	TotalLiq      decimal.Decimal
	ActiveTraders int
}

// Registry maps market ids to their engines and dispatches every operation
// under the owning market's lock.
type Registry struct {
	mu      sync.RWMutex
	markets map[string]*Market

	cfg      Config
	reserve  *Reserve
	recorder Recorder
}

// NewRegistry creates a registry. recorder may be nil.
func NewRegistry(cfg Config, reserve *Reserve, recorder Recorder) *Registry {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Registry{
		markets:  make(map[string]*Market),
		cfg:      cfg,
		reserve:  reserve,
		recorder: recorder,
	}
}

// Reserve exposes the shared collateral handle.
func (r *Registry) Reserve() *Reserve { return r.reserve }

// Create registers a market with an explicit outcome list. The outcome
// count is fixed for the life of the market; markets are never deleted.
func (r *Registry) Create(marketID string, outcomes []string) (*Market, error) {
	if len(outcomes) < 2 {
		return nil, ErrInvalidOutcomeSet
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.markets[marketID]; ok {
		return nil, ErrMarketExists
	}
	m := r.newMarket(marketID, outcomes)
	r.markets[marketID] = m
	return m, nil
}

// Load returns the market, bootstrapping one with the default outcome list
// on first reference. Idempotent.
func (r *Registry) Load(marketID string) *Market {
	r.mu.RLock()
	m, ok := r.markets[marketID]
	r.mu.RUnlock()
	if ok {
		return m
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.markets[marketID]; ok {
		return m
	}
	m = r.newMarket(marketID, r.cfg.DefaultOutcomes)
	r.markets[marketID] = m
	return m
}

// Get returns a market only if it already exists.
func (r *Registry) Get(marketID string) (*Market, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.markets[marketID]
	if !ok {
		return nil, ErrMarketNotFound
	}
	return m, nil
}

func (r *Registry) newMarket(marketID string, outcomes []string) *Market {
	out := make([]string, len(outcomes))
	copy(out, outcomes)
	return &Market{
		ID:       marketID,
		Outcomes: out,
		mode:     ModeAMM,
		amm:      NewAMM(r.cfg.LiquidityParam, len(out), r.cfg.PriceImpactLimit),
		book:     NewBook(r.cfg.MinBookLiquidity, r.cfg.ClampBand, r.cfg.MinTick),
	}
}

// List returns a snapshot of all registered markets.
func (r *Registry) List() []MarketInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	infos := make([]MarketInfo, 0, len(r.markets))
	for _, m := range r.markets {
		m.mu.RLock()
		infos = append(infos, MarketInfo{ID: m.ID, OutcomeCount: len(m.Outcomes), Mode: m.mode})
		m.mu.RUnlock()
	}
	return infos
}

// Describe returns the descriptor for a market, bootstrapping it if needed.
func (r *Registry) Describe(marketID string) Descriptor {
	m := r.Load(marketID)
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Descriptor{
		ID:            m.ID,
		Outcomes:      m.Outcomes,
		OutcomeCount:  len(m.Outcomes),
		Mode:          m.mode,
		ActiveTraders: m.uniqueTraders(),
	}
}

// Buy executes an AMM share purchase. Rejected with ErrWrongMode while the
// CDA is authoritative.
func (r *Registry) Buy(marketID, userID string, outcome int, shares decimal.Decimal) (BuyResult, error) {
	m := r.Load(marketID)
	m.mu.Lock()
	if m.mode != ModeAMM {
		m.mu.Unlock()
		return BuyResult{}, ErrWrongMode
	}

	cost, err := m.amm.Buy(r.reserve, userID, outcome, shares)
	if err != nil {
		m.mu.Unlock()
		return BuyResult{}, err
	}

	prices, err := m.amm.Prices()
	if err != nil {
		m.mu.Unlock()
		return BuyResult{}, err
	}
	q := m.amm.Quantities()
	volume := m.amm.Volume()
	trades := m.amm.Trades()
	m.mu.Unlock()

	r.recorder.AMMTrade(marketID, userID, outcome, shares, cost, prices)
	r.recorder.AMMSnapshot(marketID, q, volume, trades)

	return BuyResult{
		Cost:                cost,
		NewPrice:            prices[outcome],
		Prices:              prices,
		RemainingCollateral: r.reserve.Balance(),
	}, nil
}

// PlaceOrder places a limit order on the market's book. A successful
// placement force-sets CDA mode regardless of the trader threshold; the
// threshold logic only runs again on the next quote.
func (r *Registry) PlaceOrder(marketID, userID string, side Side, price, qty decimal.Decimal) (PlaceResult, error) {
	m := r.Load(marketID)
	m.mu.Lock()

	order, executed, err := m.book.Place(userID, side, price, qty)
	if err != nil {
		m.mu.Unlock()
		return PlaceResult{}, err
	}
	m.mode = ModeCDA

	res := PlaceResult{OrderID: order.ID}
	if last, ok := m.book.LastPrice(); ok {
		res.LastPrice = &last
	}
	if bid, ok := m.book.BestBid(); ok {
		res.BestBid = &bid
	}
	if ask, ok := m.book.BestAsk(); ok {
		res.BestAsk = &ask
	}
	m.mu.Unlock()

	for _, tr := range executed {
		r.recorder.BookTrade(marketID, tr)
	}
	return res, nil
}

// Quote re-evaluates the market's mode from trader participation, then
// returns the mode-appropriate quote. This is the only place the threshold
// switch runs; trades do not re-evaluate it.
func (r *Registry) Quote(marketID string) (QuoteResult, error) {
	m := r.Load(marketID)
	m.mu.Lock()
	defer m.mu.Unlock()

	m.maybeSwitch(r.cfg.TraderThreshold)

	res := QuoteResult{Mode: m.mode}
	if m.mode == ModeAMM {
		prices, err := m.amm.Prices()
		if err != nil {
			return QuoteResult{}, err
		}
		res.Prices = prices
		return res, nil
	}

	if bid, ok := m.book.BestBid(); ok {
		res.BestBid = &bid
	}
	if ask, ok := m.book.BestAsk(); ok {
		res.BestAsk = &ask
	}
	if last, ok := m.book.LastPrice(); ok {
		res.LastPrice = &last
	}
	return res, nil
}

// Stats returns the read-only aggregates for every market. Used by the
// analytics sweep; takes only read locks so it never stalls trading.
func (r *Registry) Stats() []MarketStats {
	r.mu.RLock()
	markets := make([]*Market, 0, len(r.markets))
	for _, m := range r.markets {
		markets = append(markets, m)
	}
	r.mu.RUnlock()

	stats := make([]MarketStats, 0, len(markets))
	for _, m := range markets {
		m.mu.RLock()
		stats = append(stats, MarketStats{
			ID:            m.ID,
			Mode:          m.mode,
			AMMVolume:     m.amm.Volume(),
			AMMTrades:     m.amm.Trades(),
			BookTrades:    len(m.book.trades),
			TotalLiq:      m.book.TotalLiquidity(),
			ActiveTraders: m.uniqueTraders(),
		})
		m.mu.RUnlock()
	}
	return stats
}

// maybeSwitch applies the single-threshold mode rule: AMM -> CDA once the
// union of active traders reaches the threshold, CDA -> AMM when it falls
// back below. Caller holds the market's write lock.
func (m *Market) maybeSwitch(threshold int) {
	uniq := m.uniqueTraders()
	switch {
	case m.mode == ModeAMM && uniq >= threshold:
		m.mode = ModeCDA
	case m.mode == ModeCDA && uniq < threshold:
		m.mode = ModeAMM
	}
}

// uniqueTraders counts the union of AMM and book participants. Caller holds
// at least the read lock.
func (m *Market) uniqueTraders() int {
	union := make(map[string]struct{}, len(m.amm.users)+len(m.book.users))
	for u := range m.amm.users {
		union[u] = struct{}{}
	}
	for u := range m.book.users {
		union[u] = struct{}{}
	}
	return len(union)
}

// Mode returns the market's current mode.
func (m *Market) Mode() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mode
}
