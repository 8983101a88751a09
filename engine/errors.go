package engine

import "errors"

// Engine errors. All of them are recoverable at the caller: a rejected
// operation leaves core state exactly as it was, except where the order
// book's liquidity accumulator is documented to stick.
var (
	ErrPriceImpactExceeded    = errors.New("trade exceeds price impact limit")
	ErrInsufficientCollateral = errors.New("insufficient collateral reserve")
	ErrBookNotLive            = errors.New("order book below minimum liquidity")
	ErrInvalidSide            = errors.New("order side must be buy or sell")
	ErrWrongMode              = errors.New("market is not in AMM mode")
	ErrMarketExists           = errors.New("market already exists")
	ErrInvalidOutcomeSet      = errors.New("market requires at least 2 outcomes")
	ErrMarketNotFound         = errors.New("market not found")
	ErrInvalidOutcome         = errors.New("outcome index out of range")
	ErrInvalidPrice           = errors.New("price must be positive")
	ErrInvalidQuantity        = errors.New("quantity must be positive")
)
