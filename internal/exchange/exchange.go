// Package exchange implements a single-pair pool between a fungible token and
// a base currency: proportional deposits mint liquidity shares, swaps price
// along the constant-product curve and burning shares pays out a pro-rata
// slice of both reserves.
//
// Every mutating call runs under one lock, reads the reserves fresh, stages
// the new pool record, moves the assets and only then commits. A failure at
// any step leaves the pool and both ledgers unchanged.
package exchange

import (
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/HQ-Q/uniswapv1/pkg/cpmm"
)

type Exchange struct {
	logger   *slog.Logger
	address  common.Address
	token    TokenLedger
	currency CurrencyLedger

	mu              sync.Mutex
	currencyReserve *uint256.Int
	tokenReserve    *uint256.Int
	shares          *shareLedger
}

// New returns an empty exchange that holds its assets under address in the
// token and currency ledgers.
func New(logger *slog.Logger, address common.Address, token TokenLedger, currency CurrencyLedger) *Exchange {
	return &Exchange{
		logger:          logger,
		address:         address,
		token:           token,
		currency:        currency,
		currencyReserve: new(uint256.Int),
		tokenReserve:    new(uint256.Int),
		shares:          newShareLedger(),
	}
}

// Address is the account the exchange holds its reserves under. Token
// holders approve it before adding liquidity or selling token.
func (e *Exchange) Address() common.Address {
	return e.address
}

// Pool returns a copy of the current pool record.
func (e *Exchange) Pool() Pool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pool()
}

func (e *Exchange) pool() Pool {
	return Pool{
		CurrencyReserve: e.currencyReserve.Clone(),
		TokenReserve:    e.tokenReserve.Clone(),
		TotalShares:     e.shares.totalSupply(),
	}
}

// GetReserve returns the token reserve.
func (e *Exchange) GetReserve() *uint256.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tokenReserve.Clone()
}

// BalanceOf returns the liquidity shares held by owner.
func (e *Exchange) BalanceOf(owner common.Address) *uint256.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shares.balanceOf(owner)
}

func (e *Exchange) TotalShares() *uint256.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shares.totalSupply()
}

// Holders returns the number of accounts with a non-zero share balance.
func (e *Exchange) Holders() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shares.holders()
}

// GetTokenAmount quotes the token bought with currencyIn.
func (e *Exchange) GetTokenAmount(currencyIn *uint256.Int) (*uint256.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quote(CurrencyToToken, orZero(currencyIn))
}

// GetEthAmount quotes the currency bought with tokenIn.
func (e *Exchange) GetEthAmount(tokenIn *uint256.Int) (*uint256.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quote(TokenToCurrency, orZero(tokenIn))
}

func (e *Exchange) quote(dir Direction, amountIn *uint256.Int) (*uint256.Int, error) {
	if e.shares.totalSupply().IsZero() {
		return nil, ErrEmptyPool
	}
	reserveIn, reserveOut := e.reserves(dir)
	out, err := cpmm.GetAmountOut(amountIn, reserveIn, reserveOut)
	if err != nil {
		return nil, mathError("quote "+dir.String(), err)
	}
	return out, nil
}

// reserves orients the pool for a swap in direction dir.
func (e *Exchange) reserves(dir Direction) (in, out *uint256.Int) {
	if dir == TokenToCurrency {
		return e.tokenReserve, e.currencyReserve
	}
	return e.currencyReserve, e.tokenReserve
}

func orZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v
}
