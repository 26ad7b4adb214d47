package exchange

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/HQ-Q/uniswapv1/pkg/cpmm"
)

// AddLiquidity deposits currencyAmount of currency together with token at the
// current reserve ratio and mints shares to caller.
//
// On an empty pool both amounts are taken as given, which sets the price, and
// the caller receives currencyAmount shares. Otherwise tokenAmount is the most
// token the caller is willing to deposit: only
// currencyAmount*tokenReserve/currencyReserve is pulled and the rest stays
// with the caller. Minted shares are currencyAmount*totalShares/currencyReserve.
func (e *Exchange) AddLiquidity(caller common.Address, tokenAmount, currencyAmount *uint256.Int) (*uint256.Int, error) {
	tokenAmount, currencyAmount = orZero(tokenAmount), orZero(currencyAmount)
	if err := e.checkCaller("caller", caller); err != nil {
		return nil, fmt.Errorf("add liquidity: %w", err)
	}
	if currencyAmount.IsZero() {
		return nil, fmt.Errorf("add liquidity: currency amount: %w", ErrZeroAmount)
	}
	if tokenAmount.IsZero() {
		return nil, fmt.Errorf("add liquidity: token amount: %w", ErrZeroAmount)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	totalShares := e.shares.totalSupply()
	var tokenIn, minted *uint256.Int
	if totalShares.IsZero() {
		tokenIn, minted = tokenAmount.Clone(), currencyAmount.Clone()
	} else {
		required, err := cpmm.Quote(currencyAmount, e.currencyReserve, e.tokenReserve)
		if err != nil {
			return nil, mathError("add liquidity", err)
		}
		if required.IsZero() {
			return nil, fmt.Errorf("add liquidity: deposit matches no token at the current ratio: %w", ErrZeroAmount)
		}
		if tokenAmount.Lt(required) {
			return nil, fmt.Errorf("add liquidity: %w: deposit requires %s token, %s supplied", ErrSlippageExceeded, required, tokenAmount)
		}
		minted, err = cpmm.MulDiv(currencyAmount, totalShares, e.currencyReserve)
		if err != nil {
			return nil, mathError("add liquidity", err)
		}
		if minted.IsZero() {
			return nil, fmt.Errorf("add liquidity: deposit mints no shares: %w", ErrZeroAmount)
		}
		tokenIn = required
	}

	next, err := e.stage(currencyAmount, tokenIn, minted, cpmm.Add)
	if err != nil {
		return nil, mathError("add liquidity", err)
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}

	s := e.settlement()
	if err := s.pullCurrency(caller, currencyAmount); err != nil {
		return nil, s.abort(fmt.Errorf("add liquidity: %w", err))
	}
	if err := s.pullToken(caller, tokenIn); err != nil {
		return nil, s.abort(fmt.Errorf("add liquidity: %w", err))
	}

	e.currencyReserve, e.tokenReserve = next.CurrencyReserve, next.TokenReserve
	e.shares.mint(caller, minted)
	return minted.Clone(), nil
}

// RemoveLiquidity burns shareAmount of caller's shares and pays out the same
// fraction of both reserves, truncated. Burning every outstanding share pays
// out the reserves exactly and leaves the pool empty.
func (e *Exchange) RemoveLiquidity(caller common.Address, shareAmount *uint256.Int) (currencyOut, tokenOut *uint256.Int, err error) {
	shareAmount = orZero(shareAmount)
	if err := e.checkCaller("caller", caller); err != nil {
		return nil, nil, fmt.Errorf("remove liquidity: %w", err)
	}
	if shareAmount.IsZero() {
		return nil, nil, fmt.Errorf("remove liquidity: share amount: %w", ErrZeroAmount)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	totalShares := e.shares.totalSupply()
	if totalShares.IsZero() {
		return nil, nil, fmt.Errorf("remove liquidity: %w", ErrEmptyPool)
	}
	if have := e.shares.balanceOf(caller); have.Lt(shareAmount) {
		return nil, nil, fmt.Errorf("remove liquidity: %w: %s holds %s shares, burning %s", ErrInsufficientBalance, caller.Hex(), have, shareAmount)
	}

	if shareAmount.Eq(totalShares) {
		currencyOut, tokenOut = e.currencyReserve.Clone(), e.tokenReserve.Clone()
	} else {
		if currencyOut, err = cpmm.MulDiv(shareAmount, e.currencyReserve, totalShares); err != nil {
			return nil, nil, mathError("remove liquidity", err)
		}
		if tokenOut, err = cpmm.MulDiv(shareAmount, e.tokenReserve, totalShares); err != nil {
			return nil, nil, mathError("remove liquidity", err)
		}
		if currencyOut.IsZero() || tokenOut.IsZero() {
			return nil, nil, fmt.Errorf("remove liquidity: burning %s shares pays out nothing: %w", shareAmount, ErrZeroAmount)
		}
	}

	next, err := e.stage(currencyOut, tokenOut, shareAmount, cpmm.Sub)
	if err != nil {
		return nil, nil, mathError("remove liquidity", err)
	}
	if err := next.Validate(); err != nil {
		return nil, nil, err
	}

	s := e.settlement()
	if err := s.payToken(caller, tokenOut); err != nil {
		return nil, nil, s.abort(fmt.Errorf("remove liquidity: %w", err))
	}
	if err := s.payCurrency(caller, currencyOut); err != nil {
		return nil, nil, s.abort(fmt.Errorf("remove liquidity: %w", err))
	}

	e.currencyReserve, e.tokenReserve = next.CurrencyReserve, next.TokenReserve
	e.shares.burn(caller, shareAmount)
	return currencyOut, tokenOut, nil
}

// TransferShares moves amount of liquidity shares from one owner to another.
func (e *Exchange) TransferShares(from, to common.Address, amount *uint256.Int) error {
	amount = orZero(amount)
	if amount.IsZero() {
		return fmt.Errorf("transfer shares: %w", ErrZeroAmount)
	}
	if err := e.checkCaller("sender", from); err != nil {
		return fmt.Errorf("transfer shares: %w", err)
	}
	if err := e.checkCaller("recipient", to); err != nil {
		return fmt.Errorf("transfer shares: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.shares.transfer(from, to, amount); err != nil {
		return fmt.Errorf("transfer shares: %w", err)
	}
	return nil
}

// stage applies op to each pool field and its delta without touching the pool.
func (e *Exchange) stage(currency, token, shares *uint256.Int, op func(a, b *uint256.Int) (*uint256.Int, error)) (Pool, error) {
	c, err := op(e.currencyReserve, currency)
	if err != nil {
		return Pool{}, err
	}
	t, err := op(e.tokenReserve, token)
	if err != nil {
		return Pool{}, err
	}
	s, err := op(e.shares.totalSupply(), shares)
	if err != nil {
		return Pool{}, err
	}
	return Pool{CurrencyReserve: c, TokenReserve: t, TotalShares: s}, nil
}
