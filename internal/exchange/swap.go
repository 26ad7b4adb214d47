package exchange

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/HQ-Q/uniswapv1/pkg/cpmm"
)

// Direction selects which asset a swap sells.
type Direction uint8

const (
	// CurrencyToToken sells currency for token.
	CurrencyToToken Direction = iota + 1
	// TokenToCurrency sells token for currency.
	TokenToCurrency
)

func (d Direction) String() string {
	switch d {
	case CurrencyToToken:
		return "currency_to_token"
	case TokenToCurrency:
		return "token_to_currency"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

func (d Direction) Valid() bool {
	return d == CurrencyToToken || d == TokenToCurrency
}

// ParseDirection accepts the String form and the eth_to_token / token_to_eth
// aliases.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "currency_to_token", "eth_to_token":
		return CurrencyToToken, nil
	case "token_to_currency", "token_to_eth":
		return TokenToCurrency, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
	}
}

// Swap sells amountIn of the input asset for the quoted output and fails with
// ErrSlippageExceeded when that output is below minAmountOut. A nil
// minAmountOut accepts any non-zero output.
func (e *Exchange) Swap(caller common.Address, dir Direction, amountIn, minAmountOut *uint256.Int) (*uint256.Int, error) {
	amountIn, minAmountOut = orZero(amountIn), orZero(minAmountOut)
	if !dir.Valid() {
		return nil, fmt.Errorf("swap: %w: %s", ErrUnknownDirection, dir)
	}
	if err := e.checkCaller("caller", caller); err != nil {
		return nil, fmt.Errorf("swap: %w", err)
	}
	if amountIn.IsZero() {
		return nil, fmt.Errorf("swap %s: amount in: %w", dir, ErrZeroAmount)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	amountOut, err := e.quote(dir, amountIn)
	if err != nil {
		return nil, fmt.Errorf("swap %s: %w", dir, err)
	}
	if amountOut.IsZero() {
		return nil, fmt.Errorf("swap %s: %s in buys nothing: %w", dir, amountIn, ErrZeroAmount)
	}
	if amountOut.Lt(minAmountOut) {
		return nil, fmt.Errorf("swap %s: %w: output %s below minimum %s", dir, ErrSlippageExceeded, amountOut, minAmountOut)
	}

	reserveIn, reserveOut := e.reserves(dir)
	nextIn, err := cpmm.Add(reserveIn, amountIn)
	if err != nil {
		return nil, mathError("swap "+dir.String(), err)
	}
	nextOut, err := cpmm.Sub(reserveOut, amountOut)
	if err != nil {
		return nil, mathError("swap "+dir.String(), err)
	}
	if nextOut.IsZero() || !cpmm.ProductNotDecreased(reserveIn, reserveOut, nextIn, nextOut) {
		return nil, fmt.Errorf("swap %s: %w: reserves %s/%s -> %s/%s",
			dir, ErrInvariantViolation, reserveIn, reserveOut, nextIn, nextOut)
	}

	s := e.settlement()
	switch dir {
	case CurrencyToToken:
		if err = s.pullCurrency(caller, amountIn); err == nil {
			err = s.payToken(caller, amountOut)
		}
	case TokenToCurrency:
		if err = s.payCurrency(caller, amountOut); err == nil {
			err = s.pullToken(caller, amountIn)
		}
	}
	if err != nil {
		return nil, s.abort(fmt.Errorf("swap %s: %w", dir, err))
	}

	if dir == TokenToCurrency {
		e.tokenReserve, e.currencyReserve = nextIn, nextOut
	} else {
		e.currencyReserve, e.tokenReserve = nextIn, nextOut
	}
	return amountOut, nil
}
