package service

import (
	"errors"

	"github.com/HQ-Q/uniswapv1/internal/exchange"
	"github.com/HQ-Q/uniswapv1/internal/ledger"
)

var ErrZeroOwner = errors.New("owner is the zero address")

// status labels an operation outcome for metrics.
func status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, exchange.ErrInsufficientAllowance):
		return "insufficient_allowance"
	case errors.Is(err, exchange.ErrInsufficientBalance), errors.Is(err, ledger.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, exchange.ErrEmptyPool):
		return "empty_pool"
	case errors.Is(err, exchange.ErrSlippageExceeded):
		return "slippage_exceeded"
	case errors.Is(err, exchange.ErrZeroAmount):
		return "zero_amount"
	case errors.Is(err, exchange.ErrArithmeticOverflow):
		return "overflow"
	case errors.Is(err, exchange.ErrZeroAddress), errors.Is(err, exchange.ErrInvalidCaller), errors.Is(err, exchange.ErrUnknownDirection), errors.Is(err, ErrZeroOwner):
		return "invalid_argument"
	default:
		return "error"
	}
}
