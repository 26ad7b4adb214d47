package exchange

import (
	"errors"
	"fmt"

	"github.com/HQ-Q/uniswapv1/pkg/cpmm"
)

var (
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrEmptyPool             = errors.New("pool is empty")
	ErrSlippageExceeded      = errors.New("slippage exceeded")
	ErrZeroAmount            = errors.New("zero amount")
	ErrArithmeticOverflow    = errors.New("arithmetic overflow")
	ErrInvariantViolation    = errors.New("pool invariant violated")
	ErrUnknownDirection      = errors.New("unknown swap direction")
	ErrZeroAddress           = errors.New("zero address")
	ErrInvalidCaller         = errors.New("exchange cannot trade with itself")
	ErrRollbackFailed        = errors.New("settlement rollback failed")
)

// mathError maps a curve math failure onto the exchange errors.
func mathError(op string, err error) error {
	switch {
	case errors.Is(err, cpmm.ErrEmptyReserves):
		return fmt.Errorf("%s: %w", op, ErrEmptyPool)
	case errors.Is(err, cpmm.ErrOverflow), errors.Is(err, cpmm.ErrUnderflow):
		return fmt.Errorf("%s: %w: %w", op, ErrArithmeticOverflow, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
