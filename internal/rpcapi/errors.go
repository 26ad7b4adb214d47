package rpcapi

import (
	"errors"

	"github.com/HQ-Q/uniswapv1/internal/exchange"
	"github.com/HQ-Q/uniswapv1/internal/ledger"
	"github.com/HQ-Q/uniswapv1/internal/service"
)

// Error codes returned alongside exchange failures. The range follows the
// JSON-RPC server-error block.
const (
	CodeInvalidParams         = -32602
	CodeSlippageExceeded      = -32010
	CodeInsufficientBalance   = -32011
	CodeInsufficientAllowance = -32012
	CodeEmptyPool             = -32013
	CodeZeroAmount            = -32014
	CodeArithmeticOverflow    = -32015
	CodeExchangeFailure       = -32000
)

type invalidParamsError struct {
	field  string
	reason string
}

func (e *invalidParamsError) Error() string  { return "invalid " + e.field + ": " + e.reason }
func (e *invalidParamsError) ErrorCode() int { return CodeInvalidParams }

// exchangeError carries an exchange failure and its RPC error code.
type exchangeError struct {
	code int
	err  error
}

func (e *exchangeError) Error() string  { return e.err.Error() }
func (e *exchangeError) ErrorCode() int { return e.code }
func (e *exchangeError) Unwrap() error  { return e.err }

func wrap(err error) error {
	return &exchangeError{code: errorCode(err), err: err}
}

func errorCode(err error) int {
	switch {
	case errors.Is(err, exchange.ErrSlippageExceeded):
		return CodeSlippageExceeded
	case errors.Is(err, exchange.ErrInsufficientAllowance), errors.Is(err, ledger.ErrInsufficientAllowance):
		return CodeInsufficientAllowance
	case errors.Is(err, exchange.ErrInsufficientBalance), errors.Is(err, ledger.ErrInsufficientBalance):
		return CodeInsufficientBalance
	case errors.Is(err, exchange.ErrEmptyPool):
		return CodeEmptyPool
	case errors.Is(err, exchange.ErrZeroAmount):
		return CodeZeroAmount
	case errors.Is(err, exchange.ErrArithmeticOverflow):
		return CodeArithmeticOverflow
	case errors.Is(err, exchange.ErrUnknownDirection), errors.Is(err, exchange.ErrZeroAddress), errors.Is(err, exchange.ErrInvalidCaller), errors.Is(err, service.ErrZeroOwner):
		return CodeInvalidParams
	default:
		return CodeExchangeFailure
	}
}
