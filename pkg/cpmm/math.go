// Package cpmm implements the integer math of a constant-product market maker.
// Every operation is checked 256-bit arithmetic that truncates on division, so
// results match a uint256 contract bit for bit.
package cpmm

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"
)

var (
	ErrEmptyReserves = errors.New("empty reserves")
	ErrOverflow      = errors.New("uint256 overflow")
	ErrUnderflow     = errors.New("uint256 underflow")
)

// fee: 0.3% => multiplier 997/1000
const (
	FeeNumerator   = 997
	FeeDenominator = 1000
)

var (
	feeMul = uint256.NewInt(FeeNumerator)
	feeDen = uint256.NewInt(FeeDenominator)
)

// GetAmountOut returns the output of swapping amountIn against a pool holding
// reserveIn and reserveOut:
//
//	out = amountIn*997*reserveOut / (reserveIn*1000 + amountIn*997)
//
// A zero amountIn quotes zero. The result is always strictly below reserveOut.
func GetAmountOut(amountIn, reserveIn, reserveOut *uint256.Int) (*uint256.Int, error) {
	if reserveIn.IsZero() || reserveOut.IsZero() {
		return nil, ErrEmptyReserves
	}
	if amountIn.IsZero() {
		return new(uint256.Int), nil
	}

	// t1 = amountIn * 997
	t1, overflow := new(uint256.Int).MulOverflow(amountIn, feeMul)
	if overflow {
		return nil, ErrOverflow
	}
	// t2 = reserveIn * 1000 + t1  (denominator)
	t2, overflow := new(uint256.Int).MulOverflow(reserveIn, feeDen)
	if overflow {
		return nil, ErrOverflow
	}
	if _, overflow = t2.AddOverflow(t2, t1); overflow {
		return nil, ErrOverflow
	}
	// dst = t1 * reserveOut (numerator)
	dst, overflow := new(uint256.Int).MulOverflow(t1, reserveOut)
	if overflow {
		return nil, ErrOverflow
	}
	return dst.Div(dst, t2), nil
}

// MulDiv returns a*b/c truncated toward zero. The product must fit in 256 bits.
func MulDiv(a, b, c *uint256.Int) (*uint256.Int, error) {
	if c.IsZero() {
		return nil, ErrEmptyReserves
	}
	z, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return z.Div(z, c), nil
}

// Quote returns the amount of B matching amountA at the current reserve ratio.
func Quote(amountA, reserveA, reserveB *uint256.Int) (*uint256.Int, error) {
	if reserveA.IsZero() || reserveB.IsZero() {
		return nil, ErrEmptyReserves
	}
	return MulDiv(amountA, reserveB, reserveA)
}

// Add returns a+b or ErrOverflow.
func Add(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// Sub returns a-b or ErrUnderflow.
func Sub(a, b *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(a, b)
	if underflow {
		return nil, ErrUnderflow
	}
	return z, nil
}

// ProductNotDecreased reports whether x1*y1 >= x0*y0. The products can exceed
// 256 bits, so they are compared as big integers.
func ProductNotDecreased(x0, y0, x1, y1 *uint256.Int) bool {
	before := new(big.Int).Mul(x0.ToBig(), y0.ToBig())
	after := new(big.Int).Mul(x1.ToBig(), y1.ToBig())
	return after.Cmp(before) >= 0
}
