package cpmm

import (
	"errors"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
)

func TestGetAmountOut(t *testing.T) {
	// Example: reserves 1000000 : 1000000, amountIn 1000
	rIn := uint256.NewInt(1_000_000)
	rOut := uint256.NewInt(1_000_000)
	amountIn := uint256.NewInt(1_000)

	out, err := GetAmountOut(amountIn, rIn, rOut)
	if err != nil {
		t.Fatalf("GetAmountOut error: %v", err)
	}

	// compute expected with math/big to assert the uint256 path matches
	amountInWithFee := new(big.Int).Mul(amountIn.ToBig(), big.NewInt(997))
	numerator := new(big.Int).Mul(amountInWithFee, rOut.ToBig())
	denominator := new(big.Int).Mul(rIn.ToBig(), big.NewInt(1000))
	denominator.Add(denominator, amountInWithFee)
	expected := new(big.Int).Div(numerator, denominator)

	if out.ToBig().Cmp(expected) != 0 {
		t.Fatalf("unexpected: got %s want %s", out, expected)
	}
	if out.IsZero() {
		t.Fatalf("amountOut should be positive")
	}
}

func TestGetAmountOut_KnownValues(t *testing.T) {
	cases := []struct {
		name               string
		in, rIn, rOut, out uint64
	}{
		{"equal_reserves_full_size", 1000, 1000, 1000, 499},
		{"tiny_input_truncates", 1, 1000, 1000, 0},
		{"skewed", 10, 10, 1000, 499},
		{"zero_input", 0, 1000, 1000, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := GetAmountOut(uint256.NewInt(tc.in), uint256.NewInt(tc.rIn), uint256.NewInt(tc.rOut))
			if err != nil {
				t.Fatalf("GetAmountOut error: %v", err)
			}
			if out.Uint64() != tc.out {
				t.Fatalf("got %s want %d", out, tc.out)
			}
		})
	}
}

func TestGetAmountOut_EmptyReserves(t *testing.T) {
	_, err := GetAmountOut(uint256.NewInt(1), new(uint256.Int), uint256.NewInt(1))
	if !errors.Is(err, ErrEmptyReserves) {
		t.Fatalf("expected ErrEmptyReserves, got %v", err)
	}
	_, err = GetAmountOut(uint256.NewInt(1), uint256.NewInt(1), new(uint256.Int))
	if !errors.Is(err, ErrEmptyReserves) {
		t.Fatalf("expected ErrEmptyReserves, got %v", err)
	}
}

func TestGetAmountOut_Overflow(t *testing.T) {
	huge := new(uint256.Int).Lsh(uint256.NewInt(1), 200)
	_, err := GetAmountOut(huge, huge, huge)
	if !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
}

func TestGetAmountOut_BelowReserve(t *testing.T) {
	rIn := uint256.NewInt(1)
	rOut := uint256.NewInt(1_000_000)
	in := new(uint256.Int).Lsh(uint256.NewInt(1), 100)

	out, err := GetAmountOut(in, rIn, rOut)
	if err != nil {
		t.Fatalf("GetAmountOut error: %v", err)
	}
	if !out.Lt(rOut) {
		t.Fatalf("output %s drains reserve %s", out, rOut)
	}
}

func TestMulDiv(t *testing.T) {
	got, err := MulDiv(uint256.NewInt(10), uint256.NewInt(7), uint256.NewInt(3))
	if err != nil {
		t.Fatalf("MulDiv error: %v", err)
	}
	if got.Uint64() != 23 {
		t.Fatalf("got %s want 23", got)
	}
	if _, err := MulDiv(uint256.NewInt(1), uint256.NewInt(1), new(uint256.Int)); !errors.Is(err, ErrEmptyReserves) {
		t.Fatalf("expected ErrEmptyReserves, got %v", err)
	}
	maxU := new(uint256.Int).SetAllOne()
	if _, err := MulDiv(maxU, uint256.NewInt(2), uint256.NewInt(2)); !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
}

func TestQuote(t *testing.T) {
	got, err := Quote(uint256.NewInt(10), uint256.NewInt(10), uint256.NewInt(1000))
	if err != nil {
		t.Fatalf("Quote error: %v", err)
	}
	if got.Uint64() != 1000 {
		t.Fatalf("got %s want 1000", got)
	}
	if _, err := Quote(uint256.NewInt(1), new(uint256.Int), uint256.NewInt(1)); !errors.Is(err, ErrEmptyReserves) {
		t.Fatalf("expected ErrEmptyReserves, got %v", err)
	}
}

func TestAddSub(t *testing.T) {
	maxU := new(uint256.Int).SetAllOne()
	if _, err := Add(maxU, uint256.NewInt(1)); !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
	if _, err := Sub(uint256.NewInt(1), uint256.NewInt(2)); !errors.Is(err, ErrUnderflow) {
		t.Fatalf("expected ErrUnderflow, got %v", err)
	}
	got, err := Sub(uint256.NewInt(5), uint256.NewInt(2))
	if err != nil || got.Uint64() != 3 {
		t.Fatalf("Sub: got %v, %v", got, err)
	}
}

func TestProductNotDecreased(t *testing.T) {
	one := uint256.NewInt(1)
	maxU := new(uint256.Int).SetAllOne()
	if !ProductNotDecreased(maxU, maxU, maxU, maxU) {
		t.Fatalf("equal products must not count as decreased")
	}
	if ProductNotDecreased(maxU, maxU, maxU, one) {
		t.Fatalf("smaller product reported as not decreased")
	}
}
