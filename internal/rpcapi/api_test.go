package rpcapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/HQ-Q/uniswapv1/internal/exchange"
	"github.com/HQ-Q/uniswapv1/internal/ledger"
	"github.com/HQ-Q/uniswapv1/internal/metrics"
	"github.com/HQ-Q/uniswapv1/internal/service"
)

var (
	exchangeAddr = common.HexToAddress("0x0000000000000000000000000000000000000abc")
	alice        = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	bob          = common.HexToAddress("0x00000000000000000000000000000000000000bb")
)

func newInprocClient(t *testing.T) (*rpc.Client, *ledger.Token) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	token := ledger.NewToken("MyToken", "MTK")
	bank := ledger.NewBank()
	for _, a := range []common.Address{alice, bob} {
		if err := token.Mint(a, uint256.NewInt(1_000_000)); err != nil {
			t.Fatalf("mint: %v", err)
		}
		if err := bank.Credit(a, uint256.NewInt(1_000_000)); err != nil {
			t.Fatalf("credit: %v", err)
		}
	}
	ex := exchange.New(logger, exchangeAddr, token, bank)
	svc := service.NewExchangeService(logger, ex, token, bank, metrics.New(prometheus.NewRegistry()))

	srv, err := NewServer(svc)
	if err != nil {
		t.Fatalf("register rpc service: %v", err)
	}
	c := rpc.DialInProc(srv)
	t.Cleanup(func() {
		c.Close()
		srv.Stop()
	})
	return c, token
}

func hexBig(v int64) *hexutil.Big {
	return (*hexutil.Big)(big.NewInt(v))
}

func TestExchangeAPI_RoundTrip(t *testing.T) {
	c, token := newInprocClient(t)
	ctx := context.Background()

	if err := token.Approve(alice, exchangeAddr, uint256.NewInt(1000)); err != nil {
		t.Fatalf("approve: %v", err)
	}

	var minted hexutil.Big
	if err := c.CallContext(ctx, &minted, "exchange_addLiquidity", AddLiquidityArgs{From: alice, TokenAmount: hexBig(1000), Value: hexBig(1000)}); err != nil {
		t.Fatalf("exchange_addLiquidity: %v", err)
	}
	if minted.ToInt().Int64() != 1000 {
		t.Fatalf("unexpected minted shares: %s", minted.String())
	}

	var reserve Reserve
	if err := c.CallContext(ctx, &reserve, "exchange_getReserve"); err != nil {
		t.Fatalf("exchange_getReserve: %v", err)
	}
	if reserve.TokenReserve.ToInt().Int64() != 1000 || reserve.Symbol != "MTK" {
		t.Fatalf("unexpected reserve: %+v", reserve)
	}

	var quote hexutil.Big
	if err := c.CallContext(ctx, &quote, "exchange_getTokenAmount", hexBig(1000)); err != nil {
		t.Fatalf("exchange_getTokenAmount: %v", err)
	}
	if quote.ToInt().Int64() != 499 {
		t.Fatalf("unexpected quote: %s", quote.String())
	}

	var out hexutil.Big
	if err := c.CallContext(ctx, &out, "exchange_swap", SwapArgs{From: bob, Direction: "currency_to_token", AmountIn: hexBig(1000), MinAmountOut: &quote}); err != nil {
		t.Fatalf("exchange_swap: %v", err)
	}
	if out.ToInt().Cmp(quote.ToInt()) != 0 {
		t.Fatalf("swap paid %s, quoted %s", out.String(), quote.String())
	}

	var shares hexutil.Big
	if err := c.CallContext(ctx, &shares, "exchange_balanceOf", alice); err != nil {
		t.Fatalf("exchange_balanceOf: %v", err)
	}
	var total hexutil.Big
	if err := c.CallContext(ctx, &total, "exchange_totalShares"); err != nil {
		t.Fatalf("exchange_totalShares: %v", err)
	}
	if shares.ToInt().Cmp(total.ToInt()) != 0 {
		t.Fatalf("sole provider holds %s of %s shares", shares.String(), total.String())
	}

	var left hexutil.Big
	if err := c.CallContext(ctx, &left, "exchange_transferShares", TransferSharesArgs{From: alice, To: bob, Amount: hexBig(100)}); err != nil {
		t.Fatalf("exchange_transferShares: %v", err)
	}
	if left.ToInt().Int64() != 900 {
		t.Fatalf("unexpected sender balance after transfer: %s", left.String())
	}
	if err := c.CallContext(ctx, &left, "exchange_transferShares", TransferSharesArgs{From: bob, To: alice, Amount: hexBig(100)}); err != nil {
		t.Fatalf("exchange_transferShares back: %v", err)
	}

	var w Withdrawal
	if err := c.CallContext(ctx, &w, "exchange_removeLiquidity", RemoveLiquidityArgs{From: alice, Shares: &shares}); err != nil {
		t.Fatalf("exchange_removeLiquidity: %v", err)
	}
	if w.Currency.ToInt().Int64() != 2000 || w.Token.ToInt().Int64() != 501 {
		t.Fatalf("unexpected withdrawal: %s currency, %s token", w.Currency.String(), w.Token.String())
	}
}

func TestExchangeAPI_ErrorCodes(t *testing.T) {
	c, _ := newInprocClient(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		method string
		args   []any
		want   int
	}{
		{"empty pool quote", "exchange_getEthAmount", []any{hexBig(1)}, CodeEmptyPool},
		{"unknown direction", "exchange_swap", []any{SwapArgs{From: bob, Direction: "up", AmountIn: hexBig(1)}}, CodeInvalidParams},
		{"missing allowance", "exchange_addLiquidity", []any{AddLiquidityArgs{From: bob, TokenAmount: hexBig(10), Value: hexBig(10)}}, CodeInsufficientAllowance},
		{"exchange as caller", "exchange_swap", []any{SwapArgs{From: exchangeAddr, Direction: "currency_to_token", AmountIn: hexBig(1)}}, CodeInvalidParams},
		{"exchange as share recipient", "exchange_transferShares", []any{TransferSharesArgs{From: alice, To: exchangeAddr, Amount: hexBig(1)}}, CodeInvalidParams},
		{"zero deposit", "exchange_addLiquidity", []any{AddLiquidityArgs{From: bob}}, CodeZeroAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var res any
			err := c.CallContext(ctx, &res, tc.method, tc.args...)
			var rpcErr rpc.Error
			if !errors.As(err, &rpcErr) {
				t.Fatalf("expected rpc.Error, got %v", err)
			}
			if rpcErr.ErrorCode() != tc.want {
				t.Fatalf("expected code %d, got %d (%v)", tc.want, rpcErr.ErrorCode(), err)
			}
		})
	}
}

func TestFromBig(t *testing.T) {
	if _, err := fromBig("x", (*hexutil.Big)(big.NewInt(-1))); err == nil {
		t.Fatalf("negative value accepted")
	}
	tooBig := new(big.Int).Lsh(big.NewInt(1), 256)
	if _, err := fromBig("x", (*hexutil.Big)(tooBig)); err == nil {
		t.Fatalf("2^256 accepted")
	}
	z, err := fromBig("x", nil)
	if err != nil || !z.IsZero() {
		t.Fatalf("nil should read as zero, got %v, %v", z, err)
	}
}
