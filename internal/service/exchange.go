package service

import (
	"context"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/HQ-Q/uniswapv1/internal/exchange"
	"github.com/HQ-Q/uniswapv1/internal/ledger"
	"github.com/HQ-Q/uniswapv1/internal/metrics"
)

// ExchangeService runs pool operations against the node's in-memory ledgers
// and records their outcome.
type ExchangeService struct {
	BaseService
	exchange *exchange.Exchange
	token    *ledger.Token
	bank     *ledger.Bank
	metrics  *metrics.Metrics
}

// NewExchangeService constructs an ExchangeService. The exchange must settle
// against token and bank.
func NewExchangeService(logger *slog.Logger, ex *exchange.Exchange, token *ledger.Token, bank *ledger.Bank, m *metrics.Metrics) *ExchangeService {
	s := &ExchangeService{
		BaseService: BaseService{logger: logger},
		exchange:    ex,
		token:       token,
		bank:        bank,
		metrics:     m,
	}
	s.observePool()
	return s
}

// Account is every balance an address holds that the exchange cares about.
type Account struct {
	Currency  *uint256.Int
	Token     *uint256.Int
	Allowance *uint256.Int
	Shares    *uint256.Int
}

type Withdrawal struct {
	Currency *uint256.Int
	Token    *uint256.Int
}

func (s *ExchangeService) Pool(_ context.Context) exchange.Pool {
	return s.exchange.Pool()
}

func (s *ExchangeService) TokenSymbol() string {
	return s.token.Symbol()
}

// Quote returns the output of selling amountIn in direction dir without
// changing the pool.
func (s *ExchangeService) Quote(_ context.Context, dir exchange.Direction, amountIn *uint256.Int) (*uint256.Int, error) {
	if amountIn == nil {
		amountIn = new(uint256.Int)
	}
	var (
		out *uint256.Int
		err error
	)
	switch dir {
	case exchange.CurrencyToToken:
		out, err = s.exchange.GetTokenAmount(amountIn)
	case exchange.TokenToCurrency:
		out, err = s.exchange.GetEthAmount(amountIn)
	default:
		return nil, exchange.ErrUnknownDirection
	}
	if err != nil {
		return nil, err
	}
	s.logger.Debug("quote computed", "direction", dir, "in", amountIn.Dec(), "out", out.Dec())
	return out, nil
}

func (s *ExchangeService) Shares(_ context.Context, owner common.Address) *uint256.Int {
	return s.exchange.BalanceOf(owner)
}

func (s *ExchangeService) Account(_ context.Context, owner common.Address) Account {
	return Account{
		Currency:  s.bank.BalanceOf(owner),
		Token:     s.token.BalanceOf(owner),
		Allowance: s.token.Allowance(owner, s.exchange.Address()),
		Shares:    s.exchange.BalanceOf(owner),
	}
}

// Approve lets the exchange pull up to amount of owner's token.
func (s *ExchangeService) Approve(ctx context.Context, owner common.Address, amount *uint256.Int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if owner == (common.Address{}) {
		return ErrZeroOwner
	}
	if owner == s.exchange.Address() {
		return exchange.ErrInvalidCaller
	}
	if amount == nil {
		amount = new(uint256.Int)
	}
	if err := s.token.Approve(owner, s.exchange.Address(), amount); err != nil {
		return err
	}
	s.logger.Debug("token approved", "owner", owner.Hex(), "amount", amount.Dec())
	return nil
}

func (s *ExchangeService) AddLiquidity(ctx context.Context, from common.Address, tokenAmount, value *uint256.Int) (*uint256.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	minted, err := s.exchange.AddLiquidity(from, tokenAmount, value)
	s.record("add_liquidity", err)
	if err != nil {
		s.logger.Debug("add liquidity rejected", "from", from.Hex(), "err", err)
		return nil, err
	}

	s.metrics.AddVolume("add_liquidity", "currency", "in", value)
	s.logger.Info("liquidity added", "from", from.Hex(), "currency", value.Dec(), "max_token", tokenAmount.Dec(), "minted", minted.Dec())
	return minted, nil
}

func (s *ExchangeService) RemoveLiquidity(ctx context.Context, from common.Address, shares *uint256.Int) (*Withdrawal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	currencyOut, tokenOut, err := s.exchange.RemoveLiquidity(from, shares)
	s.record("remove_liquidity", err)
	if err != nil {
		s.logger.Debug("remove liquidity rejected", "from", from.Hex(), "err", err)
		return nil, err
	}

	s.metrics.AddVolume("remove_liquidity", "currency", "out", currencyOut)
	s.metrics.AddVolume("remove_liquidity", "token", "out", tokenOut)
	s.logger.Info("liquidity removed", "from", from.Hex(), "shares", shares.Dec(), "currency", currencyOut.Dec(), "token", tokenOut.Dec())
	return &Withdrawal{Currency: currencyOut, Token: tokenOut}, nil
}

func (s *ExchangeService) Swap(ctx context.Context, from common.Address, dir exchange.Direction, amountIn, minAmountOut *uint256.Int) (*uint256.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := s.exchange.Swap(from, dir, amountIn, minAmountOut)
	s.record("swap", err)
	if err != nil {
		s.logger.Debug("swap rejected", "from", from.Hex(), "direction", dir, "err", err)
		return nil, err
	}

	assetIn, assetOut := "currency", "token"
	if dir == exchange.TokenToCurrency {
		assetIn, assetOut = assetOut, assetIn
	}
	s.metrics.AddVolume("swap", assetIn, "in", amountIn)
	s.metrics.AddVolume("swap", assetOut, "out", out)
	s.logger.Info("swap executed", "from", from.Hex(), "direction", dir, "in", amountIn.Dec(), "out", out.Dec())
	return out, nil
}

func (s *ExchangeService) TransferShares(ctx context.Context, from, to common.Address, amount *uint256.Int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.exchange.TransferShares(from, to, amount)
	s.record("transfer_shares", err)
	if err != nil {
		s.logger.Debug("share transfer rejected", "from", from.Hex(), "to", to.Hex(), "err", err)
		return err
	}
	s.logger.Info("shares transferred", "from", from.Hex(), "to", to.Hex(), "amount", amount.Dec())
	return nil
}

// record counts the outcome of op and refreshes the pool gauges. A failed
// call has no effect on the pool, so only a success triggers the refresh.
func (s *ExchangeService) record(op string, err error) {
	label := status(err)
	s.metrics.RecordOperation(op, label)
	switch label {
	case "ok":
		s.observePool()
	case "error":
		s.logger.Error("pool operation failed", "op", op, "err", err)
	}
}

func (s *ExchangeService) observePool() {
	s.metrics.SetPool(s.exchange.Pool(), s.exchange.Holders())
}
