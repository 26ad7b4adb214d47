// Package rpcapi exposes the exchange as a go-ethereum JSON-RPC service under
// the "exchange" namespace.
package rpcapi

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/holiman/uint256"

	"github.com/HQ-Q/uniswapv1/internal/exchange"
	"github.com/HQ-Q/uniswapv1/internal/service"
)

const Namespace = "exchange"

// NewServer returns an RPC server with the exchange API registered.
func NewServer(svc *service.ExchangeService) (*rpc.Server, error) {
	srv := rpc.NewServer()
	if err := srv.RegisterName(Namespace, NewExchangeAPI(svc)); err != nil {
		srv.Stop()
		return nil, err
	}
	return srv, nil
}

// ExchangeAPI is the exchange_* method set.
type ExchangeAPI struct {
	service *service.ExchangeService
}

func NewExchangeAPI(svc *service.ExchangeService) *ExchangeAPI {
	return &ExchangeAPI{service: svc}
}

type Reserve struct {
	Symbol          string       `json:"symbol"`
	CurrencyReserve *hexutil.Big `json:"currencyReserve"`
	TokenReserve    *hexutil.Big `json:"tokenReserve"`
	TotalShares     *hexutil.Big `json:"totalShares"`
}

type AddLiquidityArgs struct {
	From        common.Address `json:"from"`
	TokenAmount *hexutil.Big   `json:"tokenAmount"`
	Value       *hexutil.Big   `json:"value"`
}

type RemoveLiquidityArgs struct {
	From   common.Address `json:"from"`
	Shares *hexutil.Big   `json:"shares"`
}

type SwapArgs struct {
	From         common.Address `json:"from"`
	Direction    string         `json:"direction"`
	AmountIn     *hexutil.Big   `json:"amountIn"`
	MinAmountOut *hexutil.Big   `json:"minAmountOut,omitempty"`
}

type TransferSharesArgs struct {
	From   common.Address `json:"from"`
	To     common.Address `json:"to"`
	Amount *hexutil.Big   `json:"amount"`
}

type Withdrawal struct {
	Currency *hexutil.Big `json:"currency"`
	Token    *hexutil.Big `json:"token"`
}

// GetReserve returns the token reserve along with the rest of the pool.
func (api *ExchangeAPI) GetReserve(ctx context.Context) *Reserve {
	p := api.service.Pool(ctx)
	return &Reserve{
		Symbol:          api.service.TokenSymbol(),
		CurrencyReserve: toBig(p.CurrencyReserve),
		TokenReserve:    toBig(p.TokenReserve),
		TotalShares:     toBig(p.TotalShares),
	}
}

// GetTokenAmount quotes the token bought with currencyIn.
func (api *ExchangeAPI) GetTokenAmount(ctx context.Context, currencyIn *hexutil.Big) (*hexutil.Big, error) {
	return api.quote(ctx, exchange.CurrencyToToken, currencyIn)
}

// GetEthAmount quotes the currency bought with tokenIn.
func (api *ExchangeAPI) GetEthAmount(ctx context.Context, tokenIn *hexutil.Big) (*hexutil.Big, error) {
	return api.quote(ctx, exchange.TokenToCurrency, tokenIn)
}

func (api *ExchangeAPI) BalanceOf(ctx context.Context, owner common.Address) *hexutil.Big {
	return toBig(api.service.Shares(ctx, owner))
}

func (api *ExchangeAPI) TotalShares(ctx context.Context) *hexutil.Big {
	return toBig(api.service.Pool(ctx).TotalShares)
}

// AddLiquidity deposits args.Value currency and the matching token, returning
// the minted shares.
func (api *ExchangeAPI) AddLiquidity(ctx context.Context, args AddLiquidityArgs) (*hexutil.Big, error) {
	tokenAmount, err := fromBig("tokenAmount", args.TokenAmount)
	if err != nil {
		return nil, err
	}
	value, err := fromBig("value", args.Value)
	if err != nil {
		return nil, err
	}
	minted, err := api.service.AddLiquidity(ctx, args.From, tokenAmount, value)
	if err != nil {
		return nil, wrap(err)
	}
	return toBig(minted), nil
}

func (api *ExchangeAPI) RemoveLiquidity(ctx context.Context, args RemoveLiquidityArgs) (*Withdrawal, error) {
	shares, err := fromBig("shares", args.Shares)
	if err != nil {
		return nil, err
	}
	w, err := api.service.RemoveLiquidity(ctx, args.From, shares)
	if err != nil {
		return nil, wrap(err)
	}
	return &Withdrawal{Currency: toBig(w.Currency), Token: toBig(w.Token)}, nil
}

func (api *ExchangeAPI) Swap(ctx context.Context, args SwapArgs) (*hexutil.Big, error) {
	dir, err := exchange.ParseDirection(args.Direction)
	if err != nil {
		return nil, wrap(err)
	}
	amountIn, err := fromBig("amountIn", args.AmountIn)
	if err != nil {
		return nil, err
	}
	minOut := new(uint256.Int)
	if args.MinAmountOut != nil {
		if minOut, err = fromBig("minAmountOut", args.MinAmountOut); err != nil {
			return nil, err
		}
	}
	out, err := api.service.Swap(ctx, args.From, dir, amountIn, minOut)
	if err != nil {
		return nil, wrap(err)
	}
	return toBig(out), nil
}

// TransferShares moves args.Amount shares and returns the sender's remaining
// balance.
func (api *ExchangeAPI) TransferShares(ctx context.Context, args TransferSharesArgs) (*hexutil.Big, error) {
	amount, err := fromBig("amount", args.Amount)
	if err != nil {
		return nil, err
	}
	if err := api.service.TransferShares(ctx, args.From, args.To, amount); err != nil {
		return nil, wrap(err)
	}
	return toBig(api.service.Shares(ctx, args.From)), nil
}

func (api *ExchangeAPI) quote(ctx context.Context, dir exchange.Direction, in *hexutil.Big) (*hexutil.Big, error) {
	amountIn, err := fromBig("amountIn", in)
	if err != nil {
		return nil, err
	}
	out, err := api.service.Quote(ctx, dir, amountIn)
	if err != nil {
		return nil, wrap(err)
	}
	return toBig(out), nil
}

func toBig(v *uint256.Int) *hexutil.Big {
	if v == nil {
		return (*hexutil.Big)(new(big.Int))
	}
	return (*hexutil.Big)(v.ToBig())
}

// fromBig converts a JSON quantity into a uint256. A missing field reads as
// zero.
func fromBig(field string, v *hexutil.Big) (*uint256.Int, error) {
	if v == nil {
		return new(uint256.Int), nil
	}
	b := v.ToInt()
	if b.Sign() < 0 {
		return nil, &invalidParamsError{field: field, reason: "negative"}
	}
	z, overflow := uint256.FromBig(b)
	if overflow {
		return nil, &invalidParamsError{field: field, reason: "exceeds 256 bits"}
	}
	return z, nil
}
