package handler

import (
	"errors"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v3"
	"github.com/holiman/uint256"

	"github.com/HQ-Q/uniswapv1/internal/exchange"
	"github.com/HQ-Q/uniswapv1/internal/ledger"
	"github.com/HQ-Q/uniswapv1/internal/service"
)

type ExchangeHandler struct {
	BaseHandler
	service *service.ExchangeService
}

func NewExchangeHandler(logger *slog.Logger, svc *service.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{
		BaseHandler: BaseHandler{
			logger: logger,
		},
		service: svc,
	}
}

// Register mounts every exchange route on r.
func (h *ExchangeHandler) Register(r fiber.Router) {
	r.Get("/reserve", h.Reserve())
	r.Get("/quote/token", h.Quote(exchange.CurrencyToToken))
	r.Get("/quote/eth", h.Quote(exchange.TokenToCurrency))
	r.Get("/shares/:owner", h.Shares())
	r.Post("/shares/transfer", h.TransferShares())
	r.Get("/accounts/:owner", h.Account())
	r.Post("/liquidity/add", h.AddLiquidity())
	r.Post("/liquidity/remove", h.RemoveLiquidity())
	r.Post("/swap", h.Swap())
	r.Post("/token/approve", h.Approve())
}

type ReserveResponse struct {
	Symbol          string `json:"symbol"`
	CurrencyReserve string `json:"currency_reserve"`
	TokenReserve    string `json:"token_reserve"`
	TotalShares     string `json:"total_shares"`
}

type QuoteResponse struct {
	Direction string `json:"direction"`
	AmountIn  string `json:"amount_in"`
	AmountOut string `json:"amount_out"`
}

type AccountResponse struct {
	Owner     string `json:"owner"`
	Currency  string `json:"currency"`
	Token     string `json:"token"`
	Allowance string `json:"allowance"`
	Shares    string `json:"shares"`
}

type AddLiquidityRequest struct {
	From        string `json:"from"`
	TokenAmount string `json:"token_amount"`
	Value       string `json:"value"`
}

type RemoveLiquidityRequest struct {
	From   string `json:"from"`
	Shares string `json:"shares"`
}

type SwapRequest struct {
	From         string `json:"from"`
	Direction    string `json:"direction"`
	AmountIn     string `json:"amount_in"`
	MinAmountOut string `json:"min_amount_out"`
}

type TransferSharesRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type ApproveRequest struct {
	From   string `json:"from"`
	Amount string `json:"amount"`
}

func (h *ExchangeHandler) Reserve() fiber.Handler {
	return func(c fiber.Ctx) error {
		p := h.service.Pool(c.Context())
		return c.JSON(ReserveResponse{
			Symbol:          h.service.TokenSymbol(),
			CurrencyReserve: p.CurrencyReserve.Dec(),
			TokenReserve:    p.TokenReserve.Dec(),
			TotalShares:     p.TotalShares.Dec(),
		})
	}
}

func (h *ExchangeHandler) Quote(dir exchange.Direction) fiber.Handler {
	return func(c fiber.Ctx) error {
		amountIn, err := h.parseAmount("amount_in", c.Query("amount_in"))
		if err != nil {
			return err
		}

		out, err := h.service.Quote(c.Context(), dir, amountIn)
		if err != nil {
			return h.handleServiceError(err)
		}
		return c.JSON(QuoteResponse{
			Direction: dir.String(),
			AmountIn:  amountIn.Dec(),
			AmountOut: out.Dec(),
		})
	}
}

func (h *ExchangeHandler) Shares() fiber.Handler {
	return func(c fiber.Ctx) error {
		owner, err := h.parseAddress("owner", c.Params("owner"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"owner":  owner.Hex(),
			"shares": h.service.Shares(c.Context(), owner).Dec(),
		})
	}
}

func (h *ExchangeHandler) Account() fiber.Handler {
	return func(c fiber.Ctx) error {
		owner, err := h.parseAddress("owner", c.Params("owner"))
		if err != nil {
			return err
		}
		a := h.service.Account(c.Context(), owner)
		return c.JSON(AccountResponse{
			Owner:     owner.Hex(),
			Currency:  a.Currency.Dec(),
			Token:     a.Token.Dec(),
			Allowance: a.Allowance.Dec(),
			Shares:    a.Shares.Dec(),
		})
	}
}

func (h *ExchangeHandler) AddLiquidity() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req AddLiquidityRequest
		if err := h.bind(c, &req); err != nil {
			return err
		}
		from, err := h.parseAddress("from", req.From)
		if err != nil {
			return err
		}
		tokenAmount, err := h.parseAmount("token_amount", req.TokenAmount)
		if err != nil {
			return err
		}
		value, err := h.parseAmount("value", req.Value)
		if err != nil {
			return err
		}

		minted, err := h.service.AddLiquidity(c.Context(), from, tokenAmount, value)
		if err != nil {
			return h.handleServiceError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"minted": minted.Dec()})
	}
}

func (h *ExchangeHandler) RemoveLiquidity() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req RemoveLiquidityRequest
		if err := h.bind(c, &req); err != nil {
			return err
		}
		from, err := h.parseAddress("from", req.From)
		if err != nil {
			return err
		}
		shares, err := h.parseAmount("shares", req.Shares)
		if err != nil {
			return err
		}

		w, err := h.service.RemoveLiquidity(c.Context(), from, shares)
		if err != nil {
			return h.handleServiceError(err)
		}
		return c.JSON(fiber.Map{
			"currency": w.Currency.Dec(),
			"token":    w.Token.Dec(),
		})
	}
}

func (h *ExchangeHandler) Swap() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req SwapRequest
		if err := h.bind(c, &req); err != nil {
			return err
		}
		from, err := h.parseAddress("from", req.From)
		if err != nil {
			return err
		}
		dir, err := exchange.ParseDirection(req.Direction)
		if err != nil {
			return ErrUnknownDirection
		}
		amountIn, err := h.parseAmount("amount_in", req.AmountIn)
		if err != nil {
			return err
		}
		minOut := new(uint256.Int)
		if req.MinAmountOut != "" {
			if minOut, err = h.parseAmount("min_amount_out", req.MinAmountOut); err != nil {
				return err
			}
		}

		out, err := h.service.Swap(c.Context(), from, dir, amountIn, minOut)
		if err != nil {
			return h.handleServiceError(err)
		}
		return c.JSON(QuoteResponse{
			Direction: dir.String(),
			AmountIn:  amountIn.Dec(),
			AmountOut: out.Dec(),
		})
	}
}

func (h *ExchangeHandler) TransferShares() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req TransferSharesRequest
		if err := h.bind(c, &req); err != nil {
			return err
		}
		from, err := h.parseAddress("from", req.From)
		if err != nil {
			return err
		}
		to, err := h.parseAddress("to", req.To)
		if err != nil {
			return err
		}
		amount, err := h.parseAmount("amount", req.Amount)
		if err != nil {
			return err
		}

		if err := h.service.TransferShares(c.Context(), from, to, amount); err != nil {
			return h.handleServiceError(err)
		}
		return c.JSON(fiber.Map{
			"from":        from.Hex(),
			"to":          to.Hex(),
			"from_shares": h.service.Shares(c.Context(), from).Dec(),
			"to_shares":   h.service.Shares(c.Context(), to).Dec(),
		})
	}
}

func (h *ExchangeHandler) Approve() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req ApproveRequest
		if err := h.bind(c, &req); err != nil {
			return err
		}
		from, err := h.parseAddress("from", req.From)
		if err != nil {
			return err
		}
		amount, err := h.parseAmount("amount", req.Amount)
		if err != nil {
			return err
		}

		if err := h.service.Approve(c.Context(), from, amount); err != nil {
			return h.handleServiceError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func (h *ExchangeHandler) bind(c fiber.Ctx, out any) error {
	if err := c.Bind().Body(out); err != nil {
		h.logger.Debug("failed to bind request body", "err", err)
		return ErrInvalidBody
	}
	return nil
}

func (h *ExchangeHandler) parseAddress(field, addr string) (common.Address, error) {
	if addr == "" {
		return common.Address{}, NewAddressRequired(field)
	}
	if !common.IsHexAddress(addr) {
		return common.Address{}, NewInvalidAddress(field)
	}
	return common.HexToAddress(addr), nil
}

func (h *ExchangeHandler) parseAmount(field, amountStr string) (*uint256.Int, error) {
	if amountStr == "" {
		return nil, NewInvalidAmount(field, ErrAmountRequired)
	}
	amount, err := uint256.FromDecimal(amountStr)
	if err != nil {
		return nil, NewInvalidAmount(field, ErrInvalidAmountFormat)
	}
	return amount, nil
}

func (h *ExchangeHandler) handleServiceError(err error) error {
	switch {
	case errors.Is(err, exchange.ErrSlippageExceeded):
		return ErrSlippageConflict
	case errors.Is(err, exchange.ErrInsufficientAllowance), errors.Is(err, ledger.ErrInsufficientAllowance):
		return ErrInsufficientAllowance
	case errors.Is(err, exchange.ErrInsufficientBalance), errors.Is(err, ledger.ErrInsufficientBalance):
		return ErrInsufficientBalance
	case errors.Is(err, exchange.ErrEmptyPool):
		return ErrEmptyPoolBadRequest
	case errors.Is(err, exchange.ErrZeroAmount):
		return ErrZeroAmountBadRequest
	case errors.Is(err, exchange.ErrArithmeticOverflow):
		return ErrOverflowBadRequest
	case errors.Is(err, exchange.ErrUnknownDirection):
		return ErrUnknownDirection
	case errors.Is(err, exchange.ErrInvalidCaller):
		return ErrExchangeAddress
	case errors.Is(err, exchange.ErrZeroAddress), errors.Is(err, service.ErrZeroOwner):
		return NewInvalidAddress("from")
	default:
		h.logger.Error("exchange operation failed", "err", err)
		return ErrExchangeFailedInternal
	}
}
