package handler

import "github.com/gofiber/fiber/v3"

// ErrInvalidBody indicates that the request body could not be decoded into
// the expected structure.
var ErrInvalidBody = fiber.NewError(fiber.StatusBadRequest, "invalid request body")

// ErrAmountRequired is returned when an amount field is missing.
var ErrAmountRequired = fiber.NewError(fiber.StatusBadRequest, "amount is required")

// ErrInvalidAmountFormat is returned when an amount is not a base-10 integer
// in the uint256 range.
var ErrInvalidAmountFormat = fiber.NewError(fiber.StatusBadRequest, "invalid amount format")

// ErrUnknownDirection is returned when a swap names neither direction.
var ErrUnknownDirection = fiber.NewError(fiber.StatusBadRequest, "direction must be currency_to_token or token_to_currency")

// ErrEmptyPoolBadRequest maps an empty pool to a 400 error.
var ErrEmptyPoolBadRequest = fiber.NewError(fiber.StatusBadRequest, "pool has no liquidity")

// ErrZeroAmountBadRequest is returned when an amount is zero or settles to
// nothing after truncation.
var ErrZeroAmountBadRequest = fiber.NewError(fiber.StatusBadRequest, "amount too small to settle")

// ErrOverflowBadRequest maps a uint256 overflow in the pool math to a 400
// error.
var ErrOverflowBadRequest = fiber.NewError(fiber.StatusBadRequest, "amount overflows pool arithmetic")

// ErrSlippageConflict is returned when the pool price moved past the caller's
// bound.
var ErrSlippageConflict = fiber.NewError(fiber.StatusConflict, "slippage bound exceeded")

// ErrInsufficientBalance is returned when the caller holds too little
// currency, token or shares.
var ErrInsufficientBalance = fiber.NewError(fiber.StatusUnprocessableEntity, "insufficient balance")

// ErrInsufficientAllowance is returned when the caller has not approved
// enough token to the exchange.
var ErrInsufficientAllowance = fiber.NewError(fiber.StatusUnprocessableEntity, "insufficient allowance")

// ErrExchangeAddress is returned when the exchange's own address is used as
// a caller or share recipient.
var ErrExchangeAddress = fiber.NewError(fiber.StatusBadRequest, "the exchange address cannot trade with the exchange")

// ErrExchangeFailedInternal signals a generic server-side failure.
var ErrExchangeFailedInternal = fiber.NewError(fiber.StatusInternalServerError, "exchange operation failed")

// NewInvalidAmount wraps an amount parsing error for field into a 400 Bad
// Request.
func NewInvalidAmount(field string, err error) error {
	return fiber.NewError(fiber.StatusBadRequest, "invalid "+field+": "+err.Error())
}

// NewAddressRequired returns a 400 Bad Request for a missing address field.
func NewAddressRequired(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, field+" address is required")
}

// NewInvalidAddress returns a 400 Bad Request for an invalid address format.
func NewInvalidAddress(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, "invalid "+field+" address")
}
