package config

import "errors"

// ErrInvalidExchangeAddress indicates that EXCHANGE_ADDRESS is not a non-zero
// hex address.
var ErrInvalidExchangeAddress = errors.New("invalid EXCHANGE_ADDRESS environment variable")

// ErrInvalidLogFormat indicates that LOG_FORMAT is neither text nor json.
var ErrInvalidLogFormat = errors.New("invalid LOG_FORMAT environment variable")
