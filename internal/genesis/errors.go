package genesis

import "errors"

var (
	ErrMalformed        = errors.New("malformed genesis")
	ErrInvalidAddress   = errors.New("invalid account address")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrDuplicateAccount = errors.New("duplicate account")
)
