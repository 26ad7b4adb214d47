package exchange

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Pool is a snapshot of the pool record.
type Pool struct {
	CurrencyReserve *uint256.Int
	TokenReserve    *uint256.Int
	TotalShares     *uint256.Int
}

// Empty reports whether no shares are outstanding.
func (p Pool) Empty() bool {
	return p.TotalShares.IsZero()
}

// Validate checks that the pool is either fully empty or fully funded.
func (p Pool) Validate() error {
	c, t, s := p.CurrencyReserve.IsZero(), p.TokenReserve.IsZero(), p.TotalShares.IsZero()
	if c == t && t == s {
		return nil
	}
	return fmt.Errorf("%w: currency reserve %s, token reserve %s, total shares %s",
		ErrInvariantViolation, p.CurrencyReserve, p.TokenReserve, p.TotalShares)
}
