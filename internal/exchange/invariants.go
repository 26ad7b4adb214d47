package exchange

import "fmt"

// CheckInvariants returns an ErrInvariantViolation describing the first broken
// pool invariant, or nil:
//   - the pool is either fully empty or fully funded
//   - share balances sum to the total shares
//   - the exchange holds at least its reserves in both ledgers
func (e *Exchange) CheckInvariants() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.pool()
	if err := p.Validate(); err != nil {
		return err
	}
	if sum := e.shares.sum(); sum.Cmp(p.TotalShares.ToBig()) != 0 {
		return fmt.Errorf("%w: share balances sum to %s, total shares %s", ErrInvariantViolation, sum, p.TotalShares)
	}
	if held := e.currency.BalanceOf(e.address); held.Lt(p.CurrencyReserve) {
		return fmt.Errorf("%w: exchange holds %s currency, reserve is %s", ErrInvariantViolation, held, p.CurrencyReserve)
	}
	if held := e.token.BalanceOf(e.address); held.Lt(p.TokenReserve) {
		return fmt.Errorf("%w: exchange holds %s token, reserve is %s", ErrInvariantViolation, held, p.TokenReserve)
	}
	return nil
}
