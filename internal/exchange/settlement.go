package exchange

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// settlement moves the assets of a single call and remembers how to undo
// every transfer that went through, so a failing call leaves both ledgers as
// it found them. Undoing a token pull returns the balance but not the spent
// allowance, so a call pulls token after every other leg that can fail.
type settlement struct {
	e    *Exchange
	undo []func() error
}

func (e *Exchange) settlement() *settlement {
	return &settlement{e: e}
}

func (s *settlement) pullToken(from common.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	e := s.e
	if allowed := e.token.Allowance(from, e.address); allowed.Lt(amount) {
		return fmt.Errorf("%w: token allowance %s, needs %s", ErrInsufficientAllowance, allowed, amount)
	}
	if have := e.token.BalanceOf(from); have.Lt(amount) {
		return fmt.Errorf("%w: token balance %s, needs %s", ErrInsufficientBalance, have, amount)
	}
	if err := e.token.TransferFrom(e.address, from, e.address, amount); err != nil {
		return fmt.Errorf("pull token from %s: %w", from.Hex(), err)
	}
	s.undo = append(s.undo, func() error {
		return e.token.Transfer(e.address, from, amount)
	})
	return nil
}

func (s *settlement) pullCurrency(from common.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	e := s.e
	if have := e.currency.BalanceOf(from); have.Lt(amount) {
		return fmt.Errorf("%w: currency balance %s, needs %s", ErrInsufficientBalance, have, amount)
	}
	if err := e.currency.Transfer(from, e.address, amount); err != nil {
		return fmt.Errorf("pull currency from %s: %w", from.Hex(), err)
	}
	s.undo = append(s.undo, func() error {
		return e.currency.Transfer(e.address, from, amount)
	})
	return nil
}

func (s *settlement) payToken(to common.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	e := s.e
	if err := e.token.Transfer(e.address, to, amount); err != nil {
		return fmt.Errorf("pay token to %s: %w", to.Hex(), err)
	}
	s.undo = append(s.undo, func() error {
		return e.token.Transfer(to, e.address, amount)
	})
	return nil
}

func (s *settlement) payCurrency(to common.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	e := s.e
	if err := e.currency.Transfer(e.address, to, amount); err != nil {
		return fmt.Errorf("pay currency to %s: %w", to.Hex(), err)
	}
	s.undo = append(s.undo, func() error {
		return e.currency.Transfer(to, e.address, amount)
	})
	return nil
}

// abort reverses the recorded transfers, newest first, and returns cause
// joined with every undo that failed. An ErrRollbackFailed in the result
// means the ledgers were left partly moved.
func (s *settlement) abort(cause error) error {
	errs := []error{cause}
	for i := len(s.undo) - 1; i >= 0; i-- {
		if err := s.undo[i](); err != nil {
			s.e.logger.Error("rollback transfer failed", "exchange", s.e.address.Hex(), "err", err)
			errs = append(errs, fmt.Errorf("%w: %w", ErrRollbackFailed, err))
		}
	}
	s.undo = nil
	return errors.Join(errs...)
}

// checkCaller rejects the zero address and the exchange itself. Legs between
// the exchange and itself are ledger no-ops, so the pool would book assets
// that never moved.
func (e *Exchange) checkCaller(role string, a common.Address) error {
	switch a {
	case common.Address{}:
		return fmt.Errorf("%s: %w", role, ErrZeroAddress)
	case e.address:
		return fmt.Errorf("%s %s: %w", role, a.Hex(), ErrInvalidCaller)
	}
	return nil
}
