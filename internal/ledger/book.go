package ledger

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// book is an owner-to-amount map with a tracked total. Callers hold the lock.
type book struct {
	balances map[common.Address]*uint256.Int
	supply   *uint256.Int
}

func newBook() book {
	return book{
		balances: make(map[common.Address]*uint256.Int),
		supply:   new(uint256.Int),
	}
}

func (b *book) balanceOf(owner common.Address) *uint256.Int {
	if v, ok := b.balances[owner]; ok {
		return v.Clone()
	}
	return new(uint256.Int)
}

func (b *book) mint(to common.Address, amount *uint256.Int) error {
	if to == (common.Address{}) {
		return ErrZeroAddress
	}
	supply, overflow := new(uint256.Int).AddOverflow(b.supply, amount)
	if overflow {
		return ErrSupplyOverflow
	}
	b.supply = supply
	// no balance can exceed supply, so this cannot overflow
	b.balances[to] = new(uint256.Int).Add(b.balanceOf(to), amount)
	return nil
}

func (b *book) move(from, to common.Address, amount *uint256.Int) error {
	if to == (common.Address{}) {
		return ErrZeroAddress
	}
	have := b.balanceOf(from)
	if have.Lt(amount) {
		return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientBalance, from.Hex(), have, amount)
	}
	if have.Eq(amount) {
		delete(b.balances, from)
	} else {
		b.balances[from] = have.Sub(have, amount)
	}
	b.balances[to] = new(uint256.Int).Add(b.balanceOf(to), amount)
	return nil
}
