package exchange

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// shareLedger is the liquidity share book. The Exchange lock guards it, and
// callers check amounts before mutating so mint and burn never fail midway.
type shareLedger struct {
	balances map[common.Address]*uint256.Int
	total    *uint256.Int
}

func newShareLedger() *shareLedger {
	return &shareLedger{
		balances: make(map[common.Address]*uint256.Int),
		total:    new(uint256.Int),
	}
}

func (l *shareLedger) balanceOf(owner common.Address) *uint256.Int {
	if v, ok := l.balances[owner]; ok {
		return v.Clone()
	}
	return new(uint256.Int)
}

func (l *shareLedger) totalSupply() *uint256.Int {
	return l.total.Clone()
}

func (l *shareLedger) mint(to common.Address, amount *uint256.Int) {
	l.total = new(uint256.Int).Add(l.total, amount)
	l.balances[to] = new(uint256.Int).Add(l.balanceOf(to), amount)
}

func (l *shareLedger) burn(from common.Address, amount *uint256.Int) {
	l.total = new(uint256.Int).Sub(l.total, amount)
	l.set(from, new(uint256.Int).Sub(l.balanceOf(from), amount))
}

func (l *shareLedger) transfer(from, to common.Address, amount *uint256.Int) error {
	have := l.balanceOf(from)
	if have.Lt(amount) {
		return fmt.Errorf("%w: %s holds %s shares, needs %s", ErrInsufficientBalance, from.Hex(), have, amount)
	}
	l.set(from, have.Sub(have, amount))
	l.balances[to] = new(uint256.Int).Add(l.balanceOf(to), amount)
	return nil
}

func (l *shareLedger) set(owner common.Address, amount *uint256.Int) {
	if amount.IsZero() {
		delete(l.balances, owner)
		return
	}
	l.balances[owner] = amount
}

// sum adds every balance. It is computed wide so a corrupted book is reported
// instead of wrapping.
func (l *shareLedger) sum() *big.Int {
	s := new(big.Int)
	for _, v := range l.balances {
		s.Add(s, v.ToBig())
	}
	return s
}

func (l *shareLedger) holders() int {
	return len(l.balances)
}
