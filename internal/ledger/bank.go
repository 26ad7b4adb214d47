package ledger

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Bank holds balances of the base currency. Currency enters through Credit,
// the development stand-in for coins created by the chain.
type Bank struct {
	mu   sync.RWMutex
	book book
}

func NewBank() *Bank {
	return &Bank{book: newBook()}
}

// Credit creates amount of currency for owner.
func (b *Bank) Credit(owner common.Address, amount *uint256.Int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.book.mint(owner, amount)
}

func (b *Bank) BalanceOf(owner common.Address) *uint256.Int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.book.balanceOf(owner)
}

func (b *Bank) TotalSupply() *uint256.Int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.book.supply.Clone()
}

func (b *Bank) Transfer(sender, recipient common.Address, amount *uint256.Int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.book.move(sender, recipient, amount)
}
