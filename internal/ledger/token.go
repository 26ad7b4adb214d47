package ledger

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Token is an in-memory fungible token with ERC-20 transfer, approve and
// transferFrom semantics.
type Token struct {
	name   string
	symbol string

	mu         sync.RWMutex
	book       book
	allowances map[common.Address]map[common.Address]*uint256.Int
}

func NewToken(name, symbol string) *Token {
	return &Token{
		name:       name,
		symbol:     symbol,
		book:       newBook(),
		allowances: make(map[common.Address]map[common.Address]*uint256.Int),
	}
}

func (t *Token) Name() string   { return t.name }
func (t *Token) Symbol() string { return t.symbol }

func (t *Token) TotalSupply() *uint256.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.book.supply.Clone()
}

func (t *Token) Mint(to common.Address, amount *uint256.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.book.mint(to, amount)
}

func (t *Token) BalanceOf(owner common.Address) *uint256.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.book.balanceOf(owner)
}

func (t *Token) Allowance(owner, spender common.Address) *uint256.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.allowance(owner, spender)
}

func (t *Token) allowance(owner, spender common.Address) *uint256.Int {
	if v, ok := t.allowances[owner][spender]; ok {
		return v.Clone()
	}
	return new(uint256.Int)
}

// Approve sets the amount spender may move out of owner's balance, replacing
// any previous allowance.
func (t *Token) Approve(owner, spender common.Address, amount *uint256.Int) error {
	if spender == (common.Address{}) {
		return ErrZeroAddress
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.allowances[owner] == nil {
		t.allowances[owner] = make(map[common.Address]*uint256.Int)
	}
	t.allowances[owner][spender] = amount.Clone()
	return nil
}

func (t *Token) Transfer(sender, recipient common.Address, amount *uint256.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.book.move(sender, recipient, amount)
}

// TransferFrom moves amount from owner to recipient on behalf of spender and
// spends the allowance. Nothing changes when either check fails.
func (t *Token) TransferFrom(spender, owner, recipient common.Address, amount *uint256.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	allowed := t.allowance(owner, spender)
	if allowed.Lt(amount) {
		return fmt.Errorf("%w: %s allows %s %s, needs %s", ErrInsufficientAllowance, owner.Hex(), spender.Hex(), allowed, amount)
	}
	if err := t.book.move(owner, recipient, amount); err != nil {
		return err
	}
	if t.allowances[owner] == nil {
		t.allowances[owner] = make(map[common.Address]*uint256.Int)
	}
	t.allowances[owner][spender] = allowed.Sub(allowed, amount)
	return nil
}
