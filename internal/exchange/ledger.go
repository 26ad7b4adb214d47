package exchange

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// TokenLedger is the paired token's ledger. TransferFrom spends the
// allowance owner granted to spender.
type TokenLedger interface {
	BalanceOf(owner common.Address) *uint256.Int
	Allowance(owner, spender common.Address) *uint256.Int
	TransferFrom(spender, owner, recipient common.Address, amount *uint256.Int) error
	Transfer(sender, recipient common.Address, amount *uint256.Int) error
}

// CurrencyLedger holds the base currency attached to calls.
type CurrencyLedger interface {
	BalanceOf(owner common.Address) *uint256.Int
	Transfer(sender, recipient common.Address, amount *uint256.Int) error
}
