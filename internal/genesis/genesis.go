// Package genesis loads the initial currency and token allocation of a
// development node from YAML.
//
//	token:
//	  name: MyToken
//	  symbol: MTK
//	accounts:
//	  - address: "0x00000000000000000000000000000000000000aa"
//	    currency: "1000000000000000000000"
//	    token: "5000000000000000000000"
package genesis

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"gopkg.in/yaml.v2"
)

type Genesis struct {
	Token    TokenInfo    `yaml:"token"`
	Accounts []Allocation `yaml:"accounts"`
}

type TokenInfo struct {
	Name   string `yaml:"name"`
	Symbol string `yaml:"symbol"`
}

// Allocation is the opening balance of one account. Amounts are base-10
// strings so they survive YAML's float coercion.
type Allocation struct {
	Address  string `yaml:"address"`
	Currency string `yaml:"currency"`
	Token    string `yaml:"token"`
}

// Minter credits newly created token.
type Minter interface {
	Mint(to common.Address, amount *uint256.Int) error
}

// Crediter credits newly created currency.
type Crediter interface {
	Credit(to common.Address, amount *uint256.Int) error
}

func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read genesis: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a genesis document.
func Parse(data []byte) (*Genesis, error) {
	var g Genesis
	if err := yaml.UnmarshalStrict(data, &g); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

func (g *Genesis) Validate() error {
	seen := make(map[common.Address]struct{}, len(g.Accounts))
	for i, a := range g.Accounts {
		addr, err := a.address()
		if err != nil {
			return fmt.Errorf("account %d: %w", i, err)
		}
		if _, dup := seen[addr]; dup {
			return fmt.Errorf("account %d: %w: %s", i, ErrDuplicateAccount, addr.Hex())
		}
		seen[addr] = struct{}{}
		if _, err := parseAmount(a.Currency); err != nil {
			return fmt.Errorf("account %d currency: %w", i, err)
		}
		if _, err := parseAmount(a.Token); err != nil {
			return fmt.Errorf("account %d token: %w", i, err)
		}
	}
	return nil
}

// Apply credits every allocation to the ledgers.
func (g *Genesis) Apply(token Minter, bank Crediter) error {
	for i, a := range g.Accounts {
		addr, err := a.address()
		if err != nil {
			return fmt.Errorf("account %d: %w", i, err)
		}
		currency, err := parseAmount(a.Currency)
		if err != nil {
			return fmt.Errorf("account %d currency: %w", i, err)
		}
		tok, err := parseAmount(a.Token)
		if err != nil {
			return fmt.Errorf("account %d token: %w", i, err)
		}
		if !currency.IsZero() {
			if err := bank.Credit(addr, currency); err != nil {
				return fmt.Errorf("credit %s: %w", addr.Hex(), err)
			}
		}
		if !tok.IsZero() {
			if err := token.Mint(addr, tok); err != nil {
				return fmt.Errorf("mint %s: %w", addr.Hex(), err)
			}
		}
	}
	return nil
}

func (a Allocation) address() (common.Address, error) {
	if !common.IsHexAddress(a.Address) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, a.Address)
	}
	addr := common.HexToAddress(a.Address)
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: zero address", ErrInvalidAddress)
	}
	return addr, nil
}

func parseAmount(s string) (*uint256.Int, error) {
	if s == "" {
		return new(uint256.Int), nil
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return v, nil
}
