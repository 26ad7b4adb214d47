package exchange_test

import (
	"errors"
	"io"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/HQ-Q/uniswapv1/internal/exchange"
	"github.com/HQ-Q/uniswapv1/internal/ledger"
)

var (
	exchangeAddr = common.HexToAddress("0x0000000000000000000000000000000000000abc")
	alice        = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	bob          = common.HexToAddress("0x00000000000000000000000000000000000000bb")
	carol        = common.HexToAddress("0x00000000000000000000000000000000000000cc")

	oneEther = uint256.NewInt(1_000_000_000_000_000_000)
)

func ether(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), oneEther)
}

type fixture struct {
	ex    *exchange.Exchange
	token *ledger.Token
	bank  *ledger.Bank
}

// newFixture funds every account with 1,000,000 token and 10,000 currency.
func newFixture(t require.TestingT, accounts ...common.Address) *fixture {
	token := ledger.NewToken("MyToken", "MTK")
	bank := ledger.NewBank()
	for _, a := range accounts {
		require.NoError(t, token.Mint(a, ether(1_000_000)))
		require.NoError(t, bank.Credit(a, ether(10_000)))
	}
	return &fixture{
		ex:    exchange.New(discard(), exchangeAddr, token, bank),
		token: token,
		bank:  bank,
	}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// deposit approves tokenAmount and adds liquidity.
func (f *fixture) deposit(t require.TestingT, who common.Address, tokenAmount, currencyAmount *uint256.Int) *uint256.Int {
	require.NoError(t, f.token.Approve(who, exchangeAddr, tokenAmount))
	minted, err := f.ex.AddLiquidity(who, tokenAmount, currencyAmount)
	require.NoError(t, err)
	return minted
}

// balances is every balance an operation can touch.
type balances struct {
	pool                    exchange.Pool
	token, currency, shares map[common.Address]string
	allowance               map[common.Address]string
}

func (f *fixture) snapshot(accounts ...common.Address) balances {
	b := balances{
		pool:      f.ex.Pool(),
		token:     map[common.Address]string{},
		currency:  map[common.Address]string{},
		shares:    map[common.Address]string{},
		allowance: map[common.Address]string{},
	}
	for _, a := range append(accounts, exchangeAddr) {
		b.token[a] = f.token.BalanceOf(a).Dec()
		b.currency[a] = f.bank.BalanceOf(a).Dec()
		b.shares[a] = f.ex.BalanceOf(a).Dec()
		b.allowance[a] = f.token.Allowance(a, exchangeAddr).Dec()
	}
	return b
}

func requireUnchanged(t require.TestingT, before, after balances) {
	require.Equal(t, before.pool.CurrencyReserve.Dec(), after.pool.CurrencyReserve.Dec(), "currency reserve")
	require.Equal(t, before.pool.TokenReserve.Dec(), after.pool.TokenReserve.Dec(), "token reserve")
	require.Equal(t, before.pool.TotalShares.Dec(), after.pool.TotalShares.Dec(), "total shares")
	require.Equal(t, before.token, after.token, "token balances")
	require.Equal(t, before.currency, after.currency, "currency balances")
	require.Equal(t, before.shares, after.shares, "share balances")
	require.Equal(t, before.allowance, after.allowance, "allowances")
}

var errLedgerDown = errors.New("ledger down")

// flakyBank fails every transfer leaving the exchange once armed.
type flakyBank struct {
	*ledger.Bank
	armed bool
}

func (b *flakyBank) Transfer(sender, recipient common.Address, amount *uint256.Int) error {
	if b.armed && sender == exchangeAddr {
		return errLedgerDown
	}
	return b.Bank.Transfer(sender, recipient, amount)
}

// flakyToken fails every transfer leaving the exchange once armed.
type flakyToken struct {
	*ledger.Token
	armed bool
}

func (t *flakyToken) Transfer(sender, recipient common.Address, amount *uint256.Int) error {
	if t.armed && sender == exchangeAddr {
		return errLedgerDown
	}
	return t.Token.Transfer(sender, recipient, amount)
}

