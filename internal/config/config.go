package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// DefaultExchangeAddress is the account the exchange holds its reserves under
// when EXCHANGE_ADDRESS is unset.
var DefaultExchangeAddress = common.HexToAddress("0x0000000000000000000000000000000000000E11")

type Config struct {
	Addr            string
	LogLevel        string
	LogFormat       string
	ExchangeAddress common.Address
	GenesisFile     string
	TokenName       string
	TokenSymbol     string
}

func FromEnv() (*Config, error) {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":1337"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	logFormat := strings.ToLower(os.Getenv("LOG_FORMAT"))
	switch logFormat {
	case "":
		logFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidLogFormat, logFormat)
	}

	exchangeAddr := DefaultExchangeAddress
	if v := os.Getenv("EXCHANGE_ADDRESS"); v != "" {
		if !common.IsHexAddress(v) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidExchangeAddress, v)
		}
		exchangeAddr = common.HexToAddress(v)
		if exchangeAddr == (common.Address{}) {
			return nil, fmt.Errorf("%w: zero address", ErrInvalidExchangeAddress)
		}
	}

	tokenName := os.Getenv("TOKEN_NAME")
	if tokenName == "" {
		tokenName = "MyToken"
	}
	tokenSymbol := os.Getenv("TOKEN_SYMBOL")
	if tokenSymbol == "" {
		tokenSymbol = "MTK"
	}

	cfg := &Config{
		Addr:            addr,
		LogLevel:        logLevel,
		LogFormat:       logFormat,
		ExchangeAddress: exchangeAddr,
		GenesisFile:     os.Getenv("GENESIS_FILE"),
		TokenName:       tokenName,
		TokenSymbol:     tokenSymbol,
	}

	return cfg, nil
}
