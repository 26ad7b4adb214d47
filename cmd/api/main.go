package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HQ-Q/uniswapv1/internal/config"
	"github.com/HQ-Q/uniswapv1/internal/exchange"
	"github.com/HQ-Q/uniswapv1/internal/genesis"
	"github.com/HQ-Q/uniswapv1/internal/handler"
	"github.com/HQ-Q/uniswapv1/internal/ledger"
	"github.com/HQ-Q/uniswapv1/internal/logging"
	"github.com/HQ-Q/uniswapv1/internal/metrics"
	"github.com/HQ-Q/uniswapv1/internal/rpcapi"
	"github.com/HQ-Q/uniswapv1/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	app := fiber.New()
	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokenName, tokenSymbol := cfg.TokenName, cfg.TokenSymbol
	var gen *genesis.Genesis
	if cfg.GenesisFile != "" {
		if gen, err = genesis.Load(cfg.GenesisFile); err != nil {
			return fmt.Errorf("failed to load genesis: %w", err)
		}
		if gen.Token.Name != "" {
			tokenName = gen.Token.Name
		}
		if gen.Token.Symbol != "" {
			tokenSymbol = gen.Token.Symbol
		}
	}

	token := ledger.NewToken(tokenName, tokenSymbol)
	bank := ledger.NewBank()
	if gen != nil {
		if err := gen.Apply(token, bank); err != nil {
			return fmt.Errorf("failed to apply genesis: %w", err)
		}
		logger.Info("genesis applied", "file", cfg.GenesisFile, "accounts", len(gen.Accounts))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ex := exchange.New(logger, cfg.ExchangeAddress, token, bank)
	exchangeService := service.NewExchangeService(logger, ex, token, bank, metrics.New(reg))
	exchangeHandler := handler.NewExchangeHandler(logger, exchangeService)
	exchangeHandler.Register(app)

	rpcServer, err := rpcapi.NewServer(exchangeService)
	if err != nil {
		return fmt.Errorf("failed to register rpc api: %w", err)
	}
	defer rpcServer.Stop()
	app.Post("/rpc", adaptor.HTTPHandler(rpcServer))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	logger.Info("exchange ready", "addr", cfg.Addr, "exchange", cfg.ExchangeAddress.Hex(), "token", tokenSymbol)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			_ = app.Shutdown()
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
	return nil
}
