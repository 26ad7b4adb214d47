// Package metrics defines the prometheus collectors of the exchange node.
package metrics

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/HQ-Q/uniswapv1/internal/exchange"
)

const (
	namespace = "uniswapv1"
	subsystem = "exchange"
)

type Metrics struct {
	Operations  *prometheus.CounterVec
	Volume      *prometheus.CounterVec
	Reserve     *prometheus.GaugeVec
	TotalShares prometheus.Gauge
	Holders     prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Operations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "operations_total",
				Help:      "Pool operations by kind and outcome",
			},
			[]string{"op", "status"},
		),
		Volume: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "volume_total",
				Help:      "Asset volume moved into or out of the pool, in base units",
			},
			[]string{"op", "asset", "flow"},
		),
		Reserve: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "reserve",
				Help:      "Current pool reserve, in base units",
			},
			[]string{"asset"},
		),
		TotalShares: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "total_shares",
				Help:      "Liquidity shares outstanding",
			},
		),
		Holders: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "share_holders",
				Help:      "Accounts holding liquidity shares",
			},
		),
	}
}

func (m *Metrics) RecordOperation(op, status string) {
	m.Operations.WithLabelValues(op, status).Inc()
}

// AddVolume counts amount of asset flowing "in" to or "out" of the pool.
func (m *Metrics) AddVolume(op, asset, flow string, amount *uint256.Int) {
	m.Volume.WithLabelValues(op, asset, flow).Add(toFloat(amount))
}

func (m *Metrics) SetPool(p exchange.Pool, holders int) {
	m.Reserve.WithLabelValues("currency").Set(toFloat(p.CurrencyReserve))
	m.Reserve.WithLabelValues("token").Set(toFloat(p.TokenReserve))
	m.TotalShares.Set(toFloat(p.TotalShares))
	m.Holders.Set(float64(holders))
}

// toFloat is lossy above 2^53; gauges only need magnitude.
func toFloat(v *uint256.Int) float64 {
	f, _ := new(big.Float).SetInt(v.ToBig()).Float64()
	return f
}
