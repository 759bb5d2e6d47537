package config

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Network defines the target Solana cluster.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
	NetworkDevnet  Network = "devnet"
	NetworkCustom  Network = "custom"
)

// DefaultRPCURL returns the standard RPC endpoint for a known network.
func DefaultRPCURL(network Network) string {
	switch network {
	case NetworkMainnet:
		return "https://api.mainnet-beta.solana.com"
	case NetworkTestnet:
		return "https://api.testnet.solana.com"
	case NetworkDevnet:
		return "https://api.devnet.solana.com"
	default:
		return ""
	}
}

// RetryConfig controls RPC retry behavior.
type RetryConfig struct {
	Enabled        bool
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Jitter         bool
}

// RateLimitConfig throttles outbound RPC calls.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// RPCConfig aggregates runtime settings for RPC usage.
type RPCConfig struct {
	Network    Network
	RPCURL     string
	Commitment string
	Timeout    time.Duration
	Retry      RetryConfig
	RateLimit  RateLimitConfig
	Logger     zerolog.Logger
}

// DefaultRPCConfig yields production-safe defaults (mainnet, finalized commitment).
func DefaultRPCConfig() RPCConfig {
	return RPCConfig{
		Network:    NetworkMainnet,
		RPCURL:     DefaultRPCURL(NetworkMainnet),
		Commitment: "finalized",
		Timeout:    20 * time.Second,
		Retry: RetryConfig{
			Enabled:        true,
			MaxAttempts:    3,
			InitialBackoff: 150 * time.Millisecond,
			MaxBackoff:     2 * time.Second,
			Jitter:         true,
		},
		RateLimit: RateLimitConfig{
			RPS:   8,
			Burst: 16,
		},
		Logger: zerolog.New(io.Discard),
	}
}

// ResolveRPCURL returns RPCURL if set, otherwise falls back to network defaults.
func (c RPCConfig) ResolveRPCURL() string {
	if c.RPCURL != "" {
		return c.RPCURL
	}
	return DefaultRPCURL(c.Network)
}

// CurveDefaults holds the fee and safety-margin parameters a deployment
// catalog entry leaves unset, mirroring the SwapConfig fields a pool's
// config account carries on-chain.
type CurveDefaults struct {
	TradeFeeNum, TradeFeeDen           uint64
	AdminTradeFeeNum, AdminTradeFeeDen uint64
	WithdrawFeeNum, WithdrawFeeDen     uint64
	MinReserveLimitPercentage          float64 // in [0,100]
	VirtualReservePercentage           float64 // in [0,100]
	MaxSwapPercentage                  float64
	EnableConfidenceInterval           bool
}

// DefaultCurveDefaults yields conservative fee and safety-margin values: a
// 30bps trade fee with a 20% admin share, no withdraw fee, a 5% reserve
// floor, no virtual reserves, and confidence intervals off.
func DefaultCurveDefaults() CurveDefaults {
	return CurveDefaults{
		TradeFeeNum:               30,
		TradeFeeDen:               10000,
		AdminTradeFeeNum:          20,
		AdminTradeFeeDen:          100,
		WithdrawFeeNum:            0,
		WithdrawFeeDen:            10000,
		MinReserveLimitPercentage: 5,
		VirtualReservePercentage:  0,
		MaxSwapPercentage:         25,
		EnableConfidenceInterval:  false,
	}
}

// PoolDefaults holds per-pool parameters that aren't part of the fee/safety
// table above: the curve family and its slope.
type PoolDefaults struct {
	SwapTypeStable bool    // false selects the normal (logarithmic) curve
	Slope          float64 // in (0,1]; ignored for the normal curve
}

// DefaultPoolDefaults yields a normal-curve pool; slope is only meaningful
// once SwapTypeStable is set.
func DefaultPoolDefaults() PoolDefaults {
	return PoolDefaults{
		SwapTypeStable: false,
		Slope:          0.5,
	}
}
