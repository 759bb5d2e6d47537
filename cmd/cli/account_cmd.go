package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	sdkconfig "github.com/oraclecurve/amm-core/pkg/config"
	"github.com/oraclecurve/amm-core/pkg/onchain"
	sdkrpc "github.com/oraclecurve/amm-core/pkg/rpc"
)

func newAccountCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "account [pubkey]",
		Short: "Inspect a pool or swap-config account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := parsePubkey("account", args[0])
			if err != nil {
				return err
			}
			cfg := sdkconfigFromOpts(opts, cmd)
			client := sdkrpc.NewClient(cfg)

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			acc, err := client.Raw().GetAccountInfo(ctx, pub)
			if err != nil {
				return fmt.Errorf("fetch account: %w", err)
			}
			if acc == nil || acc.Value == nil || acc.Value.Data == nil {
				return fmt.Errorf("account not found or empty")
			}
			data := acc.Value.Data.GetBinary()
			name, decoded, err := decodeKnownAccount(data)
			if err != nil {
				return err
			}
			bz, _ := json.MarshalIndent(decoded, "", "  ")
			fmt.Fprintf(cmd.OutOrStdout(), "account=%s program=%s\n%s\n", name, acc.Value.Owner, string(bz))
			return nil
		},
	}
}

func decodeKnownAccount(data []byte) (string, interface{}, error) {
	if len(data) < 8 {
		return "", nil, fmt.Errorf("account data too short")
	}
	switch {
	case bytes.Equal(data[:8], onchain.PoolStateDiscriminator[:]):
		acc, err := onchain.UnmarshalPoolAccount(data)
		if err != nil {
			return "pool_state", nil, err
		}
		return "pool_state", acc, nil
	case bytes.Equal(data[:8], onchain.SwapConfigDiscriminator[:]):
		acc, err := onchain.UnmarshalSwapConfigAccount(data)
		if err != nil {
			return "swap_config", nil, err
		}
		return "swap_config", acc, nil
	default:
		return "", nil, fmt.Errorf("unknown discriminator")
	}
}

func sdkconfigFromOpts(opts *globalOpts, cmd *cobra.Command) sdkconfig.RPCConfig {
	cfg := sdkconfig.DefaultRPCConfig()
	if opts != nil {
		if opts.rpcURL != "" {
			cfg.RPCURL = opts.rpcURL
		}
		if opts.commitment != "" {
			cfg.Commitment = opts.commitment
		}
		cfg.RateLimit.RPS = opts.rateLimitRPS
		if opts.retryAttempts > 0 {
			cfg.Retry.MaxAttempts = opts.retryAttempts
		}
		if opts.retryBackoffMs > 0 {
			cfg.Retry.InitialBackoff = time.Duration(opts.retryBackoffMs) * time.Millisecond
		}
		if opts.timeoutSec > 0 {
			cfg.Timeout = time.Duration(opts.timeoutSec) * time.Second
		}
	}
	cfg.Logger = zerolog.New(cmd.ErrOrStderr()).Level(parseLogLevel(opts.logLevel))
	return cfg
}
