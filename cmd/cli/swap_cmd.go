package main

import (
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oraclecurve/amm-core/pkg/amm"
	"github.com/oraclecurve/amm-core/pkg/swapexec"
)

type swapFlags struct {
	pool         string
	swapConfig   string
	program      string
	mintBase     string
	mintQuote    string
	tokenProgram string
	direction    string
	amountIn     uint64
	minOutput    uint64
	jitoTip      uint64
}

// newSwapCmd builds (but does not send) the instruction list for one swap,
// the way a caller would hand them to txbuilder.Builder after quoting with
// `quote`.
func newSwapCmd(opts *globalOpts) *cobra.Command {
	f := &swapFlags{}

	cmd := &cobra.Command{
		Use:   "swap",
		Short: "Build the instruction list for a swap against a known pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := newBuilder(cmd, opts)
			if err != nil {
				return err
			}

			pool, err := parsePubkey("pool", f.pool)
			if err != nil {
				return err
			}
			swapConfig, err := parsePubkey("swap-config", f.swapConfig)
			if err != nil {
				return err
			}
			program, err := parsePubkey("program", f.program)
			if err != nil {
				return err
			}
			mintBase, err := parsePubkey("mint-base", f.mintBase)
			if err != nil {
				return err
			}
			mintQuote, err := parsePubkey("mint-quote", f.mintQuote)
			if err != nil {
				return err
			}

			direction := amm.SellBase
			if f.direction == "sell_quote" {
				direction = amm.SellQuote
			}

			accounts := swapexec.SwapAccounts{
				Pool:       pool,
				SwapConfig: swapConfig,
				Program:    program,
				User:       deps.signer.PublicKey(),
				MintBase:   mintBase,
				MintQuote:  mintQuote,
			}
			if f.tokenProgram != "" {
				tp, err := parsePubkey("token-program", f.tokenProgram)
				if err != nil {
					return err
				}
				accounts.TokenProgram = tp
			}

			var swapOpts []swapexec.Option
			if f.jitoTip > 0 {
				swapOpts = append(swapOpts, swapexec.WithJitoTip(f.jitoTip))
			}

			quote := amm.SwapResult{AmountIn: fmt.Sprintf("%d", f.amountIn), AmountOut: fmt.Sprintf("%d", f.minOutput)}
			plan, err := swapexec.BuildSwap(cmd.Context(), deps.rpc, amm.SwapInfo{}, accounts, direction, quote, f.amountIn, f.minOutput, swapOpts...)
			if err != nil {
				return err
			}

			for i, ix := range plan.Instructions {
				data, encErr := ix.Data()
				if encErr != nil {
					return fmt.Errorf("encode instruction %d: %w", i, encErr)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "instruction[%d] program=%s data=%s\n", i, ix.ProgramID(), base64.StdEncoding.EncodeToString(data))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&f.pool, "pool", "", "pool account pubkey")
	cmd.Flags().StringVar(&f.swapConfig, "swap-config", "", "swap config account pubkey")
	cmd.Flags().StringVar(&f.program, "program", "", "pool program pubkey")
	cmd.Flags().StringVar(&f.mintBase, "mint-base", "", "base mint pubkey")
	cmd.Flags().StringVar(&f.mintQuote, "mint-quote", "", "quote mint pubkey")
	cmd.Flags().StringVar(&f.tokenProgram, "token-program", "", "token program pubkey (default SPL Token)")
	cmd.Flags().StringVar(&f.direction, "direction", "sell_base", "sell_base|sell_quote")
	cmd.Flags().Uint64Var(&f.amountIn, "amount-in", 0, "input amount, integer units")
	cmd.Flags().Uint64Var(&f.minOutput, "min-output", 0, "minimum acceptable output, integer units")
	cmd.Flags().Uint64Var(&f.jitoTip, "jito-tip-lamports", 0, "jito tip in lamports (0 disables)")

	cmd.MarkFlagRequired("pool")
	cmd.MarkFlagRequired("swap-config")
	cmd.MarkFlagRequired("program")
	cmd.MarkFlagRequired("mint-base")
	cmd.MarkFlagRequired("mint-quote")

	return cmd
}
