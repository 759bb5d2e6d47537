package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/oraclecurve/amm-core/pkg/amm"
	"github.com/oraclecurve/amm-core/pkg/catalog"
	"github.com/oraclecurve/amm-core/pkg/config"
	"github.com/oraclecurve/amm-core/pkg/fixedpoint"
)

// newPoolCmd resolves one pool's deployment metadata from a JSON catalog
// file through pkg/catalog.Catalog, the CLI-facing stand-in for the
// deployment catalog collaborator spec.md §1 describes as external.
func newPoolCmd() *cobra.Command {
	var catalogPath, configKey string

	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Look up a pool's deployment metadata from a JSON catalog file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadStaticCatalog(catalogPath)
			if err != nil {
				return err
			}
			info, err := cat.Pool(cmd.Context(), configKey)
			if err != nil {
				return err
			}
			bz, _ := json.MarshalIndent(info, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "path to a JSON array of amm.SwapInfo entries")
	cmd.Flags().StringVar(&configKey, "config-key", "", "pool config key to look up")
	cmd.MarkFlagRequired("catalog")
	cmd.MarkFlagRequired("config-key")

	return cmd
}

// newPoolDefaultsCmd scaffolds a new catalog entry from
// config.DefaultCurveDefaults/DefaultPoolDefaults: a starting point an
// operator can redirect into a file, fill in mint/reserve fields, and feed
// straight back into `pool --catalog`.
func newPoolDefaultsCmd() *cobra.Command {
	var stable bool

	cmd := &cobra.Command{
		Use:   "pool-defaults",
		Short: "Print a catalog entry scaffold populated with conservative fee and safety defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			entry := amm.SwapInfo{SwapConfig: amm.SwapConfig{}}
			applyCurveDefaults(&entry.SwapConfig, config.DefaultCurveDefaults())

			poolDefaults := config.DefaultPoolDefaults()
			poolDefaults.SwapTypeStable = stable
			applyPoolDefaults(&entry, poolDefaults)

			bz, _ := json.MarshalIndent(entry, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return nil
		},
	}

	cmd.Flags().BoolVar(&stable, "stable", false, "scaffold a stable-swap pool instead of normal")
	return cmd
}

func loadStaticCatalog(path string) (*catalog.StaticCatalog, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var entries []amm.SwapInfo
	if err := json.Unmarshal(content, &entries); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	curveDefaults := config.DefaultCurveDefaults()
	poolDefaults := config.DefaultPoolDefaults()
	cat := catalog.NewStaticCatalog()
	for _, entry := range entries {
		applyCurveDefaults(&entry.SwapConfig, curveDefaults)
		applyPoolDefaults(&entry, poolDefaults)
		cat.Register(entry)
	}
	return cat, nil
}

// applyCurveDefaults fills a catalog entry's fee/safety fields from
// config.CurveDefaults wherever the entry left them at their degenerate
// zero value (a zero denominator can't be divided, and a zero reserve
// floor is indistinguishable from "not set" for a JSON catalog file
// written by hand).
func applyCurveDefaults(cfg *amm.SwapConfig, defaults config.CurveDefaults) {
	if cfg.TradeFeeDen == 0 {
		cfg.TradeFeeNum, cfg.TradeFeeDen = defaults.TradeFeeNum, defaults.TradeFeeDen
	}
	if cfg.AdminTradeFeeDen == 0 {
		cfg.AdminTradeFeeNum, cfg.AdminTradeFeeDen = defaults.AdminTradeFeeNum, defaults.AdminTradeFeeDen
	}
	if cfg.WithdrawFeeDen == 0 {
		cfg.WithdrawFeeNum, cfg.WithdrawFeeDen = defaults.WithdrawFeeNum, defaults.WithdrawFeeDen
	}
	if isZeroDecimal(cfg.MinReserveLimitPercentage) {
		cfg.MinReserveLimitPercentage = floatToDecimal(defaults.MinReserveLimitPercentage)
	}
	if isZeroDecimal(cfg.VirtualReservePercentage) {
		cfg.VirtualReservePercentage = floatToDecimal(defaults.VirtualReservePercentage)
	}
	if isZeroDecimal(cfg.MaxSwapPercentage) {
		cfg.MaxSwapPercentage = floatToDecimal(defaults.MaxSwapPercentage)
	}
}

// isZeroDecimal reports whether d is unset (the Go zero value a JSON
// catalog entry leaves behind when it omits the field) or explicitly
// zero. fixedpoint.Decimal's zero value wraps a nil *big.Rat, which most
// of its methods dereference directly; MarshalJSON is the one method that
// already guards against that, so it doubles as a safe zero-check here.
func isZeroDecimal(d fixedpoint.Decimal) bool {
	bz, err := d.MarshalJSON()
	if err != nil {
		return false
	}
	return string(bz) == `"0"`
}

// applyPoolDefaults fills the curve family and slope from
// config.PoolDefaults. SwapType is set to stable when
// defaults.SwapTypeStable is set and is left as it is otherwise; the slope
// is filled only for a stable entry whose slope was left unset.
func applyPoolDefaults(entry *amm.SwapInfo, defaults config.PoolDefaults) {
	if defaults.SwapTypeStable {
		entry.SwapType = amm.SwapTypeStable
	}
	if entry.SwapType == amm.SwapTypeStable && entry.SwapConfig.SlopeWad == 0 {
		entry.SwapConfig.SlopeWad = uint64(defaults.Slope * fixedpoint.WAD.Float64())
	}
}

func floatToDecimal(v float64) fixedpoint.Decimal {
	dec, err := fixedpoint.FromDecimalString(strconv.FormatFloat(v, 'f', -1, 64))
	if err != nil {
		return fixedpoint.Zero
	}
	return dec
}
