package swapexec

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/oraclecurve/amm-core/pkg/amm"
	"github.com/oraclecurve/amm-core/pkg/constants"
)

func testAccounts(t *testing.T) (SwapAccounts, solana.PublicKey, solana.PublicKey) {
	t.Helper()
	user := solana.NewWallet().PublicKey()
	mintBase := solana.NewWallet().PublicKey()
	mintQuote := solana.NewWallet().PublicKey()

	baseATA, _, err := findATAWithProgram(user, mintBase, constants.TokenProgramID, constants.AssociatedTokenProgramID)
	if err != nil {
		t.Fatalf("derive base ATA: %v", err)
	}
	quoteATA, _, err := findATAWithProgram(user, mintQuote, constants.TokenProgramID, constants.AssociatedTokenProgramID)
	if err != nil {
		t.Fatalf("derive quote ATA: %v", err)
	}

	accounts := SwapAccounts{
		Pool:         solana.NewWallet().PublicKey(),
		SwapConfig:   solana.NewWallet().PublicKey(),
		Program:      solana.NewWallet().PublicKey(),
		User:         user,
		MintBase:     mintBase,
		MintQuote:    mintQuote,
		TokenProgram: constants.TokenProgramID,
	}
	return accounts, baseATA, quoteATA
}

func TestBuildSwapRejectsEmptyQuote(t *testing.T) {
	accounts, _, _ := testAccounts(t)
	_, err := BuildSwap(context.Background(), nil, amm.SwapInfo{}, accounts, amm.SellBase, amm.EmptyQuoteResult(nil), 100, 90)
	if err == nil {
		t.Fatal("expected error for empty quote")
	}
}

func TestBuildSwapSkipsRPCWhenBothATAsKnown(t *testing.T) {
	accounts, baseATA, quoteATA := testAccounts(t)
	quote := amm.SwapResult{AmountIn: "100", AmountOut: "90", AmountOutWithSlippage: "89", Fee: "1", PriceImpact: "0.01"}

	plan, err := BuildSwap(context.Background(), nil, amm.SwapInfo{}, accounts, amm.SellBase, quote, 100, 90,
		WithKnownATAs(baseATA, quoteATA),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Instructions) != 1 {
		t.Fatalf("expected exactly the swap instruction, got %d instructions", len(plan.Instructions))
	}
	if plan.Instructions[0].ProgramID() != accounts.Program {
		t.Fatalf("expected swap instruction to target the pool program")
	}
}

func TestBuildSwapAddsJitoTip(t *testing.T) {
	accounts, baseATA, quoteATA := testAccounts(t)
	quote := amm.SwapResult{AmountIn: "100", AmountOut: "90", AmountOutWithSlippage: "89", Fee: "1", PriceImpact: "0.01"}
	tipAccount := solana.NewWallet().PublicKey()

	plan, err := BuildSwap(context.Background(), nil, amm.SwapInfo{}, accounts, amm.SellBase, quote, 100, 90,
		WithKnownATAs(baseATA, quoteATA),
		WithJitoTip(1_000_000),
		WithJitoTipAccount(tipAccount),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Instructions) != 2 {
		t.Fatalf("expected swap + tip instructions, got %d", len(plan.Instructions))
	}
	if plan.Instructions[1].ProgramID() != constants.SystemProgramID {
		t.Fatal("expected tip instruction to target the system program")
	}
}
