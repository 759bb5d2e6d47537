package swapexec

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"

	"github.com/oraclecurve/amm-core/pkg/amm"
	"github.com/oraclecurve/amm-core/pkg/constants"
	"github.com/oraclecurve/amm-core/pkg/onchain"
	sdkrpc "github.com/oraclecurve/amm-core/pkg/rpc"
)

// SwapAccounts names the on-chain accounts a swap instruction touches,
// beyond the pool's own state and config accounts.
type SwapAccounts struct {
	Pool         solana.PublicKey
	SwapConfig   solana.PublicKey
	Program      solana.PublicKey
	User         solana.PublicKey
	MintBase     solana.PublicKey
	MintQuote    solana.PublicKey
	TokenProgram solana.PublicKey
}

// SwapPlan is the fully built, unsigned set of instructions implementing
// one amm.SwapResult on-chain, ready to hand to a txbuilder.Builder.
type SwapPlan struct {
	Instructions []solana.Instruction
	Quote        amm.SwapResult
}

// BuildSwap turns a pricing-core quote into an executable instruction
// list: it ensures both side ATAs exist, wraps native SOL into WSOL when
// the pool's quote side is WSOL and the user is selling it in, appends the
// swap instruction itself, and optionally closes an ATA or adds a Jito
// tip afterward.
func BuildSwap(
	ctx context.Context,
	rpc *sdkrpc.Client,
	info amm.SwapInfo,
	accounts SwapAccounts,
	direction amm.SwapDirection,
	quote amm.SwapResult,
	amountIn uint64,
	minOutputAmount uint64,
	opts ...Option,
) (*SwapPlan, error) {
	if quote.Empty {
		return nil, fmt.Errorf("swapexec: cannot build a swap from an empty quote")
	}

	cfg := &Options{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.MinOutputAmount != 0 {
		minOutputAmount = cfg.MinOutputAmount
	}

	tokenProgram := accounts.TokenProgram
	if isZeroPK(tokenProgram) {
		tokenProgram = constants.TokenProgramID
	}

	baseATA, _, err := findATAWithProgram(accounts.User, accounts.MintBase, tokenProgram, constants.AssociatedTokenProgramID)
	if err != nil {
		return nil, fmt.Errorf("swapexec: derive base ATA: %w", err)
	}
	quoteATA, _, err := findATAWithProgram(accounts.User, accounts.MintQuote, tokenProgram, constants.AssociatedTokenProgramID)
	if err != nil {
		return nil, fmt.Errorf("swapexec: derive quote ATA: %w", err)
	}

	requests := []ataRequest{
		{Payer: accounts.User, Wallet: accounts.User, Mint: accounts.MintBase, TokenProgram: tokenProgram, ATAProgram: constants.AssociatedTokenProgramID},
		{Payer: accounts.User, Wallet: accounts.User, Mint: accounts.MintQuote, TokenProgram: tokenProgram, ATAProgram: constants.AssociatedTokenProgramID},
	}
	if len(cfg.KnownATAs) > 0 {
		requests = filterKnownATAs(requests, cfg.KnownATAs)
	}

	var instructions []solana.Instruction
	if len(requests) > 0 {
		createATAIxs, err := ensureATABatch(ctx, rpc, requests)
		if err != nil {
			return nil, fmt.Errorf("swapexec: ensure ATAs: %w", err)
		}
		instructions = append(instructions, createATAIxs...)
	}

	if direction == amm.SellQuote && accounts.MintQuote == constants.WSOLMint {
		instructions = append(instructions, buildWrapWSOL(accounts.User, quoteATA, amountIn)...)
	}

	swapData, err := onchain.EncodeSwapInstructionData(onchain.SwapInstructionArgs{
		AmountIn:        amountIn,
		MinOutputAmount: minOutputAmount,
	})
	if err != nil {
		return nil, fmt.Errorf("swapexec: encode swap instruction: %w", err)
	}
	instructions = append(instructions, buildSwapInstruction(accounts, baseATA, quoteATA, tokenProgram, swapData))

	if cfg.CloseBaseATA {
		instructions = append(instructions, buildCloseAccount(baseATA, accounts.User, accounts.User, tokenProgram))
	}
	if cfg.CloseQuoteATA {
		instructions = append(instructions, buildCloseAccount(quoteATA, accounts.User, accounts.User, tokenProgram))
	}
	if cfg.JitoTipLamports > 0 {
		tipAccount := cfg.JitoTipAccount
		if isZeroPK(tipAccount) {
			return nil, fmt.Errorf("swapexec: jito tip requested but no tip account resolved")
		}
		instructions = append(instructions, system.NewTransferInstruction(cfg.JitoTipLamports, accounts.User, tipAccount).Build())
	}

	return &SwapPlan{Instructions: instructions, Quote: quote}, nil
}

func buildSwapInstruction(accounts SwapAccounts, baseATA, quoteATA, tokenProgram solana.PublicKey, data []byte) solana.Instruction {
	metas := []*solana.AccountMeta{
		solana.NewAccountMeta(accounts.Pool, true, false),
		solana.NewAccountMeta(accounts.SwapConfig, false, false),
		solana.NewAccountMeta(accounts.User, true, true),
		solana.NewAccountMeta(baseATA, true, false),
		solana.NewAccountMeta(quoteATA, true, false),
		solana.NewAccountMeta(accounts.MintBase, false, false),
		solana.NewAccountMeta(accounts.MintQuote, false, false),
		solana.NewAccountMeta(tokenProgram, false, false),
	}
	return solana.NewInstruction(accounts.Program, metas, data)
}

func filterKnownATAs(requests []ataRequest, known []solana.PublicKey) []ataRequest {
	knownSet := make(map[solana.PublicKey]bool, len(known))
	for _, pk := range known {
		knownSet[pk] = true
	}
	out := requests[:0]
	for _, req := range requests {
		ata, _, err := findATAWithProgram(req.Wallet, req.Mint, req.TokenProgram, req.ATAProgram)
		if err == nil && knownSet[ata] {
			continue
		}
		out = append(out, req)
	}
	return out
}
