package constants

import "github.com/gagliardetto/solana-go"

// Well-known program IDs
var (
	// SPL Programs
	SystemProgramID          = solana.SystemProgramID
	TokenProgramID           = solana.TokenProgramID
	Token2022ProgramID       = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")
	AssociatedTokenProgramID = solana.SPLAssociatedTokenAccountProgramID
	SysvarRentProgramID      = solana.SysVarRentPubkey
	MetadataProgramID        = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")
)

// Mainnet well-known accounts
var (
	// WSOL (Native Mint)
	WSOLMint = solana.WrappedSol
)

// PDA seeds shared by any Anchor-style pool program: account derivation is
// program-specific beyond these, so callers combine a seed here with their
// own config key / mint bytes.
const (
	SeedGlobalConfig   = "global_config"
	SeedPoolAuthority  = "pool_authority"
	SeedEventAuthority = "__event_authority"
)
