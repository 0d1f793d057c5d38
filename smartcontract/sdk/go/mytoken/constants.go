package mytoken

import (
	"github.com/gagliardetto/solana-go"
	"github.com/malbeclabs/anchorprobe/smartcontract/sdk/go/anchor"
)

const ProgramName = "my_token"

var (
	// ProgramID is the address the program declares.
	ProgramID = solana.MustPublicKeyFromBase58("BmDK5JuNcvVHotELgRkFQjsbPZ4SLdenvksU4cueWSZE")

	Token2022ProgramID       = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")
	AssociatedTokenProgramID = solana.MustPublicKeyFromBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
	MetadataProgramID        = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bT518x1s")
	SysVarRentPubkey         = solana.MustPublicKeyFromBase58("SysvarRent111111111111111111111111111111111")
)

// Instruction names as declared by the program.
const (
	InstructionInitializeMint = "initialize_mint"
	InstructionMintTokens     = "mint_tokens"
	InstructionTransferTokens = "transfer_tokens"
	InstructionApprove        = "approve"
	InstructionUpdateMetadata = "update_metadata"
	InstructionGetTokenInfo   = "get_token_info"
	InstructionBurnTokens     = "burn_tokens"
)

var (
	InitializeMintDiscriminator = anchor.InstructionDiscriminator(InstructionInitializeMint)
	MintTokensDiscriminator     = anchor.InstructionDiscriminator(InstructionMintTokens)
	TransferTokensDiscriminator = anchor.InstructionDiscriminator(InstructionTransferTokens)
	ApproveDiscriminator        = anchor.InstructionDiscriminator(InstructionApprove)
	UpdateMetadataDiscriminator = anchor.InstructionDiscriminator(InstructionUpdateMetadata)
	GetTokenInfoDiscriminator   = anchor.InstructionDiscriminator(InstructionGetTokenInfo)
	BurnTokensDiscriminator     = anchor.InstructionDiscriminator(InstructionBurnTokens)
)

// PDA seeds
const (
	MintSeed     = "mint"
	MetadataSeed = "metadata"
)

// Limits
const (
	MaxNameLength   = 32
	MaxSymbolLength = 10
	MaxURILength    = 200

	// Decimals is fixed by the program when the mint is created.
	Decimals = 6
)
