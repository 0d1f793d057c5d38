package vault

import (
	"github.com/gagliardetto/solana-go"
	"github.com/malbeclabs/anchorprobe/smartcontract/sdk/go/anchor"
)

const ProgramName = "blueshift_anchor_vault"

// ProgramID is the placeholder address the program declares; deployments usually override it.
var ProgramID = solana.MustPublicKeyFromBase58("22222222222222222222222222222222222222222222")

const (
	InstructionDeposit  = "deposit"
	InstructionWithdraw = "withdraw"
)

var (
	DepositDiscriminator  = anchor.InstructionDiscriminator(InstructionDeposit)
	WithdrawDiscriminator = anchor.InstructionDiscriminator(InstructionWithdraw)
)

// PDA seeds
const (
	VaultSeed = "vault"
)
