package anchor

import (
	"context"
	"fmt"
	"maps"

	"github.com/gagliardetto/solana-go"
)

// MethodBuilder assembles and submits one program instruction.
type MethodBuilder struct {
	program   *Program
	name      string
	ix        *IDLInstruction
	args      []any
	accounts  map[string]solana.PublicKey
	remaining []*solana.AccountMeta
	signers   []solana.PrivateKey
	pre       []solana.Instruction
	err       error
}

func (b *MethodBuilder) Args(args ...any) *MethodBuilder {
	b.args = args
	return b
}

// Accounts sets named accounts; names match the IDL in any casing.
func (b *MethodBuilder) Accounts(accounts map[string]solana.PublicKey) *MethodBuilder {
	maps.Copy(b.accounts, accounts)
	return b
}

func (b *MethodBuilder) Account(name string, pk solana.PublicKey) *MethodBuilder {
	b.accounts[name] = pk
	return b
}

func (b *MethodBuilder) RemainingAccounts(metas ...*solana.AccountMeta) *MethodBuilder {
	b.remaining = append(b.remaining, metas...)
	return b
}

// Signers adds keys that must sign besides the provider wallet.
func (b *MethodBuilder) Signers(keys ...solana.PrivateKey) *MethodBuilder {
	b.signers = append(b.signers, keys...)
	return b
}

func (b *MethodBuilder) PreInstructions(ixs ...solana.Instruction) *MethodBuilder {
	b.pre = append(b.pre, ixs...)
	return b
}

// Instruction builds the instruction without sending it.
func (b *MethodBuilder) Instruction() (solana.Instruction, error) {
	if b.err != nil {
		return nil, b.err
	}
	data, err := encodeInstructionData(b.ix, b.args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.ix.Name, err)
	}

	resolver := newAccountResolver(b.program.id, b.program.provider.Wallet(), b.ix, b.args, b.accounts)
	metas, err := resolver.Resolve()
	if err != nil {
		return nil, err
	}
	metas = append(metas, b.remaining...)

	return &solana.GenericInstruction{
		ProgID:        b.program.id,
		AccountValues: metas,
		DataBytes:     data,
	}, nil
}

func (b *MethodBuilder) transaction() ([]solana.Instruction, error) {
	ix, err := b.Instruction()
	if err != nil {
		return nil, err
	}
	out := make([]solana.Instruction, 0, len(b.pre)+1)
	out = append(out, b.pre...)
	return append(out, ix), nil
}

// RPC submits the instruction signed by the provider wallet and waits for it to reach the
// provider's commitment.
func (b *MethodBuilder) RPC(ctx context.Context) (solana.Signature, error) {
	ixs, err := b.transaction()
	if err != nil {
		return solana.Signature{}, err
	}
	return b.program.provider.SendAndConfirm(ctx, ixs, b.signers, &SendOptions{
		Label: b.program.name + "." + CanonicalName(b.name),
		IDL:   b.program.idl,
	})
}

// Simulate runs the instruction without committing it.
func (b *MethodBuilder) Simulate(ctx context.Context) (*SimulateResult, error) {
	ixs, err := b.transaction()
	if err != nil {
		return nil, err
	}
	return b.program.provider.Simulate(ctx, ixs, b.signers, b.program.idl)
}

// View simulates the instruction and returns the data it returned.
func (b *MethodBuilder) View(ctx context.Context) ([]byte, error) {
	res, err := b.Simulate(ctx)
	if err != nil {
		return nil, err
	}
	data, ok, err := ReturnData(res.Logs, b.program.id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s returned no data", b.name)
	}
	return data, nil
}
