package anchor

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Program is a handle on a deployed program: its address and IDL bound to a provider.
type Program struct {
	name     string
	id       solana.PublicKey
	idl      *IDL
	provider *Provider
}

func NewProgram(desc ProgramDescriptor, provider *Provider) (*Program, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: provider is required", ErrConfiguration)
	}
	if desc.IDL == nil {
		return nil, fmt.Errorf("%w: %s has no IDL", ErrProgramNotFound, desc.Name)
	}
	if desc.ProgramID.IsZero() {
		return nil, errors.New("program ID is required")
	}
	return &Program{
		name:     CanonicalName(desc.Name),
		id:       desc.ProgramID,
		idl:      desc.IDL,
		provider: provider,
	}, nil
}

func (p *Program) Name() string { return p.name }

func (p *Program) ProgramID() solana.PublicKey { return p.id }

func (p *Program) IDL() *IDL { return p.idl }

func (p *Program) Provider() *Provider { return p.provider }

// Methods starts building a call to the named instruction. Errors, including an unknown
// instruction, are reported by the terminal call (Instruction, RPC, Simulate or View).
func (p *Program) Methods(name string, args ...any) *MethodBuilder {
	b := &MethodBuilder{
		program:  p,
		name:     name,
		args:     args,
		accounts: map[string]solana.PublicKey{},
	}
	ix, ok := p.idl.Instruction(name)
	if !ok {
		b.err = fmt.Errorf("%w: %s.%s", ErrInstructionNotFound, p.name, name)
		return b
	}
	b.ix = ix
	return b
}
