package anchor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
)

// IDL is the interface description emitted by the program build. Both the current layout (explicit
// discriminators, writable/signer flags) and the legacy layout (isMut/isSigner, no discriminators)
// are accepted.
type IDL struct {
	Address      string           `json:"address"`
	Name         string           `json:"name"`
	Version      string           `json:"version"`
	Metadata     IDLMetadata      `json:"metadata"`
	Instructions []IDLInstruction `json:"instructions"`
	Accounts     []IDLTypeRef     `json:"accounts"`
	Errors       []IDLErrorCode   `json:"errors"`
}

type IDLMetadata struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Spec        string `json:"spec"`
	Description string `json:"description"`
	Address     string `json:"address"`
}

type IDLInstruction struct {
	Name          string           `json:"name"`
	Discriminator ByteArray        `json:"discriminator"`
	Accounts      []IDLAccountItem `json:"accounts"`
	Args          []IDLField       `json:"args"`
	Returns       json.RawMessage  `json:"returns"`
}

type IDLAccountItem struct {
	Name     string  `json:"name"`
	Writable bool    `json:"writable"`
	Signer   bool    `json:"signer"`
	Optional bool    `json:"optional"`
	Address  string  `json:"address"`
	PDA      *IDLPDA `json:"pda"`

	// Legacy flags.
	IsMut      bool `json:"isMut"`
	IsSigner   bool `json:"isSigner"`
	IsOptional bool `json:"isOptional"`

	// Accounts is set for composite account groups.
	Accounts []IDLAccountItem `json:"accounts"`
}

func (a IDLAccountItem) IsWritable() bool { return a.Writable || a.IsMut }

func (a IDLAccountItem) IsSignerAccount() bool { return a.Signer || a.IsSigner }

func (a IDLAccountItem) IsOptionalAccount() bool { return a.Optional || a.IsOptional }

type IDLPDA struct {
	Seeds   []IDLSeed `json:"seeds"`
	Program *IDLSeed  `json:"program"`
}

type IDLSeed struct {
	Kind    string    `json:"kind"`
	Value   ByteArray `json:"value"`
	Path    string    `json:"path"`
	Account string    `json:"account"`
}

type IDLField struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
}

// PrimitiveType returns the type name for primitive fields ("u64", "pubkey", "string", ...) and an
// empty string for composite types.
func (f IDLField) PrimitiveType() string {
	var s string
	if err := json.Unmarshal(f.Type, &s); err != nil {
		return ""
	}
	if s == "publicKey" {
		return "pubkey"
	}
	return s
}

type IDLTypeRef struct {
	Name          string    `json:"name"`
	Discriminator ByteArray `json:"discriminator"`
}

type IDLErrorCode struct {
	Code uint32 `json:"code"`
	Name string `json:"name"`
	Msg  string `json:"msg"`
}

// ByteArray decodes a JSON array of numbers, the IDL's encoding for byte strings.
type ByteArray []byte

func (b *ByteArray) UnmarshalJSON(data []byte) error {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return fmt.Errorf("byte array: %w", err)
	}
	out := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return fmt.Errorf("byte array: element %d out of range: %d", i, v)
		}
		out[i] = byte(v)
	}
	*b = out
	return nil
}

func ParseIDL(data []byte) (*IDL, error) {
	var idl IDL
	if err := json.Unmarshal(data, &idl); err != nil {
		return nil, fmt.Errorf("failed to parse IDL: %w", err)
	}
	if idl.ProgramName() == "" {
		return nil, errors.New("IDL has no program name")
	}
	for i, ix := range idl.Instructions {
		if ix.Name == "" {
			return nil, fmt.Errorf("IDL instruction %d has no name", i)
		}
		if len(ix.Discriminator) != 0 && len(ix.Discriminator) != DiscriminatorSize {
			return nil, fmt.Errorf("IDL instruction %q has a %d-byte discriminator", ix.Name, len(ix.Discriminator))
		}
	}
	return &idl, nil
}

func LoadIDL(path string) (*IDL, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	idl, err := ParseIDL(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return idl, nil
}

// ProgramName returns the canonical program name declared by the IDL.
func (idl *IDL) ProgramName() string {
	if idl.Metadata.Name != "" {
		return CanonicalName(idl.Metadata.Name)
	}
	return CanonicalName(idl.Name)
}

// ProgramAddress returns the address embedded in the IDL, if any.
func (idl *IDL) ProgramAddress() (solana.PublicKey, bool) {
	addr := idl.Address
	if addr == "" {
		addr = idl.Metadata.Address
	}
	if addr == "" {
		return solana.PublicKey{}, false
	}
	pk, err := solana.PublicKeyFromBase58(addr)
	if err != nil {
		return solana.PublicKey{}, false
	}
	return pk, true
}

// Instruction looks up an instruction by name in any casing.
func (idl *IDL) Instruction(name string) (*IDLInstruction, bool) {
	want := CanonicalName(name)
	for i := range idl.Instructions {
		if CanonicalName(idl.Instructions[i].Name) == want {
			return &idl.Instructions[i], true
		}
	}
	return nil, false
}

func (idl *IDL) ErrorByCode(code uint32) (IDLErrorCode, bool) {
	for _, e := range idl.Errors {
		if e.Code == code {
			return e, true
		}
	}
	return IDLErrorCode{}, false
}

// InstructionNames lists instruction names in declaration order.
func (idl *IDL) InstructionNames() []string {
	names := make([]string, 0, len(idl.Instructions))
	for _, ix := range idl.Instructions {
		names = append(names, CanonicalName(ix.Name))
	}
	return names
}

// DiscriminatorBytes returns the IDL discriminator, or the derived one for legacy IDLs.
func (ix *IDLInstruction) DiscriminatorBytes() Discriminator {
	if len(ix.Discriminator) == DiscriminatorSize {
		var d Discriminator
		copy(d[:], ix.Discriminator)
		return d
	}
	return InstructionDiscriminator(ix.Name)
}

// FlatAccounts expands composite account groups into the order the program expects them.
func (ix *IDLInstruction) FlatAccounts() []IDLAccountItem {
	var out []IDLAccountItem
	var walk func(items []IDLAccountItem)
	walk = func(items []IDLAccountItem) {
		for _, item := range items {
			if len(item.Accounts) > 0 {
				walk(item.Accounts)
				continue
			}
			out = append(out, item)
		}
	}
	walk(ix.Accounts)
	return out
}
