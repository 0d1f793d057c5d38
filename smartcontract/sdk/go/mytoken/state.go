package mytoken

import (
	"fmt"
	"io"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// TokenInfo is the value returned by get_token_info.
type TokenInfo struct {
	Decimals        uint8            // 1 byte
	TotalSupply     uint64           // 8 bytes LE
	Name            string           // 4-byte length prefix + UTF-8 bytes
	Symbol          string           // 4-byte length prefix + UTF-8 bytes
	URI             string           // 4-byte length prefix + UTF-8 bytes
	MintAddress     solana.PublicKey // 32 bytes
	MetadataAddress solana.PublicKey // 32 bytes
}

func (t *TokenInfo) Serialize(w io.Writer) error {
	enc := bin.NewBorshEncoder(w)
	for _, v := range []any{t.Decimals, t.TotalSupply, t.Name, t.Symbol, t.URI, t.MintAddress, t.MetadataAddress} {
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	return nil
}

func (t *TokenInfo) Deserialize(data []byte) error {
	dec := bin.NewBorshDecoder(data)
	if err := dec.Decode(&t.Decimals); err != nil {
		return err
	}
	if err := dec.Decode(&t.TotalSupply); err != nil {
		return err
	}
	if err := dec.Decode(&t.Name); err != nil {
		return err
	}
	if err := dec.Decode(&t.Symbol); err != nil {
		return err
	}
	if err := dec.Decode(&t.URI); err != nil {
		return err
	}
	if err := dec.Decode(&t.MintAddress); err != nil {
		return err
	}
	if err := dec.Decode(&t.MetadataAddress); err != nil {
		return err
	}
	return nil
}

const (
	MintAccountSize  = 82
	TokenAccountSize = 165
)

// Mint is the base layout of a Token-2022 mint. Extension data after the base layout is ignored.
type Mint struct {
	MintAuthority   *solana.PublicKey
	Supply          uint64
	Decimals        uint8
	IsInitialized   bool
	FreezeAuthority *solana.PublicKey
}

type TokenAccountState uint8

const (
	TokenAccountStateUninitialized TokenAccountState = iota
	TokenAccountStateInitialized
	TokenAccountStateFrozen
)

// TokenAccount is the base layout of a Token-2022 token account.
type TokenAccount struct {
	Mint            solana.PublicKey
	Owner           solana.PublicKey
	Amount          uint64
	Delegate        *solana.PublicKey
	State           TokenAccountState
	IsNative        *uint64
	DelegatedAmount uint64
	CloseAuthority  *solana.PublicKey
}

func readPublicKey(dec *bin.Decoder) (solana.PublicKey, error) {
	b, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBytes(b), nil
}

// readOptionalPublicKey reads a COption<Pubkey>: a u32 tag followed by 32 bytes that are always
// present.
func readOptionalPublicKey(dec *bin.Decoder) (*solana.PublicKey, error) {
	tag, err := dec.ReadUint32(bin.LE)
	if err != nil {
		return nil, err
	}
	pk, err := readPublicKey(dec)
	if err != nil {
		return nil, err
	}
	if tag == 0 {
		return nil, nil
	}
	return &pk, nil
}

func DeserializeMint(data []byte) (*Mint, error) {
	if len(data) < MintAccountSize {
		return nil, fmt.Errorf("mint account data too short: %d bytes", len(data))
	}
	dec := bin.NewBinDecoder(data[:MintAccountSize])

	var m Mint
	var err error
	if m.MintAuthority, err = readOptionalPublicKey(dec); err != nil {
		return nil, fmt.Errorf("failed to read mint authority: %w", err)
	}
	if m.Supply, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, fmt.Errorf("failed to read supply: %w", err)
	}
	if m.Decimals, err = dec.ReadUint8(); err != nil {
		return nil, fmt.Errorf("failed to read decimals: %w", err)
	}
	if m.IsInitialized, err = dec.ReadBool(); err != nil {
		return nil, fmt.Errorf("failed to read initialized flag: %w", err)
	}
	if m.FreezeAuthority, err = readOptionalPublicKey(dec); err != nil {
		return nil, fmt.Errorf("failed to read freeze authority: %w", err)
	}
	return &m, nil
}

func DeserializeTokenAccount(data []byte) (*TokenAccount, error) {
	if len(data) < TokenAccountSize {
		return nil, fmt.Errorf("token account data too short: %d bytes", len(data))
	}
	dec := bin.NewBinDecoder(data[:TokenAccountSize])

	var a TokenAccount
	var err error
	if a.Mint, err = readPublicKey(dec); err != nil {
		return nil, fmt.Errorf("failed to read mint: %w", err)
	}
	if a.Owner, err = readPublicKey(dec); err != nil {
		return nil, fmt.Errorf("failed to read owner: %w", err)
	}
	if a.Amount, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, fmt.Errorf("failed to read amount: %w", err)
	}
	if a.Delegate, err = readOptionalPublicKey(dec); err != nil {
		return nil, fmt.Errorf("failed to read delegate: %w", err)
	}
	state, err := dec.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}
	a.State = TokenAccountState(state)
	nativeTag, err := dec.ReadUint32(bin.LE)
	if err != nil {
		return nil, fmt.Errorf("failed to read native flag: %w", err)
	}
	native, err := dec.ReadUint64(bin.LE)
	if err != nil {
		return nil, fmt.Errorf("failed to read native reserve: %w", err)
	}
	if nativeTag != 0 {
		a.IsNative = &native
	}
	if a.DelegatedAmount, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, fmt.Errorf("failed to read delegated amount: %w", err)
	}
	if a.CloseAuthority, err = readOptionalPublicKey(dec); err != nil {
		return nil, fmt.Errorf("failed to read close authority: %w", err)
	}
	return &a, nil
}
