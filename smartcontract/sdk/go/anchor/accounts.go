package anchor

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// accountResolver fills in the accounts of an instruction from caller-provided keys, fixed IDL
// addresses, PDA seeds, the provider wallet and optional-account defaults.
type accountResolver struct {
	programID solana.PublicKey
	wallet    solana.PublicKey
	ix        *IDLInstruction
	args      []any
	resolved  map[string]solana.PublicKey
}

func newAccountResolver(programID, wallet solana.PublicKey, ix *IDLInstruction, args []any, provided map[string]solana.PublicKey) *accountResolver {
	resolved := make(map[string]solana.PublicKey, len(provided))
	for name, pk := range provided {
		resolved[CanonicalName(name)] = pk
	}
	return &accountResolver{
		programID: programID,
		wallet:    wallet,
		ix:        ix,
		args:      args,
		resolved:  resolved,
	}
}

// Resolve returns account metas in instruction order. PDAs may depend on accounts declared after
// them, so resolution repeats until no further account can be derived.
func (r *accountResolver) Resolve() ([]*solana.AccountMeta, error) {
	items := r.ix.FlatAccounts()

	for _, item := range items {
		key := CanonicalName(item.Name)
		if _, ok := r.resolved[key]; ok {
			continue
		}
		if item.Address != "" {
			pk, err := solana.PublicKeyFromBase58(item.Address)
			if err != nil {
				return nil, fmt.Errorf("account %q has invalid fixed address: %w", item.Name, err)
			}
			r.resolved[key] = pk
		}
	}

	for {
		progress := false
		for _, item := range items {
			key := CanonicalName(item.Name)
			if _, ok := r.resolved[key]; ok || item.PDA == nil {
				continue
			}
			pk, ok, err := r.derivePDA(item.PDA)
			if err != nil {
				return nil, fmt.Errorf("account %q: %w", item.Name, err)
			}
			if ok {
				r.resolved[key] = pk
				progress = true
			}
		}
		if !progress {
			break
		}
	}

	metas := make([]*solana.AccountMeta, 0, len(items))
	var missing []string
	for _, item := range items {
		key := CanonicalName(item.Name)
		pk, ok := r.resolved[key]
		switch {
		case ok:
		case item.IsSignerAccount():
			pk = r.wallet
			r.resolved[key] = pk
		case item.IsOptionalAccount():
			pk = r.programID
		default:
			missing = append(missing, item.Name)
			continue
		}
		metas = append(metas, &solana.AccountMeta{
			PublicKey:  pk,
			IsWritable: item.IsWritable(),
			IsSigner:   item.IsSignerAccount(),
		})
	}
	if len(missing) > 0 {
		MetricErrors.WithLabelValues(ErrorTypeAccountResolution).Inc()
		return nil, fmt.Errorf("%w: %s: %s", ErrMissingAccount, r.ix.Name, strings.Join(missing, ", "))
	}
	return metas, nil
}

// derivePDA returns ok=false when a seed references an account that is not resolved yet.
func (r *accountResolver) derivePDA(pda *IDLPDA) (solana.PublicKey, bool, error) {
	seeds := make([][]byte, 0, len(pda.Seeds))
	for _, seed := range pda.Seeds {
		b, ok, err := r.seedBytes(seed)
		if err != nil || !ok {
			return solana.PublicKey{}, false, err
		}
		seeds = append(seeds, b)
	}

	programID := r.programID
	if pda.Program != nil {
		b, ok, err := r.seedBytes(*pda.Program)
		if err != nil || !ok {
			return solana.PublicKey{}, false, err
		}
		if len(b) != solana.PublicKeyLength {
			return solana.PublicKey{}, false, fmt.Errorf("pda program seed is %d bytes", len(b))
		}
		programID = solana.PublicKeyFromBytes(b)
	}

	pk, _, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		return solana.PublicKey{}, false, fmt.Errorf("failed to derive PDA: %w", err)
	}
	return pk, true, nil
}

func (r *accountResolver) seedBytes(seed IDLSeed) ([]byte, bool, error) {
	switch seed.Kind {
	case "const":
		return seed.Value, true, nil
	case "account":
		if strings.Contains(seed.Path, ".") {
			return nil, false, fmt.Errorf("seed path %q reads account data, provide the account explicitly", seed.Path)
		}
		key := CanonicalName(seed.Path)
		if pk, ok := r.resolved[key]; ok {
			return pk.Bytes(), true, nil
		}
		if r.isSigner(key) {
			return r.wallet.Bytes(), true, nil
		}
		return nil, false, nil
	case "arg":
		name := CanonicalName(seed.Path)
		for i, field := range r.ix.Args {
			if CanonicalName(field.Name) != name {
				continue
			}
			if i >= len(r.args) {
				return nil, false, fmt.Errorf("%w: seed arg %q not supplied", ErrInvalidArgs, seed.Path)
			}
			b, err := argSeedBytes(field, r.args[i])
			return b, err == nil, err
		}
		return nil, false, fmt.Errorf("seed arg %q is not an instruction argument", seed.Path)
	}
	return nil, false, fmt.Errorf("unsupported seed kind %q", seed.Kind)
}

func (r *accountResolver) isSigner(key string) bool {
	for _, item := range r.ix.FlatAccounts() {
		if CanonicalName(item.Name) == key {
			return item.IsSignerAccount()
		}
	}
	return false
}
