package anchor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/jellydator/ttlcache/v3"
	"github.com/pelletier/go-toml"
)

const (
	ManifestFile = "Anchor.toml"
	IDLDir       = "target/idl"

	defaultDeploymentCacheTTL = 5 * time.Minute
)

// ProgramDescriptor is a workspace entry: a program name bound to its address and IDL.
type ProgramDescriptor struct {
	Name      string
	ProgramID solana.PublicKey
	IDL       *IDL
}

// Workspace is the registry of programs a probe can resolve by name. It is populated at startup,
// from an Anchor workspace directory or by Register, and is safe for concurrent use.
type Workspace struct {
	log      *slog.Logger
	mu       sync.RWMutex
	programs map[string]ProgramDescriptor
	deployed *ttlcache.Cache[string, bool]
}

type WorkspaceOption func(*Workspace)

// WithDeploymentCacheTTL sets how long a successful deployment check is trusted.
func WithDeploymentCacheTTL(ttl time.Duration) WorkspaceOption {
	return func(w *Workspace) {
		w.deployed = ttlcache.New(ttlcache.WithTTL[string, bool](ttl))
	}
}

func NewWorkspace(log *slog.Logger, opts ...WorkspaceOption) *Workspace {
	w := &Workspace{
		log:      log,
		programs: map[string]ProgramDescriptor{},
		deployed: ttlcache.New(ttlcache.WithTTL[string, bool](defaultDeploymentCacheTTL)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

type manifest struct {
	cluster  string
	programs map[string]string
}

func readManifest(path, cluster string) (*manifest, error) {
	tree, err := toml.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	m := &manifest{cluster: cluster, programs: map[string]string{}}
	if m.cluster == "" {
		if c, ok := tree.GetPath([]string{"provider", "cluster"}).(string); ok {
			m.cluster = strings.ToLower(c)
		}
	}
	if m.cluster == "" {
		m.cluster = "localnet"
	}

	table, ok := tree.GetPath([]string{"programs", m.cluster}).(*toml.Tree)
	if !ok {
		return m, nil
	}
	for _, name := range table.Keys() {
		if addr, ok := table.Get(name).(string); ok {
			m.programs[CanonicalName(name)] = addr
		}
	}
	return m, nil
}

// LoadWorkspace registers every program with an IDL under dir/target/idl. Program addresses come
// from the [programs.<cluster>] table of dir/Anchor.toml when present, else from the IDL. An empty
// cluster uses [provider].cluster from the manifest.
func LoadWorkspace(log *slog.Logger, dir, cluster string, opts ...WorkspaceOption) (*Workspace, error) {
	w := NewWorkspace(log, opts...)

	m := &manifest{cluster: cluster, programs: map[string]string{}}
	manifestPath := filepath.Join(dir, ManifestFile)
	if _, err := os.Stat(manifestPath); err == nil {
		m, err = readManifest(manifestPath, cluster)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
	}

	idlPaths, err := filepath.Glob(filepath.Join(dir, IDLDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	sort.Strings(idlPaths)

	for _, path := range idlPaths {
		idl, err := LoadIDL(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
		name := idl.ProgramName()

		var programID solana.PublicKey
		if addr, ok := m.programs[name]; ok {
			programID, err = solana.PublicKeyFromBase58(addr)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: program %s has invalid address %q: %w", ErrConfiguration, ManifestFile, name, addr, err)
			}
		} else if pk, ok := idl.ProgramAddress(); ok {
			programID = pk
		} else {
			log.Warn("Skipping program without an address", "program", name, "cluster", m.cluster)
			continue
		}

		if err := w.Register(ProgramDescriptor{Name: name, ProgramID: programID, IDL: idl}); err != nil {
			return nil, err
		}
		log.Debug("--> Registered program", "program", name, "programID", programID, "instructions", len(idl.Instructions))
	}

	for name := range m.programs {
		if _, err := w.Lookup(name); err != nil {
			log.Warn("Program listed in manifest has no IDL", "program", name, "cluster", m.cluster)
		}
	}

	return w, nil
}

func (w *Workspace) Register(desc ProgramDescriptor) error {
	name := CanonicalName(desc.Name)
	if name == "" {
		return errors.New("program name is required")
	}
	if desc.ProgramID.IsZero() {
		return fmt.Errorf("program %s: program ID is required", name)
	}
	if desc.IDL == nil {
		return fmt.Errorf("program %s: IDL is required", name)
	}
	desc.Name = name

	w.mu.Lock()
	defer w.mu.Unlock()
	w.programs[name] = desc
	return nil
}

// Lookup finds a registered program without touching the network.
func (w *Workspace) Lookup(name string) (ProgramDescriptor, error) {
	key := CanonicalName(name)
	if key == "" {
		return ProgramDescriptor{}, fmt.Errorf("%w: program name is empty", ErrProgramNotFound)
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	desc, ok := w.programs[key]
	if !ok {
		return ProgramDescriptor{}, fmt.Errorf("%w: %q is not in the workspace", ErrProgramNotFound, name)
	}
	return desc, nil
}

// Programs returns the registered programs sorted by name.
func (w *Workspace) Programs() []ProgramDescriptor {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]ProgramDescriptor, 0, len(w.programs))
	for _, desc := range w.programs {
		out = append(out, desc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Resolve looks up a program by name and checks that it is deployed as an executable account on
// the provider's cluster. No transaction is sent.
func (w *Workspace) Resolve(ctx context.Context, provider *Provider, name string) (*Program, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: provider is required", ErrConfiguration)
	}
	desc, err := w.Lookup(name)
	if err != nil {
		return nil, err
	}
	if err := w.checkDeployed(ctx, provider, desc); err != nil {
		return nil, err
	}
	return NewProgram(desc, provider)
}

func (w *Workspace) checkDeployed(ctx context.Context, provider *Provider, desc ProgramDescriptor) error {
	cacheKey := provider.RPCURL() + "|" + desc.ProgramID.String()
	if item := w.deployed.Get(cacheKey); item != nil && item.Value() {
		return nil
	}

	account, err := provider.RPC().GetAccountInfo(ctx, desc.ProgramID)
	if err != nil {
		if errors.Is(err, solanarpc.ErrNotFound) {
			return fmt.Errorf("%w: %s (%s) is not deployed", ErrProgramNotFound, desc.Name, desc.ProgramID)
		}
		MetricErrors.WithLabelValues(ErrorTypeDeploymentCheck).Inc()
		return fmt.Errorf("%w: failed to get program account %s: %w", ErrRPC, desc.ProgramID, err)
	}
	if account == nil || account.Value == nil {
		return fmt.Errorf("%w: %s (%s) is not deployed", ErrProgramNotFound, desc.Name, desc.ProgramID)
	}
	if !account.Value.Executable {
		return fmt.Errorf("%w: %s (%s) is not executable", ErrProgramNotFound, desc.Name, desc.ProgramID)
	}

	w.deployed.Set(cacheKey, true, ttlcache.DefaultTTL)
	return nil
}
