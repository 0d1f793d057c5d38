package cli

import (
	"bytes"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/malbeclabs/anchorprobe/config"
	"github.com/malbeclabs/anchorprobe/smartcontract/sdk/go/anchor"
	"github.com/stretchr/testify/require"
)

func TestCLI_RenderPrograms(t *testing.T) {
	t.Parallel()

	idl, err := anchor.ParseIDL([]byte(`{
		"address": "Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS",
		"metadata": {"name": "my_project", "version": "0.1.0", "spec": "0.1.0"},
		"instructions": [
			{"name": "initialize", "discriminator": [175,175,109,31,13,152,155,237], "accounts": [], "args": []},
			{"name": "getCounter", "accounts": [], "args": []}
		]
	}`))
	require.NoError(t, err)

	var buf bytes.Buffer
	renderPrograms(&buf, []anchor.ProgramDescriptor{{
		Name:      "my_project",
		ProgramID: solana.MustPublicKeyFromBase58("Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS"),
		IDL:       idl,
	}})

	out := buf.String()
	require.Contains(t, out, "Program ID")
	require.Contains(t, out, "my_project")
	require.Contains(t, out, "Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS")
	require.Contains(t, out, "initialize, get_counter")
}

func TestCLI_WorkspaceDir(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(config.EnvWorkspace, "/from/env")
		f := &globalFlags{workspace: "/from/flag"}
		require.Equal(t, "/from/flag", f.workspaceDir())
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv(config.EnvWorkspace, "/from/env")
		f := &globalFlags{}
		require.Equal(t, "/from/env", f.workspaceDir())
	})

	t.Run("default", func(t *testing.T) {
		t.Setenv(config.EnvWorkspace, "")
		f := &globalFlags{}
		require.Equal(t, config.DefaultWorkspaceDir, f.workspaceDir())
	})
}

func TestCLI_WorkspaceCluster(t *testing.T) {
	t.Setenv(config.EnvCluster, "Devnet")
	t.Setenv("SOLANA_RPC_URL", "")

	got, err := (&globalFlags{cluster: "localnet"}).workspaceCluster()
	require.NoError(t, err)
	require.Equal(t, config.ClusterLocalnet, got)

	got, err = (&globalFlags{}).workspaceCluster()
	require.NoError(t, err)
	require.Equal(t, config.ClusterDevnet, got)

	t.Setenv(config.EnvCluster, "bogus")
	_, err = (&globalFlags{}).workspaceCluster()
	require.ErrorIs(t, err, config.ErrInvalidCluster)

	t.Setenv(config.EnvCluster, "")
	got, err = (&globalFlags{}).workspaceCluster()
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestCLI_Version(t *testing.T) {
	t.Parallel()

	cmd := NewVersionCmd(BuildInfo{Version: "v1.2.3", Commit: "abc123", Date: "2026-01-01"}).Command()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	require.Equal(t, "anchor-probe v1.2.3 (commit abc123, built 2026-01-01)\n", buf.String())
}
