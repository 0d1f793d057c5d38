package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type VersionCmd struct {
	info BuildInfo
}

func NewVersionCmd(info BuildInfo) *VersionCmd {
	return &VersionCmd{info: info}
}

func (c *VersionCmd) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "anchor-probe %s (commit %s, built %s)\n", c.info.Version, c.info.Commit, c.info.Date)
			return err
		},
	}
}
