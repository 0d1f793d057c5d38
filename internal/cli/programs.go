package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/malbeclabs/anchorprobe/smartcontract/sdk/go/anchor"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type ProgramsCmd struct{}

func NewProgramsCmd() *ProgramsCmd {
	return &ProgramsCmd{}
}

func (c *ProgramsCmd) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "programs",
		Short: "List the programs in the Anchor workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags, err := getGlobalFlags(cmd)
			if err != nil {
				return err
			}
			log := newLogger(flags.verbose)

			ws, err := flags.loadWorkspace(log)
			if err != nil {
				return err
			}
			programs := ws.Programs()
			if len(programs) == 0 {
				return fmt.Errorf("no programs found in workspace %s", flags.workspaceDir())
			}
			renderPrograms(os.Stdout, programs)
			return nil
		},
	}
}

func renderPrograms(w io.Writer, programs []anchor.ProgramDescriptor) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetHeader([]string{"Name", "Program ID", "Instructions"})
	for _, p := range programs {
		table.Append([]string{p.Name, p.ProgramID.String(), strings.Join(p.IDL.InstructionNames(), ", ")})
	}
	table.Render()
}
