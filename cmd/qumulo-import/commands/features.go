package commands

import (
	"github.com/spf13/cobra"

	"github.com/qumulo/qumulo-import/cmd/qumulo-import/handlers"
)

// Features returns the command that lists the supported feature keys.
func Features() *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "List supported features",
		Long: `List the feature keys accepted by --enable.

Features marked opt-in are only imported when named explicitly.`,
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			handlers.Features()
		},
	}
}
