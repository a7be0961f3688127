package commands

import (
	"github.com/spf13/cobra"

	"github.com/qumulo/qumulo-import/cmd/qumulo-import/handlers"
)

// Doctor returns the command for checking that an import can run.
//
// settingsFile points at the root's --config flag value.
func Doctor(settingsFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check settings, terraform and cluster access",
		Long: `Check that an import can run.

  - Validates the cluster connection settings
  - Looks up the terraform binary
  - Signs in to the cluster

Examples:
  qumulo-import doctor
  qumulo-import doctor --config qumulo-import.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), handlers.DoctorOptions{SettingsFile: *settingsFile})
		},
	}
}
