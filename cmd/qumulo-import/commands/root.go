// Package commands defines the CLI command structure and flag bindings.
//
// Command execution is delegated to handler functions in the handlers
// package.
package commands

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/qumulo/qumulo-import/cmd/qumulo-import/handlers"
	"github.com/qumulo/qumulo-import/internal/config"
	"github.com/qumulo/qumulo-import/internal/exporter"
	"github.com/qumulo/qumulo-import/internal/logging"
)

// Root returns the root command. Running it without a subcommand performs
// the import.
func Root() *cobra.Command {
	var (
		opts     handlers.RunOptions
		logJSON  bool
		debug    bool
		zlLogger *zap.Logger
	)

	cmd := &cobra.Command{
		Use:   "qumulo-import [feature...]",
		Short: "Import Qumulo cluster settings into a Terraform configuration",
		Long: `Import Qumulo cluster settings into a Terraform configuration.

The cluster connection is read from QUMULO_HOST, QUMULO_PORT,
QUMULO_USERNAME and QUMULO_PASSWORD (a .env file in the working directory
is loaded first). For every selected feature the settings are fetched,
written to the configuration file and imported into a fresh terraform state
in the same directory.

Examples:
  # Import everything into ./main.tf
  qumulo-import

  # Only quotas and SMB shares, without the confirmation prompt
  qumulo-import --enable quotas,smb_shares --yes

  # Dump the raw settings as JSON
  qumulo-import --json --file settings.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger, zl := logging.New(logging.Options{JSON: logJSON, Debug: debug, Output: os.Stderr})
			zlLogger = zl
			cmd.SetContext(logging.IntoContext(cmd.Context(), logger))
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if zlLogger != nil {
				_ = zlLogger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Features = append(opts.Features, args...)
			return handlers.Run(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.ConfigFile, "config_file", "main.tf", "Configuration file to write to")
	f.StringVar(&opts.ConfigFile, "file", "main.tf", "Configuration file to write to (alias of --config_file)")
	f.BoolVarP(&opts.Dry, "dry", "d", false, "Dry run, sign in and stop before writing anything")
	f.StringSliceVarP(&opts.Features, "enable", "e", nil, "Features to import (repeatable, comma or space separated); all default features when omitted")
	f.BoolVarP(&opts.JSON, "json", "j", false, "Dump the settings instead of a Terraform config")
	f.StringVar(&opts.Format, "format", exporter.FormatJSON, "Dump format with --json: json or yaml")
	f.StringVar(&opts.ProviderSource, "provider-source", "", "Terraform provider source address (default: settings file, else "+config.DefaultProviderSource+")")
	f.StringVar(&opts.Upload, "upload", "", "Upload the results to s3://bucket[/prefix]")
	f.StringVar(&opts.MetricsFile, "metrics-file", "", "Write run metrics in Prometheus textfile format")
	f.BoolVarP(&opts.Yes, "yes", "y", false, "Do not ask before overwriting the config file and state")

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.SettingsFile, "config", "c", "", "Settings file (default: "+config.DefaultConfigFile+" when present)")
	pf.BoolVar(&logJSON, "log-json", false, "Log in JSON format")
	pf.BoolVar(&debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(Features())
	cmd.AddCommand(Doctor(&opts.SettingsFile))
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
