// Package handlers implements the business logic for CLI commands.
//
// Handlers are called by the command definitions in the commands package
// and can be tested without cobra. External dependencies are reached
// through package-level factory variables that tests replace.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/qumulo/qumulo-import/internal/config"
	"github.com/qumulo/qumulo-import/internal/exporter"
	"github.com/qumulo/qumulo-import/internal/logging"
	"github.com/qumulo/qumulo-import/internal/metrics"
	"github.com/qumulo/qumulo-import/internal/qumulo"
	"github.com/qumulo/qumulo-import/internal/terraform"
	"github.com/qumulo/qumulo-import/internal/ui"
	"github.com/qumulo/qumulo-import/internal/util/prerequisites"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfig reads the dotenv file, the settings file and the environment.
	loadConfig = config.Load

	// newClient signs in to the cluster.
	newClient = func(ctx context.Context, cfg qumulo.Config) (exporter.Source, error) {
		c, err := qumulo.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	}

	// newRunner creates the terraform runner for the output directory.
	newRunner = func(dir, execPath string) (terraform.Runner, error) {
		r, err := terraform.NewExecRunner(dir, execPath, os.Stdout, os.Stderr)
		if err != nil {
			return nil, err
		}
		return r, nil
	}

	// checkDefaultPrereqs looks up the terraform binary.
	checkDefaultPrereqs = prerequisites.CheckDefault

	// confirmOverwrite asks before the output file and state are replaced.
	confirmOverwrite = func(ctx context.Context, configFile string) (bool, error) {
		return ui.NewPrompter().ConfirmOverwrite(ctx, configFile)
	}

	// createFile opens the output file for writing.
	createFile = func(path string) (io.WriteCloser, error) {
		// #nosec G304 - path is the user's chosen output file
		return os.Create(path)
	}

	// newRunID names the upload directory of a run.
	newRunID = uuid.NewString

	// stdout receives user-facing output.
	stdout io.Writer = os.Stdout
)

// RunOptions are the flags of the root command.
type RunOptions struct {
	// ConfigFile is the generated terraform configuration, or the dump
	// file in JSON mode.
	ConfigFile string

	// Dry signs in and stops before anything is written.
	Dry bool

	// Features selects feature keys. Empty means the configured or
	// default selection.
	Features []string

	// JSON dumps the raw settings instead of generating configuration.
	JSON   bool
	Format string

	// SettingsFile is the YAML settings file (--config).
	SettingsFile string

	ProviderSource string
	Upload         string
	MetricsFile    string

	// Yes skips the overwrite confirmation.
	Yes bool
}

// Run exports the cluster configuration.
//
// The flow is:
//  1. Load settings and validate the cluster connection settings
//  2. Resolve the feature selection
//  3. Sign in to the cluster (a dry run stops here)
//  4. Confirm the overwrite unless --yes is set
//  5. Write the JSON dump, or write the configuration and import every resource
//  6. Upload the artifacts when an upload target is configured
//
// A missing connection setting or an unknown feature key is reported on
// stdout and is not an error.
func Run(ctx context.Context, opts RunOptions) error {
	logger := logging.FromContext(ctx)

	cfg, err := loadConfig(config.LoadOptions{ConfigFile: opts.SettingsFile})
	if err != nil {
		return err
	}
	applyOverrides(cfg, opts)

	if err := cfg.Validate(); err != nil {
		var missing *config.MissingSettingError
		if errors.As(err, &missing) {
			fmt.Fprintln(stdout, missing.Error())
			return nil
		}
		return err
	}

	keys := opts.Features
	if len(keys) == 0 {
		keys = cfg.Features
	}
	sel, err := exporter.ParseSelection(keys)
	if err != nil {
		var unsupported *exporter.UnsupportedFeatureError
		if errors.As(err, &unsupported) {
			fmt.Fprintln(stdout, unsupported.Error())
			return nil
		}
		return err
	}

	var recorder *metrics.Recorder
	if opts.MetricsFile != "" {
		recorder = metrics.NewRecorder()
		defer func() {
			if err := recorder.WriteTextfile(opts.MetricsFile); err != nil {
				logger.Error(err, "Failed to write metrics", "path", opts.MetricsFile)
			}
		}()
	}

	client, err := connect(ctx, cfg, recorder)
	if err != nil {
		return err
	}

	if opts.Dry {
		logger.Info("Dry run, signed in successfully", "host", cfg.Cluster.Host)
		return nil
	}

	var terraformPath string
	if !opts.JSON {
		terraformPath, err = findTerraform(cfg.Terraform.Binary)
		if err != nil {
			return err
		}
	}

	if !opts.Yes {
		ok, err := confirmOverwrite(ctx, opts.ConfigFile)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	if opts.JSON {
		if err := dump(ctx, client, sel, opts); err != nil {
			return err
		}
		uploaded, err := uploadArtifacts(ctx, cfg.Upload, []string{opts.ConfigFile})
		if err != nil {
			return err
		}
		for _, k := range uploaded {
			fmt.Fprintf(stdout, "Uploaded %s\n", k)
		}
		return nil
	}

	return importCluster(ctx, client, sel, cfg, opts, terraformPath, recorder)
}

func applyOverrides(cfg *config.Config, opts RunOptions) {
	if opts.ProviderSource != "" {
		cfg.Terraform.ProviderSource = opts.ProviderSource
	}
	if opts.Upload != "" {
		cfg.Upload.URL = opts.Upload
	}
}

// connect signs in with the validated cluster settings.
func connect(ctx context.Context, cfg *config.Config, recorder *metrics.Recorder) (exporter.Source, error) {
	qcfg := qumulo.Config{
		Host:               cfg.Cluster.Host,
		Port:               cfg.Cluster.Port,
		Username:           cfg.Cluster.Username,
		Password:           cfg.Cluster.Password,
		InsecureSkipVerify: cfg.Cluster.SkipTLSVerify(),
	}
	if recorder != nil {
		qcfg.Observer = recorder
	}

	client, err := newClient(ctx, qcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to cluster: %w", err)
	}
	return client, nil
}

// findTerraform returns the path of the terraform binary.
func findTerraform(binary string) (string, error) {
	results := checkDefaultPrereqs(binary)
	if err := results.Error(); err != nil {
		return "", err
	}
	for _, r := range results.Results {
		if r.Found {
			return r.Path, nil
		}
	}
	return "", fmt.Errorf("terraform not found")
}

// dump writes the JSON or YAML snapshot to the output file.
func dump(ctx context.Context, client exporter.Source, sel exporter.Selection, opts RunOptions) error {
	snap, err := exporter.TakeSnapshot(ctx, client, sel)
	if err != nil {
		return err
	}

	f, err := createFile(opts.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", opts.ConfigFile, err)
	}
	if err := exporter.WriteSnapshot(f, snap, opts.Format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// importCluster writes the configuration and imports it into a fresh state
// in the output file's directory.
func importCluster(ctx context.Context, client exporter.Source, sel exporter.Selection,
	cfg *config.Config, opts RunOptions, terraformPath string, recorder *metrics.Recorder,
) error {
	logger := logging.FromContext(ctx)

	dir, err := filepath.Abs(filepath.Dir(opts.ConfigFile))
	if err != nil {
		return fmt.Errorf("failed to resolve output directory: %w", err)
	}

	runner, err := newRunner(dir, terraformPath)
	if err != nil {
		return err
	}

	f, err := createFile(opts.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", opts.ConfigFile, err)
	}
	defer func() { _ = f.Close() }()

	exp, err := exporter.New(exporter.Options{
		Source:         client,
		Runner:         runner,
		Output:         f,
		ProviderSource: cfg.Terraform.ProviderSource,
		WorkDir:        dir,
		Metrics:        recorder,
	})
	if err != nil {
		return err
	}

	result, err := exp.Run(ctx, sel)
	if err != nil {
		return err
	}
	if err := result.ImportErrors(); err != nil {
		logger.Info("Some resources were not imported", "failed", len(result.Failed))
	}

	summary := ui.Summary{ConfigFile: opts.ConfigFile, Result: result}

	statePath := filepath.Join(dir, terraform.StateFile)
	if st, err := terraform.ReadState(statePath); err == nil {
		summary.State = st
	} else {
		logger.V(1).Info("No terraform state to summarize", "path", statePath, "error", err.Error())
	}

	summary.Uploaded, err = uploadArtifacts(ctx, cfg.Upload, []string{opts.ConfigFile, statePath})
	if err != nil {
		return err
	}

	ui.PrintSummary(stdout, summary)
	return nil
}
