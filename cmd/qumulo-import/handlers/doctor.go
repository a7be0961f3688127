package handlers

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/qumulo/qumulo-import/internal/config"
	"github.com/qumulo/qumulo-import/internal/ui"
)

// DoctorOptions are the flags of the doctor command.
type DoctorOptions struct {
	SettingsFile string
}

// Doctor checks that an import can run: the connection settings are
// complete, terraform is installed and the cluster accepts the credentials.
// Every check runs; the returned error lists how many failed.
func Doctor(ctx context.Context, opts DoctorOptions) error {
	cfg, err := loadConfig(config.LoadOptions{ConfigFile: opts.SettingsFile})
	if err != nil {
		return err
	}

	failed := 0
	fmt.Fprintln(stdout, "Checking qumulo-import prerequisites")

	validErr := cfg.Validate()
	ui.PrintCheck(stdout, validErr == nil, "settings", errString(validErr))
	if validErr != nil {
		failed++
	}

	results := checkDefaultPrereqs(cfg.Terraform.Binary)
	for _, r := range results.Results {
		detail := r.Path
		if r.Version != "" {
			detail = r.Version + " (" + r.Path + ")"
		}
		if !r.Found {
			detail = "not found, see " + r.Tool.InstallURL
		}
		ui.PrintCheck(stdout, r.Found, r.Tool.Name, detail)
	}
	if results.HasErrors() {
		failed++
	}

	var missing *config.MissingSettingError
	switch {
	case errors.As(validErr, &missing):
		ui.PrintCheck(stdout, false, "login", "skipped, "+missing.Error())
		failed++
	default:
		target := net.JoinHostPort(cfg.Cluster.Host, cfg.Cluster.Port)
		if _, err := connect(ctx, cfg, nil); err != nil {
			ui.PrintCheck(stdout, false, "login", err.Error())
			failed++
		} else {
			ui.PrintCheck(stdout, true, "login", cfg.Cluster.Username+"@"+target)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
