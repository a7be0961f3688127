package terraform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/hashicorp/terraform-exec/tfexec"
)

// Files managed in the terraform working directory.
const (
	StateFile     = "terraform.tfstate"
	LockFile      = ".terraform.lock.hcl"
	DefaultBinary = "terraform"
)

// Runner runs the terraform commands the importer needs.
type Runner interface {
	Init(ctx context.Context) error
	Import(ctx context.Context, address, id string) error
}

// ExecRunner runs terraform as a subprocess in a working directory.
type ExecRunner struct {
	tf  *tfexec.Terraform
	dir string
}

// NewExecRunner creates a runner for the configuration in dir.
// Command output is streamed to stdout and stderr when they are non-nil.
func NewExecRunner(dir, execPath string, stdout, stderr io.Writer) (*ExecRunner, error) {
	tf, err := tfexec.NewTerraform(dir, execPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create terraform runner: %w", err)
	}
	if stdout != nil {
		tf.SetStdout(stdout)
	}
	if stderr != nil {
		tf.SetStderr(stderr)
	}
	return &ExecRunner{tf: tf, dir: dir}, nil
}

// Init runs terraform init.
func (r *ExecRunner) Init(ctx context.Context) error {
	logr.FromContextOrDiscard(ctx).Info("Running terraform init", "dir", r.dir)
	if err := r.tf.Init(ctx); err != nil {
		return fmt.Errorf("terraform init: %w", err)
	}
	return nil
}

// Import runs terraform import for a single address.
func (r *ExecRunner) Import(ctx context.Context, address, id string) error {
	logr.FromContextOrDiscard(ctx).V(1).Info("Running terraform import", "address", address, "id", id)
	if err := r.tf.Import(ctx, address, id); err != nil {
		return fmt.Errorf("terraform import %s %s: %w", address, id, err)
	}
	return nil
}

// ResetState removes the state and dependency lock files from dir.
// Missing files are not an error.
func ResetState(dir string) error {
	for _, name := range []string{StateFile, LockFile} {
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return nil
}
