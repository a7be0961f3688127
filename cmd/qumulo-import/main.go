// Package main is the entry point for the qumulo-import CLI.
//
// qumulo-import reads the settings of a Qumulo cluster over its REST API,
// writes them as a Terraform configuration for the Qumulo provider and
// imports every resource into terraform state, so an existing cluster can
// be managed as code. With --json it dumps the raw settings instead.
//
// For detailed usage information, run:
//
//	qumulo-import --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/qumulo/qumulo-import/cmd/qumulo-import/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetBuildInfo(commands.BuildInfo{Version: version, Commit: commit, Date: date})
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
