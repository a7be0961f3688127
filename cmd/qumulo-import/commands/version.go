package commands

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// BuildInfo identifies the binary. Release builds set every field through
// ldflags in main.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

var build = BuildInfo{Version: "dev", Commit: "none", Date: "unknown"}

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// SetBuildInfo records the ldflags values from main.
func SetBuildInfo(b BuildInfo) {
	build = b
}

// resolved fills fields ldflags left unset from the module and VCS data
// embedded by go build / go install.
func (b BuildInfo) resolved() BuildInfo {
	bi, ok := readBuildInfo()
	if !ok {
		return b
	}
	if b.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		b.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && b.Commit == "none":
			b.Commit = s.Value
			if len(b.Commit) > 12 {
				b.Commit = b.Commit[:12]
			}
		case s.Key == "vcs.time" && b.Date == "unknown":
			b.Date = s.Value
		}
	}
	return b
}

// Version returns the version command.
func Version() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version of qumulo-import",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b := build.resolved()
			out := cmd.OutOrStdout()
			if short {
				_, err := fmt.Fprintln(out, b.Version)
				return err
			}
			_, err := fmt.Fprintf(out, "qumulo-import %s (commit %s, built %s)\n%s %s/%s\n",
				b.Version, b.Commit, b.Date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return err
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")
	return cmd
}
