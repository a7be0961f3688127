package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/qumulo/qumulo-import/internal/exporter"
	"github.com/qumulo/qumulo-import/internal/terraform"
)

// Summary describes a finished import for display.
type Summary struct {
	ConfigFile string
	Result     *exporter.Result

	// State is the terraform state after the import, when it could be read.
	State *terraform.State

	// Uploaded lists object keys written by --upload.
	Uploaded []string
}

// RenderSummary formats s for the terminal.
func RenderSummary(s Summary) string {
	var b strings.Builder
	r := s.Result

	b.WriteString(titleStyle.Render("Qumulo import summary"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s\n", dimStyle.Render("Config file: "+s.ConfigFile))

	b.WriteString(sectionStyle.Render("Features"))
	b.WriteString("\n")
	skipped := make(map[exporter.Feature]bool, len(r.Skipped))
	for _, f := range r.Skipped {
		skipped[f] = true
	}
	for _, f := range r.Features {
		if skipped[f] {
			fmt.Fprintf(&b, "  %s %s\n", warningStyle.Render(skipMark), f)
			continue
		}
		fmt.Fprintf(&b, "  %s %s\n", okStyle.Render(checkMark), f)
	}

	b.WriteString(sectionStyle.Render("Resources"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Written:  %d\n", r.Resources)
	fmt.Fprintf(&b, "  Imported: %s\n", okStyle.Render(fmt.Sprint(r.Imported)))
	if s.State != nil {
		fmt.Fprintf(&b, "  In state: %d\n", len(s.State.Addresses()))
	}
	if len(r.Failed) > 0 {
		fmt.Fprintf(&b, "  Failed:   %s\n", failedStyle.Render(fmt.Sprint(len(r.Failed))))
		for _, imp := range r.Failed {
			fmt.Fprintf(&b, "    %s %s\n", failedStyle.Render(crossMark), imp)
		}
	}

	if len(s.Uploaded) > 0 {
		b.WriteString(sectionStyle.Render("Uploaded"))
		b.WriteString("\n")
		for _, key := range s.Uploaded {
			fmt.Fprintf(&b, "  %s\n", key)
		}
	}

	return b.String()
}

// PrintSummary writes the rendered summary to w.
func PrintSummary(w io.Writer, s Summary) {
	fmt.Fprint(w, RenderSummary(s))
}

// PrintFeatures lists every feature with its default state.
func PrintFeatures(w io.Writer) {
	fmt.Fprintln(w, titleStyle.Render("Supported features"))
	for _, f := range exporter.AllFeatures() {
		state := okStyle.Render("enabled by default")
		if !f.DefaultEnabled() {
			state = dimStyle.Render("opt-in")
		}
		fmt.Fprintf(w, "  %-18s %s\n", f, state)
	}
}

// PrintCheck writes one doctor check line.
func PrintCheck(w io.Writer, ok bool, label, detail string) {
	mark := okStyle.Render(checkMark)
	if !ok {
		mark = failedStyle.Render(crossMark)
	}
	if detail == "" {
		fmt.Fprintf(w, "  %s %s\n", mark, label)
		return
	}
	fmt.Fprintf(w, "  %s %-12s %s\n", mark, label, dimStyle.Render(detail))
}
