// Package ui holds the terminal interactions of the import: the overwrite
// confirmation and the styled run summary.
package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// Prompter asks the user before the output file and state are overwritten.
type Prompter struct {
	In  io.Reader
	Out io.Writer

	// Interactive selects the huh form instead of the line prompt.
	Interactive bool
}

// NewPrompter returns a prompter on stdin and stdout. The form is used only
// when both are terminals.
func NewPrompter() *Prompter {
	return &Prompter{
		In:          os.Stdin,
		Out:         os.Stdout,
		Interactive: IsTerminal(os.Stdin) && IsTerminal(os.Stdout),
	}
}

// IsTerminal reports whether f is a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ConfirmOverwrite asks whether to overwrite configFile and the terraform
// state. It returns false when the user declines or input ends.
func (p *Prompter) ConfirmOverwrite(ctx context.Context, configFile string) (bool, error) {
	warning := fmt.Sprintf("Warning: This will overwrite your config file (%s) and terraform state.", configFile)
	if p.Interactive {
		return p.confirmForm(ctx, warning)
	}
	return p.confirmLines(warning)
}

func (p *Prompter) confirmForm(ctx context.Context, warning string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Do you wish to continue?").
				Description(warning).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		ok, err = false, nil
	}
	if err != nil {
		return false, err
	}

	p.answer(ok)
	return ok, nil
}

func (p *Prompter) confirmLines(warning string) (bool, error) {
	scanner := bufio.NewScanner(p.In)
	for {
		fmt.Fprintln(p.Out, warningStyle.Render(warning))
		fmt.Fprint(p.Out, "Do you wish to continue? (y/n) ")

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return false, fmt.Errorf("failed to read response: %w", err)
			}
			fmt.Fprintln(p.Out)
			p.answer(false)
			return false, nil
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y", "yes":
			p.answer(true)
			return true, nil
		case "n", "no":
			p.answer(false)
			return false, nil
		default:
			fmt.Fprintln(p.Out, "Invalid response, prompting again.")
		}
	}
}

func (p *Prompter) answer(ok bool) {
	if ok {
		fmt.Fprintln(p.Out, "Starting import")
		return
	}
	fmt.Fprintln(p.Out, "Aborting import")
}
