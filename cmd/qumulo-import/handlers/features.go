package handlers

import "github.com/qumulo/qumulo-import/internal/ui"

// Features prints the supported feature keys.
func Features() {
	ui.PrintFeatures(stdout)
}
