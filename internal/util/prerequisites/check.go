// Package prerequisites checks that the client tools needed for an import
// are installed.
package prerequisites

import (
	"fmt"
	"os/exec"
	"strings"
)

// Tool represents a client tool that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH, or a path to it.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// InstallURL provides a URL for installation instructions.
	InstallURL string

	// VersionArgs are passed to the tool to print its version.
	VersionArgs []string
}

// TerraformTool describes the terraform binary. An empty binary means
// "terraform" from PATH.
func TerraformTool(binary string) Tool {
	if binary == "" {
		binary = "terraform"
	}
	return Tool{
		Name:        binary,
		Required:    true,
		Description: "Required for terraform init and terraform import",
		InstallURL:  "https://developer.hashicorp.com/terraform/install",
		VersionArgs: []string{"version"},
	}
}

// DefaultTools returns the tools needed for an HCL import. JSON dumps and
// dry runs need none.
func DefaultTools(terraformBinary string) []Tool {
	return []Tool{TerraformTool(terraformBinary)}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool    Tool
	Found   bool
	Path    string
	Version string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.InstallURL))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Check verifies that the specified tools are available.
func Check(tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		path, err := exec.LookPath(tool.Name)
		if err == nil {
			result.Found = true
			result.Path = path
			result.Version = toolVersion(path, tool.VersionArgs)
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

// CheckDefault checks the tools needed for an HCL import.
func CheckDefault(terraformBinary string) *CheckResults {
	return Check(DefaultTools(terraformBinary))
}

// toolVersion returns the first line the tool prints for its version, or
// "" if it cannot be determined.
func toolVersion(path string, args []string) string {
	candidates := [][]string{args}
	if len(args) == 0 {
		candidates = [][]string{{"--version"}, {"version"}, {"-v"}}
	}

	for _, a := range candidates {
		// #nosec G204 - path was resolved by LookPath from a Tool definition
		output, err := exec.Command(path, a...).Output()
		if err != nil {
			continue
		}
		first, _, _ := strings.Cut(string(output), "\n")
		return strings.TrimSpace(first)
	}

	return ""
}
