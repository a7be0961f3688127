package terraform

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// State is the subset of a terraform state file needed to list what was imported.
type State struct {
	Version          int             `json:"version"`
	TerraformVersion string          `json:"terraform_version"`
	Serial           int             `json:"serial"`
	Lineage          string          `json:"lineage"`
	Resources        []ResourceState `json:"resources"`
}

// ResourceState is one resource entry in the state file.
type ResourceState struct {
	Mode      string             `json:"mode"`
	Type      string             `json:"type"`
	Name      string             `json:"name"`
	Provider  string             `json:"provider"`
	Instances []ResourceInstance `json:"instances"`
}

// ResourceInstance is one instance of a resource. IndexKey is set for
// for_each (string) and count (number) resources.
type ResourceInstance struct {
	SchemaVersion int            `json:"schema_version"`
	Attributes    map[string]any `json:"attributes"`
	IndexKey      any            `json:"index_key,omitempty"`
}

// ReadState parses the state file at path.
func ReadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse state %s: %w", path, err)
	}
	return &s, nil
}

// Addresses returns the sorted addresses of all managed resource instances.
func (s *State) Addresses() []string {
	var out []string
	for _, r := range s.Resources {
		if r.Mode != "managed" {
			continue
		}
		base := r.Type + "." + r.Name
		for _, inst := range r.Instances {
			switch k := inst.IndexKey.(type) {
			case nil:
				out = append(out, base)
			case string:
				out = append(out, fmt.Sprintf("%s[%q]", base, k))
			case float64:
				out = append(out, fmt.Sprintf("%s[%d]", base, int(k)))
			default:
				out = append(out, fmt.Sprintf("%s[%v]", base, k))
			}
		}
	}
	sort.Strings(out)
	return out
}

// Contains reports whether the state holds an instance at address.
func (s *State) Contains(address string) bool {
	addrs := s.Addresses()
	i := sort.SearchStrings(addrs, address)
	return i < len(addrs) && addrs[i] == address
}
