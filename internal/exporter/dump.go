package exporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Dump formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// WriteSnapshot encodes snap to w as JSON indented by four spaces, or as
// YAML. Both keep the snapshot's key order.
func WriteSnapshot(w io.Writer, snap *Snapshot, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "", FormatJSON:
		data, err = json.MarshalIndent(snap, "", "    ")
	case FormatYAML:
		data, err = toYAML(snap)
	default:
		return fmt.Errorf("unsupported dump format %q: must be %s or %s", format, FormatJSON, FormatYAML)
	}
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// toYAML re-encodes the JSON form of v as block-style YAML. Decoding into a
// yaml.Node keeps mapping keys in document order.
func toYAML(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	blockStyle(&doc)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// blockStyle clears the flow and quoting styles the JSON input implies.
// The encoder still quotes strings that would otherwise read as another type.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
