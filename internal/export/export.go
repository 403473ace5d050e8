package export

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/example/linguist/pkg/models"
)

// Supported formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Write encodes the aggregate to w
func Write(w io.Writer, state models.AppState, format string) error {
	state.Normalize()
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(state); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(state); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
	return nil
}

// Read decodes an aggregate previously written by Write.
// Backups breaking the collection invariants are rejected.
func Read(r io.Reader, format string) (models.AppState, error) {
	var state models.AppState
	switch format {
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&state); err != nil {
			return state, fmt.Errorf("failed to decode json: %w", err)
		}
	case FormatYAML, "yml":
		if err := yaml.NewDecoder(r).Decode(&state); err != nil {
			return state, fmt.Errorf("failed to decode yaml: %w", err)
		}
	default:
		return state, fmt.Errorf("unsupported export format %q", format)
	}
	state.Normalize()
	if err := state.Validate(); err != nil {
		return models.AppState{}, err
	}
	return state, nil
}
