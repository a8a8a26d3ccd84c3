// mappings.go - MIDI-mapping persistence (§6): a flat key->label map,
// not a database, matching spec.md's explicit restriction that nothing
// but controller mappings are persisted.
package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const mappingsFileName = "deckengine-midi-mappings.json"

func mappingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, mappingsFileName), nil
}

// SaveMappings writes a flat key->label map to a single JSON file under
// the user's OS config directory.
func SaveMappings(labels map[string]string) error {
	path, err := mappingsPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(labels, "", "  ")
	if err != nil {
		return fmt.Errorf("encode mappings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write mappings: %w", err)
	}
	return nil
}

// LoadMappings reads the flat key->label map; a missing file is not an
// error, it simply yields an empty map.
func LoadMappings() (map[string]string, error) {
	path, err := mappingsPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read mappings: %w", err)
	}
	labels := make(map[string]string)
	if err := json.Unmarshal(data, &labels); err != nil {
		return nil, fmt.Errorf("decode mappings: %w", err)
	}
	return labels, nil
}
