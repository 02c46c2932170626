package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"MarketPulse/internal/model"
)

// Load reads the last evaluation from a JSON file. Returns nil if the file doesn't exist.
func Load(filePath string) (*model.Evaluation, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var ev model.Evaluation
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &ev, nil
}

// Save writes the evaluation to a JSON file, replacing it atomically.
func Save(filePath string, ev *model.Evaluation) error {
	data, err := json.MarshalIndent(ev, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return err
	}
	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, filePath)
}
