package detector

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// State is the persisted snapshot of the previous run: the known file set
// with content hashes. It lives outside the analyzed tree, is read at the
// start of a run and atomically rewritten at the end.
type State struct {
	FileHashes map[string]string `json:"file_hashes"`
	LastRun    time.Time         `json:"last_run"`
}

// LoadState reads the snapshot from path. A missing or corrupt state file
// means "no prior knowledge" and yields an empty state, never an error.
func LoadState(path string) *State {
	empty := &State{FileHashes: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		return empty
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return empty
	}
	if state.FileHashes == nil {
		state.FileHashes = make(map[string]string)
	}
	return &state
}

// Save writes the snapshot atomically: marshal to a temporary file in the
// same directory, then rename over the target. An interrupted run never
// leaves a torn or empty state file.
func (s *State) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp state: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename state: %w", err)
	}
	return nil
}
