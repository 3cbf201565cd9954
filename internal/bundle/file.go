package bundle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

func readJSON(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", ErrMsgReadFailed, path, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%s %s: %w", ErrMsgDecodeFailed, path, err)
	}
	return nil
}

// writeJSON replaces path atomically through a temp file in the same
// directory
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgWriteFailed, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), ".bundle-*.json")
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgWriteFailed, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%s: %w", ErrMsgWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgWriteFailed, err)
	}
	if err := os.Chmod(tmp.Name(), FilePermission); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgWriteFailed, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%s %s: %w", ErrMsgWriteFailed, path, err)
	}
	return nil
}
