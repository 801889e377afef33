package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"BreakoutScope/internal/model"
)

// LoadSnapshot reads a result set from a JSON file. Returns nil if the file
// doesn't exist.
func LoadSnapshot(filePath string) (*model.ResultSet, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var rs model.ResultSet
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", filePath, err)
	}
	return &rs, nil
}

// SaveSnapshot writes the result set to a JSON file. The file is written
// next to its destination and renamed into place so a crash never leaves a
// truncated snapshot.
func SaveSnapshot(filePath string, rs *model.ResultSet) error {
	data, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filePath)
}
