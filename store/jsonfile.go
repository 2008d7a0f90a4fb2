package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
)

// loadArray reads a JSON array file into a slice. A file that is absent,
// unreadable or not valid JSON loads as an empty slice, never an error:
// availability is favored over strict integrity signaling for these
// collections. Callers must hold the resource's lock.
func loadArray[T any](path string) []T {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARN: Failed to read collection file '%s': %v. Treating as empty.", path, err)
		}
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("WARN: Collection file '%s' is not a valid JSON array: %v. Treating as empty.", path, err)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

// writeArray serializes the full slice and atomically replaces the file's
// contents via a temp file and rename, so a concurrent reader never observes
// a half-written file. Callers must hold the resource's lock.
func writeArray[T any](path string, items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal collection for '%s': %w", path, err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary collection file '%s': %w", tempPath, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to replace collection file '%s': %w", path, err)
	}
	return nil
}
