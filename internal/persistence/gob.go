// Package persistence stores dataset settings, record stores, and join
// results on disk as gob files.
package persistence

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gcbaptista/go-similarity-join/internal/logger"
)

var log = logger.New("persistence")

// SaveGob gob-encodes the given object and writes it to filePath atomically:
// the encoding goes into a temporary file in the same directory, which is
// renamed over the target only after a successful write. A join result or
// record store on disk is therefore never left half-written. Missing parent
// directories are created.
func SaveGob(filePath string, object interface{}) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(filePath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if err := gob.NewEncoder(tmp).Encode(object); err != nil {
		_ = tmp.Close()
		removeTemp(tmpName)
		return fmt.Errorf("failed to gob encode to file %s: %w", filePath, err)
	}
	if err := tmp.Close(); err != nil {
		removeTemp(tmpName)
		return fmt.Errorf("failed to close temp file for %s: %w", filePath, err)
	}
	if err := os.Rename(tmpName, filePath); err != nil {
		removeTemp(tmpName)
		return fmt.Errorf("failed to move temp file into place for %s: %w", filePath, err)
	}
	return nil
}

func removeTemp(tmpName string) {
	if err := os.Remove(tmpName); err != nil {
		log.Warnf("failed to remove temp file %s: %v", tmpName, err)
	}
}

// LoadGob decodes a gob-encoded file from filePath into the provided object
// pointer. The object must be a pointer to the type that was originally
// encoded. If the file does not exist, it returns os.ErrNotExist, allowing
// callers to handle fresh starts gracefully.
func LoadGob(filePath string, objectPointer interface{}) error {
	file, err := os.Open(filePath) // #nosec G304 -- filePath is controlled by application, not user input
	if err != nil {
		if os.IsNotExist(err) {
			return os.ErrNotExist
		}
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Warnf("failed to close file %s: %v", filePath, closeErr)
		}
	}()

	if err := gob.NewDecoder(file).Decode(objectPointer); err != nil {
		return fmt.Errorf("failed to gob decode from file %s: %w", filePath, err)
	}
	return nil
}

// Remove deletes a persisted file. A file that is already gone is not an
// error; invalidating a join result that was never persisted is a no-op.
func Remove(filePath string) error {
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file %s: %w", filePath, err)
	}
	return nil
}
