package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/desertthunder/autoalbum/internal/models"
)

// DefaultSyncConfigName is appended when a sync configuration path names a directory.
const DefaultSyncConfigName = "config.json"

// ResolveSyncConfigPath returns path, or path/config.json when path is an existing directory.
func ResolveSyncConfigPath(path string) string {
	if path == "" {
		path = "."
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, DefaultSyncConfigName)
	}
	return path
}

// LoadSyncConfig reads the JSON sync configuration at path (a file or a directory holding config.json).
func LoadSyncConfig(path string) (*models.SyncConfiguration, error) {
	path = ResolveSyncConfigPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (run `autoalbum configure` first)", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var conf models.SyncConfiguration
	if err := json.Unmarshal(data, &conf); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	return &conf, nil
}

// SaveSyncConfig writes conf as JSON to path, creating parent directories.
//
// The file holds the client secret so it is written with 0600 permissions.
func SaveSyncConfig(path string, conf *models.SyncConfiguration) error {
	path = ResolveSyncConfigPath(path)

	data, err := MarshalJSON(conf, true)
	if err != nil {
		return fmt.Errorf("failed to marshal sync configuration: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// ReadClientSecret loads a client secret JSON file downloaded from the Google API Console.
func ReadClientSecret(path string) (json.RawMessage, error) {
	data, err := VerifyAndReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := ValidateJSON(data); err != nil {
		return nil, err
	}

	return json.RawMessage(data), nil
}
