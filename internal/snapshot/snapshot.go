// Package snapshot loads network snapshots from JSON, YAML or SQLite files
// and watches them for changes.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/phanxgames/geonet"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for files whose extension is not one of
// .json, .yml, .yaml, .db, .sqlite.
var ErrUnsupportedFormat = errors.New("unsupported snapshot format")

// Format is a snapshot file encoding.
type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yml", ".yaml":
		return FormatYAML, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
}

// Load reads the snapshot at path.
func Load(path string) (geonet.Snapshot, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return geonet.Snapshot{}, err
	}
	if format == FormatSQLite {
		if _, err := os.Stat(path); err != nil {
			return geonet.Snapshot{}, fmt.Errorf("accessing snapshot %s: %w", path, err)
		}
		db, err := OpenDB(path)
		if err != nil {
			return geonet.Snapshot{}, err
		}
		defer db.Close()
		return db.Read()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return geonet.Snapshot{}, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	return Decode(data, format)
}

// Decode parses an in-memory JSON or YAML snapshot.
func Decode(data []byte, format Format) (geonet.Snapshot, error) {
	var snap geonet.Snapshot
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &snap); err != nil {
			return geonet.Snapshot{}, fmt.Errorf("parsing JSON snapshot: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &snap); err != nil {
			return geonet.Snapshot{}, fmt.Errorf("parsing YAML snapshot: %w", err)
		}
	default:
		return geonet.Snapshot{}, fmt.Errorf("decode %q: %w", format, ErrUnsupportedFormat)
	}
	return snap, nil
}

// Save writes snap to path in the format its extension selects. SQLite
// targets are replaced wholesale.
func Save(path string, snap geonet.Snapshot) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}
	var data []byte
	switch format {
	case FormatSQLite:
		db, err := OpenDB(path)
		if err != nil {
			return err
		}
		defer db.Close()
		return db.Write(snap)
	case FormatJSON:
		data, err = json.MarshalIndent(snap, "", "  ")
	case FormatYAML:
		data, err = yaml.Marshal(snap)
	}
	if err != nil {
		return fmt.Errorf("marshalling snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot to %s: %w", path, err)
	}
	return nil
}
