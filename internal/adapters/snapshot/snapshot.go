// Package snapshot persists the catalog's source-of-truth JSON document and
// bundles a seed copy into the binary for the read path's last-resort fallback
package snapshot

import (
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"

	"progdex/internal/core/catalog"
	perr "progdex/internal/platform/errors"
)

//go:embed seed.json
var seedJSON []byte

// Seed returns the bundled snapshot compiled into the binary. An unreadable
// bundle is a build defect: callers should fail construction on it instead
// of retrying per read
func Seed() (catalog.Snapshot, error) {
	return decode(seedJSON)
}

// Load reads and validates the snapshot document at path
func Load(path string) (catalog.Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return catalog.Snapshot{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "snapshot read %s", path)
	}
	return decode(b)
}

func decode(b []byte) (catalog.Snapshot, error) {
	var s catalog.Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return catalog.Snapshot{}, perr.Wrapf(err, perr.ErrorCodeJSON, "snapshot decode")
	}
	if err := s.Validate(); err != nil {
		return catalog.Snapshot{}, err
	}
	return s, nil
}

// Save writes the document atomically: temp file in the same directory,
// fsync, rename over path. A failed save leaves the prior document untouched
func Save(path string, s catalog.Snapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "snapshot encode")
	}
	return writeAtomic(path, b)
}

// SaveLog overwrites the discovery log document beside the snapshot
func SaveLog(path string, l catalog.DiscoveryLog) error {
	b, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "discovery log encode")
	}
	return writeAtomic(path, b)
}

// LoadLog reads the most recent discovery log, if one exists
func LoadLog(path string) (catalog.DiscoveryLog, error) {
	var l catalog.DiscoveryLog
	b, err := os.ReadFile(path)
	if err != nil {
		return l, perr.Wrapf(err, perr.ErrorCodeUnavailable, "discovery log read %s", path)
	}
	if err := json.Unmarshal(b, &l); err != nil {
		return l, perr.Wrapf(err, perr.ErrorCodeJSON, "discovery log decode")
	}
	return l, nil
}

func writeAtomic(path string, b []byte) error {
	_ = os.MkdirAll(filepath.Dir(path), 0o755)

	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
