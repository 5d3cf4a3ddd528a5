package broker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const snapshotFileName = "rates.json"

// Cache persists the rate table between process runs
type Cache interface {
	// Load returns the persisted table. An absent or corrupt snapshot yields
	// a zero table, never an error
	Load() RateTable
	Save(RateTable) error
}

var _ Cache = (*FileCache)(nil)

// NewFileCache returns a cache that keeps one JSON snapshot per directory
func NewFileCache(dir string) *FileCache {
	return &FileCache{dir: dir}
}

type FileCache struct {
	dir string
}

func (c *FileCache) Load() RateTable {
	b, err := os.ReadFile(filepath.Join(c.dir, snapshotFileName))
	if err != nil {
		return RateTable{}
	}

	var table RateTable
	if err := json.Unmarshal(b, &table); err != nil {
		return RateTable{}
	}

	for _, rate := range table.Rates {
		if rate <= 0 {
			return RateTable{}
		}
	}

	return table
}

// Save writes the snapshot next to its final location and renames it, a crash
// mid-write cannot corrupt the previous snapshot
func (c *FileCache) Save(table RateTable) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", c.dir, err)
	}

	b, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, snapshotFileName+".*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write temp snapshot: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("sync temp snapshot: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(c.dir, snapshotFileName)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename snapshot: %w", err)
	}

	return nil
}

type nopCache struct{}

func (nopCache) Load() RateTable      { return RateTable{} }
func (nopCache) Save(RateTable) error { return nil }
