package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source enumerates and fetches raw corpus records.
type Source interface {
	// Name identifies the source in logs and cache keys.
	Name() string

	// List returns the record keys available at the source.
	List(ctx context.Context) ([]string, error)

	// Fetch returns the raw bytes of one record.
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// RecordExt is the file extension of corpus records.
const RecordExt = ".txt"

// recordKeys keeps record keys only and sorts them so that shuffling
// downstream is reproducible for a given seed.
func recordKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if strings.HasSuffix(strings.ToLower(k), RecordExt) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// DirSource reads records from a local folder.
type DirSource struct {
	dir string
}

var _ Source = (*DirSource)(nil)

// NewDirSource creates a source over dir. The folder is not checked until List.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (s *DirSource) Name() string {
	return "dir:" + s.dir
}

func (s *DirSource) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var keys []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			keys = append(keys, e.Name())
		}
	}
	return keys, nil
}

func (s *DirSource) Fetch(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(s.dir, filepath.Base(key)))
}
