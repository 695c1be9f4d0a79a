// Package history persists orchestration results as immutable,
// timestamped snapshot files. The directory is the database: filenames
// embed the generation stamp and sort lexicographically in time order,
// so "the two most recent snapshots" is a directory listing, not a query
// engine.
package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/xu-lang/xubench/internal/models"
	"github.com/xu-lang/xubench/internal/validation"
	"golang.org/x/sync/errgroup"
)

const (
	filePrefix = "bench_"
	fileExt    = ".json"
	gzipExt    = ".json.gz"
)

// InsufficientHistoryError reports that fewer snapshots exist than a
// caller asked for. The regression gate treats this as "skip", never as a
// failed build.
type InsufficientHistoryError struct {
	Have int
	Want int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("insufficient history: have %d snapshot(s), want %d", e.Have, e.Want)
}

// Store is an append-only snapshot store over a directory. Snapshots are
// never mutated or deleted by the pipeline.
type Store struct {
	dir      string
	compress bool
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithCompression makes Save write gzip-compressed snapshots. Load always
// accepts both plain and compressed files.
func WithCompression(enabled bool) StoreOption {
	return func(s *Store) {
		s.compress = enabled
	}
}

// NewStore creates a store over dir.
func NewStore(dir string, opts ...StoreOption) *Store {
	s := &Store{dir: dir}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Dir returns the store's directory.
func (s *Store) Dir() string { return s.dir }

// Save writes a snapshot under its generation stamp and returns the
// location. Two snapshots generated in the same instant share a name;
// the last writer wins in listing order only, content is never merged.
func (s *Store) Save(snap *models.Snapshot) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("creating history directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling snapshot: %w", err)
	}

	name := filePrefix + snap.Stamp() + fileExt
	if s.compress {
		name = filePrefix + snap.Stamp() + gzipExt
		var err error
		if data, err = gzipBytes(data); err != nil {
			return "", fmt.Errorf("compressing snapshot: %w", err)
		}
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}
	return path, nil
}

// List returns snapshot file paths, newest first.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading history directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, filePrefix) &&
			(strings.HasSuffix(name, fileExt) || strings.HasSuffix(name, gzipExt)) {
			names = append(names, name)
		}
	}
	// Stamps sort lexicographically in generation order; newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(s.dir, n)
	}
	return paths, nil
}

// Latest returns the n newest snapshots, newest first. When fewer than n
// exist it returns *InsufficientHistoryError.
func (s *Store) Latest(n int) ([]*models.Snapshot, error) {
	paths, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(paths) < n {
		return nil, &InsufficientHistoryError{Have: len(paths), Want: n}
	}

	// Snapshots load independently; decompression and validation dominate,
	// so load them in parallel and keep newest-first order by index.
	snaps := make([]*models.Snapshot, n)
	var eg errgroup.Group
	for i, path := range paths[:n] {
		eg.Go(func() error {
			snap, err := Load(path)
			if err != nil {
				return err
			}
			snaps[i] = snap
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return snaps, nil
}

// Load reads one snapshot file, transparently decompressing .json.gz.
// The content is schema-validated but deliberately tolerant of cases and
// runtimes absent from the current configuration.
func Load(path string) (*models.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}

	if strings.HasSuffix(path, gzipExt) {
		if data, err = gunzipBytes(data); err != nil {
			return nil, fmt.Errorf("decompressing snapshot %s: %w", path, err)
		}
	}

	if errs := validation.ValidateSnapshotBytes(data); len(errs) > 0 {
		return nil, fmt.Errorf("snapshot %s failed validation: %s", path, strings.Join(errs, "; "))
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}
	return &snap, nil
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gunzipBytes(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close() //nolint:errcheck
	return io.ReadAll(zr)
}
