package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/carboncoop/homeenergy/internal/scenario"
)

// IndexFile is the name of the run index written by OutputStore.Close.
const IndexFile = "_index.json"

// ErrEmptyDirectory is returned when an OutputStore has no directory.
var ErrEmptyDirectory = errors.New("output directory cannot be empty")

// IndexEntry summarises one stored scenario.
type IndexEntry struct {
	Name       string  `json:"name"`
	File       string  `json:"file"`
	Error      string  `json:"error,omitempty"`
	DurationMS float64 `json:"duration_ms"`
	SAPRating  float64 `json:"sap_rating"`
}

// OutputStore writes calculated records as JSON files into one directory.
// Files are written to a temporary name and renamed so readers never see a
// partial record. Safe for concurrent use.
type OutputStore struct {
	directory string
	entries   []IndexEntry
	mu        sync.Mutex
}

// NewOutputStore creates directory if needed and returns a store writing into it.
func NewOutputStore(directory string) (*OutputStore, error) {
	if directory == "" {
		return nil, ErrEmptyDirectory
	}
	if err := os.MkdirAll(directory, 0o750); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &OutputStore{directory: directory}, nil
}

// Directory returns the store's directory.
func (s *OutputStore) Directory() string { return s.directory }

// Write stores the record of o and records it in the index.
func (s *OutputStore) Write(o Outcome) error {
	data, err := scenario.Encode(o.Record)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", o.Name, err)
	}

	file := fileName(o.Name)
	if err := writeAtomic(filepath.Join(s.directory, file), data); err != nil {
		return err
	}

	entry := IndexEntry{
		Name:       o.Name,
		File:       file,
		DurationMS: float64(o.Duration.Microseconds()) / 1000,
		SAPRating:  o.Record.Float("SAP", "rating"),
	}
	if o.Err != nil {
		entry.Error = o.Err.Error()
	}

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()
	return nil
}

// Sink returns a Sink writing every outcome of a batch.
func (s *OutputStore) Sink() Sink {
	return func(ctx context.Context, outcomes []Outcome) error {
		for _, o := range outcomes {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.Write(o); err != nil {
				return err
			}
		}
		return nil
	}
}

// Entries returns the index entries written so far, sorted by name.
func (s *OutputStore) Entries() []IndexEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := append([]IndexEntry(nil), s.entries...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Close writes the run index.
func (s *OutputStore) Close() error {
	data, err := json.MarshalIndent(s.Entries(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}
	return writeAtomic(filepath.Join(s.directory, IndexFile), data)
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming %s: %w", path, err)
	}
	return nil
}

// fileName turns a job name into a safe file name.
func fileName(name string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(name)
	if safe == "" {
		safe = "scenario"
	}
	return safe + scenarioFileExtension
}
