package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/wevity-contests/internal/contest"
	"github.com/pfrederiksen/wevity-contests/internal/filter"
)

const resultsFile = "last_results.json"

// ErrNoResults is returned by Load when no search has been saved yet
var ErrNoResults = errors.New("no saved search results; run 'wevity-contests search' first")

// Results is the outcome of the most recent search
type Results struct {
	Keyword    string            `json:"keyword"`
	Window     filter.Window     `json:"window"`
	SearchedAt string            `json:"searched_at"`
	Records    []*contest.Record `json:"records"`
}

// Storage handles the last-results working file
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Path returns the location of the results file
func (s *Storage) Path() string {
	return filepath.Join(s.dataDir, resultsFile)
}

// Load reads the saved results
func (s *Storage) Load() (*Results, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoResults
		}
		return nil, fmt.Errorf("reading results: %w", err)
	}

	var results Results
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("parsing results: %w", err)
	}

	return &results, nil
}

// Save replaces the saved results.
// The file is written to a temporary name first so a failed write keeps the previous results.
func (s *Storage) Save(results *Results) error {
	if results.SearchedAt == "" {
		results.SearchedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if results.Records == nil {
		results.Records = []*contest.Record{}
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}

	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	if err := os.Rename(tmp, s.Path()); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing results: %w", err)
	}

	return nil
}
