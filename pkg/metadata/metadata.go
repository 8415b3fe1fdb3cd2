package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tgsn-co/XPlore/pkg/collector"
)

// Manifest records what a collection run produced, saved beside the CSV
type Manifest struct {
	// What was collected
	Keyword string `json:"keyword"`
	CSVFile string `json:"csv_file"`

	// Result shape
	Pages   int `json:"pages"`
	Tweets  int `json:"tweets"`
	Authors int `json:"authors"`

	// Pagination state
	Truncated bool   `json:"truncated"`
	NextToken string `json:"next_token,omitempty"`

	// Timestamps
	CollectedAt time.Time `json:"collected_at"`
}

// FromResult converts a collection result to a Manifest
func FromResult(result *collector.Result, csvFile string) *Manifest {
	return &Manifest{
		Keyword:     result.Keyword,
		CSVFile:     csvFile,
		Pages:       result.Pages,
		Tweets:      len(result.Tweets),
		Authors:     len(result.Authors),
		Truncated:   result.Truncated(),
		NextToken:   result.NextToken,
		CollectedAt: time.Now(),
	}
}

// Save writes the manifest to a JSON file beside the CSV
func (m *Manifest) Save(csvPath string) error {
	manifestPath := csvPath + ".json"

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest file: %w", err)
	}

	return nil
}

// Load reads a manifest from beside the CSV
func Load(csvPath string) (*Manifest, error) {
	manifestPath := csvPath + ".json"

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}

	return &m, nil
}

// Summary returns a one-line description for display
func (m *Manifest) Summary() string {
	state := "complete"
	if m.Truncated {
		state = "truncated"
	}
	return fmt.Sprintf("%q: %d tweets from %d pages (%s, collected %s)",
		m.Keyword, m.Tweets, m.Pages, state, m.CollectedAt.Format("2006-01-02 15:04"))
}

// ManifestExists checks if a manifest file exists for a CSV
func ManifestExists(csvPath string) bool {
	_, err := os.Stat(csvPath + ".json")
	return err == nil
}

// CleanOrphanedManifests removes manifest files whose CSV is gone
func CleanOrphanedManifests(directory string) error {
	return filepath.Walk(directory, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Check if it's a manifest file
		if filepath.Ext(path) == ".json" && len(path) > 5 {
			csvPath := path[:len(path)-5] // Remove .json extension
			if filepath.Ext(csvPath) != ".csv" {
				return nil
			}

			// Check if the corresponding CSV exists
			if _, err := os.Stat(csvPath); os.IsNotExist(err) {
				if err := os.Remove(path); err != nil {
					return fmt.Errorf("failed to remove orphaned manifest %s: %w", path, err)
				}
			}
		}

		return nil
	})
}
