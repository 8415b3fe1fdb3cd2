package metadata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tgsn-co/XPlore/pkg/collector"
	"github.com/tgsn-co/XPlore/pkg/twitter"
)

func TestFromResult(t *testing.T) {
	result := &collector.Result{
		Keyword: "climate change",
		Tweets:  []twitter.Tweet{{ID: "1"}, {ID: "2"}, {ID: "3"}},
		Authors: map[string]twitter.User{"100": {ID: "100"}},
		Pages:   2,
	}

	m := FromResult(result, "TweetsWith_climate change.csv")

	if m.Keyword != "climate change" {
		t.Errorf("Keyword = %q", m.Keyword)
	}
	if m.Tweets != 3 || m.Pages != 2 || m.Authors != 1 {
		t.Errorf("Counts = %d tweets, %d pages, %d authors", m.Tweets, m.Pages, m.Authors)
	}
	if m.Truncated {
		t.Error("Result without a cursor should not be truncated")
	}
	if m.CollectedAt.IsZero() {
		t.Error("CollectedAt not set")
	}

	result.NextToken = "tok-next"
	m = FromResult(result, "out.csv")
	if !m.Truncated || m.NextToken != "tok-next" {
		t.Errorf("Expected truncated manifest carrying the cursor, got %+v", m)
	}
}

func TestSaveLoad(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "TweetsWith_storm.csv")

	m := &Manifest{
		Keyword: "storm",
		CSVFile: "TweetsWith_storm.csv",
		Pages:   4,
		Tweets:  301,
		Authors: 120,
	}

	if err := m.Save(csvPath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !ManifestExists(csvPath) {
		t.Error("Expected manifest to exist")
	}

	loaded, err := Load(csvPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Keyword != "storm" || loaded.Tweets != 301 {
		t.Errorf("Round trip mismatch: %+v", loaded)
	}
}

func TestSummary(t *testing.T) {
	m := &Manifest{Keyword: "storm", Pages: 4, Tweets: 301, Truncated: true}

	s := m.Summary()
	if !strings.Contains(s, `"storm"`) || !strings.Contains(s, "301 tweets") || !strings.Contains(s, "truncated") {
		t.Errorf("Unexpected summary: %s", s)
	}
}

func TestCleanOrphanedManifests(t *testing.T) {
	dir := t.TempDir()

	kept := filepath.Join(dir, "kept.csv")
	if err := os.WriteFile(kept, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"kept.csv.json", "orphan.csv.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	// A plain JSON export is not a manifest and must survive
	if err := os.WriteFile(filepath.Join(dir, "settings.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := CleanOrphanedManifests(dir); err != nil {
		t.Fatalf("CleanOrphanedManifests failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "kept.csv.json")); err != nil {
		t.Error("Manifest with live CSV was removed")
	}
	if _, err := os.Stat(filepath.Join(dir, "orphan.csv.json")); !os.IsNotExist(err) {
		t.Error("Orphaned manifest was not removed")
	}
	if _, err := os.Stat(filepath.Join(dir, "settings.json")); err != nil {
		t.Error("Non-manifest JSON was removed")
	}
}
