package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"progdex/internal/core/catalog"
	perr "progdex/internal/platform/errors"
)

func sampleLog() catalog.DiscoveryLog {
	return catalog.DiscoveryLog{
		RunID:     "run-0",
		StartedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Queries:   []string{"solana program"},
	}
}

func sampleSnapshot() catalog.Snapshot {
	return catalog.NewSnapshot(
		time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		[]string{"solana program"},
		[]catalog.ProgramRecord{
			{
				FullName:      "acme/widget",
				Owner:         "acme",
				Name:          "widget",
				URL:           "https://github.com/acme/widget",
				Stars:         10,
				DefaultBranch: "main",
				Category:      catalog.CategoryInfrastructure,
				SubCategory:   "SDK",
			},
		},
	)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	want := sampleSnapshot()

	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.TotalRepos != 1 || len(got.Repos) != 1 || got.Repos[0].FullName != "acme/widget" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !got.ScrapedAt.Equal(want.ScrapedAt) {
		t.Fatalf("scraped_at mismatch: %v vs %v", got.ScrapedAt, want.ScrapedAt)
	}

	// no temp residue after a successful save
	if _, err := os.Stat(path + ".part"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestSave_RejectsCorruptAndKeepsPrior(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	good := sampleSnapshot()
	if err := Save(path, good); err != nil {
		t.Fatalf("save: %v", err)
	}

	bad := good
	bad.TotalRepos = 42
	if err := Save(path, bad); err == nil {
		t.Fatal("corrupt snapshot accepted by Save")
	}

	// prior document untouched
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load after failed save: %v", err)
	}
	if got.TotalRepos != 1 {
		t.Fatalf("prior document damaged: %+v", got)
	}
}

func TestLoad_Rejections(t *testing.T) {
	dir := t.TempDir()

	// missing file
	if _, err := Load(filepath.Join(dir, "absent.json")); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("missing file: expected unavailable, got %v", err)
	}

	// invalid json
	broken := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(broken, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(broken); !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("broken json: expected json code, got %v", err)
	}

	// count invariant violated
	corrupt := filepath.Join(dir, "corrupt.json")
	if err := os.WriteFile(corrupt, []byte(`{"scraped_at":"2025-01-01T00:00:00Z","total_repos":5,"keywords_searched":[],"repos":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(corrupt); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("corrupt count: expected invalid argument, got %v", err)
	}
}

func TestSeed_ValidAndUsable(t *testing.T) {
	s, err := Seed()
	if err != nil {
		t.Fatalf("bundled seed unreadable: %v", err)
	}
	if len(s.Repos) == 0 {
		t.Fatal("bundled seed is empty")
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("bundled seed invalid: %v", err)
	}
	for _, r := range s.Repos {
		if !r.ValidIdentity() {
			t.Fatalf("seed record with bad identity: %+v", r)
		}
		if !r.Category.Valid() {
			t.Fatalf("seed record with unknown category: %+v", r)
		}
	}
}

func TestDiscoveryLogRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "discovery.json")
	want := catalog.DiscoveryLog{
		RunID:     "run-1",
		StartedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Queries:   []string{"solana program stars:>10"},
		Added:     3,
		Updated:   1,
		Skipped:   1,
		Errors:    []string{"search page 4: rate limited"},
	}

	if err := SaveLog(path, want); err != nil {
		t.Fatalf("save log: %v", err)
	}
	got, err := LoadLog(path)
	if err != nil {
		t.Fatalf("load log: %v", err)
	}
	if got.RunID != want.RunID || got.Added != 3 || len(got.Errors) != 1 {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	// a second run's log fully replaces the first
	second := want
	second.RunID = "run-2"
	second.Errors = nil
	if err := SaveLog(path, second); err != nil {
		t.Fatalf("save second log: %v", err)
	}
	got, err = LoadLog(path)
	if err != nil {
		t.Fatalf("load second log: %v", err)
	}
	if got.RunID != "run-2" || len(got.Errors) != 0 {
		t.Fatalf("log not overwritten: %+v", got)
	}
}
