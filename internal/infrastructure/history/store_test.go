package history

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okzu/shellm/internal/domain"
	"github.com/okzu/shellm/internal/ports"
)

func sqliteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func record(request, command string, at time.Time) domain.HistoryRecord {
	return domain.HistoryRecord{
		Timestamp:   at,
		Request:     request,
		Command:     command,
		Explanation: "does things",
		Model:       "scripted",
		Executed:    true,
		RiskLevel:   domain.RiskSafe,
		DurationMS:  12,
	}
}

func runStoreContract(t *testing.T, store ports.HistoryStore) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	seed := []domain.HistoryRecord{
		record("list files", "ls -la", base),
		record("disk usage", "df -h", base.Add(time.Minute)),
		record("docker containers", "docker ps", base.Add(2*time.Minute)),
	}
	for _, rec := range seed {
		if err := store.Save(rec); err != nil {
			t.Fatalf("Save error: %v", err)
		}
	}

	all, err := store.Records(0, "")
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d records, want 3", len(all))
	}
	if all[0].Command != "docker ps" {
		t.Errorf("newest first expected, got %q first", all[0].Command)
	}
	for _, rec := range all {
		if rec.ID == "" {
			t.Error("record saved without an id")
		}
	}

	limited, err := store.Records(2, "")
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limit ignored: got %d records", len(limited))
	}

	found, err := store.Records(0, "docker")
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(found) != 1 || found[0].Command != "docker ps" {
		t.Errorf("search mismatch: %+v", found)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	empty, err := store.Records(0, "")
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty store after Clear, got %d", len(empty))
	}
}

func TestSQLiteStoreContract(t *testing.T) {
	runStoreContract(t, sqliteStore(t))
}

func TestFileStoreContract(t *testing.T) {
	runStoreContract(t, NewFileStore(filepath.Join(t.TempDir(), "history.jsonl")))
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(record("list files", "ls", time.Now())); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	records, err := reopened.Records(0, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records after reopen, want 1", len(records))
	}
}

func TestExportJSONWritesOneObjectPerLine(t *testing.T) {
	store := sqliteStore(t)
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for i, cmd := range []string{"ls", "pwd"} {
		if err := store.Save(record("r", cmd, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatal(err)
		}
	}

	dest := filepath.Join(t.TempDir(), "export.jsonl")
	if err := store.ExportJSON(dest); err != nil {
		t.Fatalf("ExportJSON error: %v", err)
	}

	file, err := os.Open(dest)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	lines := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var rec domain.HistoryRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", lines+1, err)
		}
		lines++
	}
	if lines != 2 {
		t.Fatalf("exported %d lines, want 2", lines)
	}
}
