package envscan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/okzu/shellm/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})        {}
func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warn(string, map[string]interface{})         {}
func (nopLogger) Error(string, error, map[string]interface{}) {}

func writeExecutable(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
}

func TestCollectGathersCommandsAndWorkingDir(t *testing.T) {
	bin := t.TempDir()
	writeExecutable(t, bin, "kubectl")
	writeExecutable(t, bin, "git")
	if err := os.WriteFile(filepath.Join(bin, "notes.txt"), []byte("plain"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", bin)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HISTFILE", "")

	collector := NewCollector(nopLogger{})
	bundle, err := collector.Collect(context.Background(), domain.ContextRequest{
		IncludeCommands: true,
		IncludeHistory:  true,
	})
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}

	if diff := cmp.Diff([]string{"git", "kubectl"}, bundle.Commands); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
	if len(bundle.History) != 0 {
		t.Errorf("expected empty history without a history file, got %v", bundle.History)
	}
	if bundle.WorkingDir == "" {
		t.Error("expected working directory to be populated")
	}
}

func TestCollectHonorsSectionToggles(t *testing.T) {
	bin := t.TempDir()
	writeExecutable(t, bin, "git")
	t.Setenv("PATH", bin)

	collector := NewCollector(nopLogger{})
	bundle, err := collector.Collect(context.Background(), domain.ContextRequest{})
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if bundle.Commands != nil {
		t.Errorf("commands gathered despite IncludeCommands=false: %v", bundle.Commands)
	}
	if bundle.History != nil {
		t.Errorf("history gathered despite IncludeHistory=false: %v", bundle.History)
	}
}

func TestScanPathCapsSortsAndFilters(t *testing.T) {
	bin := t.TempDir()
	for _, name := range []string{"zebra", "apple", "mango", "cherry"} {
		writeExecutable(t, bin, name)
	}
	writeExecutable(t, bin, ".hidden")
	writeExecutable(t, bin, "echo") // on the ignore list
	t.Setenv("PATH", bin)

	got, err := scanPath(context.Background(), defaultIgnoreSet(), 3)
	if err != nil {
		t.Fatalf("scanPath error: %v", err)
	}
	if diff := cmp.Diff([]string{"apple", "cherry", "mango"}, got); diff != "" {
		t.Errorf("scanPath mismatch (-want +got):\n%s", diff)
	}
}

func TestScanPathDeduplicatesAcrossDirs(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeExecutable(t, first, "tool")
	writeExecutable(t, second, "tool")
	writeExecutable(t, second, "other")
	t.Setenv("PATH", first+string(os.PathListSeparator)+second)

	got, err := scanPath(context.Background(), defaultIgnoreSet(), 0)
	if err != nil {
		t.Fatalf("scanPath error: %v", err)
	}
	if diff := cmp.Diff([]string{"other", "tool"}, got); diff != "" {
		t.Errorf("scanPath mismatch (-want +got):\n%s", diff)
	}
}

func TestScanPathStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := scanPath(ctx, defaultIgnoreSet(), 0); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
