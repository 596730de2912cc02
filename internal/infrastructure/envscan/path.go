package envscan

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// scanPath walks every directory on PATH and returns the deduplicated,
// sorted names of executables found there, capped at max entries. Unreadable
// directories are routine on PATH and are skipped silently.
func scanPath(ctx context.Context, ignore *ignoreSet, max int) ([]string, error) {
	seen := make(map[string]struct{})
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if strings.HasPrefix(name, ".") {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			if ignore.Has(name) {
				continue
			}
			if !isExecutable(dir, entry) {
				continue
			}
			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	if max > 0 && len(names) > max {
		names = names[:max]
	}
	return names, nil
}

func isExecutable(dir string, entry os.DirEntry) bool {
	if entry.IsDir() {
		return false
	}
	info, err := entry.Info()
	if err != nil {
		return false
	}
	if info.Mode()&os.ModeSymlink != 0 {
		resolved, err := os.Stat(filepath.Join(dir, entry.Name()))
		if err != nil || resolved.IsDir() {
			return false
		}
		info = resolved
	}
	return info.Mode().Perm()&0o111 != 0
}
