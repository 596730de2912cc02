package envscan

import (
	_ "embed"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

//go:embed ignore_commands.txt
var ignoreList string

// ignoreSet filters PATH entries that add noise instead of signal: shell
// builtins shadowed by binaries, desktop helpers, and similar. Membership
// goes through a bloom filter; a false positive only drops one harmless
// name from the context section.
type ignoreSet struct {
	filter *bloom.BloomFilter
}

func defaultIgnoreSet() *ignoreSet {
	return newIgnoreSet(parseIgnoreList(ignoreList))
}

func newIgnoreSet(names []string) *ignoreSet {
	n := uint(len(names))
	if n == 0 {
		n = 1
	}
	filter := bloom.NewWithEstimates(n, 0.0001)
	for _, name := range names {
		filter.AddString(name)
	}
	return &ignoreSet{filter: filter}
}

func (s *ignoreSet) Has(name string) bool {
	return s.filter.TestString(name)
}

func parseIgnoreList(raw string) []string {
	var names []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names
}
