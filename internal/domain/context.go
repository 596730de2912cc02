package domain

// ContextBundle is a bounded snapshot of local environment facts. It is built
// at most once per top-level request and never mutated after construction;
// once attached to a prompt the same bundle serves every retry of that
// request.
type ContextBundle struct {
	Commands   []string
	History    []string
	WorkingDir string
}

// Empty reports whether the bundle carries nothing worth rendering.
func (b ContextBundle) Empty() bool {
	return len(b.Commands) == 0 && len(b.History) == 0 && b.WorkingDir == ""
}

// ContextRequest tells the collector which sections to gather and how large
// they may grow. Caps apply after filtering; zero caps fall back to defaults.
type ContextRequest struct {
	IncludeCommands bool
	IncludeHistory  bool
	HistorySize     int
	MaxCommands     int
	MaxHistory      int
}
