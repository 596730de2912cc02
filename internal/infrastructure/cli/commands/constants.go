package commands

const (
	// DefaultHistoryLimit bounds `history list` when --limit is not given.
	DefaultHistoryLimit = 20
)
