package domain

// CommandSuggestion is the validated proposal decoded from a model reply.
// Immutable; consumed exactly once by the orchestrator.
type CommandSuggestion struct {
	Command          string
	Explanation      string
	NeedsMoreContext bool
}

// ExecutionResult wraps the outcome of running an approved command. A
// non-zero exit code is a normal outcome, not a pipeline failure; TimedOut
// marks the distinct killed-on-deadline case with whatever output was
// captured before the kill.
type ExecutionResult struct {
	Ran        bool
	Stdout     string
	Stderr     string
	ExitCode   int
	DurationMS int64
	TimedOut   bool
}

// ExitCodeUnknown is the sentinel used when the process did not run to a
// normal exit (spawn failure or timeout kill).
const ExitCodeUnknown = -1
