package domain

import "time"

// HistoryRecord captures one resolved request for the query history store.
type HistoryRecord struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Request     string    `json:"request"`
	Command     string    `json:"command"`
	Explanation string    `json:"explanation"`
	Model       string    `json:"model"`
	Executed    bool      `json:"executed"`
	ExitCode    int       `json:"exit_code"`
	TimedOut    bool      `json:"timed_out"`
	RiskLevel   RiskLevel `json:"risk_level"`
	DurationMS  int64     `json:"duration_ms"`
}

// CacheEntry stores one cached provider reply, keyed by the prompt digest.
type CacheEntry struct {
	Key       string    `json:"key"`
	Model     string    `json:"model"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
