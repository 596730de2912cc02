// Package history persists resolved requests. The SQLite store is the
// default backend; the jsonl file store serves as fallback when the
// database cannot be opened.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/okzu/shellm/internal/domain"
	"github.com/okzu/shellm/internal/ports"
)

// SQLiteStore persists history in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &SQLiteStore{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history db %s: %w", path, err)
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS requests (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,
		request TEXT NOT NULL,
		command TEXT NOT NULL,
		explanation TEXT,
		model TEXT,
		executed INTEGER NOT NULL DEFAULT 0,
		exit_code INTEGER NOT NULL DEFAULT 0,
		timed_out INTEGER NOT NULL DEFAULT 0,
		risk_level TEXT,
		duration_ms INTEGER NOT NULL DEFAULT 0
	);`)
	return err
}

// Save inserts one record, filling in the id and timestamp when absent.
func (s *SQLiteStore) Save(record domain.HistoryRecord) error {
	record = withDefaults(record)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO requests
		(id, timestamp, request, command, explanation, model, executed, exit_code, timed_out, risk_level, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Timestamp.Format(time.RFC3339),
		record.Request,
		record.Command,
		record.Explanation,
		record.Model,
		boolToInt(record.Executed),
		record.ExitCode,
		boolToInt(record.TimedOut),
		string(record.RiskLevel),
		record.DurationMS,
	)
	return err
}

// Records returns entries newest first. A non-empty search filters on the
// request text and the command; limit 0 means no limit.
func (s *SQLiteStore) Records(limit int, search string) ([]domain.HistoryRecord, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT id, timestamp, request, command, explanation, model, executed, exit_code, timed_out, risk_level, duration_ms FROM requests`)
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE request LIKE ? OR command LIKE ?")
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	builder.WriteString(" ORDER BY datetime(timestamp) DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.HistoryRecord
	for rows.Next() {
		var rec domain.HistoryRecord
		var ts, risk string
		var executed, timedOut int
		if err := rows.Scan(&rec.ID, &ts, &rec.Request, &rec.Command, &rec.Explanation, &rec.Model,
			&executed, &rec.ExitCode, &timedOut, &risk, &rec.DurationMS); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Executed = executed == 1
		rec.TimedOut = timedOut == 1
		rec.RiskLevel = domain.RiskLevel(risk)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all entries.
func (s *SQLiteStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM requests")
	return err
}

// ExportJSON writes every record to dest as one JSON object per line.
func (s *SQLiteStore) ExportJSON(dest string) error {
	records, err := s.Records(0, "")
	if err != nil {
		return err
	}
	return writeJSONL(dest, records)
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func withDefaults(record domain.HistoryRecord) domain.HistoryRecord {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	return record
}

func writeJSONL(dest string, records []domain.HistoryRecord) error {
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()
	for _, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := file.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.HistoryStore = (*SQLiteStore)(nil)
