// Package history persists applied themes as an append-only JSONL log.
package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmylchreest/themey/internal/model"
)

// SchemaVersion is the current history schema version.
const SchemaVersion = 1

// schemaHeader is the first line of the JSONL file.
type schemaHeader struct {
	ThemeySchemaVersion int   `json:"themey_schema_version"`
	CreatedAt           int64 `json:"created_at"`
}

// ErrClosed is returned when operations are attempted on a closed log.
var ErrClosed = errors.New("history log is closed")

// Log is a JSONL file of model.AppliedRecord entries.
type Log struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	logger *slog.Logger
	closed bool
}

// Open opens the log at path, creating it (and its directory) if needed.
func Open(path string, logger *slog.Logger) (*Log, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}

	l := &Log{path: path, file: file, logger: logger}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.Size() == 0 {
		if err := l.writeHeader(); err != nil {
			file.Close()
			return nil, err
		}
	}

	return l, nil
}

// Path returns the file backing the log.
func (l *Log) Path() string {
	return l.path
}

func (l *Log) writeHeader() error {
	data, err := json.Marshal(schemaHeader{
		ThemeySchemaVersion: SchemaVersion,
		CreatedAt:           time.Now().Unix(),
	})
	if err != nil {
		return err
	}
	_, err = l.file.Write(append(data, '\n'))
	return err
}

// Record appends r to the log. Implements apply.Recorder.
func (l *Log) Record(r model.AppliedRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if _, err := l.file.Write(append(data, '\n')); err != nil {
		return err
	}
	return l.file.Sync()
}

// Load returns every record, oldest first. Malformed lines are skipped.
func (l *Log) Load() ([]model.AppliedRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, ErrClosed
	}

	if _, err := l.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek %s: %w", l.path, err)
	}
	defer l.file.Seek(0, io.SeekEnd)

	return readRecords(l.file, l.path, l.logger)
}

// ReadFile returns every record in the log at path without creating or
// modifying it. A missing file yields no records.
func ReadFile(path string, logger *slog.Logger) ([]model.AppliedRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return readRecords(f, path, logger)
}

func readRecords(r io.Reader, path string, logger *slog.Logger) ([]model.AppliedRecord, error) {
	var records []model.AppliedRecord
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		if lineNum == 1 {
			var header schemaHeader
			if err := json.Unmarshal(line, &header); err == nil && header.ThemeySchemaVersion > 0 {
				if header.ThemeySchemaVersion > SchemaVersion {
					return nil, fmt.Errorf("unsupported schema version %d (max: %d)",
						header.ThemeySchemaVersion, SchemaVersion)
				}
				continue
			}
		}

		var rec model.AppliedRecord
		if err := json.Unmarshal(line, &rec); err != nil || rec.ID == "" {
			logger.Debug("skipping malformed history line", "path", path, "line", lineNum)
			continue
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("error reading file: %w", err)
	}
	return records, nil
}

// Recent returns up to n records, newest first. n <= 0 returns all.
func (l *Log) Recent(n int) ([]model.AppliedRecord, error) {
	records, err := l.Load()
	if err != nil {
		return nil, err
	}
	return Newest(records, n), nil
}

// Newest returns up to n of records in reverse order. n <= 0 returns all.
func Newest(records []model.AppliedRecord, n int) []model.AppliedRecord {
	out := make([]model.AppliedRecord, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		out = append(out, records[i])
		if n > 0 && len(out) == n {
			break
		}
	}
	return out
}

// Last returns the most recent record, or nil if the log is empty.
func (l *Log) Last() (*model.AppliedRecord, error) {
	recent, err := l.Recent(1)
	if err != nil || len(recent) == 0 {
		return nil, err
	}
	return &recent[0], nil
}

// Clear truncates the log, keeping only a fresh header.
func (l *Log) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}

	if err := l.file.Truncate(0); err != nil {
		return err
	}
	if _, err := l.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := l.writeHeader(); err != nil {
		return err
	}
	return l.file.Sync()
}

// Close releases the file handle.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	return l.file.Close()
}
