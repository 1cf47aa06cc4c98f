package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrorEntry is one line of the error log.
type ErrorEntry struct {
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
	Timestamp string         `json:"timestamp"`
}

// ErrorLog appends JSON lines to a file for later diagnostics.
type ErrorLog struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

func NewErrorLog(path string) *ErrorLog {
	return &ErrorLog{path: path, now: time.Now}
}

func (l *ErrorLog) Path() string {
	return l.path
}

func (l *ErrorLog) Append(message string, context map[string]any) error {
	line, err := json.Marshal(ErrorEntry{
		Message:   message,
		Context:   context,
		Timestamp: l.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
