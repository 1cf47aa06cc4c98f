package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// Counter is the build number kept in a plaintext side file. Increments are
// serialized within the process only.
type Counter struct {
	path string
	mu   sync.Mutex
}

func NewCounter(path string) *Counter {
	return &Counter{path: path}
}

// Current returns the stored value. A missing or garbled file reads as 0.
func (c *Counter) Current() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read()
}

// Next reads, increments and writes back the counter.
func (c *Counter) Next() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, err := c.read()
	if err != nil {
		return 0, err
	}
	n++
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, err
		}
	}
	if err := os.WriteFile(c.path, []byte(strconv.Itoa(n)), 0o644); err != nil {
		return 0, err
	}
	return n, nil
}

func (c *Counter) read() (int, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, nil
	}
	return n, nil
}
