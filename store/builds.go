package store

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// LinkPrefix is the URL path the builds directory is served under.
const LinkPrefix = "/builds/"

var (
	ErrNoBuilds         = errors.New("no builds available")
	ErrBuildsDirMissing = errors.New("builds directory not found")
)

var unsafeNameRe = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// WriteError reports the artifact that could not be written.
type WriteError struct {
	Name string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Name, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Builds is the directory holding generated pages.
type Builds struct {
	dir string
}

func NewBuilds(dir string) *Builds {
	return &Builds{dir: dir}
}

func (b *Builds) Dir() string {
	return b.dir
}

func (b *Builds) Ensure() error {
	return os.MkdirAll(b.dir, 0o775)
}

// Write stores content under name and returns its link.
func (b *Builds) Write(name, content string) (string, error) {
	if err := os.WriteFile(filepath.Join(b.dir, name), []byte(content), 0o644); err != nil {
		return "", &WriteError{Name: name, Err: err}
	}
	return Link(name), nil
}

// List returns the names of the .html artifacts.
func (b *Builds) List() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrBuildsDirMissing
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), ".html") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Random returns the link of an artifact picked uniformly at random.
func (b *Builds) Random() (string, error) {
	names, err := b.List()
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", ErrNoBuilds
	}
	return Link(names[rand.Intn(len(names))]), nil
}

func Link(name string) string {
	return LinkPrefix + name
}

// SingleName names the artifact of a single-document build.
func SingleName(n int) string {
	return fmt.Sprintf("build_%d.html", n)
}

// FileName names one artifact of a multi-file build. The title is reduced to
// a safe base name.
func FileName(n int, title string) string {
	return fmt.Sprintf("build_%d_%s", n, sanitizeTitle(title))
}

func sanitizeTitle(title string) string {
	t := path.Base(strings.ReplaceAll(strings.TrimSpace(title), `\`, "/"))
	t = unsafeNameRe.ReplaceAllString(t, "_")
	t = strings.TrimLeft(t, ".")
	if t == "" || t == "_" {
		return "index.html"
	}
	return t
}
