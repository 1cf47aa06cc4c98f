package store

import (
	"fmt"

	"ai_page_builder/generator"
)

// Store persists generated pages: artifacts, the build counter and the
// error log.
type Store struct {
	Builds  *Builds
	Counter *Counter
	Errors  *ErrorLog
}

func New(buildsDir, counterPath, errorLogPath string) *Store {
	return &Store{
		Builds:  NewBuilds(buildsDir),
		Counter: NewCounter(counterPath),
		Errors:  NewErrorLog(errorLogPath),
	}
}

// Persist writes every document of out and returns their links in write
// order. The counter is bumped before names are composed. A failed write
// stops the loop; files already written stay on disk.
func (s *Store) Persist(out generator.Output) ([]string, error) {
	if err := s.Builds.Ensure(); err != nil {
		return nil, fmt.Errorf("create builds dir: %w", err)
	}
	n, err := s.Counter.Next()
	if err != nil {
		return nil, fmt.Errorf("bump build counter: %w", err)
	}

	if out.Kind == generator.OutputSingle {
		link, err := s.Builds.Write(SingleName(n), out.HTML)
		if err != nil {
			return nil, err
		}
		return []string{link}, nil
	}

	links := make([]string, 0, len(out.Files))
	for _, f := range out.Files {
		link, err := s.Builds.Write(FileName(n, f.Title), f.Content)
		if err != nil {
			return links, err
		}
		links = append(links, link)
	}
	return links, nil
}
