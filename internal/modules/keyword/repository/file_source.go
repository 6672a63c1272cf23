package repository

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/reshetovitsme/keyword-monitor/internal/modules/keyword/domain"
	"github.com/reshetovitsme/keyword-monitor/internal/shared/errors"
	"github.com/samber/oops"
)

// aliasSeparators are tried in order; the first one present splits the line.
var aliasSeparators = []string{"|", ":", ","}

// FileSource reads keyword tables from line-oriented text files.
type FileSource struct{}

// NewFileSource creates a new file-based keyword repository
func NewFileSource() Repository {
	return &FileSource{}
}

// LoadTable reads one keyword per line with an optional alias after a separator.
// On failure the caller is expected to log and continue with an empty table.
func (s *FileSource) LoadTable(path string, mode domain.MatchMode) (*domain.Table, error) {
	entries, err := s.readLines(path, ParseEntry)
	if err != nil {
		return domain.EmptyTable(mode), err
	}
	return domain.NewTable(entries, nil, mode), nil
}

func (s *FileSource) LoadExcluded(path string) ([]string, error) {
	terms, err := s.readLines(path, func(line string) (domain.Entry, bool) {
		return domain.Entry{Pattern: strings.ToLower(line)}, true
	})
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(terms))
	for _, t := range terms {
		out = append(out, t.Pattern)
	}
	return out, nil
}

func (s *FileSource) readLines(path string, parse func(string) (domain.Entry, bool)) ([]domain.Entry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, oops.With("path", path, "context", "keyword file path is empty").Wrap(errors.ErrConfig)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, oops.With("path", path, "context", "failed to open keyword file", "cause", err.Error()).Wrap(errors.ErrConfig)
	}
	defer f.Close()

	// bufio.Reader has no line length cap, so one oversized line cannot
	// fail the whole file.
	var entries []domain.Entry
	r := bufio.NewReader(f)
	first := true
	for {
		line, err := r.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, oops.With("path", path, "context", "failed to read keyword file", "cause", err.Error()).Wrap(errors.ErrConfig)
		}
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		if line = strings.TrimSpace(line); line != "" && !strings.HasPrefix(line, "#") {
			if e, ok := parse(line); ok {
				entries = append(entries, e)
			}
		}
		if err == io.EOF {
			break
		}
	}

	return entries, nil
}

// ParseEntry splits a keyword line into pattern and alias.
func ParseEntry(line string) (domain.Entry, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return domain.Entry{}, false
	}

	pattern, alias := line, ""
	for _, sep := range aliasSeparators {
		if k, a, found := strings.Cut(line, sep); found {
			pattern, alias = k, a
			break
		}
	}

	pattern = strings.ToLower(strings.TrimSpace(pattern))
	alias = strings.TrimSpace(alias)
	if pattern == "" {
		return domain.Entry{}, false
	}
	if alias == "" {
		alias = pattern
	}

	return domain.Entry{Pattern: pattern, Alias: alias}, true
}
