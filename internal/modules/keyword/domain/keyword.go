package domain

import (
	"regexp"
	"strings"
)

// wordChar matches anything that may be part of a word, Unicode-aware.
const wordChar = `\p{L}\p{M}\p{N}_`

// Entry is a single keyword and the alias reported when it matches.
type Entry struct {
	Pattern string
	Alias   string
}

// Table is an immutable keyword lookup structure for one monitor group.
// Entries are scanned in insertion (file) order, so the first match is deterministic.
type Table struct {
	entries  []Entry
	matchers []*regexp.Regexp
	excluded []string
	mode     MatchMode
}

// NewTable builds a table. Patterns and excluded terms are folded to lower case.
func NewTable(entries []Entry, excluded []string, mode MatchMode) *Table {
	if !mode.IsValid() {
		mode = MatchModeWholeWord
	}

	t := &Table{
		entries: make([]Entry, 0, len(entries)),
		mode:    mode,
	}

	for _, e := range entries {
		pattern := strings.ToLower(strings.TrimSpace(e.Pattern))
		if pattern == "" {
			continue
		}
		alias := strings.TrimSpace(e.Alias)
		if alias == "" {
			alias = pattern
		}
		t.entries = append(t.entries, Entry{Pattern: pattern, Alias: alias})
		if mode == MatchModeWholeWord {
			t.matchers = append(t.matchers, wholeWord(pattern))
		}
	}

	for _, term := range excluded {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			t.excluded = append(t.excluded, term)
		}
	}

	return t
}

// WithExcluded returns a copy of the table that uses the given excluded terms.
func (t *Table) WithExcluded(excluded []string) *Table {
	return NewTable(t.Entries(), excluded, t.Mode())
}

// EmptyTable returns a table that never matches.
func EmptyTable(mode MatchMode) *Table {
	return NewTable(nil, nil, mode)
}

// FindFirst returns the alias of the first entry found in text.
// Any excluded term contained in the text vetoes every candidate.
func (t *Table) FindFirst(text string) (string, bool) {
	if t == nil || len(t.entries) == 0 || strings.TrimSpace(text) == "" {
		return "", false
	}

	lower := strings.ToLower(text)
	for _, term := range t.excluded {
		if strings.Contains(lower, term) {
			return "", false
		}
	}

	for i, e := range t.entries {
		if t.mode == MatchModeWholeWord {
			if t.matchers[i].MatchString(text) {
				return e.Alias, true
			}
			continue
		}
		if strings.Contains(lower, e.Pattern) {
			return e.Alias, true
		}
	}

	return "", false
}

// Len returns the number of keywords.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// ExcludedLen returns the number of excluded terms.
func (t *Table) ExcludedLen() int {
	if t == nil {
		return 0
	}
	return len(t.excluded)
}

// Mode returns the active match mode.
func (t *Table) Mode() MatchMode {
	if t == nil {
		return MatchModeWholeWord
	}
	return t.mode
}

// Entries returns a copy of the table entries.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// wholeWord compiles a case-insensitive matcher for pattern that refuses
// to match when the pattern is glued to another letter, digit or underscore.
// RE2's \b is ASCII-only, which breaks on Cyrillic keywords.
func wholeWord(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^` + wordChar + `])` + regexp.QuoteMeta(pattern) + `(?:$|[^` + wordChar + `])`)
}
