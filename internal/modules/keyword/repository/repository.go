package repository

import (
	"github.com/reshetovitsme/keyword-monitor/internal/modules/keyword/domain"
)

// Repository defines where keyword tables and excluded terms come from.
// FileSource is the only implementation; the abstraction lets groups be fed
// from somewhere else without touching the match engine.
type Repository interface {
	LoadTable(path string, mode domain.MatchMode) (*domain.Table, error)
	LoadExcluded(path string) ([]string, error)
}
