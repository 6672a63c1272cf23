package repository

import (
	"github.com/reshetovitsme/keyword-monitor/internal/modules/audit/domain"
)

// Repository is an audit sink that can also serve back what it wrote.
// FileStorage implements it; write-only sinks such as NATSSink only satisfy domain.Sink.
type Repository interface {
	domain.Sink
	domain.Reader
}
