package repository

import (
	"errors"

	"github.com/reshetovitsme/keyword-monitor/internal/modules/audit/domain"
)

// MultiSink fans a record out to every sink. A failing sink does not stop the others.
type MultiSink struct {
	sinks []domain.Sink
}

// NewMultiSink drops nil sinks.
func NewMultiSink(sinks ...domain.Sink) *MultiSink {
	m := &MultiSink{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

func (m *MultiSink) Append(rec domain.Record) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Append(rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of sinks.
func (m *MultiSink) Len() int {
	return len(m.sinks)
}
