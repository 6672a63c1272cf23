package repository

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/reshetovitsme/keyword-monitor/internal/modules/audit/domain"
	"github.com/samber/oops"
)

// TimestampLayout renders UTC as +00:00, second precision.
const TimestampLayout = "2006-01-02T15:04:05-07:00"

// Header is written once, when the file is created.
var Header = []string{"datetime_utc", "chat_id", "message_id", "text"}

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// FileStorage implements Repository as an append-only CSV file
type FileStorage struct {
	path string
	mu   sync.RWMutex
}

// NewFileStorage creates a CSV audit log at path, creating parent directories.
func NewFileStorage(path string) (*FileStorage, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, oops.With("path", path, "context", "failed to create audit directory").Wrap(err)
		}
	}
	return &FileStorage{path: path}, nil
}

// Path returns the file location.
func (s *FileStorage) Path() string {
	return s.path
}

// Append writes rec as one CSV row. The row is encoded first and written
// with a single call so concurrent appends never interleave.
func (s *FileStorage) Append(rec domain.Record) error {
	row := []string{
		rec.Timestamp.UTC().Format(TimestampLayout),
		strconv.FormatInt(rec.ChatID, 10),
		strconv.FormatInt(rec.MessageID, 10),
		newlines.Replace(rec.Text),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return oops.With("path", s.path, "context", "failed to open audit file").Wrap(err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return oops.With("path", s.path, "context", "failed to stat audit file").Wrap(err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if info.Size() == 0 {
		if err := w.Write(Header); err != nil {
			return oops.With("path", s.path, "context", "failed to encode audit header").Wrap(err)
		}
	}
	if err := w.Write(row); err != nil {
		return oops.With("path", s.path, "chat_id", rec.ChatID, "message_id", rec.MessageID, "context", "failed to encode audit record").Wrap(err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return oops.With("path", s.path, "context", "failed to encode audit record").Wrap(err)
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		return oops.With("path", s.path, "chat_id", rec.ChatID, "message_id", rec.MessageID, "context", "failed to write audit record").Wrap(err)
	}
	return nil
}

// Recent returns up to limit records, newest first. Malformed rows are skipped.
func (s *FileStorage) Recent(limit int) ([]domain.Record, error) {
	if limit <= 0 {
		return []domain.Record{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Record{}, nil
		}
		return nil, oops.With("path", s.path, "context", "failed to open audit file").Wrap(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	// ring keeps only the last limit records in memory
	ring := make([]domain.Record, 0, limit)
	next := 0
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			return nil, oops.With("path", s.path, "context", "failed to read audit file").Wrap(err)
		}

		rec, ok := parseRow(fields)
		if !ok {
			continue
		}
		if len(ring) < limit {
			ring = append(ring, rec)
		} else {
			ring[next] = rec
		}
		next = (next + 1) % limit
	}

	out := make([]domain.Record, 0, len(ring))
	for i := 0; i < len(ring); i++ {
		idx := (next - 1 - i + len(ring)) % len(ring)
		out = append(out, ring[idx])
	}
	return out, nil
}

// Close is a no-op; the file is opened per append.
func (s *FileStorage) Close() error {
	return nil
}

func parseRow(fields []string) (domain.Record, bool) {
	if len(fields) != len(Header) || fields[0] == Header[0] {
		return domain.Record{}, false
	}

	ts, err := time.Parse(time.RFC3339, fields[0])
	if err != nil {
		return domain.Record{}, false
	}
	chatID, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return domain.Record{}, false
	}
	msgID, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return domain.Record{}, false
	}

	return domain.Record{
		Timestamp: ts.UTC(),
		ChatID:    chatID,
		MessageID: msgID,
		Text:      fields[3],
	}, true
}
