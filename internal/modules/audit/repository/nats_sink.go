package repository

import (
	"encoding/json"

	"github.com/reshetovitsme/keyword-monitor/internal/modules/audit/domain"
	"github.com/samber/oops"
)

// Publisher is the subset of *nats.Conn used by NATSSink.
type Publisher interface {
	Publish(subj string, data []byte) error
}

// NATSSink publishes each audit record as JSON to a subject.
// The connection is owned by the caller and is not closed here.
type NATSSink struct {
	pub     Publisher
	subject string
}

func NewNATSSink(pub Publisher, subject string) *NATSSink {
	return &NATSSink{pub: pub, subject: subject}
}

func (s *NATSSink) Append(rec domain.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return oops.With("subject", s.subject, "context", "failed to marshal audit record").Wrap(err)
	}
	if err := s.pub.Publish(s.subject, data); err != nil {
		return oops.With("subject", s.subject, "chat_id", rec.ChatID, "message_id", rec.MessageID, "context", "failed to publish audit record").Wrap(err)
	}
	return nil
}

func (s *NATSSink) Close() error {
	return nil
}
