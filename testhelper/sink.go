package testhelper

import (
	"context"
	"sync"

	"github.com/clipstream-labs/clipstream/backend/internal/notification"
)

// RecordingSink captures published events so tests can assert on them
type RecordingSink struct {
	mu     sync.Mutex
	events []notification.Event

	// FailWith, when set, is returned from Publish
	FailWith error
}

// NewRecordingSink creates a new recording sink
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

func (s *RecordingSink) Publish(ctx context.Context, event *notification.Event) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, *event)
	return nil
}

// Events returns a copy of the captured events
func (s *RecordingSink) Events() []notification.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notification.Event(nil), s.events...)
}

// EventsOfType returns captured events of the given type
func (s *RecordingSink) EventsOfType(t notification.EventType) []notification.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []notification.Event
	for _, e := range s.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
