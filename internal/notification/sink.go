package notification

import (
	"context"

	"github.com/clipstream-labs/clipstream/backend/internal/logger"
)

// LogSink is a Sink that only logs events. It stands in for the real
// service in development and when notifications are disabled.
type LogSink struct {
	logger logger.Logger
}

// NewLogSink creates a sink that writes events to the log
func NewLogSink(logger logger.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Publish(ctx context.Context, event *Event) error {
	s.logger.LogInfo("engagement event", map[string]interface{}{
		"type":      string(event.Type),
		"actor":     event.ActorID.String(),
		"recipient": event.RecipientID.String(),
	})
	return nil
}
