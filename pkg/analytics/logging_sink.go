package analytics

import (
	"context"

	"github.com/gomind-search/pipeline/pkg/logger"
)

// LoggingSink records every event through the structured logger. It is the
// default Sink: a standalone pipeline module has no product-metrics backend
// of its own, so observability consumers get events as structured log lines
// until a real Sink (a Segment/PostHog/warehouse client) is wired in by the
// host application.
type LoggingSink struct {
	logger logger.Logger
}

// NewLoggingSink builds a Sink that logs every tracked event at Info level.
func NewLoggingSink(log logger.Logger) *LoggingSink {
	if log == nil {
		log = logger.NewDefaultLogger()
	}
	return &LoggingSink{logger: log}
}

func (s *LoggingSink) Track(ctx context.Context, event Event) error {
	fields := map[string]interface{}{
		"distinct_id": event.DistinctID,
	}
	for k, v := range event.Properties {
		fields[k] = v
	}
	for k, v := range event.Groups {
		fields["group_"+k] = v
	}

	s.logger.Info("analytics event: "+event.Name, fields)
	return nil
}
