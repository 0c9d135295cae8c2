package search

import (
	"context"
	"sync"
	"time"

	"github.com/gomind-search/pipeline/pkg/logger"
	"github.com/gomind-search/pipeline/pkg/pubsub"
)

// eventEmitter assigns monotonic sequence numbers to events and publishes
// them to a single request's pubsub channel. It is the one part of a single
// Execute call that must tolerate concurrent callers: operators may call
// Emit from internal goroutines of their own.
type eventEmitter struct {
	publisher pubsub.Publisher
	channel   string
	logger    logger.Logger
	enabled   bool

	mu             sync.Mutex
	globalSequence int
	opSequences    map[string]int
}

func newEventEmitter(publisher pubsub.Publisher, channel string, log logger.Logger, enabled bool) *eventEmitter {
	return &eventEmitter{
		publisher:   publisher,
		channel:     channel,
		logger:      log,
		enabled:     enabled,
		opSequences: make(map[string]int),
	}
}

// emit assigns the next sequence number (and, if opName is set, the next
// per-operator sub-sequence) and publishes the resulting frame. Publish
// failures are logged and swallowed: streaming is auxiliary and must never
// fail the pipeline.
func (e *eventEmitter) emit(ctx context.Context, eventType string, data map[string]interface{}, opName string) {
	if !e.enabled {
		return
	}

	e.mu.Lock()
	e.globalSequence++
	seq := e.globalSequence
	var opSeq *int
	if opName != "" {
		e.opSequences[opName]++
		v := e.opSequences[opName]
		opSeq = &v
	}
	e.mu.Unlock()

	event := Event{
		Type:  eventType,
		Seq:   seq,
		Op:    opName,
		OpSeq: opSeq,
		TS:    time.Now().UTC(),
		Data:  data,
	}

	if err := e.publisher.Publish(ctx, e.channel, event); err != nil {
		e.logger.Warn("failed to publish search event", map[string]interface{}{
			"channel": e.channel,
			"type":    eventType,
			"error":   err.Error(),
		})
	}
}
