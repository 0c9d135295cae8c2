package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gomind-search/pipeline/pkg/logger"
)

// RedisPublisher publishes events over a Redis PUBLISH channel.
//
// It verifies the connection with a bounded retry loop and guards Publish
// with a circuit breaker: a bad connection degrades to publish errors that
// are returned to the caller (and skipped outright while the breaker is
// open) rather than a panic or a hang in the caller's pipeline run.
type RedisPublisher struct {
	client *redis.Client
	logger logger.Logger

	mu                  sync.Mutex
	cbThreshold         int
	cbCooldown          time.Duration
	consecutiveFailures int
	circuitOpenUntil    time.Time
}

// NewRedisPublisher dials Redis and verifies connectivity with a bounded
// retry loop before returning.
func NewRedisPublisher(redisURL string, log logger.Logger) (*RedisPublisher, error) {
	if log == nil {
		log = logger.NewDefaultLogger()
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Error("failed to parse redis URL", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	p := &RedisPublisher{
		client:      redis.NewClient(opts),
		logger:      log,
		cbThreshold: 5,
		cbCooldown:  2 * time.Minute,
	}

	if err := p.connectWithRetry(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis after retries: %w", err)
	}

	return p, nil
}

func (p *RedisPublisher) connectWithRetry() error {
	tracer := otel.Tracer("search.pubsub")
	ctx, span := tracer.Start(context.Background(), "RedisPublisher.Connect")
	defer span.End()

	const maxRetries = 3
	for attempt := 0; attempt < maxRetries; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := p.client.Ping(pingCtx).Err()
		cancel()

		if err == nil {
			p.logger.Info("connected to redis pubsub", map[string]interface{}{
				"attempt": attempt + 1,
			})
			span.SetStatus(codes.Ok, "connected")
			return nil
		}

		p.logger.Warn("failed to connect to redis pubsub", map[string]interface{}{
			"attempt": attempt + 1,
			"error":   err.Error(),
		})
		span.RecordError(err)

		if attempt < maxRetries-1 {
			backoff := time.Duration(math.Pow(2, float64(attempt+1))) * time.Second
			time.Sleep(backoff)
		}
	}

	span.SetStatus(codes.Error, "connection failed")
	return fmt.Errorf("failed to connect to redis after %d attempts", maxRetries)
}

// circuitOpen reports whether recent publish failures have tripped the
// breaker, in which case Publish short-circuits without touching Redis.
func (p *RedisPublisher) circuitOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.circuitOpenUntil.IsZero() && time.Now().Before(p.circuitOpenUntil)
}

func (p *RedisPublisher) recordFailure() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.consecutiveFailures++
	if p.consecutiveFailures >= p.cbThreshold {
		p.circuitOpenUntil = time.Now().Add(p.cbCooldown)
	}
}

func (p *RedisPublisher) recordSuccess() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.consecutiveFailures = 0
	p.circuitOpenUntil = time.Time{}
}

// Publish marshals payload to JSON and publishes it on channel. Every
// failure is returned to the caller and never panics; Redis publish
// failures are also logged, while circuit-open and marshal failures are
// only returned. Callers that treat
// event delivery as best-effort (as the executor does) can safely ignore
// the error.
func (p *RedisPublisher) Publish(ctx context.Context, channel string, payload interface{}) error {
	tracer := otel.Tracer("search.pubsub")
	ctx, span := tracer.Start(ctx, "RedisPublisher.Publish",
		trace.WithAttributes(attribute.String("pubsub.channel", channel)),
	)
	defer span.End()

	if p.circuitOpen() {
		err := fmt.Errorf("redis pubsub circuit open, skipping publish on %s", channel)
		span.RecordError(err)
		return err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "marshal failed")
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
		p.recordFailure()
		p.logger.Warn("failed to publish event", map[string]interface{}{
			"channel": channel,
			"error":   err.Error(),
		})
		span.RecordError(err)
		span.SetStatus(codes.Error, "publish failed")
		return fmt.Errorf("failed to publish on %s: %w", channel, err)
	}

	p.recordSuccess()
	return nil
}

// Close releases the underlying Redis connection pool.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
