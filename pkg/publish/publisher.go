// Package publish moves analysis results to interested consumers. The
// statistics engine stays pure; dashboards and pipelines subscribe to the
// channel here instead of the engine pushing state updates itself.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Publisher delivers one analysis result to downstream consumers.
type Publisher interface {
	PublishResult(ctx context.Context, subject string, result interface{}) error
}

// Envelope is the wire format for published results.
type Envelope struct {
	Subject     string      `json:"subject"`
	PublishedAt time.Time   `json:"publishedAt"`
	Result      interface{} `json:"result"`
}

// redisPublisher broadcasts results on a Redis pub/sub channel and keeps the
// latest result per subject under a key, so late subscribers can catch up.
type redisPublisher struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRedisPublisher constructs a Publisher backed by Redis.
func NewRedisPublisher(client *redis.Client, channel string, logger *zap.Logger) Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisPublisher{client: client, channel: channel, logger: logger}
}

// PublishResult broadcasts the result and stores it as the latest value for
// its subject.
func (p *redisPublisher) PublishResult(ctx context.Context, subject string, result interface{}) error {
	data, err := json.Marshal(Envelope{
		Subject:     subject,
		PublishedAt: time.Now().UTC(),
		Result:      result,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal result for %q: %w", subject, err)
	}

	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish result for %q: %w", subject, err)
	}

	key := fmt.Sprintf("analysis:%s", subject)
	if err := p.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store latest result for %q: %w", subject, err)
	}

	p.logger.Info("Result published",
		zap.String("subject", subject),
		zap.String("channel", p.channel),
		zap.Int("bytes", len(data)))

	return nil
}

// MemoryPublisher collects published envelopes in memory, useful for tests
// and for wiring a broker-backed implementation later.
type MemoryPublisher struct {
	mu        sync.Mutex
	published []Envelope
}

// NewMemoryPublisher constructs an empty in-memory publisher.
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

// PublishResult records the envelope.
func (p *MemoryPublisher) PublishResult(ctx context.Context, subject string, result interface{}) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, Envelope{
		Subject:     subject,
		PublishedAt: time.Now().UTC(),
		Result:      result,
	})
	return nil
}

// Published returns a copy of everything recorded so far.
func (p *MemoryPublisher) Published() []Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Envelope, len(p.published))
	copy(out, p.published)
	return out
}
