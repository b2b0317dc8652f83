// Package events publishes domain events to Redis pub/sub for external
// consumers (digest builders, search indexers, dev tooling).
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"hublish/internal/middleware"
	"hublish/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Event types published on the events channel.
const (
	TypeArticleCreated    = "article.created"
	TypeArticleFavourited = "article.favourited"
	TypeArticleUnfavoured = "article.unfavourited"
	TypeUserFollowed      = "user.followed"
	TypeUserUnfollowed    = "user.unfollowed"
)

// Envelope is the wire format for a published event.
type Envelope struct {
	Type       string    `json:"type"`
	ActorID    uint      `json:"actor_id,omitempty"`
	SubjectID  uint      `json:"subject_id,omitempty"`
	Slug       string    `json:"slug,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher sends domain events to a Redis channel. Publishing is
// fire-and-forget: failures are logged and counted, never returned to
// the caller, so a broken event bus cannot fail a user request.
type Publisher struct {
	rdb     *redis.Client
	channel string
}

// NewPublisher creates a Publisher. A nil Redis client yields a
// publisher that silently drops events.
func NewPublisher(rdb *redis.Client, channel string) *Publisher {
	if channel == "" {
		channel = "hublish:events"
	}
	return &Publisher{rdb: rdb, channel: channel}
}

// Publish sends one event envelope to the channel.
func (p *Publisher) Publish(ctx context.Context, env Envelope) {
	if p == nil || p.rdb == nil {
		return
	}
	if env.OccurredAt.IsZero() {
		env.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(env)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "event marshal failed",
			slog.String("type", env.Type), slog.String("error", err.Error()))
		return
	}

	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "event publish failed",
			slog.String("type", env.Type), slog.String("error", err.Error()))
		return
	}
	observability.EventsPublished.WithLabelValues(env.Type).Inc()
}

// Subscribe subscribes to the events channel and invokes onEvent for
// each decoded envelope until ctx is cancelled. Used by dev tooling and
// tests; the API server itself only publishes.
func (p *Publisher) Subscribe(ctx context.Context, onEvent func(Envelope)) error {
	if p == nil || p.rdb == nil {
		return nil
	}
	sub := p.rdb.Subscribe(ctx, p.channel)
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var env Envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					middleware.Logger.Warn("event decode failed", slog.String("error", err.Error()))
					continue
				}
				onEvent(env)
			}
		}
	}()

	return nil
}
