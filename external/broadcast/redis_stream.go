package broadcast

import (
	"context"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/platform/logging"
)

const (
	defaultStreamPrefix = "matches.updates"
	defaultStreamMaxLen = 10000
)

// streamAdder is the part of *redis.Client the publisher needs.
type streamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

type RedisStreamConfig struct {
	Prefix string
	MaxLen int64
}

// RedisStreamPublisher appends match updates to one stream per tournament.
type RedisStreamPublisher struct {
	client streamAdder
	prefix string
	maxLen int64
	logger *logging.Logger
}

func NewRedisStreamPublisher(client streamAdder, cfg RedisStreamConfig, logger *logging.Logger) *RedisStreamPublisher {
	if logger == nil {
		logger = logging.Default()
	}
	prefix := strings.Trim(strings.TrimSpace(cfg.Prefix), ".")
	if prefix == "" {
		prefix = defaultStreamPrefix
	}
	maxLen := cfg.MaxLen
	if maxLen <= 0 {
		maxLen = defaultStreamMaxLen
	}

	return &RedisStreamPublisher{
		client: client,
		prefix: prefix,
		maxLen: maxLen,
		logger: logger,
	}
}

func (p *RedisStreamPublisher) StreamKey(tournamentID string) string {
	return p.prefix + "." + tournamentID
}

func (p *RedisStreamPublisher) PublishMatchUpdated(ctx context.Context, event match.UpdatedEvent) error {
	data, err := sonic.ConfigStd.Marshal(event)
	if err != nil {
		return crerr.Wrap(err, "marshal match update")
	}

	stream := p.StreamKey(event.TournamentID)
	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"data":     string(data),
			"match_id": event.MatchID,
			"status":   string(event.Status),
		},
	}).Result()
	if err != nil {
		return crerr.Wrapf(err, "xadd stream=%s match=%s", stream, event.MatchID)
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("broadcast.stream", stream),
			attribute.String("broadcast.entry_id", id),
		)
	}
	p.logger.DebugContext(ctx, "match update published", "stream", stream, "entry_id", id, "match_id", event.MatchID)
	return nil
}
