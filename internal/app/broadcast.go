package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/riskibarqy/score-predictor/external/broadcast"
	"github.com/riskibarqy/score-predictor/internal/config"
	"github.com/riskibarqy/score-predictor/internal/platform/logging"
	"github.com/riskibarqy/score-predictor/internal/platform/resilience"
)

const redisPingTimeout = 3 * time.Second

// buildPublisher returns the publisher for the configured driver and a close
// func for any client it opened. An unreachable redis is logged, not fatal;
// XADD failures surface per publish instead.
func buildPublisher(ctx context.Context, cfg config.BroadcastConfig, observer broadcast.Observer, logger *logging.Logger) (broadcast.Publisher, func() error, error) {
	noClose := func() error { return nil }
	logger = logger.Named("broadcast")

	var (
		pub     broadcast.Publisher
		closeFn = noClose
	)
	switch cfg.Driver {
	case config.BroadcastNone, "":
		return broadcast.NopPublisher{}, noClose, nil
	case config.BroadcastLog:
		pub = broadcast.NewLoggingPublisher(logger)
	case config.BroadcastRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		if err := client.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis ping failed", "addr", cfg.RedisAddr, "error", err)
		}
		cancel()
		pub = broadcast.NewRedisStreamPublisher(client, broadcast.RedisStreamConfig{
			Prefix: cfg.StreamPrefix,
			MaxLen: cfg.StreamMaxLen,
		}, logger)
		closeFn = client.Close
	case config.BroadcastWebhook:
		webhook, err := broadcast.NewWebhookPublisher(broadcast.WebhookConfig{
			URL:     cfg.WebhookURL,
			Token:   cfg.WebhookToken,
			Timeout: cfg.WebhookTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.Circuit.Enabled,
				FailureThreshold: cfg.Circuit.FailureCount,
				OpenTimeout:      cfg.Circuit.OpenTimeout,
				HalfOpenMaxReq:   cfg.Circuit.HalfOpenMaxReq,
			},
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("build webhook publisher: %w", err)
		}
		pub = webhook
	default:
		return nil, nil, fmt.Errorf("unknown broadcast driver %q", cfg.Driver)
	}

	logger.Info("broadcast enabled", "driver", cfg.Driver)
	return broadcast.Instrument(pub, broadcast.Driver(cfg.Driver), observer), closeFn, nil
}
