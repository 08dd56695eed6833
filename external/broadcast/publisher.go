package broadcast

import (
	"context"

	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/platform/logging"
)

type Driver string

const (
	DriverNone    Driver = "none"
	DriverLog     Driver = "log"
	DriverRedis   Driver = "redis"
	DriverWebhook Driver = "webhook"
)

// Publisher delivers match updates to one downstream channel.
type Publisher interface {
	PublishMatchUpdated(ctx context.Context, event match.UpdatedEvent) error
}

// Observer receives the outcome of every publish attempt.
type Observer interface {
	ObservePublish(driver string, err error)
}

type instrumented struct {
	next     Publisher
	driver   Driver
	observer Observer
}

// Instrument reports each publish made through next to observer.
func Instrument(next Publisher, driver Driver, observer Observer) Publisher {
	if observer == nil {
		return next
	}
	return &instrumented{next: next, driver: driver, observer: observer}
}

func (p *instrumented) PublishMatchUpdated(ctx context.Context, event match.UpdatedEvent) error {
	err := p.next.PublishMatchUpdated(ctx, event)
	p.observer.ObservePublish(string(p.driver), err)
	return err
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) PublishMatchUpdated(context.Context, match.UpdatedEvent) error {
	return nil
}

// LoggingPublisher writes events to the log instead of delivering them.
type LoggingPublisher struct {
	logger *logging.Logger
}

func NewLoggingPublisher(logger *logging.Logger) *LoggingPublisher {
	if logger == nil {
		logger = logging.Default()
	}
	return &LoggingPublisher{logger: logger}
}

func (p *LoggingPublisher) PublishMatchUpdated(ctx context.Context, event match.UpdatedEvent) error {
	p.logger.InfoContext(ctx, "match updated",
		"match_id", event.MatchID,
		"tournament_id", event.TournamentID,
		"status", string(event.Status),
		"rescored", event.Rescored,
	)
	return nil
}
