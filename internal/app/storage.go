package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/score-predictor/internal/config"
	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/prediction"
	"github.com/riskibarqy/score-predictor/internal/domain/room"
	"github.com/riskibarqy/score-predictor/internal/domain/tournament"
	cacherepo "github.com/riskibarqy/score-predictor/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/score-predictor/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/score-predictor/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/score-predictor/internal/platform/cache"
	"github.com/riskibarqy/score-predictor/internal/platform/dburl"
	"github.com/riskibarqy/score-predictor/internal/platform/logging"
)

const (
	dbMaxOpenConns    = 20
	dbMaxIdleConns    = 10
	dbConnMaxLifetime = 30 * time.Minute
	dbPingTimeout     = 5 * time.Second
)

type repositories struct {
	tournaments tournament.Repository
	rooms       room.Repository
	matches     match.Repository
	predictions prediction.Repository

	// cache is nil when CACHE_ENABLED=false.
	cache *cache.Store
	close func() error
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	var repos repositories
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openPostgres(ctx, cfg)
		if err != nil {
			return repositories{}, err
		}
		repos = repositories{
			tournaments: postgres.NewTournamentRepository(db),
			rooms:       postgres.NewRoomRepository(db),
			matches:     postgres.NewMatchRepository(db),
			predictions: postgres.NewPredictionRepository(db),
			close:       db.Close,
		}
		logger.Info("storage ready", "driver", cfg.StorageDriver, "db_name", dburl.Name(cfg.DBURL))
	default:
		seedMatches := memory.SeedMatches()
		matches := memory.NewMatchRepository(seedMatches)
		repos = repositories{
			tournaments: memory.NewTournamentRepository(memory.SeedTournaments()),
			rooms:       memory.NewRoomRepository(memory.SeedRooms()),
			matches:     matches,
			predictions: memory.NewPredictionRepository(matches, memory.SeedPredictions(seedMatches)),
			close:       func() error { return nil },
		}
		logger.Info("storage ready", "driver", config.StorageMemory, "matches", len(seedMatches))
	}

	if cfg.CacheEnabled {
		store := cache.NewStore(cfg.CacheTTL)
		repos.cache = store
		repos.tournaments = cacherepo.NewTournamentRepository(repos.tournaments, store)
		repos.rooms = cacherepo.NewRoomRepository(repos.rooms, store)
		repos.matches = cacherepo.NewMatchRepository(repos.matches, store)
	}
	return repos, nil
}

func openPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := dburl.Normalize(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dburl.Name(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)
	otelsql.ReportDBStatsMetrics(db.DB, otelsql.WithDBName(dburl.Name(dsn)))

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}
