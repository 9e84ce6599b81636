package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/sports-tournament/internal/config"
	"github.com/riskibarqy/sports-tournament/internal/domain/game"
	"github.com/riskibarqy/sports-tournament/internal/domain/jobscheduler"
	"github.com/riskibarqy/sports-tournament/internal/domain/leaderboard"
	"github.com/riskibarqy/sports-tournament/internal/domain/score"
	"github.com/riskibarqy/sports-tournament/internal/domain/sportevent"
	"github.com/riskibarqy/sports-tournament/internal/domain/team"
	"github.com/riskibarqy/sports-tournament/internal/infrastructure/account/anubis"
	"github.com/riskibarqy/sports-tournament/internal/infrastructure/jobqueue"
	cacherepo "github.com/riskibarqy/sports-tournament/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/sports-tournament/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/sports-tournament/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/sports-tournament/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/sports-tournament/internal/platform/cache"
	"github.com/riskibarqy/sports-tournament/internal/platform/dburl"
	idgen "github.com/riskibarqy/sports-tournament/internal/platform/id"
	"github.com/riskibarqy/sports-tournament/internal/platform/logging"
	"github.com/riskibarqy/sports-tournament/internal/usecase"
)

const shutdownDrainTimeout = 10 * time.Second

type repositories struct {
	scores       score.Repository
	games        game.Repository
	teams        team.Repository
	sportEvents  sportevent.Repository
	leaderboards leaderboard.Repository
	dispatches   jobscheduler.Repository
}

// NewHTTPServer wires storage, services and the router. The returned cleanup
// drains background recalculations and closes the database.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	var cleanups []func(context.Context) error
	cleanup := func(ctx context.Context) error {
		var errs []error
		for i := len(cleanups) - 1; i >= 0; i-- {
			errs = append(errs, cleanups[i](ctx))
		}
		return errors.Join(errs...)
	}

	ids := idgen.NewUUIDGenerator()
	repos, closeRepos, err := buildRepositories(cfg, ids, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanups = append(cleanups, closeRepos)

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.leaderboards = cacherepo.NewLeaderboardRepository(repos.leaderboards, store)
		repos.sportEvents = cacherepo.NewSportEventRepository(repos.sportEvents, store)
		repos.teams = cacherepo.NewTeamRepository(repos.teams, store)
		repos.games = cacherepo.NewGameRepository(repos.games, store)
		logger.Info("read cache enabled", "ttl", cfg.CacheTTL.String())
	}

	leaderboardSvc := usecase.NewLeaderboardService(
		repos.leaderboards,
		repos.sportEvents,
		repos.games,
		repos.teams,
		cfg.RecalcParallelism,
		logger,
	)

	trigger, closeTrigger, err := buildTrigger(cfg, leaderboardSvc, repos.dispatches, ids, logger)
	if err != nil {
		_ = cleanup(context.Background())
		return nil, nil, err
	}
	cleanups = append(cleanups, closeTrigger)

	scoreSvc := usecase.NewScoreService(repos.scores, repos.games, repos.teams, trigger, ids, logger)
	jobSvc := usecase.NewJobService(leaderboardSvc, repos.dispatches, logger)

	anubisClient := anubis.NewClient(
		&http.Client{Timeout: cfg.AnubisTimeout},
		cfg.AnubisBaseURL,
		cfg.AnubisIntrospectURL,
		cfg.AnubisAdminKey,
		cfg.AnubisCircuit,
		logger,
	)

	handler := httpapi.NewHandler(scoreSvc, leaderboardSvc, jobSvc, logger)
	router := httpapi.NewRouter(handler, anubisClient, logger, httpapi.RouterConfig{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return server, cleanup, nil
}

func buildRepositories(cfg config.Config, ids idgen.Generator, logger *logging.Logger) (repositories, func(context.Context) error, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openDatabase(cfg)
		if err != nil {
			return repositories{}, nil, err
		}
		if cfg.SeedDemoData {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			err := postgres.BootstrapSeed(ctx, db)
			cancel()
			if err != nil {
				_ = db.Close()
				return repositories{}, nil, fmt.Errorf("bootstrap seed: %w", err)
			}
		}
		logger.Info("storage ready", "driver", config.StoragePostgres, "db_name", dburl.Name(cfg.DBURL))
		return repositories{
			scores:       postgres.NewScoreRepository(db),
			games:        postgres.NewGameRepository(db),
			teams:        postgres.NewTeamRepository(db),
			sportEvents:  postgres.NewSportEventRepository(db),
			leaderboards: postgres.NewLeaderboardRepository(db, ids),
			dispatches:   postgres.NewJobDispatchRepository(db),
		}, func(context.Context) error { return db.Close() }, nil

	default:
		var (
			events  []sportevent.SportEvent
			teams   []team.Team
			players []team.Player
			games   []game.Game
		)
		if cfg.SeedDemoData {
			events, teams, players, games = memory.SeedSportEvents(), memory.SeedTeams(), memory.SeedPlayers(), memory.SeedGames()
		}
		scoreRepo := memory.NewScoreRepository()
		gameRepo := memory.NewGameRepository(games)
		logger.Info("storage ready", "driver", config.StorageMemory, "seeded", cfg.SeedDemoData)
		return repositories{
			scores:       scoreRepo,
			games:        gameRepo,
			teams:        memory.NewTeamRepository(teams, players),
			sportEvents:  memory.NewSportEventRepository(events),
			leaderboards: memory.NewLeaderboardRepository(memory.NewGameResults(scoreRepo, gameRepo), ids),
			dispatches:   memory.NewJobDispatchRepository(),
		}, func(context.Context) error { return nil }, nil
	}
}

func openDatabase(cfg config.Config) (*sqlx.DB, error) {
	dsn := dburl.Normalize(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dburl.Name(dsn)),
		otelsql.WithQueryFormatter(dburl.FormatQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func buildTrigger(
	cfg config.Config,
	recalc usecase.Recalculator,
	dispatches jobscheduler.Repository,
	ids idgen.Generator,
	logger *logging.Logger,
) (usecase.RecalculationTrigger, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	inline := usecase.NewInlineTrigger(recalc, logger)

	switch cfg.RecalcMode {
	case config.RecalcAsync:
		async, err := usecase.NewAsyncTrigger(recalc, dispatches, ids, usecase.AsyncTriggerConfig{
			Workers:      cfg.RecalcWorkers,
			MaxAttempts:  cfg.RecalcMaxAttempts,
			RetryBackoff: cfg.RecalcRetryBackoff,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("leaderboard recalculation mode", "mode", config.RecalcAsync, "workers", cfg.RecalcWorkers)
		return async, func(context.Context) error { return async.Close(shutdownDrainTimeout) }, nil

	case config.RecalcQStash:
		publisher, err := jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			Timeout:          cfg.QStashTimeout,
			CircuitBreaker:   cfg.QStashCircuit,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("build qstash publisher: %w", err)
		}
		logger.Info("leaderboard recalculation mode", "mode", config.RecalcQStash)
		return usecase.NewQueueTrigger(publisher, inline, dispatches, ids, logger), noop, nil

	default:
		logger.Info("leaderboard recalculation mode", "mode", config.RecalcInline)
		return inline, noop, nil
	}
}
