package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/kapofest/cheerboard/external/gatekeeper"
	"github.com/kapofest/cheerboard/internal/config"
	"github.com/kapofest/cheerboard/internal/domain/match"
	"github.com/kapofest/cheerboard/internal/domain/post"
	"github.com/kapofest/cheerboard/internal/domain/tap"
	"github.com/kapofest/cheerboard/internal/domain/team"
	cacherepo "github.com/kapofest/cheerboard/internal/infrastructure/repository/cache"
	"github.com/kapofest/cheerboard/internal/infrastructure/repository/memory"
	"github.com/kapofest/cheerboard/internal/infrastructure/repository/postgres"
	"github.com/kapofest/cheerboard/internal/interfaces/httpapi"
	basecache "github.com/kapofest/cheerboard/internal/platform/cache"
	idgen "github.com/kapofest/cheerboard/internal/platform/id"
	"github.com/kapofest/cheerboard/internal/platform/logging"
	"github.com/kapofest/cheerboard/internal/platform/resilience"
	"github.com/kapofest/cheerboard/internal/usecase"
)

// App holds the wired HTTP server and the background battle poller. The
// poller is exposed so the entrypoint controls its lifecycle explicitly.
type App struct {
	Server *http.Server
	Poller *usecase.BattlePoller

	db *sqlx.DB
}

type repositories struct {
	teams   team.Repository
	matches match.Repository
	taps    tap.Repository
	posts   post.Repository
	db      *sqlx.DB
}

// New wires repositories, services, and the HTTP router. An empty DB_URL
// selects the seeded in-memory store, which is the local development mode.
func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.teams = cacherepo.NewTeamRepository(repos.teams, store)
		repos.matches = cacherepo.NewMatchRepository(repos.matches, store)
	}

	cheerService := usecase.NewCheerService(repos.matches, repos.teams, repos.taps, logger)
	feedService := usecase.NewFeedService(repos.posts)
	battleService := usecase.NewBattleService(
		feedService,
		usecase.NewSideClassifier(cfg.HomeSchoolToken, cfg.AwaySchoolToken),
	)
	battlePoller := usecase.NewBattlePoller(battleService, logger, cfg.BattlePollInterval, cfg.BattleMaxItems)
	auditService := usecase.NewTapAuditService(repos.matches, repos.taps, logger)

	verifier := gatekeeper.NewClient(gatekeeper.ClientConfig{
		BaseURL:        cfg.GatekeeperBaseURL,
		IntrospectPath: cfg.GatekeeperIntrospectPath,
		Timeout:        cfg.GatekeeperTimeout,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.GatekeeperCircuitEnabled,
			FailureThreshold: cfg.GatekeeperCircuitFailureCount,
			OpenTimeout:      cfg.GatekeeperCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.GatekeeperCircuitHalfOpenReq,
		},
	}, logger)

	handler := httpapi.NewHandler(cheerService, feedService, battlePoller, auditService, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Server: server,
		Poller: battlePoller,
		db:     repos.db,
	}, nil
}

// Close releases resources held by the app. The HTTP server and poller are
// stopped by the entrypoint before this runs.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}

	return a.db.Close()
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, error) {
	dbURL := strings.TrimSpace(cfg.DBURL)
	if dbURL == "" {
		logger.Info("using in-memory repositories", "reason", "DB_URL empty")

		return repositories{
			teams:   memory.NewTeamRepository(memory.SeedTeams()),
			matches: memory.NewMatchRepository(memory.SeedMatches()),
			taps:    memory.NewTapRepository(),
			posts:   memory.NewPostRepository(memory.SeedPosts()),
		}, nil
	}

	db, err := otelsqlx.Open("postgres", normalizeDBURL(dbURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dbURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, fmt.Errorf("open database: %w", err)
	}

	logger.Info("using postgres repositories", "database", dbNameFromURL(dbURL))

	return repositories{
		teams:   postgres.NewTeamRepository(db),
		matches: postgres.NewMatchRepository(db),
		taps:    postgres.NewTapRepository(db, idgen.NewRandomGenerator()),
		posts:   postgres.NewPostRepository(db),
		db:      db,
	}, nil
}
