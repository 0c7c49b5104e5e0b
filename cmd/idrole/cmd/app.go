package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/smartplace/idrole/pkg/config"
	"github.com/smartplace/idrole/pkg/identity"
	"github.com/smartplace/idrole/pkg/logger"
	"github.com/smartplace/idrole/pkg/mongo"
	"github.com/smartplace/idrole/pkg/paper"
	"github.com/smartplace/idrole/pkg/paper/mongostore"
	"github.com/smartplace/idrole/pkg/paper/pgstore"
	"github.com/smartplace/idrole/pkg/paper/redispub"
	"github.com/smartplace/idrole/pkg/permission"
	"github.com/smartplace/idrole/pkg/pg"
	"github.com/smartplace/idrole/pkg/redis"
)

const (
	storePostgres = "postgres"
	storeMongo    = "mongo"
	storeMemory   = "memory"
)

var (
	errUnknownStore  = errors.New("idrole.unknown_store")
	errNeedsPostgres = errors.New("idrole.postgres_required")
	errNeedsRedis    = errors.New("idrole.redis_required")
)

// app holds everything a command needs. Connections are opened once per run.
type app struct {
	log      *slog.Logger
	store    paper.Store
	service  *paper.Service
	builder  *identity.Builder
	resolver *permission.Resolver

	pgConfig    pg.Config
	pool        *pgxpool.Pool
	mongo       *mongodriver.Client
	redis       *goredis.Client
	redispubCfg redispub.Config
}

type appCtxKey struct{}

func withApp(ctx context.Context, a *app) context.Context {
	return context.WithValue(ctx, appCtxKey{}, a)
}

func appFromContext(ctx context.Context) (*app, bool) {
	a, ok := ctx.Value(appCtxKey{}).(*app)
	return a, ok
}

func mustApp(ctx context.Context) *app {
	a, ok := appFromContext(ctx)
	if !ok {
		panic("idrole: app not initialized")
	}
	return a
}

func newApp(ctx context.Context, opts rootOptions, logOutput io.Writer) (*app, error) {
	if len(opts.envFiles) > 0 {
		if err := config.LoadEnv(opts.envFiles...); err != nil {
			return nil, err
		}
	}

	var logCfg logger.Config
	if err := config.Load(&logCfg); err != nil {
		return nil, err
	}
	log := logger.New(
		logger.WithConfig(logCfg),
		logger.WithOutput(logOutput),
		logger.WithContextExtractors(identity.LoggerExtractor()),
	)

	a := &app{log: log}

	switch opts.store {
	case storeMemory:
		a.store = paper.NewMemoryStore()
	case storePostgres:
		if err := config.Load(&a.pgConfig); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, a.pgConfig)
		if err != nil {
			return nil, err
		}
		a.pool = pool
		a.store = pgstore.New(pool)
	case storeMongo:
		var mongoCfg mongo.Config
		if err := config.Load(&mongoCfg); err != nil {
			return nil, err
		}
		db, err := mongo.ConnectDatabase(ctx, mongoCfg)
		if err != nil {
			return nil, err
		}
		a.mongo = db.Client()
		store := mongostore.New(db)
		if err := store.EnsureIndexes(ctx); err != nil {
			a.Close()
			return nil, err
		}
		a.store = store
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownStore, opts.store)
	}

	publisher := paper.NewNoopPublisher()
	var redisCfg redis.Config
	if err := config.Load(&redisCfg); err == nil && redisCfg.ConnectionURL != "" {
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redis = client
		if err := config.Load(&a.redispubCfg); err != nil {
			a.Close()
			return nil, err
		}
		publisher = redispub.New(client, a.redispubCfg, redispub.WithLogger(log))
	} else {
		log.DebugContext(ctx, "redis not configured, paper events are dropped")
	}

	resolver, err := permission.NewResolver(ctx, permission.DefaultMatrixSource())
	if err != nil {
		a.Close()
		return nil, err
	}

	a.resolver = resolver
	a.service = paper.NewService(a.store, paper.WithPublisher(publisher), paper.WithLogger(log))
	a.builder = identity.NewBuilder(a.store, identity.WithLogger(log))

	if opts.seed != "" {
		if err := seedFile(ctx, a.store, opts.seed); err != nil {
			a.Close()
			return nil, err
		}
		log.DebugContext(ctx, "fixture written", slog.String("file", opts.seed))
	}
	return a, nil
}

// Close releases open connections.
func (a *app) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.mongo != nil {
		if err := a.mongo.Disconnect(context.Background()); err != nil {
			a.log.Warn("failed to disconnect mongodb client", logger.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("failed to close redis client", logger.Error(err))
		}
	}
	a.log.Debug("connections released")
}
