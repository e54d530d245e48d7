package wire

import (
	"context"
	"fmt"
	"log"
	"time"

	"gofun/internal/cache"
	"gofun/internal/common"
	"gofun/internal/config"
	"gofun/internal/dbmongo"
	"gofun/internal/events"
	"gofun/internal/funs"
	"gofun/internal/media"
	"gofun/internal/metrics"
	"gofun/internal/user"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Application struct {
	Config   *config.Config
	DB       *gorm.DB
	Service  *funs.Service
	Handlers *funs.FunHandlers
	Media    *media.HTTPServer
	Metrics  *metrics.Metrics
	Bus      *events.Bus
	Users    user.UserService
	UserAPI  *user.Handler
}

var StoreSet = wire.NewSet(
	funs.NewFunRepository,
	wire.Bind(new(funs.Store), new(*funs.FunRepository)),
	user.NewUserRepository,
	user.NewFollowRepository,
	wire.Bind(new(common.FollowGraph), new(*user.FollowRepository)),
	wire.Bind(new(user.FollowStore), new(*user.FollowRepository)),
	user.NewUserService,
	user.NewHandler,
)

var EngineSet = wire.NewSet(
	funs.NewService,
	wire.Bind(new(funs.FunUsecase), new(*funs.Service)),
	funs.NewFunHandlers,
	wire.Bind(new(common.Subject), new(*events.Bus)),
)

// ProvideMongo returns nil when Mongo is disabled.
func ProvideMongo(cfg *config.Config) (*dbmongo.MongoClient, func(), error) {
	if !cfg.MongoDB.Enabled {
		log.Println("MongoDB disabled, media uploads are off")
		return nil, func() {}, nil
	}
	mc, err := dbmongo.NewMongoConnection(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mc.Close(ctx); err != nil {
			log.Printf("Failed to disconnect MongoDB: %v", err)
		}
	}
	return mc, cleanup, nil
}

// ProvideRedis returns nil when Redis is disabled.
func ProvideRedis(cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Redis.Enabled {
		return nil, func() {}, nil
	}
	rdb, err := cache.NewRedisClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return rdb, func() { _ = rdb.Close() }, nil
}

func ProvideMediaStore(mc *dbmongo.MongoClient) common.MediaStore {
	if mc == nil {
		return nil
	}
	return dbmongo.NewMediaStorage(mc)
}

func ProvideMediaServer(store common.MediaStore) *media.HTTPServer {
	if store == nil {
		return nil
	}
	return media.NewHTTPServer(store)
}

// ProvideSearchIndex picks the configured backend and puts the Redis cache in
// front of it when Redis is on.
func ProvideSearchIndex(cfg *config.Config, store funs.Store, mc *dbmongo.MongoClient, rdb *redis.Client) (common.SearchIndex, error) {
	var index common.SearchIndex
	switch cfg.Search.Backend {
	case "", "mysql":
		index = funs.NewTagSearch(store, cfg)
	case "mongo":
		if mc == nil {
			return nil, fmt.Errorf("search backend mongo needs MONGO_ENABLED")
		}
		tagIndex := dbmongo.NewTagIndex(mc, cfg)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tagIndex.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		index = tagIndex
	default:
		return nil, fmt.Errorf("unknown search backend %q", cfg.Search.Backend)
	}
	log.Printf("✅ Search backend: %s", cfg.Search.Backend)

	if rdb != nil {
		return cache.NewSearchCache(index, rdb, cfg.SearchCacheTTL()), nil
	}
	return index, nil
}

func ProvideMetrics() *metrics.Metrics {
	return metrics.New(prometheus.DefaultRegisterer)
}

// ProvideEventBus subscribes the log and metrics observers, plus NATS and
// Kafka when enabled. Cleanup drains the bus before closing the brokers.
func ProvideEventBus(cfg *config.Config, m *metrics.Metrics) (*events.Bus, func(), error) {
	bus := events.NewBus(cfg.Events.Workers, cfg.Events.QueueSize)
	bus.Subscribe(events.NewLogObserver())
	bus.Subscribe(m)

	var closers []func()
	if cfg.NATS.Enabled {
		nc, err := events.NewNATSConnection(cfg)
		if err != nil {
			bus.Shutdown()
			return nil, nil, err
		}
		bus.Subscribe(events.NewNATSObserver(nc, cfg.NATS.SubjectPrefix))
		closers = append(closers, func() {
			if err := nc.Drain(); err != nil {
				log.Printf("Failed to drain NATS: %v", err)
			}
		})
	}
	if cfg.Kafka.Enabled {
		writer, err := events.NewKafkaWriter(cfg)
		if err != nil {
			bus.Shutdown()
			for _, c := range closers {
				c()
			}
			return nil, nil, err
		}
		bus.Subscribe(events.NewKafkaObserver(writer))
		closers = append(closers, func() {
			if err := writer.Close(); err != nil {
				log.Printf("Failed to close Kafka writer: %v", err)
			}
		})
	}

	cleanup := func() {
		bus.Shutdown()
		for _, c := range closers {
			c()
		}
	}
	return bus, cleanup, nil
}
