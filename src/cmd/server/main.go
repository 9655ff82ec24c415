package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	httpadapter "xmimodel/src/adapters/http"
	"xmimodel/src/helper/env"
	"xmimodel/src/infra/kafka"
	"xmimodel/src/infra/postgres"
	"xmimodel/src/infra/redis"
	"xmimodel/src/repositories"
	"xmimodel/src/services/events"
	"xmimodel/src/services/graph"
	"xmimodel/src/services/xmiimport"
)

func main() {
	log.SetOutput(os.Stdout)
	log.Println("Starting API server with Uber Fx...")

	app := fx.New(
		fx.Provide(
			newLogger,
			newReadWriteClient,
			newRedisClient,
			newKafkaClient,
			newRegistry,
			newCachedGraphRepository,
			newGraphWriteRepository,
			newGraphService,
			newImporter,
			newEventPublisher,
			newServer,
		),

		fx.Invoke(migrate, registerServerHooks),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	<-app.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Printf("Failed to stop application gracefully: %v", err)
	}
}

func newLogger() *slog.Logger {
	var level slog.Level
	switch env.GetString("LOG_LEVEL", "info") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func newReadWriteClient(lc fx.Lifecycle) (*postgres.ReadWriteClient, error) {
	read := postgres.Config{
		Host:           env.MustGetString("DB_READ_HOST"),
		Port:           env.GetString("DB_READ_PORT", "5432"),
		DBName:         env.MustGetString("DB_NAME"),
		User:           env.MustGetString("DB_USER"),
		Password:       env.MustGetString("DB_PASSWORD"),
		MaxConnections: env.GetInt("DB_MAX_POOL_CONNECTIONS", 25),
	}
	write := read
	write.Host = env.MustGetString("DB_WRITE_HOST")
	write.Port = env.GetString("DB_WRITE_PORT", "5432")

	client, err := postgres.NewReadWriteClient(read, write)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.StopHook(client.Close))
	return client, nil
}

// newRedisClient returns nil when REDIS_HOSTS is unset, which disables the tree cache.
func newRedisClient(lc fx.Lifecycle) *redis.RedisClient {
	hosts := env.GetStringSlice("REDIS_HOSTS")
	if len(hosts) == 0 {
		return nil
	}

	client := redis.NewRedisClient(hosts, env.GetInt("REDIS_POOL_SIZE", 50), env.GetDuration("REDIS_DEFAULT_TTL", 120*time.Second))
	lc.Append(fx.Hook{
		OnStart: client.HealthCheck,
		OnStop:  func(context.Context) error { return client.Close() },
	})
	return client
}

// newKafkaClient returns nil when KAFKA_BROKERS is unset, which disables import events.
func newKafkaClient(lc fx.Lifecycle) (*kafka.KafkaClient, error) {
	brokers := env.GetStringSlice("KAFKA_BROKERS")
	if len(brokers) == 0 {
		return nil, nil
	}

	client, err := kafka.NewKafkaClient(brokers, env.GetString("KAFKA_SERVER_GROUP_ID", "xmi-model-server"), env.GetInt("KAFKA_BATCH_SIZE", 100))
	if err != nil {
		return nil, err
	}

	lc.Append(fx.StopHook(client.Close))
	return client, nil
}

func newRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

func newCachedGraphRepository(readWriteClient *postgres.ReadWriteClient, redisClient *redis.RedisClient) *repositories.CachedGraphRepository {
	queryRepository := repositories.NewGraphQueryRepository(readWriteClient.GetReadPool())
	if redisClient == nil {
		return repositories.NewCachedGraphRepository(queryRepository, nil)
	}
	return repositories.NewCachedGraphRepository(queryRepository, redisClient)
}

func newGraphWriteRepository(
	readWriteClient *postgres.ReadWriteClient,
	cachedGraphRepository *repositories.CachedGraphRepository,
) *repositories.GraphWriteRepository {
	return repositories.NewGraphWriteRepository(readWriteClient.GetWritePool(), cachedGraphRepository)
}

func newGraphService(
	cachedGraphRepository *repositories.CachedGraphRepository,
	graphWriteRepository *repositories.GraphWriteRepository,
) *graph.GraphService {
	return graph.NewGraphService(cachedGraphRepository, graphWriteRepository)
}

func newImporter(logger *slog.Logger, registry *prometheus.Registry) *xmiimport.Importer {
	return xmiimport.NewImporter(logger, env.GetInt("IMPORT_WORKERS", 8), xmiimport.NewMetrics(registry))
}

func newEventPublisher(logger *slog.Logger, kafkaClient *kafka.KafkaClient) *events.DomainEventPublisher {
	if kafkaClient == nil {
		return nil
	}
	return events.NewDomainEventPublisher(logger, kafkaClient, env.GetString("KAFKA_EVENTS_TOPIC", "xmi-model-events"))
}

func newServer(
	logger *slog.Logger,
	graphService *graph.GraphService,
	importer *xmiimport.Importer,
	publisher *events.DomainEventPublisher,
	registry *prometheus.Registry,
) *httpadapter.Server {
	var eventPublisher httpadapter.EventPublisher
	if publisher != nil {
		eventPublisher = publisher
	}

	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	return httpadapter.NewServer(logger, env.GetInt("SERVER_PORT", 8888), graphService, importer, eventPublisher, metricsHandler)
}

// migrate creates the graph tables when DB_AUTO_MIGRATE is set.
func migrate(lc fx.Lifecycle, logger *slog.Logger, readWriteClient *postgres.ReadWriteClient) {
	if !env.GetBool("DB_AUTO_MIGRATE", false) {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Ensuring graph schema")
			return postgres.EnsureSchema(ctx, readWriteClient.GetWritePool())
		},
	})
}

func registerServerHooks(lc fx.Lifecycle, srv *httpadapter.Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("Server failed: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("Server forced to shutdown: %v", err)
				return err
			}
			log.Println("Server exited gracefully")
			return nil
		},
	})
}
