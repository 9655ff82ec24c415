package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"xmimodel/src/adapters/kafka/consumers"
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
	log.Println("Starting xmi document consumer with Uber Fx...")

	app := fx.New(
		fx.Provide(
			newLogger,
			newReadWriteClient,
			newRedisClient,
			newKafkaClient,
			newCachedGraphRepository,
			newGraphWriteRepository,
			newGraphService,
			newImporter,
			newEventPublisher,
			newXmiDocumentConsumer,
		),

		fx.Invoke(serveMetrics, startConsumer),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start consumer application: %v", err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Println("Shutting down xmi document consumer...")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()

	if err := app.Stop(stopCtx); err != nil {
		log.Printf("Failed to stop application gracefully: %v", err)
	}

	log.Println("Xmi document consumer shutdown complete")
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

// newRedisClient returns nil when REDIS_HOSTS is unset. Synced trees are then not
// invalidated, so only run without it when the server runs without a cache too.
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

func newKafkaClient() (*kafka.KafkaClient, error) {
	return kafka.NewKafkaClient(
		env.GetStringSlice("KAFKA_BROKERS"),
		env.MustGetString("KAFKA_XMI_CONSUMER_GROUP_ID"),
		env.MustGetInt("KAFKA_BATCH_SIZE"),
	)
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

func newImporter(logger *slog.Logger) *xmiimport.Importer {
	return xmiimport.NewImporter(logger, env.GetInt("IMPORT_WORKERS", 8), xmiimport.NewMetrics(prometheus.DefaultRegisterer))
}

func newEventPublisher(logger *slog.Logger, kafkaClient *kafka.KafkaClient) *events.DomainEventPublisher {
	return events.NewDomainEventPublisher(logger, kafkaClient, env.GetString("KAFKA_EVENTS_TOPIC", "xmi-model-events"))
}

func newXmiDocumentConsumer(
	logger *slog.Logger,
	importer *xmiimport.Importer,
	graphService *graph.GraphService,
	publisher *events.DomainEventPublisher,
) *consumers.XmiDocumentConsumer {
	return consumers.NewXmiDocumentConsumer(logger, importer, graphService, publisher)
}

// serveMetrics exposes the default registry on METRICS_ADDR when it is set.
func serveMetrics(lc fx.Lifecycle, logger *slog.Logger) {
	addr := env.GetString("METRICS_ADDR")
	if addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("Metrics server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: srv.Shutdown,
	})
}

func startConsumer(
	lc fx.Lifecycle,
	logger *slog.Logger,
	kafkaClient *kafka.KafkaClient,
	consumer *consumers.XmiDocumentConsumer,
) {
	consumeCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			topic := env.MustGetString("KAFKA_XMI_DOCUMENTS_TOPIC")
			logger.Info("Starting xmi document consumer", "topic", topic)

			go func() {
				defer close(done)
				if err := consumer.Start(consumeCtx, kafkaClient, topic); err != nil {
					logger.Error("Consumer failed", "error", err)
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-ctx.Done():
			}

			logger.Info("Shutting down Kafka client...")
			if err := kafkaClient.Close(); err != nil {
				logger.Error("Failed to close Kafka client", "error", err)
				return err
			}
			logger.Info("Kafka client shut down gracefully")
			return nil
		},
	})
}
