package di

import (
	"fmt"

	"BackScan/internal/domain/repository"
	"BackScan/internal/handler/api"
	internalrepo "BackScan/internal/repository"
	svccache "BackScan/internal/service/cache"
	"BackScan/internal/service/catalog"
	"BackScan/internal/service/engine"
	"BackScan/internal/service/ratelimit"
	"BackScan/internal/usecase"
	"BackScan/pkg/config"
	xhttp "BackScan/pkg/http"
	pkgkafka "BackScan/pkg/kafka"
	applogger "BackScan/pkg/logger"
	"BackScan/pkg/metrics"
	"BackScan/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideEngineClient creates the backtest engine HTTP client.
func ProvideEngineClient(cfg *config.Config) *engine.Client {
	return engine.NewClient(engine.Config{
		BaseURL: cfg.Engine.BaseURL,
		Timeout: cfg.Engine.Timeout,
	})
}

// ProvideEngine exposes the client through the domain port.
func ProvideEngine(c *engine.Client) repository.Engine {
	return c
}

// ProvideCache selects the catalog cache backend. Redis adds a shared layer
// behind the in-process one.
func ProvideCache(cfg *config.Config) svccache.BytesCache {
	if !cfg.Redis.Enabled {
		return svccache.NewTTLCache()
	}
	return svccache.NewLayered(svccache.NewRedisCache(svccache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}))
}

// ProvideCatalog wraps the engine's symbol listing with caching.
func ProvideCatalog(c *engine.Client, cache svccache.BytesCache, cfg *config.Config) repository.Catalog {
	return catalog.NewCached(c, cache, cfg.Scan.CatalogCacheTTL)
}

// ProvideStore creates the in-memory result store.
func ProvideStore() *usecase.ResultStore {
	return usecase.NewResultStore()
}

// ProvideRunner creates the scan runner writing into the store.
func ProvideRunner(
	eng repository.Engine,
	cat repository.Catalog,
	store *usecase.ResultStore,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.ScanRunner {
	return usecase.NewScanRunner(eng, cat, store, m, l)
}

// ProvideStreamHub creates the WebSocket broadcast hub.
func ProvideStreamHub(l *applogger.Logger) *api.StreamHub {
	return api.NewStreamHub(l)
}

// ProvidePublisher creates the Kafka scan-event publisher, or nil when
// publishing is disabled.
func ProvidePublisher(cfg *config.Config) (repository.Publisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaScanPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideLimiter creates the ad-hoc engine-call limiter, or nil when the
// rate ceiling is unset.
func ProvideLimiter(cfg *config.Config) *ratelimit.Limiter {
	if cfg.Engine.MaxRPS <= 0 {
		return nil
	}
	// Allow short bursts of twice the sustained rate.
	return ratelimit.New(2*cfg.Engine.MaxRPS, cfg.Engine.MaxRPS)
}

// ProvideHandler creates the scan control-surface handler.
func ProvideHandler(
	l *applogger.Logger,
	runner *usecase.ScanRunner,
	store *usecase.ResultStore,
	eng repository.Engine,
	cat repository.Catalog,
	hub *api.StreamHub,
	limiter *ratelimit.Limiter,
	cfg *config.Config,
) xhttp.Handler {
	return api.NewScanEchoHandler(l, runner, store, eng, cat, hub, limiter, cfg.Scan.PageSize)
}

// ProvideApp creates the application server and wires run observers.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	runner *usecase.ScanRunner,
	hub *api.StreamHub,
	pub repository.Publisher,
	cache svccache.BytesCache,
) *server.App {
	runner.AddObserver(hub)
	if pub != nil {
		runner.AddObserver(usecase.NewPublisherObserver(pub, l))
	}
	return server.New(cfg, l, handler, pub, cache)
}
