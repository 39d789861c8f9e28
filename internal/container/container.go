package container

import (
	"fmt"
	"net/http"
	"os"

	"go-newton-rings/internal/analyzer"
	"go-newton-rings/internal/config"
	"go-newton-rings/internal/factory"
	"go-newton-rings/internal/history"
	"go-newton-rings/internal/logger"
	"go-newton-rings/internal/observer"
	"go-newton-rings/internal/repository"
	"go-newton-rings/internal/service"
	"go-newton-rings/internal/storage"
	"go-newton-rings/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	serverConfig       *config.ServerConfig
	measurementConfig  *config.Config
	imageFetcher       storage.ImageFetcher
	ringAnalyzer       analyzer.RingAnalyzer
	imageRepository    repository.ImageRepository
	measurementService service.MeasurementService
	historyStore       history.Store
	eventPublisher     observer.Subject
	metrics            *observer.MetricsObserver
	handler            http.Handler
}

// NewContainer creates a new dependency injection container.
//
// Measurement settings come from the YAML file named by CONFIG_FILE when set,
// otherwise the built-in defaults apply. Server settings always come from the
// environment. HISTORY_DB names the SQLite history database; leaving it empty
// disables the history store and the /measurements endpoint.
func NewContainer() (*Container, error) {
	serverCfg, err := config.LoadServerFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	measurementCfg := config.NewConfig()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		measurementCfg, err = config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load measurement config: %w", err)
		}
	}

	// Build dependency graph. STORAGE_BACKEND selects where interferograms
	// come from (http, azure or local); http is the default.
	backend := factory.StorageType(getEnvOrDefault("STORAGE_BACKEND", string(factory.HTTPStorage)))
	imageFetcher, err := factory.NewStorageFactory().CreateStorage(backend)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage backend: %w", err)
	}
	ringAnalyzer := analyzer.NewRingAnalyzer(analyzer.DefaultWorkers)
	imageRepository := repository.NewHTTPImageRepository(imageFetcher)
	measurementService := service.NewMeasurementService(
		imageRepository, ringAnalyzer, analyzer.OptionsFromConfig(measurementCfg))

	var historyStore history.Store
	if path := os.Getenv("HISTORY_DB"); path != "" {
		historyStore, err = history.NewSQLiteStore(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open history store: %w", err)
		}
	}

	metrics := observer.NewMetricsObserver()
	eventPublisher := observer.NewEventPublisher()
	eventPublisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	eventPublisher.Subscribe(metrics)

	handler := transport.NewHandler(measurementService, historyStore, eventPublisher, metrics, serverCfg)

	return &Container{
		serverConfig:       serverCfg,
		measurementConfig:  measurementCfg,
		imageFetcher:       imageFetcher,
		ringAnalyzer:       ringAnalyzer,
		imageRepository:    imageRepository,
		measurementService: measurementService,
		historyStore:       historyStore,
		eventPublisher:     eventPublisher,
		metrics:            metrics,
		handler:            handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// ServerConfig returns the server configuration
func (c *Container) ServerConfig() *config.ServerConfig {
	return c.serverConfig
}

// MeasurementConfig returns the measurement configuration
func (c *Container) MeasurementConfig() *config.Config {
	return c.measurementConfig
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Close releases the analyzer worker pool and the history store.
func (c *Container) Close() error {
	var firstErr error
	if err := c.ringAnalyzer.Close(); err != nil {
		firstErr = err
	}
	if c.historyStore != nil {
		if err := c.historyStore.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
