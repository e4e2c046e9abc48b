// Package container provides dependency injection for the financeiro
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"fmt"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/classifier"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/config"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/interchange"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/logging"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/store"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/store/memory"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/store/sqlite"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	store      store.Store
	vocabulary *classifier.Vocabulary
	engine     *interchange.Engine
}

// NewContainer creates and wires all application dependencies with a logger
// built from the configuration.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, config.NewLogger(cfg))
}

// NewContainerWithLogger is NewContainer with an explicit logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	vocab, err := classifier.LoadVocabulary(cfg.Workbook.VocabularyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load header vocabulary: %w", err)
	}

	st, err := openStore(cfg.Store, logger)
	if err != nil {
		return nil, err
	}

	engine, err := interchange.New(st, vocab, cfg.Workbook.Locale, logger,
		interchange.WithCSVDelimiter(cfg.CSVDelimiter()))
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to create interchange engine: %w", err)
	}

	logger.Info("Container initialized successfully",
		logging.F("store_driver", cfg.Store.Driver),
		logging.F("locale", cfg.Workbook.Locale))

	return &Container{
		logger:     logger,
		config:     cfg,
		store:      st,
		vocabulary: vocab,
		engine:     engine,
	}, nil
}

func openStore(cfg config.StoreConfig, logger logging.Logger) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverSQLite:
		st, err := sqlite.New(cfg.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Driver)
	}
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the persistence backend.
func (c *Container) GetStore() store.Store {
	return c.store
}

// GetVocabulary returns the header vocabulary.
func (c *Container) GetVocabulary() *classifier.Vocabulary {
	return c.vocabulary
}

// GetEngine returns the workbook interchange engine.
func (c *Container) GetEngine() *interchange.Engine {
	return c.engine
}

// Close releases the store.
func (c *Container) Close() error {
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	c.logger.Info("Container closed")
	return nil
}
