package oppgave

import (
	"oppgave-sync/core/config"
	"oppgave-sync/feature/hjemmel"
	"oppgave-sync/feature/oppgave/client"
	"oppgave-sync/feature/oppgave/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	engine   *Engine
	handler  *Handler
	consumer *Consumer
}

// NewFeature wires the oppgave feature: store, remote client, engine,
// stream consumer and HTTP triggers.
func NewFeature(cfg *config.Config, db *gorm.DB, logger, secureLogger *zap.Logger) (*Feature, error) {
	s := store.New(db, logger)
	if err := s.AutoMigrate(); err != nil {
		return nil, err
	}

	c := client.NewHTTPClient(client.Config{
		BaseURL:    cfg.Oppgave.BaseURL,
		ConsumerID: cfg.Server.Name,
		PageSize:   cfg.Oppgave.PageSize,
	}, logger, secureLogger)

	extractor := hjemmel.NewExtractor(cfg.Oppgave.HjemmelList())
	engine := NewEngine(c, s, extractor, cfg.Oppgave, logger, secureLogger)

	return &Feature{
		engine:   engine,
		handler:  NewHandler(engine),
		consumer: NewConsumer(cfg.Kafka, engine, logger, secureLogger),
	}, nil
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "oppgave"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Engine exposes the reconciliation engine for one-shot CLI runs.
func (f *Feature) Engine() *Engine {
	return f.engine
}

// Consumer exposes the stream consumer for lifecycle management.
func (f *Feature) Consumer() *Consumer {
	return f.consumer
}
